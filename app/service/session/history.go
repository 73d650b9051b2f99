package session

import "time"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message in the generation history.
type Turn struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// AppendTurn adds one turn to the session history. The system persona turn
// is always History[0] and is never removed or reordered.
func (s *Session) AppendTurn(role, content string) {
	s.History = append(s.History, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}
