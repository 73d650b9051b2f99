package session

import (
	"time"

	"nspire/app/service/locale"
)

// State is the dialogue position of a single user.
type State int

const (
	StateNew State = iota
	StateAwaitingName
	StateAwaitingForWhom
	StateAwaitingTargetName
	StateAwaitingService
	StateAwaitingDocuments
	StateInChat
	StateAwaitingCloseConfirm
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateAwaitingName:
		return "awaiting_name"
	case StateAwaitingForWhom:
		return "awaiting_for_whom"
	case StateAwaitingTargetName:
		return "awaiting_target_name"
	case StateAwaitingService:
		return "awaiting_service"
	case StateAwaitingDocuments:
		return "awaiting_documents"
	case StateInChat:
		return "in_chat"
	case StateAwaitingCloseConfirm:
		return "awaiting_close_confirm"
	default:
		return "invalid"
	}
}

// Fields are the slots the dialogue collects before generation starts.
type Fields struct {
	Name          string
	ForWhom       string
	TargetName    string
	Service       string
	UserDocuments string
}

// Session is the whole per-user conversation state. It is mutated only by
// its owning mailbox worker, plus the janitor under the store lock.
type Session struct {
	UserID   string
	State    State
	Language locale.Language
	Fields   Fields
	History  []Turn
	Intent   string

	// Resume remembers where the dialogue was before a close-confirmation
	// question, so that anything but an explicit close phrase goes back there.
	Resume State

	// Epoch identifies this incarnation of the user's session. A generation
	// result is discarded when the epoch changed while the call was in flight.
	Epoch uint64

	LastSeen time.Time
}
