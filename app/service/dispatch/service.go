// Package dispatch sequences everything that happens to one inbound message:
// media check, abuse check, close intent, the dialogue machine and finally
// generation. At most one reply leaves per inbound message.
package dispatch

import (
	"context"
	"log/slog"
	"slices"

	"nspire/app/client/whatsapp"
	"nspire/app/service/classify"
	"nspire/app/service/dialog"
	"nspire/app/service/generate"
	"nspire/app/service/locale"
	"nspire/app/service/queue"
	"nspire/app/service/session"

	"github.com/samber/do"
)

// Sender delivers one outbound reply; the transport owns auth and retries.
type Sender interface {
	SendText(ctx context.Context, to, text string) error
}

// Generator produces free-form replies and intent labels from history.
type Generator interface {
	Reply(ctx context.Context, history []session.Turn, lang locale.Language, intent string) string
	ExtractIntent(ctx context.Context, history []session.Turn) string
}

type Service struct {
	sessions *session.Service
	gen      Generator
	sender   Sender
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		sessions: do.MustInvoke[*session.Service](di),
		gen:      do.MustInvoke[*generate.Service](di),
		sender:   do.MustInvoke[*whatsapp.Client](di),
	}, nil
}

// HandleMessage processes one inbound message end to end. It runs on the
// user's mailbox worker, so calls for the same user are already serialized
// and replies go out in arrival order.
func (s *Service) HandleMessage(ctx context.Context, msg queue.Message) {
	if msg.Type != "text" {
		s.send(ctx, msg.UserID, locale.Text(locale.KeyMediaNotSupported, s.languageOf(msg.UserID, "")))
		return
	}

	result := classify.Classify(msg.Text)

	if result.Abusive {
		count := s.sessions.RecordAbuse(msg.UserID)
		slog.Warn("Abusive message",
			"user_id", msg.UserID,
			"abuse_count", count)

		s.send(ctx, msg.UserID, locale.Text(locale.KeyAbuseWarning, s.languageOf(msg.UserID, msg.Text)))
		return
	}

	if result.LanguageChange != "" {
		if sess, ok := s.sessions.Get(msg.UserID); ok {
			sess.Language = result.LanguageChange
		}

		s.send(ctx, msg.UserID, locale.Text(locale.KeyLanguageChanged, result.LanguageChange))
		return
	}

	if done := s.handleCloseIntent(ctx, msg.UserID, result); done {
		return
	}

	sess, _ := s.sessions.GetOrCreate(msg.UserID)

	step := dialog.Step(sess, msg.Text)
	if step.Reset {
		slog.Error("Session had an impossible state, resetting",
			"user_id", msg.UserID,
			"state", sess.State.String())

		sess = s.sessions.Reset(msg.UserID)
		step = dialog.Step(sess, msg.Text)
	}

	if !step.NeedGeneration {
		s.send(ctx, msg.UserID, step.Reply)
		return
	}

	s.generateReply(ctx, sess)
}

// handleCloseIntent resolves the close-confirmation side channel. It reports
// whether the message was fully consumed.
func (s *Service) handleCloseIntent(ctx context.Context, userID string, result classify.Result) bool {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		// Nothing to close; "no" or "yes" from a fresh user is just text.
		return false
	}

	if sess.State == session.StateAwaitingCloseConfirm {
		if result.CloseRequest {
			s.sessions.Delete(userID)
			s.send(ctx, userID, locale.Text(locale.KeyClosed, sess.Language))
			return true
		}

		// Anything else resumes the prior flow, slots and history intact.
		sess.State = sess.Resume
		s.send(ctx, userID, s.resumeText(sess))
		return true
	}

	if result.DeclineMore {
		sess.Resume = sess.State
		sess.State = session.StateAwaitingCloseConfirm
		s.send(ctx, userID, locale.Text(locale.KeyConfirmClose, sess.Language))
		return true
	}

	return false
}

// resumeText pairs the "let's continue" line with the pending question of
// mid-capture states so the user knows what is still being asked.
func (s *Service) resumeText(sess *session.Session) string {
	text := locale.Text(locale.KeyResumed, sess.Language)

	var pending locale.Key
	switch sess.State {
	case session.StateAwaitingName:
		pending = locale.KeyAskName
	case session.StateAwaitingForWhom:
		pending = locale.KeyAskForWhom
	case session.StateAwaitingTargetName:
		pending = locale.KeyAskTargetName
	case session.StateAwaitingService:
		pending = locale.KeyAskService
	case session.StateAwaitingDocuments:
		pending = locale.KeyAskDocuments
	default:
		return text
	}

	return text + " " + locale.Text(pending, sess.Language)
}

// generateReply snapshots the history, calls the backend without holding any
// store state, then re-validates the session before recording the result.
// A session closed while the call was in flight swallows the reply.
func (s *Service) generateReply(ctx context.Context, sess *session.Session) {
	snapshot := slices.Clone(sess.History)
	epoch := sess.Epoch
	lang := sess.Language
	userID := sess.UserID

	intent := s.gen.ExtractIntent(ctx, snapshot)

	reply := s.gen.Reply(ctx, snapshot, lang, intent)

	if !s.sessions.Alive(userID, epoch) {
		slog.Info("Discarding generation result for closed session",
			"user_id", userID)
		return
	}

	sess.Intent = intent
	sess.AppendTurn(session.RoleAssistant, reply)

	s.send(ctx, userID, reply)
}

func (s *Service) languageOf(userID, text string) locale.Language {
	if sess, ok := s.sessions.Get(userID); ok && sess.Language != "" {
		return sess.Language
	}

	if text != "" {
		return classify.DetectLanguage(text)
	}

	return locale.LangEN
}

func (s *Service) send(ctx context.Context, userID, text string) {
	if err := s.sender.SendText(ctx, userID, text); err != nil {
		slog.Error("Failed to send reply",
			"user_id", userID,
			"error", err)
	}
}
