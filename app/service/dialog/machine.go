// Package dialog is the per-user dialogue state machine. Step is pure given
// (session, text) aside from mutating the session it was handed; everything
// that talks to the network lives in the dispatcher and generation services.
package dialog

import (
	"fmt"
	"strings"

	"nspire/app/service/classify"
	"nspire/app/service/locale"
	"nspire/app/service/session"

	_ "embed"
)

//go:embed persona_en.txt
var personaEN string

//go:embed persona_ml.txt
var personaML string

//go:embed persona_manglish.txt
var personaManglish string

// maxSlotLen bounds every captured slot; longer input re-prompts instead
// of advancing.
const maxSlotLen = 32

// StepResult is what one machine step asks the dispatcher to do.
type StepResult struct {
	// Reply is the templated reply text, empty when NeedGeneration is set.
	Reply string
	// NeedGeneration means the reply must come from the generation backend
	// using the session's history.
	NeedGeneration bool
	// Reset means the session carried an impossible state value and must be
	// recreated before stepping again.
	Reset bool
}

// Step advances the session by one inbound text message.
func Step(sess *session.Session, text string) StepResult {
	switch sess.State {
	case session.StateNew:
		if sess.Language == "" {
			sess.Language = classify.DetectLanguage(text)
		}
		sess.State = session.StateAwaitingName

		return reply(sess, locale.KeyGreeting)

	case session.StateAwaitingName:
		name := firstToken(text)
		if !validSlot(name) || classify.IsGreetingToken(name) {
			return reply(sess, locale.KeyAskName)
		}

		sess.Fields.Name = name
		sess.State = session.StateAwaitingForWhom

		return reply(sess, locale.KeyAskForWhom)

	case session.StateAwaitingForWhom:
		if !validSlot(strings.TrimSpace(text)) {
			return reply(sess, locale.KeyAskForWhom)
		}

		if classify.IsSelf(text) {
			sess.Fields.ForWhom = "self"
			sess.State = session.StateAwaitingService

			return reply(sess, locale.KeyAskService)
		}

		sess.Fields.ForWhom = "other"
		sess.State = session.StateAwaitingTargetName

		return reply(sess, locale.KeyAskTargetName)

	case session.StateAwaitingTargetName:
		name := strings.TrimSpace(text)
		if !validSlot(name) {
			return reply(sess, locale.KeyAskTargetName)
		}

		sess.Fields.TargetName = name
		sess.State = session.StateAwaitingService

		return reply(sess, locale.KeyAskService)

	case session.StateAwaitingService:
		service := strings.TrimSpace(text)
		if !validSlot(service) {
			return reply(sess, locale.KeyAskService)
		}

		sess.Fields.Service = service

		if classify.ShouldAskDocuments(service) {
			sess.State = session.StateAwaitingDocuments
			return reply(sess, locale.KeyAskDocuments)
		}

		enterChat(sess)
		return StepResult{NeedGeneration: true}

	case session.StateAwaitingDocuments:
		docs := strings.TrimSpace(text)
		if !validSlot(docs) {
			return reply(sess, locale.KeyAskDocuments)
		}

		sess.Fields.UserDocuments = docs

		enterChat(sess)
		return StepResult{NeedGeneration: true}

	case session.StateInChat:
		sess.AppendTurn(session.RoleUser, strings.TrimSpace(text))
		return StepResult{NeedGeneration: true}

	default:
		return StepResult{Reset: true}
	}
}

// enterChat seeds the generation history: the language-specific persona turn
// first, then one user turn summarizing everything collected so far.
func enterChat(sess *session.Session) {
	sess.State = session.StateInChat
	sess.AppendTurn(session.RoleSystem, Persona(sess))
	sess.AppendTurn(session.RoleUser, contextSummary(sess))
}

// Persona renders the system persona turn for the session's language with
// the collected slots substituted in.
func Persona(sess *session.Session) string {
	var template string
	switch sess.Language {
	case locale.LangML:
		template = personaML
	case locale.LangManglish:
		template = personaManglish
	default:
		template = personaEN
	}

	forWhom := sess.Fields.ForWhom
	if forWhom == "other" && sess.Fields.TargetName != "" {
		forWhom = sess.Fields.TargetName
	}

	documents := sess.Fields.UserDocuments
	if documents == "" {
		documents = "not asked"
	}

	templateValues := map[string]string{
		"name":      sess.Fields.Name,
		"for_whom":  forWhom,
		"service":   sess.Fields.Service,
		"documents": documents,
	}

	result := template
	for key, value := range templateValues {
		result = strings.ReplaceAll(result, "{"+key+"}", value)
	}

	return strings.TrimSpace(result)
}

func contextSummary(sess *session.Session) string {
	summary := fmt.Sprintf("My name is %s and I need help with: %s.",
		sess.Fields.Name, sess.Fields.Service)

	if sess.Fields.ForWhom == "other" {
		summary += fmt.Sprintf(" The service is for %s.", sess.Fields.TargetName)
	}
	if sess.Fields.UserDocuments != "" {
		summary += fmt.Sprintf(" Documents I already have: %s.", sess.Fields.UserDocuments)
	}

	return summary
}

func reply(sess *session.Session, key locale.Key) StepResult {
	return StepResult{Reply: locale.Text(key, sess.Language)}
}

func firstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

func validSlot(value string) bool {
	return value != "" && len([]rune(value)) <= maxSlotLen
}
