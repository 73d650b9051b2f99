// Package classify contains the pure text heuristics the dispatcher and the
// dialogue machine run before anything reaches the generation backend.
package classify

import (
	"strings"
	"unicode"

	"nspire/app/service/locale"

	"github.com/elliotchance/pie/v2"
)

type Result struct {
	Language       locale.Language
	Abusive        bool
	CloseRequest   bool
	DeclineMore    bool
	LanguageChange locale.Language // empty when no language-change command
}

// Romanized Malayalam words common enough to flag a message as Manglish.
var manglishLexicon = []string{
	"namaskaram", "ente", "njan", "njaan", "enikku", "venam", "vendathu",
	"sahayam", "sarkar", "sevanam", "evide", "engane", "ariyilla", "parayu",
	"cheyyu", "undo", "illa", "sheri", "aanu", "alle", "mathi", "kittum",
}

var abuseDenylist = []string{
	"idiot", "stupid", "nonsense", "useless", "shut up", "fool", "waste",
	"damn", "bloody", "rubbish", "scam", "fraud",
}

var closePhrases = []string{
	"yes", "close", "end", "bye", "goodbye", "stop", "close chat",
	"end chat", "sheri close", "nirthu",
}

var declinePhrases = []string{
	"no", "nothing else", "that's all", "thats all", "nothing more",
	"no thanks", "onnum illa", "athra mathi", "mathi",
}

var greetingTokens = []string{
	"hi", "hello", "hey", "namaskaram", "namaste", "good", "morning",
	"evening", "afternoon", "vanakkam", "hai", "helo",
}

var selfLexicon = []string{
	"myself", "me", "self", "for me", "my own", "enikku", "njan", "njaan",
	"എനിക്ക്", "ഞാൻ",
}

var documentKeywords = []string{
	"certificate", "id", "proof", "card", "license", "licence", "passport",
	"document", "record", "ration", "aadhaar", "aadhar", "pan",
	"സർട്ടിഫിക്കറ്റ്", "രേഖ", "കാർഡ്",
}

// Classify inspects a single inbound text message. It never calls out.
func Classify(text string) Result {
	lower := strings.ToLower(strings.TrimSpace(text))

	return Result{
		Language:       DetectLanguage(text),
		Abusive:        IsAbusive(lower),
		CloseRequest:   matchesPhrase(lower, closePhrases),
		DeclineMore:    matchesPhrase(lower, declinePhrases),
		LanguageChange: languageChange(lower),
	}
}

// DetectLanguage picks ML on any Malayalam rune, Manglish on romanized
// lexicon hits and EN otherwise.
func DetectLanguage(text string) locale.Language {
	for _, r := range text {
		if unicode.Is(unicode.Malayalam, r) {
			return locale.LangML
		}
	}

	lower := strings.ToLower(text)
	hit := pie.Any(manglishLexicon, func(word string) bool {
		return containsWord(lower, word)
	})
	if hit {
		return locale.LangManglish
	}

	return locale.LangEN
}

func IsAbusive(text string) bool {
	lower := strings.ToLower(text)

	return pie.Any(abuseDenylist, func(word string) bool {
		return strings.Contains(lower, word)
	})
}

// IsGreetingToken reports whether a single captured token is a greeting
// word rather than a plausible name.
func IsGreetingToken(token string) bool {
	lower := strings.ToLower(strings.TrimSpace(token))

	return pie.Contains(greetingTokens, lower)
}

// IsSelf reports whether the "for whom" answer refers to the user themselves.
func IsSelf(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))

	return pie.Any(selfLexicon, func(phrase string) bool {
		return lower == phrase || containsWord(lower, phrase)
	})
}

// ShouldAskDocuments reports whether the requested service likely depends on
// which documents the user already holds. Only then is the extra documents
// question worth its conversational cost.
func ShouldAskDocuments(service string) bool {
	lower := strings.ToLower(service)

	return pie.Any(documentKeywords, func(word string) bool {
		return strings.Contains(lower, word)
	})
}

func matchesPhrase(lower string, phrases []string) bool {
	return pie.Any(phrases, func(phrase string) bool {
		return lower == phrase
	})
}

func languageChange(lower string) locale.Language {
	if !strings.Contains(lower, "change language") &&
		!strings.Contains(lower, "switch language") &&
		!strings.Contains(lower, "language maattu") {
		return ""
	}

	switch {
	case strings.Contains(lower, "malayalam"):
		return locale.LangML
	case strings.Contains(lower, "manglish"):
		return locale.LangManglish
	default:
		return locale.LangEN
	}
}

// containsWord matches word against whitespace-delimited tokens so that
// lexicon entries do not fire inside unrelated words.
func containsWord(lower, word string) bool {
	if strings.ContainsRune(word, ' ') {
		return strings.Contains(lower, word)
	}

	for _, token := range strings.Fields(lower) {
		if strings.Trim(token, ".,!?") == word {
			return true
		}
	}

	return false
}
