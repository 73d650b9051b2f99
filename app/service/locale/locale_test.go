package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryKeyHasAllLanguages(t *testing.T) {
	for key, variants := range bundle {
		for _, lang := range []Language{LangEN, LangML, LangManglish} {
			assert.NotEmpty(t, variants[lang], "missing %s translation for %s", lang, key)
		}
	}
}

func TestTextFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, bundle[KeyGreeting][LangEN], Text(KeyGreeting, Language("fr")))
}

func TestUnknownKeyIsEmpty(t *testing.T) {
	assert.Empty(t, Text(Key("no_such_key"), LangEN))
}
