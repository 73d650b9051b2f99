package classify

import (
	"testing"

	"nspire/app/service/locale"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want locale.Language
	}{
		{"plain english", "I need an income certificate", locale.LangEN},
		{"malayalam script", "എനിക്ക് വരുമാന സർട്ടിഫിക്കറ്റ് വേണം", locale.LangML},
		{"single malayalam rune wins", "certificate വേണം please", locale.LangML},
		{"manglish lexicon", "enikku income certificate venam", locale.LangManglish},
		{"manglish greeting", "namaskaram, sahayam venam", locale.LangManglish},
		{"lexicon word inside english word does not fire", "generations of illas", locale.LangEN},
		{"empty", "", locale.LangEN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text))
		})
	}
}

func TestIsAbusive(t *testing.T) {
	assert.True(t, IsAbusive("you are an IDIOT"))
	assert.True(t, IsAbusive("this is a scam"))
	assert.False(t, IsAbusive("I need help with my ration card"))
	assert.False(t, IsAbusive(""))
}

func TestCloseAndDeclinePhrases(t *testing.T) {
	tests := []struct {
		text    string
		close   bool
		decline bool
	}{
		{"yes", true, false},
		{"Close", true, false},
		{"end", true, false},
		{"no", false, true},
		{"nothing else", false, true},
		{"that's all", false, true},
		{"thats all", false, true},
		{"I said no to the officer", false, false},
		{"income certificate", false, false},
	}

	for _, tt := range tests {
		result := Classify(tt.text)
		assert.Equal(t, tt.close, result.CloseRequest, "close for %q", tt.text)
		assert.Equal(t, tt.decline, result.DeclineMore, "decline for %q", tt.text)
	}
}

func TestIsGreetingToken(t *testing.T) {
	assert.True(t, IsGreetingToken("hi"))
	assert.True(t, IsGreetingToken("Hello"))
	assert.True(t, IsGreetingToken("namaskaram"))
	assert.False(t, IsGreetingToken("Anita"))
}

func TestIsSelf(t *testing.T) {
	assert.True(t, IsSelf("myself"))
	assert.True(t, IsSelf("for me"))
	assert.True(t, IsSelf("enikku"))
	assert.False(t, IsSelf("for my mother"))
	assert.False(t, IsSelf("Ravi"))
}

func TestShouldAskDocuments(t *testing.T) {
	assert.True(t, ShouldAskDocuments("caste certificate"))
	assert.True(t, ShouldAskDocuments("new ration card"))
	assert.True(t, ShouldAskDocuments("aadhaar correction"))
	assert.False(t, ShouldAskDocuments("pension status"))
	assert.False(t, ShouldAskDocuments("complaint about road"))
}

func TestLanguageChangeCommand(t *testing.T) {
	assert.Equal(t, locale.LangML, Classify("change language to malayalam").LanguageChange)
	assert.Equal(t, locale.LangManglish, Classify("switch language to manglish").LanguageChange)
	assert.Equal(t, locale.LangEN, Classify("change language").LanguageChange)
	assert.Equal(t, locale.Language(""), Classify("hello there").LanguageChange)
}
