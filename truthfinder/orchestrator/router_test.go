package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGreetingIgnoresCaseAndPunctuation(t *testing.T) {
	for _, msg := range []string{
		"hello",
		"Hello!",
		"HEY there",
		"  hi.  ",
		"Good Morning, friend",
		"salam!",
	} {
		assert.Equal(t, IntentGreeting, Classify(msg), "message: %q", msg)
	}
}

func TestClassifyShortWordsNeedWordBoundaries(t *testing.T) {
	// "hi" must not fire inside "this", "hey" not inside "they".
	assert.NotEqual(t, IntentGreeting, Classify("is this article real or fake?"))
	assert.NotEqual(t, IntentGreeting, Classify("they reported a statistic"))
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Greeting wins over anything later in the table.
	assert.Equal(t, IntentGreeting, Classify("hello, summarize this for me"))
	// Live-event wins over summarize.
	assert.Equal(t, IntentLiveEvent, Classify("what's the latest, give me a summary"))
	// Identity wins over personal-data.
	assert.Equal(t, IntentIdentity, Classify("who are you, do you remember me?"))
}

func TestClassifyPerIntent(t *testing.T) {
	cases := map[string]Intent{
		"who are you?":                          IntentIdentity,
		"what is happening in karachi":          IntentLiveEvent,
		"summarize: the council voted...":       IntentSummarize,
		"is it true that the dam failed?":       IntentFactCheck,
		"does this article show bias?":          IntentSentiment,
		"extract topics from this piece":        IntentKeywords,
		"check the numbers in this claim":       IntentStatistic,
		"give me a full analysis":               IntentReport,
		"what are people saying on twitter":     IntentSocialLookup,
		"do you remember my name?":              IntentPersonalData,
		"tell me something interesting":         IntentGeneral,
		"":                                      IntentGeneral,
	}
	for msg, want := range cases {
		assert.Equal(t, want, Classify(msg), "message: %q", msg)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	for _, msg := range []string{"hello", "verify this claim", "random chatter"} {
		assert.Equal(t, Classify(msg), Classify(msg))
	}
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LanguageEnglish, DetectLanguage("is this news real?"))
	assert.Equal(t, LanguageUrduHindi, DetectLanguage("yeh news sach hai kya"))
	assert.Equal(t, LanguageUrduHindi, DetectLanguage("کیا یہ خبر سچ ہے"))
	assert.Equal(t, LanguageUrduHindi, DetectLanguage("क्या यह खबर सच है"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", Sanitize(`<script>alert("1")</script>`))
	assert.Equal(t, "", Sanitize("   \n\t "))
	assert.Equal(t, "plain text", Sanitize("plain text"))

	long := make([]rune, 3000)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, Sanitize(string(long)), maxMessageLen)
}
