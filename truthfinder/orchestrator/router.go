package orchestrator

import "strings"

// Intent is the classified category deciding which capability agent
// handles a message. It is derived per message and never persisted.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentIdentity     Intent = "identity"
	IntentLiveEvent    Intent = "live_event"
	IntentSummarize    Intent = "summarize"
	IntentFactCheck    Intent = "fact_check"
	IntentSentiment    Intent = "sentiment"
	IntentKeywords     Intent = "keywords"
	IntentStatistic    Intent = "statistic"
	IntentReport       Intent = "report"
	IntentSocialLookup Intent = "social_lookup"
	IntentPersonalData Intent = "personal_data"
	IntentGeneral      Intent = "general"
)

// routeRule pairs an intent with the vocabulary that selects it.
// Single-word keywords match whole words only; multi-word keywords match
// as substrings. Rules are evaluated strictly in slice order, so cheap
// short-circuit intents (greeting, identity) sit before anything that
// would trigger an external call, and general is the exhaustive default.
type routeRule struct {
	intent   Intent
	keywords []string
}

var routeRules = []routeRule{
	{IntentGreeting, []string{
		"hello", "hi", "hey", "salam", "assalamualaikum", "greetings",
		"good morning", "good afternoon", "good evening",
	}},
	{IntentIdentity, []string{
		"who are you", "what are you", "your name", "who made you",
		"introduce yourself",
	}},
	{IntentLiveEvent, []string{
		"happening", "breaking", "latest", "unfolding", "right now",
		"live updates", "current situation", "what's going on",
	}},
	{IntentSummarize, []string{
		"summarize", "summarise", "summary", "tldr", "tl;dr", "shorten",
		"condense", "sum up",
	}},
	{IntentFactCheck, []string{
		"verify", "debunk", "fact check", "fact-check", "is it true",
		"is this true", "real or fake", "fake news", "is this real",
	}},
	{IntentSentiment, []string{
		"sentiment", "bias", "biased", "propaganda", "slanted",
		"one sided", "one-sided", "emotional tone",
	}},
	{IntentKeywords, []string{
		"keywords", "key terms", "main topics", "key phrases",
		"extract topics",
	}},
	{IntentStatistic, []string{
		"statistic", "statistics", "percentage", "data point",
		"check the numbers", "how many people",
	}},
	{IntentReport, []string{
		"report", "full analysis", "complete analysis", "detailed analysis",
		"deep dive",
	}},
	{IntentSocialLookup, []string{
		"twitter", "tweet", "tweets", "trending", "social media",
		"people saying", "public reaction",
	}},
	{IntentPersonalData, []string{
		"my name", "about me", "i told you", "do you remember",
		"what did i", "remind me",
	}},
}

// Classify maps a message to an intent. Pure and deterministic: the
// first rule with a matching keyword wins, and an unmatched message is
// always general, so classification is total.
func Classify(message string) Intent {
	lower := strings.ToLower(message)
	words := wordSet(lower)

	for _, rule := range routeRules {
		for _, kw := range rule.keywords {
			if strings.ContainsRune(kw, ' ') || strings.ContainsRune(kw, '-') || strings.ContainsRune(kw, ';') {
				if strings.Contains(lower, kw) {
					return rule.intent
				}
			} else if words[kw] {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

// wordSet splits on anything that is not a letter, digit, or apostrophe
// so surrounding punctuation never hides a keyword.
func wordSet(lower string) map[string]bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			return false
		}
		return r < 0x80 // keep non-ASCII runes inside words
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
