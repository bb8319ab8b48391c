package orchestrator

import "strings"

// maxMessageLen is the post-sanitization cap on inbound messages.
const maxMessageLen = 2000

// Sanitize strips angle brackets and double quotes from a message and
// truncates it to the accepted length. The result may be empty, which
// callers must treat as invalid input.
func Sanitize(message string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"':
			return -1
		}
		return r
	}, message)

	cleaned = strings.TrimSpace(cleaned)
	runes := []rune(cleaned)
	if len(runes) > maxMessageLen {
		cleaned = string(runes[:maxMessageLen])
	}
	return cleaned
}
