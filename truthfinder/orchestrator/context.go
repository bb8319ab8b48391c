package orchestrator

import (
	"strings"

	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
)

// Budget bounds how much persisted history is folded into a prompt.
// This is a context-window economy decision, not a storage limit.
type Budget struct {
	MaxTurns int // most recent turns considered
	MaxChars int // hard cap on the folded text
}

// HistoryAssembler folds stored turns into a prompt-ready transcript.
type HistoryAssembler struct {
	defaultBudget Budget
}

// NewHistoryAssembler creates an assembler with a default budget.
func NewHistoryAssembler(b Budget) *HistoryAssembler {
	return &HistoryAssembler{defaultBudget: b}
}

// Fold renders the most recent turns as "role: text" lines, oldest
// first. When the character budget is exceeded, the oldest lines are
// dropped so the tail of the conversation always survives.
func (a *HistoryAssembler) Fold(turns []ports.Turn, b *Budget) string {
	if b == nil {
		b = &a.defaultBudget
	}
	if len(turns) == 0 || b.MaxTurns <= 0 || b.MaxChars <= 0 {
		return ""
	}

	if len(turns) > b.MaxTurns {
		turns = turns[len(turns)-b.MaxTurns:]
	}

	lines := make([]string, 0, len(turns))
	total := 0
	for _, t := range turns {
		line := t.Role + ": " + normalize(t.Text)
		lines = append(lines, line)
		total += len(line) + 1
	}

	// Drop from the front until within budget.
	for len(lines) > 1 && total > b.MaxChars {
		total -= len(lines[0]) + 1
		lines = lines[1:]
	}

	return strings.Join(lines, "\n")
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}
