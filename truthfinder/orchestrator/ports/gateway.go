package ports

import "context"

// Generator is the boundary wrapper around the external text-generation
// service. Generate never returns an error: every failure mode (timeout,
// bad status, malformed body, empty candidate text) collapses to a
// user-safe fallback string so the conversation always continues.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}
