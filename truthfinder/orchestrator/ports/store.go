package ports

import (
	"context"
	"time"
)

// Role identifies who produced a turn.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Turn is one persisted message in a conversation. Turns are immutable
// once written; ordering is by CreatedAt ascending.
type Turn struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationStore is the append-only turn log, partitioned by user ID.
//
// Append failures are non-fatal to the request that triggered them: the
// caller logs the error and keeps going with its in-memory result.
// History returns turns in chronological order regardless of the store's
// native ordering, and returns an empty slice (never an error) when the
// user is unknown or the store is unreachable.
type ConversationStore interface {
	Append(ctx context.Context, userID, role, text string) error
	History(ctx context.Context, userID string, limit int) []Turn
}
