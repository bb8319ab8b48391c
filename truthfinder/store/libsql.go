package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
	"github.com/rs/zerolog"
)

// Turn timestamps are stored as RFC 3339 strings so chronological string
// ordering and time ordering agree.
const timeLayout = time.RFC3339Nano

// LibSQLStore implements the ConversationStore port over libsql. Rows
// are never updated or deleted; a secondary sort on the rowid breaks
// same-timestamp ties by insertion order.
type LibSQLStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewLibSQLStore creates a conversation store on an open database.
func NewLibSQLStore(db *sql.DB, logger zerolog.Logger) *LibSQLStore {
	return &LibSQLStore{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// Append writes one turn. A returned error is diagnostic only; callers
// log it and continue with their in-memory result.
func (s *LibSQLStore) Append(ctx context.Context, userID, role, text string) error {
	const query = `
		INSERT INTO chat_history (user_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`
	now := time.Now().UTC().Format(timeLayout)
	if _, err := s.db.ExecContext(ctx, query, userID, role, text, now); err != nil {
		return fmt.Errorf("failed to append turn for %s: %w", userID, err)
	}
	return nil
}

// History returns the user's most recent turns in chronological order.
// Any failure yields an empty slice: callers treat "no history" and
// "store down" identically for prompt-building purposes.
func (s *LibSQLStore) History(ctx context.Context, userID string, limit int) []ports.Turn {
	const query = `
		SELECT user_id, role, content, created_at FROM chat_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("history query failed")
		return nil
	}
	defer rows.Close()

	var turns []ports.Turn
	for rows.Next() {
		var turn ports.Turn
		var createdAt string
		if err := rows.Scan(&turn.UserID, &turn.Role, &turn.Text, &createdAt); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("history scan failed")
			return nil
		}
		if ts, err := time.Parse(timeLayout, createdAt); err == nil {
			turn.CreatedAt = ts
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("history iteration failed")
		return nil
	}

	// Fetched newest-first, reverse to chronological.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns
}

var _ ports.ConversationStore = (*LibSQLStore)(nil)
