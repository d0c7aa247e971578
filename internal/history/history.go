// Package history keeps an audit trail of book requests.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a request ended.
type Outcome string

const (
	OutcomeAdded  Outcome = "added"
	OutcomeFailed Outcome = "failed"
)

// Entry is one recorded request.
type Entry struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Title         string    `json:"title"`
	ForeignBookID string    `json:"foreignBookId,omitempty"`
	Outcome       Outcome   `json:"outcome"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Service records and lists request history.
type Service struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewService creates a history service.
func NewService(db *sql.DB, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With(slog.String("component", "history")),
	}
}

// Record stores an entry. Failures are logged but never surfaced so a
// history write cannot fail a request.
func (s *Service) Record(ctx context.Context, username, title, foreignBookID string, outcome Outcome, reqErr error) {
	errText := ""
	if reqErr != nil {
		errText = reqErr.Error()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO request_history (id, username, title, foreign_book_id, outcome, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), username, title, foreignBookID, string(outcome), errText,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		s.logger.Warn("failed to record request history",
			slog.String("title", title),
			slog.String("error", err.Error()))
	}
}

// List returns the most recent entries, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, title, foreign_book_id, outcome, error, created_at
		FROM request_history
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Username, &e.Title, &e.ForeignBookID, &e.Outcome, &e.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
