package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

const (
	topQuerySQL = `
		SELECT
			user_id,
			COALESCE(username, 'User#' || CAST(user_id AS TEXT)),
			ai_points,
			total_wins,
			total_matches
		FROM leaderboards
		WHERE ai_points IS NOT NULL
		ORDER BY ai_points DESC, total_wins DESC NULLS LAST, total_matches ASC NULLS LAST
		LIMIT ?`

	findByNameQuerySQL = `
		SELECT
			user_id,
			COALESCE(username, 'User#' || CAST(user_id AS TEXT)),
			ai_points,
			total_wins,
			total_matches
		FROM leaderboards
		WHERE LOWER(username) = LOWER(?)
		ORDER BY user_id
		LIMIT 1`

	findByNameOrIDQuerySQL = `
		SELECT
			user_id,
			COALESCE(username, 'User#' || CAST(user_id AS TEXT)),
			ai_points,
			total_wins,
			total_matches
		FROM leaderboards
		WHERE LOWER(username) = LOWER(?) OR user_id = ?
		ORDER BY user_id
		LIMIT 1`
)

var _ Store = (*SQLStore)(nil)

// SQLStore queries the leaderboards table through database/sql. It backs the
// local SQLite and Turso deployments.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a Store backed by db.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) FetchTop(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, topQuerySQL, n)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch top %d: %w", ErrQueryFailed, n, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.Points, &e.Wins, &e.Matches); err != nil {
			return nil, fmt.Errorf("%w: scan top %d: %w", ErrQueryFailed, n, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate top %d: %w", ErrQueryFailed, n, err)
	}
	log.Debug("Fetched leaderboard", "count", len(entries), "limit", n)
	return entries, nil
}

func (s *SQLStore) FetchOne(ctx context.Context, identifier string) (*Entry, error) {
	identifier = normalizeIdentifier(identifier)

	var row *sql.Row
	if id, ok := numericIdentifier(identifier); ok {
		row = s.db.QueryRowContext(ctx, findByNameOrIDQuerySQL, identifier, id)
	} else {
		row = s.db.QueryRowContext(ctx, findByNameQuerySQL, identifier)
	}

	var e Entry
	err := row.Scan(&e.UserID, &e.DisplayName, &e.Points, &e.Wins, &e.Matches)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("No player matched identifier", "identifier", identifier)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find %q: %w", ErrQueryFailed, identifier, err)
	}
	return &e, nil
}
