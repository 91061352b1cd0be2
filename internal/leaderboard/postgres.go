package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	topQueryPostgres = `
		SELECT
			user_id,
			COALESCE(username, 'User#' || CAST(user_id AS TEXT)),
			ai_points,
			total_wins,
			total_matches
		FROM leaderboards
		WHERE ai_points IS NOT NULL
		ORDER BY ai_points DESC, total_wins DESC NULLS LAST, total_matches ASC NULLS LAST
		LIMIT $1`

	findByNameQueryPostgres = `
		SELECT
			user_id,
			COALESCE(username, 'User#' || CAST(user_id AS TEXT)),
			ai_points,
			total_wins,
			total_matches
		FROM leaderboards
		WHERE LOWER(username) = LOWER($1)
		ORDER BY user_id
		LIMIT 1`

	findByNameOrIDQueryPostgres = `
		SELECT
			user_id,
			COALESCE(username, 'User#' || CAST(user_id AS TEXT)),
			ai_points,
			total_wins,
			total_matches
		FROM leaderboards
		WHERE LOWER(username) = LOWER($1) OR user_id = $2
		ORDER BY user_id
		LIMIT 1`
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore queries the leaderboards table through a bounded pgx pool.
// Every call acquires a connection for the duration of the query only.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FetchTop(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, topQueryPostgres, n)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch top %d: %w", ErrQueryFailed, n, err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Entry])
	if err != nil {
		return nil, fmt.Errorf("%w: scan top %d: %w", ErrQueryFailed, n, err)
	}
	log.Debug("Fetched leaderboard", "count", len(entries), "limit", n)
	return entries, nil
}

func (s *PostgresStore) FetchOne(ctx context.Context, identifier string) (*Entry, error) {
	identifier = normalizeIdentifier(identifier)

	var row pgx.Row
	if id, ok := numericIdentifier(identifier); ok {
		row = s.pool.QueryRow(ctx, findByNameOrIDQueryPostgres, identifier, id)
	} else {
		row = s.pool.QueryRow(ctx, findByNameQueryPostgres, identifier)
	}

	var e Entry
	err := row.Scan(&e.UserID, &e.DisplayName, &e.Points, &e.Wins, &e.Matches)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("No player matched identifier", "identifier", identifier)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find %q: %w", ErrQueryFailed, identifier, err)
	}
	return &e, nil
}
