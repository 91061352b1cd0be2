package leaderboard

import "context"

// Store defines the two read-only queries the bot runs against the stats store.
type Store interface {
	// FetchTop returns up to n entries ordered by points desc, wins desc,
	// matches asc. Rows without points are excluded.
	FetchTop(ctx context.Context, n int) ([]Entry, error)
	// FetchOne looks a player up by case-insensitive name or, for all-digit
	// identifiers, by user id as well. It returns (nil, nil) when nothing matches.
	FetchOne(ctx context.Context, identifier string) (*Entry, error)
}
