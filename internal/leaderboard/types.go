package leaderboard

import "errors"

// ErrQueryFailed marks every fault raised while talking to the stats store.
// A lookup that simply finds nothing never returns it.
var ErrQueryFailed = errors.New("stats query failed")

// Entry is a single player's row as read from the leaderboards table.
// Counters are nil when the underlying column is NULL.
type Entry struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Points      *int64 `json:"points"`
	Wins        *int64 `json:"wins"`
	Matches     *int64 `json:"matches"`
}

// Int64 returns a pointer to v. Handy for building entries in tests and seeders.
func Int64(v int64) *int64 {
	return &v
}

// DefaultLimit is the number of entries shown on the pinned leaderboard and
// by the on-demand leaderboard command.
const DefaultLimit = 10
