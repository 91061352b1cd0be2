package state

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// Store persists the id of the pinned leaderboard message across restarts.
type Store interface {
	// Load returns the last saved id. Any read problem is reported as absent.
	Load(ctx context.Context) (snowflake.ID, bool)
	// Save records id. Callers log and continue on error.
	Save(ctx context.Context, id snowflake.ID) error
}
