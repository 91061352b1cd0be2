package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/mauv0809/pinned-leaderboard/internal/database"
)

func setupPostgresStore(t *testing.T) (*PostgresStore, func(query string, args ...any)) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("tcg"),
		postgres.WithUsername("bot"),
		postgres.WithPassword("bot"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := database.OpenPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(ctx, sqlDB, goose.DialectPostgres))

	pool, err := database.NewPoolFromDSN(ctx, dsn, 5)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	exec := func(query string, args ...any) {
		_, err := pool.Exec(ctx, query, args...)
		require.NoError(t, err)
	}
	return NewPostgresStore(pool), exec
}

func TestPostgresStore(t *testing.T) {
	store, exec := setupPostgresStore(t)
	ctx := context.Background()

	insert := `INSERT INTO leaderboards (user_id, username, ai_points, total_wins, total_matches) VALUES ($1, $2, $3, $4, $5)`
	exec(insert, 3, "Cy", 90, 5, 5)
	exec(insert, 2, "Bo", 120, 8, 10)
	exec(insert, 1, "Ann", 120, 9, 10)
	exec(insert, 42, "Zed", 5, 1, 3)
	exec(insert, 8, "Ghost", nil, 100, 100)
	exec(insert, 9, nil, 1, nil, nil)

	t.Run("FetchTop orders and filters", func(t *testing.T) {
		entries, err := store.FetchTop(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ann", "Bo", "Cy", "Zed", "User#9"}, names(entries))
		assert.Nil(t, entries[4].Wins)
	})

	t.Run("FetchTop honours the limit", func(t *testing.T) {
		entries, err := store.FetchTop(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ann", "Bo"}, names(entries))
	})

	t.Run("FetchOne by name ignores case", func(t *testing.T) {
		entry, err := store.FetchOne(ctx, "ann")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "Ann", entry.DisplayName)
	})

	t.Run("FetchOne by numeric id", func(t *testing.T) {
		entry, err := store.FetchOne(ctx, "42")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "Zed", entry.DisplayName)
	})

	t.Run("FetchOne absent is not a fault", func(t *testing.T) {
		entry, err := store.FetchOne(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("faults are classified", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.FetchTop(cancelled, 10)
		assert.ErrorIs(t, err, ErrQueryFailed)
		_, err = store.FetchOne(cancelled, "ann")
		assert.ErrorIs(t, err, ErrQueryFailed)
	})
}

func TestPostgresStore_ServerDownAtStartup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromDSN(ctx, "postgres://bot@127.0.0.1:1/tcg?connect_timeout=2", 5)
	require.NoError(t, err, "an unreachable server must not prevent startup")
	defer pool.Close()

	store := NewPostgresStore(pool)
	entries, err := store.FetchTop(ctx, DefaultLimit)
	assert.Nil(t, entries)
	assert.True(t, errors.Is(err, ErrQueryFailed), "got %v", err)

	entry, err := store.FetchOne(ctx, "ann")
	assert.Nil(t, entry)
	assert.True(t, errors.Is(err, ErrQueryFailed), "got %v", err)
}

func TestNewPoolFromDSN_RejectsInvalidDSN(t *testing.T) {
	_, err := database.NewPoolFromDSN(context.Background(), "postgres://bot@localhost:notaport/tcg", 5)
	assert.Error(t, err)
}
