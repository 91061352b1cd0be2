package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/pinned-leaderboard/internal/config"
)

func TestInitDB_CreatesLeaderboardsTable(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"), "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer db.Close()

	var tableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='leaderboards'").Scan(&tableName)
	require.NoError(t, err, "Querying for leaderboards table should not produce an error")
	assert.Equal(t, "leaderboards", tableName, "The 'leaderboards' table should be created")

	_, err = db.Exec(`INSERT INTO leaderboards (user_id, username, ai_points, total_wins, total_matches) VALUES (1, 'Ann', 10, 1, 2)`)
	require.NoError(t, err)
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := InitDB(path, "", "")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO leaderboards (user_id, username) VALUES (7, 'Bo')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDB(path, "", "")
	require.NoError(t, err, "re-opening an initialized database should not fail")
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM leaderboards`).Scan(&count))
	assert.Equal(t, 1, count, "existing rows should survive a second InitDB")
}

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PostgresConfig
		want string
	}{
		{
			name: "with password",
			cfg:  config.PostgresConfig{Host: "db", Port: 5432, Database: "tcg", User: "bot", Password: "p@ss word"},
			want: "postgres://bot:p%40ss%20word@db:5432/tcg",
		},
		{
			name: "without password",
			cfg:  config.PostgresConfig{Host: "localhost", Port: 6543, Database: "tcg", User: "bot"},
			want: "postgres://bot@localhost:6543/tcg",
		},
		{
			name: "without credentials",
			cfg:  config.PostgresConfig{Host: "localhost", Port: 5432, Database: "tcg"},
			want: "postgres://localhost:5432/tcg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostgresDSN(tt.cfg))
		})
	}
}
