package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/pinned-leaderboard/internal/config"
	"github.com/mauv0809/pinned-leaderboard/internal/database"
	"github.com/pressly/goose/v3"
)

const batchSize = 100

// seedConfig is the subset of the bot's settings the seeder needs. It does
// not require Discord credentials.
type seedConfig struct {
	Driver   config.StatsDriver
	Postgres config.PostgresConfig
	Turso    config.TursoConfig
	Players  int
}

func loadConfig() seedConfig {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	port, err := strconv.Atoi(getEnv("PGPORT", "5432"))
	if err != nil {
		log.Fatalf("Error: invalid PGPORT: %s", err)
	}
	players, err := strconv.Atoi(getEnv("SEED_PLAYERS", "250"))
	if err != nil || players <= 0 {
		log.Fatalf("Error: SEED_PLAYERS must be a positive integer")
	}

	return seedConfig{
		Driver: config.StatsDriver(getEnv("STATS_DRIVER", string(config.DriverSQL))),
		Postgres: config.PostgresConfig{
			Host:     getEnv("PGHOST", "localhost"),
			Port:     port,
			Database: getEnv("PGDATABASE", "tcg"),
			User:     getEnv("PGUSER", ""),
			Password: getEnv("PGPASSWORD", ""),
		},
		Turso: config.TursoConfig{
			DBName:     getEnv("DB_NAME", "./data/leaderboard.db"),
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		Players: players,
	}
}

func open(ctx context.Context, cfg seedConfig) (*sql.DB, goose.Dialect, error) {
	switch cfg.Driver {
	case config.DriverSQL:
		db, err := database.InitDB(cfg.Turso.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		return db, goose.DialectSQLite3, err
	case config.DriverPostgres:
		db, err := database.OpenPostgres(database.PostgresDSN(cfg.Postgres))
		if err != nil {
			return nil, "", err
		}
		if err := database.Migrate(ctx, db, goose.DialectPostgres); err != nil {
			db.Close()
			return nil, "", err
		}
		return db, goose.DialectPostgres, nil
	default:
		return nil, "", fmt.Errorf("unknown STATS_DRIVER %q", cfg.Driver)
	}
}

func main() {
	log.SetFormatter(log.JSONFormatter)
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	ctx := context.Background()
	db, dialect, err := open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}
	log.Info("Successfully connected to the database.", "driver", cfg.Driver)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	players := generatePlayers(rng, cfg.Players)

	log.Info("Preparing to insert players...", "total", len(players), "batch_size", batchSize)
	startTime := time.Now()
	if err := seed(ctx, db, dialect, players); err != nil {
		log.Fatalf("Failed to seed leaderboards: %s", err)
	}
	log.Info("Successfully inserted all players.", "duration", time.Since(startTime))
}

type player struct {
	UserID   int64
	Username sql.NullString
	Points   sql.NullInt64
	Wins     sql.NullInt64
	Matches  sql.NullInt64
}

// generatePlayers builds n random rows. Roughly one in ten has no points and
// one in ten has no username, so both fallbacks show up in renders.
func generatePlayers(rng *rand.Rand, n int) []player {
	players := make([]player, 0, n)
	for i := 0; i < n; i++ {
		matches := int64(rng.Intn(200))
		wins := int64(0)
		if matches > 0 {
			wins = rng.Int63n(matches + 1)
		}
		p := player{
			UserID:   100000000000000000 + rng.Int63n(900000000000000000),
			Username: sql.NullString{String: "seed-" + uuid.NewString()[:8], Valid: true},
			Points:   sql.NullInt64{Int64: wins*25 + rng.Int63n(100), Valid: true},
			Wins:     sql.NullInt64{Int64: wins, Valid: true},
			Matches:  sql.NullInt64{Int64: matches, Valid: true},
		}
		switch rng.Intn(10) {
		case 0:
			p.Points.Valid = false
		case 1:
			p.Username.Valid = false
		}
		players = append(players, p)
	}
	return players
}

// seed upserts players in batches inside a single transaction.
func seed(ctx context.Context, db *sql.DB, dialect goose.Dialect, players []player) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for start := 0; start < len(players); start += batchSize {
		end := min(start+batchSize, len(players))
		stmt, args := upsertBatch(dialect, players[start:end])
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute batch insert: %w", err)
		}
		log.Info("Inserted batch", "completed", end, "total", len(players))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func upsertBatch(dialect goose.Dialect, batch []player) (string, []any) {
	const columns = 5
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*columns)

	for i, p := range batch {
		holders := make([]string, columns)
		for c := range holders {
			if dialect == goose.DialectPostgres {
				holders[c] = "$" + strconv.Itoa(i*columns+c+1)
			} else {
				holders[c] = "?"
			}
		}
		valueStrings = append(valueStrings, "("+strings.Join(holders, ", ")+")")
		valueArgs = append(valueArgs, p.UserID, p.Username, p.Points, p.Wins, p.Matches)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO leaderboards (user_id, username, ai_points, total_wins, total_matches)
		VALUES %s
		ON CONFLICT (user_id) DO UPDATE SET
			username = excluded.username,
			ai_points = excluded.ai_points,
			total_wins = excluded.total_wins,
			total_matches = excluded.total_matches;`, strings.Join(valueStrings, ","))
	return stmt, valueArgs
}
