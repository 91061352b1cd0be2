package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
)

var (
	ErrMissingToken   = errors.New("DISCORD_TOKEN is not set")
	ErrMissingChannel = errors.New("DISCORD_CHANNEL_ID must be set to a numeric channel ID")
)

const (
	defaultIntervalSeconds = 300
	defaultMaxConns        = 5
)

// Load reads configuration from environment variables and .env file.
// Every error it returns is a configuration fault and must abort startup.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	token := getEnv("DISCORD_TOKEN", "")
	if token == "" {
		return Config{}, ErrMissingToken
	}

	channelID, err := snowflake.Parse(getEnv("DISCORD_CHANNEL_ID", "0"))
	if err != nil || channelID == 0 {
		return Config{}, ErrMissingChannel
	}

	intervalSec, err := positiveInt(getEnv("UPDATE_INTERVAL_SEC", strconv.Itoa(defaultIntervalSeconds)))
	if err != nil {
		return Config{}, fmt.Errorf("invalid UPDATE_INTERVAL_SEC: %w", err)
	}
	pgPort, err := positiveInt(getEnv("PGPORT", "5432"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid PGPORT: %w", err)
	}
	maxConns, err := positiveInt(getEnv("DB_MAX_CONNS", strconv.Itoa(defaultMaxConns)))
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	slash, err := strconv.ParseBool(getEnv("DISCORD_SLASH_COMMANDS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid DISCORD_SLASH_COMMANDS: %w", err)
	}

	driver := StatsDriver(getEnv("STATS_DRIVER", string(DriverPostgres)))
	if driver != DriverPostgres && driver != DriverSQL {
		return Config{}, fmt.Errorf("invalid STATS_DRIVER %q: expected %q or %q", driver, DriverPostgres, DriverSQL)
	}

	cfg := Config{
		Discord: DiscordConfig{
			Token:         token,
			ChannelID:     channelID,
			CommandPrefix: getEnv("COMMAND_PREFIX", "!"),
			SlashCommands: slash,
		},
		Leaderboard: LeaderboardConfig{
			Interval:      time.Duration(intervalSec) * time.Second,
			Title:         getEnv("LEADERBOARD_TITLE", "Animorphs AI Points"),
			PointsLabel:   getEnv("POINTS_LABEL", "AI Points"),
			Timezone:      getEnv("TIMEZONE", "Africa/Johannesburg"),
			TimezoneLabel: getEnv("TIMEZONE_LABEL", "SAST"),
		},
		Stats: StatsConfig{
			Driver:   driver,
			MaxConns: int32(maxConns),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("PGHOST", "localhost"),
			Port:     pgPort,
			Database: getEnv("PGDATABASE", "tcg"),
			User:     getEnv("PGUSER", ""),
			Password: getEnv("PGPASSWORD", ""),
		},
		Turso: TursoConfig{
			DBName:     getEnv("DB_NAME", "./data/leaderboard.db"),
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		PubSub: PubSubConfig{
			ProjectID: getEnv("GCP_PROJECT", ""),
			Topic:     getEnv("PUBSUB_TOPIC", "leaderboard-updated"),
		},
		StateFile: getEnv("STATE_FILE", "./data/leaderboard_state.txt"),
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
	return cfg, nil
}

func positiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
