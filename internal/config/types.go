package config

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Config holds all configuration for the application.
type Config struct {
	Discord     DiscordConfig
	Leaderboard LeaderboardConfig
	Stats       StatsConfig
	Postgres    PostgresConfig
	Turso       TursoConfig
	PubSub      PubSubConfig
	StateFile   string
	Port        string
	LogLevel    string
}

type DiscordConfig struct {
	Token         string
	ChannelID     snowflake.ID
	CommandPrefix string
	SlashCommands bool
}

type LeaderboardConfig struct {
	Interval      time.Duration
	Title         string
	PointsLabel   string
	Timezone      string
	TimezoneLabel string
}

// StatsDriver selects the backend used to query player statistics.
type StatsDriver string

const (
	DriverPostgres StatsDriver = "postgres"
	DriverSQL      StatsDriver = "sql"
)

type StatsConfig struct {
	Driver   StatsDriver
	MaxConns int32
}

type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

type TursoConfig struct {
	DBName     string
	PrimaryURL string
	AuthToken  string
}

type PubSubConfig struct {
	ProjectID string
	Topic     string
}
