package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mauv0809/pinned-leaderboard/internal/config"
)

// PostgresDSN builds a connection URL from the PG* settings.
func PostgresDSN(cfg config.PostgresConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else if cfg.User != "" {
		u.User = url.User(cfg.User)
	}
	return u.String()
}

const pingTimeout = 5 * time.Second

// NewPool opens a bounded pgx pool. Only an invalid configuration is an
// error; a server that is down at startup is logged and tolerated.
func NewPool(ctx context.Context, cfg config.PostgresConfig, maxConns int32) (*pgxpool.Pool, error) {
	return NewPoolFromDSN(ctx, PostgresDSN(cfg), maxConns)
}

// NewPoolFromDSN is NewPool for an already assembled connection string.
func NewPoolFromDSN(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}
	poolCfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	// Connections are made on demand, so an unreachable server only fails
	// individual queries.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		log.Warn("Postgres not reachable yet, queries will fail until it is", "host", poolCfg.ConnConfig.Host, "error", err)
		return pool, nil
	}
	log.Info("Connected to postgres", "host", poolCfg.ConnConfig.Host, "database", poolCfg.ConnConfig.Database, "max_conns", poolCfg.MaxConns)
	return pool, nil
}

// OpenPostgres opens a database/sql handle over the pgx driver. It is used
// for migrations and seeding, never by the bot's read path.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return db, nil
}
