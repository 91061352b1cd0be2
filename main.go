package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/pinned-leaderboard/internal/bot"
	"github.com/mauv0809/pinned-leaderboard/internal/commands"
	"github.com/mauv0809/pinned-leaderboard/internal/config"
	"github.com/mauv0809/pinned-leaderboard/internal/database"
	"github.com/mauv0809/pinned-leaderboard/internal/discord"
	server "github.com/mauv0809/pinned-leaderboard/internal/http"
	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
	"github.com/mauv0809/pinned-leaderboard/internal/metrics"
	"github.com/mauv0809/pinned-leaderboard/internal/pinboard"
	"github.com/mauv0809/pinned-leaderboard/internal/pubsub"
	"github.com/mauv0809/pinned-leaderboard/internal/render"
	"github.com/mauv0809/pinned-leaderboard/internal/scheduler"
	"github.com/mauv0809/pinned-leaderboard/internal/state"
)

// portDisabled turns the HTTP control surface off.
const portDisabled = "off"

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown LOG_LEVEL, keeping info", "level", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, storeTeardown, err := openStatsStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize stats store", "driver", cfg.Stats.Driver, "error", err)
	}
	defer func() {
		log.Info("Closing stats store")
		storeTeardown()
	}()
	log.Info("Stats store initialized", "driver", cfg.Stats.Driver, "duration_ms", time.Since(startTime).Milliseconds())

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	publisher := pubsub.NewNoop()
	if cfg.PubSub.ProjectID != "" {
		publisher, err = pubsub.New(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			log.Fatal("Failed to initialize pubsub", "project", cfg.PubSub.ProjectID, "error", err)
		}
	}
	defer publisher.Close()

	renderer := render.New(render.Options{
		Title:         cfg.Leaderboard.Title,
		PointsLabel:   cfg.Leaderboard.PointsLabel,
		Timezone:      cfg.Leaderboard.Timezone,
		TimezoneLabel: cfg.Leaderboard.TimezoneLabel,
		CommandPrefix: cfg.Discord.CommandPrefix,
		Limit:         leaderboard.DefaultLimit,
	})

	session, err := bot.NewSession(cfg.Discord.Token)
	if err != nil {
		log.Fatal("Failed to create Discord session", "error", err)
	}
	client := discord.NewSession(session)

	syncer := pinboard.New(
		cfg.Discord.ChannelID,
		client,
		discord.NewResolver(client),
		store,
		renderer,
		state.NewFileStore(cfg.StateFile),
		metricsSvc,
		publisher,
		pinboard.WithEventTopic(cfg.PubSub.Topic),
	)
	sched := scheduler.New(syncer, cfg.Leaderboard.Interval)
	b := bot.New(cfg.Discord, session, commands.New(store, renderer, metricsSvc), sched)

	sched.Start(ctx)
	if err := b.Start(ctx); err != nil {
		log.Fatal("Failed to start bot", "error", err)
	}

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	var srv *http.Server
	serverErrors := make(chan error, 1)
	if cfg.Port != portDisabled {
		srv = &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           server.NewServer(store, sched, metricsHandler),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info("Server started", "port", cfg.Port)
			serverErrors <- srv.ListenAndServe()
		}()
	}

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}
	stop()
	sched.Stop()
	if err := b.Stop(); err != nil {
		log.Error("Failed to close Discord session", "error", err)
	}
	log.Info("Bot process shutting down")
}

// openStatsStore connects the configured stats backend and returns a teardown
// that releases it. A Postgres server that is down does not fail here; ticks
// and commands report it as a query failure instead.
func openStatsStore(ctx context.Context, cfg config.Config) (leaderboard.Store, func(), error) {
	switch cfg.Stats.Driver {
	case config.DriverSQL:
		db, err := database.InitDB(cfg.Turso.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(int(cfg.Stats.MaxConns))
		return leaderboard.NewSQLStore(db), func() { db.Close() }, nil
	default:
		pool, err := database.NewPool(ctx, cfg.Postgres, cfg.Stats.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		return leaderboard.NewPostgresStore(pool), pool.Close, nil
	}
}
