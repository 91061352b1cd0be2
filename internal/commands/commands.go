// Package commands answers the player-facing leaderboard and mystats
// requests. It reads stats and replies; it never touches the pinned message.
package commands

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
	"github.com/mauv0809/pinned-leaderboard/internal/metrics"
	"github.com/mauv0809/pinned-leaderboard/internal/render"
)

const (
	Leaderboard = "leaderboard"
	MyStats     = "mystats"
)

// Service renders replies for on-demand commands.
type Service struct {
	store    leaderboard.Store
	renderer *render.Renderer
	metrics  metrics.Metrics
	now      func() time.Time
}

// New creates a Service.
func New(store leaderboard.Store, renderer *render.Renderer, m metrics.Metrics) *Service {
	return &Service{
		store:    store,
		renderer: renderer,
		metrics:  m,
		now:      time.Now,
	}
}

// Leaderboard returns the current top entries rendered for a direct reply.
func (s *Service) Leaderboard(ctx context.Context) string {
	entries, err := s.store.FetchTop(ctx, leaderboard.DefaultLimit)
	if err != nil {
		log.Error("Failed to fetch leaderboard for command", "error", err)
		s.metrics.IncCommandFailures(Leaderboard)
		return render.FailureNotice
	}
	s.metrics.IncCommandsServed(Leaderboard)
	return s.renderer.Leaderboard(entries, s.now())
}

// MyStats looks up arg, or requester when arg is blank, and returns a single
// player line or a not-found reply.
func (s *Service) MyStats(ctx context.Context, arg, requester string) string {
	identifier := strings.TrimSpace(arg)
	if identifier == "" {
		identifier = strings.TrimSpace(requester)
	}
	if identifier == "" {
		s.metrics.IncCommandsServed(MyStats)
		return s.renderer.NotFound(identifier)
	}

	entry, err := s.store.FetchOne(ctx, identifier)
	if err != nil {
		log.Error("Failed to look up player stats", "identifier", identifier, "error", err)
		s.metrics.IncCommandFailures(MyStats)
		return render.FailureNotice
	}
	s.metrics.IncCommandsServed(MyStats)
	if entry == nil {
		return s.renderer.NotFound(identifier)
	}
	return s.renderer.PlayerLine(*entry)
}
