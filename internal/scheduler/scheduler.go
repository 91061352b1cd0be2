// Package scheduler drives the pinned leaderboard refresh on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/pinned-leaderboard/internal/pinboard"
)

// Scheduler runs pinboard synchronization once the Discord session is ready
// and then on every interval. At most one attempt runs at a time.
type Scheduler struct {
	syncer   pinboard.Syncer
	interval time.Duration

	ready     chan struct{}
	readyOnce sync.Once
	stopChan  chan struct{}
	stopOnce  sync.Once
	running   sync.Mutex
	wg        sync.WaitGroup
}

// New creates a Scheduler ticking every interval.
func New(syncer pinboard.Syncer, interval time.Duration) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		ready:    make(chan struct{}),
		stopChan: make(chan struct{}),
	}
}

// Ready marks the chat connection as ready. Only the first call has an
// effect, so it is safe to call on every reconnect.
func (s *Scheduler) Ready() {
	s.readyOnce.Do(func() {
		log.Info("Chat connection ready, starting leaderboard updates")
		close(s.ready)
	})
}

// Start launches the loop in the background. The first attempt runs as soon
// as Ready has been called.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop ends the loop and waits for an in-flight attempt to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

// RunOnce runs a synchronization outside the timer. It reports Skipped when
// another attempt is already in flight.
func (s *Scheduler) RunOnce(ctx context.Context, dryRun bool) pinboard.Result {
	res, ok := s.tryRun(ctx, dryRun)
	if !ok {
		return pinboard.Result{Outcome: pinboard.Skipped, Reason: "sync already in progress", DryRun: dryRun}
	}
	return res
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	select {
	case <-s.ready:
	case <-ctx.Done():
		log.Info("Scheduler stopped before the connection was ready")
		return
	case <-s.stopChan:
		log.Info("Scheduler stopped before the connection was ready")
		return
	}

	log.Info("Starting scheduler", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("Scheduler stopped (context cancelled)")
			return
		case <-s.stopChan:
			log.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, ok := s.tryRun(ctx, false); !ok {
		log.Warn("Previous leaderboard sync still running, skipping tick")
	}
}

// tryRun is the single-flight guard shared by ticks and RunOnce. A panic
// inside an attempt is converted into a Failed result.
func (s *Scheduler) tryRun(ctx context.Context, dryRun bool) (res pinboard.Result, ok bool) {
	if !s.running.TryLock() {
		return pinboard.Result{}, false
	}
	defer s.running.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic during leaderboard sync", "panic", r)
			res = pinboard.Result{Outcome: pinboard.Failed, Reason: "panic", DryRun: dryRun, Err: fmt.Errorf("panic: %v", r)}
			ok = true
		}
	}()
	return s.syncer.UpdatePinned(ctx, dryRun), true
}
