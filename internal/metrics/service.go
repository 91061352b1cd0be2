package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SyncOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leaderboard_sync_total",
			Help: "Pinned leaderboard synchronization attempts by outcome.",
		}, []string{"outcome"}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leaderboard_sync_duration_seconds",
			Help:    "The duration of a single synchronization attempt.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PinnedMessagesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leaderboard_pinned_messages_created_total",
			Help: "The total number of leaderboard messages the bot had to create and pin.",
		}),
		CommandsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leaderboard_commands_served_total",
			Help: "On-demand chat commands answered, by command.",
		}, []string{"command"}),
		CommandFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leaderboard_command_failures_total",
			Help: "On-demand chat commands that hit a store fault, by command.",
		}, []string{"command"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leaderboard_events_published_total",
			Help: "The total number of leaderboard update events published.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leaderboard_events_failed_total",
			Help: "The total number of leaderboard update events that failed to publish.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leaderboard_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SyncOutcomes,
		s.SyncDuration,
		s.PinnedMessagesCreated,
		s.CommandsServed,
		s.CommandFailures,
		s.EventsPublished,
		s.EventsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSyncOutcome(outcome string) {
	s.SyncOutcomes.WithLabelValues(outcome).Inc()
}

func (s *Service) ObserveSyncDuration(seconds float64) {
	s.SyncDuration.Observe(seconds)
}

func (s *Service) IncPinnedMessagesCreated() {
	s.PinnedMessagesCreated.Inc()
}

func (s *Service) IncCommandsServed(command string) {
	s.CommandsServed.WithLabelValues(command).Inc()
}

func (s *Service) IncCommandFailures(command string) {
	s.CommandFailures.WithLabelValues(command).Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) IncEventsFailed() {
	s.EventsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
