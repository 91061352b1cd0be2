package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	SyncOutcomes          *prometheus.CounterVec
	SyncDuration          prometheus.Histogram
	PinnedMessagesCreated prometheus.Counter
	CommandsServed        *prometheus.CounterVec
	CommandFailures       *prometheus.CounterVec
	EventsPublished       prometheus.Counter
	EventsFailed          prometheus.Counter
	StartupTimeSeconds    prometheus.Gauge
}
