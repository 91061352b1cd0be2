package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSyncOutcome(outcome string)
	ObserveSyncDuration(seconds float64)
	IncPinnedMessagesCreated()
	IncCommandsServed(command string)
	IncCommandFailures(command string)
	IncEventsPublished()
	IncEventsFailed()
	SetStartupTime(duration float64)
}
