package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu              sync.Mutex
	syncOutcomes    map[string]int
	syncDurations   []float64
	messagesCreated int
	commandsServed  map[string]int
	commandFailures map[string]int
	eventsPublished int
	eventsFailed    int
	startupTime     float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		syncOutcomes:    make(map[string]int),
		syncDurations:   make([]float64, 0),
		commandsServed:  make(map[string]int),
		commandFailures: make(map[string]int),
	}
}

func (m *Mock) IncSyncOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncOutcomes[outcome]++
}

func (m *Mock) ObserveSyncDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncDurations = append(m.syncDurations, seconds)
}

func (m *Mock) IncPinnedMessagesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messagesCreated++
}

func (m *Mock) IncCommandsServed(command string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandsServed[command]++
}

func (m *Mock) IncCommandFailures(command string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandFailures[command]++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) IncEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SyncOutcomes returns how many times IncSyncOutcome was called with outcome.
func (m *Mock) SyncOutcomes(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncOutcomes[outcome]
}

// SyncDurations returns the number of observed sync durations.
func (m *Mock) SyncDurations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.syncDurations)
}

// MessagesCreated returns the number of times IncPinnedMessagesCreated was called.
func (m *Mock) MessagesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messagesCreated
}

// CommandsServed returns how many times IncCommandsServed was called with command.
func (m *Mock) CommandsServed(command string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commandsServed[command]
}

// CommandFailures returns how many times IncCommandFailures was called with command.
func (m *Mock) CommandFailures(command string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commandFailures[command]
}

// EventsPublished returns the number of times IncEventsPublished was called.
func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}

// EventsFailed returns the number of times IncEventsFailed was called.
func (m *Mock) EventsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsFailed
}
