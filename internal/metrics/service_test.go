package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CountsSyncOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.IncSyncOutcome("updated")
	svc.IncSyncOutcome("updated")
	svc.IncSyncOutcome("failed")
	svc.IncPinnedMessagesCreated()
	svc.IncCommandsServed("mystats")
	svc.IncCommandFailures("leaderboard")

	assert.Equal(t, 2.0, testutil.ToFloat64(svc.SyncOutcomes.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.SyncOutcomes.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(svc.SyncOutcomes.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.PinnedMessagesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.CommandsServed.WithLabelValues("mystats")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.CommandFailures.WithLabelValues("leaderboard")))
}

func TestMetricsHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)
	svc.SetStartupTime(1.5)
	svc.ObserveSyncDuration(0.2)

	rr := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/metrics", nil)
	require.NoError(t, err)
	NewMetricsHandler(reg).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "leaderboard_startup_duration_seconds 1.5")
	assert.Contains(t, rr.Body.String(), "leaderboard_sync_duration_seconds_count 1")
}

func TestMock_IsSafeForConcurrentUse(t *testing.T) {
	m := NewMock()
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			m.IncSyncOutcome("updated")
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	assert.Equal(t, 10, m.SyncOutcomes("updated"))
}
