package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disgoorg/snowflake/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
	"github.com/mauv0809/pinned-leaderboard/internal/metrics"
	"github.com/mauv0809/pinned-leaderboard/internal/pinboard"
)

type fakeRunner struct {
	calls []bool
	fn    func(dryRun bool) pinboard.Result
}

func (f *fakeRunner) RunOnce(_ context.Context, dryRun bool) pinboard.Result {
	f.calls = append(f.calls, dryRun)
	return f.fn(dryRun)
}

func setupTestServer(t *testing.T) (*Server, *leaderboard.Mock, *fakeRunner) {
	t.Helper()

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsSvc.IncSyncOutcome(string(pinboard.Updated))

	store := leaderboard.NewMock()
	runner := &fakeRunner{fn: func(dryRun bool) pinboard.Result {
		return pinboard.Result{Outcome: pinboard.Updated, MessageID: snowflake.ID(1001), DryRun: dryRun, Content: "rendered"}
	}}
	return NewServer(store, runner, metrics.NewMetricsHandler(reg)), store, runner
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	server, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `leaderboard_sync_total{outcome="updated"} 1`)
}

func TestSyncHandler(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		method      string
		result      pinboard.Result
		wantStatus  int
		wantDryRun  bool
		wantContent string
		wantError   string
	}{
		{
			name:       "updated",
			target:     "/sync",
			method:     http.MethodPost,
			result:     pinboard.Result{Outcome: pinboard.Updated, MessageID: snowflake.ID(1001), Content: "rendered"},
			wantStatus: http.StatusOK,
		},
		{
			name:        "dry run echoes content",
			target:      "/sync?dry_run=true",
			method:      http.MethodGet,
			result:      pinboard.Result{Outcome: pinboard.Updated, DryRun: true, Content: "rendered"},
			wantStatus:  http.StatusOK,
			wantDryRun:  true,
			wantContent: "rendered",
		},
		{
			name:       "skipped",
			target:     "/sync",
			method:     http.MethodPost,
			result:     pinboard.Result{Outcome: pinboard.Skipped, Reason: "channel unavailable"},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "failed",
			target:     "/sync",
			method:     http.MethodPost,
			result:     pinboard.Result{Outcome: pinboard.Failed, Reason: "edit failed", Err: errors.New("403 forbidden")},
			wantStatus: http.StatusInternalServerError,
			wantError:  "403 forbidden",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _, runner := setupTestServer(t)
			runner.fn = func(dryRun bool) pinboard.Result { return tt.result }

			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			require.Equal(t, []bool{tt.wantDryRun}, runner.calls)

			var body syncResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.result.Outcome, body.Outcome)
			assert.Equal(t, tt.result.Reason, body.Reason)
			assert.Equal(t, tt.wantContent, body.Content)
			assert.Equal(t, tt.wantError, body.Error)
			if tt.result.MessageID != 0 {
				assert.Equal(t, "1001", body.MessageID)
			}
		})
	}
}

func TestSyncHandler_RejectsOtherMethods(t *testing.T) {
	server, _, runner := setupTestServer(t)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/sync", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Allow"))
	assert.Empty(t, runner.calls)
}

func TestLeaderboardHandler(t *testing.T) {
	server, store, runner := setupTestServer(t)
	store.FetchTopFunc = func(ctx context.Context, n int) ([]leaderboard.Entry, error) {
		return []leaderboard.Entry{
			{UserID: 1, DisplayName: "Ann", Points: leaderboard.Int64(120), Wins: leaderboard.Int64(9), Matches: leaderboard.Int64(10)},
			{UserID: 2, DisplayName: "Bo", Points: leaderboard.Int64(90)},
		}, nil
	}

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=2", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body leaderboardResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Ann", body.Entries[0].DisplayName)
	assert.Nil(t, body.Entries[1].Wins)
	assert.Equal(t, []int{2}, store.FetchTopCalls)
	assert.Empty(t, runner.calls, "reading the leaderboard never syncs")
}

func TestLeaderboardHandler_DefaultsAndValidation(t *testing.T) {
	server, store, _ := setupTestServer(t)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":0,"entries":[]}`, rr.Body.String())
	assert.Equal(t, []int{leaderboard.DefaultLimit}, store.FetchTopCalls)

	for _, limit := range []string{"0", "-3", "abc", "101"} {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leaderboard?limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, "limit %q", limit)
	}
	assert.Len(t, store.FetchTopCalls, 1)
}

func TestLeaderboardHandler_StoreFault(t *testing.T) {
	server, store, _ := setupTestServer(t)
	store.FetchTopFunc = func(ctx context.Context, n int) ([]leaderboard.Entry, error) {
		return nil, leaderboard.ErrQueryFailed
	}

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestChain_AppliesInOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { order = append(order, "handler") }), mw("a"), mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestParamsMiddleware_VerboseIsRequestScoped(t *testing.T) {
	original := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	t.Cleanup(func() { log.SetLevel(original) })

	var requestLevel, globalLevel log.Level
	var dryRun bool
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestLevel = log.FromContext(r.Context()).GetLevel()
		globalLevel = log.GetLevel()
		dryRun = isDryRunFromContext(r)
	}), paramsMiddleware)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sync?verbose=true&dry_run=true", nil))
	assert.Equal(t, log.DebugLevel, requestLevel)
	assert.Equal(t, log.InfoLevel, globalLevel, "verbose must not raise the process-wide level")
	assert.True(t, dryRun)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/sync", nil))
	assert.Equal(t, log.InfoLevel, requestLevel)
	assert.False(t, dryRun)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
