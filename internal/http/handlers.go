package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
	"github.com/mauv0809/pinned-leaderboard/internal/pinboard"
)

const maxLimit = 100

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// SyncHandler runs one synchronization immediately and reports its outcome.
func (s *Server) SyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		log.FromContext(r.Context()).Info("Manual leaderboard sync requested", "dry_run", isDryRun)

		res := s.Sync.RunOnce(r.Context(), isDryRun)
		body := syncResponse{
			Outcome: res.Outcome,
			Reason:  res.Reason,
			DryRun:  res.DryRun,
		}
		if res.MessageID != 0 {
			body.MessageID = res.MessageID.String()
		}
		if res.DryRun {
			body.Content = res.Content
		}
		if res.Err != nil {
			body.Error = res.Err.Error()
		}

		status := http.StatusOK
		switch res.Outcome {
		case pinboard.Skipped:
			status = http.StatusServiceUnavailable
		case pinboard.Failed:
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, body)
	}
}

// LeaderboardHandler returns the current top entries as JSON. It is read-only
// and never touches the pinned message.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.FromContext(r.Context())
		limit := leaderboard.DefaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxLimit {
				logger.Warn("Invalid 'limit' parameter", "limit_param", raw)
				http.Error(w, fmt.Sprintf("limit must be between 1 and %d", maxLimit), http.StatusBadRequest)
				return
			}
			limit = n
		}

		entries, err := s.Store.FetchTop(r.Context(), limit)
		if err != nil {
			logger.Error("Failed to fetch leaderboard", "error", err)
			http.Error(w, "Failed to fetch leaderboard", http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []leaderboard.Entry{}
		}
		writeJSON(w, http.StatusOK, leaderboardResponse{Count: len(entries), Entries: entries})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}
