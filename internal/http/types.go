package http

import (
	"context"
	"net/http"

	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
	"github.com/mauv0809/pinned-leaderboard/internal/pinboard"
)

// SyncRunner triggers an out-of-band synchronization.
type SyncRunner interface {
	RunOnce(ctx context.Context, dryRun bool) pinboard.Result
}

type Server struct {
	Store          leaderboard.Store
	Sync           SyncRunner
	MetricsHandler http.Handler
	Router         *http.ServeMux
}

// syncResponse is the JSON body returned by /sync.
type syncResponse struct {
	Outcome   pinboard.Outcome `json:"outcome"`
	Reason    string           `json:"reason,omitempty"`
	MessageID string           `json:"message_id,omitempty"`
	DryRun    bool             `json:"dry_run"`
	Content   string           `json:"content,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// leaderboardResponse is the JSON body returned by /leaderboard.
type leaderboardResponse struct {
	Count   int                 `json:"count"`
	Entries []leaderboard.Entry `json:"entries"`
}
