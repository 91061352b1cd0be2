package http

import (
	"net/http"

	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
)

func NewServer(store leaderboard.Store, sync SyncRunner, metricsHandler http.Handler) *Server {
	server := &Server{
		Store:          store,
		Sync:           sync,
		MetricsHandler: metricsHandler,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/sync", Chain(s.SyncHandler(), paramsMiddleware, allowMethods(http.MethodGet, http.MethodPost)))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware, allowMethods(http.MethodGet)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
