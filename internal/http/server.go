// Package http exposes the transaction and auth services over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finflio/internal/auth"
	"finflio/internal/cache"
	"finflio/internal/core"
	"finflio/internal/services"
)

type Server struct {
	http.Server
	txns        *services.TransactionService
	users       *services.UserService
	tokens      auth.TokenIssuer
	rateLimiter *rateLimiter

	// Cached per-user stats, invalidated on writes.
	statsCache *cache.LRUCache[core.Stats]

	stopSweep    context.CancelFunc
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, txns *services.TransactionService, users *services.UserService, tokens auth.TokenIssuer, statsTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		txns:        txns,
		users:       users,
		tokens:      tokens,
		rateLimiter: newRateLimiter(),
		statsCache:  cache.NewLRUCache[core.Stats](100, statsTTL),
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	s.stopSweep = cancel
	go cache.RunSweeper(sweepCtx, 10*time.Minute, s.statsCache)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /auth/register", s.withMiddleware(s.handleRegister))
	mux.HandleFunc("POST /auth/login", s.withMiddleware(s.handleLogin))

	mux.HandleFunc("POST /transaction", s.withMiddleware(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /transaction", s.withMiddleware(s.withAuth(s.handleGetTransaction)))
	mux.HandleFunc("PUT /transaction", s.withMiddleware(s.withAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /transaction", s.withMiddleware(s.withAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /transaction/all", s.withMiddleware(s.withAuth(s.handleListFiltered)))
	mux.HandleFunc("POST /transaction/all", s.withMiddleware(s.withAuth(s.handlePostBatch)))
	mux.HandleFunc("GET /transaction/list", s.withMiddleware(s.withAuth(s.handleListAll)))
	mux.HandleFunc("GET /transaction/unsettled", s.withMiddleware(s.withAuth(s.handleListUnsettled)))
	mux.HandleFunc("GET /transaction/stats", s.withMiddleware(s.withAuth(s.handleStats)))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.stopSweep()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
