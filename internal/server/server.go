// Package server exposes the thin HTTP surface: an authenticated trigger for
// the sync job and a cached token read endpoint. All derived logic lives
// elsewhere; handlers only authenticate, delegate, and encode.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/cache"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/logger"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
	syncengine "github.com/ohakidev/binance-alpha-tool-sub001/internal/sync"
)

// secretHeader carries the shared secret for the sync trigger.
const secretHeader = "X-Sync-Secret"

// Runner triggers one sync run.
type Runner interface {
	Run(ctx context.Context) (models.SyncRun, error)
}

// Server wires the HTTP handlers.
type Server struct {
	runner     Runner
	insights   *cache.SnapshotCache
	load       cache.Loader
	syncSecret string
}

// New creates a Server.
func New(runner Runner, insights *cache.SnapshotCache, load cache.Loader, syncSecret string) *Server {
	return &Server{
		runner:     runner,
		insights:   insights,
		load:       load,
		syncSecret: syncSecret,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sync", s.handleSync)
	mux.HandleFunc("GET /api/tokens", s.handleTokens)
	return mux
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get(secretHeader)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.syncSecret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	run, err := s.runner.Run(r.Context())
	if errors.Is(err, syncengine.ErrRunInProgress) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Error("Sync trigger failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":    run.ID,
		"timestamp": run.StartedAt.UTC().Format(time.RFC3339),
		"duration":  run.Duration.String(),
		"fetched":   run.Fetched,
		"created":   run.Created,
		"updated":   run.Updated,
		"notified":  run.Notified,
		"errors":    run.Errors,
		"success":   run.Success,
	})
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.insights.Fetch(r.Context(), s.load)
	if err != nil {
		logger.Error("Token snapshot unavailable: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "token data unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"as_of":  s.insights.Timestamp().UTC().Format(time.RFC3339),
		"count":  len(tokens),
		"tokens": tokens,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response: %v", err)
	}
}
