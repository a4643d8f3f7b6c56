package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/birgenshire/homink-core/internal/infrastructure/config"
	"github.com/birgenshire/homink-core/internal/infrastructure/logging"
	"github.com/birgenshire/homink-core/internal/tracker"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	WS      config.WebSocketConfig
	Logger  *logging.Logger
	Version string
}

// Server is the diagnostic HTTP server for the homink daemon.
//
// It serves the last snapshot set pushed by the poll loop; it never
// reads tracker state itself.
type Server struct {
	cfg     config.APIConfig
	wsCfg   config.WebSocketConfig
	logger  *logging.Logger
	version string
	server  *http.Server
	hub     *Hub
	cancel  context.CancelFunc

	mu        sync.RWMutex
	snapshots []tracker.Snapshot
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WS,
		logger:  deps.Logger,
		version: deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub and launches the HTTP listener in a
// background goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete, then
// forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// SetSnapshots replaces the snapshot set served by the read endpoints.
// The poll loop calls this after every tick.
func (s *Server) SetSnapshots(snapshots []tracker.Snapshot) {
	s.mu.Lock()
	s.snapshots = snapshots
	s.mu.Unlock()
}

// Broadcast pushes an event to all connected WebSocket clients. It is a
// no-op before Start().
func (s *Server) Broadcast(eventType string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(eventType, payload)
}

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/sensors", s.handleListSensors)
		r.Get("/sensors/{identity}", s.handleGetSensor)
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleListSensors returns the snapshot of every tracked sensor.
func (s *Server) handleListSensors(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	snapshots := s.snapshots
	s.mu.RUnlock()

	if snapshots == nil {
		snapshots = []tracker.Snapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sensors": snapshots,
		"count":   len(snapshots),
	})
}

// handleGetSensor returns the snapshot of one sensor by identity.
func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, snap := range s.snapshots {
		if snap.Identity == identity {
			writeJSON(w, http.StatusOK, snap)
			return
		}
	}
	writeNotFound(w, fmt.Sprintf("no sensor with identity %q", identity))
}
