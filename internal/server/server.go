package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/rs/zerolog"
)

// Server exposes the saved run history over HTTP. Everything except
// /health requires the access token.
type Server struct {
	store     store.Store
	port      int
	token     string
	router    *http.ServeMux
	startTime time.Time
}

func New(s store.Store, port int, token string) *Server {
	if token == "" {
		token = generateToken()
	}

	srv := &Server{
		store:     s,
		port:      port,
		token:     token,
		router:    http.NewServeMux(),
		startTime: time.Now(),
	}

	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	// Public endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)

	// History endpoints (protected)
	s.router.Handle("GET /api/runs", s.authMiddleware(http.HandlerFunc(s.handleListRuns)))
	s.router.Handle("GET /api/runs/{id}", s.authMiddleware(http.HandlerFunc(s.handleGetRun)))
	s.router.Handle("GET /api/runs/{id}/checks", s.authMiddleware(http.HandlerFunc(s.handleGetChecks)))
	s.router.Handle("GET /runs/{id}", s.authMiddleware(http.HandlerFunc(s.handleRunText)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := zerolog.Ctx(ctx)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", s.port).
			Str("runs_url", fmt.Sprintf("http://localhost:%d/api/runs?token=%s", s.port, s.token)).
			Msg("serving run history")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) StartTime() time.Time {
	return s.startTime
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func generateToken() string {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a simple token if crypto/rand fails
		return "a1b2c3d4"
	}
	return hex.EncodeToString(bytes)
}
