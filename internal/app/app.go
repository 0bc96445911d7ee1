// Package app wires together configuration, router, static file serving,
// and the acceptor into a runnable Server, following the teacher's
// internal/app/application.go strict initialization order and its
// Start/Stop pair (buffered error channel + short "did it come up"
// race, reused in spirit for this framework's own component graph:
// Router -> Static -> Acceptor).
package app

import (
	"context"
	"fmt"
	"time"

	"wsforge/internal/acceptor"
	"wsforge/internal/logging"
	"wsforge/internal/router"
	"wsforge/internal/serverconfig"
	"wsforge/internal/staticfs"
)

// Server coordinates a Router and its Acceptor for one listening address.
type Server struct {
	cfg      *serverconfig.Config
	router   *router.Router
	acceptor *acceptor.Acceptor
	log      *logging.Logger
}

// New builds a Server from cfg and a caller-configured Router (routes,
// on_connect/on_disconnect, history, rate limiting already attached).
func New(cfg *serverconfig.Config, r *router.Router) (*Server, error) {
	if cfg == nil {
		cfg = serverconfig.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var static *staticfs.Server
	if cfg.Static != nil && cfg.Static.Root != "" {
		s, err := staticfs.New(cfg.Static.Root, cfg.Static.IndexName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize static file server: %w", err)
		}
		static = s
	}

	if cfg.RateLimit != nil && cfg.RateLimit.Limit > 0 {
		r.WithRateLimit(cfg.RateLimit.Limit, cfg.RateLimit.Period)
	}

	accCfg := acceptor.DefaultConfig()
	if cfg.WebSocket != nil {
		accCfg.HandshakeTimeout = cfg.WebSocket.HandshakeTimeout
		accCfg.ReadTimeout = cfg.WebSocket.ReadTimeout
		accCfg.WriteTimeout = cfg.WebSocket.WriteTimeout
		accCfg.PingInterval = cfg.WebSocket.PingInterval
	}

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	acc := acceptor.New(addr, r, static, accCfg)

	return &Server{cfg: cfg, router: r, acceptor: acc, log: logging.Default()}, nil
}

// Start begins serving in the background and returns once the server is
// confirmed to have come up (or failed to).
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting wsforge server on %s:%d", s.cfg.HTTP.Host, s.cfg.HTTP.Port)

	errCh := make(chan error, 1)
	go func() {
		if err := s.acceptor.ListenAndServe(ctx); err != nil {
			errCh <- fmt.Errorf("acceptor error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(100 * time.Millisecond):
		s.log.Info("wsforge server started successfully")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop gracefully shuts down the acceptor.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down wsforge server")
	if err := s.acceptor.Shutdown(ctx); err != nil {
		s.log.Error("acceptor shutdown error: %v", err)
		return err
	}
	return nil
}

// Router exposes the underlying Router, e.g. for tests driving Dispatch
// directly.
func (s *Server) Router() *router.Router { return s.router }
