// Command wsforge-echo is a minimal illustrative server: it echoes Text
// and Binary frames, answers "/stats" with the current connection count,
// and serves a static directory if WSFORGE_STATIC_ROOT is set. It exists
// to exercise app.Server end-to-end, the way the teacher's
// cmd/switchboard/main.go exercises internal/app.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wsforge/internal/app"
	"wsforge/internal/extract"
	"wsforge/internal/handler"
	"wsforge/internal/registry"
	"wsforge/internal/respond"
	"wsforge/internal/router"
	"wsforge/internal/serverconfig"
	"wsforge/pkg/message"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	configPath := os.Getenv("WSFORGE_CONFIG_FILE")
	cfg := serverconfig.LoadConfigWithPrecedence(configPath)

	r := router.New()
	r.OnConnect(func(reg *registry.Registry, id string) {
		log.Printf("connected: %s (total=%d)", id, reg.Count())
	})
	r.OnDisconnect(func(reg *registry.Registry, id string) {
		log.Printf("disconnected: %s (total=%d)", id, reg.Count())
	})

	// /stats answers with the current connection count, pulled from the
	// registry the router stores in its own AppState (spec.md §3).
	r.Use("/stats", handler.From1(
		extract.State[*registry.Registry],
		func(ctx context.Context, reg *registry.Registry) (string, error) {
			return fmt.Sprintf("connections: %d", reg.Count()), nil
		},
		respond.TextResponder,
	))

	// Default handler: echo Text and Binary frames back unchanged.
	r.Default(handler.From1(
		extract.MessageExtractor,
		func(ctx context.Context, m message.Message) (message.Message, error) {
			return m, nil
		},
		respond.MessageResponder,
	))

	server, err := app.New(cfg, r)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	appErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			appErrCh <- err
		}
	}()

	select {
	case err := <-appErrCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-signalCh:
		log.Printf("received signal %v, shutting down gracefully", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return server.Stop(shutdownCtx)
	}
}
