package app

import (
	"context"
	"testing"
	"time"

	"wsforge/internal/router"
	"wsforge/internal/serverconfig"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := serverconfig.DefaultConfig()
	cfg.HTTP.Port = -1

	if _, err := New(cfg, router.New()); err == nil {
		t.Fatal("expected New to reject an invalid configuration")
	}
}

func TestNewAppliesRateLimitWhenConfigured(t *testing.T) {
	cfg := serverconfig.DefaultConfig()
	cfg.HTTP.Port = 0
	cfg.RateLimit.Limit = 5
	cfg.RateLimit.Period = time.Minute

	r := router.New()
	if _, err := New(cfg, r); err != nil {
		t.Fatalf("New: %v", err)
	}
	// A rate limit is attached via Router.WithRateLimit internally; there is
	// no public getter, so this test only confirms construction succeeds
	// with rate limiting configured, exercising that code path without
	// panicking.
}

func TestStartAndStopRoundTrip(t *testing.T) {
	cfg := serverconfig.DefaultConfig()
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = 18181

	r := router.New()
	server, err := New(cfg, r)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := server.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestRouterAccessorReturnsConstructedRouter(t *testing.T) {
	cfg := serverconfig.DefaultConfig()
	cfg.HTTP.Port = 0
	r := router.New()

	server, err := New(cfg, r)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if server.Router() != r {
		t.Fatal("expected Router() to return the same instance passed to New")
	}
}
