package serverconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() should validate, got: %v", err)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for port 0")
	}

	cfg.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an out-of-range port")
	}
}

func TestValidateRejectsEmptyHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTP.Host = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an empty host")
	}
}

func TestValidateRejectsNonPositiveWebSocketTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WebSocket.ReadTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a zero read timeout")
	}
}

func TestValidateRejectsRateLimitWithoutPeriod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit.Limit = 5
	cfg.RateLimit.Period = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error when a positive limit has a zero period")
	}
}

func TestLoadFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("WSFORGE_HTTP_PORT", "9090")
	t.Setenv("WSFORGE_HTTP_HOST", "127.0.0.1")
	t.Setenv("WSFORGE_RATE_LIMIT", "50")

	cfg := LoadFromEnv()
	if cfg.HTTP.Port != 9090 {
		t.Fatalf("Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.HTTP.Host != "127.0.0.1" {
		t.Fatalf("Host = %q, want 127.0.0.1", cfg.HTTP.Host)
	}
	if cfg.RateLimit.Limit != 50 {
		t.Fatalf("RateLimit.Limit = %d, want 50", cfg.RateLimit.Limit)
	}
}

func TestLoadFromEnvIgnoresUnparsablePort(t *testing.T) {
	t.Setenv("WSFORGE_HTTP_PORT", "not-a-number")
	cfg := LoadFromEnv()
	if cfg.HTTP.Port != DefaultConfig().HTTP.Port {
		t.Fatalf("expected an unparsable port to leave the default untouched, got %d", cfg.HTTP.Port)
	}
}

func TestLoadFromFileOverridesSelectively(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	contents := `{
		"http": {"port": 9999, "host": "0.0.0.0"},
		"websocket": {"handshake_timeout": "5s", "read_timeout": "45s", "write_timeout": "3s", "ping_interval": "20s"},
		"rate_limit": {"limit": 10, "period": "30s"}
	}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.HTTP.Port != 9999 {
		t.Fatalf("Port = %d, want 9999", cfg.HTTP.Port)
	}
	if cfg.WebSocket.ReadTimeout != 45*time.Second {
		t.Fatalf("ReadTimeout = %v, want 45s", cfg.WebSocket.ReadTimeout)
	}
	if cfg.RateLimit.Limit != 10 || cfg.RateLimit.Period != 30*time.Second {
		t.Fatalf("RateLimit = %+v, want {10 30s}", cfg.RateLimit)
	}
}

func TestLoadFromFileRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected an error for malformed config JSON")
	}
}

func TestLoadFromFileMissingPath(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/path/config.json"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadConfigWithPrecedenceFallsBackToEnvWhenFileMissing(t *testing.T) {
	t.Setenv("WSFORGE_HTTP_PORT", "8123")
	cfg := LoadConfigWithPrecedence("/nonexistent/path/config.json")
	if cfg.HTTP.Port != 8123 {
		t.Fatalf("Port = %d, want 8123 (from env, since file is unreadable)", cfg.HTTP.Port)
	}
}

func TestLoadConfigWithPrecedenceFilePrevailsOverEnv(t *testing.T) {
	t.Setenv("WSFORGE_HTTP_PORT", "8123")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	contents := `{"http": {"port": 7000, "host": "0.0.0.0"}}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := LoadConfigWithPrecedence(path)
	if cfg.HTTP.Port != 7000 {
		t.Fatalf("Port = %d, want 7000 (file overrides env)", cfg.HTTP.Port)
	}
}
