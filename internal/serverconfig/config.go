// Package serverconfig is the ambient configuration layer for the example
// server binary, modeled directly on internal/config/config.go: defaults,
// validation, environment overrides, JSON file overrides with a
// string-duration shadow struct, and file > env > defaults precedence.
package serverconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the top-level, process-wide configuration.
type Config struct {
	HTTP      *HTTPConfig      `json:"http"`
	WebSocket *WebSocketConfig `json:"websocket"`
	Static    *StaticConfig    `json:"static"`
	RateLimit *RateLimitConfig `json:"rate_limit"`
}

// HTTPConfig tunes the listening socket.
type HTTPConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// WebSocketConfig tunes handshake and heartbeat timing.
type WebSocketConfig struct {
	HandshakeTimeout time.Duration `json:"handshake_timeout"`
	ReadTimeout      time.Duration `json:"read_timeout"`
	WriteTimeout     time.Duration `json:"write_timeout"`
	PingInterval     time.Duration `json:"ping_interval"`
}

// StaticConfig configures the shared static-file server. An empty Root
// disables static serving entirely.
type StaticConfig struct {
	Root      string `json:"root"`
	IndexName string `json:"index_name"`
}

// RateLimitConfig configures the per-session fixed-window limiter. A
// zero Limit disables rate limiting.
type RateLimitConfig struct {
	Limit  int           `json:"limit"`
	Period time.Duration `json:"period"`
}

// DefaultConfig returns production-ready defaults in the teacher's style:
// standard port, generous timeouts, rate limiting matching the teacher's
// 100-messages-per-minute figure.
func DefaultConfig() *Config {
	return &Config{
		HTTP: &HTTPConfig{Host: "0.0.0.0", Port: 8080},
		WebSocket: &WebSocketConfig{
			HandshakeTimeout: 10 * time.Second,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     5 * time.Second,
			PingInterval:     30 * time.Second,
		},
		Static: &StaticConfig{Root: "", IndexName: "index.html"},
		RateLimit: &RateLimitConfig{
			Limit:  100,
			Period: time.Minute,
		},
	}
}

// Validate checks the configuration for internally-consistent values
// before a Router/Acceptor is built from it.
func (c *Config) Validate() error {
	if c.HTTP == nil {
		return fmt.Errorf("http configuration is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http port must be between 1 and 65535")
	}
	if c.HTTP.Host == "" {
		return fmt.Errorf("http host cannot be empty")
	}
	if c.WebSocket == nil {
		return fmt.Errorf("websocket configuration is required")
	}
	if c.WebSocket.HandshakeTimeout <= 0 || c.WebSocket.ReadTimeout <= 0 ||
		c.WebSocket.WriteTimeout <= 0 || c.WebSocket.PingInterval <= 0 {
		return fmt.Errorf("websocket timeouts must be positive")
	}
	if c.RateLimit != nil && c.RateLimit.Limit > 0 && c.RateLimit.Period <= 0 {
		return fmt.Errorf("rate limit period must be positive when a limit is set")
	}
	return nil
}

// LoadFromEnv overrides DefaultConfig with WSFORGE_-prefixed environment
// variables, falling back silently to defaults on parse errors.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if port := os.Getenv("WSFORGE_HTTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.HTTP.Port = p
		}
	}
	if host := os.Getenv("WSFORGE_HTTP_HOST"); host != "" {
		cfg.HTTP.Host = host
	}
	if root := os.Getenv("WSFORGE_STATIC_ROOT"); root != "" {
		cfg.Static.Root = root
	}
	if pingInterval := os.Getenv("WSFORGE_WEBSOCKET_PING_INTERVAL"); pingInterval != "" {
		if d, err := time.ParseDuration(pingInterval); err == nil {
			cfg.WebSocket.PingInterval = d
		}
	}
	if readTimeout := os.Getenv("WSFORGE_WEBSOCKET_READ_TIMEOUT"); readTimeout != "" {
		if d, err := time.ParseDuration(readTimeout); err == nil {
			cfg.WebSocket.ReadTimeout = d
		}
	}
	if limit := os.Getenv("WSFORGE_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			cfg.RateLimit.Limit = n
		}
	}

	return cfg
}

// fileShadow mirrors Config but with duration fields as strings, the way
// the teacher's ConfigFile/HTTPConfigFile/WebSocketConfigFile structs
// parse JSON durations.
type fileShadow struct {
	HTTP *HTTPConfig `json:"http"`
	WebSocket *struct {
		HandshakeTimeout string `json:"handshake_timeout"`
		ReadTimeout      string `json:"read_timeout"`
		WriteTimeout     string `json:"write_timeout"`
		PingInterval     string `json:"ping_interval"`
	} `json:"websocket"`
	Static *StaticConfig `json:"static"`
	RateLimit *struct {
		Limit  int    `json:"limit"`
		Period string `json:"period"`
	} `json:"rate_limit"`
}

// LoadFromFile loads JSON configuration from path, applied on top of
// DefaultConfig, then validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var shadow fileShadow
	if err := json.Unmarshal(data, &shadow); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if shadow.HTTP != nil {
		if shadow.HTTP.Port > 0 {
			cfg.HTTP.Port = shadow.HTTP.Port
		}
		if shadow.HTTP.Host != "" {
			cfg.HTTP.Host = shadow.HTTP.Host
		}
	}
	if shadow.WebSocket != nil {
		if d, err := time.ParseDuration(shadow.WebSocket.HandshakeTimeout); err == nil {
			cfg.WebSocket.HandshakeTimeout = d
		}
		if d, err := time.ParseDuration(shadow.WebSocket.ReadTimeout); err == nil {
			cfg.WebSocket.ReadTimeout = d
		}
		if d, err := time.ParseDuration(shadow.WebSocket.WriteTimeout); err == nil {
			cfg.WebSocket.WriteTimeout = d
		}
		if d, err := time.ParseDuration(shadow.WebSocket.PingInterval); err == nil {
			cfg.WebSocket.PingInterval = d
		}
	}
	if shadow.Static != nil {
		cfg.Static = shadow.Static
	}
	if shadow.RateLimit != nil {
		cfg.RateLimit.Limit = shadow.RateLimit.Limit
		if d, err := time.ParseDuration(shadow.RateLimit.Period); err == nil {
			cfg.RateLimit.Period = d
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigWithPrecedence returns the file's configuration (file values
// over defaults) when path loads and validates; environment variables are
// not applied on top of it. When path is empty, unreadable or invalid, it
// silently falls back to LoadFromEnv (environment over defaults).
func LoadConfigWithPrecedence(path string) *Config {
	cfg := LoadFromEnv()
	if path != "" {
		if fileCfg, err := LoadFromFile(path); err == nil {
			cfg = fileCfg
		}
	}
	return cfg
}
