package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/restmap/transport"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings for parsed schema documents.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Input and output limits.
	MaxInlineSize int64
	DefaultLimit  int
	MaxLimit      int

	// Transport settings for fetched relations.
	MaxBodySize     int64
	Timeout         time.Duration
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from RESTMAP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("RESTMAP_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("RESTMAP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("RESTMAP_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("RESTMAP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("RESTMAP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:      envInt64("RESTMAP_MAX_INLINE_SIZE", 1024*1024),
		DefaultLimit:       envInt("RESTMAP_DEFAULT_LIMIT", 100),
		MaxLimit:           envInt("RESTMAP_MAX_LIMIT", 1000),
		MaxBodySize:        envInt64("RESTMAP_MAX_BODY_SIZE", transport.DefaultMaxBodySize),
		Timeout:            envDuration("RESTMAP_TIMEOUT", transport.DefaultTimeout),
		AllowPrivateIPs:    envBool("RESTMAP_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
