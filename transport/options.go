package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/erraggy/restmap"
	"github.com/erraggy/restmap/logging"
	"github.com/erraggy/restmap/registry"
)

const (
	// DefaultTimeout is the request timeout of the default HTTP client.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBodySize caps response bodies at 10 MiB.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024
)

// Option is a functional option for configuring a Client.
type Option func(*config) error

type config struct {
	httpClient  *http.Client
	timeout     time.Duration
	registry    *registry.Registry
	userAgent   string
	maxBodySize int64
	logger      logging.Logger
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		timeout:     DefaultTimeout,
		userAgent:   restmap.UserAgent(),
		maxBodySize: DefaultMaxBodySize,
		logger:      logging.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("transport: invalid options: %w", err)
		}
	}
	if cfg.registry == nil {
		cfg.registry = registry.Default()
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}
	return cfg, nil
}

// WithHTTPClient sets the HTTP client. WithTimeout is ignored when set.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) error {
		if c == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cfg.httpClient = c
		return nil
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithRegistry sets the registry used to generate request URLs.
// Defaults to registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(cfg *config) error {
		if r == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		cfg.registry = r
		return nil
	}
}

// WithUserAgent sets the User-Agent header. Defaults to restmap.UserAgent().
func WithUserAgent(ua string) Option {
	return func(cfg *config) error {
		if ua == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		cfg.userAgent = ua
		return nil
	}
}

// WithMaxBodySize caps the number of response body bytes read.
func WithMaxBodySize(n int64) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("max body size must be positive, got %d", n)
		}
		cfg.maxBodySize = n
		return nil
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l logging.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = logging.OrNop(l)
		return nil
	}
}
