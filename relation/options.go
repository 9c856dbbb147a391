package relation

import (
	"fmt"

	"github.com/erraggy/restmap/logging"
	"github.com/erraggy/restmap/registry"
)

// DefaultParallelism bounds the concurrent fetches made by ResolveAll.
const DefaultParallelism = 4

// Option is a functional option for configuring a Resolver.
type Option func(*config) error

type config struct {
	registry    *registry.Registry
	logger      logging.Logger
	parallelism int
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		logger:      logging.NopLogger{},
		parallelism: DefaultParallelism,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("relation: invalid options: %w", err)
		}
	}
	if cfg.registry == nil {
		cfg.registry = registry.Default()
	}
	return cfg, nil
}

// WithRegistry sets the registry used for reverse URL matching.
// Defaults to registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(c *config) error {
		if r == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		c.registry = r
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *config) error {
		c.logger = logging.OrNop(l)
		return nil
	}
}

// WithParallelism sets how many fetches ResolveAll runs at once.
func WithParallelism(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("parallelism must be at least 1, got %d", n)
		}
		c.parallelism = n
		return nil
	}
}
