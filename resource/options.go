package resource

import (
	"fmt"

	"github.com/erraggy/restmap/logging"
	"github.com/erraggy/restmap/registry"
)

// Option is a functional option for configuring construction.
type Option func(*config) error

type config struct {
	logger   logging.Logger
	registry *registry.Registry

	// embedRelations materializes related resources embedded as objects.
	embedRelations bool
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		logger:         logging.NopLogger{},
		embedRelations: true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("resource: invalid options: %w", err)
		}
	}
	if cfg.registry == nil {
		cfg.registry = registry.Default()
	}
	return cfg, nil
}

// WithLogger sets the logger. Construction logs at debug level only.
func WithLogger(l logging.Logger) Option {
	return func(c *config) error {
		c.logger = logging.OrNop(l)
		return nil
	}
}

// WithRegistry sets the registry used to recognize embedded related resources.
// Defaults to registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(c *config) error {
		if r == nil {
			return fmt.Errorf("resource: registry cannot be nil")
		}
		c.registry = r
		return nil
	}
}

// WithEmbeddedRelations controls whether objects embedded in hypermedia records
// that identify a related resource are built as instances of that resource.
// Default is true.
func WithEmbeddedRelations(enabled bool) Option {
	return func(c *config) error {
		c.embedRelations = enabled
		return nil
	}
}
