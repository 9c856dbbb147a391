package registry

import (
	"sync/atomic"

	"github.com/erraggy/restmap/schema"
)

var defaultRegistry atomic.Pointer[Registry]

func init() {
	defaultRegistry.Store(New())
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry.Load()
}

// ResetDefault replaces the process-wide registry with an empty one and returns it.
// Intended for tests and for programs that rebuild their schema at runtime.
func ResetDefault(opts ...Option) *Registry {
	r := New(opts...)
	defaultRegistry.Store(r)
	return r
}

// Register adds spec to the process-wide registry.
func Register(spec *schema.Spec) error {
	return Default().Register(spec)
}

// MatchURL matches candidate against the process-wide registry.
func MatchURL(candidate string) *schema.Spec {
	return Default().MatchURL(candidate)
}
