package registry

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/erraggy/restmap/internal/urlpath"
	"github.com/erraggy/restmap/logging"
	"github.com/erraggy/restmap/rmerrors"
	"github.com/erraggy/restmap/schema"
)

// Option configures a Registry.
type Option func(*config)

type config struct {
	logger logging.Logger
}

// WithLogger sets the logger used for registration and match diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		c.logger = logging.OrNop(l)
	}
}

// Match is one interpretation of a URL against the registered templates.
type Match struct {
	// Spec is the matched resource spec.
	Spec *schema.Spec
	// BaseURL is the normalized base URL that matched.
	BaseURL string
	// Identifier is the decoded identifier segment, empty for collection URLs.
	Identifier string
}

// IsCollection reports whether the URL addressed the collection rather than one resource.
func (m Match) IsCollection() bool {
	return m.Identifier == ""
}

// base groups the collections registered under one base URL.
type base struct {
	url         string
	collections map[string]*schema.Spec
}

// snapshot is the immutable read side of the registry.
type snapshot struct {
	specs      []*schema.Spec
	registered map[*schema.Spec]bool
	// bases is sorted by URL length, longest first.
	bases []*base
}

// Registry is a table of hypermedia specs keyed by (base URL, collection).
type Registry struct {
	mu     sync.Mutex
	snap   atomic.Pointer[snapshot]
	frozen atomic.Bool
	logger logging.Logger
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	cfg := config{logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Registry{logger: cfg.logger}
	r.snap.Store(&snapshot{registered: map[*schema.Spec]bool{}})
	return r
}

// Register validates spec and stores its URL template.
//
// Registering the same spec twice is a no-op. Registering a different spec under
// an equivalent (base URL, collection) template fails with a
// *rmerrors.DuplicateRegistrationError. Plain specs have no template and are
// rejected as invalid.
func (r *Registry) Register(spec *schema.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if !spec.IsHypermedia() {
		return &rmerrors.InvalidSpecError{Resource: spec.Name, Message: "plain specs have no URL template"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return &rmerrors.ConfigError{Frozen: true, Message: "cannot register " + spec.Name}
	}

	old := r.snap.Load()
	if old.registered[spec] {
		return nil
	}

	baseURL, collection := spec.BaseURL(), spec.Collection()
	for _, b := range old.bases {
		if b.url != baseURL {
			continue
		}
		if existing, ok := b.collections[collection]; ok {
			return &rmerrors.DuplicateRegistrationError{
				BaseURL:      baseURL,
				ResourceName: collection,
				Existing:     existing.Name,
				Incoming:     spec.Name,
			}
		}
	}

	r.snap.Store(old.with(spec, baseURL, collection))
	r.logger.Debug("registered resource", "resource", spec.Name, "base_url", baseURL, "collection", collection)
	return nil
}

// with returns a copy of s that also holds spec.
func (s *snapshot) with(spec *schema.Spec, baseURL, collection string) *snapshot {
	next := &snapshot{
		specs:      append(slices.Clone(s.specs), spec),
		registered: make(map[*schema.Spec]bool, len(s.registered)+1),
		bases:      make([]*base, 0, len(s.bases)+1),
	}
	for k := range s.registered {
		next.registered[k] = true
	}
	next.registered[spec] = true

	found := false
	for _, b := range s.bases {
		nb := &base{url: b.url, collections: make(map[string]*schema.Spec, len(b.collections)+1)}
		for k, v := range b.collections {
			nb.collections[k] = v
		}
		if b.url == baseURL {
			nb.collections[collection] = spec
			found = true
		}
		next.bases = append(next.bases, nb)
	}
	if !found {
		next.bases = append(next.bases, &base{url: baseURL, collections: map[string]*schema.Spec{collection: spec}})
	}

	// Longest base first; ties broken alphabetically for stable iteration.
	slices.SortFunc(next.bases, func(a, b *base) int {
		if c := cmp.Compare(len(b.url), len(a.url)); c != 0 {
			return c
		}
		return cmp.Compare(a.url, b.url)
	})
	return next
}

// RegisterAll registers specs in order and stops at the first error.
func (r *Registry) RegisterAll(specs ...*schema.Spec) error {
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// Freeze ends the init phase. Later calls to Register fail.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen.Store(true)
	r.logger.Debug("registry frozen", "resources", len(r.snap.Load().specs))
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// Registered reports whether spec itself (not merely an equal copy) was registered.
func (r *Registry) Registered(spec *schema.Spec) bool {
	return r.snap.Load().registered[spec]
}

// Specs returns the registered specs in registration order.
func (r *Registry) Specs() []*schema.Spec {
	return slices.Clone(r.snap.Load().specs)
}

// Lookup returns the registered spec with the given name.
func (r *Registry) Lookup(name string) (*schema.Spec, bool) {
	for _, spec := range r.snap.Load().specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return nil, false
}

// MatchAll returns every interpretation of candidate under the winning base URL.
// The winning base is the longest registered base that prefixes candidate;
// shorter bases are never consulted once it is found.
// The result is empty when nothing matches. More than one entry means the
// collection segment is ambiguous, which only happens when two registered
// collections differ solely in percent-encoding.
func (r *Registry) MatchAll(candidate string) []Match {
	snap := r.snap.Load()
	for _, b := range snap.bases {
		segments, ok := urlpath.Split(candidate, b.url)
		if !ok {
			continue
		}
		if len(segments) == 0 || len(segments) > 2 {
			return nil
		}

		var id string
		if len(segments) == 2 {
			id = urlpath.Unescape(segments[1])
		}

		var matches []Match
		seg := segments[0]
		if spec, ok := b.collections[seg]; ok {
			matches = append(matches, Match{Spec: spec, BaseURL: b.url, Identifier: id})
		}
		if decoded := urlpath.Unescape(seg); decoded != seg {
			if spec, ok := b.collections[decoded]; ok {
				matches = append(matches, Match{Spec: spec, BaseURL: b.url, Identifier: id})
			}
		}
		return matches
	}
	return nil
}

// Match returns the single interpretation of candidate.
// ok is false when nothing matches; an *rmerrors.AmbiguousRelationError is
// returned when several specs match.
func (r *Registry) Match(candidate string) (m Match, ok bool, err error) {
	matches := r.MatchAll(candidate)
	switch len(matches) {
	case 0:
		r.logger.Debug("no resource matches url", "url", candidate)
		return Match{}, false, nil
	case 1:
		return matches[0], true, nil
	default:
		names := make([]string, len(matches))
		for i, mm := range matches {
			names[i] = mm.Spec.Name
		}
		return Match{}, false, &rmerrors.AmbiguousRelationError{URL: candidate, Candidates: names}
	}
}

// MatchURL returns the spec a URL points at, or nil when no registered template
// matches or the match is ambiguous.
func (r *Registry) MatchURL(candidate string) *schema.Spec {
	m, ok, err := r.Match(candidate)
	if !ok || err != nil {
		return nil
	}
	return m.Spec
}
