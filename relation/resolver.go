package relation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/erraggy/restmap/internal/naming"
	"github.com/erraggy/restmap/internal/urlpath"
	"github.com/erraggy/restmap/registry"
	"github.com/erraggy/restmap/resource"
	"github.com/erraggy/restmap/rmerrors"
	"github.com/erraggy/restmap/schema"
)

// Relation is one reference from an instance to a related resource.
type Relation struct {
	// Attribute is the source record key the reference was found under.
	Attribute string
	// URL is the matched URL. Empty for an embedded object without a self link.
	URL string
	// Spec is the related resource spec.
	Spec *schema.Spec
	// Identifier is the decoded identifier segment of URL, or the embedded
	// instance's identifier when there is no URL.
	Identifier string
	// Instance is set when the related resource was embedded in the payload.
	Instance *resource.Instance
}

// IsEmbedded reports whether the relation already carries its instance.
func (r Relation) IsEmbedded() bool {
	return r.Instance != nil
}

// String formats the relation as spec(identifier).
func (r Relation) String() string {
	return fmt.Sprintf("%s(%s)", r.Spec.Name, r.Identifier)
}

// Resolver discovers the relations of one hypermedia instance.
type Resolver struct {
	inst *resource.Instance
	cfg  *config
}

// NewResolver returns a resolver for inst, which must be bound to a hypermedia spec.
func NewResolver(inst *resource.Instance, opts ...Option) (*Resolver, error) {
	if inst == nil {
		return nil, fmt.Errorf("relation: instance cannot be nil")
	}
	if !inst.Spec().IsHypermedia() {
		return nil, &rmerrors.InvalidSpecError{
			Resource: inst.Spec().Name,
			Message:  "relations are only available for hypermedia resources",
		}
	}
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Resolver{inst: inst, cfg: cfg}, nil
}

// Instance returns the instance being scanned.
func (r *Resolver) Instance() *resource.Instance { return r.inst }

// Related returns every reference to relSpec found in the instance's source record.
//
// Declared attributes are scanned first in declaration order, then the remaining
// record keys in sorted order. The instance's own identifier attribute is skipped.
// Attributes already built as instances of relSpec are returned as embedded
// relations and never matched a second time. Collection URLs are ignored.
//
// relSpec must be registered: an *rmerrors.UnregisteredResourceError is returned
// otherwise. It must also be one of the instance spec's related resources, or an
// *rmerrors.ConfigError is returned. A URL that matches relSpec and another spec fails with an
// *rmerrors.AmbiguousRelationError. Embedded objects that only partially build
// are still returned, with their errors joined into the result error.
func (r *Resolver) Related(relSpec *schema.Spec) ([]Relation, error) {
	if relSpec == nil {
		return nil, fmt.Errorf("relation: spec cannot be nil")
	}
	if !r.cfg.registry.Registered(relSpec) {
		return nil, &rmerrors.UnregisteredResourceError{Resource: relSpec.String(), Operation: "related"}
	}
	if !slices.Contains(r.inst.Spec().Related(), relSpec) {
		return nil, &rmerrors.ConfigError{
			Option:  "relation",
			Value:   relSpec.Name,
			Message: fmt.Sprintf("%s does not declare it as a related resource", r.inst.Spec().Name),
		}
	}

	var (
		out  []Relation
		errs []error
	)
	for _, key := range r.scanOrder() {
		if v, ok := r.inst.Get(key); ok {
			if rels, done := r.built(key, v, relSpec); done {
				out = append(out, rels...)
				continue
			}
		}

		raw, _ := r.inst.RawValue(key)
		rels, err := r.scan(key, raw, relSpec)
		if err != nil {
			var ambiguous *rmerrors.AmbiguousRelationError
			if errors.As(err, &ambiguous) {
				return nil, err
			}
			errs = append(errs, err)
		}
		out = append(out, rels...)
	}

	r.cfg.logger.Debug("resolved relations",
		"resource", r.inst.String(),
		"related", relSpec.Name,
		"count", len(out),
	)
	return out, errors.Join(errs...)
}

// scanOrder lists the record keys to inspect.
func (r *Resolver) scanOrder() []string {
	spec := r.inst.Spec()
	keys := make([]string, 0, len(spec.Attributes))
	for _, attr := range spec.Attributes {
		if attr == spec.Identifier {
			continue
		}
		if _, ok := r.inst.RawValue(attr); ok {
			keys = append(keys, attr)
		}
	}
	for _, k := range r.inst.RawKeys() {
		if k == spec.Identifier || spec.HasAttribute(k) {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// built reports relations for an attribute already converted during construction.
// done is true when the attribute holds instances of any spec, so the raw value
// must not be scanned again.
func (r *Resolver) built(attr string, v resource.Value, relSpec *schema.Spec) (rels []Relation, done bool) {
	switch v.Kind() {
	case resource.KindInstance:
		inst, _ := v.AsInstance()
		if inst.Spec() == relSpec {
			rels = append(rels, r.embedded(attr, inst))
		}
		return rels, true
	case resource.KindInstances:
		list, _ := v.AsInstances()
		for _, inst := range list {
			if inst.Spec() == relSpec {
				rels = append(rels, r.embedded(attr, inst))
			}
		}
		return rels, true
	default:
		return nil, false
	}
}

func (r *Resolver) scan(attr string, raw any, relSpec *schema.Spec) ([]Relation, error) {
	switch x := raw.(type) {
	case string:
		rel, ok, err := r.match(attr, x, relSpec)
		if err != nil || !ok {
			return nil, err
		}
		return []Relation{rel}, nil
	case map[string]any:
		rel, ok, err := r.embeddedObject(attr, x, relSpec)
		if !ok {
			return nil, err
		}
		return []Relation{rel}, err
	case []any:
		var (
			rels []Relation
			errs []error
		)
		for _, elem := range x {
			var (
				rel Relation
				ok  bool
				err error
			)
			switch e := elem.(type) {
			case string:
				rel, ok, err = r.match(attr, e, relSpec)
				if err != nil {
					return nil, err
				}
			case map[string]any:
				rel, ok, err = r.embeddedObject(attr, e, relSpec)
				if err != nil {
					errs = append(errs, err)
				}
			}
			if ok {
				rels = append(rels, rel)
			}
		}
		return rels, errors.Join(errs...)
	default:
		return nil, nil
	}
}

// match reverse-matches one URL-shaped string.
func (r *Resolver) match(attr, candidate string, relSpec *schema.Spec) (Relation, bool, error) {
	if !urlpath.LooksLikeURL(candidate) {
		return Relation{}, false, nil
	}

	matches := r.cfg.registry.MatchAll(candidate)
	var hit *registry.Match
	for i := range matches {
		if matches[i].Spec == relSpec {
			hit = &matches[i]
		}
	}
	if hit == nil {
		return Relation{}, false, nil
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Spec.Name
		}
		return Relation{}, false, &rmerrors.AmbiguousRelationError{URL: candidate, Attribute: attr, Candidates: names}
	}
	if hit.IsCollection() {
		return Relation{}, false, nil
	}
	return Relation{Attribute: attr, URL: candidate, Spec: relSpec, Identifier: hit.Identifier}, true, nil
}

// embeddedObject builds an embedded related object that was left unconverted.
func (r *Resolver) embeddedObject(attr string, obj map[string]any, relSpec *schema.Spec) (Relation, bool, error) {
	if resource.EmbeddedSpec(obj, []*schema.Spec{relSpec}, r.cfg.registry) != relSpec {
		return Relation{}, false, nil
	}
	inst, err := resource.New(relSpec, obj,
		resource.WithRegistry(r.cfg.registry),
		resource.WithLogger(r.cfg.logger),
	)
	if inst == nil {
		return Relation{}, false, err
	}
	return r.embedded(attr, inst), true, err
}

func (r *Resolver) embedded(attr string, inst *resource.Instance) Relation {
	rel := Relation{Attribute: attr, Spec: inst.Spec(), Identifier: inst.IdentifierString(), Instance: inst}
	if id := rel.Identifier; urlpath.LooksLikeURL(id) {
		if m, ok, err := r.cfg.registry.Match(id); ok && err == nil && m.Spec == inst.Spec() {
			rel.URL = id
			rel.Identifier = m.Identifier
		}
	}
	return rel
}

// AccessorName returns the accessor name for a related spec, "get_" followed by
// its collection name in snake case.
func AccessorName(spec *schema.Spec) string {
	return "get_" + naming.ToSnakeCase(spec.Collection())
}

// Accessors returns the accessor names of the instance's related specs, in the
// order the spec declares them.
func (r *Resolver) Accessors() []string {
	related := r.inst.Spec().Related()
	names := make([]string, 0, len(related))
	for _, spec := range related {
		if name := AccessorName(spec); !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Accessor returns the related spec behind an accessor name.
func (r *Resolver) Accessor(name string) (*schema.Spec, bool) {
	for _, spec := range r.inst.Spec().Related() {
		if AccessorName(spec) == name {
			return spec, true
		}
	}
	return nil, false
}

// Invoke calls the named accessor.
func (r *Resolver) Invoke(name string) ([]Relation, error) {
	spec, ok := r.Accessor(name)
	if !ok {
		return nil, &rmerrors.ConfigError{
			Option:  "accessor",
			Value:   name,
			Message: fmt.Sprintf("%s has no such relation", r.inst.Spec().Name),
		}
	}
	return r.Related(spec)
}
