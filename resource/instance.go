package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/erraggy/restmap/schema"
)

// Instance is one resource record bound to its spec.
type Instance struct {
	spec  *schema.Spec
	attrs map[string]Value
	// raw is the full source record, kept for hypermedia specs only.
	raw map[string]any
}

// New builds an instance of spec from a decoded JSON object.
//
// Declared sub-resource attributes are converted recursively. A shape mismatch
// in one attribute leaves that attribute absent and does not affect the others:
// New then returns the partially built instance together with the error, so
// callers may choose to keep it. The error wraps every *rmerrors.ShapeMismatchError
// found in the record.
func New(spec *schema.Spec, raw map[string]any, opts ...Option) (*Instance, error) {
	if spec == nil {
		return nil, fmt.Errorf("resource: spec cannot be nil")
	}
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newInstance(spec, raw, cfg)
}

func newInstance(spec *schema.Spec, raw map[string]any, cfg *config) (*Instance, error) {
	inst := &Instance{
		spec:  spec,
		attrs: Project(raw, spec),
	}
	if spec.IsHypermedia() {
		inst.raw = cloneJSON(raw).(map[string]any)
	}

	if dropped := undeclared(raw, spec); len(dropped) > 0 {
		cfg.logger.Debug("dropped undeclared attributes", "resource", spec.Name, "attributes", dropped)
	}

	var errs []error
	for _, attr := range spec.Attributes {
		v, present := raw[attr]
		if !present {
			continue
		}

		if target, ok := spec.SubResource(attr); ok {
			built, err := build(v, target, spec.Name, attr, cfg)
			if err != nil {
				errs = append(errs, err)
			}
			if built.kind == KindInstance || built.kind == KindInstances || built.kind == KindNull {
				inst.attrs[attr] = built
			} else {
				delete(inst.attrs, attr)
			}
			continue
		}

		if spec.IsHypermedia() && cfg.embedRelations {
			if target := embeddedRelation(v, spec, cfg.registry); target != nil {
				built, err := build(v, target, spec.Name, attr, cfg)
				if err != nil {
					errs = append(errs, err)
				}
				inst.attrs[attr] = built
			}
		}
	}

	if len(errs) > 0 {
		return inst, fmt.Errorf("resource: building %s: %w", spec.Name, errors.Join(errs...))
	}
	return inst, nil
}

// Spec returns the spec the instance is bound to.
func (i *Instance) Spec() *schema.Spec { return i.spec }

// Get returns the value of a materialized attribute.
func (i *Instance) Get(name string) (Value, bool) {
	v, ok := i.attrs[name]
	return v, ok
}

// Has reports whether an attribute was materialized.
func (i *Instance) Has(name string) bool {
	_, ok := i.attrs[name]
	return ok
}

// Len returns the number of materialized attributes.
func (i *Instance) Len() int { return len(i.attrs) }

// Names returns the materialized attribute names in declaration order.
func (i *Instance) Names() []string {
	names := make([]string, 0, len(i.attrs))
	for _, name := range i.spec.Attributes {
		if _, ok := i.attrs[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Identifier returns the value of the spec's identifier attribute.
func (i *Instance) Identifier() (Value, bool) {
	if i.spec.Identifier == "" {
		return Value{}, false
	}
	return i.Get(i.spec.Identifier)
}

// IdentifierString returns the identifier as text, or "" when it is absent or
// not a string or number.
func (i *Instance) IdentifierString() string {
	v, ok := i.Identifier()
	if !ok {
		return ""
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	if n, ok := v.AsNumberText(); ok {
		return n.String()
	}
	return ""
}

// Text returns the named string attribute.
func (i *Instance) Text(name string) (string, bool) {
	v, ok := i.attrs[name]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// Number returns the named numeric attribute.
func (i *Instance) Number(name string) (float64, bool) {
	v, ok := i.attrs[name]
	if !ok {
		return 0, false
	}
	return v.AsNumber()
}

// Bool returns the named boolean attribute.
func (i *Instance) Bool(name string) (bool, bool) {
	v, ok := i.attrs[name]
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// Object returns the named nested instance.
func (i *Instance) Object(name string) (*Instance, bool) {
	v, ok := i.attrs[name]
	if !ok {
		return nil, false
	}
	return v.AsInstance()
}

// Objects returns the named list of nested instances.
func (i *Instance) Objects(name string) ([]*Instance, bool) {
	v, ok := i.attrs[name]
	if !ok {
		return nil, false
	}
	return v.AsInstances()
}

// RawKeys returns the sorted keys of the source record. Empty for plain specs.
func (i *Instance) RawKeys() []string {
	keys := make([]string, 0, len(i.raw))
	for k := range i.raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// RawValue returns a value of the source record, including undeclared keys.
// Only hypermedia instances keep their source record. The result must not be modified.
func (i *Instance) RawValue(key string) (any, bool) {
	v, ok := i.raw[key]
	if !ok {
		return nil, false
	}
	return cloneJSON(v), true
}

// ToMap returns the materialized attributes in decoded-JSON form.
func (i *Instance) ToMap() map[string]any {
	out := make(map[string]any, len(i.attrs))
	for name, v := range i.attrs {
		out[name] = v.Interface()
	}
	return out
}

// MarshalJSON encodes the materialized attributes as a JSON object.
func (i *Instance) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.ToMap())
}

// String formats the instance as Name(identifier).
func (i *Instance) String() string {
	if i == nil {
		return "<nil>"
	}
	if id := i.IdentifierString(); id != "" {
		return fmt.Sprintf("%s(%s)", i.spec.Name, id)
	}
	return i.spec.Name
}
