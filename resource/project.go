package resource

import (
	"slices"

	"github.com/erraggy/restmap/schema"
)

// Project keeps the attributes of raw that spec declares and infers their kinds.
//
// The result holds exactly the keys in spec.Attributes that are present in raw.
// Undeclared keys are dropped and absent attributes stay absent. Objects and
// arrays are returned as KindRaw for the builder stage.
func Project(raw map[string]any, spec *schema.Spec) map[string]Value {
	out := make(map[string]Value, len(spec.Attributes))
	for _, name := range spec.Attributes {
		v, ok := raw[name]
		if !ok {
			continue
		}
		out[name] = infer(v)
	}
	return out
}

// undeclared returns the sorted keys of raw that spec does not whitelist.
func undeclared(raw map[string]any, spec *schema.Spec) []string {
	var dropped []string
	for k := range raw {
		if !spec.HasAttribute(k) {
			dropped = append(dropped, k)
		}
	}
	slices.Sort(dropped)
	return dropped
}
