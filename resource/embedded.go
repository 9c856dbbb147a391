package resource

import (
	"github.com/erraggy/restmap/internal/urlpath"
	"github.com/erraggy/restmap/registry"
	"github.com/erraggy/restmap/schema"
)

// selfLinkKeys are checked, after the related spec's identifier, for the URL an
// embedded object uses to identify itself.
var selfLinkKeys = []string{"url", "href", "self", "resource_uri"}

// embeddedRelation returns the related spec that an embedded object (or every
// object of a list) identifies itself as, or nil.
func embeddedRelation(v any, spec *schema.Spec, reg *registry.Registry) *schema.Spec {
	related := spec.Related()
	if len(related) == 0 {
		return nil
	}

	switch x := v.(type) {
	case map[string]any:
		return EmbeddedSpec(x, related, reg)
	case []any:
		if len(x) == 0 {
			return nil
		}
		var found *schema.Spec
		for _, elem := range x {
			m, ok := elem.(map[string]any)
			if !ok {
				return nil
			}
			s := EmbeddedSpec(m, related, reg)
			if s == nil || (found != nil && s != found) {
				return nil
			}
			found = s
		}
		return found
	default:
		return nil
	}
}

// EmbeddedSpec returns the spec among candidates that an embedded object links to
// as itself, using the candidate's identifier attribute or a conventional self-link
// key. It returns nil when no candidate or more than one candidate matches.
func EmbeddedSpec(obj map[string]any, candidates []*schema.Spec, reg *registry.Registry) *schema.Spec {
	var found *schema.Spec
	for _, c := range candidates {
		if c == nil || !selfLinked(obj, c, reg) {
			continue
		}
		if found != nil && found != c {
			return nil
		}
		found = c
	}
	return found
}

func selfLinked(obj map[string]any, spec *schema.Spec, reg *registry.Registry) bool {
	keys := append([]string{spec.Identifier}, selfLinkKeys...)
	for _, k := range keys {
		s, ok := obj[k].(string)
		if !ok || !urlpath.LooksLikeURL(s) {
			continue
		}
		for _, m := range reg.MatchAll(s) {
			if m.Spec == spec && !m.IsCollection() {
				return true
			}
		}
	}
	return false
}
