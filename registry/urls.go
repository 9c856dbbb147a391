package registry

import (
	"fmt"

	"github.com/erraggy/restmap/internal/urlpath"
	"github.com/erraggy/restmap/rmerrors"
	"github.com/erraggy/restmap/schema"
)

// URLFor returns the request URL for a resource and verb.
//
// POST addresses the collection: {base}/{collection}/. GET, PUT, PATCH and DELETE
// address one resource: {base}/{collection}/{identifier}/. GET with an empty
// identifier addresses the collection. A spec's URLPolicy, when set, replaces
// this template.
func (r *Registry) URLFor(spec *schema.Spec, identifier, verb string) (string, error) {
	if !r.Registered(spec) {
		return "", &rmerrors.UnregisteredResourceError{Resource: spec.String(), Operation: "url"}
	}
	if !schema.IsKnownMethod(verb) {
		return "", &rmerrors.ConfigError{Option: "verb", Value: verb, Message: "unsupported HTTP verb"}
	}
	if !spec.AllowsMethod(verb) {
		return "", &rmerrors.ConfigError{Option: "verb", Value: verb, Message: fmt.Sprintf("not allowed for %s", spec.Name)}
	}

	if policy := spec.Hypermedia.URLPolicy; policy != nil {
		return policy.URLFor(spec, identifier, verb)
	}

	base, collection := spec.BaseURL(), spec.Collection()
	switch {
	case verb == schema.MethodPost:
		return urlpath.CollectionURL(base, collection), nil
	case identifier != "":
		return urlpath.InstanceURL(base, collection, identifier), nil
	case verb == schema.MethodGet:
		return urlpath.CollectionURL(base, collection), nil
	default:
		return "", &rmerrors.ConfigError{Option: "identifier", Message: fmt.Sprintf("%s %s requires an identifier", verb, spec.Name)}
	}
}
