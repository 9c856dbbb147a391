package schema

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/erraggy/restmap/internal/naming"
	"github.com/erraggy/restmap/internal/urlpath"
	"github.com/erraggy/restmap/rmerrors"
)

// HTTP verbs understood by URL generation.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

// DefaultValidStatusCodes is used when a spec declares no status codes.
var DefaultValidStatusCodes = []int{200, 201, 202, 203, 204}

// knownMethods lists the verbs a spec may declare.
var knownMethods = []string{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}

// IsKnownMethod reports whether verb is one of the supported HTTP verbs.
// The comparison is case-sensitive; verbs are upper case.
func IsKnownMethod(verb string) bool {
	return slices.Contains(knownMethods, verb)
}

// URLPolicy replaces the default URL template for outbound requests.
// Reverse matching ignores it and always assumes {baseURL}/{collection}/{id}/.
type URLPolicy interface {
	URLFor(spec *Spec, identifier, verb string) (string, error)
}

// URLPolicyFunc adapts a function to URLPolicy.
type URLPolicyFunc func(spec *Spec, identifier, verb string) (string, error)

// URLFor implements URLPolicy.
func (f URLPolicyFunc) URLFor(spec *Spec, identifier, verb string) (string, error) {
	return f(spec, identifier, verb)
}

// Hypermedia holds the URL-addressing half of a spec.
type Hypermedia struct {
	// BaseURL is the API root, e.g. "https://swapi.dev/api".
	BaseURL string

	// RelatedResources lists the specs whose URLs may appear in this resource's payloads.
	// It may be empty.
	RelatedResources []*Spec

	// URLPolicy, when set, overrides outbound URL generation.
	URLPolicy URLPolicy
}

// Spec describes one resource type.
type Spec struct {
	// Name is the singular resource name.
	Name string

	// ResourceName is the plural collection segment. Derived from Name when empty.
	ResourceName string

	// Identifier names the attribute holding the primary key.
	Identifier string

	// Attributes is the exhaustive whitelist of attribute names, in iteration order.
	Attributes []string

	// SubResources maps an attribute name to the spec of its nested object(s).
	SubResources map[string]*Spec

	// ValidStatusCodes lists the HTTP statuses a transport should accept.
	// DefaultValidStatusCodes applies when empty.
	ValidStatusCodes []int

	// Methods lists the HTTP verbs the resource supports. Empty means all known verbs.
	Methods []string

	// PaginationKey names the field holding the record list in collection responses.
	PaginationKey string

	// Hypermedia is nil for plain (sub-resource) specs.
	Hypermedia *Hypermedia
}

// String returns the spec name.
func (s *Spec) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}

// IsHypermedia reports whether the spec is URL-addressable.
func (s *Spec) IsHypermedia() bool {
	return s != nil && s.Hypermedia != nil
}

// Collection returns the collection segment used in URLs: ResourceName, or the
// pluralized lower-case Name.
func (s *Spec) Collection() string {
	if s.ResourceName != "" {
		return s.ResourceName
	}
	return naming.Pluralize(strings.ToLower(s.Name))
}

// BaseURL returns the hypermedia base URL without trailing slashes, or "" for plain specs.
func (s *Spec) BaseURL() string {
	if !s.IsHypermedia() {
		return ""
	}
	return NormalizeBaseURL(s.Hypermedia.BaseURL)
}

// Related returns the related resource specs, or nil for plain specs.
func (s *Spec) Related() []*Spec {
	if !s.IsHypermedia() {
		return nil
	}
	return s.Hypermedia.RelatedResources
}

// HasAttribute reports whether name is whitelisted.
func (s *Spec) HasAttribute(name string) bool {
	return slices.Contains(s.Attributes, name)
}

// SubResource returns the declared sub-resource spec for an attribute.
func (s *Spec) SubResource(attr string) (*Spec, bool) {
	sub, ok := s.SubResources[attr]
	return sub, ok && sub != nil
}

// AcceptsStatus reports whether a response status is valid for this resource.
func (s *Spec) AcceptsStatus(code int) bool {
	codes := s.ValidStatusCodes
	if len(codes) == 0 {
		codes = DefaultValidStatusCodes
	}
	return slices.Contains(codes, code)
}

// AllowsMethod reports whether the resource supports verb.
func (s *Spec) AllowsMethod(verb string) bool {
	if !IsKnownMethod(verb) {
		return false
	}
	return len(s.Methods) == 0 || slices.Contains(s.Methods, verb)
}

// NormalizeBaseURL trims surrounding whitespace and trailing slashes and
// lower-cases the scheme and host.
func NormalizeBaseURL(base string) string {
	return urlpath.LowerSchemeHost(strings.TrimRight(strings.TrimSpace(base), "/"))
}

// Validate checks the spec and every spec reachable through sub-resources.
// Related resources are checked for presence only; they are validated when
// registered themselves.
//
// Returns an *rmerrors.InvalidSpecError naming every missing field.
func (s *Spec) Validate() error {
	if s == nil {
		return &rmerrors.InvalidSpecError{Message: "spec is nil"}
	}
	return s.validate(true, map[*Spec]bool{})
}

func (s *Spec) validate(top bool, seen map[*Spec]bool) error {
	if seen[s] {
		return nil
	}
	seen[s] = true

	var missing, problems []string
	if s.Name == "" {
		missing = append(missing, "name")
	}
	// Sub-resources only shape nested data, so they may omit an identifier.
	if top && s.Identifier == "" {
		missing = append(missing, "identifier")
	}
	if len(s.Attributes) == 0 {
		missing = append(missing, "attributes")
	}

	if s.Identifier != "" && len(s.Attributes) > 0 && !s.HasAttribute(s.Identifier) {
		problems = append(problems, fmt.Sprintf("identifier %q is not a declared attribute", s.Identifier))
	}
	if dup := firstDuplicate(s.Attributes); dup != "" {
		problems = append(problems, fmt.Sprintf("attribute %q declared twice", dup))
	}
	for _, attr := range sortedKeys(s.SubResources) {
		if s.SubResources[attr] == nil {
			problems = append(problems, fmt.Sprintf("sub-resource %q has no spec", attr))
			continue
		}
		if !s.HasAttribute(attr) {
			problems = append(problems, fmt.Sprintf("sub-resource %q is not a declared attribute", attr))
		}
	}
	for _, code := range s.ValidStatusCodes {
		if code < 100 || code > 599 {
			problems = append(problems, fmt.Sprintf("invalid status code %d", code))
		}
	}
	for _, m := range s.Methods {
		if !IsKnownMethod(m) {
			problems = append(problems, fmt.Sprintf("unknown method %q", m))
		}
	}

	if s.Hypermedia != nil {
		if strings.Contains(s.Collection(), "/") {
			problems = append(problems, fmt.Sprintf("resourceName %q must be a single path segment", s.Collection()))
		}
		if s.Hypermedia.BaseURL == "" {
			missing = append(missing, "baseUrl")
		} else if msg := checkBaseURL(s.Hypermedia.BaseURL); msg != "" {
			problems = append(problems, msg)
		}
		for i, rel := range s.Hypermedia.RelatedResources {
			if rel == nil {
				problems = append(problems, fmt.Sprintf("related resource %d is nil", i))
			} else if !rel.IsHypermedia() {
				problems = append(problems, fmt.Sprintf("related resource %q is not hypermedia", rel.Name))
			}
		}
	}

	if len(missing) > 0 || len(problems) > 0 {
		return &rmerrors.InvalidSpecError{
			Resource: s.Name,
			Missing:  missing,
			Message:  strings.Join(problems, "; "),
		}
	}

	for _, attr := range sortedKeys(s.SubResources) {
		if err := s.SubResources[attr].validate(false, seen); err != nil {
			return &rmerrors.InvalidSpecError{
				Resource: s.Name,
				Message:  fmt.Sprintf("sub-resource %q", attr),
				Cause:    err,
			}
		}
	}
	return nil
}

func checkBaseURL(base string) string {
	u, err := url.Parse(NormalizeBaseURL(base))
	if err != nil {
		return fmt.Sprintf("baseUrl %q: %v", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Sprintf("baseUrl %q must be absolute", base)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Sprintf("baseUrl %q must not carry a query or fragment", base)
	}
	return ""
}

func firstDuplicate(items []string) string {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			return item
		}
		seen[item] = true
	}
	return ""
}

func sortedKeys(m map[string]*Spec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
