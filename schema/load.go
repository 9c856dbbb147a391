package schema

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/restmap/rmerrors"
)

// document is the on-disk layout of a spec file.
type document struct {
	Resources    []specEntry `yaml:"resources"`
	SubResources []specEntry `yaml:"subresources"`
}

type specEntry struct {
	Name             string            `yaml:"name"`
	ResourceName     string            `yaml:"resource_name"`
	Identifier       string            `yaml:"identifier"`
	Attributes       []string          `yaml:"attributes"`
	SubResources     map[string]string `yaml:"subresources"`
	ValidStatusCodes []int             `yaml:"valid_status_codes"`
	Methods          []string          `yaml:"methods"`
	PaginationKey    string            `yaml:"pagination_key"`
	BaseURL          string            `yaml:"base_url"`
	RelatedResources *[]string         `yaml:"related_resources"`
}

func (e specEntry) hypermedia() bool {
	return e.BaseURL != "" || e.RelatedResources != nil
}

// Catalog is a set of specs loaded from one document, addressable by name.
type Catalog struct {
	specs  []*Spec
	byName map[string]*Spec
}

// Specs returns every spec in declaration order: resources first, then sub-resources.
func (c *Catalog) Specs() []*Spec {
	return c.specs
}

// Get returns the spec with the given name.
func (c *Catalog) Get(name string) (*Spec, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// Hypermedia returns the URL-addressable specs in declaration order.
func (c *Catalog) Hypermedia() []*Spec {
	var out []*Spec
	for _, s := range c.specs {
		if s.IsHypermedia() {
			out = append(out, s)
		}
	}
	return out
}

// LoadFile reads and parses a YAML or JSON spec document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("schema: reading %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a YAML or JSON spec document, resolves name references between
// specs, and validates the result.
//
// A resource entry is hypermedia when it declares base_url or related_resources;
// such entries must declare both (related_resources may be an empty list).
// Every validation failure is reported, joined with errors.Join.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &rmerrors.InvalidSpecError{Message: "decoding spec document", Cause: err}
	}

	cat := &Catalog{byName: make(map[string]*Spec)}
	var errs []error

	type pending struct {
		spec     *Spec
		entry    specEntry
		resource bool
	}
	var accepted []pending

	entries := make([]specEntry, 0, len(doc.Resources)+len(doc.SubResources))
	entries = append(entries, doc.Resources...)
	entries = append(entries, doc.SubResources...)

	for i, e := range entries {
		if e.Name == "" {
			errs = append(errs, &rmerrors.InvalidSpecError{Missing: []string{"name"}, Message: fmt.Sprintf("entry %d", i)})
			continue
		}
		if _, dup := cat.byName[e.Name]; dup {
			errs = append(errs, &rmerrors.InvalidSpecError{Resource: e.Name, Message: "declared more than once"})
			continue
		}
		resource := i < len(doc.Resources)
		s := &Spec{
			Name:             e.Name,
			ResourceName:     e.ResourceName,
			Identifier:       e.Identifier,
			Attributes:       e.Attributes,
			ValidStatusCodes: e.ValidStatusCodes,
			Methods:          e.Methods,
			PaginationKey:    e.PaginationKey,
		}
		if resource && e.hypermedia() {
			s.Hypermedia = &Hypermedia{BaseURL: e.BaseURL}
		}
		cat.specs = append(cat.specs, s)
		cat.byName[e.Name] = s
		accepted = append(accepted, pending{spec: s, entry: e, resource: resource})
	}

	for _, p := range accepted {
		if err := cat.wire(p.spec, p.entry, p.resource); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, p := range accepted {
		var err error
		if p.resource {
			err = p.spec.Validate()
		} else {
			err = p.spec.validate(false, map[*Spec]bool{})
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cat, nil
}

// wire resolves the name references of one entry.
func (c *Catalog) wire(s *Spec, e specEntry, resource bool) error {
	var missing []string
	var unknown []string

	if len(e.SubResources) > 0 {
		s.SubResources = make(map[string]*Spec, len(e.SubResources))
		for attr, name := range e.SubResources {
			target, ok := c.byName[name]
			if !ok {
				unknown = append(unknown, name)
				continue
			}
			s.SubResources[attr] = target
		}
	}

	if resource && e.hypermedia() {
		if e.BaseURL == "" {
			missing = append(missing, "base_url")
		}
		if e.RelatedResources == nil {
			missing = append(missing, "related_resources")
		} else {
			s.Hypermedia.RelatedResources = make([]*Spec, 0, len(*e.RelatedResources))
			for _, name := range *e.RelatedResources {
				target, ok := c.byName[name]
				if !ok {
					unknown = append(unknown, name)
					continue
				}
				s.Hypermedia.RelatedResources = append(s.Hypermedia.RelatedResources, target)
			}
		}
	} else if !resource && e.hypermedia() {
		return &rmerrors.InvalidSpecError{Resource: s.Name, Message: "sub-resources cannot declare base_url or related_resources"}
	}

	if len(missing) == 0 && len(unknown) == 0 {
		return nil
	}
	err := &rmerrors.InvalidSpecError{Resource: s.Name, Missing: missing}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		err.Message = fmt.Sprintf("unknown spec reference(s) %v", unknown)
	}
	return err
}
