package generator

import (
	"errors"
	"fmt"
	"go/token"
	"slices"
	"strconv"

	"github.com/erraggy/restmap/internal/naming"
	"github.com/erraggy/restmap/relation"
	"github.com/erraggy/restmap/schema"
)

// Generate renders one Go source file in package pkg with typed wrappers for specs
// and every spec they reach. Specs are validated first; names that would produce
// clashing Go identifiers are reported as errors.
func Generate(specs []*schema.Spec, pkg string) ([]byte, error) {
	if !token.IsIdentifier(pkg) || token.IsKeyword(pkg) {
		return nil, fmt.Errorf("generator: invalid package name %q", pkg)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("generator: no specs to generate")
	}

	if slices.Contains(specs, nil) {
		return nil, fmt.Errorf("generator: spec cannot be nil")
	}

	// Input specs and reachable hypermedia specs are validated as top-level specs;
	// sub-resources are covered by their owner's validation.
	all := collect(specs)
	var errs []error
	for _, spec := range all {
		if !slices.Contains(specs, spec) && !spec.IsHypermedia() {
			continue
		}
		if err := spec.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("generator: %w", errors.Join(errs...))
	}

	data, err := buildFileData(all, pkg)
	if err != nil {
		return nil, err
	}
	src, err := executeTemplate("resources.go.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	return src, nil
}

// collect returns specs and everything they reach, depth first, each spec once.
func collect(specs []*schema.Spec) []*schema.Spec {
	var (
		out  []*schema.Spec
		seen = map[*schema.Spec]bool{}
		walk func(*schema.Spec)
	)
	walk = func(s *schema.Spec) {
		if s == nil || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
		for _, attr := range sortedSubResources(s) {
			walk(s.SubResources[attr])
		}
		for _, rel := range s.Related() {
			walk(rel)
		}
	}
	for _, s := range specs {
		walk(s)
	}
	return out
}

func sortedSubResources(s *schema.Spec) []string {
	keys := make([]string, 0, len(s.SubResources))
	for k := range s.SubResources {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func buildFileData(specs []*schema.Spec, pkg string) (*fileData, error) {
	data := &fileData{Package: pkg}

	// Package-level identifiers: types, spec variables, constructors and Register.
	global := map[string]string{"Register": "the Register function"}
	claim := func(ident, owner string) error {
		if prev, ok := global[ident]; ok {
			return fmt.Errorf("generator: %s and %s both generate %s", prev, owner, ident)
		}
		global[ident] = owner
		return nil
	}

	typeNames := make(map[*schema.Spec]string, len(specs))
	specVars := make(map[*schema.Spec]string, len(specs))
	for _, s := range specs {
		typeName := naming.ToGoIdentifier(s.Name)
		owner := "spec " + strconv.Quote(s.Name)
		for _, ident := range []string{typeName, typeName + "Spec", "New" + typeName} {
			if err := claim(ident, owner); err != nil {
				return nil, err
			}
		}
		typeNames[s] = typeName
		specVars[s] = typeName + "Spec"
	}

	for _, s := range specs {
		t := &typeData{
			Name:             s.Name,
			ResourceName:     s.ResourceName,
			Identifier:       s.Identifier,
			Attributes:       s.Attributes,
			ValidStatusCodes: s.ValidStatusCodes,
			Methods:          s.Methods,
			PaginationKey:    s.PaginationKey,
			Hypermedia:       s.IsHypermedia(),
			TypeName:         typeNames[s],
			SpecVar:          specVars[s],
			Constructor:      "New" + typeNames[s],
		}
		if t.Hypermedia {
			t.BaseURL = s.Hypermedia.BaseURL
			data.HypermediaVars = append(data.HypermediaVars, t.SpecVar)
		}

		methods := newMethodSet()
		for _, rel := range s.Related() {
			method := methods.claim(naming.ToGoIdentifier(relation.AccessorName(rel)))
			t.Related = append(t.Related, specVars[rel])
			t.Relations = append(t.Relations, relationData{Name: rel.Name, Method: method, SpecVar: specVars[rel]})
		}
		for _, attr := range sortedSubResources(s) {
			t.SubResources = append(t.SubResources, subResourceData{Attr: attr, SpecVar: specVars[s.SubResources[attr]]})
		}
		for _, attr := range s.Attributes {
			g := getterData{Attr: attr, Method: methods.claim(naming.ToGoIdentifier(attr))}
			if sub, ok := s.SubResource(attr); ok {
				g.SubType = typeNames[sub]
				g.ListMethod = methods.claim(g.Method + "List")
			}
			t.Getters = append(t.Getters, g)
		}
		data.Types = append(data.Types, t)
	}
	return data, nil
}

// methodSet hands out unique method names for one wrapper type.
type methodSet map[string]bool

func newMethodSet() methodSet {
	return methodSet{"Instance": true}
}

// claim returns name, or name with a numeric suffix when it is taken.
func (m methodSet) claim(name string) string {
	candidate := name
	for i := 2; m[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	m[candidate] = true
	return candidate
}
