package relation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restmap/registry"
	"github.com/erraggy/restmap/resource"
	"github.com/erraggy/restmap/rmerrors"
	"github.com/erraggy/restmap/schema"
)

type fixture struct {
	reg      *registry.Registry
	designer *schema.Spec
	product  *schema.Spec
	store    *schema.Spec
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	designer := &schema.Spec{
		Name:       "designer",
		Identifier: "url",
		Attributes: []string{"url", "name"},
		Hypermedia: &schema.Hypermedia{BaseURL: "http://api"},
	}
	store := &schema.Spec{
		Name:       "store",
		Identifier: "url",
		Attributes: []string{"url"},
		Hypermedia: &schema.Hypermedia{BaseURL: "http://api"},
	}
	product := &schema.Spec{
		Name:       "product",
		Identifier: "url",
		Attributes: []string{"url", "name", "designer", "collaborators", "store"},
		Hypermedia: &schema.Hypermedia{
			BaseURL:          "http://api",
			RelatedResources: []*schema.Spec{designer, store},
		},
	}
	reg := registry.New()
	require.NoError(t, reg.RegisterAll(designer, store, product))
	return fixture{reg: reg, designer: designer, product: product, store: store}
}

func (f fixture) resolver(t *testing.T, raw map[string]any, opts ...resource.Option) *Resolver {
	t.Helper()
	inst, err := resource.New(f.product, raw, append(opts, resource.WithRegistry(f.reg))...)
	require.NoError(t, err)
	res, err := NewResolver(inst, WithRegistry(f.reg))
	require.NoError(t, err)
	return res
}

// =============================================================================
// NewResolver Tests
// =============================================================================

func TestNewResolver(t *testing.T) {
	t.Run("nil instance", func(t *testing.T) {
		_, err := NewResolver(nil)
		assert.Error(t, err)
	})

	t.Run("plain spec", func(t *testing.T) {
		plain := &schema.Spec{Name: "note", Identifier: "id", Attributes: []string{"id"}}
		inst, err := resource.New(plain, map[string]any{"id": 1.0})
		require.NoError(t, err)

		_, err = NewResolver(inst)
		assert.ErrorIs(t, err, rmerrors.ErrInvalidSpec)
	})

	t.Run("invalid option", func(t *testing.T) {
		f := newFixture(t)
		inst, err := resource.New(f.product, nil, resource.WithRegistry(f.reg))
		require.NoError(t, err)

		_, err = NewResolver(inst, WithParallelism(0))
		assert.Error(t, err)
		_, err = NewResolver(inst, WithRegistry(nil))
		assert.Error(t, err)
	})
}

// =============================================================================
// Related Tests
// =============================================================================

func TestRelated(t *testing.T) {
	f := newFixture(t)

	t.Run("single url", func(t *testing.T) {
		res := f.resolver(t, map[string]any{"designer": "http://api/designers/slug-1"})
		rels, err := res.Related(f.designer)
		require.NoError(t, err)
		require.Len(t, rels, 1)
		assert.Equal(t, "designer", rels[0].Attribute)
		assert.Equal(t, "slug-1", rels[0].Identifier)
		assert.Equal(t, "http://api/designers/slug-1", rels[0].URL)
		assert.Same(t, f.designer, rels[0].Spec)
		assert.False(t, rels[0].IsEmbedded())
		assert.Equal(t, "designer(slug-1)", rels[0].String())
	})

	t.Run("unregistered spec", func(t *testing.T) {
		res := f.resolver(t, map[string]any{"designer": "http://api/designers/slug-1"})
		other := &schema.Spec{
			Name:       "designer",
			Identifier: "url",
			Attributes: []string{"url"},
			Hypermedia: &schema.Hypermedia{BaseURL: "http://api"},
		}
		_, err := res.Related(other)
		assert.ErrorIs(t, err, rmerrors.ErrUnregisteredResource)

		var unreg *rmerrors.UnregisteredResourceError
		require.True(t, errors.As(err, &unreg))
		assert.Equal(t, "related", unreg.Operation)
	})

	t.Run("list of urls", func(t *testing.T) {
		res := f.resolver(t, map[string]any{
			"collaborators": []any{
				"http://api/designers/a/",
				"not a url",
				"http://api/stores/9/",
				"http://api/designers/b/",
			},
		})
		rels, err := res.Related(f.designer)
		require.NoError(t, err)
		require.Len(t, rels, 2)
		assert.Equal(t, "a", rels[0].Identifier)
		assert.Equal(t, "b", rels[1].Identifier)

		stores, err := res.Related(f.store)
		require.NoError(t, err)
		require.Len(t, stores, 1)
		assert.Equal(t, "9", stores[0].Identifier)
	})

	t.Run("declared attributes before undeclared keys", func(t *testing.T) {
		res := f.resolver(t, map[string]any{
			"zz_previous_designer": "http://api/designers/old/",
			"designer":             "http://api/designers/new/",
			"aa_designer":          "http://api/designers/aa/",
		})
		rels, err := res.Related(f.designer)
		require.NoError(t, err)
		require.Len(t, rels, 3)
		assert.Equal(t, "designer", rels[0].Attribute)
		assert.Equal(t, "aa_designer", rels[1].Attribute)
		assert.Equal(t, "zz_previous_designer", rels[2].Attribute)
	})

	t.Run("own identifier skipped", func(t *testing.T) {
		node := &schema.Spec{
			Name:       "node",
			Identifier: "url",
			Attributes: []string{"url", "parent"},
			Hypermedia: &schema.Hypermedia{BaseURL: "http://graph"},
		}
		node.Hypermedia.RelatedResources = []*schema.Spec{node}
		reg := registry.New()
		require.NoError(t, reg.Register(node))

		inst, err := resource.New(node, map[string]any{
			"url":    "http://graph/nodes/1/",
			"parent": "http://graph/nodes/0/",
		}, resource.WithRegistry(reg))
		require.NoError(t, err)
		res, err := NewResolver(inst, WithRegistry(reg))
		require.NoError(t, err)

		rels, err := res.Related(node)
		require.NoError(t, err)
		require.Len(t, rels, 1)
		assert.Equal(t, "parent", rels[0].Attribute)
		assert.Equal(t, "0", rels[0].Identifier)
	})

	t.Run("undeclared relation rejected", func(t *testing.T) {
		res := f.resolver(t, map[string]any{"url": "http://api/products/1/"})
		_, err := res.Related(f.product)
		assert.ErrorIs(t, err, rmerrors.ErrConfig)

		var cfgErr *rmerrors.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "relation", cfgErr.Option)
		assert.Equal(t, "product", cfgErr.Value)
	})

	t.Run("unmatched and collection urls ignored", func(t *testing.T) {
		res := f.resolver(t, map[string]any{
			"designer":      "http://elsewhere/designers/1/",
			"store":         "http://api/designers/",
			"collaborators": []any{1.0, true, nil},
			"name":          "http://api/designers",
		})
		rels, err := res.Related(f.designer)
		require.NoError(t, err)
		assert.Empty(t, rels)
	})

	t.Run("embedded object", func(t *testing.T) {
		res := f.resolver(t, map[string]any{
			"designer": map[string]any{"url": "http://api/designers/slug-2/", "name": "Dieter"},
		})
		rels, err := res.Related(f.designer)
		require.NoError(t, err)
		require.Len(t, rels, 1)
		assert.True(t, rels[0].IsEmbedded())
		assert.Equal(t, "slug-2", rels[0].Identifier)
		assert.Equal(t, "http://api/designers/slug-2/", rels[0].URL)

		name, _ := rels[0].Instance.Text("name")
		assert.Equal(t, "Dieter", name)

		stores, err := res.Related(f.store)
		require.NoError(t, err)
		assert.Empty(t, stores)
	})

	t.Run("embedded object left unconverted", func(t *testing.T) {
		res := f.resolver(t, map[string]any{
			"designer": map[string]any{"url": "http://api/designers/slug-3/"},
		}, resource.WithEmbeddedRelations(false))
		rels, err := res.Related(f.designer)
		require.NoError(t, err)
		require.Len(t, rels, 1)
		assert.True(t, rels[0].IsEmbedded())
		assert.Equal(t, "slug-3", rels[0].Identifier)
	})

	t.Run("embedded list", func(t *testing.T) {
		res := f.resolver(t, map[string]any{
			"collaborators": []any{
				map[string]any{"url": "http://api/designers/a/"},
				map[string]any{"url": "http://api/designers/b/"},
			},
		})
		rels, err := res.Related(f.designer)
		require.NoError(t, err)
		require.Len(t, rels, 2)
		assert.Equal(t, "b", rels[1].Identifier)
	})
}

func TestRelated_Ambiguous(t *testing.T) {
	alpha := &schema.Spec{
		Name:         "alpha",
		ResourceName: "a b",
		Identifier:   "url",
		Attributes:   []string{"url"},
		Hypermedia:   &schema.Hypermedia{BaseURL: "http://api"},
	}
	beta := &schema.Spec{
		Name:         "beta",
		ResourceName: "a%20b",
		Identifier:   "url",
		Attributes:   []string{"url"},
		Hypermedia:   &schema.Hypermedia{BaseURL: "http://api"},
	}
	owner := &schema.Spec{
		Name:       "owner",
		Identifier: "url",
		Attributes: []string{"url", "link"},
		Hypermedia: &schema.Hypermedia{BaseURL: "http://api", RelatedResources: []*schema.Spec{alpha, beta}},
	}
	reg := registry.New()
	require.NoError(t, reg.RegisterAll(alpha, beta, owner))

	inst, err := resource.New(owner, map[string]any{"link": "http://api/a%20b/1/"}, resource.WithRegistry(reg))
	require.NoError(t, err)
	res, err := NewResolver(inst, WithRegistry(reg))
	require.NoError(t, err)

	_, err = res.Related(alpha)
	require.Error(t, err)
	assert.ErrorIs(t, err, rmerrors.ErrAmbiguousRelation)

	var ambiguous *rmerrors.AmbiguousRelationError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, "link", ambiguous.Attribute)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, ambiguous.Candidates)
}

// =============================================================================
// Accessor Tests
// =============================================================================

func TestAccessors(t *testing.T) {
	f := newFixture(t)
	res := f.resolver(t, map[string]any{"designer": "http://api/designers/slug-1/"})

	assert.Equal(t, []string{"get_designers", "get_stores"}, res.Accessors())

	spec, ok := res.Accessor("get_designers")
	require.True(t, ok)
	assert.Same(t, f.designer, spec)

	rels, err := res.Invoke("get_designers")
	require.NoError(t, err)
	assert.Len(t, rels, 1)

	_, err = res.Invoke("get_planets")
	assert.ErrorIs(t, err, rmerrors.ErrConfig)
}

func TestAccessorName(t *testing.T) {
	assert.Equal(t, "get_designers", AccessorName(&schema.Spec{Name: "designer"}))
	assert.Equal(t, "get_line_items", AccessorName(&schema.Spec{Name: "item", ResourceName: "line-items"}))
}

// =============================================================================
// Resolve Tests
// =============================================================================

func TestResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bodies := map[string]map[string]any{
		"http://api/designers/a/": {"url": "http://api/designers/a/", "name": "Alvar", "bio": "dropped"},
		"http://api/designers/b/": {"url": "http://api/designers/b/", "name": "Bruno"},
	}
	var calls atomic.Int32
	fetcher := FetcherFunc(func(_ context.Context, spec *schema.Spec, url string) (map[string]any, error) {
		calls.Add(1)
		body, ok := bodies[url]
		if !ok {
			return nil, &rmerrors.TransportError{URL: url, Method: "GET", StatusCode: 404}
		}
		return body, nil
	})

	t.Run("fetches references", func(t *testing.T) {
		res := f.resolver(t, map[string]any{"collaborators": []any{"http://api/designers/a/", "http://api/designers/b/"}})
		insts, err := res.ResolveAll(ctx, fetcher, f.designer)
		require.NoError(t, err)
		require.Len(t, insts, 2)

		name, _ := insts[0].Text("name")
		assert.Equal(t, "Alvar", name)
		assert.False(t, insts[0].Has("bio"))
		name, _ = insts[1].Text("name")
		assert.Equal(t, "Bruno", name)
	})

	t.Run("embedded relation is not fetched", func(t *testing.T) {
		calls.Store(0)
		res := f.resolver(t, map[string]any{"designer": map[string]any{"url": "http://api/designers/z/"}})
		rels, err := res.Related(f.designer)
		require.NoError(t, err)
		require.Len(t, rels, 1)

		inst, err := res.Resolve(ctx, fetcher, rels[0])
		require.NoError(t, err)
		assert.Same(t, rels[0].Instance, inst)
		assert.Zero(t, calls.Load())
	})

	t.Run("fetch failure", func(t *testing.T) {
		res := f.resolver(t, map[string]any{"designer": "http://api/designers/missing/"})
		_, err := res.ResolveAll(ctx, fetcher, f.designer)
		assert.ErrorIs(t, err, rmerrors.ErrTransport)
	})

	t.Run("nil fetcher", func(t *testing.T) {
		res := f.resolver(t, nil)
		_, err := res.Resolve(ctx, nil, Relation{Spec: f.designer, URL: "http://api/designers/a/"})
		assert.Error(t, err)
	})

	t.Run("relation without url", func(t *testing.T) {
		res := f.resolver(t, nil)
		_, err := res.Resolve(ctx, fetcher, Relation{Spec: f.designer})
		assert.Error(t, err)
	})
}
