package relation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/restmap/resource"
	"github.com/erraggy/restmap/schema"
)

// Fetcher retrieves the decoded body of one resource. Implementations are
// expected to validate the response status against spec.ValidStatusCodes.
type Fetcher interface {
	Fetch(ctx context.Context, spec *schema.Spec, url string) (map[string]any, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, spec *schema.Spec, url string) (map[string]any, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, spec *schema.Spec, url string) (map[string]any, error) {
	return f(ctx, spec, url)
}

// Resolve returns the instance behind rel. Embedded relations are returned as-is
// without calling f. Otherwise the body is fetched and built with resource.New;
// a partially built instance is returned together with its shape errors.
func (r *Resolver) Resolve(ctx context.Context, f Fetcher, rel Relation) (*resource.Instance, error) {
	if rel.Instance != nil {
		return rel.Instance, nil
	}
	if rel.URL == "" {
		return nil, fmt.Errorf("relation: %s has neither an instance nor a URL", rel)
	}
	if f == nil {
		return nil, fmt.Errorf("relation: fetcher cannot be nil")
	}

	r.cfg.logger.Debug("fetching relation", "related", rel.Spec.Name, "url", rel.URL)
	body, err := f.Fetch(ctx, rel.Spec, rel.URL)
	if err != nil {
		return nil, fmt.Errorf("relation: fetching %s: %w", rel.URL, err)
	}
	return resource.New(rel.Spec, body,
		resource.WithRegistry(r.cfg.registry),
		resource.WithLogger(r.cfg.logger),
	)
}

// ResolveAll discovers every relation to relSpec and resolves them, fetching at
// most the configured parallelism at once. Results keep discovery order. The
// first failure cancels the remaining fetches.
func (r *Resolver) ResolveAll(ctx context.Context, f Fetcher, relSpec *schema.Spec) ([]*resource.Instance, error) {
	rels, err := r.Related(relSpec)
	if err != nil {
		return nil, err
	}

	out := make([]*resource.Instance, len(rels))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.parallelism)
	for i, rel := range rels {
		g.Go(func() error {
			inst, err := r.Resolve(ctx, f, rel)
			if err != nil {
				return err
			}
			out[i] = inst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
