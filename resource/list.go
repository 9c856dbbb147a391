package resource

import (
	"errors"
	"fmt"

	"github.com/erraggy/restmap/schema"
)

// NewList builds one instance per record of a collection response.
//
// body is either a JSON array of objects, or an object holding that array under
// spec.PaginationKey. A record that fails does not stop the others: NewList
// returns every instance that could be built (partial instances included, in
// source order) and the joined per-record errors, each tagged with its index.
func NewList(spec *schema.Spec, body any, opts ...Option) ([]*Instance, error) {
	if spec == nil {
		return nil, fmt.Errorf("resource: spec cannot be nil")
	}
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	records, err := listRecords(spec, body)
	if err != nil {
		return nil, err
	}

	out := make([]*Instance, 0, len(records))
	var errs []error
	for i, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("record %d: expected object, got %T", i, rec))
			continue
		}
		inst, err := newInstance(spec, m, cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
		}
		out = append(out, inst)
	}
	return out, errors.Join(errs...)
}

// FromBody builds instances from any decoded response body: a single record
// yields one instance, while an array or a paginated object goes through NewList.
// An object is treated as paginated only when it holds spec.PaginationKey.
func FromBody(spec *schema.Spec, body any, opts ...Option) ([]*Instance, error) {
	if spec == nil {
		return nil, fmt.Errorf("resource: spec cannot be nil")
	}
	if obj, ok := body.(map[string]any); ok {
		if _, paginated := obj[spec.PaginationKey]; spec.PaginationKey == "" || !paginated {
			inst, err := New(spec, obj, opts...)
			if inst == nil {
				return nil, err
			}
			return []*Instance{inst}, err
		}
	}
	return NewList(spec, body, opts...)
}

func listRecords(spec *schema.Spec, body any) ([]any, error) {
	switch x := body.(type) {
	case []any:
		return x, nil
	case map[string]any:
		if spec.PaginationKey == "" {
			return nil, fmt.Errorf("resource: %s response is an object but the spec has no pagination key", spec.Name)
		}
		page, ok := x[spec.PaginationKey]
		if !ok || page == nil {
			return nil, nil
		}
		list, ok := page.([]any)
		if !ok {
			return nil, fmt.Errorf("resource: %s pagination key %q holds %T, not a list", spec.Name, spec.PaginationKey, page)
		}
		return list, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("resource: %s response must be a list or an object, got %T", spec.Name, body)
	}
}
