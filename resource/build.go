package resource

import (
	"errors"

	"github.com/erraggy/restmap/rmerrors"
	"github.com/erraggy/restmap/schema"
)

// Build constructs the typed form of a sub-resource value.
//
//   - an object yields one instance of target (KindInstance)
//   - a list of objects yields instances in the same order (KindInstances)
//   - nil yields a null Value
//
// Any other value, including a list element that is not an object, fails with
// an *rmerrors.ShapeMismatchError. A mismatched scalar is returned as its
// primitive Value alongside the error.
func Build(value any, target *schema.Spec, opts ...Option) (Value, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return Value{}, err
	}
	return build(value, target, target.Name, "", cfg)
}

// build converts value for attribute attr of the resource named owner.
// Nested shape errors are joined; the returned Value holds everything that
// could be built.
func build(value any, target *schema.Spec, owner, attr string, cfg *config) (Value, error) {
	switch x := value.(type) {
	case nil:
		return NullValue(), nil
	case map[string]any:
		inst, err := newInstance(target, x, cfg)
		return InstanceValue(inst), err
	case []any:
		list := make([]*Instance, 0, len(x))
		var errs []error
		for i, elem := range x {
			m, ok := elem.(map[string]any)
			if !ok {
				errs = append(errs, &rmerrors.ShapeMismatchError{Resource: owner, Attribute: attr, Index: i, Value: elem})
				continue
			}
			inst, err := newInstance(target, m, cfg)
			if err != nil {
				errs = append(errs, err)
			}
			list = append(list, inst)
		}
		return InstancesValue(list), errors.Join(errs...)
	default:
		return infer(value), &rmerrors.ShapeMismatchError{Resource: owner, Attribute: attr, Index: -1, Value: value}
	}
}
