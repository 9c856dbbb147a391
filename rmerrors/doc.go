// Package rmerrors provides structured error types for the restmap library.
//
// Import path: github.com/erraggy/restmap/rmerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to tell schema mistakes (fatal at startup) apart from per-record
// failures (scoped to a single payload).
//
// # Error Types
//
//   - [InvalidSpecError]: a resource spec is missing required fields
//   - [DuplicateRegistrationError]: two specs claim the same URL template
//   - [ShapeMismatchError]: a declared sub-resource attribute holds a non-null scalar
//   - [UnregisteredResourceError]: a relation was requested for a spec never registered
//   - [AmbiguousRelationError]: a URL matched more than one registered spec
//   - [ConfigError]: invalid options, verbs, or registry lifecycle misuse
//   - [TransportError]: the transport collaborator failed or returned an unexpected status
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrInvalidSpec]: Matches any [InvalidSpecError]
//   - [ErrDuplicateRegistration]: Matches any [DuplicateRegistrationError]
//   - [ErrShapeMismatch]: Matches any [ShapeMismatchError]
//   - [ErrUnregisteredResource]: Matches any [UnregisteredResourceError]
//   - [ErrAmbiguousRelation]: Matches any [AmbiguousRelationError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrRegistryFrozen]: Matches [ConfigError] with Frozen=true
//   - [ErrTransport]: Matches any [TransportError]
//
// # Usage
//
//	inst, err := resource.New(spec, raw)
//	if err != nil {
//	    var shapeErr *rmerrors.ShapeMismatchError
//	    if errors.As(err, &shapeErr) {
//	        log.Printf("bad %s.%s: %v", shapeErr.Resource, shapeErr.Attribute, shapeErr.Value)
//	    }
//	}
package rmerrors
