package rmerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrInvalidSpec indicates a malformed or incomplete resource spec.
	ErrInvalidSpec = errors.New("invalid spec")

	// ErrDuplicateRegistration indicates a URL template is already registered to another spec.
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrShapeMismatch indicates a declared sub-resource attribute held a non-null scalar.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrUnregisteredResource indicates a spec was used before it was registered.
	ErrUnregisteredResource = errors.New("unregistered resource")

	// ErrAmbiguousRelation indicates a URL matched more than one registered spec.
	ErrAmbiguousRelation = errors.New("ambiguous relation")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrRegistryFrozen indicates a registration was attempted after the registry was frozen.
	ErrRegistryFrozen = errors.New("registry frozen")

	// ErrTransport indicates the transport collaborator failed.
	ErrTransport = errors.New("transport error")
)

// InvalidSpecError represents a resource spec that failed validation.
// All missing or invalid fields are reported together.
type InvalidSpecError struct {
	// Resource is the spec name, if known
	Resource string
	// Missing lists required fields that were absent
	Missing []string
	// Message describes any other problem with the spec
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *InvalidSpecError) Error() string {
	msg := "invalid spec"
	if e.Resource != "" {
		msg += " " + e.Resource
	}
	if len(e.Missing) > 0 {
		msg += ": missing " + strings.Join(e.Missing, ", ")
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *InvalidSpecError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *InvalidSpecError) Is(target error) bool {
	return target == ErrInvalidSpec
}

// DuplicateRegistrationError represents two specs competing for the same URL template.
type DuplicateRegistrationError struct {
	// BaseURL is the normalized base URL of the template
	BaseURL string
	// ResourceName is the collection segment of the template
	ResourceName string
	// Existing is the name of the spec already holding the template
	Existing string
	// Incoming is the name of the spec whose registration was rejected
	Incoming string
}

// Error returns a human-readable error message.
func (e *DuplicateRegistrationError) Error() string {
	msg := fmt.Sprintf("duplicate registration: %s/%s/", e.BaseURL, e.ResourceName)
	if e.Existing != "" {
		msg += " already registered to " + e.Existing
	}
	if e.Incoming != "" {
		msg += ", rejected " + e.Incoming
	}
	return msg
}

// Unwrap returns nil as DuplicateRegistrationError has no underlying cause.
func (e *DuplicateRegistrationError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// ShapeMismatchError represents a declared sub-resource attribute whose raw value
// was neither an object, a list of objects, nor null.
type ShapeMismatchError struct {
	// Resource is the name of the spec being built
	Resource string
	// Attribute is the attribute that held the offending value
	Attribute string
	// Index is the list position of the offending element, or -1
	Index int
	// Value is the offending raw value
	Value any
}

// Error returns a human-readable error message.
func (e *ShapeMismatchError) Error() string {
	msg := "shape mismatch"
	if e.Resource != "" || e.Attribute != "" {
		msg += " at " + e.Resource
		if e.Attribute != "" {
			msg += "." + e.Attribute
		}
	}
	if e.Index >= 0 {
		msg += fmt.Sprintf("[%d]", e.Index)
	}
	return msg + fmt.Sprintf(": expected object or list of objects, got %T", e.Value)
}

// Unwrap returns nil as ShapeMismatchError has no underlying cause.
func (e *ShapeMismatchError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// UnregisteredResourceError represents use of a spec that was never registered.
type UnregisteredResourceError struct {
	// Resource is the name of the spec
	Resource string
	// Operation names what was attempted (e.g., "related", "url")
	Operation string
}

// Error returns a human-readable error message.
func (e *UnregisteredResourceError) Error() string {
	msg := "unregistered resource"
	if e.Resource != "" {
		msg += " " + e.Resource
	}
	if e.Operation != "" {
		msg += " (" + e.Operation + ")"
	}
	return msg
}

// Unwrap returns nil as UnregisteredResourceError has no underlying cause.
func (e *UnregisteredResourceError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *UnregisteredResourceError) Is(target error) bool {
	return target == ErrUnregisteredResource
}

// AmbiguousRelationError represents a URL that matched several registered specs.
type AmbiguousRelationError struct {
	// URL is the candidate string
	URL string
	// Attribute is the raw attribute the URL was found in, if any
	Attribute string
	// Candidates lists the names of every matching spec
	Candidates []string
}

// Error returns a human-readable error message.
func (e *AmbiguousRelationError) Error() string {
	msg := "ambiguous relation"
	if e.Attribute != "" {
		msg += " in " + e.Attribute
	}
	if e.URL != "" {
		msg += ": " + e.URL
	}
	if len(e.Candidates) > 0 {
		msg += " matches " + strings.Join(e.Candidates, ", ")
	}
	return msg
}

// Unwrap returns nil as AmbiguousRelationError has no underlying cause.
func (e *AmbiguousRelationError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *AmbiguousRelationError) Is(target error) bool {
	return target == ErrAmbiguousRelation
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, unsupported verbs, and writes to a frozen registry.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Frozen is true if this error is due to a write after Freeze
	Frozen bool
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Frozen {
		msg = "registry frozen"
	}
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrConfig, and also ErrRegistryFrozen when Frozen is set.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfig {
		return true
	}
	return target == ErrRegistryFrozen && e.Frozen
}

// TransportError represents a failed fetch by the transport collaborator.
type TransportError struct {
	// URL is the requested URL
	URL string
	// Method is the HTTP verb
	Method string
	// StatusCode is the response status (0 if no response was received)
	StatusCode int
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *TransportError) Error() string {
	msg := "transport error"
	if e.Method != "" {
		msg += " " + e.Method
	}
	if e.URL != "" {
		msg += " " + e.URL
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
