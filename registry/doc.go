// Package registry maps hypermedia resource specs to their URL templates.
//
// The registry answers two questions: "what URL do I request for this resource?"
// ([Registry.URLFor]) and "which resource does this URL point at?"
// ([Registry.MatchURL], [Registry.MatchAll]).
//
// # Lifecycle
//
// A registry has three phases:
//
//  1. Init: specs are registered with [Registry.Register]. Registration is
//     serialized by a mutex and may be called from several goroutines.
//  2. Freeze: [Registry.Freeze] rejects any further registration with
//     rmerrors.ErrRegistryFrozen.
//  3. Read: URL generation and matching read an immutable snapshot and take no
//     locks. They are safe from any number of goroutines.
//
// Readers always see a consistent snapshot, but a match racing a registration
// may or may not see the new spec. Finish registering before matching.
//
// # Matching policy
//
// A candidate URL is compared against every registered base URL that is a prefix
// of it at a segment boundary, longest base first. The first base under which the
// remaining path is exactly {collection}/ or {collection}/{identifier}/ for a
// registered collection wins. Collection segments must match exactly; there is no
// prefix or partial matching. URLs that match nothing are not errors.
//
// # Process-wide registry
//
// [Default] returns the registry used when callers do not supply one.
// Tests can install a fresh one with [ResetDefault].
package registry
