// Package naming provides shared case conversion and pluralization utilities.
//
// This internal package contains the string transformations used to derive
// names from resource specs:
//   - schema: default collection segment (Pluralize) when a spec omits resourceName
//   - relation: accessor names such as "get_blog_posts" (ToSnakeCase)
//   - generator: exported Go identifiers for wrapper types and getters (ToGoIdentifier)
//   - cmd/restmap: "did you mean" suggestions for mistyped commands (Closest)
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
