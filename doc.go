// Package restmap maps JSON API responses onto typed resources described by
// declarative specs.
//
// # Overview
//
// A resource type is described once, at startup, by a [schema.Spec]: its name,
// the whitelist of attributes to keep, the identifier attribute, nested
// sub-resource specs and, for hypermedia APIs, the base URL and the related
// resource types that records link to by URL.
//
// The packages split the work as follows:
//
//   - schema: Spec definitions, validation and YAML/JSON spec loading
//   - resource: attribute projection and recursive construction of instances
//   - registry: URL templates per hypermedia spec, URL generation and reverse matching
//   - relation: discovery of related resources from URLs found in a record
//   - transport: an HTTP client that fetches bodies and builds instances
//   - generator: typed Go wrappers generated from a set of specs
//   - rmerrors: the error taxonomy shared by all packages
//   - logging: the Logger interface and slog/zap adapters
//
// # Quick Start
//
// Register the hypermedia specs, then build instances from decoded JSON:
//
//	designer := &schema.Spec{
//		Name:       "designer",
//		Identifier: "url",
//		Attributes: []string{"url", "name"},
//		Hypermedia: &schema.Hypermedia{BaseURL: "http://api"},
//	}
//	product := &schema.Spec{
//		Name:       "product",
//		Identifier: "url",
//		Attributes: []string{"url", "name", "designer"},
//		Hypermedia: &schema.Hypermedia{
//			BaseURL:          "http://api",
//			RelatedResources: []*schema.Spec{designer},
//		},
//	}
//	if err := registry.Default().RegisterAll(designer, product); err != nil {
//		log.Fatal(err)
//	}
//	registry.Default().Freeze()
//
//	inst, err := resource.New(product, body)
//	if err != nil {
//		log.Print(err) // shape mismatches leave the rest of the instance intact
//	}
//	res, _ := relation.NewResolver(inst)
//	designers, err := res.Related(designer)
//
// # Registry lifecycle
//
// The process-wide registry is written during initialization and read afterwards.
// Freeze marks the end of the write phase: registrations after it fail with
// rmerrors.ErrRegistryFrozen. Matching and URL generation read an immutable
// snapshot and may run concurrently with each other at any time.
//
// # Command line
//
// The restmap command validates spec files, generates and matches URLs, projects
// JSON records, lists relations, generates typed wrappers, and serves the same
// operations as MCP tools. See cmd/restmap.
package restmap
