// Package relation discovers the related resources of a hypermedia instance.
//
// A hypermedia record links to other resources by URL: a string attribute such as
// "designer": "http://api/designers/slug-1/", a list of such strings, or an embedded
// object that carries its own URL. A Resolver scans the source record of one
// instance and reverse-matches every URL-shaped value against a registry. Matches
// for the requested spec are returned as [Relation] references.
//
// Discovery is lazy and performs no I/O. A Relation whose data was embedded in the
// payload already holds a built instance. Any other Relation holds the URL and the
// identifier parsed from it, and [Resolver.Resolve] turns it into an instance using a
// caller-supplied [Fetcher].
//
// # Accessors
//
// Each related spec of a hypermedia spec gets an accessor named from its collection,
// for example "get_designers". Accessor names are stable and are what the CLI and
// the MCP server expose:
//
//	res, _ := relation.NewResolver(product, relation.WithRegistry(reg))
//	for _, name := range res.Accessors() {
//		rels, err := res.Invoke(name)
//		...
//	}
package relation
