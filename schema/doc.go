// Package schema declares resource specs: the immutable schemas that tell restmap
// which attributes to keep from a raw JSON object, which attributes hold nested
// sub-resources, and, for hypermedia resources, where the resource lives and
// which other resources it links to.
//
// # Plain and hypermedia specs
//
// A plain [Spec] shapes nested data only and is never fetched on its own. A spec with
// a non-nil [Hypermedia] part is URL-addressable: it has a base URL, a collection
// segment ([Spec.Collection]) and a list of related resource specs whose URLs may
// appear in its payloads.
//
//	designer := &schema.Spec{
//	    Name:       "designer",
//	    Identifier: "slug",
//	    Attributes: []string{"slug", "name"},
//	    Hypermedia: &schema.Hypermedia{BaseURL: "http://api"},
//	}
//	product := &schema.Spec{
//	    Name:       "product",
//	    Identifier: "id",
//	    Attributes: []string{"id", "title", "designer"},
//	    Hypermedia: &schema.Hypermedia{
//	        BaseURL:          "http://api",
//	        RelatedResources: []*schema.Spec{designer},
//	    },
//	}
//
// # Declarative loading
//
// [Parse] and [LoadFile] read specs from YAML or JSON. Specs refer to each other by
// name, so documents may declare resources in any order and may be recursive.
//
// Specs are read-only once handed to a registry or used to build instances.
package schema
