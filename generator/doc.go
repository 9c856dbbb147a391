// Package generator emits typed Go wrappers for a set of resource specs.
//
// For every spec reachable from the input (sub-resources and related resources
// included) the generated file declares:
//
//   - a *schema.Spec variable holding the spec, wired to its sub-resources and
//     related resources in init
//   - a wrapper struct around *resource.Instance with a constructor
//   - one getter per attribute; sub-resource attributes get a single-instance and a
//     list getter returning the nested wrapper type
//   - one relation accessor per related resource, named after the accessor name
//     relation.AccessorName derives (get_designers becomes GetDesigners)
//
// A Register function adds the hypermedia specs to a registry.
//
// # Quick Start
//
//	catalog, err := schema.LoadFile("resources.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	src, err := generator.Generate(catalog.Specs(), "shop")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := generator.WriteFile("shop/resources_gen.go", src); err != nil {
//		log.Fatal(err)
//	}
//
// The output is formatted and its imports pruned with golang.org/x/tools/imports,
// so a file without relations does not import the relation package.
package generator
