// Package resource turns decoded JSON objects into typed, attribute-whitelisted
// resource instances.
//
// Construction runs in two stages:
//
//  1. [Project] keeps only the attributes a spec declares and infers a primitive
//     kind (null, bool, number, string) for each. Objects and arrays pass through
//     untouched.
//  2. [Build] turns the values of declared sub-resource attributes into nested
//     instances, recursively: an object becomes one [Instance], a list of objects
//     becomes an ordered list of instances, and null stays null. Any other scalar
//     is a shape mismatch.
//
// [New] runs both stages for one record:
//
//	inst, err := resource.New(personSpec, map[string]any{
//	    "name": "luke",
//	    "age":  18,
//	    "url":  "https://swapi.dev/api/people/1/",
//	})
//	name, _ := inst.Text("name") // "luke"
//	inst.Has("age")                // false: not whitelisted
//
// Instances of hypermedia specs also keep the raw record so the relation package
// can discover related resources from URL-shaped values. When a hypermedia record
// embeds a related resource as an object (instead of a URL), construction
// materializes it as an instance of the related spec.
//
// Instances are immutable after construction and safe to share between goroutines.
// Construction itself performs no I/O and may run in parallel across records.
package resource
