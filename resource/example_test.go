package resource_test

import (
	"errors"
	"fmt"

	"github.com/erraggy/restmap/registry"
	"github.com/erraggy/restmap/resource"
	"github.com/erraggy/restmap/rmerrors"
	"github.com/erraggy/restmap/schema"
)

// Example shows whitelisting of undeclared attributes.
func Example() {
	person := &schema.Spec{
		Name:       "person",
		Identifier: "url",
		Attributes: []string{"name", "url"},
		Hypermedia: &schema.Hypermedia{BaseURL: "https://x"},
	}

	inst, err := resource.New(person, map[string]any{
		"name": "luke",
		"age":  18,
		"url":  "https://x/people/1",
	}, resource.WithRegistry(registry.New()))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(inst.Names())
	fmt.Println(inst.Has("age"))
	// Output:
	// [name url]
	// false
}

// Example_subResource shows a nested record typed by a sub-resource spec.
func Example_subResource() {
	author := &schema.Spec{Name: "author", Attributes: []string{"name"}}
	book := &schema.Spec{
		Name:         "book",
		Identifier:   "id",
		Attributes:   []string{"id", "author"},
		SubResources: map[string]*schema.Spec{"author": author},
	}

	inst, _ := resource.New(book, map[string]any{"id": 1, "author": map[string]any{"name": "Earnest"}})
	a, _ := inst.Object("author")
	name, _ := a.Text("name")
	fmt.Println(name)

	_, err := resource.New(book, map[string]any{"id": 2, "author": "oops"})
	fmt.Println(errors.Is(err, rmerrors.ErrShapeMismatch))
	// Output:
	// Earnest
	// true
}
