package mcpserver

import (
	"testing"
)

// shopSchema is a small hypermedia schema shared by the tool tests.
const shopSchema = `
resources:
  - name: designer
    identifier: url
    attributes: [url, name]
    base_url: http://api
    related_resources: []
  - name: product
    identifier: url
    attributes: [url, name, designer, collaborators, dimensions]
    subresources:
      dimensions: dimensions
    pagination_key: results
    base_url: http://api
    related_resources: [designer]
subresources:
  - name: dimensions
    attributes: [width, height]
`

func shopInput() schemaInput {
	return schemaInput{Content: shopSchema}
}

// withConfig swaps the active configuration for the duration of a test.
func withConfig(t *testing.T, mutate func(c *serverConfig)) {
	t.Helper()
	prev := cfg
	next := *prev
	mutate(&next)
	cfg = &next
	t.Cleanup(func() { cfg = prev })
}
