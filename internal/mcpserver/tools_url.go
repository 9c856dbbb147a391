package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type urlForInput struct {
	Schema     schemaInput `json:"schema"               jsonschema:"The resource schema document"`
	Resource   string      `json:"resource"             jsonschema:"Name of a hypermedia resource declared in the schema"`
	Identifier string      `json:"identifier,omitempty" jsonschema:"Identifier value; omit for collection URLs"`
	Verb       string      `json:"verb,omitempty"       jsonschema:"HTTP verb: GET (default), POST, PUT, PATCH or DELETE"`
}

type urlForOutput struct {
	URL      string `json:"url"`
	Resource string `json:"resource"`
	Verb     string `json:"verb"`
}

func handleURLFor(_ context.Context, _ *mcp.CallToolRequest, input urlForInput) (*mcp.CallToolResult, urlForOutput, error) {
	loaded, err := input.Schema.resolve()
	if err != nil {
		return errResult(err), urlForOutput{}, nil
	}
	spec, err := loaded.spec(input.Resource)
	if err != nil {
		return errResult(err), urlForOutput{}, nil
	}

	verb := strings.ToUpper(input.Verb)
	if verb == "" {
		verb = "GET"
	}
	url, err := loaded.registry.URLFor(spec, input.Identifier, verb)
	if err != nil {
		return errResult(err), urlForOutput{}, nil
	}
	return nil, urlForOutput{URL: url, Resource: spec.Name, Verb: verb}, nil
}

type matchURLInput struct {
	Schema schemaInput `json:"schema" jsonschema:"The resource schema document"`
	URL    string      `json:"url"    jsonschema:"The URL to match"`
}

type matchURLOutput struct {
	Matched    bool   `json:"matched"`
	Resource   string `json:"resource,omitempty"`
	BaseURL    string `json:"base_url,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Collection bool   `json:"collection,omitempty"`
}

func handleMatchURL(_ context.Context, _ *mcp.CallToolRequest, input matchURLInput) (*mcp.CallToolResult, matchURLOutput, error) {
	loaded, err := input.Schema.resolve()
	if err != nil {
		return errResult(err), matchURLOutput{}, nil
	}
	m, ok, err := loaded.registry.Match(input.URL)
	if err != nil {
		return errResult(err), matchURLOutput{}, nil
	}
	if !ok {
		return nil, matchURLOutput{}, nil
	}
	return nil, matchURLOutput{
		Matched:    true,
		Resource:   m.Spec.Name,
		BaseURL:    m.BaseURL,
		Identifier: m.Identifier,
		Collection: m.IsCollection(),
	}, nil
}
