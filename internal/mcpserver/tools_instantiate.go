package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restmap/resource"
	"github.com/erraggy/restmap/transport"
)

type instantiateInput struct {
	Schema   schemaInput `json:"schema"           jsonschema:"The resource schema document"`
	Resource string      `json:"resource"         jsonschema:"Name of the resource declared in the schema"`
	Data     string      `json:"data"             jsonschema:"JSON text: one record, an array of records, or a paginated object"`
	Offset   int         `json:"offset,omitempty" jsonschema:"Skip the first N instances (for pagination)"`
	Limit    int         `json:"limit,omitempty"  jsonschema:"Maximum number of instances to return (default 100)"`
}

type instantiateOutput struct {
	Resource  string           `json:"resource"`
	Total     int              `json:"total"`
	Returned  int              `json:"returned"`
	Instances []map[string]any `json:"instances,omitempty"`
	Errors    []string         `json:"errors,omitempty"`
}

func handleInstantiate(_ context.Context, _ *mcp.CallToolRequest, input instantiateInput) (*mcp.CallToolResult, instantiateOutput, error) {
	loaded, err := input.Schema.resolve()
	if err != nil {
		return errResult(err), instantiateOutput{}, nil
	}
	spec, err := loaded.spec(input.Resource)
	if err != nil {
		return errResult(err), instantiateOutput{}, nil
	}
	body, err := decodeData(input.Data)
	if err != nil {
		return errResult(err), instantiateOutput{}, nil
	}

	insts, buildErr := resource.FromBody(spec, body, resource.WithRegistry(loaded.registry))
	if insts == nil && buildErr != nil {
		return errResult(buildErr), instantiateOutput{}, nil
	}

	output := instantiateOutput{
		Resource: spec.Name,
		Total:    len(insts),
		Errors:   errorStrings(buildErr),
	}
	page := paginate(insts, input.Offset, input.Limit)
	output.Instances = makeSlice[map[string]any](len(page))
	for _, inst := range page {
		output.Instances = append(output.Instances, inst.ToMap())
	}
	output.Returned = len(output.Instances)
	return nil, output, nil
}

func decodeData(data string) (any, error) {
	if data == "" {
		return nil, fmt.Errorf("data is required")
	}
	if int64(len(data)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("data size %d bytes exceeds maximum %d bytes; set RESTMAP_MAX_INLINE_SIZE to increase",
			len(data), cfg.MaxInlineSize)
	}
	body, err := transport.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}
	return body, nil
}

// errorStrings flattens a joined error into one sanitized message per error.
func errorStrings(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, errorStrings(e)...)
		}
		return out
	}
	return []string{sanitizeError(err)}
}
