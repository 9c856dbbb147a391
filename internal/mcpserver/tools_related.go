package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restmap/relation"
	"github.com/erraggy/restmap/resource"
	"github.com/erraggy/restmap/schema"
	"github.com/erraggy/restmap/transport"
)

type relatedInput struct {
	Schema   schemaInput `json:"schema"             jsonschema:"The resource schema document"`
	Resource string      `json:"resource"           jsonschema:"Name of the hypermedia resource the record belongs to"`
	Data     string      `json:"data"               jsonschema:"JSON text of one record"`
	Relation string      `json:"relation,omitempty" jsonschema:"Name of the related resource to query; omit to query all related resources"`
	Fetch    bool        `json:"fetch,omitempty"    jsonschema:"GET each referenced resource and include it as an instance"`
}

type relationItem struct {
	Accessor   string         `json:"accessor"`
	Attribute  string         `json:"attribute"`
	Resource   string         `json:"resource"`
	URL        string         `json:"url,omitempty"`
	Identifier string         `json:"identifier,omitempty"`
	Embedded   bool           `json:"embedded"`
	Instance   map[string]any `json:"instance,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type relatedOutput struct {
	Resource  string         `json:"resource"`
	Accessors []string       `json:"accessors"`
	Relations []relationItem `json:"relations,omitempty"`
}

func handleRelated(ctx context.Context, _ *mcp.CallToolRequest, input relatedInput) (*mcp.CallToolResult, relatedOutput, error) {
	loaded, err := input.Schema.resolve()
	if err != nil {
		return errResult(err), relatedOutput{}, nil
	}
	spec, err := loaded.spec(input.Resource)
	if err != nil {
		return errResult(err), relatedOutput{}, nil
	}
	body, err := decodeData(input.Data)
	if err != nil {
		return errResult(err), relatedOutput{}, nil
	}
	record, ok := body.(map[string]any)
	if !ok {
		return errResult(fmt.Errorf("data must be a JSON object, got %T", body)), relatedOutput{}, nil
	}

	// Shape mismatches in sub-resources do not affect relation discovery.
	inst, _ := resource.New(spec, record, resource.WithRegistry(loaded.registry))
	res, err := relation.NewResolver(inst, relation.WithRegistry(loaded.registry))
	if err != nil {
		return errResult(err), relatedOutput{}, nil
	}

	targets := spec.Related()
	if input.Relation != "" {
		target, err := loaded.spec(input.Relation)
		if err != nil {
			return errResult(err), relatedOutput{}, nil
		}
		targets = []*schema.Spec{target}
	}

	var client *transport.Client
	if input.Fetch {
		client, err = newFetchClient(loaded)
		if err != nil {
			return errResult(err), relatedOutput{}, nil
		}
	}

	output := relatedOutput{Resource: spec.Name, Accessors: res.Accessors()}
	for _, target := range targets {
		rels, err := res.Related(target)
		if err != nil {
			return errResult(err), relatedOutput{}, nil
		}
		for _, rel := range rels {
			item := relationItem{
				Accessor:   relation.AccessorName(rel.Spec),
				Attribute:  rel.Attribute,
				Resource:   rel.Spec.Name,
				URL:        rel.URL,
				Identifier: rel.Identifier,
				Embedded:   rel.IsEmbedded(),
			}
			if rel.IsEmbedded() {
				item.Instance = rel.Instance.ToMap()
			} else if client != nil {
				resolved, err := res.Resolve(ctx, client, rel)
				if err != nil {
					item.Error = sanitizeError(err)
				}
				if resolved != nil {
					item.Instance = resolved.ToMap()
				}
			}
			output.Relations = append(output.Relations, item)
		}
	}
	return nil, output, nil
}

// newFetchClient returns a transport client bound to the schema's registry.
// Private addresses are blocked unless RESTMAP_ALLOW_PRIVATE_IPS is set.
func newFetchClient(loaded *loadedSchema) (*transport.Client, error) {
	opts := []transport.Option{
		transport.WithRegistry(loaded.registry),
		transport.WithMaxBodySize(cfg.MaxBodySize),
		transport.WithTimeout(cfg.Timeout),
	}
	if !cfg.AllowPrivateIPs {
		opts = append(opts, transport.WithHTTPClient(transport.NewSafeHTTPClient(cfg.Timeout)))
	}
	return transport.New(opts...)
}
