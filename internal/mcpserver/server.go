// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes restmap capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restmap"
)

const serverInstructions = `restmap MCP server: maps JSON API records onto declarative resource schemas, generates and reverse-matches resource URLs, and discovers related resources.

Every tool takes a "schema" input: a YAML or JSON document with "resources" (and optionally "subresources") entries, given inline as content or as a file path.

Configuration: defaults are configurable via RESTMAP_* environment variables set in your MCP client config.

Key settings:
- RESTMAP_CACHE_ENABLED (default: true): cache loaded schema documents per session
- RESTMAP_CACHE_FILE_TTL / RESTMAP_CACHE_CONTENT_TTL (default: 15m)
- RESTMAP_MAX_INLINE_SIZE (default: 1MiB): maximum inline schema or data size
- RESTMAP_DEFAULT_LIMIT (default: 100), RESTMAP_MAX_LIMIT (default: 1000): instantiate page size
- RESTMAP_TIMEOUT (default: 30s), RESTMAP_MAX_BODY_SIZE (default: 10MiB): fetching related resources
- RESTMAP_ALLOW_PRIVATE_IPS (default: false): allow fetching from private/loopback addresses`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		schemaCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "restmap", Version: restmap.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "url_for",
		Description: "Generate the request URL for a hypermedia resource. POST addresses the collection ({base}/{collection}/); GET, PUT, PATCH and DELETE address one resource ({base}/{collection}/{identifier}/). GET without an identifier returns the collection URL.",
	}, handleURLFor)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "match_url",
		Description: "Reverse-match a URL against the schema's hypermedia resources. Returns the matched resource, base URL and decoded identifier, or matched=false for unrelated URLs. Longest base URL wins; the collection segment must match exactly.",
	}, handleMatchURL)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "instantiate",
		Description: "Build typed resource instances from JSON data: keeps only declared attributes, converts declared sub-resources recursively, and reports shape mismatches per record without dropping sibling attributes. Data may be one object, an array of objects, or a paginated object holding the array under the resource's pagination_key. Use offset/limit to page through large arrays.",
	}, handleInstantiate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "related",
		Description: "List the related resources a hypermedia record links to by URL or embeds. Set relation to a resource name to query one relation, or omit it to query every related resource the schema declares. Set fetch=true to GET each referenced resource and return it as an instance (private addresses are blocked unless RESTMAP_ALLOW_PRIVATE_IPS is set).",
	}, handleRelated)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.DefaultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths so they can be stripped from
// error messages returned to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
