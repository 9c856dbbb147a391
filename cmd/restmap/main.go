package main

import (
	"fmt"
	"os"

	"github.com/erraggy/restmap"
	"github.com/erraggy/restmap/cmd/restmap/commands"
	"github.com/erraggy/restmap/internal/naming"
)

// handlers maps command names to their implementations.
var handlers = map[string]func([]string) error{
	"validate": commands.HandleValidate,
	"url":      commands.HandleURL,
	"match":    commands.HandleMatch,
	"project":  commands.HandleProject,
	"related":  commands.HandleRelated,
	"generate": commands.HandleGenerate,
	"mcp":      commands.HandleMCP,
}

// commandNames lists every command in usage order, for typo suggestions.
var commandNames = []string{"validate", "url", "match", "project", "related", "generate", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("restmap v%s\n", restmap.Version())
		if len(os.Args) > 2 && os.Args[2] == "-verbose" {
			fmt.Print(restmap.BuildInfo())
		}
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	handle, ok := handlers[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
	if err := handle(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the command within two edits of input, if any.
func suggestCommand(input string) string {
	return naming.Closest(input, commandNames, 2)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `restmap - map JSON API records onto declarative resource schemas

Usage:
  restmap <command> [flags]

Commands:
  validate   Load and check a resource schema document
  url        Print the request URL for a resource and verb
  match      Reverse-match a URL to a resource and identifier
  project    Build typed instances from JSON data
  related    List (and optionally fetch) the resources a record references
  generate   Generate typed Go wrappers for a schema
  mcp        Run the MCP server over stdio
  version    Print the version (-verbose for build details)
  help       Show this help

Run 'restmap <command> -h' for command flags.

Environment:
  RESTMAP_LOG_LEVEL   debug, info, warn (default), or error
`)
}
