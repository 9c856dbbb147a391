package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/restmap/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		Writef(fs.Output(), "Usage: restmap mcp\n\n")
		Writef(fs.Output(), "Run the MCP server over stdio. Tools: url_for, match_url, instantiate, related.\n")
		Writef(fs.Output(), "Defaults are configured with RESTMAP_* environment variables.\n")
	}
	return fs
}

// HandleMCP executes the mcp command, serving until stdin closes or a signal arrives.
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
