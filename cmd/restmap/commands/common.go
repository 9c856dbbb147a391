// Package commands provides CLI command handlers for restmap.
package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/restmap/logging"
	"github.com/erraggy/restmap/registry"
	"github.com/erraggy/restmap/schema"
	"github.com/erraggy/restmap/transport"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDump = "dump"
)

// Logger backends selectable with -log.
const (
	LogSlog = "slog"
	LogZap  = "zap"
	LogNone = "none"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Standard streams, swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML, FormatDump:
		return nil
	}
	return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s, %s", format, FormatText, FormatJSON, FormatYAML, FormatDump)
}

// OutputStructured writes data to stdout in the specified format (json, yaml or dump).
func OutputStructured(data any, format string) error {
	var out string

	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling to %s: %w", format, err)
		}
		out = string(b)
	case FormatYAML:
		b, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshaling to %s: %w", format, err)
		}
		out = strings.TrimSuffix(string(b), "\n")
	case FormatDump:
		cfg := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true, DisableCapacities: true}
		out = strings.TrimSuffix(cfg.Sdump(data), "\n")
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	Writef(stdout, "%s\n", out)
	return nil
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// FormatSchemaPath returns a display-friendly path for a schema document.
func FormatSchemaPath(path string) string {
	if path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// commonFlags are shared by every command that loads a schema document.
type commonFlags struct {
	Schema string
	Format string
	Log    string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.Schema, "schema", "", "resource schema document (YAML or JSON), or '-' for stdin")
	fs.StringVar(&c.Format, "format", FormatText, "output format: text, json, yaml, or dump")
	fs.StringVar(&c.Log, "log", LogSlog, "log backend: slog, zap, or none (level from RESTMAP_LOG_LEVEL)")
}

func (c *commonFlags) validate() error {
	if c.Schema == "" {
		return fmt.Errorf("-schema is required")
	}
	if err := ValidateOutputFormat(c.Format); err != nil {
		return err
	}
	return ValidateLogBackend(c.Log)
}

// ValidateLogBackend validates a -log value.
func ValidateLogBackend(backend string) error {
	switch backend {
	case LogSlog, LogZap, LogNone:
		return nil
	}
	return fmt.Errorf("invalid log backend '%s'. Valid backends: %s, %s, %s", backend, LogSlog, LogZap, LogNone)
}

// NewLogger builds the CLI logger on stderr. The level comes from RESTMAP_LOG_LEVEL
// (debug, info, warn, error; default warn). The returned function flushes buffered output.
func NewLogger(backend string) (logging.Logger, func(), error) {
	level := os.Getenv("RESTMAP_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}

	switch backend {
	case LogNone:
		return logging.NopLogger{}, func() {}, nil
	case LogSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, nil, fmt.Errorf("invalid RESTMAP_LOG_LEVEL %q: %w", level, err)
		}
		h := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl})
		return logging.NewSlogAdapter(slog.New(h)), func() {}, nil
	case LogZap:
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid RESTMAP_LOG_LEVEL %q: %w", level, err)
		}
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.OutputPaths = []string{"stderr"}
		logger, err := cfg.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("building zap logger: %w", err)
		}
		z := logging.NewZapAdapter(logger.Sugar())
		return z, func() { _ = z.Sync() }, nil
	default:
		return nil, nil, ValidateLogBackend(backend)
	}
}

// LoadCatalog reads a schema document from a file, or from stdin when path is "-".
func LoadCatalog(path string) (*schema.Catalog, error) {
	if path != StdinFilePath {
		return schema.LoadFile(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return schema.Parse(data)
}

// NewRegistry registers every hypermedia spec of cat into a fresh registry and freezes it.
func NewRegistry(cat *schema.Catalog, logger logging.Logger) (*registry.Registry, error) {
	reg := registry.New(registry.WithLogger(logger))
	if err := reg.RegisterAll(cat.Hypermedia()...); err != nil {
		return nil, err
	}
	reg.Freeze()
	return reg, nil
}

// lookup returns the named spec or an error listing the declared names.
func lookup(cat *schema.Catalog, name string) (*schema.Spec, error) {
	if name == "" {
		return nil, fmt.Errorf("-resource is required")
	}
	if s, ok := cat.Get(name); ok {
		return s, nil
	}
	names := make([]string, 0, len(cat.Specs()))
	for _, s := range cat.Specs() {
		names = append(names, s.Name)
	}
	return nil, fmt.Errorf("unknown resource %q (declared: %s)", name, strings.Join(names, ", "))
}

// readData decodes JSON data from a file, or from stdin when path is "-" or empty.
func readData(path string) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == StdinFilePath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	}
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	body, err := transport.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}
	return body, nil
}
