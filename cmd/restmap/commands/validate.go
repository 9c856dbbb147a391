package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/restmap/schema"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	commonFlags
	Quiet bool
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, yaml, or dump")
	fs.StringVar(&flags.Log, "log", LogSlog, "log backend: slog, zap, or none (level from RESTMAP_LOG_LEVEL)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only report failures")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only report failures")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: restmap validate [flags] <schema|->\n\n")
		Writef(fs.Output(), "Load a resource schema document, check every spec and register its hypermedia resources.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  restmap validate resources.yaml\n")
		Writef(fs.Output(), "  cat resources.yaml | restmap validate -q -\n")
		Writef(fs.Output(), "  restmap validate --format json resources.yaml | jq '.resources'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Schema is valid\n")
		Writef(fs.Output(), "  1    Schema is invalid\n")
	}

	return fs, flags
}

// SpecSummary describes one loaded spec.
type SpecSummary struct {
	Name         string            `json:"name"                    yaml:"name"`
	Hypermedia   bool              `json:"hypermedia"              yaml:"hypermedia"`
	BaseURL      string            `json:"base_url,omitempty"      yaml:"base_url,omitempty"`
	Collection   string            `json:"collection,omitempty"    yaml:"collection,omitempty"`
	Identifier   string            `json:"identifier,omitempty"    yaml:"identifier,omitempty"`
	Attributes   []string          `json:"attributes"              yaml:"attributes"`
	SubResources map[string]string `json:"subresources,omitempty"  yaml:"subresources,omitempty"`
	Related      []string          `json:"related,omitempty"       yaml:"related,omitempty"`
}

// ValidateResult is the structured output of the validate command.
type ValidateResult struct {
	Schema    string        `json:"schema"    yaml:"schema"`
	Valid     bool          `json:"valid"     yaml:"valid"`
	Resources []SpecSummary `json:"resources" yaml:"resources"`
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one schema path or '-' for stdin")
	}
	flags.Schema = fs.Arg(0)
	if err := flags.validate(); err != nil {
		return err
	}

	logger, flush, err := NewLogger(flags.Log)
	if err != nil {
		return err
	}
	defer flush()

	cat, err := LoadCatalog(flags.Schema)
	if err != nil {
		return err
	}
	if _, err := NewRegistry(cat, logger); err != nil {
		return err
	}

	result := ValidateResult{Schema: FormatSchemaPath(flags.Schema), Valid: true}
	for _, s := range cat.Specs() {
		result.Resources = append(result.Resources, summarize(s))
	}

	if flags.Format != FormatText {
		return OutputStructured(result, flags.Format)
	}
	if flags.Quiet {
		return nil
	}

	Writef(stdout, "Schema: %s\n", result.Schema)
	Writef(stdout, "Resources: %d (%d hypermedia)\n", len(cat.Specs()), len(cat.Hypermedia()))
	for _, s := range result.Resources {
		if s.Hypermedia {
			Writef(stdout, "  %-20s %s/%s/", s.Name, s.BaseURL, s.Collection)
			if len(s.Related) > 0 {
				Writef(stdout, "  related: %s", strings.Join(s.Related, ", "))
			}
			Writef(stdout, "\n")
			continue
		}
		Writef(stdout, "  %-20s (attributes: %s)\n", s.Name, strings.Join(s.Attributes, ", "))
	}
	Writef(stdout, "\n✓ Schema is valid\n")
	return nil
}

func summarize(s *schema.Spec) SpecSummary {
	out := SpecSummary{
		Name:       s.Name,
		Hypermedia: s.IsHypermedia(),
		Identifier: s.Identifier,
		Attributes: s.Attributes,
	}
	if len(s.SubResources) > 0 {
		out.SubResources = make(map[string]string, len(s.SubResources))
		for attr, sub := range s.SubResources {
			out.SubResources[attr] = sub.Name
		}
	}
	if s.IsHypermedia() {
		out.BaseURL = s.BaseURL()
		out.Collection = s.Collection()
		for _, rel := range s.Related() {
			out.Related = append(out.Related, rel.Name)
		}
	}
	return out
}
