package commands

import (
	"errors"
	"flag"
	"fmt"
)

// MatchFlags contains flags for the match command
type MatchFlags struct {
	commonFlags
}

// SetupMatchFlags creates and configures a FlagSet for the match command.
func SetupMatchFlags() (*flag.FlagSet, *MatchFlags) {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	flags := &MatchFlags{}

	flags.register(fs)

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: restmap match [flags] <url>\n\n")
		Writef(fs.Output(), "Reverse-match a URL against the schema's hypermedia resources.\n")
		Writef(fs.Output(), "The longest matching base URL wins and the collection segment must match exactly.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  restmap match -schema resources.yaml https://api.example.com/v1/designers/slug-1/\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    The URL matched a resource\n")
		Writef(fs.Output(), "  1    No resource matched, or the match was ambiguous\n")
	}

	return fs, flags
}

// MatchResult is the structured output of the match command.
type MatchResult struct {
	URL        string `json:"url"                  yaml:"url"`
	Matched    bool   `json:"matched"              yaml:"matched"`
	Resource   string `json:"resource,omitempty"   yaml:"resource,omitempty"`
	BaseURL    string `json:"base_url,omitempty"   yaml:"base_url,omitempty"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Collection bool   `json:"collection,omitempty" yaml:"collection,omitempty"`
}

// HandleMatch executes the match command
func HandleMatch(args []string) error {
	fs, flags := SetupMatchFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("match command requires exactly one URL")
	}
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
	reg, err := NewRegistry(cat, logger)
	if err != nil {
		return err
	}

	candidate := fs.Arg(0)
	m, ok, err := reg.Match(candidate)
	if err != nil {
		return err
	}
	result := MatchResult{URL: candidate, Matched: ok}
	if ok {
		result.Resource = m.Spec.Name
		result.BaseURL = m.BaseURL
		result.Identifier = m.Identifier
		result.Collection = m.IsCollection()
	}

	if flags.Format != FormatText {
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
	} else if ok {
		if result.Collection {
			Writef(stdout, "%s (collection)\n", result.Resource)
		} else {
			Writef(stdout, "%s %s\n", result.Resource, result.Identifier)
		}
	}
	if !ok {
		return fmt.Errorf("no resource matches %s", candidate)
	}
	return nil
}
