package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

// URLFlags contains flags for the url command
type URLFlags struct {
	commonFlags
	Resource string
	Verb     string
}

// SetupURLFlags creates and configures a FlagSet for the url command.
func SetupURLFlags() (*flag.FlagSet, *URLFlags) {
	fs := flag.NewFlagSet("url", flag.ContinueOnError)
	flags := &URLFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Resource, "resource", "", "name of a hypermedia resource declared in the schema")
	fs.StringVar(&flags.Resource, "r", "", "name of a hypermedia resource declared in the schema")
	fs.StringVar(&flags.Verb, "verb", "GET", "HTTP verb: GET, POST, PUT, PATCH, or DELETE")
	fs.StringVar(&flags.Verb, "X", "GET", "HTTP verb: GET, POST, PUT, PATCH, or DELETE")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: restmap url [flags] [identifier]\n\n")
		Writef(fs.Output(), "Print the request URL for a resource. POST addresses the collection; other verbs address\n")
		Writef(fs.Output(), "one resource by identifier. GET without an identifier prints the collection URL.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  restmap url -schema resources.yaml -r designer slug-1\n")
		Writef(fs.Output(), "  restmap url -schema resources.yaml -r product -X POST\n")
	}

	return fs, flags
}

// URLResult is the structured output of the url command.
type URLResult struct {
	URL      string `json:"url"      yaml:"url"`
	Resource string `json:"resource" yaml:"resource"`
	Verb     string `json:"verb"     yaml:"verb"`
}

// HandleURL executes the url command
func HandleURL(args []string) error {
	fs, flags := SetupURLFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("url command accepts at most one identifier")
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
	spec, err := lookup(cat, flags.Resource)
	if err != nil {
		return err
	}
	reg, err := NewRegistry(cat, logger)
	if err != nil {
		return err
	}

	verb := strings.ToUpper(flags.Verb)
	url, err := reg.URLFor(spec, fs.Arg(0), verb)
	if err != nil {
		return err
	}

	if flags.Format != FormatText {
		return OutputStructured(URLResult{URL: url, Resource: spec.Name, Verb: verb}, flags.Format)
	}
	Writef(stdout, "%s\n", url)
	return nil
}
