package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/erraggy/restmap/relation"
	"github.com/erraggy/restmap/resource"
	"github.com/erraggy/restmap/schema"
	"github.com/erraggy/restmap/transport"
)

// RelatedFlags contains flags for the related command
type RelatedFlags struct {
	commonFlags
	Resource    string
	Relation    string
	Data        string
	Fetch       bool
	Timeout     time.Duration
	Parallelism int
}

// SetupRelatedFlags creates and configures a FlagSet for the related command.
func SetupRelatedFlags() (*flag.FlagSet, *RelatedFlags) {
	fs := flag.NewFlagSet("related", flag.ContinueOnError)
	flags := &RelatedFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Resource, "resource", "", "name of the hypermedia resource the record belongs to")
	fs.StringVar(&flags.Resource, "r", "", "name of the hypermedia resource the record belongs to")
	fs.StringVar(&flags.Relation, "relation", "", "related resource to query (default: every declared relation)")
	fs.StringVar(&flags.Data, "data", StdinFilePath, "JSON record file, or '-' for stdin")
	fs.BoolVar(&flags.Fetch, "fetch", false, "GET every referenced resource")
	fs.DurationVar(&flags.Timeout, "timeout", transport.DefaultTimeout, "HTTP timeout for -fetch")
	fs.IntVar(&flags.Parallelism, "parallelism", relation.DefaultParallelism, "concurrent fetches for -fetch")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: restmap related [flags]\n\n")
		Writef(fs.Output(), "List the related resources a record references by URL or embeds.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  restmap related -schema resources.yaml -r product -data product.json\n")
		Writef(fs.Output(), "  restmap related -schema resources.yaml -r product -relation designer -fetch -data product.json\n")
	}

	return fs, flags
}

// RelationSummary describes one discovered relation.
type RelationSummary struct {
	Accessor   string         `json:"accessor"             yaml:"accessor"`
	Attribute  string         `json:"attribute"            yaml:"attribute"`
	Resource   string         `json:"resource"             yaml:"resource"`
	URL        string         `json:"url,omitempty"        yaml:"url,omitempty"`
	Identifier string         `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Embedded   bool           `json:"embedded"             yaml:"embedded"`
	Instance   map[string]any `json:"instance,omitempty"   yaml:"instance,omitempty"`
}

// HandleRelated executes the related command
func HandleRelated(args []string) error {
	fs, flags := SetupRelatedFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("related command takes no positional arguments")
	}
	if err := flags.validate(); err != nil {
		return err
	}
	if flags.Schema == StdinFilePath && flags.Data == StdinFilePath {
		return fmt.Errorf("-schema and -data cannot both read from stdin")
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
	body, err := readData(flags.Data)
	if err != nil {
		return err
	}
	record, ok := body.(map[string]any)
	if !ok {
		return fmt.Errorf("data must be a JSON object, got %T", body)
	}

	inst, err := resource.New(spec, record, resource.WithRegistry(reg), resource.WithLogger(logger))
	if err != nil {
		logger.Warn("record built with errors", "resource", spec.Name, "error", err)
	}
	res, err := relation.NewResolver(inst,
		relation.WithRegistry(reg),
		relation.WithLogger(logger),
		relation.WithParallelism(flags.Parallelism),
	)
	if err != nil {
		return err
	}

	targets := spec.Related()
	if flags.Relation != "" {
		target, err := lookup(cat, flags.Relation)
		if err != nil {
			return err
		}
		targets = []*schema.Spec{target}
	}

	var client *transport.Client
	if flags.Fetch {
		client, err = transport.New(
			transport.WithRegistry(reg),
			transport.WithTimeout(flags.Timeout),
			transport.WithLogger(logger),
		)
		if err != nil {
			return err
		}
	}

	var out []RelationSummary
	for _, target := range targets {
		rels, err := res.Related(target)
		if err != nil {
			return err
		}
		var fetched []*resource.Instance
		if client != nil {
			fetched, err = res.ResolveAll(context.Background(), client, target)
			if err != nil {
				return err
			}
		}
		for i, rel := range rels {
			s := RelationSummary{
				Accessor:   relation.AccessorName(rel.Spec),
				Attribute:  rel.Attribute,
				Resource:   rel.Spec.Name,
				URL:        rel.URL,
				Identifier: rel.Identifier,
				Embedded:   rel.IsEmbedded(),
			}
			switch {
			case rel.IsEmbedded():
				s.Instance = rel.Instance.ToMap()
			case i < len(fetched) && fetched[i] != nil:
				s.Instance = fetched[i].ToMap()
			}
			out = append(out, s)
		}
	}

	if flags.Format != FormatText {
		if out == nil {
			out = []RelationSummary{}
		}
		return OutputStructured(out, flags.Format)
	}
	Writef(stdout, "%s accessors: %v\n", inst, res.Accessors())
	for _, s := range out {
		kind := "ref"
		if s.Embedded {
			kind = "embedded"
		}
		Writef(stdout, "  %-16s %-10s %-8s %s", s.Accessor, s.Attribute, kind, s.Resource)
		if s.Identifier != "" {
			Writef(stdout, "(%s)", s.Identifier)
		}
		if s.URL != "" {
			Writef(stdout, " %s", s.URL)
		}
		Writef(stdout, "\n")
		if s.Instance != nil && !s.Embedded {
			Writef(stdout, "    fetched: %d attributes\n", len(s.Instance))
		}
	}
	return nil
}
