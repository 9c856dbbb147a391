package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/restmap/generator"
	"github.com/erraggy/restmap/schema"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	Schema    string
	Package   string
	Output    string
	Resources string
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}

	fs.StringVar(&flags.Schema, "schema", "", "resource schema document (YAML or JSON), or '-' for stdin")
	fs.StringVar(&flags.Package, "package", "resources", "Go package name for the generated file")
	fs.StringVar(&flags.Package, "p", "resources", "Go package name for the generated file")
	fs.StringVar(&flags.Output, "output", "", "output file (default: stdout)")
	fs.StringVar(&flags.Output, "o", "", "output file (default: stdout)")
	fs.StringVar(&flags.Resources, "resources", "", "comma-separated resource names (default: every hypermedia resource)")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: restmap generate [flags]\n\n")
		Writef(fs.Output(), "Generate typed Go wrappers with attribute getters and relation accessors.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  restmap generate -schema resources.yaml -p shop -o shop/resources_gen.go\n")
		Writef(fs.Output(), "  restmap generate -schema resources.yaml -resources product,designer\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("generate command takes no positional arguments")
	}
	if flags.Schema == "" {
		return fmt.Errorf("-schema is required")
	}

	cat, err := LoadCatalog(flags.Schema)
	if err != nil {
		return err
	}
	specs, err := selectSpecs(cat, flags.Resources)
	if err != nil {
		return err
	}

	src, err := generator.Generate(specs, flags.Package)
	if err != nil {
		return err
	}

	if flags.Output == "" {
		Writef(stdout, "%s", src)
		return nil
	}
	out := filepath.Clean(flags.Output)
	if err := RejectSymlinkOutput(out); err != nil {
		return err
	}
	if err := generator.WriteFile(out, src); err != nil {
		return err
	}
	Writef(stderr, "Generated %d resource(s) into %s\n", len(specs), out)
	return nil
}

// selectSpecs resolves a comma-separated list of names, defaulting to every
// hypermedia spec, or every spec when the document declares no hypermedia resources.
func selectSpecs(cat *schema.Catalog, names string) ([]*schema.Spec, error) {
	if strings.TrimSpace(names) == "" {
		if hm := cat.Hypermedia(); len(hm) > 0 {
			return hm, nil
		}
		return cat.Specs(), nil
	}
	var specs []*schema.Spec
	for name := range strings.SplitSeq(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s, err := lookup(cat, name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}
