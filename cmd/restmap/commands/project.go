package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/restmap/resource"
)

// ProjectFlags contains flags for the project command
type ProjectFlags struct {
	commonFlags
	Resource string
	Data     string
}

// SetupProjectFlags creates and configures a FlagSet for the project command.
func SetupProjectFlags() (*flag.FlagSet, *ProjectFlags) {
	fs := flag.NewFlagSet("project", flag.ContinueOnError)
	flags := &ProjectFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Resource, "resource", "", "name of the resource declared in the schema")
	fs.StringVar(&flags.Resource, "r", "", "name of the resource declared in the schema")
	fs.StringVar(&flags.Data, "data", StdinFilePath, "JSON data file, or '-' for stdin")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: restmap project [flags]\n\n")
		Writef(fs.Output(), "Build typed instances from JSON data: undeclared attributes are dropped and declared\n")
		Writef(fs.Output(), "sub-resources are converted recursively. Data may be one record, an array of records,\n")
		Writef(fs.Output(), "or a paginated object holding the array under the resource's pagination_key.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  restmap project -schema resources.yaml -r person -data person.json\n")
		Writef(fs.Output(), "  curl -s https://api.example.com/people/ | restmap project -schema resources.yaml -r person --format json\n")
		Writef(fs.Output(), "  restmap project -schema resources.yaml -r person -data person.json --format dump\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Every record was built\n")
		Writef(fs.Output(), "  1    At least one record had a shape mismatch (partial instances are still printed)\n")
	}

	return fs, flags
}

// HandleProject executes the project command
func HandleProject(args []string) error {
	fs, flags := SetupProjectFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("project command takes no positional arguments")
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

	insts, buildErr := resource.FromBody(spec, body, resource.WithRegistry(reg), resource.WithLogger(logger))
	if insts == nil && buildErr != nil {
		return buildErr
	}

	if err := outputInstances(insts, flags.Format); err != nil {
		return err
	}
	if buildErr != nil {
		return fmt.Errorf("building %s: %w", spec.Name, buildErr)
	}
	return nil
}

func outputInstances(insts []*resource.Instance, format string) error {
	switch format {
	case FormatText:
		for _, inst := range insts {
			writeInstance(inst, "")
		}
		return nil
	default:
		maps := make([]map[string]any, 0, len(insts))
		for _, inst := range insts {
			maps = append(maps, inst.ToMap())
		}
		return OutputStructured(maps, format)
	}
}

// writeInstance prints inst as an indented attribute tree.
func writeInstance(inst *resource.Instance, indent string) {
	Writef(stdout, "%s%s\n", indent, inst)
	for _, name := range inst.Names() {
		v, _ := inst.Get(name)
		switch v.Kind() {
		case resource.KindInstance:
			child, _ := v.AsInstance()
			Writef(stdout, "%s  %s:\n", indent, name)
			writeInstance(child, indent+"    ")
		case resource.KindInstances:
			children, _ := v.AsInstances()
			Writef(stdout, "%s  %s: [%d]\n", indent, name, len(children))
			for _, child := range children {
				writeInstance(child, indent+"    ")
			}
		default:
			Writef(stdout, "%s  %s: %s\n", indent, name, v)
		}
	}
}
