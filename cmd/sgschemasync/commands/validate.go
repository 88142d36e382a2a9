package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/studiographene/SGSchemaSync/parser"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	NoResolveRefs bool
	Verbose       bool
}

// SetupValidateFlags creates and configures a FlagSet for the validate
// command.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.NoResolveRefs, "no-resolve-refs", false, "skip $ref resolution before reporting")
	fs.BoolVar(&flags.Verbose, "v", false, "enable debug logging")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: sgschemasync validate [flags] <file>\n\n")
		fmt.Fprintf(out, "Parse an OpenAPI specification and report whether it is generatable.\n\n")
		fmt.Fprintf(out, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  sgschemasync validate openapi.yaml\n")
		fmt.Fprintf(out, "  sgschemasync validate --no-resolve-refs openapi.json\n")
	}

	return fs, flags
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
		return fmt.Errorf("validate requires exactly one specification path")
	}

	p := parser.New()
	p.ResolveRefs = !flags.NoResolveRefs
	p.Logger = NewConsoleLogger(os.Stderr, flags.Verbose, false)

	result, err := p.Parse(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("Specification: %s\n", result.SourcePath)
	fmt.Printf("OpenAPI version: %s (%s, %d bytes)\n", result.Version, result.SourceFormat, result.SourceSize)
	fmt.Printf("Paths: %d\n", result.Stats.PathCount)
	fmt.Printf("Operations: %d\n", result.Stats.OperationCount)
	fmt.Printf("Tags: %d\n", result.Stats.TagCount)
	fmt.Printf("Component schemas: %d\n", result.Stats.SchemaCount)

	if len(result.Warnings) == 0 {
		fmt.Println("No warnings.")
		return nil
	}

	fmt.Printf("Warnings (%d):\n", len(result.Warnings))
	for _, warning := range result.Warnings {
		fmt.Printf("  ⚠ %s\n", warning)
	}
	return nil
}
