package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/studiographene/SGSchemaSync/config"
	"github.com/studiographene/SGSchemaSync/generator"
	"github.com/studiographene/SGSchemaSync/internal/severity"
	"github.com/studiographene/SGSchemaSync/parser"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	Config  string
	Input   string
	Output  string
	Watch   bool
	Strict  bool
	Verbose bool
	Quiet   bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate
// command. Returns the FlagSet and a GenerateFlags struct with bound flag
// variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}

	fs.StringVar(&flags.Config, "c", config.DefaultFileName, "configuration file path")
	fs.StringVar(&flags.Config, "config", config.DefaultFileName, "configuration file path")
	fs.StringVar(&flags.Input, "i", "", "OpenAPI specification path (overrides the configured input)")
	fs.StringVar(&flags.Input, "input", "", "OpenAPI specification path (overrides the configured input)")
	fs.StringVar(&flags.Output, "o", "", "output directory (overrides the configured output)")
	fs.StringVar(&flags.Output, "output", "", "output directory (overrides the configured output)")
	fs.BoolVar(&flags.Watch, "w", false, "watch the specification and configuration, regenerating on change")
	fs.BoolVar(&flags.Watch, "watch", false, "watch the specification and configuration, regenerating on change")
	fs.BoolVar(&flags.Strict, "strict", false, "fail on any generation issues (even warnings)")
	fs.BoolVar(&flags.Verbose, "v", false, "enable debug logging")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&flags.Quiet, "q", false, "suppress everything below errors")
	fs.BoolVar(&flags.Quiet, "quiet", false, "suppress everything below errors")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: sgschemasync generate [flags]\n\n")
		fmt.Fprintf(out, "Generate TypeScript API clients and react-query hooks from an OpenAPI specification.\n\n")
		fmt.Fprintf(out, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  sgschemasync generate\n")
		fmt.Fprintf(out, "  sgschemasync generate -c ./config/sg-schema-sync.yaml\n")
		fmt.Fprintf(out, "  sgschemasync generate -i openapi.yaml -o src/generated\n")
		fmt.Fprintf(out, "  sgschemasync generate --watch\n")
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
		return fmt.Errorf("generate takes no positional arguments")
	}

	logger := NewConsoleLogger(os.Stderr, flags.Verbose, flags.Quiet)

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	if flags.Watch {
		return watchAndGenerate(cfg, flags, logger)
	}
	return runGeneration(cfg, flags, logger)
}

// loadConfig loads the configuration file and applies CLI overrides.
func loadConfig(flags *GenerateFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return nil, err
	}
	if flags.Input != "" {
		cfg.Input = flags.Input
	}
	if flags.Output != "" {
		cfg.Output = flags.Output
	}
	return cfg, cfg.Validate()
}

// runGeneration performs one full generate-and-write pass.
func runGeneration(cfg *config.Config, flags *GenerateFlags, logger parser.Logger) error {
	g := generator.New(cfg, generator.WithLogger(logger))

	result, err := g.Generate()
	if err != nil {
		return err
	}

	reportIssues(result, logger)

	summary, err := generator.WriteBundles(cfg.Output, result.Bundles, logger)
	if err != nil {
		return err
	}

	logger.Info("generation finished",
		"groups", result.Groups,
		"operations", result.Operations,
		"written", summary.Written,
		"skipped", summary.Skipped,
		"duration", result.GenerateTime.String())

	if !result.Success {
		return fmt.Errorf("generation completed with %d error(s)",
			result.CountBySeverity(severity.SeverityError)+result.CountBySeverity(severity.SeverityCritical))
	}
	if flags.Strict && len(result.Issues) > 0 {
		return fmt.Errorf("strict mode: %d issue(s) reported", len(result.Issues))
	}
	return nil
}

// reportIssues logs every recorded issue at a level matching its severity.
func reportIssues(result *generator.Result, logger parser.Logger) {
	for _, issue := range result.Issues {
		switch issue.Severity {
		case severity.SeverityError, severity.SeverityCritical:
			logger.Error(issue.Message, "path", issue.Path, "operation", issue.Operation)
		case severity.SeverityWarning:
			logger.Warn(issue.Message, "path", issue.Path, "operation", issue.Operation)
		default:
			logger.Info(issue.Message, "path", issue.Path, "operation", issue.Operation)
		}
	}
}
