// Package generator turns a parsed OpenAPI document into TypeScript source
// bundles: per-tag declaration, accessor, hook, orchestrator, and barrel
// files, plus run-level transport boilerplate.
//
// Generation is strictly sequential. Groups run in sorted-tag order and
// operations in path-then-method order, so name reservation is
// first-come-first-served and repeated runs over unchanged input produce
// byte-identical output. Schema problems degrade individual declarations
// and are recorded as issues; only configuration and parse failures abort.
package generator

import (
	"fmt"
	"path"
	"time"

	"github.com/studiographene/SGSchemaSync/config"
	"github.com/studiographene/SGSchemaSync/internal/issues"
	"github.com/studiographene/SGSchemaSync/internal/severity"
	"github.com/studiographene/SGSchemaSync/parser"
	"github.com/studiographene/SGSchemaSync/sgerrors"
)

// Bundle kinds, in the order bundles appear in a Result.
const (
	BundleTypes     = "types"
	BundleAPI       = "api"
	BundleHooks     = "hooks"
	BundleClient    = "client"
	BundleIndex     = "index"
	BundleRequester = "requester"
	BundleScaffold  = "scaffold"
	BundleReadme    = "readme"
)

// Bundle is one generated file, addressed relative to the output root.
type Bundle struct {
	// Kind is one of the Bundle* constants.
	Kind string
	// Group is the sanitized tag, or "" for run-level bundles.
	Group string
	// Path is the file path relative to the output root.
	Path string
	// Content is the full file content.
	Content string
	// WriteOnce marks scaffolds that must never overwrite an existing
	// file.
	WriteOnce bool
}

// Result summarizes one generation run.
type Result struct {
	// Bundles holds every generated file in emission order.
	Bundles []Bundle
	// Issues holds all problems recorded during parsing and generation.
	Issues []issues.Issue

	Groups             int
	Operations         int
	DegradedOperations int

	ParseTime    time.Duration
	GenerateTime time.Duration

	// Success is false when any issue of Error or Critical severity was
	// recorded.
	Success bool
}

// CountBySeverity returns the number of issues with the given severity.
func (r *Result) CountBySeverity(sev severity.Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			count++
		}
	}
	return count
}

// Generator produces TypeScript bundles from an OpenAPI document.
type Generator struct {
	// Config is the fully-resolved project configuration.
	Config *config.Config
	// Logger receives progress and diagnostics. Defaults to NopLogger.
	Logger parser.Logger
	// Parser parses the input document. Defaults to parser.New().
	Parser *parser.Parser
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the generator's logger and propagates it to the default
// parser.
func WithLogger(logger parser.Logger) Option {
	return func(g *Generator) { g.Logger = logger }
}

// WithParser replaces the default parser.
func WithParser(p *parser.Parser) Option {
	return func(g *Generator) { g.Parser = p }
}

// New creates a Generator for the given configuration. The configuration
// must already be defaulted and validated; an invalid one surfaces as a
// ConfigError from Generate.
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{Config: cfg}
	for _, opt := range opts {
		opt(g)
	}
	if g.Logger == nil {
		g.Logger = parser.NopLogger{}
	}
	if g.Parser == nil {
		g.Parser = parser.New()
		g.Parser.Logger = g.Logger
	}
	return g
}

// Generate parses the configured input and generates all bundles. The
// returned error is fatal (configuration or parse failure); schema-level
// problems land in Result.Issues instead.
func (g *Generator) Generate() (*Result, error) {
	if g.Config == nil {
		return nil, &sgerrors.ConfigError{Message: "generator has no configuration"}
	}
	if err := g.Config.Validate(); err != nil {
		return nil, err
	}

	parsed, err := g.Parser.Parse(g.Config.Input)
	if err != nil {
		return nil, err
	}
	return g.GenerateParsed(parsed)
}

// GenerateParsed generates all bundles from an already-parsed document.
func (g *Generator) GenerateParsed(parsed *parser.ParseResult) (*Result, error) {
	start := time.Now()

	result := &Result{ParseTime: parsed.LoadTime}
	for _, warning := range parsed.Warnings {
		result.Issues = append(result.Issues, issues.Issue{
			Path:     parsed.SourcePath,
			Message:  warning,
			Severity: severity.SeverityWarning,
		})
	}

	doc := parsed.Document
	if doc == nil {
		return nil, &sgerrors.GenerateError{Message: "parsed document is empty"}
	}

	addIssue := func(issuePath, operation, message string, sev severity.Severity) {
		result.Issues = append(result.Issues, issues.Issue{
			Path:      issuePath,
			Operation: operation,
			Message:   message,
			Severity:  sev,
		})
	}

	corpus := componentCorpus(doc)
	reg := NewNameRegistry(g.Config.TypePrefix, g.Config.SchemaTypePrefix)
	groups := buildGroups(doc, addIssue, g.Logger)
	schemaOwners := make(map[string]string)

	for _, group := range groups {
		art := assembleGroup(reg, group, g.Config, corpus, schemaOwners, addIssue, g.Logger)

		result.Groups++
		result.Operations += len(group.Operations)
		result.DegradedOperations += art.Degraded

		dir := group.SanitizedTag
		result.Bundles = append(result.Bundles,
			Bundle{Kind: BundleTypes, Group: dir, Path: path.Join(dir, g.Config.Files.Types), Content: art.Types},
			Bundle{Kind: BundleAPI, Group: dir, Path: path.Join(dir, g.Config.Files.API), Content: art.API},
		)
		if art.HasHooks {
			result.Bundles = append(result.Bundles,
				Bundle{Kind: BundleHooks, Group: dir, Path: path.Join(dir, g.Config.Files.Hooks), Content: art.Hooks})
		}
		result.Bundles = append(result.Bundles,
			Bundle{Kind: BundleClient, Group: dir, Path: path.Join(dir, g.Config.Files.Client), Content: art.Client},
			Bundle{Kind: BundleIndex, Group: dir, Path: path.Join(dir, g.Config.Files.Index), Content: art.Index},
		)
	}

	result.Bundles = append(result.Bundles, Bundle{
		Kind:    BundleRequester,
		Path:    "requester.ts",
		Content: renderRequesterModule(g.Config),
	})
	if g.Config.Requester.Mode == config.RequesterModeCustom {
		result.Bundles = append(result.Bundles, Bundle{
			Kind:      BundleScaffold,
			Path:      "custom-requester.ts",
			Content:   renderCustomRequesterScaffold(),
			WriteOnce: true,
		})
	}
	result.Bundles = append(result.Bundles, Bundle{
		Kind:    BundleReadme,
		Path:    "README.md",
		Content: renderReadme(g.Config, groups),
	})

	result.GenerateTime = time.Since(start)
	result.Success = true
	for _, issue := range result.Issues {
		if issue.Severity == severity.SeverityError || issue.Severity == severity.SeverityCritical {
			result.Success = false
			break
		}
	}

	g.Logger.Info("generation complete",
		"groups", result.Groups,
		"operations", result.Operations,
		"bundles", len(result.Bundles),
		"issues", len(result.Issues),
		"duration", fmt.Sprintf("%v", result.GenerateTime))

	return result, nil
}

// componentCorpus extracts the component schema map the declaration
// compiler resolves refs against. Missing components are tolerated here;
// each dangling ref degrades its own declaration during compilation.
func componentCorpus(doc *parser.Document) map[string]*parser.Schema {
	if doc.Components == nil || doc.Components.Schemas == nil {
		return map[string]*parser.Schema{}
	}
	return doc.Components.Schemas
}
