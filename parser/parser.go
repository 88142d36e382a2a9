package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/studiographene/SGSchemaSync/sgerrors"
)

// Parser handles OpenAPI specification parsing
type Parser struct {
	// ResolveRefs determines whether to resolve non-schema $ref references
	// (component parameters, request bodies, responses, and relative-file
	// refs) in place before decoding. Schema refs under
	// #/components/schemas are always left intact: the generator resolves
	// those itself so that shared schemas can be deduplicated.
	ResolveRefs bool

	// ValidateStructure determines whether to perform basic structure
	// validation (presence of openapi version and paths).
	ValidateStructure bool

	// MaxRefDepth is the maximum depth for resolving nested $ref pointers.
	// Default: 50
	MaxRefDepth int

	// Logger is the structured logger for debug output.
	// If nil, logging is disabled.
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		ResolveRefs:       true,
		ValidateStructure: true,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source specification file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
)

// DocumentStats contains statistical information about a parsed document
type DocumentStats struct {
	// PathCount is the number of path entries
	PathCount int
	// OperationCount is the number of operations across all paths
	OperationCount int
	// TagCount is the number of distinct first tags observed on operations
	TagCount int
	// SchemaCount is the number of component schemas
	SchemaCount int
}

// ParseResult contains the parsed specification and metadata.
//
// Callers should treat ParseResult as read-only after parsing: the
// generator assumes the document does not change between grouping and
// emission.
type ParseResult struct {
	// SourcePath is the input path the document was read from
	SourcePath string
	// SourceFormat is the detected source format (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the declared OpenAPI version string (e.g. "3.0.3")
	Version string
	// Document is the typed document
	Document *Document
	// Raw is the untyped document tree, after optional ref resolution
	Raw map[string]any
	// Warnings holds non-fatal problems (e.g. unresolvable refs left in place)
	Warnings []string
	// Stats contains statistical information about the document
	Stats DocumentStats
	// LoadTime is the time taken to read and decode the source
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// Parse reads and parses the OpenAPI specification at path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sgerrors.ParseError{Path: path, Message: "failed to read specification", Cause: err}
	}
	return p.ParseBytes(path, data)
}

// ParseBytes parses an in-memory OpenAPI specification. The path is used
// for error reporting and as the base directory for relative file refs.
func (p *Parser) ParseBytes(path string, data []byte) (*ParseResult, error) {
	start := time.Now()

	result := &ParseResult{
		SourcePath:   path,
		SourceFormat: sniffFormat(data),
		SourceSize:   int64(len(data)),
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &sgerrors.ParseError{Path: path, Message: "invalid YAML/JSON document", Cause: err}
	}

	version, _ := raw["openapi"].(string)
	if version == "" {
		if _, isOAS2 := raw["swagger"]; isOAS2 {
			return nil, &sgerrors.ParseError{Path: path, Message: "OpenAPI 2.0 (swagger) documents are not supported; convert to 3.x first"}
		}
		return nil, &sgerrors.ParseError{Path: path, Message: "missing openapi version field"}
	}
	if !strings.HasPrefix(version, "3.") {
		return nil, &sgerrors.ParseError{Path: path, Message: fmt.Sprintf("unsupported OpenAPI version %s (only 3.x is supported)", version)}
	}
	result.Version = version

	if p.ResolveRefs {
		resolver := newRefResolver(raw, filepath.Dir(path), p.maxDepth(), p.log())
		resolver.resolveDocument()
		result.Warnings = append(result.Warnings, resolver.warnings...)
	}
	result.Raw = raw

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, &sgerrors.ParseError{Path: path, Message: "failed to decode document", Cause: err}
	}
	result.Document = doc

	if p.ValidateStructure && len(doc.Paths) == 0 {
		result.Warnings = append(result.Warnings, "document declares no paths; nothing to generate")
	}

	result.Stats = buildStats(doc)
	result.LoadTime = time.Since(start)

	p.log().Debug("parsed specification",
		"path", path,
		"version", version,
		"paths", result.Stats.PathCount,
		"operations", result.Stats.OperationCount)

	return result, nil
}

func (p *Parser) maxDepth() int {
	if p.MaxRefDepth > 0 {
		return p.MaxRefDepth
	}
	return defaultMaxRefDepth
}

// decodeDocument converts the raw tree into the typed Document via a YAML
// round trip. The round trip keeps one decode path for both source formats.
func decodeDocument(raw map[string]any) (*Document, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// sniffFormat guesses the source format from the first non-space byte.
func sniffFormat(data []byte) SourceFormat {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return SourceFormatJSON
		default:
			return SourceFormatYAML
		}
	}
	return SourceFormatYAML
}

func buildStats(doc *Document) DocumentStats {
	stats := DocumentStats{PathCount: len(doc.Paths)}
	tags := make(map[string]struct{})
	for _, item := range doc.Paths {
		if item == nil {
			continue
		}
		for _, method := range HTTPMethods {
			op := item.OperationForMethod(method)
			if op == nil {
				continue
			}
			stats.OperationCount++
			if len(op.Tags) > 0 {
				tags[op.Tags[0]] = struct{}{}
			}
		}
	}
	stats.TagCount = len(tags)
	if doc.Components != nil {
		stats.SchemaCount = len(doc.Components.Schemas)
	}
	return stats
}
