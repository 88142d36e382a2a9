// This file implements the per-operation type resolver: it drives the
// declaration compiler for an operation's request body, success responses,
// and synthesized query-parameter object, and aggregates the resulting
// names and failure flags into an OperationTypeSet.

package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studiographene/SGSchemaSync/internal/severity"
	"github.com/studiographene/SGSchemaSync/parser"
)

// PathParam is one path parameter in declaration order.
type PathParam struct {
	Name     string
	Required bool
}

// QueryParam is one query parameter in declaration order.
type QueryParam struct {
	Name     string
	Required bool
	Schema   *parser.Schema
}

// OperationDescriptor is the immutable, parsed view of one operation that
// the generation pipeline consumes. It is created once per run during
// grouping and never mutated afterwards.
type OperationDescriptor struct {
	// Path is the original path template, including {param} placeholders.
	Path string
	// Method is the upper-case HTTP method.
	Method string
	// Stem is the TypeBaseName all declaration and factory names hang off.
	Stem string
	// Tag is the operation's first declared tag.
	Tag string

	Summary     string
	Description string
	Deprecated  bool

	PathParams  []PathParam
	QueryParams []QueryParam

	// HasRequestBody is true when the operation declares a request body,
	// even if its schema later fails to compile: the accessor signature
	// shape depends on the declaration, not on compile success.
	HasRequestBody    bool
	RequestBodySchema *parser.Schema

	// Responses maps status code to response, as declared.
	Responses map[string]*parser.Response

	// AuthRequired reflects the operation's effective security requirement.
	AuthRequired bool
}

// OperationID returns "METHOD /path", used in issues and warnings.
func (op *OperationDescriptor) OperationID() string {
	return op.Method + " " + op.Path
}

// primarySuccessCode returns the status code treated as the operation's
// canonical return shape: 201 for POST, 200 otherwise. This is a fixed
// heuristic, not spec-driven; operations whose success code differs rely on
// the no-content and missing-primary fallbacks.
func (op *OperationDescriptor) primarySuccessCode() string {
	if op.Method == "POST" {
		return "201"
	}
	return "200"
}

// ExtraResponse names a compiled non-primary success response.
type ExtraResponse struct {
	Code   string
	Name   string
	Failed bool
}

// OperationTypeSet aggregates the declaration names and failure flags
// resolved for one operation. It is created once by resolveOperationTypes
// and never mutated afterwards; both factory generators consume it.
type OperationTypeSet struct {
	// RequestName is the request body declaration name ("" when the
	// operation has no request body).
	RequestName   string
	RequestFailed bool

	// ParamsName is the synthesized query-parameters declaration name
	// ("" when the operation has no query parameters).
	ParamsName   string
	ParamsFailed bool

	// ResponseName is the primary success declaration name. It is empty
	// when the primary response is missing or carries no content.
	ResponseName string
	// ResponseNoContent is true when the primary response is declared but
	// has no body: the response generic defaults to the void marker.
	ResponseNoContent bool
	// ResponseMissing is true when no primary success response is declared
	// at all: the response generic defaults to never.
	ResponseMissing bool
	// ResponseFailed is true when the primary response is declared with an
	// unusable or uncompilable schema: the response generic degrades to any.
	ResponseFailed bool

	// ExtraResponses lists non-primary success declarations. Their
	// failures never degrade the operation.
	ExtraResponses []ExtraResponse

	// TypesSource is the concatenated declaration text this operation
	// contributed to the shared pool.
	TypesSource string

	// SchemaRefs lists the schema-scoped auxiliary names TypesSource
	// references, sorted and deduplicated. Names owned by an earlier tag
	// group must be imported, not re-declared.
	SchemaRefs []string
}

// Degraded reports whether any generic default fell back because of a
// compilation failure.
func (ts *OperationTypeSet) Degraded() bool {
	return ts.RequestFailed || ts.ParamsFailed || ts.ResponseFailed
}

// addIssueFunc records one generation issue.
type addIssueFunc func(path, operation, message string, sev severity.Severity)

// resolveOperationTypes compiles the operation's schemas and aggregates the
// outcome. Failures never abort: each failed fragment degrades to a warning
// comment plus a safe fallback alias in the textual output, and the
// corresponding flag steers the factory generators' generic defaults.
func resolveOperationTypes(reg *NameRegistry, op *OperationDescriptor, corpus map[string]*parser.Schema, addIssue addIssueFunc, log parser.Logger) *OperationTypeSet {
	ts := &OperationTypeSet{}
	var source strings.Builder

	issuePath := fmt.Sprintf("paths.%s.%s", op.Path, strings.ToLower(op.Method))

	if op.HasRequestBody {
		name := reg.OperationScoped(op.Stem + "_Request")
		res := compileDeclaration(reg, name, op.RequestBodySchema, corpus)
		source.WriteString(res.Source)
		ts.SchemaRefs = append(ts.SchemaRefs, res.SchemaRefs...)
		ts.RequestName = name
		if !res.OK {
			ts.RequestFailed = true
			source.WriteString(fallbackDeclaration(name, res.Reason))
			addIssue(issuePath+".requestBody", op.OperationID(),
				"request body failed to compile: "+res.Reason, severity.SeverityWarning)
		}
	}

	resolveResponses(reg, op, corpus, ts, &source, addIssue, issuePath)

	if len(op.QueryParams) > 0 {
		name := reg.OperationScoped(op.Stem + "_Parameters")
		res := compileDeclaration(reg, name, synthesizeParamsSchema(op.QueryParams), corpus)
		source.WriteString(res.Source)
		ts.SchemaRefs = append(ts.SchemaRefs, res.SchemaRefs...)
		ts.ParamsName = name
		if !res.OK {
			ts.ParamsFailed = true
			source.WriteString(fallbackDeclaration(name, res.Reason))
			addIssue(issuePath+".parameters", op.OperationID(),
				"query parameters failed to compile: "+res.Reason, severity.SeverityWarning)
		}
	}

	ts.TypesSource = source.String()
	ts.SchemaRefs = dedupeSorted(ts.SchemaRefs)

	log.Debug("resolved operation types",
		"operation", op.OperationID(),
		"response", ts.ResponseName,
		"degraded", ts.Degraded())

	return ts
}

// resolveResponses compiles every declared 2xx response. The primary code
// (201 for POST, 200 otherwise) becomes <stem>_Response; every other
// success code becomes <stem>_Response_<code>.
func resolveResponses(reg *NameRegistry, op *OperationDescriptor, corpus map[string]*parser.Schema, ts *OperationTypeSet, source *strings.Builder, addIssue addIssueFunc, issuePath string) {
	primary := op.primarySuccessCode()

	codes := make([]string, 0, len(op.Responses))
	for code := range op.Responses {
		if isSuccessCode(code) {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	primaryDeclared := false
	for _, code := range codes {
		resp := op.Responses[code]
		if resp == nil {
			continue
		}

		if code == primary {
			primaryDeclared = true
			resolvePrimaryResponse(reg, op, corpus, resp, ts, source, addIssue, issuePath, code)
			continue
		}

		name := reg.OperationScoped(op.Stem + "_Response_" + code)
		extra := ExtraResponse{Code: code, Name: name}
		schema := resp.JSONSchema()
		if !resp.HasContent() {
			// Secondary responses without content contribute nothing.
			continue
		}
		res := compileDeclaration(reg, name, schema, corpus)
		source.WriteString(res.Source)
		ts.SchemaRefs = append(ts.SchemaRefs, res.SchemaRefs...)
		if !res.OK {
			// Non-primary failures degrade locally, never the operation.
			extra.Failed = true
			source.WriteString(fallbackDeclaration(name, res.Reason))
			addIssue(issuePath+".responses."+code, op.OperationID(),
				"response failed to compile: "+res.Reason, severity.SeverityWarning)
		}
		ts.ExtraResponses = append(ts.ExtraResponses, extra)
	}

	if !primaryDeclared {
		ts.ResponseMissing = true
	}
}

func resolvePrimaryResponse(reg *NameRegistry, op *OperationDescriptor, corpus map[string]*parser.Schema, resp *parser.Response, ts *OperationTypeSet, source *strings.Builder, addIssue addIssueFunc, issuePath, code string) {
	if !resp.HasContent() {
		ts.ResponseNoContent = true
		return
	}

	name := reg.OperationScoped(op.Stem + "_Response")
	ts.ResponseName = name

	schema := resp.JSONSchema()
	if schema == nil {
		// Declared with content but nothing this generator can use. This is
		// a recorded failure, not a silent skip: the generic default must
		// know to fall back.
		ts.ResponseFailed = true
		source.WriteString(fallbackDeclaration(name, "primary response declares no "+parser.ContentTypeJSON+" schema"))
		addIssue(issuePath+".responses."+code, op.OperationID(),
			"primary response declares no usable schema", severity.SeverityWarning)
		return
	}

	res := compileDeclaration(reg, name, schema, corpus)
	source.WriteString(res.Source)
	ts.SchemaRefs = append(ts.SchemaRefs, res.SchemaRefs...)
	if !res.OK {
		ts.ResponseFailed = true
		source.WriteString(fallbackDeclaration(name, res.Reason))
		addIssue(issuePath+".responses."+code, op.OperationID(),
			"primary response failed to compile: "+res.Reason, severity.SeverityWarning)
	}
}

// synthesizeParamsSchema builds one object schema from the operation's
// query parameters. Untyped parameters default to string.
func synthesizeParamsSchema(params []QueryParam) *parser.Schema {
	properties := make(map[string]*parser.Schema, len(params))
	var required []string
	for _, p := range params {
		schema := p.Schema
		if schema == nil {
			schema = &parser.Schema{Type: "string"}
		}
		properties[p.Name] = schema
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return &parser.Schema{Type: "object", Properties: properties, Required: required}
}

// isSuccessCode reports whether code is in the 2xx range.
func isSuccessCode(code string) bool {
	return len(code) == 3 && code[0] == '2'
}

// dedupeSorted sorts names and drops duplicates.
func dedupeSorted(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	out := names[:1]
	for _, name := range names[1:] {
		if name != out[len(out)-1] {
			out = append(out, name)
		}
	}
	return out
}
