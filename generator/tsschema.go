// This file implements the declaration compiler: it converts one
// JSON-Schema-shaped fragment into a named TypeScript declaration, pulling
// in (and deduplicating) any auxiliary declarations reachable through
// component schema refs.

package generator

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/studiographene/SGSchemaSync/parser"
)

// maxSchemaDepth caps schema nesting during compilation. Fragments nested
// deeper than this fail compilation instead of exhausting the stack.
const maxSchemaDepth = 50

// fallbackDeclType is the safe alias substituted when a fragment fails to
// compile. Downstream generic defaults degrade to "any" separately; the
// alias keeps the declaration name referencable either way.
const fallbackDeclType = "unknown"

const componentSchemaPrefix = "#/components/schemas/"

var tsIdentPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// declResult is the outcome of compiling one fragment.
type declResult struct {
	// Name is the reserved declaration name.
	Name string
	// Source is the rendered declaration text, including any auxiliary
	// declarations emitted ahead of it. Empty when Reused.
	Source string
	// OK is false when compilation failed and the caller must substitute
	// the warning-comment fallback.
	OK bool
	// Reason describes the failure when OK is false.
	Reason string
	// Reused is true when the name was already reserved: the earlier
	// declaration is shared and nothing new was emitted.
	Reused bool
	// SchemaRefs lists the schema-scoped auxiliary names the rendered
	// source references, sorted. The group assembler uses them to import
	// declarations owned by an earlier tag group.
	SchemaRefs []string
}

// compileDeclaration compiles schema into a declaration called name.
//
// The registry makes the call idempotent per name: a second compile for an
// already-reserved name is skipped and reported as reused. On failure the
// name stays reserved so the caller's fallback alias owns it.
func compileDeclaration(reg *NameRegistry, name string, schema *parser.Schema, corpus map[string]*parser.Schema) declResult {
	if !reg.Reserve(name) {
		return declResult{Name: name, OK: true, Reused: true}
	}

	if schema == nil {
		return declResult{Name: name, Reason: "no schema provided"}
	}

	c := &declCompiler{reg: reg, corpus: corpus, rendering: make(map[string]bool), refs: make(map[string]struct{})}
	body, err := c.renderNamedDecl(name, schema, 0)
	if err != nil {
		// Auxiliary declarations that rendered before the failure are kept:
		// their names are already reserved, so discarding them would leave
		// sibling operations with dangling references.
		return declResult{Name: name, Source: reg.RewriteRefs(c.aux.String()), Reason: err.Error(), SchemaRefs: c.sortedRefs()}
	}

	src := c.aux.String() + body
	// Fix up references that were rendered before their prefix mapping was
	// recorded. Whole-word textual substitution is the only option here:
	// the compiler sees one fragment at a time.
	src = reg.RewriteRefs(src)

	return declResult{Name: name, Source: src, OK: true, SchemaRefs: c.sortedRefs()}
}

// fallbackDeclaration renders the warning comment plus safe alias that
// stands in for a failed compilation.
func fallbackDeclaration(name, reason string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// WARN: failed to compile %s: %s\n", name, reason)
	fmt.Fprintf(&b, "export type %s = %s;\n\n", name, fallbackDeclType)
	return b.String()
}

// declCompiler carries the state of a single compileDeclaration call.
type declCompiler struct {
	reg    *NameRegistry
	corpus map[string]*parser.Schema
	aux    strings.Builder
	// rendering guards recursive component schemas within this call; the
	// registry guards across calls.
	rendering map[string]bool
	// refs collects every schema-scoped name this call referenced.
	refs map[string]struct{}
}

func (c *declCompiler) sortedRefs() []string {
	if len(c.refs) == 0 {
		return nil
	}
	refs := make([]string, 0, len(c.refs))
	for name := range c.refs {
		refs = append(refs, name)
	}
	sort.Strings(refs)
	return refs
}

// renderNamedDecl renders one named declaration: an interface for object
// schemas with properties, a union alias for enums, a plain alias otherwise.
func (c *declCompiler) renderNamedDecl(name string, s *parser.Schema, depth int) (string, error) {
	var b strings.Builder
	if s.Description != "" {
		fmt.Fprintf(&b, "/** %s */\n", cleanDescription(s.Description))
	}

	if len(s.Properties) > 0 && len(s.Enum) == 0 && s.Ref == "" {
		body, err := c.objectBody(s, depth)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "export interface %s %s\n\n", name, body)
		return b.String(), nil
	}

	expr, err := c.typeExpr(s, depth)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "export type %s = %s;\n\n", name, expr)
	return b.String(), nil
}

// typeExpr renders the TypeScript type expression for a schema fragment.
func (c *declCompiler) typeExpr(s *parser.Schema, depth int) (string, error) {
	if depth > maxSchemaDepth {
		return "", fmt.Errorf("schema nesting exceeds %d levels", maxSchemaDepth)
	}
	if s == nil {
		return "unknown", nil
	}

	if s.Ref != "" {
		return c.refExpr(s.Ref, depth)
	}

	expr, err := c.baseExpr(s, depth)
	if err != nil {
		return "", err
	}
	if s.IsNullable() {
		expr += " | null"
	}
	return expr, nil
}

func (c *declCompiler) baseExpr(s *parser.Schema, depth int) (string, error) {
	if len(s.Enum) > 0 {
		return enumExpr(s.Enum), nil
	}
	if len(s.OneOf) > 0 {
		return c.unionExpr(s.OneOf, " | ", depth)
	}
	if len(s.AnyOf) > 0 {
		return c.unionExpr(s.AnyOf, " | ", depth)
	}
	if len(s.AllOf) > 0 {
		return c.unionExpr(s.AllOf, " & ", depth)
	}

	switch s.PrimaryType() {
	case "string":
		return "string", nil
	case "integer", "number":
		return "number", nil
	case "boolean":
		return "boolean", nil
	case "array":
		return c.arrayExpr(s, depth)
	case "object":
		return c.objectExpr(s, depth)
	case "null":
		return "null", nil
	case "":
		// Untyped schemas are inferred from structure.
		if len(s.Properties) > 0 {
			return c.objectExpr(s, depth)
		}
		if s.Items != nil {
			return c.arrayExpr(s, depth)
		}
		return "unknown", nil
	default:
		return "", fmt.Errorf("unsupported schema type %q", s.PrimaryType())
	}
}

func (c *declCompiler) arrayExpr(s *parser.Schema, depth int) (string, error) {
	item, err := c.typeExpr(s.Items, depth+1)
	if err != nil {
		return "", err
	}
	if strings.ContainsAny(item, "|&{ ") {
		return "Array<" + item + ">", nil
	}
	return item + "[]", nil
}

func (c *declCompiler) objectExpr(s *parser.Schema, depth int) (string, error) {
	if len(s.Properties) > 0 {
		return c.objectBody(s, depth)
	}
	if sub := s.AdditionalSchema(); sub != nil {
		value, err := c.typeExpr(sub, depth+1)
		if err != nil {
			return "", err
		}
		return "Record<string, " + value + ">", nil
	}
	// additionalProperties: false declares a closed empty object.
	if s.AdditionalProperties != nil && !s.AllowsAdditional() {
		return "Record<string, never>", nil
	}
	return "Record<string, unknown>", nil
}

// objectBody renders an object literal type with deterministic (sorted)
// property order.
func (c *declCompiler) objectBody(s *parser.Schema, depth int) (string, error) {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	indent := strings.Repeat("  ", depth+1)
	var b strings.Builder
	b.WriteString("{\n")
	for _, name := range names {
		prop := s.Properties[name]
		expr, err := c.typeExpr(prop, depth+1)
		if err != nil {
			return "", err
		}
		if prop != nil && prop.Description != "" {
			fmt.Fprintf(&b, "%s/** %s */\n", indent, cleanDescription(prop.Description))
		}
		optional := ""
		if !s.IsRequired(name) {
			optional = "?"
		}
		fmt.Fprintf(&b, "%s%s%s: %s;\n", indent, propertyKey(name), optional, expr)
	}
	b.WriteString(strings.Repeat("  ", depth) + "}")
	return b.String(), nil
}

// unionExpr joins member expressions with the given operator, wrapping
// members that are themselves compound expressions.
func (c *declCompiler) unionExpr(members []*parser.Schema, op string, depth int) (string, error) {
	parts := make([]string, 0, len(members))
	for _, member := range members {
		expr, err := c.typeExpr(member, depth+1)
		if err != nil {
			return "", err
		}
		if len(members) > 1 && strings.ContainsAny(expr, "|&") && !strings.HasPrefix(expr, "Record<") && !strings.HasPrefix(expr, "Array<") {
			expr = "(" + expr + ")"
		}
		parts = append(parts, expr)
	}
	return strings.Join(parts, op), nil
}

// refExpr resolves a component schema reference to its auxiliary
// declaration name, compiling the target once if it has not been emitted.
func (c *declCompiler) refExpr(ref string, depth int) (string, error) {
	if !strings.HasPrefix(ref, componentSchemaPrefix) {
		return "", fmt.Errorf("unresolvable reference %s", ref)
	}
	key := strings.TrimPrefix(ref, componentSchemaPrefix)

	target, ok := c.corpus[key]
	if !ok {
		return "", fmt.Errorf("reference %s points to a missing component", ref)
	}

	auxName := c.reg.SchemaScoped(toTypeName(key))
	c.refs[auxName] = struct{}{}

	// Recursive schemas reference themselves while their body renders.
	if c.rendering[auxName] {
		return auxName, nil
	}
	// First writer wins: a sibling operation (or an earlier ref in this
	// fragment) may already have emitted the shared declaration.
	if !c.reg.Reserve(auxName) {
		return auxName, nil
	}

	c.rendering[auxName] = true
	body, err := c.renderNamedDecl(auxName, target, 0)
	delete(c.rendering, auxName)
	if err != nil {
		// The aux name is reserved, so it must resolve to something. The
		// component itself degrades to the fallback alias; only the missing
		// component case fails the referencing fragment.
		c.aux.WriteString(fallbackDeclaration(auxName, err.Error()))
		return auxName, nil
	}
	c.aux.WriteString(body)
	return auxName, nil
}

// enumExpr renders an enum as a literal union.
func enumExpr(values []interface{}) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, tsLiteral(v))
	}
	if len(parts) == 0 {
		return "never"
	}
	return strings.Join(parts, " | ")
}

// tsLiteral renders a single literal value as TypeScript source.
func tsLiteral(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return "null"
	default:
		return strconv.Quote(fmt.Sprintf("%v", val))
	}
}

// propertyKey quotes a property name when it is not a valid identifier.
func propertyKey(name string) string {
	if tsIdentPattern.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
