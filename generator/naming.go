// This file implements name derivation for generated TypeScript
// declarations and factories, plus the NameRegistry that keeps the shared
// declaration pool collision-free across tag groups.

package generator

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxDescriptionLength is the maximum length for operation summaries in
// generated doc comments before truncation.
const maxDescriptionLength = 200

var titleCaser = cases.Title(language.English, cases.NoLower)

// tsReservedWords contains TypeScript keywords that cannot be used as
// identifiers. Names colliding with these get an underscore suffix.
var tsReservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true,
}

// escapeReservedWord appends an underscore when name is a TypeScript keyword.
func escapeReservedWord(name string) string {
	if tsReservedWords[name] {
		return name + "_"
	}
	return name
}

// toTypeName converts an arbitrary spec identifier to a PascalCase
// TypeScript type name. Special characters split words; a leading digit is
// prefixed with "T".
func toTypeName(s string) string {
	if s == "" {
		return "Type"
	}

	var result strings.Builder
	for _, word := range splitWords(s) {
		result.WriteString(titleCaser.String(word))
	}

	name := result.String()
	if name == "" {
		return "Type"
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "T" + name
	}
	return name
}

// toParamName converts a spec parameter name to a camelCase TypeScript
// identifier, escaping reserved words.
func toParamName(s string) string {
	name := toTypeName(s)
	if name == "" {
		return "param"
	}
	name = strings.ToLower(name[:1]) + name[1:]
	return escapeReservedWord(name)
}

// toExportName converts a factory stem to the camelCase name the
// orchestrator exports (e.g. "GetPetById" -> "getPetById").
func toExportName(stem string) string {
	if stem == "" {
		return "call"
	}
	return escapeReservedWord(strings.ToLower(stem[:1]) + stem[1:])
}

// splitWords splits an identifier on non-alphanumeric boundaries.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// operationStem derives the TypeBaseName for an operation: the stable stem
// all of its declaration and factory names hang off. The operationId is
// preferred; path plus method is the fallback.
func operationStem(operationID, path, method string) string {
	if operationID != "" {
		return toTypeName(operationID)
	}
	return toTypeName(strings.ToLower(method) + " " + pathWords(path))
}

// endpointName derives the path-only base name used in subscription cache
// keys: "/pets/{id}" becomes "PetsById". Unlike operationStem it never
// includes the HTTP method, so read hooks for the same endpoint share a key
// prefix regardless of operationId spelling.
func endpointName(path string) string {
	var b strings.Builder
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			b.WriteString("By")
			b.WriteString(camelizeSegment(strings.Trim(seg, "{}")))
			continue
		}
		b.WriteString(camelizeSegment(seg))
	}
	if b.Len() == 0 {
		return "Root"
	}
	return b.String()
}

// pathWords rewrites a path template into word form: "/pets/{pet_id}"
// becomes "pets By pet id" (camelization happens in toTypeName).
func pathWords(path string) string {
	s := strings.ReplaceAll(path, "/", " ")
	s = strings.ReplaceAll(s, "{", "By ")
	s = strings.ReplaceAll(s, "}", "")
	return s
}

// sanitizeTagName converts a tag into a directory-safe identifier:
// lowercase, with spaces and slashes collapsed to hyphens.
func sanitizeTagName(tag string) string {
	s := strings.ToLower(strings.TrimSpace(tag))
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, " ", "-")

	var result strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			lastHyphen = false
		case r == '-' || r == '_':
			if !lastHyphen && result.Len() > 0 {
				result.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(result.String(), "-")
}

// camelizeSegment camelizes one path segment, tolerating hyphens and
// underscores ("pet-profiles" -> "PetProfiles").
func camelizeSegment(segment string) string {
	return inflect.Camelize(strings.ReplaceAll(segment, "-", "_"))
}

// cleanDescription prepares a spec description for a generated doc comment:
// newlines collapse to spaces, long text is truncated at a rune boundary.
func cleanDescription(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > maxDescriptionLength {
		s = string(runes[:maxDescriptionLength-3]) + "..."
	}
	return s
}

// NameRegistry tracks every declaration name emitted during one generation
// run. It is an explicit context object passed through the compilation
// pipeline, never package state, so independent runs cannot interfere.
//
// The registry serves two distinct policies:
//
//   - operation-scoped declarations (request/response/parameter types) take
//     the optional operation type prefix;
//   - schema-derived auxiliary declarations always take the schema prefix,
//     so the same component schema referenced from several operations is
//     emitted once under one collision-free name.
type NameRegistry struct {
	reserved     map[string]struct{}
	prefixed     map[string]string
	rewriteOrder []string
	typePrefix   string
	schemaPrefix string
}

// NewNameRegistry creates a registry with the given operation-scoped and
// schema-derived prefixes. An empty schemaPrefix falls back to "Schema_".
func NewNameRegistry(typePrefix, schemaPrefix string) *NameRegistry {
	if schemaPrefix == "" {
		schemaPrefix = "Schema_"
	}
	return &NameRegistry{
		reserved:     make(map[string]struct{}),
		prefixed:     make(map[string]string),
		typePrefix:   typePrefix,
		schemaPrefix: schemaPrefix,
	}
}

// Reserve records name as emitted. It returns false when the name was
// already reserved, in which case the caller must skip re-emission: the
// earlier declaration is reused, not duplicated.
func (r *NameRegistry) Reserve(name string) bool {
	if _, ok := r.reserved[name]; ok {
		return false
	}
	r.reserved[name] = struct{}{}
	return true
}

// Reserved reports whether name has been reserved.
func (r *NameRegistry) Reserved(name string) bool {
	_, ok := r.reserved[name]
	return ok
}

// Prefixed returns raw with prefix applied, leaving raw unchanged when it
// already carries the prefix. The raw-to-prefixed mapping is recorded so
// RewriteRefs can later fix up textual references emitted under the raw name.
func (r *NameRegistry) Prefixed(raw, prefix string) string {
	if prefix == "" || strings.HasPrefix(raw, prefix) {
		return raw
	}
	name := prefix + raw
	if _, ok := r.prefixed[raw]; !ok {
		r.prefixed[raw] = name
		r.rewriteOrder = append(r.rewriteOrder, raw)
		// Longest raw names first, so rewriting "PetTag" never clobbers the
		// tail of "PetTagList".
		sort.Slice(r.rewriteOrder, func(i, j int) bool {
			if len(r.rewriteOrder[i]) != len(r.rewriteOrder[j]) {
				return len(r.rewriteOrder[i]) > len(r.rewriteOrder[j])
			}
			return r.rewriteOrder[i] < r.rewriteOrder[j]
		})
	}
	return name
}

// OperationScoped applies the operation type prefix to a declaration name.
func (r *NameRegistry) OperationScoped(raw string) string {
	return r.Prefixed(raw, r.typePrefix)
}

// SchemaScoped applies the schema prefix to an auxiliary declaration name.
func (r *NameRegistry) SchemaScoped(raw string) string {
	return r.Prefixed(raw, r.schemaPrefix)
}

// RewriteRefs rewrites whole-word occurrences of every recorded raw name in
// src to its prefixed form. The substitution is textual because the
// declaration compiler only sees one fragment at a time and has no notion
// of the cross-operation prefix scheme. String literals and comments pass
// through untouched: an enum value or description that happens to spell a
// component name is data, not a reference.
func (r *NameRegistry) RewriteRefs(src string) string {
	if len(r.rewriteOrder) == 0 {
		return src
	}
	patterns := make([]*regexp.Regexp, len(r.rewriteOrder))
	for i, raw := range r.rewriteOrder {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(raw) + `\b`)
	}
	return rewriteCodeSegments(src, func(segment string) string {
		for i, raw := range r.rewriteOrder {
			segment = patterns[i].ReplaceAllLiteralString(segment, r.prefixed[raw])
		}
		return segment
	})
}

// rewriteCodeSegments applies rewrite to the parts of src outside string
// literals and comments, copying those through verbatim. The scanner knows
// just enough TypeScript lexing for the compiler's own output: double and
// single quotes, template literals, and both comment forms.
func rewriteCodeSegments(src string, rewrite func(string) string) string {
	var out strings.Builder
	var code strings.Builder
	flush := func() {
		if code.Len() > 0 {
			out.WriteString(rewrite(code.String()))
			code.Reset()
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			flush()
			out.WriteByte(c)
			i++
			for i < len(src) {
				ch := src[i]
				out.WriteByte(ch)
				i++
				if ch == '\\' && i < len(src) {
					out.WriteByte(src[i])
					i++
					continue
				}
				if ch == c {
					break
				}
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			flush()
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src) - i
			}
			out.WriteString(src[i : i+end])
			i += end
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			flush()
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				out.WriteString(src[i:])
				i = len(src)
				continue
			}
			out.WriteString(src[i : i+2+end+2])
			i += 2 + end + 2
		default:
			code.WriteByte(c)
			i++
		}
	}
	flush()
	return out.String()
}
