package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/studiographene/SGSchemaSync/sgerrors"
)

// defaultMaxRefDepth is the maximum depth allowed for nested $ref
// resolution. This prevents stack exhaustion from deeply nested (but
// non-circular) reference chains.
const defaultMaxRefDepth = 50

// schemaRefPrefix marks refs the resolver deliberately leaves in place.
// The generator resolves component schemas itself so that shared schemas
// are compiled once and deduplicated across operations.
const schemaRefPrefix = "#/components/schemas/"

// refResolver inlines local and relative-file $ref references in the raw
// document tree. Unresolvable references are recorded as warnings and left
// untouched; the generator degrades the affected declarations individually.
type refResolver struct {
	root      map[string]any
	baseDir   string
	maxDepth  int
	log       Logger
	warnings  []string
	resolving map[string]bool
	documents map[string]map[string]any
}

func newRefResolver(root map[string]any, baseDir string, maxDepth int, log Logger) *refResolver {
	return &refResolver{
		root:      root,
		baseDir:   baseDir,
		maxDepth:  maxDepth,
		log:       log,
		resolving: make(map[string]bool),
		documents: make(map[string]map[string]any),
	}
}

// resolveDocument walks the whole tree and inlines eligible refs in place.
func (r *refResolver) resolveDocument() {
	r.walk(r.root, 0)
}

func (r *refResolver) walk(node any, depth int) any {
	if depth > r.maxDepth {
		r.warn(fmt.Sprintf("reference nesting exceeds %d levels; leaving deeper refs unresolved", r.maxDepth))
		return node
	}

	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok && len(v) == 1 {
			if replacement, resolved := r.resolveRef(ref, depth); resolved {
				return replacement
			}
			return v
		}
		for key, child := range v {
			v[key] = r.walk(child, depth+1)
		}
		return v

	case []any:
		for i, child := range v {
			v[i] = r.walk(child, depth+1)
		}
		return v

	default:
		return node
	}
}

// resolveRef resolves a single reference. The second return value reports
// whether the node should be replaced.
func (r *refResolver) resolveRef(ref string, depth int) (any, bool) {
	// Component schema refs stay in place for generator-side dedup.
	if strings.HasPrefix(ref, schemaRefPrefix) {
		return nil, false
	}

	if r.resolving[ref] {
		r.warn((&sgerrors.ReferenceError{Ref: ref, IsCircular: true}).Error())
		return nil, false
	}
	r.resolving[ref] = true
	defer delete(r.resolving, ref)

	var (
		target  any
		err     error
		refType string
	)
	if strings.HasPrefix(ref, "#") {
		refType = "local"
		target, err = resolvePointer(r.root, ref)
	} else {
		refType = "file"
		target, err = r.resolveFileRef(ref)
	}
	if err != nil {
		r.warn((&sgerrors.ReferenceError{Ref: ref, RefType: refType, Message: err.Error()}).Error())
		return nil, false
	}

	// Resolve refs inside the replacement too, against a deep copy so the
	// shared component definition is not mutated through one use site.
	copied := deepCopyValue(target)
	return r.walk(copied, depth+1), true
}

// resolveFileRef loads a relative-file reference like "common.yaml#/Pet".
func (r *refResolver) resolveFileRef(ref string) (any, error) {
	parts := strings.SplitN(ref, "#", 2)
	filePath := parts[0]
	fragment := ""
	if len(parts) > 1 {
		fragment = "#" + parts[1]
	}

	if !filepath.IsAbs(filePath) {
		filePath = filepath.Clean(filepath.Join(r.baseDir, filePath))
	}

	doc, ok := r.documents[filePath]
	if !ok {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid document: %w", err)
		}
		r.documents[filePath] = doc
	}

	if fragment == "" {
		return doc, nil
	}
	return resolvePointer(doc, fragment)
}

func (r *refResolver) warn(msg string) {
	r.log.Warn(msg)
	r.warnings = append(r.warnings, msg)
}

// resolvePointer traverses a JSON Pointer ("#/path/to/value") in doc.
func resolvePointer(doc map[string]any, ref string) (any, error) {
	ref = strings.TrimPrefix(ref, "#")
	if ref == "" || ref == "/" {
		return doc, nil
	}

	parts := strings.Split(strings.TrimPrefix(ref, "/"), "/")
	current := any(doc)
	for i, part := range parts {
		part = unescapePointerToken(part)

		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("missing key %q at #/%s", part, strings.Join(parts[:i+1], "/"))
			}
			current = next

		case []any:
			index, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid array index %q at #/%s", part, strings.Join(parts[:i+1], "/"))
			}
			if index < 0 || index >= len(v) {
				return nil, fmt.Errorf("array index %d out of bounds (length %d)", index, len(v))
			}
			current = v[index]

		default:
			return nil, fmt.Errorf("cannot traverse into %T at #/%s", v, strings.Join(parts[:i], "/"))
		}
	}
	return current, nil
}

// unescapePointerToken unescapes RFC 6901 JSON Pointer tokens.
func unescapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// deepCopyValue copies the untyped YAML tree so resolved refs do not alias
// the component definitions they came from.
func deepCopyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[key] = deepCopyValue(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = deepCopyValue(child)
		}
		return out
	default:
		return v
	}
}
