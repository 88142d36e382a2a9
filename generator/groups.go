// This file builds the generation plan: it walks the parsed document in a
// fixed order, turns each operation into an OperationDescriptor, and groups
// descriptors by their first tag.

package generator

import (
	"sort"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/studiographene/SGSchemaSync/internal/severity"
	"github.com/studiographene/SGSchemaSync/parser"
)

// TagGroup is one output directory's worth of operations: every operation
// whose first tag sanitizes to the same directory name.
type TagGroup struct {
	// Tag is the first spec tag encountered for this group.
	Tag string
	// SanitizedTag is the directory-safe form of Tag.
	SanitizedTag string
	// Operations is ordered by path, then by method.
	Operations []*OperationDescriptor
	// HasHooks records whether bundle assembly emitted at least one hook
	// factory for this group.
	HasHooks bool
}

// buildGroups walks doc's paths in sorted order and methods in the fixed
// method order, so grouping (and therefore name reservation downstream) is
// deterministic across runs. Untagged operations are skipped with a
// warning.
func buildGroups(doc *parser.Document, addIssue addIssueFunc, log parser.Logger) []*TagGroup {
	byTag := make(map[string]*TagGroup)

	for _, path := range sortedPaths(doc.Paths) {
		item := doc.Paths[path]
		if item == nil {
			continue
		}
		for _, method := range parser.HTTPMethods {
			op := item.OperationForMethod(method)
			if op == nil {
				continue
			}
			desc := buildOperation(doc, path, method, item, op, addIssue)
			if desc == nil {
				continue
			}

			key := sanitizeTagName(desc.Tag)
			group, ok := byTag[key]
			if !ok {
				group = &TagGroup{Tag: desc.Tag, SanitizedTag: key}
				byTag[key] = group
			}
			group.Operations = append(group.Operations, desc)
		}
	}

	groups := make([]*TagGroup, 0, len(byTag))
	for _, g := range byTag {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].SanitizedTag < groups[j].SanitizedTag })

	log.Debug("grouped operations", "groups", len(groups))
	return groups
}

func sortedPaths(paths parser.Paths) []string {
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	return keys
}

// buildOperation converts one parsed operation into a descriptor, or nil
// when the operation cannot be generated (no tags).
func buildOperation(doc *parser.Document, path, method string, item *parser.PathItem, op *parser.Operation, addIssue addIssueFunc) *OperationDescriptor {
	upperMethod := strings.ToUpper(method)
	issuePath := "paths." + path + "." + method
	operationID := upperMethod + " " + path

	if len(op.Tags) == 0 || strings.TrimSpace(op.Tags[0]) == "" {
		addIssue(issuePath, operationID,
			"operation has no tags and cannot be grouped; skipped", severity.SeverityWarning)
		return nil
	}

	if _, err := uritemplate.New(path); err != nil {
		addIssue(issuePath, operationID,
			"path is not a valid URI template: "+err.Error(), severity.SeverityWarning)
	}

	merged := mergeParameters(item.Parameters, op.Parameters)

	desc := &OperationDescriptor{
		Path:         path,
		Method:       upperMethod,
		Stem:         operationStem(op.OperationID, path, method),
		Tag:          op.Tags[0],
		Summary:      op.Summary,
		Description:  op.Description,
		Deprecated:   op.Deprecated,
		PathParams:   pathParamsFor(path),
		QueryParams:  queryParamsFor(merged),
		AuthRequired: authRequired(doc, op),
	}

	if op.RequestBody != nil {
		desc.HasRequestBody = true
		desc.RequestBodySchema = op.RequestBody.JSONSchema()
	}
	if op.Responses != nil {
		desc.Responses = op.Responses.Codes
	}
	return desc
}

// mergeParameters combines path-item and operation parameters. Operation
// parameters override path-item parameters with the same name and location.
func mergeParameters(pathLevel, opLevel []*parser.Parameter) []*parser.Parameter {
	type paramKey struct{ name, in string }

	overridden := make(map[paramKey]bool, len(opLevel))
	for _, p := range opLevel {
		if p != nil {
			overridden[paramKey{p.Name, p.In}] = true
		}
	}

	merged := make([]*parser.Parameter, 0, len(pathLevel)+len(opLevel))
	for _, p := range pathLevel {
		if p == nil || overridden[paramKey{p.Name, p.In}] {
			continue
		}
		merged = append(merged, p)
	}
	for _, p := range opLevel {
		if p != nil {
			merged = append(merged, p)
		}
	}
	return merged
}

// pathParamsFor lists path parameters in template order, so accessor call
// signatures read left to right like the URL. The template is the source
// of truth: placeholders without a declared parameter still become call
// arguments, and declared path params missing from the template are
// ignored rather than invented.
func pathParamsFor(path string) []PathParam {
	var result []PathParam
	for _, match := range pathPlaceholderPattern.FindAllStringSubmatch(path, -1) {
		result = append(result, PathParam{Name: match[1], Required: true})
	}
	return result
}

func queryParamsFor(params []*parser.Parameter) []QueryParam {
	var result []QueryParam
	for _, p := range params {
		if p.In != parser.ParamInQuery {
			continue
		}
		result = append(result, QueryParam{Name: p.Name, Required: p.Required, Schema: p.Schema})
	}
	return result
}

// authRequired resolves the operation's effective security requirement:
// operation-level security overrides the document default, and an explicit
// empty list opts the operation out.
func authRequired(doc *parser.Document, op *parser.Operation) bool {
	reqs := doc.Security
	if op.Security != nil {
		reqs = op.Security
	}
	for _, r := range reqs {
		if len(r) > 0 {
			return true
		}
	}
	return false
}
