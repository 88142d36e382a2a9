// This file renders the accessor factories: one exported TypeScript
// factory per operation that closes over an injected requester and returns
// a typed async call function.

package generator

import (
	"fmt"
	"regexp"
	"strings"
)

var pathPlaceholderPattern = regexp.MustCompile(`\{([^}/]+)\}`)

// factoryRender is one rendered factory plus the declaration names its
// generic defaults reference. The group assembler turns UsedTypes into the
// bundle's import list.
type factoryRender struct {
	Source    string
	UsedTypes []string
}

// responseGenericDefault picks the TResponse default per the degradation
// ladder: resolved name when compilation succeeded, any when the declared
// shape failed to compile, never when no primary success response exists,
// void when the primary response carries no content.
func responseGenericDefault(ts *OperationTypeSet) string {
	switch {
	case ts.ResponseMissing:
		return "never"
	case ts.ResponseNoContent:
		return "void"
	case ts.ResponseFailed:
		return "any"
	default:
		return ts.ResponseName
	}
}

func bodyGenericDefault(ts *OperationTypeSet) string {
	if ts.RequestFailed {
		return "any"
	}
	return ts.RequestName
}

func paramsGenericDefault(ts *OperationTypeSet) string {
	if ts.ParamsFailed {
		return "any"
	}
	return ts.ParamsName
}

// genericClause renders the generic parameter list for one operation. The
// response generic is always present; body and params generics exist only
// when the operation declares those shapes.
func genericClause(op *OperationDescriptor, ts *OperationTypeSet) string {
	parts := []string{"TResponse = " + responseGenericDefault(ts)}
	if op.HasRequestBody {
		parts = append(parts, "TBody = "+bodyGenericDefault(ts))
	}
	if len(op.QueryParams) > 0 {
		parts = append(parts, "TParams = "+paramsGenericDefault(ts))
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// usedTypeNames lists the declaration names the generic defaults reference.
// Failed shapes default to any, so their fallback aliases are never imported.
func usedTypeNames(op *OperationDescriptor, ts *OperationTypeSet) []string {
	var names []string
	if ts.ResponseName != "" && !ts.ResponseFailed {
		names = append(names, ts.ResponseName)
	}
	if op.HasRequestBody && !ts.RequestFailed {
		names = append(names, ts.RequestName)
	}
	if ts.ParamsName != "" && !ts.ParamsFailed {
		names = append(names, ts.ParamsName)
	}
	return names
}

// degradedParts names the shapes whose generic defaults fell back, for the
// warning comment above a degraded factory.
func degradedParts(ts *OperationTypeSet) []string {
	var parts []string
	if ts.ResponseFailed {
		parts = append(parts, "response")
	}
	if ts.RequestFailed {
		parts = append(parts, "request body")
	}
	if ts.ParamsFailed {
		parts = append(parts, "query parameters")
	}
	return parts
}

// runtimeURL renders the template-literal URL for one operation: the
// configured path prefix is stripped (URLs only, declaration names keep the
// full path), and each placeholder interpolates its call argument. The
// prefix must end on a segment boundary: "/api" strips from "/api/pets"
// but never from "/apifoo".
func runtimeURL(op *OperationDescriptor, pathPrefix string) string {
	path := op.Path
	prefix := strings.TrimSuffix(pathPrefix, "/")
	if prefix != "" && strings.HasPrefix(path, prefix) {
		rest := strings.TrimPrefix(path, prefix)
		if rest == "" {
			path = "/"
		} else if strings.HasPrefix(rest, "/") {
			path = rest
		}
	}
	return pathPlaceholderPattern.ReplaceAllStringFunc(path, func(match string) string {
		param := toParamName(strings.Trim(match, "{}"))
		return "${encodeURIComponent(" + param + ")}"
	})
}

// renderAccessorFactory renders the make<Stem> factory for one operation.
func renderAccessorFactory(op *OperationDescriptor, ts *OperationTypeSet, pathPrefix string) factoryRender {
	var b strings.Builder

	writeFactoryDoc(&b, op)
	if parts := degradedParts(ts); len(parts) > 0 {
		fmt.Fprintf(&b, "// WARN: %s degraded to permissive generics (%s failed to compile).\n",
			op.OperationID(), strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, "export const make%s = (requester: Requester) =>\n", op.Stem)
	fmt.Fprintf(&b, "  async %s(\n", genericClause(op, ts))
	for _, p := range op.PathParams {
		fmt.Fprintf(&b, "    %s: string,\n", toParamName(p.Name))
	}
	if op.HasRequestBody {
		b.WriteString("    body: TBody,\n")
	}
	if len(op.QueryParams) > 0 {
		b.WriteString("    params?: TParams,\n")
	}
	b.WriteString("    options?: Partial<RequestDescriptor>,\n")
	b.WriteString("    flags?: RequestFlags,\n")
	b.WriteString("  ): Promise<TResponse> => {\n")

	b.WriteString("    const request: RequestDescriptor = {\n")
	fmt.Fprintf(&b, "      method: %q,\n", op.Method)
	fmt.Fprintf(&b, "      url: `%s`,\n", runtimeURL(op, pathPrefix))
	if op.HasRequestBody {
		b.WriteString("      body,\n")
	}
	if len(op.QueryParams) > 0 {
		b.WriteString("      query: params,\n")
	}
	fmt.Fprintf(&b, "      authRequired: %t,\n", op.AuthRequired)
	b.WriteString("      ...options,\n")
	b.WriteString("    };\n")

	if ts.ResponseNoContent {
		b.WriteString("    await requester(request, flags);\n")
		b.WriteString("    return undefined as TResponse;\n")
	} else {
		b.WriteString("    const res = await requester(request, flags);\n")
		b.WriteString("    return res.data as TResponse;\n")
	}
	b.WriteString("  };\n\n")

	return factoryRender{Source: b.String(), UsedTypes: usedTypeNames(op, ts)}
}

// writeFactoryDoc renders the JSDoc block shared by accessor and hook
// factories: summary line, optional description, deprecation marker.
func writeFactoryDoc(b *strings.Builder, op *OperationDescriptor) {
	summary := cleanDescription(op.Summary)
	desc := cleanDescription(op.Description)
	if summary == "" && desc == "" && !op.Deprecated {
		return
	}
	b.WriteString("/**\n")
	if summary != "" {
		fmt.Fprintf(b, " * %s\n", summary)
	}
	if desc != "" && desc != summary {
		fmt.Fprintf(b, " * %s\n", desc)
	}
	fmt.Fprintf(b, " * %s %s\n", op.Method, op.Path)
	if op.Deprecated {
		b.WriteString(" * @deprecated\n")
	}
	b.WriteString(" */\n")
}
