// This file renders the subscription (react-query hook) factories: read
// operations get a useQuery wrapper with a deterministic cache key, write
// operations get a useMutation wrapper with body-first variables.

package generator

import (
	"fmt"
	"strings"
)

// hookRender is one rendered hook factory plus everything the group
// assembler needs to build the bundle's imports.
type hookRender struct {
	Source    string
	UsedTypes []string
	// Factory is the accessor factory name the hook wraps.
	Factory      string
	UsesQuery    bool
	UsesMutation bool
}

// isReadMethod reports whether method maps to the read hook shape.
func isReadMethod(method string) bool {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return true
	}
	return false
}

// isWriteMethod reports whether method maps to the write hook shape.
func isWriteMethod(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

// renderHookFactory renders the makeUse<Stem> factory for one operation.
// Methods outside both hook shapes (TRACE) render nothing.
func renderHookFactory(op *OperationDescriptor, ts *OperationTypeSet, sanitizedTag string) (hookRender, bool) {
	switch {
	case isReadMethod(op.Method):
		return renderReadHook(op, ts, sanitizedTag), true
	case isWriteMethod(op.Method):
		return renderWriteHook(op, ts), true
	}
	return hookRender{}, false
}

// callArgs renders the argument list forwarded to the wrapped accessor, in
// the accessor's positional order: path params, body, params.
func callArgs(op *OperationDescriptor, bodyArg, paramsArg string) string {
	var args []string
	for _, p := range op.PathParams {
		args = append(args, toParamName(p.Name))
	}
	if op.HasRequestBody {
		args = append(args, bodyArg)
	}
	if len(op.QueryParams) > 0 {
		args = append(args, paramsArg)
	}
	return strings.Join(args, ", ")
}

// queryKeyExpr renders the deterministic cache key tuple:
// [sanitizedTag, endpointName, ...pathParamValues, params?].
func queryKeyExpr(op *OperationDescriptor, sanitizedTag string) string {
	parts := []string{fmt.Sprintf("%q", sanitizedTag), fmt.Sprintf("%q", endpointName(op.Path))}
	for _, p := range op.PathParams {
		parts = append(parts, toParamName(p.Name))
	}
	if len(op.QueryParams) > 0 {
		parts = append(parts, "params")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func renderReadHook(op *OperationDescriptor, ts *OperationTypeSet, sanitizedTag string) hookRender {
	factory := "make" + op.Stem
	var b strings.Builder

	writeFactoryDoc(&b, op)
	fmt.Fprintf(&b, "export const makeUse%s = (requester: Requester) => {\n", op.Stem)
	fmt.Fprintf(&b, "  const call = %s(requester);\n", factory)
	fmt.Fprintf(&b, "  return %s(\n", genericClause(op, ts))
	for _, p := range op.PathParams {
		fmt.Fprintf(&b, "    %s: string,\n", toParamName(p.Name))
	}
	if len(op.QueryParams) > 0 {
		b.WriteString("    params?: TParams,\n")
	}
	b.WriteString("    options?: Omit<UseQueryOptions<TResponse>, \"queryKey\" | \"queryFn\">,\n")
	b.WriteString("  ) =>\n")
	b.WriteString("    useQuery<TResponse>({\n")
	fmt.Fprintf(&b, "      queryKey: %s,\n", queryKeyExpr(op, sanitizedTag))
	fmt.Fprintf(&b, "      queryFn: () => call(%s),\n", callArgs(op, "undefined as TBody", "params"))
	b.WriteString("      ...options,\n")
	b.WriteString("    });\n")
	b.WriteString("};\n\n")

	return hookRender{
		Source:    b.String(),
		UsedTypes: usedTypeNames(op, ts),
		Factory:   factory,
		UsesQuery: true,
	}
}

// renderWriteHook renders the useMutation wrapper. The variables type
// follows a fixed asymmetry: when the operation has both a body and query
// parameters, variables carry only the body and the query parameters are
// fixed at hook-call level.
func renderWriteHook(op *OperationDescriptor, ts *OperationTypeSet) hookRender {
	factory := "make" + op.Stem

	variablesType := "void"
	switch {
	case op.HasRequestBody:
		variablesType = "TBody"
	case len(op.QueryParams) > 0:
		variablesType = "TParams"
	}

	var b strings.Builder
	writeFactoryDoc(&b, op)
	if op.HasRequestBody && len(op.QueryParams) > 0 {
		b.WriteString("// Known limitation: mutation variables carry only the request body;\n")
		b.WriteString("// query parameters are fixed when the hook is instantiated, not per mutate().\n")
	}
	fmt.Fprintf(&b, "export const makeUse%s = (requester: Requester) => {\n", op.Stem)
	fmt.Fprintf(&b, "  const call = %s(requester);\n", factory)
	fmt.Fprintf(&b, "  return %s(\n", genericClause(op, ts))
	for _, p := range op.PathParams {
		fmt.Fprintf(&b, "    %s: string,\n", toParamName(p.Name))
	}
	if op.HasRequestBody && len(op.QueryParams) > 0 {
		b.WriteString("    params?: TParams,\n")
	}
	fmt.Fprintf(&b, "    options?: UseMutationOptions<TResponse, unknown, %s>,\n", variablesType)
	b.WriteString("  ) =>\n")
	fmt.Fprintf(&b, "    useMutation<TResponse, unknown, %s>({\n", variablesType)

	switch variablesType {
	case "TBody":
		fmt.Fprintf(&b, "      mutationFn: (variables: TBody) => call(%s),\n", callArgs(op, "variables", "params"))
	case "TParams":
		fmt.Fprintf(&b, "      mutationFn: (variables: TParams) => call(%s),\n", callArgs(op, "", "variables"))
	default:
		fmt.Fprintf(&b, "      mutationFn: () => call(%s),\n", callArgs(op, "", ""))
	}
	b.WriteString("      ...options,\n")
	b.WriteString("    });\n")
	b.WriteString("};\n\n")

	return hookRender{
		Source:       b.String(),
		UsedTypes:    usedTypeNames(op, ts),
		Factory:      factory,
		UsesMutation: true,
	}
}
