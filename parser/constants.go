package parser

// Parameter location constants (used in Parameter.In field)
const (
	// ParamInQuery indicates the parameter is passed in the query string
	ParamInQuery = "query"
	// ParamInHeader indicates the parameter is passed in a request header
	ParamInHeader = "header"
	// ParamInPath indicates the parameter is part of the URL path
	ParamInPath = "path"
	// ParamInCookie indicates the parameter is passed as a cookie
	ParamInCookie = "cookie"
)

// ContentTypeJSON is the single content type the generator understands.
const ContentTypeJSON = "application/json"

// HTTPMethods lists the operation methods in the fixed order the generator
// walks them. The ordering matters for deterministic output.
var HTTPMethods = []string{"get", "post", "put", "patch", "delete", "head", "options", "trace"}
