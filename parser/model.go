package parser

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Document is a parsed OpenAPI 3.x document, reduced to the subset that
// client generation consumes.
type Document struct {
	OpenAPI    string                `yaml:"openapi" json:"openapi"`
	Info       *Info                 `yaml:"info,omitempty" json:"info,omitempty"`
	Servers    []*Server             `yaml:"servers,omitempty" json:"servers,omitempty"`
	Paths      Paths                 `yaml:"paths,omitempty" json:"paths,omitempty"`
	Components *Components           `yaml:"components,omitempty" json:"components,omitempty"`
	Security   []SecurityRequirement `yaml:"security,omitempty" json:"security,omitempty"`
	Tags       []*Tag                `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Info provides metadata about the API
type Info struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `yaml:"version" json:"version"`
}

// Server represents a server hosting the API
type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Tag adds metadata to a single tag used by operations
type Tag struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// SecurityRequirement lists required security schemes for an operation
type SecurityRequirement map[string][]string

// Components holds reusable objects for the document
type Components struct {
	Schemas       map[string]*Schema      `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	Parameters    map[string]*Parameter   `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBodies map[string]*RequestBody `yaml:"requestBodies,omitempty" json:"requestBodies,omitempty"`
	Responses     map[string]*Response    `yaml:"responses,omitempty" json:"responses,omitempty"`
}

// Paths holds the relative paths to the individual endpoints
type Paths map[string]*PathItem

// PathItem describes the operations available on a single path
type PathItem struct {
	Ref         string       `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Get         *Operation   `yaml:"get,omitempty" json:"get,omitempty"`
	Put         *Operation   `yaml:"put,omitempty" json:"put,omitempty"`
	Post        *Operation   `yaml:"post,omitempty" json:"post,omitempty"`
	Delete      *Operation   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Options     *Operation   `yaml:"options,omitempty" json:"options,omitempty"`
	Head        *Operation   `yaml:"head,omitempty" json:"head,omitempty"`
	Patch       *Operation   `yaml:"patch,omitempty" json:"patch,omitempty"`
	Trace       *Operation   `yaml:"trace,omitempty" json:"trace,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// OperationForMethod returns the operation for the given lowercase HTTP
// method, or nil if the path item does not define one.
func (p *PathItem) OperationForMethod(method string) *Operation {
	switch method {
	case "get":
		return p.Get
	case "put":
		return p.Put
	case "post":
		return p.Post
	case "delete":
		return p.Delete
	case "options":
		return p.Options
	case "head":
		return p.Head
	case "patch":
		return p.Patch
	case "trace":
		return p.Trace
	default:
		return nil
	}
}

// Operation describes a single API operation on a path
type Operation struct {
	Tags        []string              `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary     string                `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	OperationID string                `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters  []*Parameter          `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody          `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   *Responses            `yaml:"responses,omitempty" json:"responses,omitempty"`
	Deprecated  bool                  `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Security    []SecurityRequirement `yaml:"security,omitempty" json:"security,omitempty"`
}

// Parameter describes a single operation parameter
type Parameter struct {
	Ref         string  `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	In          string  `yaml:"in,omitempty" json:"in,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Deprecated  bool    `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// RequestBody describes a single request body
type RequestBody struct {
	Ref         string                `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

// JSONSchema returns the schema of the JSON media type, or nil.
func (rb *RequestBody) JSONSchema() *Schema {
	if rb == nil || rb.Content == nil {
		return nil
	}
	if mt := rb.Content[ContentTypeJSON]; mt != nil {
		return mt.Schema
	}
	return nil
}

// MediaType provides the schema for a media type
type MediaType struct {
	Schema *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Responses is a container for the expected responses of an operation
type Responses struct {
	Default *Response            `yaml:"default,omitempty" json:"default,omitempty"`
	Codes   map[string]*Response `yaml:"-" json:"-"` // handled by custom unmarshaler
}

// UnmarshalYAML implements custom unmarshaling for Responses so that status
// codes land in the Codes map and invalid keys are rejected with a clear
// message instead of being silently captured.
func (r *Responses) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	r.Codes = make(map[string]*Response)

	for key, value := range raw {
		if key == "default" {
			resp, err := decodeResponseValue(value)
			if err != nil {
				return fmt.Errorf("failed to decode default response: %w", err)
			}
			r.Default = resp
			continue
		}
		// Specification extensions are legal here but carry no response.
		if strings.HasPrefix(key, "x-") {
			continue
		}
		if !validStatusCodeKey(key) {
			return fmt.Errorf("invalid status code %q in responses: must be a valid HTTP status code (e.g., \"200\"), wildcard pattern (e.g., \"2XX\"), or extension field", key)
		}
		resp, err := decodeResponseValue(value)
		if err != nil {
			return fmt.Errorf("failed to decode response for status code %s: %w", key, err)
		}
		r.Codes[key] = resp
	}

	return nil
}

// decodeResponseValue re-marshals an untyped response value into a Response.
func decodeResponseValue(value any) (*Response, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := yaml.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// validStatusCodeKey reports whether key is a valid responses map key:
// a three-digit status code, a wildcard pattern like "2XX", or a
// specification extension ("x-...").
func validStatusCodeKey(key string) bool {
	if len(key) > 2 && key[0] == 'x' && key[1] == '-' {
		return true
	}
	if len(key) != 3 {
		return false
	}
	if key[0] < '1' || key[0] > '5' {
		return false
	}
	rest := key[1:]
	if rest == "XX" || rest == "xx" {
		return true
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}

// Response describes a single response from an API operation
type Response struct {
	Ref         string                `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

// JSONSchema returns the schema of the JSON media type, or nil.
func (r *Response) JSONSchema() *Schema {
	if r == nil || r.Content == nil {
		return nil
	}
	if mt := r.Content[ContentTypeJSON]; mt != nil {
		return mt.Schema
	}
	return nil
}

// HasContent reports whether the response declares any body content at all.
func (r *Response) HasContent() bool {
	return r != nil && len(r.Content) > 0
}
