package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiographene/SGSchemaSync/internal/severity"
	"github.com/studiographene/SGSchemaSync/parser"
)

type recordedIssue struct {
	Path      string
	Operation string
	Message   string
	Severity  severity.Severity
}

func issueRecorder() (addIssueFunc, *[]recordedIssue) {
	var recorded []recordedIssue
	return func(path, operation, message string, sev severity.Severity) {
		recorded = append(recorded, recordedIssue{path, operation, message, sev})
	}, &recorded
}

func jsonResponse(schema *parser.Schema) *parser.Response {
	return &parser.Response{
		Description: "ok",
		Content: map[string]*parser.MediaType{
			parser.ContentTypeJSON: {Schema: schema},
		},
	}
}

func petSchema() *parser.Schema {
	return &parser.Schema{
		Type: "object",
		Properties: map[string]*parser.Schema{
			"id":   {Type: "integer"},
			"name": {Type: "string"},
		},
		Required: []string{"id", "name"},
	}
}

func TestResolveOperationTypesPrimary200(t *testing.T) {
	addIssue, recorded := issueRecorder()
	op := &OperationDescriptor{
		Path:   "/pets/{petId}",
		Method: "GET",
		Stem:   "GetPetById",
		Responses: map[string]*parser.Response{
			"200": jsonResponse(petSchema()),
		},
	}

	ts := resolveOperationTypes(newTestRegistry(), op, nil, addIssue, parser.NopLogger{})

	assert.Equal(t, "GetPetById_Response", ts.ResponseName)
	assert.False(t, ts.Degraded())
	assert.False(t, ts.ResponseMissing)
	assert.Contains(t, ts.TypesSource, "export interface GetPetById_Response {")
	assert.Empty(t, *recorded)
}

func TestResolveOperationTypesPrimary201ForPost(t *testing.T) {
	addIssue, _ := issueRecorder()
	op := &OperationDescriptor{
		Path:              "/pets",
		Method:            "POST",
		Stem:              "CreatePet",
		HasRequestBody:    true,
		RequestBodySchema: petSchema(),
		Responses: map[string]*parser.Response{
			"200": jsonResponse(&parser.Schema{Type: "string"}),
			"201": jsonResponse(petSchema()),
		},
	}

	ts := resolveOperationTypes(newTestRegistry(), op, nil, addIssue, parser.NopLogger{})

	assert.Equal(t, "CreatePet_Response", ts.ResponseName, "201 is primary for POST")
	assert.Equal(t, "CreatePet_Request", ts.RequestName)
	require.Len(t, ts.ExtraResponses, 1)
	assert.Equal(t, "200", ts.ExtraResponses[0].Code)
	assert.Equal(t, "CreatePet_Response_200", ts.ExtraResponses[0].Name)
	assert.Contains(t, ts.TypesSource, "export type CreatePet_Response_200 = string;")
}

func TestResolveOperationTypesNoContentPrimary(t *testing.T) {
	addIssue, recorded := issueRecorder()
	op := &OperationDescriptor{
		Path:   "/pets/{petId}",
		Method: "DELETE",
		Stem:   "DeletePet",
		Responses: map[string]*parser.Response{
			"200": {Description: "deleted"},
		},
	}

	ts := resolveOperationTypes(newTestRegistry(), op, nil, addIssue, parser.NopLogger{})

	assert.True(t, ts.ResponseNoContent)
	assert.Empty(t, ts.ResponseName)
	assert.False(t, ts.Degraded(), "a declared empty response is not a failure")
	assert.Empty(t, *recorded)
}

func TestResolveOperationTypesMissingPrimary(t *testing.T) {
	addIssue, _ := issueRecorder()
	op := &OperationDescriptor{
		Path:   "/pets",
		Method: "GET",
		Stem:   "ListPets",
		Responses: map[string]*parser.Response{
			"204": {Description: "no content"},
		},
	}

	ts := resolveOperationTypes(newTestRegistry(), op, nil, addIssue, parser.NopLogger{})

	assert.True(t, ts.ResponseMissing)
	assert.Empty(t, ts.ResponseName)
}

func TestResolveOperationTypesPrimaryWithoutUsableSchema(t *testing.T) {
	addIssue, recorded := issueRecorder()
	op := &OperationDescriptor{
		Path:   "/pets",
		Method: "GET",
		Stem:   "ListPets",
		Responses: map[string]*parser.Response{
			"200": {
				Description: "ok",
				Content: map[string]*parser.MediaType{
					"text/html": {Schema: &parser.Schema{Type: "string"}},
				},
			},
		},
	}

	ts := resolveOperationTypes(newTestRegistry(), op, nil, addIssue, parser.NopLogger{})

	assert.True(t, ts.ResponseFailed, "declared-but-unusable primary is a recorded failure")
	assert.Contains(t, ts.TypesSource, "// WARN: failed to compile ListPets_Response")
	assert.Contains(t, ts.TypesSource, "export type ListPets_Response = unknown;")
	require.Len(t, *recorded, 1)
	assert.Equal(t, severity.SeverityWarning, (*recorded)[0].Severity)
}

func TestResolveOperationTypesQueryParams(t *testing.T) {
	addIssue, _ := issueRecorder()
	op := &OperationDescriptor{
		Path:   "/pets",
		Method: "GET",
		Stem:   "ListPets",
		QueryParams: []QueryParam{
			{Name: "limit", Required: true, Schema: &parser.Schema{Type: "integer"}},
			{Name: "cursor"},
		},
		Responses: map[string]*parser.Response{
			"200": jsonResponse(&parser.Schema{Type: "array", Items: petSchema()}),
		},
	}

	ts := resolveOperationTypes(newTestRegistry(), op, nil, addIssue, parser.NopLogger{})

	assert.Equal(t, "ListPets_Parameters", ts.ParamsName)
	assert.Contains(t, ts.TypesSource, "limit: number;")
	assert.Contains(t, ts.TypesSource, "cursor?: string;", "untyped params default to string")
}

func TestResolveOperationTypesRequestBodyFailure(t *testing.T) {
	addIssue, recorded := issueRecorder()
	op := &OperationDescriptor{
		Path:           "/pets",
		Method:         "POST",
		Stem:           "CreatePet",
		HasRequestBody: true,
		Responses: map[string]*parser.Response{
			"201": jsonResponse(petSchema()),
		},
	}

	ts := resolveOperationTypes(newTestRegistry(), op, nil, addIssue, parser.NopLogger{})

	assert.True(t, ts.RequestFailed)
	assert.Equal(t, "CreatePet_Request", ts.RequestName, "the name stays referencable")
	assert.Contains(t, ts.TypesSource, "export type CreatePet_Request = unknown;")
	assert.False(t, ts.ResponseFailed, "response compiles independently of the body")
	require.NotEmpty(t, *recorded)
}

func TestResolveOperationTypesSecondaryFailureDoesNotDegrade(t *testing.T) {
	addIssue, _ := issueRecorder()
	op := &OperationDescriptor{
		Path:   "/pets",
		Method: "GET",
		Stem:   "ListPets",
		Responses: map[string]*parser.Response{
			"200": jsonResponse(petSchema()),
			"202": jsonResponse(&parser.Schema{Ref: "#/components/schemas/Missing"}),
		},
	}

	ts := resolveOperationTypes(newTestRegistry(), op, map[string]*parser.Schema{}, addIssue, parser.NopLogger{})

	assert.False(t, ts.Degraded(), "non-primary failures never degrade the operation")
	require.Len(t, ts.ExtraResponses, 1)
	assert.True(t, ts.ExtraResponses[0].Failed)
}

func TestResolveOperationTypesOperationPrefix(t *testing.T) {
	addIssue, _ := issueRecorder()
	reg := NewNameRegistry("API_", "Schema_")
	op := &OperationDescriptor{
		Path:   "/pets",
		Method: "GET",
		Stem:   "ListPets",
		Responses: map[string]*parser.Response{
			"200": jsonResponse(petSchema()),
		},
	}

	ts := resolveOperationTypes(reg, op, nil, addIssue, parser.NopLogger{})
	assert.Equal(t, "API_ListPets_Response", ts.ResponseName)
}
