package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiographene/SGSchemaSync/internal/severity"
	"github.com/studiographene/SGSchemaSync/parser"
)

func taggedOperation(tag, operationID string) *parser.Operation {
	return &parser.Operation{
		Tags:        []string{tag},
		OperationID: operationID,
		Responses: &parser.Responses{
			Codes: map[string]*parser.Response{"200": jsonResponse(petSchema())},
		},
	}
}

func TestBuildGroupsByFirstTag(t *testing.T) {
	addIssue, recorded := issueRecorder()
	doc := &parser.Document{
		Paths: parser.Paths{
			"/pets":   {Get: taggedOperation("Pets", "listPets"), Post: taggedOperation("Pets", "createPet")},
			"/owners": {Get: taggedOperation("Owners", "listOwners")},
		},
	}

	groups := buildGroups(doc, addIssue, parser.NopLogger{})

	require.Len(t, groups, 2)
	assert.Equal(t, "owners", groups[0].SanitizedTag, "groups come back in sorted-tag order")
	assert.Equal(t, "pets", groups[1].SanitizedTag)
	assert.Len(t, groups[1].Operations, 2)
	assert.Empty(t, *recorded)
}

func TestBuildGroupsMethodOrder(t *testing.T) {
	addIssue, _ := issueRecorder()
	doc := &parser.Document{
		Paths: parser.Paths{
			"/pets": {
				Delete: taggedOperation("Pets", "purgePets"),
				Get:    taggedOperation("Pets", "listPets"),
				Post:   taggedOperation("Pets", "createPet"),
			},
		},
	}

	groups := buildGroups(doc, addIssue, parser.NopLogger{})

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Operations, 3)
	assert.Equal(t, "GET", groups[0].Operations[0].Method)
	assert.Equal(t, "POST", groups[0].Operations[1].Method)
	assert.Equal(t, "DELETE", groups[0].Operations[2].Method)
}

func TestBuildGroupsUntaggedSkipped(t *testing.T) {
	addIssue, recorded := issueRecorder()
	doc := &parser.Document{
		Paths: parser.Paths{
			"/pets":    {Get: taggedOperation("Pets", "listPets")},
			"/orphans": {Get: &parser.Operation{OperationID: "listOrphans"}},
		},
	}

	groups := buildGroups(doc, addIssue, parser.NopLogger{})

	require.Len(t, groups, 1)
	assert.Equal(t, "pets", groups[0].SanitizedTag)
	require.Len(t, *recorded, 1)
	assert.Equal(t, severity.SeverityWarning, (*recorded)[0].Severity)
	assert.Contains(t, (*recorded)[0].Message, "no tags")
}

func TestBuildGroupsSanitizesSharedTag(t *testing.T) {
	addIssue, _ := issueRecorder()
	doc := &parser.Document{
		Paths: parser.Paths{
			"/a": {Get: taggedOperation("Pet Store", "a")},
			"/b": {Get: taggedOperation("pet store", "b")},
		},
	}

	groups := buildGroups(doc, addIssue, parser.NopLogger{})

	require.Len(t, groups, 1, "tags that sanitize identically share a group")
	assert.Equal(t, "pet-store", groups[0].SanitizedTag)
	assert.Len(t, groups[0].Operations, 2)
}

func TestBuildOperationMergesPathLevelParameters(t *testing.T) {
	addIssue, _ := issueRecorder()
	item := &parser.PathItem{
		Parameters: []*parser.Parameter{
			{Name: "petId", In: parser.ParamInPath, Required: true},
			{Name: "verbose", In: parser.ParamInQuery, Schema: &parser.Schema{Type: "boolean"}},
		},
		Get: &parser.Operation{
			Tags:        []string{"Pets"},
			OperationID: "getPet",
			Parameters: []*parser.Parameter{
				{Name: "verbose", In: parser.ParamInQuery, Required: true, Schema: &parser.Schema{Type: "string"}},
				{Name: "fields", In: parser.ParamInQuery},
			},
		},
	}

	desc := buildOperation(&parser.Document{}, "/pets/{petId}", "get", item, item.Get, addIssue)
	require.NotNil(t, desc)

	require.Len(t, desc.PathParams, 1)
	assert.Equal(t, "petId", desc.PathParams[0].Name)

	require.Len(t, desc.QueryParams, 2)
	assert.Equal(t, "verbose", desc.QueryParams[0].Name)
	assert.True(t, desc.QueryParams[0].Required, "operation-level parameter overrides the path-level one")
	assert.Equal(t, "fields", desc.QueryParams[1].Name)
}

func TestBuildOperationPathParamsFollowTemplateOrder(t *testing.T) {
	addIssue, _ := issueRecorder()
	item := &parser.PathItem{
		Get: taggedOperation("Pets", "getToy"),
	}

	desc := buildOperation(&parser.Document{}, "/pets/{petId}/toys/{toyId}", "get", item, item.Get, addIssue)
	require.NotNil(t, desc)
	require.Len(t, desc.PathParams, 2)
	assert.Equal(t, "petId", desc.PathParams[0].Name)
	assert.Equal(t, "toyId", desc.PathParams[1].Name)
}

func TestAuthRequired(t *testing.T) {
	secured := []parser.SecurityRequirement{{"bearerAuth": {}}}

	tests := []struct {
		name     string
		doc      *parser.Document
		op       *parser.Operation
		expected bool
	}{
		{"no security anywhere", &parser.Document{}, &parser.Operation{}, false},
		{"document default", &parser.Document{Security: secured}, &parser.Operation{}, true},
		{"operation opts out", &parser.Document{Security: secured}, &parser.Operation{Security: []parser.SecurityRequirement{}}, false},
		{"operation opts in", &parser.Document{}, &parser.Operation{Security: secured}, true},
		{"optional auth only", &parser.Document{Security: []parser.SecurityRequirement{{}}}, &parser.Operation{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, authRequired(tt.doc, tt.op))
		})
	}
}
