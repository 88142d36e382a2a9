package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yaml.in/yaml/v4"
)

func TestSchemaPrimaryType(t *testing.T) {
	tests := []struct {
		name     string
		schema   *Schema
		expected string
	}{
		{"plain string type", &Schema{Type: "string"}, "string"},
		{"nil schema", nil, ""},
		{"no type", &Schema{}, ""},
		{"type array picks non-null", &Schema{Type: []interface{}{"null", "integer"}}, "integer"},
		{"type array all null", &Schema{Type: []interface{}{"null"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.schema.PrimaryType())
		})
	}
}

func TestSchemaIsNullable(t *testing.T) {
	assert.True(t, (&Schema{Type: "string", Nullable: true}).IsNullable(), "OAS 3.0 nullable keyword")
	assert.True(t, (&Schema{Type: []interface{}{"string", "null"}}).IsNullable(), "OAS 3.1 type array")
	assert.False(t, (&Schema{Type: "string"}).IsNullable())
	assert.False(t, (*Schema)(nil).IsNullable())
}

func TestSchemaUnmarshalNormalizesAdditionalProperties(t *testing.T) {
	doc := `
type: object
additionalProperties:
  type: integer
`
	var s Schema
	require.NoError(t, yaml.Unmarshal([]byte(doc), &s))

	sub := s.AdditionalSchema()
	require.NotNil(t, sub, "map-valued additionalProperties must surface as *Schema")
	assert.Equal(t, "integer", sub.PrimaryType())
	assert.True(t, s.AllowsAdditional())
}

func TestSchemaUnmarshalBooleanAdditionalProperties(t *testing.T) {
	var open Schema
	require.NoError(t, yaml.Unmarshal([]byte("type: object\nadditionalProperties: true\n"), &open))
	assert.Nil(t, open.AdditionalSchema())
	assert.True(t, open.AllowsAdditional())

	var closed Schema
	require.NoError(t, yaml.Unmarshal([]byte("type: object\nadditionalProperties: false\n"), &closed))
	assert.False(t, closed.AllowsAdditional())
}

func TestSchemaIsRequired(t *testing.T) {
	s := &Schema{
		Type:     "object",
		Required: []string{"id"},
		Properties: map[string]*Schema{
			"id":   {Type: "integer"},
			"name": {Type: "string"},
		},
	}

	assert.True(t, s.IsRequired("id"))
	assert.False(t, s.IsRequired("name"))
	assert.False(t, (*Schema)(nil).IsRequired("id"))
}

func TestSchemaUnmarshalNested(t *testing.T) {
	doc := `
type: object
required: [tags]
properties:
  tags:
    type: array
    items:
      $ref: '#/components/schemas/Tag'
  meta:
    type: object
    additionalProperties:
      type: string
`
	var s Schema
	require.NoError(t, yaml.Unmarshal([]byte(doc), &s))

	tags := s.Properties["tags"]
	require.NotNil(t, tags)
	require.NotNil(t, tags.Items)
	assert.Equal(t, "#/components/schemas/Tag", tags.Items.Ref)

	meta := s.Properties["meta"]
	require.NotNil(t, meta)
	require.NotNil(t, meta.AdditionalSchema(), "normalization applies recursively")
}
