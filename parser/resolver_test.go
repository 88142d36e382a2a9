package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yaml.in/yaml/v4"
)

func rawDocument(t *testing.T, doc string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestResolverInlinesLocalRef(t *testing.T) {
	raw := rawDocument(t, `
paths:
  /pets:
    get:
      parameters:
        - $ref: '#/components/parameters/Limit'
components:
  parameters:
    Limit:
      name: limit
      in: query
`)
	r := newRefResolver(raw, ".", defaultMaxRefDepth, NopLogger{})
	r.resolveDocument()

	assert.Empty(t, r.warnings)
	params := raw["paths"].(map[string]any)["/pets"].(map[string]any)["get"].(map[string]any)["parameters"].([]any)
	param, ok := params[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "limit", param["name"])
	assert.NotContains(t, param, "$ref")
}

func TestResolverLeavesSchemaRefs(t *testing.T) {
	raw := rawDocument(t, `
paths:
  /pets:
    get:
      responses:
        '200':
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
`)
	r := newRefResolver(raw, ".", defaultMaxRefDepth, NopLogger{})
	r.resolveDocument()

	assert.Empty(t, r.warnings)
	schema := raw["paths"].(map[string]any)["/pets"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)["200"].(map[string]any)["content"].(map[string]any)["application/json"].(map[string]any)["schema"].(map[string]any)
	assert.Equal(t, "#/components/schemas/Pet", schema["$ref"])
}

func TestResolverWarnsOnMissingRef(t *testing.T) {
	raw := rawDocument(t, `
paths:
  /pets:
    get:
      parameters:
        - $ref: '#/components/parameters/Missing'
`)
	r := newRefResolver(raw, ".", defaultMaxRefDepth, NopLogger{})
	r.resolveDocument()

	require.Len(t, r.warnings, 1)
	assert.Contains(t, r.warnings[0], "failed to resolve local reference #/components/parameters/Missing")

	params := raw["paths"].(map[string]any)["/pets"].(map[string]any)["get"].(map[string]any)["parameters"].([]any)
	param := params[0].(map[string]any)
	assert.Equal(t, "#/components/parameters/Missing", param["$ref"], "unresolvable refs are left in place")
}

func TestResolverCircularRef(t *testing.T) {
	raw := rawDocument(t, `
components:
  parameters:
    A:
      $ref: '#/components/parameters/B'
    B:
      $ref: '#/components/parameters/A'
`)
	r := newRefResolver(raw, ".", defaultMaxRefDepth, NopLogger{})
	r.resolveDocument()

	require.NotEmpty(t, r.warnings)
	assert.Contains(t, r.warnings[0], "circular reference detected")
}

func TestResolverRelativeFileRef(t *testing.T) {
	dir := t.TempDir()
	shared := "Limit:\n  name: limit\n  in: query\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.yaml"), []byte(shared), 0o644))

	raw := rawDocument(t, `
paths:
  /pets:
    get:
      parameters:
        - $ref: 'shared.yaml#/Limit'
`)
	r := newRefResolver(raw, dir, defaultMaxRefDepth, NopLogger{})
	r.resolveDocument()

	assert.Empty(t, r.warnings)
	params := raw["paths"].(map[string]any)["/pets"].(map[string]any)["get"].(map[string]any)["parameters"].([]any)
	param := params[0].(map[string]any)
	assert.Equal(t, "limit", param["name"])
}

func TestResolverDeepCopyDoesNotAlias(t *testing.T) {
	raw := rawDocument(t, `
paths:
  /a:
    get:
      parameters:
        - $ref: '#/components/parameters/Limit'
  /b:
    get:
      parameters:
        - $ref: '#/components/parameters/Limit'
components:
  parameters:
    Limit:
      name: limit
      in: query
`)
	r := newRefResolver(raw, ".", defaultMaxRefDepth, NopLogger{})
	r.resolveDocument()

	a := raw["paths"].(map[string]any)["/a"].(map[string]any)["get"].(map[string]any)["parameters"].([]any)[0].(map[string]any)
	b := raw["paths"].(map[string]any)["/b"].(map[string]any)["get"].(map[string]any)["parameters"].([]any)[0].(map[string]any)

	a["name"] = "mutated"
	assert.Equal(t, "limit", b["name"], "each use site gets its own copy")
}

func TestResolvePointer(t *testing.T) {
	doc := rawDocument(t, `
components:
  parameters:
    - name: first
a~b:
  a/b: deep
`)

	value, err := resolvePointer(doc, "#/components/parameters/0/name")
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	value, err = resolvePointer(doc, "#/a~0b/a~1b")
	require.NoError(t, err)
	assert.Equal(t, "deep", value, "RFC 6901 escapes are honored")

	_, err = resolvePointer(doc, "#/missing/key")
	require.Error(t, err)

	_, err = resolvePointer(doc, "#/components/parameters/9")
	require.Error(t, err)
}
