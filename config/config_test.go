package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiographene/SGSchemaSync/sgerrors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
input: api/openapi.yaml
output: src/generated
pathPrefix: /api/v1
typePrefix: API_
schemaTypePrefix: Model_
generateHooks: false
files:
  types: models.ts
requester:
  mode: custom
  module: ../../requester
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "api/openapi.yaml", cfg.Input)
	assert.Equal(t, "src/generated", cfg.Output)
	assert.Equal(t, "/api/v1", cfg.PathPrefix)
	assert.Equal(t, "API_", cfg.TypePrefix)
	assert.Equal(t, "Model_", cfg.SchemaTypePrefix)
	assert.False(t, cfg.HooksEnabled())
	assert.Equal(t, "models.ts", cfg.Files.Types)
	assert.Equal(t, "api.ts", cfg.Files.API, "unset file names keep their defaults")
	assert.Equal(t, RequesterModeCustom, cfg.Requester.Mode)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
input: openapi.yaml
output: generated
requester:
  tokenModule: ./auth
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Schema_", cfg.SchemaTypePrefix)
	assert.True(t, cfg.HooksEnabled())
	assert.Equal(t, "types.ts", cfg.Files.Types)
	assert.Equal(t, "hooks.ts", cfg.Files.Hooks)
	assert.Equal(t, RequesterModeDefault, cfg.Requester.Mode)
	assert.Equal(t, "API_BASE_URL", cfg.Requester.BaseURLEnv)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sgerrors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "input: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sgerrors.ErrConfig))
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{
			Input:  "openapi.yaml",
			Output: "generated",
			Requester: RequesterConfig{
				TokenModule: "./auth",
			},
		}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing input", func(c *Config) { c.Input = "" }, "input"},
		{"missing output", func(c *Config) { c.Output = "" }, "output"},
		{"default mode without token module", func(c *Config) { c.Requester.TokenModule = "" }, "requester.tokenModule"},
		{"custom mode without module", func(c *Config) {
			c.Requester.Mode = RequesterModeCustom
			c.Requester.Module = ""
		}, "requester.module"},
		{"unknown mode", func(c *Config) { c.Requester.Mode = "grpc" }, "requester.mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var cfgErr *sgerrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestHooksEnabled(t *testing.T) {
	assert.True(t, (&Config{}).HooksEnabled(), "nil pointer means enabled")

	enabled := true
	assert.True(t, (&Config{GenerateHooks: &enabled}).HooksEnabled())

	disabled := false
	assert.False(t, (&Config{GenerateHooks: &disabled}).HooksEnabled())
}
