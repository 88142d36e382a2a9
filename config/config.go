// Package config models the sg-schema-sync.yaml project configuration.
//
// The configuration is resolved fully before generation starts; any
// invalid or incomplete field is a fatal sgerrors.ConfigError, reported
// before the first tag group is processed.
package config

import (
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/studiographene/SGSchemaSync/sgerrors"
)

// Requester modes selecting which transport the orchestrator bundles wire.
const (
	// RequesterModeDefault generates and wires the built-in fetch-based
	// requester. Requires TokenModule so the requester can attach bearer
	// tokens to authenticated operations.
	RequesterModeDefault = "default"
	// RequesterModeCustom wires a caller-supplied requester module. The
	// module is hand-authored behind the write-once scaffold boundary.
	RequesterModeCustom = "custom"
)

// DefaultFileName is the conventional project configuration file name.
const DefaultFileName = "sg-schema-sync.yaml"

// Config is the fully-resolved settings object consumed by the generator.
type Config struct {
	// Input is the OpenAPI specification path (YAML or JSON).
	Input string `yaml:"input"`

	// Output is the root directory for generated bundles.
	Output string `yaml:"output"`

	// PathPrefix is stripped from runtime request paths (never from
	// declaration names). Example: "/api/v1".
	PathPrefix string `yaml:"pathPrefix,omitempty"`

	// TypePrefix is the optional prefix applied to operation-scoped
	// declarations (request/response/parameter types).
	TypePrefix string `yaml:"typePrefix,omitempty"`

	// SchemaTypePrefix is the prefix applied to schema-derived auxiliary
	// declarations. Defaults to "Schema_".
	SchemaTypePrefix string `yaml:"schemaTypePrefix,omitempty"`

	// GenerateHooks toggles react-query hook factory generation.
	// Defaults to true.
	GenerateHooks *bool `yaml:"generateHooks,omitempty"`

	// Files overrides the per-artifact file names inside each tag directory.
	Files FileNames `yaml:"files,omitempty"`

	// Requester selects and configures the transport wired by the
	// orchestrator bundles.
	Requester RequesterConfig `yaml:"requester,omitempty"`
}

// FileNames holds the per-artifact file names inside a tag group directory.
type FileNames struct {
	Types  string `yaml:"types,omitempty"`
	API    string `yaml:"api,omitempty"`
	Hooks  string `yaml:"hooks,omitempty"`
	Client string `yaml:"client,omitempty"`
	Index  string `yaml:"index,omitempty"`
}

// RequesterConfig configures the transport the orchestrator wires in.
type RequesterConfig struct {
	// Mode is "default" (generated fetch requester) or "custom".
	Mode string `yaml:"mode,omitempty"`

	// Module is the import path of the caller-supplied requester, relative
	// to a tag group directory. Required in custom mode.
	Module string `yaml:"module,omitempty"`

	// TokenModule is the import path of a module exporting
	// getToken(): Promise<string | null>. Required in default mode.
	TokenModule string `yaml:"tokenModule,omitempty"`

	// BaseURLEnv is the environment variable the default requester reads
	// its base URL from. Defaults to "API_BASE_URL".
	BaseURLEnv string `yaml:"baseUrlEnv,omitempty"`
}

// Load reads, defaults, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sgerrors.ConfigError{Message: "failed to read " + path + ": " + err.Error()}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &sgerrors.ConfigError{Message: "invalid configuration file: " + err.Error()}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills in unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.SchemaTypePrefix == "" {
		c.SchemaTypePrefix = "Schema_"
	}
	if c.GenerateHooks == nil {
		enabled := true
		c.GenerateHooks = &enabled
	}
	if c.Files.Types == "" {
		c.Files.Types = "types.ts"
	}
	if c.Files.API == "" {
		c.Files.API = "api.ts"
	}
	if c.Files.Hooks == "" {
		c.Files.Hooks = "hooks.ts"
	}
	if c.Files.Client == "" {
		c.Files.Client = "client.ts"
	}
	if c.Files.Index == "" {
		c.Files.Index = "index.ts"
	}
	if c.Requester.Mode == "" {
		c.Requester.Mode = RequesterModeDefault
	}
	if c.Requester.BaseURLEnv == "" {
		c.Requester.BaseURLEnv = "API_BASE_URL"
	}
}

// Validate checks the configuration for fatal problems.
func (c *Config) Validate() error {
	if c.Input == "" {
		return &sgerrors.ConfigError{Field: "input", Message: "specification path is required"}
	}
	if c.Output == "" {
		return &sgerrors.ConfigError{Field: "output", Message: "output directory is required"}
	}
	switch c.Requester.Mode {
	case RequesterModeDefault:
		if c.Requester.TokenModule == "" {
			return &sgerrors.ConfigError{Field: "requester.tokenModule", Message: "required when requester.mode is default"}
		}
	case RequesterModeCustom:
		if c.Requester.Module == "" {
			return &sgerrors.ConfigError{Field: "requester.module", Message: "required when requester.mode is custom"}
		}
	default:
		return &sgerrors.ConfigError{Field: "requester.mode", Message: "must be \"default\" or \"custom\""}
	}
	return nil
}

// HooksEnabled reports whether hook generation is on.
func (c *Config) HooksEnabled() bool {
	return c.GenerateHooks == nil || *c.GenerateHooks
}
