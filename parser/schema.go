package parser

import "go.yaml.in/yaml/v4"

// Schema represents a JSON-Schema-shaped fragment as used by OAS 3.x.
// Only the keywords that influence generated TypeScript shapes are modeled;
// unknown keywords are dropped during decoding.
type Schema struct {
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Type is a string in OAS 3.0 and may be a []string in OAS 3.1+.
	Type interface{}   `yaml:"type,omitempty" json:"type,omitempty"`
	Enum []interface{} `yaml:"enum,omitempty" json:"enum,omitempty"`

	Format   string `yaml:"format,omitempty" json:"format,omitempty"`
	Nullable bool   `yaml:"nullable,omitempty" json:"nullable,omitempty"` // OAS 3.0 only

	Items                *Schema            `yaml:"items,omitempty" json:"items,omitempty"`
	Properties           map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required             []string           `yaml:"required,omitempty" json:"required,omitempty"`
	AdditionalProperties interface{}        `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"` // *Schema or bool

	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`

	Default    interface{} `yaml:"default,omitempty" json:"default,omitempty"`
	Example    interface{} `yaml:"example,omitempty" json:"example,omitempty"`
	Deprecated bool        `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
}

// UnmarshalYAML decodes a schema and normalizes additionalProperties so that
// an object-valued additionalProperties always surfaces as a *Schema rather
// than an untyped map.
func (s *Schema) UnmarshalYAML(unmarshal func(any) error) error {
	type plain Schema
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	*s = Schema(p)

	if m, ok := s.AdditionalProperties.(map[string]any); ok {
		data, err := yaml.Marshal(m)
		if err != nil {
			return err
		}
		var sub Schema
		if err := yaml.Unmarshal(data, &sub); err != nil {
			return err
		}
		s.AdditionalProperties = &sub
	}
	return nil
}

// PrimaryType returns the schema's type as a single string. For OAS 3.1+
// type arrays the first non-"null" entry wins. An empty string means the
// schema declares no type.
func (s *Schema) PrimaryType() string {
	if s == nil {
		return ""
	}
	switch t := s.Type.(type) {
	case string:
		return t
	case []interface{}:
		for _, v := range t {
			if str, ok := v.(string); ok && str != "null" {
				return str
			}
		}
	case []string:
		for _, str := range t {
			if str != "null" {
				return str
			}
		}
	}
	return ""
}

// IsNullable reports whether the schema admits null, either via the OAS 3.0
// nullable keyword or an OAS 3.1+ type array containing "null".
func (s *Schema) IsNullable() bool {
	if s == nil {
		return false
	}
	if s.Nullable {
		return true
	}
	switch t := s.Type.(type) {
	case []interface{}:
		for _, v := range t {
			if str, ok := v.(string); ok && str == "null" {
				return true
			}
		}
	case []string:
		for _, str := range t {
			if str == "null" {
				return true
			}
		}
	}
	return false
}

// AdditionalSchema returns the additionalProperties schema when one is
// declared, or nil when additionalProperties is absent, boolean, or malformed.
func (s *Schema) AdditionalSchema() *Schema {
	if s == nil {
		return nil
	}
	if sub, ok := s.AdditionalProperties.(*Schema); ok {
		return sub
	}
	return nil
}

// AllowsAdditional reports whether the schema permits additional properties
// (explicitly via a schema, or via additionalProperties: true).
func (s *Schema) AllowsAdditional() bool {
	if s == nil {
		return false
	}
	switch v := s.AdditionalProperties.(type) {
	case *Schema:
		return true
	case bool:
		return v
	}
	return false
}

// IsRequired reports whether name is listed in the schema's required array.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
