// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"maps"
)

// Documented configuration keys. Any other key is carried through unvalidated.
const (
	KeySchemaDir = "baml_dir"
	KeyBackend   = "backend"
	KeyModel     = "model"
	KeyMaxTokens = "max_tokens"
)

// BackendKind selects the research backend.
type BackendKind string

const (
	BackendPlaceholder BackendKind = "placeholder"
	BackendClaude      BackendKind = "claude"
)

// ResearchConfig is the resolved, validated configuration for a Researcher.
// Values are only produced by config.Builder.Build; treat them as read-only.
type ResearchConfig struct {
	// SchemaDir is the directory holding the extraction-schema definitions.
	SchemaDir string `json:"baml_dir" yaml:"baml_dir"`

	// values is the merged defaults-plus-overrides mapping, including baml_dir.
	values map[string]any
}

// NewResearchConfig assembles a ResearchConfig from a resolved schema directory
// and merged values. The map is copied.
func NewResearchConfig(schemaDir string, values map[string]any) ResearchConfig {
	v := make(map[string]any, len(values)+1)
	maps.Copy(v, values)
	v[KeySchemaDir] = schemaDir
	return ResearchConfig{SchemaDir: schemaDir, values: v}
}

// Values returns a copy of the merged configuration mapping.
func (c ResearchConfig) Values() map[string]any {
	return maps.Clone(c.values)
}

// Get returns the raw value stored under key.
func (c ResearchConfig) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// String returns the value under key rendered as a string, or "" when absent.
func (c ResearchConfig) String(key string) string {
	v, ok := c.values[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the value under key as an int. The second result is false when
// the key is absent or its value is not an integral number.
func (c ResearchConfig) Int(key string) (int, bool) {
	return AsInt(c.values[key])
}

// Backend returns the configured research backend kind.
func (c ResearchConfig) Backend() BackendKind {
	return BackendKind(c.String(KeyBackend))
}

// AsInt converts the integral numeric kinds produced by YAML, JSON and viper
// decoding into an int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		if float32(int(n)) == n {
			return int(n), true
		}
	case float64:
		if float64(int(n)) == n {
			return int(n), true
		}
	}
	return 0, false
}
