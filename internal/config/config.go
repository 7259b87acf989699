// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds and validates the research configuration.
// A Builder layers caller overrides onto the defaults, accepts one schema
// directory override, and only hands out a ResearchConfig once it validates.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/daviddl9/inquire/pkg/types"
)

// DefaultSchemaDirName is the schema directory used when baml_dir is not set,
// resolved against the current working directory.
const DefaultSchemaDirName = "baml_schemas"

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 4096
)

// Defaults returns the built-in configuration values. baml_dir is resolved
// against the working directory at call time.
func Defaults() map[string]any {
	dir := DefaultSchemaDirName
	if wd, err := os.Getwd(); err == nil {
		dir = filepath.Join(wd, DefaultSchemaDirName)
	}
	return map[string]any{
		types.KeySchemaDir: dir,
		types.KeyBackend:   string(types.BackendPlaceholder),
		types.KeyModel:     defaultModel,
		types.KeyMaxTokens: defaultMaxTokens,
	}
}

// Builder accumulates configuration before validation.
type Builder struct {
	values map[string]any
}

// FromOverrides merges overrides onto Defaults. Keys present in overrides
// replace the default; unknown keys are kept as-is. Nothing is validated.
func FromOverrides(overrides map[string]any) *Builder {
	values := Defaults()
	maps.Copy(values, overrides)
	return &Builder{values: values}
}

// WithSchemaDir overrides baml_dir. A nil path leaves the current value.
func (b *Builder) WithSchemaDir(path any) *Builder {
	if path != nil {
		b.values[types.KeySchemaDir] = path
	}
	return b
}

// Build resolves the schema directory and validates the result. It is the
// only way to obtain a ResearchConfig.
func (b *Builder) Build() (types.ResearchConfig, error) {
	dir, err := pathString(b.values[types.KeySchemaDir])
	if err != nil {
		return types.ResearchConfig{}, &types.ConfigurationError{
			Field:  types.KeySchemaDir,
			Reason: err.Error(),
		}
	}
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}

	cfg := types.NewResearchConfig(dir, b.values)
	if err := Validate(cfg); err != nil {
		return types.ResearchConfig{}, err
	}
	return cfg, nil
}

// Validate checks that the schema directory exists and is a readable
// directory, and that typed keys hold usable values. It returns a
// *types.ConfigurationError naming the offending field, or nil.
func Validate(cfg types.ResearchConfig) error {
	if cfg.SchemaDir == "" {
		return &types.ConfigurationError{Field: types.KeySchemaDir, Reason: "not set"}
	}

	info, err := os.Stat(cfg.SchemaDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &types.ConfigurationError{
				Field:  types.KeySchemaDir,
				Reason: fmt.Sprintf("%s does not exist", cfg.SchemaDir),
			}
		}
		return &types.ConfigurationError{Field: types.KeySchemaDir, Reason: "cannot stat " + cfg.SchemaDir, Err: err}
	}
	if !info.IsDir() {
		return &types.ConfigurationError{
			Field:  types.KeySchemaDir,
			Reason: fmt.Sprintf("%s is not a directory", cfg.SchemaDir),
		}
	}
	if _, err := os.ReadDir(cfg.SchemaDir); err != nil {
		return &types.ConfigurationError{Field: types.KeySchemaDir, Reason: "cannot read " + cfg.SchemaDir, Err: err}
	}

	if v, ok := cfg.Get(types.KeyMaxTokens); ok {
		n, isInt := types.AsInt(v)
		if !isInt || n <= 0 {
			return &types.ConfigurationError{
				Field:  types.KeyMaxTokens,
				Reason: fmt.Sprintf("must be a positive integer, got %v", v),
			}
		}
	}

	switch kind := cfg.Backend(); kind {
	case types.BackendPlaceholder, types.BackendClaude, "":
	default:
		return &types.ConfigurationError{
			Field:  types.KeyBackend,
			Reason: fmt.Sprintf("unknown backend %q", kind),
		}
	}

	return nil
}

// pathString accepts the path-like values a caller may pass for baml_dir.
func pathString(v any) (string, error) {
	switch p := v.(type) {
	case nil:
		return "", nil
	case string:
		return p, nil
	case []byte:
		return string(p), nil
	case fmt.Stringer:
		return p.String(), nil
	default:
		return "", fmt.Errorf("expected a path, got %T", v)
	}
}
