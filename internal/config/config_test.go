// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviddl9/inquire/pkg/types"
)

type stringerPath string

func (s stringerPath) String() string { return string(s) }

func TestFromOverrides_PreservesKeysAndDefaults(t *testing.T) {
	dir := t.TempDir()
	overrides := map[string]any{
		types.KeySchemaDir: dir,
		types.KeyModel:     "claude-haiku-4-5",
		"temperature":      0.3,
		"client_options":   map[string]any{"timeout": "30s"},
	}

	cfg, err := FromOverrides(overrides).Build()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.SchemaDir)
	assert.Equal(t, "claude-haiku-4-5", cfg.String(types.KeyModel))
	v, ok := cfg.Get("temperature")
	require.True(t, ok)
	assert.Equal(t, 0.3, v)
	v, ok = cfg.Get("client_options")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"timeout": "30s"}, v)

	// Keys not overridden fall back to the defaults.
	assert.Equal(t, types.BackendPlaceholder, cfg.Backend())
	n, ok := cfg.Int(types.KeyMaxTokens)
	require.True(t, ok)
	assert.Equal(t, defaultMaxTokens, n)
}

func TestFromOverrides_DoesNotMutateInput(t *testing.T) {
	overrides := map[string]any{"temperature": 0.3}
	b := FromOverrides(overrides).WithSchemaDir(t.TempDir())
	_, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"temperature": 0.3}, overrides)
}

func TestDefaults_SchemaDirUnderWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, DefaultSchemaDirName), Defaults()[types.KeySchemaDir])
}

func TestWithSchemaDir_PathLikeValues(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path any
	}{
		{"string", dir},
		{"bytes", []byte(dir)},
		{"stringer", stringerPath(dir)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromOverrides(nil).WithSchemaDir(tt.path).Build()
			require.NoError(t, err)
			assert.Equal(t, dir, cfg.SchemaDir)
		})
	}
}

func TestWithSchemaDir_OverridesMapValue(t *testing.T) {
	dir := t.TempDir()
	cfg, err := FromOverrides(map[string]any{types.KeySchemaDir: "/does/not/exist"}).
		WithSchemaDir(dir).
		Build()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.SchemaDir)
}

func TestBuild_ValidationFailures(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "schemas.yaml")
	require.NoError(t, os.WriteFile(file, []byte("classes: []\n"), 0o644))

	tests := []struct {
		name      string
		overrides map[string]any
		field     string
		reason    string
	}{
		{
			name:      "missing directory",
			overrides: map[string]any{types.KeySchemaDir: filepath.Join(base, "nope")},
			field:     types.KeySchemaDir,
			reason:    "does not exist",
		},
		{
			name:      "file instead of directory",
			overrides: map[string]any{types.KeySchemaDir: file},
			field:     types.KeySchemaDir,
			reason:    "is not a directory",
		},
		{
			name:      "non path value",
			overrides: map[string]any{types.KeySchemaDir: 42},
			field:     types.KeySchemaDir,
			reason:    "expected a path, got int",
		},
		{
			name:      "empty path",
			overrides: map[string]any{types.KeySchemaDir: ""},
			field:     types.KeySchemaDir,
			reason:    "not set",
		},
		{
			name:      "non positive max_tokens",
			overrides: map[string]any{types.KeySchemaDir: base, types.KeyMaxTokens: 0},
			field:     types.KeyMaxTokens,
			reason:    "must be a positive integer",
		},
		{
			name:      "string max_tokens",
			overrides: map[string]any{types.KeySchemaDir: base, types.KeyMaxTokens: "lots"},
			field:     types.KeyMaxTokens,
			reason:    "must be a positive integer",
		},
		{
			name:      "unknown backend",
			overrides: map[string]any{types.KeySchemaDir: base, types.KeyBackend: "gpt"},
			field:     types.KeyBackend,
			reason:    `unknown backend "gpt"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromOverrides(tt.overrides).Build()
			require.Error(t, err)

			var cfgErr *types.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "want *ConfigurationError, got %T", err)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, cfgErr.Error(), tt.reason)
		})
	}
}

func TestValidate_NoOpOnValidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := FromOverrides(map[string]any{types.KeySchemaDir: dir}).Build()
	require.NoError(t, err)

	before := cfg.Values()
	require.NoError(t, Validate(cfg))
	require.NoError(t, Validate(cfg))
	assert.Equal(t, before, cfg.Values())
}

func TestValidate_DirectoryRemovedAfterBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "schemas")
	require.NoError(t, os.Mkdir(dir, 0o755))
	cfg, err := FromOverrides(map[string]any{types.KeySchemaDir: dir}).Build()
	require.NoError(t, err)

	require.NoError(t, os.Remove(dir))
	var cfgErr *types.ConfigurationError
	require.ErrorAs(t, Validate(cfg), &cfgErr)
	assert.Equal(t, types.KeySchemaDir, cfgErr.Field)
}
