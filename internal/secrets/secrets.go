// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file holds one secret: the filename is the key name and the trimmed
// file contents are the value.
//
// Known key files: anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// EnvBindings maps secret file names to the environment variables they feed.
var EnvBindings = map[string]string{
	"anthropic-api-key": "ANTHROPIC_API_KEY",
}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Unreadable files are logged
// and skipped.
func Load(dir string, log zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("Could not read secret")
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Export sets the environment variable bound to each loaded secret, unless the
// variable is already set. It returns the names of the variables it set.
func Export(secrets map[string]string, bindings map[string]string) ([]string, error) {
	var set []string
	for key, env := range bindings {
		value, ok := secrets[key]
		if !ok || os.Getenv(env) != "" {
			continue
		}
		if err := os.Setenv(env, value); err != nil {
			return set, fmt.Errorf("setting %s: %w", env, err)
		}
		set = append(set, env)
	}
	return set, nil
}
