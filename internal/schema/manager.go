// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema loads extraction-schema definitions and recognizes the
// extraction functions they declare.
//
// A Manager starts uninitialized. The first successful Init loads every
// *.yaml and *.yml file in the schema directory and moves it to ready;
// later calls return immediately. There is no way back to uninitialized.
package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/daviddl9/inquire/pkg/types"
)

// Named is anything that identifies itself by an extraction function name.
type Named interface {
	Name() string
}

// loadFunc reads the definitions under dir. Tests substitute it to count or
// block loads.
type loadFunc func(ctx context.Context, dir string) (*types.Definitions, error)

// Manager owns the definitions loaded from one schema directory.
type Manager struct {
	dir  string
	log  zerolog.Logger
	load loadFunc

	// sem serializes loaders. defs is published once, after a full load.
	sem  chan struct{}
	defs atomic.Pointer[types.Definitions]
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager returns an uninitialized Manager for dir.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:  dir,
		log:  zerolog.Nop(),
		load: LoadDir,
		sem:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the schema directory.
func (m *Manager) Dir() string { return m.dir }

// Init loads the definitions on first use. It is safe for concurrent use:
// one caller loads while the others wait, honoring ctx. A failed or
// cancelled load leaves the Manager uninitialized.
func (m *Manager) Init(ctx context.Context) error {
	if m.defs.Load() != nil {
		return nil
	}

	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-m.sem }()

	if m.defs.Load() != nil {
		return nil
	}

	defs, err := m.load(ctx, m.dir)
	if err != nil {
		return fmt.Errorf("loading schema definitions from %s: %w", m.dir, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.defs.Store(defs)
	m.log.Debug().
		Str("dir", m.dir).
		Int("classes", len(defs.ClassNames())).
		Int("functions", len(defs.FunctionNames())).
		Msg("Schema definitions loaded")
	return nil
}

// Ready reports whether Init has completed successfully.
func (m *Manager) Ready() bool {
	return m.Definitions() != nil
}

// Definitions returns the loaded definitions, or nil before Init succeeds.
func (m *Manager) Definitions() *types.Definitions {
	return m.defs.Load()
}

// Verify reports whether fn is an extraction function declared in the loaded
// definitions. It returns a *types.InvalidFunctionError otherwise.
func (m *Manager) Verify(fn Named) error {
	if isNil(fn) {
		return &types.InvalidFunctionError{Reason: "no extraction function supplied"}
	}
	name := fn.Name()
	if name == "" {
		return &types.InvalidFunctionError{Reason: "extraction function has no name"}
	}

	defs := m.Definitions()
	if defs == nil {
		return &types.InvalidFunctionError{Function: name, Reason: "schema manager is not initialized"}
	}
	if _, ok := defs.Function(name); !ok {
		return &types.InvalidFunctionError{
			Function: name,
			Reason:   fmt.Sprintf("not declared in %s", m.dir),
		}
	}
	return nil
}

func isNil(fn Named) bool {
	if fn == nil {
		return true
	}
	v := reflect.ValueOf(fn)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// LoadDir parses every *.yaml and *.yml file directly under dir, in name
// order, and resolves cross references.
func LoadDir(ctx context.Context, dir string) (*types.Definitions, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading schema directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	defs := types.NewDefinitions()
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var f types.SchemaFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if err := defs.Add(name, f); err != nil {
			return nil, err
		}
	}

	if err := defs.Resolve(); err != nil {
		return nil, err
	}
	return defs, nil
}
