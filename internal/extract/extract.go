// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract implements extraction functions declared in schema
// definitions. Each Function asks a language model to fill in its return
// class and decodes the JSON reply into a record (map[string]any).
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/daviddl9/inquire/internal/llm"
	"github.com/daviddl9/inquire/pkg/types"
)

// Function is a declared extraction function bound to a language model.
type Function struct {
	def    types.FunctionDef
	class  types.ClassDef
	nested []types.ClassDef
	llm    llm.Completer
}

// New binds the function named name in defs to c.
func New(defs *types.Definitions, name string, c llm.Completer) (*Function, error) {
	if defs == nil {
		return nil, errors.New("no schema definitions loaded")
	}
	def, ok := defs.Function(name)
	if !ok {
		return nil, fmt.Errorf("unknown extraction function %q", name)
	}
	class, ok := defs.Class(def.Returns)
	if !ok {
		return nil, fmt.Errorf("function %q returns unknown class %q", name, def.Returns)
	}
	return &Function{
		def:    def,
		class:  class,
		nested: nestedClasses(defs, class),
		llm:    c,
	}, nil
}

// Name returns the declared function name.
func (f *Function) Name() string { return f.def.Name }

// Returns is the name of the class the function produces.
func (f *Function) Returns() string { return f.def.Returns }

// Extract asks the model for a record of the return class and decodes it.
// The record is not validated here; the caller checks it against the class.
func (f *Function) Extract(ctx context.Context, text string) (any, error) {
	prompt, err := renderPrompt(promptData{
		Instructions: strings.TrimSpace(f.def.Prompt),
		Class:        f.class,
		Nested:       f.nested,
		Text:         text,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := f.llm.Complete(ctx, extractionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	record, err := decodeRecord(reply)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", f.def.Name, err)
	}
	return record, nil
}

// decodeRecord pulls the JSON object out of a model reply. Markdown code
// fences and text around the outermost braces are ignored.
func decodeRecord(reply string) (map[string]any, error) {
	s := strings.TrimSpace(reply)
	if fenced, ok := strings.CutPrefix(s, "```"); ok {
		// Drop an optional language tag on the fence line.
		if nl := strings.IndexByte(fenced, '\n'); nl >= 0 {
			fenced = fenced[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(fenced), "```")
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, errors.New("no JSON object in response")
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &record); err != nil {
		return nil, err
	}
	return record, nil
}

// nestedClasses returns the classes referenced by fields of c, transitively,
// in first-seen order.
func nestedClasses(defs *types.Definitions, c types.ClassDef) []types.ClassDef {
	seen := map[string]bool{c.Name: true}
	var out []types.ClassDef
	queue := []types.ClassDef{c}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, fd := range cur.Fields {
			name := strings.TrimSuffix(fd.Type, "[]")
			if seen[name] {
				continue
			}
			if nc, ok := defs.Class(name); ok {
				seen[name] = true
				out = append(out, nc)
				queue = append(queue, nc)
			}
		}
	}
	return out
}
