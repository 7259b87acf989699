// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
	"reflect"

	"github.com/daviddl9/inquire/pkg/types"
)

// Schema describes the shape an extraction result must have.
type Schema interface {
	// Name identifies the expected shape in error messages.
	Name() string

	// Conforms reports whether v has the expected shape.
	Conforms(v any) bool
}

// typeSchema matches values whose dynamic type is exactly T.
type typeSchema[T any] struct{}

// TypeOf returns a Schema satisfied by values of dynamic type T. For an
// interface type T, any value implementing T conforms.
func TypeOf[T any]() Schema {
	return typeSchema[T]{}
}

func (typeSchema[T]) Name() string {
	return reflect.TypeFor[T]().String()
}

func (typeSchema[T]) Conforms(v any) bool {
	_, ok := v.(T)
	return ok
}

// classSchema matches records that pass Definitions.Check for one class.
type classSchema struct {
	defs  *types.Definitions
	class string
}

// ClassSchema returns a Schema satisfied by decoded records
// (map[string]any) of the named class in defs.
func ClassSchema(defs *types.Definitions, class string) Schema {
	return classSchema{defs: defs, class: class}
}

func (s classSchema) Name() string { return s.class }

func (s classSchema) Conforms(v any) bool {
	return s.Explain(v) == nil
}

// Explain returns the reasons v does not conform, or nil.
func (s classSchema) Explain(v any) error {
	if s.defs == nil {
		return errors.New("no schema definitions loaded")
	}
	return s.defs.Check(s.class, v)
}

// explainer is implemented by schemas that can say why a value failed.
type explainer interface {
	Explain(v any) error
}

// Extractor turns research text into a structured value.
type Extractor interface {
	// Name is the extraction function name the schema manager recognizes.
	Name() string

	// Extract parses text into a value.
	Extract(ctx context.Context, text string) (any, error)
}

type funcExtractor struct {
	name string
	fn   func(ctx context.Context, text string) (any, error)
}

func (f *funcExtractor) Name() string { return f.name }

func (f *funcExtractor) Extract(ctx context.Context, text string) (any, error) {
	return f.fn(ctx, text)
}

// ExtractorFunc adapts a plain function to an Extractor registered under name.
// A nil fn yields a nil Extractor.
func ExtractorFunc(name string, fn func(ctx context.Context, text string) (any, error)) Extractor {
	if fn == nil {
		return nil
	}
	return &funcExtractor{name: name, fn: fn}
}
