// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs a research backend over free-form instructions and
// extracts a schema-conforming value from the resulting text.
//
// A call to Researcher.Research makes sure the schema manager is loaded,
// checks that the extractor is a declared extraction function, produces
// research text, runs the extractor on it and verifies the result against
// the requested Schema. Any failure is returned immediately; nothing is
// retried.
package research

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/daviddl9/inquire/internal/config"
	"github.com/daviddl9/inquire/internal/schema"
	"github.com/daviddl9/inquire/pkg/types"
)

// Named identifies an extraction function by name.
type Named = schema.Named

// Capabilities is the extraction-capability manager a Researcher relies on.
// Init must be idempotent and safe for concurrent first use.
type Capabilities interface {
	Init(ctx context.Context) error
	Verify(fn Named) error
	Definitions() *types.Definitions
}

// Researcher coordinates one configuration, one capability manager and one
// research backend. It is safe for concurrent use.
type Researcher struct {
	cfg     types.ResearchConfig
	caps    Capabilities
	backend Backend
	log     zerolog.Logger
}

type options struct {
	schemaDir any
	caps      Capabilities
	backend   Backend
	log       zerolog.Logger
}

// Option configures a Researcher.
type Option func(*options)

// WithSchemaDir overrides the baml_dir configuration key. Any path-like value
// (string, []byte, fmt.Stringer) is accepted.
func WithSchemaDir(path any) Option {
	return func(o *options) { o.schemaDir = path }
}

// WithBackend replaces the backend selected by configuration.
func WithBackend(b Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithCapabilities replaces the default schema manager.
func WithCapabilities(c Capabilities) Option {
	return func(o *options) { o.caps = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// New builds a Researcher from configuration overrides. The configuration is
// validated before New returns; a *ConfigurationError reports the field at
// fault.
func New(overrides map[string]any, opts ...Option) (*Researcher, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.FromOverrides(overrides).WithSchemaDir(o.schemaDir).Build()
	if err != nil {
		return nil, err
	}

	caps := o.caps
	if caps == nil {
		caps = schema.NewManager(cfg.SchemaDir, schema.WithLogger(o.log))
	}

	backend := o.backend
	if backend == nil {
		backend, err = newBackend(cfg)
		if err != nil {
			return nil, err
		}
	}

	return &Researcher{
		cfg:     cfg,
		caps:    caps,
		backend: backend,
		log:     o.log,
	}, nil
}

// Config returns the validated configuration.
func (r *Researcher) Config() types.ResearchConfig {
	return r.cfg
}

// Definitions makes sure the schema manager is loaded and returns its
// definitions.
func (r *Researcher) Definitions(ctx context.Context) (*types.Definitions, error) {
	if err := r.caps.Init(ctx); err != nil {
		return nil, fmt.Errorf("initializing schema manager: %w", err)
	}
	return r.caps.Definitions(), nil
}

// Research produces research text for instructions, runs extractor over it
// and returns the result once it conforms to s. The returned value is the
// extractor's result, unmodified.
func (r *Researcher) Research(ctx context.Context, instructions string, s Schema, extractor Extractor) (any, error) {
	if s == nil {
		return nil, ErrSchemaRequired
	}

	if err := r.caps.Init(ctx); err != nil {
		return nil, fmt.Errorf("initializing schema manager: %w", err)
	}

	if extractor == nil {
		return nil, &InvalidFunctionError{Reason: "no extraction function supplied"}
	}
	if err := r.caps.Verify(extractor); err != nil {
		return nil, err
	}
	name := extractor.Name()

	log := r.log.With().
		Str("run_id", uuid.NewString()).
		Str("function", name).
		Str("schema", s.Name()).
		Logger()
	start := time.Now()
	log.Debug().Msg("Starting research")

	text, err := r.backend.Produce(ctx, instructions)
	if err != nil {
		log.Warn().Err(err).Msg("Research backend failed")
		return nil, &ResearchError{Err: err}
	}

	result, err := extractor.Extract(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("Extraction failed")
		return nil, &ExtractionError{
			Function: name,
			Message:  fmt.Sprintf("extraction with %s failed: %v", name, err),
			Err:      err,
		}
	}

	if !s.Conforms(result) {
		msg := fmt.Sprintf("extraction function %s returned %T, expected %s", name, result, s.Name())
		if ex, ok := s.(explainer); ok {
			if why := ex.Explain(result); why != nil {
				msg += ": " + why.Error()
			}
		}
		log.Warn().Str("actual", fmt.Sprintf("%T", result)).Msg("Extraction result does not match schema")
		return nil, &ExtractionError{Function: name, Message: msg}
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("Research complete")
	return result, nil
}

// Research builds a Researcher from overrides and runs a single call on it.
// A nil overrides map means the defaults.
func Research(ctx context.Context, instructions string, s Schema, extractor Extractor, overrides map[string]any, opts ...Option) (any, error) {
	r, err := New(overrides, opts...)
	if err != nil {
		return nil, err
	}
	return r.Research(ctx, instructions, s, extractor)
}

// As runs r.Research with TypeOf[T] and returns the result as a T.
func As[T any](ctx context.Context, r *Researcher, instructions string, extractor Extractor) (T, error) {
	var zero T
	v, err := r.Research(ctx, instructions, TypeOf[T](), extractor)
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
