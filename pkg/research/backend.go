// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"

	"github.com/daviddl9/inquire/internal/llm"
	"github.com/daviddl9/inquire/pkg/types"
)

// Backend produces research text from instructions. Implementations may block
// and may fail; they must honor ctx.
type Backend interface {
	Produce(ctx context.Context, instructions string) (string, error)
}

// BackendFunc adapts a plain function to a Backend.
type BackendFunc func(ctx context.Context, instructions string) (string, error)

// Produce calls f.
func (f BackendFunc) Produce(ctx context.Context, instructions string) (string, error) {
	return f(ctx, instructions)
}

// PlaceholderBackend wraps the instructions in a fixed template instead of
// running any research.
type PlaceholderBackend struct{}

// Produce returns "[Research output for: <instructions>]".
func (PlaceholderBackend) Produce(ctx context.Context, instructions string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("[Research output for: %s]", instructions), nil
}

// newBackend builds the backend selected by the backend configuration key.
func newBackend(cfg types.ResearchConfig) (Backend, error) {
	switch cfg.Backend() {
	case types.BackendClaude:
		client, err := llm.FromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating claude backend: %w", err)
		}
		return llm.NewResearchBackend(client), nil
	default:
		return PlaceholderBackend{}, nil
	}
}
