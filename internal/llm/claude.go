// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the Claude Messages API behind a small Completer
// interface shared by the research backend and the extraction functions.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/daviddl9/inquire/pkg/types"
)

// APIKeyEnv is the environment variable consulted for the API key.
const APIKeyEnv = "ANTHROPIC_API_KEY"

// KeyAPIKey is the configuration key that may carry the API key.
const KeyAPIKey = "api_key"

const defaultMaxTokens = 4096

// ErrAPIKeyRequired is returned when no API key is configured.
var ErrAPIKeyRequired = errors.New("API key required")

// Completer sends one prompt to a language model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Claude is a Completer backed by the Anthropic SDK. The SDK's own retries
// are disabled; a failed call is returned to the caller as-is.
type Claude struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClaude creates a client for model. An explicit apiKey wins over the
// ANTHROPIC_API_KEY environment variable. Extra request options (base URL,
// HTTP client) are applied after the defaults.
func NewClaude(apiKey, model string, maxTokens int, opts ...option.RequestOption) (*Claude, error) {
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set %s or provide %s in the configuration", ErrAPIKeyRequired, APIKeyEnv, KeyAPIKey)
	}
	if model == "" {
		return nil, errors.New("model required")
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &Claude{
		client:    anthropic.NewClient(reqOpts...),
		model:     anthropic.Model(model),
		maxTokens: int64(maxTokens),
	}, nil
}

// FromConfig creates a Claude client from the model, max_tokens and api_key
// configuration keys.
func FromConfig(cfg types.ResearchConfig, opts ...option.RequestOption) (*Claude, error) {
	maxTokens, _ := cfg.Int(types.KeyMaxTokens)
	return NewClaude(cfg.String(KeyAPIKey), cfg.String(types.KeyModel), maxTokens, opts...)
}

// Model returns the model identifier.
func (c *Claude) Model() string { return string(c.model) }

// Complete sends prompt as a single user message and returns the concatenated
// text blocks of the reply.
func (c *Claude) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type != "text" {
			continue
		}
		sb.WriteString(block.Text)
	}
	if sb.Len() == 0 {
		return "", errors.New("no text content in Claude API response")
	}
	return sb.String(), nil
}
