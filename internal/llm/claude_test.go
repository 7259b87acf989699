// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviddl9/inquire/pkg/types"
)

// messagesServer answers POST /v1/messages with a single text block and
// records the last request body.
func messagesServer(t *testing.T, status int, text string) (*httptest.Server, *atomic.Value, *int32) {
	t.Helper()
	var lastBody atomic.Value
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		lastBody.Store(string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"overloaded"}}`)
			return
		}
		resp := map[string]any{
			"id":            "msg_01",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-test",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": text}},
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(ts.Close)
	return ts, &lastBody, &calls
}

func TestNewClaude_RequiresAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	_, err := NewClaude("", "claude-test", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAPIKeyRequired))
	assert.Contains(t, err.Error(), APIKeyEnv)
}

func TestNewClaude_EnvVarUsedWhenNoExplicitKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "test-key-from-env")

	c, err := NewClaude("", "claude-test", 0)
	require.NoError(t, err)
	assert.Equal(t, "claude-test", c.Model())
	assert.Equal(t, int64(defaultMaxTokens), c.maxTokens)
}

func TestNewClaude_RequiresModel(t *testing.T) {
	_, err := NewClaude("key", "", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model required")
}

func TestFromConfig(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	cfg := types.NewResearchConfig(t.TempDir(), map[string]any{
		types.KeyModel:     "claude-haiku-4-5",
		types.KeyMaxTokens: 512,
		KeyAPIKey:          "cfg-key",
	})

	c, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5", c.Model())
	assert.Equal(t, int64(512), c.maxTokens)
}

func TestClaudeComplete(t *testing.T) {
	ts, lastBody, _ := messagesServer(t, http.StatusOK, "Paris is the capital of France.")

	c, err := NewClaude("test-key", "claude-test", 256, option.WithBaseURL(ts.URL))
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), "be brief", "capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", got)

	body := lastBody.Load().(string)
	assert.Contains(t, body, `"model":"claude-test"`)
	assert.Contains(t, body, `"max_tokens":256`)
	assert.Contains(t, body, "capital of France?")
	assert.Contains(t, body, "be brief")
}

func TestClaudeComplete_APIErrorNotRetried(t *testing.T) {
	ts, _, calls := messagesServer(t, http.StatusInternalServerError, "")

	c, err := NewClaude("test-key", "claude-test", 256, option.WithBaseURL(ts.URL))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling Claude API")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClaudeComplete_EmptyText(t *testing.T) {
	ts, _, _ := messagesServer(t, http.StatusOK, "")

	c, err := NewClaude("test-key", "claude-test", 256, option.WithBaseURL(ts.URL))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text content")
}

type recordingCompleter struct {
	system, prompt string
	reply          string
	err            error
}

func (r *recordingCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	r.system, r.prompt = system, prompt
	return r.reply, r.err
}

func TestResearchBackendProduce(t *testing.T) {
	rc := &recordingCompleter{reply: "A long report."}
	b := NewResearchBackend(rc)

	got, err := b.Produce(context.Background(), "history of the transistor")
	require.NoError(t, err)
	assert.Equal(t, "A long report.", got)
	assert.Equal(t, researchSystemPrompt, rc.system)
	assert.True(t, strings.HasSuffix(rc.prompt, "Instructions:\nhistory of the transistor\n"))
}

func TestResearchBackendProduce_Errors(t *testing.T) {
	b := NewResearchBackend(&recordingCompleter{err: errors.New("rate limited")})

	_, err := b.Produce(context.Background(), "topic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	_, err = b.Produce(context.Background(), "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty research instructions")
}
