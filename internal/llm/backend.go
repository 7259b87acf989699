// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"text/template"
)

const researchSystemPrompt = `You are a meticulous research assistant. Write a thorough, factual report. State uncertainty explicitly and never invent sources.`

var researchPromptTmpl = template.Must(template.New("research").Parse(`Research the following topic and write a detailed report in plain text.

Cover the key facts, names, dates and figures a reader would need to answer
follow-up questions about the topic. Use short paragraphs.

Instructions:
{{.Instructions}}
`))

// ResearchBackend produces research text by asking a language model.
type ResearchBackend struct {
	llm Completer
}

// NewResearchBackend returns a backend that sends every request to llm.
func NewResearchBackend(llm Completer) *ResearchBackend {
	return &ResearchBackend{llm: llm}
}

// Produce renders the research prompt for instructions and returns the
// model's reply.
func (b *ResearchBackend) Produce(ctx context.Context, instructions string) (string, error) {
	if strings.TrimSpace(instructions) == "" {
		return "", errors.New("empty research instructions")
	}

	var buf bytes.Buffer
	if err := researchPromptTmpl.Execute(&buf, struct{ Instructions string }{instructions}); err != nil {
		return "", err
	}
	return b.llm.Complete(ctx, researchSystemPrompt, buf.String())
}
