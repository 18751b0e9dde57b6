// Package ai generates reading interpretations through the Anthropic API,
// falling back to a scripted narrative when the call fails.
package ai

import (
	"context"
	"log"
	"strings"
)

// Completer is the slice of the Anthropic client the interpreter needs.
type Completer interface {
	Complete(ctx context.Context, req *MessagesRequest) (*MessagesResponse, error)
}

// Interpreter turns a drawn spread into a narrative.
type Interpreter struct {
	client Completer
	model  string
}

// NewInterpreter creates an interpreter using the given client and model.
// An empty model uses the client default.
func NewInterpreter(client Completer, model string) *Interpreter {
	return &Interpreter{client: client, model: model}
}

// Interpret generates the narrative for a reading. Errors, timeouts and
// empty or malformed responses all resolve to the fallback text; the caller
// always gets a non-empty interpretation and never an error.
func (i *Interpreter) Interpret(ctx context.Context, data InterpretationData) string {
	prompt, err := RenderPrompt(InterpretationPrompt, data)
	if err != nil {
		log.Printf("[ai] Prompt render failed: %v", err)
		return FallbackInterpretation(data.SpreadName, data.Question)
	}

	resp, err := i.client.Complete(ctx, &MessagesRequest{
		Model:  i.model,
		System: SystemPrompt,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		log.Printf("[ai] Interpretation failed, using fallback: %v", err)
		return FallbackInterpretation(data.SpreadName, data.Question)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		log.Printf("[ai] Empty interpretation response, using fallback")
		return FallbackInterpretation(data.SpreadName, data.Question)
	}
	return text
}
