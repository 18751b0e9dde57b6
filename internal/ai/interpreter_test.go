package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubCompleter struct {
	resp *MessagesResponse
	err  error
	got  *MessagesRequest
}

func (s *stubCompleter) Complete(_ context.Context, req *MessagesRequest) (*MessagesResponse, error) {
	s.got = req
	return s.resp, s.err
}

func textResponse(text string) *MessagesResponse {
	return &MessagesResponse{
		Content: []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{
			{Type: "text", Text: text},
		},
	}
}

func sampleData() InterpretationData {
	return InterpretationData{
		Question:   "Will I find balance?",
		SpreadName: "Basic Reading",
		Cards: []CardLine{
			{Position: 1, PositionName: "Past", CardName: "The Fool", Orientation: "upright", Meaning: "New beginnings"},
			{Position: 2, PositionName: "Present", CardName: "The Magician", Orientation: "reversed", Meaning: "Manipulation"},
		},
	}
}

func TestInterpretSuccess(t *testing.T) {
	stub := &stubCompleter{resp: textResponse("The cards speak clearly.")}
	i := NewInterpreter(stub, "")

	got := i.Interpret(context.Background(), sampleData())
	if got != "The cards speak clearly." {
		t.Fatalf("Interpret = %q, want model output", got)
	}
	if stub.got.System != SystemPrompt {
		t.Fatalf("system prompt = %q", stub.got.System)
	}
	if len(stub.got.Messages) != 1 || stub.got.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages: %+v", stub.got.Messages)
	}
}

func TestInterpretFallsBackOnError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("api unavailable")}
	i := NewInterpreter(stub, "")

	got := i.Interpret(context.Background(), sampleData())
	if got == "" {
		t.Fatal("fallback interpretation must not be empty")
	}
	if !strings.Contains(got, "Basic Reading") || !strings.Contains(got, "Will I find balance?") {
		t.Fatalf("fallback should reference the spread and question: %q", got)
	}
}

func TestInterpretFallsBackOnEmptyResponse(t *testing.T) {
	stub := &stubCompleter{resp: textResponse("   ")}
	i := NewInterpreter(stub, "")

	if got := i.Interpret(context.Background(), sampleData()); got == "" {
		t.Fatal("empty model output must resolve to non-empty fallback")
	}
}

func TestFallbackNeverEmpty(t *testing.T) {
	tests := []struct{ spread, question string }{
		{"", ""},
		{"Deep Reading", ""},
		{"", "What awaits me?"},
	}
	for _, tt := range tests {
		if got := FallbackInterpretation(tt.spread, tt.question); strings.TrimSpace(got) == "" {
			t.Fatalf("FallbackInterpretation(%q, %q) is empty", tt.spread, tt.question)
		}
	}
}

func TestRenderInterpretationPrompt(t *testing.T) {
	prompt, err := RenderPrompt(InterpretationPrompt, sampleData())
	if err != nil {
		t.Fatalf("RenderPrompt error = %v", err)
	}
	for _, want := range []string{
		`"Will I find balance?"`,
		"Spread: Basic Reading",
		"Position 1 (Past): The Fool, upright. Meaning: New beginnings",
		"Position 2 (Present): The Magician, reversed. Meaning: Manipulation",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
