package ai

import (
	"bytes"
	"text/template"
)

// SystemPrompt frames the model as the product's reader voice.
const SystemPrompt = "You are an expert tarot reader who gives mystical yet practical interpretations."

// InterpretationPrompt is the template for a full reading interpretation.
const InterpretationPrompt = `Interpret this tarot reading for the question: "{{.Question}}"

Spread: {{.SpreadName}}

Cards:
{{range .Cards}}Position {{.Position}} ({{.PositionName}}): {{.CardName}}, {{.Orientation}}. Meaning: {{.Meaning}}
{{end}}
I need: the overall meaning, connections between the cards, an answer to my question, practical advice, and the main message.`

// InterpretationData holds data for the interpretation prompt.
type InterpretationData struct {
	Question   string
	SpreadName string
	Cards      []CardLine
}

// CardLine is one placed card rendered into the prompt.
type CardLine struct {
	Position     int
	PositionName string
	CardName     string
	Orientation  string
	Meaning      string
}

// RenderPrompt renders a template with the provided data.
func RenderPrompt(tmpl string, data interface{}) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
