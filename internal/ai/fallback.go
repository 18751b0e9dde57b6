package ai

import (
	"fmt"
	"strings"
)

// FallbackInterpretation returns the scripted narrative used when the
// generation call fails for any reason. The reading debit is already final
// by the time generation runs, so the user must always receive a presentable
// interpretation. The result is never empty.
func FallbackInterpretation(spreadName, question string) string {
	if spreadName == "" {
		spreadName = "tarot"
	}
	if question == "" {
		question = "your question"
	}

	paragraphs := []string{
		fmt.Sprintf("Contemplating your %s reading about \"%s\", I perceive intertwined energies revealing important aspects of your current situation.", spreadName, question),
		"The cards have come to you at this specific moment for a reason. It is not coincidence but a mystical causality that connects your essence with the universal archetypes the tarot represents.",
		"The present arrangement suggests you stand at a point of transition, where the past exerts its influence over your present while the future unfolds according to the energies you are cultivating now.",
		"I see a pattern of contrasting elements, lights and shadows, challenges and opportunities, inviting you to find balance amid the polarities of existence.",
		"The cards reveal that part of the answer you seek already lives within you, though perhaps you have not fully recognized its presence or its meaning. The wisdom of the tarot encourages you to connect with your intuition and listen to that inner voice.",
		"The central advice emerging from this reading is to remain centered as you navigate the changes before you. Adaptability and awareness will be your best allies on the path ahead.",
		"Remember that the cards do not fix an immutable destiny. They illuminate potentials and energetic tendencies that can be transformed through your decisions and your level of awareness.",
		"This is a moment to trust the process of life, knowing that every experience, whether challenging or pleasant, contributes to your growth and spiritual evolution.",
	}

	return strings.Join(paragraphs, "\n\n")
}
