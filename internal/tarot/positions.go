package tarot

import "fmt"

// Position names per spread tier, in placement order. The basic spread is the
// classic past/present/future row; clarity and deep follow the layouts the
// product ships.
var positionNames = map[string][]string{
	"basic": {"Past", "Present", "Future"},
	"clarity": {
		"General Situation",
		"Main Obstacle", "Conscious Influence", "Unconscious Influence",
		"Advice", "Potential Outcome",
	},
	"deep": {
		"Essence of the Matter",
		"Personal Thoughts", "External Thoughts", "Ideal Thoughts",
		"Personal Emotions", "External Emotions", "Ideal Emotions",
		"Personal Material Situation", "External Material Situation", "Ideal Material Situation",
		"Final Outcome",
	},
}

// PositionName returns the display name for a 1-based position within a
// spread tier. Unknown tiers and out-of-range positions get a generic label
// so a reading never renders with a hole.
func PositionName(tier string, position int) string {
	names, ok := positionNames[tier]
	if ok && position >= 1 && position <= len(names) {
		return names[position-1]
	}
	return fmt.Sprintf("Position %d", position)
}
