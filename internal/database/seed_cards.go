package database

// cardSeed holds the 22 major arcana. Numbers are the traditional ordering,
// with The Fool at 0.
var cardSeed = []struct {
	name     string
	number   int
	image    string
	upright  string
	reversed string
}{
	{"The Fool", 0, "the_fool.jpg",
		"New beginnings, spontaneity, a leap of faith into the unknown.",
		"Recklessness, hesitation at the threshold, a risk taken blindly."},
	{"The Magician", 1, "the_magician.jpg",
		"Willpower, skill, the resources to turn intention into reality.",
		"Manipulation, scattered energy, talents going to waste."},
	{"The High Priestess", 2, "the_high_priestess.jpg",
		"Intuition, hidden knowledge, listening to the inner voice.",
		"Secrets withheld, ignoring intuition, surface over depth."},
	{"The Empress", 3, "the_empress.jpg",
		"Abundance, nurture, creative and material growth.",
		"Smothering care, creative block, neglect of the self."},
	{"The Emperor", 4, "the_emperor.jpg",
		"Structure, authority, stability earned through discipline.",
		"Rigidity, domination, order imposed without heart."},
	{"The Hierophant", 5, "the_hierophant.jpg",
		"Tradition, guidance, learning through established wisdom.",
		"Dogma, conformity for its own sake, a teacher outgrown."},
	{"The Lovers", 6, "the_lovers.jpg",
		"Union, alignment of values, a choice made from the heart.",
		"Disharmony, misaligned values, a choice avoided."},
	{"The Chariot", 7, "the_chariot.jpg",
		"Determination, directed will, victory through self-control.",
		"Lost direction, opposing forces pulling apart, stalled momentum."},
	{"Strength", 8, "strength.jpg",
		"Quiet courage, patience, gentleness that tames the beast.",
		"Self-doubt, raw emotion overpowering reason, forced control."},
	{"The Hermit", 9, "the_hermit.jpg",
		"Introspection, solitude, a lantern lighting the inner path.",
		"Isolation, withdrawal taken too far, refusing counsel."},
	{"Wheel of Fortune", 10, "wheel_of_fortune.jpg",
		"Turning points, cycles, fortune moving in your favor.",
		"Resistance to change, a downturn of the cycle, clinging to control."},
	{"Justice", 11, "justice.jpg",
		"Fairness, truth, consequences weighed with clear eyes.",
		"Unfairness, avoidance of accountability, a scale out of balance."},
	{"The Hanged Man", 12, "the_hanged_man.jpg",
		"Surrender, a new perspective gained through pause.",
		"Stalling, sacrifice without insight, fear of letting go."},
	{"Death", 13, "death.jpg",
		"Endings that clear the ground, transformation, release.",
		"Resistance to an ending, stagnation, a change postponed."},
	{"Temperance", 14, "temperance.jpg",
		"Balance, moderation, patient blending of opposites.",
		"Excess, impatience, forces pulling out of proportion."},
	{"The Devil", 15, "the_devil.jpg",
		"Attachment, temptation, chains that are looser than they look.",
		"Breaking free, confronting dependence, reclaiming power."},
	{"The Tower", 16, "the_tower.jpg",
		"Sudden upheaval, revelation, false structures falling away.",
		"Disaster narrowly averted, fear of collapse, a lesson resisted."},
	{"The Star", 17, "the_star.jpg",
		"Hope, renewal, faith restored after the storm.",
		"Discouragement, faith dimmed, a light waiting to be relit."},
	{"The Moon", 18, "the_moon.jpg",
		"Dreams, illusion, a path walked through uncertainty.",
		"Confusion lifting, fear examined, secrets coming to light."},
	{"The Sun", 19, "the_sun.jpg",
		"Joy, clarity, success in the open light of day.",
		"Clouded optimism, delayed success, joy held back."},
	{"Judgement", 20, "judgement.jpg",
		"Awakening, reckoning, answering a higher calling.",
		"Self-judgment, refusal of the call, a past not yet settled."},
	{"The World", 21, "the_world.jpg",
		"Completion, integration, a cycle fulfilled.",
		"Loose ends, a journey almost complete, closure deferred."},
}
