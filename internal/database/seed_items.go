package database

// itemSeed is the starter spell and potion catalog. Production catalogs are
// managed by upserting rows directly; the seed guarantees a fresh deployment
// has something to sell.
var itemSeed = []struct {
	kind        string
	title       string
	description string
	priceGems   int
	category    string
}{
	{"spell", "Candle of Attraction",
		"A candle ritual to draw a specific person's attention toward you.",
		5, "love"},
	{"spell", "Knot of Reconciliation",
		"A binding of red thread to mend a bond strained by distance or a quarrel.",
		8, "love"},
	{"spell", "Coin of Abundance",
		"A charged coin carried close to open unexpected paths of income.",
		6, "money"},
	{"spell", "Bay Leaf Prosperity Ritual",
		"Burning bay leaves under the waxing moon to call sustained prosperity.",
		10, "money"},
	{"spell", "Salt Circle of Protection",
		"A cleansing circle that shields your home from heavy energies.",
		4, "misc"},
	{"potion", "Elixir of Deep Calm",
		"An infusion to quiet the mind before sleep and sharpen morning intuition.",
		7, "misc"},
	{"potion", "Philter of Sweet Words",
		"A honeyed brew said to soften difficult conversations with a loved one.",
		9, "love"},
	{"potion", "Tonic of the Golden Hand",
		"A citrus tonic prepared at dawn to steady luck in negotiations.",
		9, "money"},
}
