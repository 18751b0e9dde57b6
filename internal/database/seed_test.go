package database

import (
	"testing"

	"github.com/tarotnautica/backend/internal/models"
)

func TestSpreadSeedCoversAllTiers(t *testing.T) {
	want := map[string]int{"basic": 3, "clarity": 6, "deep": 11}

	seen := map[string]bool{}
	for _, s := range spreadSeed {
		numCards, ok := want[s.tier]
		if !ok {
			t.Fatalf("spread seed has unknown tier %q", s.tier)
		}
		if seen[s.tier] {
			t.Fatalf("spread seed has duplicate tier %q", s.tier)
		}
		seen[s.tier] = true

		if s.numCards != numCards {
			t.Errorf("tier %s: num_cards = %d, want %d", s.tier, s.numCards, numCards)
		}
		if s.gemCost <= 0 || s.freeLimit <= 0 {
			t.Errorf("tier %s: gem_cost %d / free_limit %d must be positive", s.tier, s.gemCost, s.freeLimit)
		}
	}
	if len(seen) != len(want) {
		t.Fatalf("spread seed covers %d tiers, want %d", len(seen), len(want))
	}
}

func TestCardSeedIsFullMajorArcana(t *testing.T) {
	if len(cardSeed) != 22 {
		t.Fatalf("card seed has %d cards, want 22", len(cardSeed))
	}

	numbers := map[int]bool{}
	for _, c := range cardSeed {
		if c.number < 0 || c.number > 21 {
			t.Errorf("card %q: number %d outside 0..21", c.name, c.number)
		}
		if numbers[c.number] {
			t.Errorf("duplicate card number %d", c.number)
		}
		numbers[c.number] = true

		if c.name == "" || c.image == "" || c.upright == "" || c.reversed == "" {
			t.Errorf("card number %d has empty fields", c.number)
		}
	}
}

func TestItemSeedPopulatesBothKinds(t *testing.T) {
	kinds := map[string]int{}
	titles := map[string]bool{}

	for _, it := range itemSeed {
		if it.kind != models.KindSpell && it.kind != models.KindPotion {
			t.Fatalf("item %q has unknown kind %q", it.title, it.kind)
		}
		kinds[it.kind]++

		key := it.kind + "/" + it.title
		if titles[key] {
			t.Errorf("duplicate item %q", key)
		}
		titles[key] = true

		if !models.IsValidCategory(it.category) {
			t.Errorf("item %q has unknown category %q", it.title, it.category)
		}
		if it.priceGems <= 0 {
			t.Errorf("item %q has non-positive price %d", it.title, it.priceGems)
		}
		if it.description == "" {
			t.Errorf("item %q has no description", it.title)
		}
	}

	if kinds[models.KindSpell] == 0 || kinds[models.KindPotion] == 0 {
		t.Fatalf("item seed must include both spells and potions, got %v", kinds)
	}
}
