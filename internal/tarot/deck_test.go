package tarot

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/tarotnautica/backend/internal/models"
)

func testDeck(n int) []models.Card {
	deck := make([]models.Card, n)
	for i := range deck {
		deck[i] = models.Card{ID: int64(i + 1), Number: i}
	}
	return deck
}

func TestDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	deck := testDeck(22)

	drawn, err := Draw(rng, deck, 11)
	if err != nil {
		t.Fatalf("Draw error = %v", err)
	}
	if len(drawn) != 11 {
		t.Fatalf("drew %d cards, want 11", len(drawn))
	}

	seen := map[int64]bool{}
	for i, d := range drawn {
		if d.Position != i+1 {
			t.Fatalf("position = %d at index %d, want %d", d.Position, i, i+1)
		}
		if seen[d.Card.ID] {
			t.Fatalf("card %d drawn twice", d.Card.ID)
		}
		seen[d.Card.ID] = true
	}
}

func TestDrawErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := Draw(rng, testDeck(2), 3); !errors.Is(err, ErrNotEnoughCards) {
		t.Fatalf("small deck error = %v, want ErrNotEnoughCards", err)
	}
	if _, err := Draw(rng, testDeck(5), 0); !errors.Is(err, ErrNotEnoughCards) {
		t.Fatalf("zero cards error = %v, want ErrNotEnoughCards", err)
	}
}

func TestDrawOrientationVaries(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	deck := testDeck(22)

	var upright, reversed int
	for i := 0; i < 50; i++ {
		drawn, err := Draw(rng, deck, 3)
		if err != nil {
			t.Fatalf("Draw error = %v", err)
		}
		for _, d := range drawn {
			if d.Reversed {
				reversed++
			} else {
				upright++
			}
		}
	}
	if upright == 0 || reversed == 0 {
		t.Fatalf("orientation never varied: upright=%d reversed=%d", upright, reversed)
	}
}

func TestPositionName(t *testing.T) {
	tests := []struct {
		tier     string
		position int
		want     string
	}{
		{"basic", 1, "Past"},
		{"basic", 3, "Future"},
		{"clarity", 5, "Advice"},
		{"deep", 11, "Final Outcome"},
		{"basic", 4, "Position 4"},
		{"unknown", 2, "Position 2"},
	}
	for _, tt := range tests {
		if got := PositionName(tt.tier, tt.position); got != tt.want {
			t.Errorf("PositionName(%q, %d) = %q, want %q", tt.tier, tt.position, got, tt.want)
		}
	}
}
