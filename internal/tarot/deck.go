// Package tarot implements the card-draw mechanics for readings.
package tarot

import (
	"errors"
	"math/rand"

	"github.com/tarotnautica/backend/internal/models"
)

// ErrNotEnoughCards is returned when the card catalog is smaller than the
// spread being drawn.
var ErrNotEnoughCards = errors.New("not enough cards for this spread")

// Drawn is one card placed in a spread.
type Drawn struct {
	Card     models.Card
	Position int
	Reversed bool
}

// Draw selects numCards distinct cards at random from the deck and assigns
// them positions 1..numCards. Each card lands reversed with probability 1/2.
func Draw(rng *rand.Rand, deck []models.Card, numCards int) ([]Drawn, error) {
	if numCards <= 0 || len(deck) < numCards {
		return nil, ErrNotEnoughCards
	}

	picks := rng.Perm(len(deck))[:numCards]
	drawn := make([]Drawn, numCards)
	for i, idx := range picks {
		drawn[i] = Drawn{
			Card:     deck[idx],
			Position: i + 1,
			Reversed: rng.Intn(2) == 1,
		}
	}
	return drawn, nil
}
