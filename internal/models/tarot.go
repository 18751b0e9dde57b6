package models

import (
	"time"
)

// Card is one of the 22 major arcana.
type Card struct {
	ID              int64  `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	Number          int    `json:"number" db:"number"`
	ImageName       string `json:"image_name" db:"image_name"`
	MeaningUpright  string `json:"meaning_upright" db:"meaning_upright"`
	MeaningReversed string `json:"meaning_reversed" db:"meaning_reversed"`
}

// SpreadType is a catalog row describing one reading depth: how many cards
// are drawn, what it costs in gems, and how many free uses per month a
// subscriber gets. Tier is one of the entitlement tier codes.
type SpreadType struct {
	ID               int64  `json:"id" db:"id"`
	Name             string `json:"name" db:"name"`
	Tier             string `json:"tier" db:"tier"`
	NumCards         int    `json:"num_cards" db:"num_cards"`
	Description      string `json:"description" db:"description"`
	GemCost          int    `json:"gem_cost" db:"gem_cost"`
	MonthlyFreeLimit int    `json:"monthly_free_limit" db:"monthly_free_limit"`
	Layout           string `json:"layout" db:"layout"`
}

// Reading is a completed tarot draw with its interpretation.
type Reading struct {
	ID             int64     `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	SpreadTypeID   int64     `json:"spread_type_id" db:"spread_type_id"`
	Question       string    `json:"question" db:"question"`
	Interpretation string    `json:"interpretation" db:"interpretation"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	SpreadName string        `json:"spread_name,omitempty" db:"spread_name"`
	Cards      []ReadingCard `json:"cards,omitempty"`
}

// ReadingCard is a single card placed at a position within a reading.
type ReadingCard struct {
	ReadingID int64 `json:"-" db:"reading_id"`
	CardID    int64 `json:"card_id" db:"card_id"`
	Position  int   `json:"position" db:"position"`
	Reversed  bool  `json:"reversed" db:"reversed"`

	// Joined fields
	CardName        string `json:"card_name,omitempty" db:"card_name"`
	CardNumber      int    `json:"card_number,omitempty" db:"card_number"`
	ImageName       string `json:"image_name,omitempty" db:"image_name"`
	MeaningUpright  string `json:"-" db:"meaning_upright"`
	MeaningReversed string `json:"-" db:"meaning_reversed"`
}

// Meaning returns the meaning matching the card's orientation in the spread.
func (rc *ReadingCard) Meaning() string {
	if rc.Reversed {
		return rc.MeaningReversed
	}
	return rc.MeaningUpright
}
