package models

import (
	"time"
)

// Item kinds. Spells are open to everyone; potions require an active
// subscription to purchase.
const (
	KindSpell  = "spell"
	KindPotion = "potion"
)

// Item categories.
const (
	CategoryLove  = "love"
	CategoryMoney = "money"
	CategoryMisc  = "misc"
)

// Item is a one-time unlockable catalog entry (a spell or a potion).
type Item struct {
	ID          int64     `json:"id" db:"id"`
	Kind        string    `json:"kind" db:"kind"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	PriceGems   int       `json:"price_gems" db:"price_gems"`
	Category    string    `json:"category" db:"category"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Purchase records that a user unlocked an item. The (user, item) pair is
// unique: purchases are permanent and never repeated or refunded.
type Purchase struct {
	ID          int64     `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	ItemID      int64     `json:"item_id" db:"item_id"`
	PurchasedAt time.Time `json:"purchased_at" db:"purchased_at"`
}

// IsValidCategory checks if a category is one of the known catalog categories.
func IsValidCategory(category string) bool {
	switch category {
	case CategoryLove, CategoryMoney, CategoryMisc:
		return true
	default:
		return false
	}
}
