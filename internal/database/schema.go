package database

import (
	"context"
	"fmt"
	"log"
)

// schema is applied at startup. Statements are idempotent so repeated boots
// are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		is_staff      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id      UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		gems         INTEGER NOT NULL DEFAULT 0 CHECK (gems >= 0),
		subscribed   BOOLEAN NOT NULL DEFAULT FALSE,
		basic_used   INTEGER NOT NULL DEFAULT 0 CHECK (basic_used >= 0),
		clarity_used INTEGER NOT NULL DEFAULT 0 CHECK (clarity_used >= 0),
		deep_used    INTEGER NOT NULL DEFAULT 0 CHECK (deep_used >= 0),
		reset_date   DATE NOT NULL DEFAULT CURRENT_DATE,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id          BIGSERIAL PRIMARY KEY,
		kind        TEXT NOT NULL CHECK (kind IN ('spell', 'potion')),
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price_gems  INTEGER NOT NULL DEFAULT 1,
		category    TEXT NOT NULL DEFAULT 'misc',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (kind, title)
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id           BIGSERIAL PRIMARY KEY,
		user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		item_id      BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		purchased_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id               BIGSERIAL PRIMARY KEY,
		name             TEXT NOT NULL,
		number           INTEGER NOT NULL UNIQUE,
		image_name       TEXT NOT NULL,
		meaning_upright  TEXT NOT NULL,
		meaning_reversed TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS spread_types (
		id                 BIGSERIAL PRIMARY KEY,
		name               TEXT NOT NULL,
		tier               TEXT NOT NULL UNIQUE CHECK (tier IN ('basic', 'clarity', 'deep')),
		num_cards          INTEGER NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		gem_cost           INTEGER NOT NULL DEFAULT 1,
		monthly_free_limit INTEGER NOT NULL DEFAULT 0,
		layout             TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS readings (
		id             BIGSERIAL PRIMARY KEY,
		user_id        UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		spread_type_id BIGINT NOT NULL REFERENCES spread_types(id),
		question       TEXT NOT NULL,
		interpretation TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_readings_user ON readings(user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS reading_cards (
		reading_id BIGINT NOT NULL REFERENCES readings(id) ON DELETE CASCADE,
		card_id    BIGINT NOT NULL REFERENCES cards(id),
		position   INTEGER NOT NULL,
		reversed   BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (reading_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS stripe_customers (
		user_id     UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		customer_id TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS stripe_payments (
		id                UUID PRIMARY KEY,
		user_id           UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		payment_intent_id TEXT NOT NULL UNIQUE,
		amount_cents      BIGINT NOT NULL,
		currency          TEXT NOT NULL DEFAULT 'usd',
		status            TEXT NOT NULL DEFAULT 'pending',
		payment_type      TEXT NOT NULL,
		gems_amount       INTEGER NOT NULL DEFAULT 0,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS stripe_subscriptions (
		user_id              UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		subscription_id      TEXT NOT NULL UNIQUE,
		status               TEXT NOT NULL,
		current_period_end   TIMESTAMPTZ NOT NULL,
		cancel_at_period_end BOOLEAN NOT NULL DEFAULT FALSE,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS paypal_orders (
		id           UUID PRIMARY KEY,
		user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		order_id     TEXT NOT NULL UNIQUE,
		amount_cents BIGINT NOT NULL,
		currency     TEXT NOT NULL DEFAULT 'USD',
		gems_amount  INTEGER NOT NULL DEFAULT 0,
		status       TEXT NOT NULL DEFAULT 'pending',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS paypal_subscriptions (
		user_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		subscription_id TEXT PRIMARY KEY,
		status          TEXT NOT NULL DEFAULT 'pending',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// spreadSeed holds the catalog policy rows. The direct-debit endpoint uses
// its own hardcoded limits; these rows only drive the full-reading flow.
var spreadSeed = []struct {
	name        string
	tier        string
	numCards    int
	description string
	gemCost     int
	freeLimit   int
	layout      string
}{
	{
		name:        "Basic Reading",
		tier:        "basic",
		numCards:    3,
		description: "A simple three-card reading covering past, present and future.",
		gemCost:     3,
		freeLimit:   10,
		layout:      "Three cards laid in a horizontal row",
	},
	{
		name:        "Clarity Reading",
		tier:        "clarity",
		numCards:    6,
		description: "A six-card reading for deeper clarity on a specific situation.",
		gemCost:     5,
		freeLimit:   10,
		layout:      "Six cards laid in a cross",
	},
	{
		name:        "Deep Reading",
		tier:        "deep",
		numCards:    11,
		description: "A full eleven-card reading for a complete analysis of your situation.",
		gemCost:     7,
		freeLimit:   10,
		layout:      "Eleven cards laid in a complex pattern",
	},
}

// Migrate applies the schema and seeds the spread type, card and item
// catalogs.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	for _, s := range spreadSeed {
		_, err := db.Exec(ctx, `
			INSERT INTO spread_types (name, tier, num_cards, description, gem_cost, monthly_free_limit, layout)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (tier) DO UPDATE
			SET name = EXCLUDED.name,
			    num_cards = EXCLUDED.num_cards,
			    description = EXCLUDED.description,
			    gem_cost = EXCLUDED.gem_cost,
			    monthly_free_limit = EXCLUDED.monthly_free_limit,
			    layout = EXCLUDED.layout
		`, s.name, s.tier, s.numCards, s.description, s.gemCost, s.freeLimit, s.layout)
		if err != nil {
			return fmt.Errorf("failed to seed spread type %s: %w", s.tier, err)
		}
	}

	for _, c := range cardSeed {
		_, err := db.Exec(ctx, `
			INSERT INTO cards (name, number, image_name, meaning_upright, meaning_reversed)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (number) DO UPDATE
			SET name = EXCLUDED.name,
			    image_name = EXCLUDED.image_name,
			    meaning_upright = EXCLUDED.meaning_upright,
			    meaning_reversed = EXCLUDED.meaning_reversed
		`, c.name, c.number, c.image, c.upright, c.reversed)
		if err != nil {
			return fmt.Errorf("failed to seed card %d: %w", c.number, err)
		}
	}

	for _, it := range itemSeed {
		_, err := db.Exec(ctx, `
			INSERT INTO items (kind, title, description, price_gems, category)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (kind, title) DO UPDATE
			SET description = EXCLUDED.description,
			    price_gems = EXCLUDED.price_gems,
			    category = EXCLUDED.category
		`, it.kind, it.title, it.description, it.priceGems, it.category)
		if err != nil {
			return fmt.Errorf("failed to seed item %q: %w", it.title, err)
		}
	}

	log.Println("[database] Schema applied")
	return nil
}
