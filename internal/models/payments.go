package models

import (
	"time"
)

// Payment statuses shared by both providers.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment purposes.
const (
	PaymentTypeGems         = "gems"
	PaymentTypeSubscription = "subscription"
)

// Subscription statuses (provider vocabulary).
const (
	SubscriptionActive   = "active"
	SubscriptionPending  = "pending"
	SubscriptionCanceled = "canceled"
)

// StripeCustomer maps a user to their Stripe customer object.
type StripeCustomer struct {
	UserID     string    `json:"user_id" db:"user_id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// StripePayment is one Stripe payment intent. Amounts are integer cents, the
// unit Stripe itself uses.
type StripePayment struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	PaymentIntentID string    `json:"payment_intent_id" db:"payment_intent_id"`
	AmountCents     int64     `json:"amount_cents" db:"amount_cents"`
	Currency        string    `json:"currency" db:"currency"`
	Status          string    `json:"status" db:"status"`
	PaymentType     string    `json:"payment_type" db:"payment_type"`
	GemsAmount      int       `json:"gems_amount" db:"gems_amount"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// StripeSubscription tracks a Stripe subscription for a user.
type StripeSubscription struct {
	UserID           string    `json:"user_id" db:"user_id"`
	SubscriptionID   string    `json:"subscription_id" db:"subscription_id"`
	Status           string    `json:"status" db:"status"`
	CurrentPeriodEnd time.Time `json:"current_period_end" db:"current_period_end"`
	CancelAtEnd      bool      `json:"cancel_at_period_end" db:"cancel_at_period_end"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// PayPalOrder is one PayPal checkout order for a gem pack.
type PayPalOrder struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	OrderID     string    `json:"order_id" db:"order_id"`
	AmountCents int64     `json:"amount_cents" db:"amount_cents"`
	Currency    string    `json:"currency" db:"currency"`
	GemsAmount  int       `json:"gems_amount" db:"gems_amount"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PayPalSubscription tracks a PayPal billing subscription for a user.
type PayPalSubscription struct {
	UserID         string    `json:"user_id" db:"user_id"`
	SubscriptionID string    `json:"subscription_id" db:"subscription_id"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
