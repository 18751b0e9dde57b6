package models

import (
	"time"
)

// User represents a registered account. Email is the login identity.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Profile is the per-user entitlement ledger: the gem balance, the
// subscription flag and the three monthly free-reading counters. Exactly one
// profile exists per user and it is created together with the account.
type Profile struct {
	UserID      string    `json:"user_id" db:"user_id"`
	Gems        int       `json:"gems" db:"gems"`
	Subscribed  bool      `json:"subscribed" db:"subscribed"`
	BasicUsed   int       `json:"basic_used" db:"basic_used"`
	ClarityUsed int       `json:"clarity_used" db:"clarity_used"`
	DeepUsed    int       `json:"deep_used" db:"deep_used"`
	ResetDate   time.Time `json:"reset_date" db:"reset_date"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
