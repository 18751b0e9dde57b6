package entitlement

import "errors"

var (
	// ErrInsufficientGems is returned when a debit would push the balance negative.
	ErrInsufficientGems = errors.New("insufficient gems")
	// ErrAlreadyOwned is returned when purchasing an item the user already owns.
	ErrAlreadyOwned = errors.New("item already owned")
	// ErrSubscriptionRequired is returned when a potion purchase is attempted
	// without an active subscription.
	ErrSubscriptionRequired = errors.New("subscription required")
	// ErrUnknownTier is returned for a tier code outside the fixed tier set.
	ErrUnknownTier = errors.New("unknown reading tier")
	// ErrInvalidQuantity is returned for a non-positive gem amount.
	ErrInvalidQuantity = errors.New("invalid gem quantity")
)
