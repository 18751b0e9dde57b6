// Package entitlement implements the rules governing gem balances and
// monthly free-reading quotas. The rule functions in this file are pure
// transformations of a profile record; persistence and row locking live in
// Service.
package entitlement

import (
	"time"

	"github.com/tarotnautica/backend/internal/models"
)

// SubscriptionBonus is the one-time gem credit granted when a user
// transitions from unsubscribed to subscribed.
const SubscriptionBonus = 30

// Reason explains how an authorization was settled.
type Reason string

const (
	// ReasonQuota means the use was covered by the monthly free allotment.
	ReasonQuota Reason = "quota"
	// ReasonGems means gems were debited.
	ReasonGems Reason = "gems"
	// ReasonInsufficient means neither quota nor balance could cover the use.
	ReasonInsufficient Reason = "insufficient"
)

// Outcome is the result of an authorization decision.
type Outcome struct {
	Allowed     bool   `json:"allowed"`
	GemsCharged int    `json:"gems_charged"`
	Reason      Reason `json:"reason"`
}

// ResetMonthly zeroes the usage counters the first time the profile is
// touched in a new calendar month. Returns whether a reset was applied.
// The reset is applied before any authorization decision and persists even
// when the decision is a denial.
func ResetMonthly(p *models.Profile, now time.Time) bool {
	if p.ResetDate.Month() == now.Month() && p.ResetDate.Year() == now.Year() {
		return false
	}
	p.BasicUsed = 0
	p.ClarityUsed = 0
	p.DeepUsed = 0
	p.ResetDate = now
	return true
}

// AuthorizeAndConsume decides whether one use of the given tier is allowed
// under the rule, mutating the profile accordingly. Order matters: lazy
// monthly reset first, then the subscriber free-quota path, then the paid
// path. On denial the profile is unchanged apart from the reset.
func AuthorizeAndConsume(p *models.Profile, rule TierRule, tier Tier, now time.Time) Outcome {
	ResetMonthly(p, now)

	if p.Subscribed && usedFor(p, tier) < rule.MonthlyFreeLimit {
		incrementUsed(p, tier)
		return Outcome{Allowed: true, GemsCharged: 0, Reason: ReasonQuota}
	}

	if p.Gems >= rule.GemCost {
		p.Gems -= rule.GemCost
		return Outcome{Allowed: true, GemsCharged: rule.GemCost, Reason: ReasonGems}
	}

	return Outcome{Allowed: false, GemsCharged: 0, Reason: ReasonInsufficient}
}

// Credit adds gems to the balance. The amount must be positive; there is no
// upper bound.
func Credit(p *models.Profile, amount int) error {
	if amount <= 0 {
		return ErrInvalidQuantity
	}
	p.Gems += amount
	return nil
}

// PurchaseItem applies the one-time item purchase rules: no repeat purchases,
// potions are subscriber-only, and the price must be covered by the balance.
// The checks run in that order, matching the behavior users see. On success
// the price is debited; the caller records the purchase row.
func PurchaseItem(p *models.Profile, alreadyOwned bool, item *models.Item) error {
	if alreadyOwned {
		return ErrAlreadyOwned
	}
	if item.Kind == models.KindPotion && !p.Subscribed {
		return ErrSubscriptionRequired
	}
	if p.Gems < item.PriceGems {
		return ErrInsufficientGems
	}
	p.Gems -= item.PriceGems
	return nil
}

// ActivateSubscription flips the profile to subscribed. Only the transition
// from unsubscribed grants the benefits: counters zeroed, reset date moved to
// now, and the gem bonus credited. Repeated activations are no-ops beyond the
// flag. Returns whether the benefits were granted.
func ActivateSubscription(p *models.Profile, now time.Time) bool {
	wasSubscribed := p.Subscribed
	p.Subscribed = true
	if wasSubscribed {
		return false
	}
	p.BasicUsed = 0
	p.ClarityUsed = 0
	p.DeepUsed = 0
	p.ResetDate = now
	p.Gems += SubscriptionBonus
	return true
}

// CancelSubscription clears the subscribed flag. Counters and gems are
// untouched.
func CancelSubscription(p *models.Profile) {
	p.Subscribed = false
}

// UsedFor reports the consumed count for a tier this month.
func UsedFor(p *models.Profile, tier Tier) int {
	return usedFor(p, tier)
}

func usedFor(p *models.Profile, tier Tier) int {
	switch tier {
	case TierClarity:
		return p.ClarityUsed
	case TierDeep:
		return p.DeepUsed
	default:
		return p.BasicUsed
	}
}

func incrementUsed(p *models.Profile, tier Tier) {
	switch tier {
	case TierClarity:
		p.ClarityUsed++
	case TierDeep:
		p.DeepUsed++
	default:
		p.BasicUsed++
	}
}
