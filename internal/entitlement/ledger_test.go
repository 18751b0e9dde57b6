package entitlement

import (
	"errors"
	"testing"
	"time"

	"github.com/tarotnautica/backend/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResetMonthly(t *testing.T) {
	t.Run("new month zeroes counters", func(t *testing.T) {
		p := &models.Profile{
			BasicUsed: 7, ClarityUsed: 3, DeepUsed: 1,
			ResetDate: date(2024, time.March, 15),
		}
		now := date(2024, time.April, 1)
		if !ResetMonthly(p, now) {
			t.Fatal("ResetMonthly should apply in a new month")
		}
		if p.BasicUsed != 0 || p.ClarityUsed != 0 || p.DeepUsed != 0 {
			t.Fatalf("counters not zeroed: %+v", p)
		}
		if !p.ResetDate.Equal(now) {
			t.Fatalf("reset date = %v, want %v", p.ResetDate, now)
		}
	})

	t.Run("same month is a no-op", func(t *testing.T) {
		resetDate := date(2024, time.April, 1)
		p := &models.Profile{BasicUsed: 4, ResetDate: resetDate}
		if ResetMonthly(p, date(2024, time.April, 28)) {
			t.Fatal("ResetMonthly should not apply within the same month")
		}
		if p.BasicUsed != 4 || !p.ResetDate.Equal(resetDate) {
			t.Fatalf("profile mutated on no-op reset: %+v", p)
		}
	})

	t.Run("same month different year resets", func(t *testing.T) {
		p := &models.Profile{DeepUsed: 2, ResetDate: date(2023, time.April, 10)}
		if !ResetMonthly(p, date(2024, time.April, 10)) {
			t.Fatal("ResetMonthly should apply across years")
		}
		if p.DeepUsed != 0 {
			t.Fatalf("deep_used = %d, want 0", p.DeepUsed)
		}
	})

	t.Run("idempotent within a month", func(t *testing.T) {
		p := &models.Profile{ClarityUsed: 9, ResetDate: date(2024, time.February, 1)}
		now := date(2024, time.March, 5)
		ResetMonthly(p, now)
		p.ClarityUsed = 2
		if ResetMonthly(p, now) {
			t.Fatal("second reset in the same month should be a no-op")
		}
		if p.ClarityUsed != 2 {
			t.Fatalf("clarity_used = %d, want 2", p.ClarityUsed)
		}
	})
}

func TestAuthorizeAndConsume(t *testing.T) {
	now := date(2024, time.June, 10)
	rule := TierRule{GemCost: 3, MonthlyFreeLimit: 10}

	t.Run("subscriber under quota consumes free slot", func(t *testing.T) {
		p := &models.Profile{Gems: 0, Subscribed: true, ResetDate: now}
		out := AuthorizeAndConsume(p, rule, TierBasic, now)
		if !out.Allowed || out.GemsCharged != 0 || out.Reason != ReasonQuota {
			t.Fatalf("outcome = %+v, want allowed quota", out)
		}
		if p.BasicUsed != 1 {
			t.Fatalf("basic_used = %d, want 1", p.BasicUsed)
		}
		if p.Gems != 0 {
			t.Fatalf("gems = %d, want 0", p.Gems)
		}
	})

	t.Run("unsubscribed with enough gems pays", func(t *testing.T) {
		p := &models.Profile{Gems: 5, ResetDate: now}
		out := AuthorizeAndConsume(p, rule, TierBasic, now)
		if !out.Allowed || out.GemsCharged != 3 || out.Reason != ReasonGems {
			t.Fatalf("outcome = %+v, want allowed gems charge 3", out)
		}
		if p.Gems != 2 {
			t.Fatalf("gems = %d, want 2", p.Gems)
		}
		if p.BasicUsed != 0 {
			t.Fatalf("basic_used = %d, want 0", p.BasicUsed)
		}
	})

	t.Run("unsubscribed without gems is denied unchanged", func(t *testing.T) {
		p := &models.Profile{Gems: 2, ResetDate: now}
		out := AuthorizeAndConsume(p, rule, TierBasic, now)
		if out.Allowed || out.Reason != ReasonInsufficient {
			t.Fatalf("outcome = %+v, want denial", out)
		}
		if p.Gems != 2 {
			t.Fatalf("gems = %d, want 2 (unchanged)", p.Gems)
		}
	})

	t.Run("subscriber at quota limit falls through to gems", func(t *testing.T) {
		p := &models.Profile{Gems: 8, Subscribed: true, ClarityUsed: 10, ResetDate: now}
		out := AuthorizeAndConsume(p, TierRule{GemCost: 5, MonthlyFreeLimit: 10}, TierClarity, now)
		if !out.Allowed || out.GemsCharged != 5 || out.Reason != ReasonGems {
			t.Fatalf("outcome = %+v, want paid path", out)
		}
		if p.ClarityUsed != 10 {
			t.Fatalf("clarity_used = %d, want 10 (unchanged)", p.ClarityUsed)
		}
		if p.Gems != 3 {
			t.Fatalf("gems = %d, want 3", p.Gems)
		}
	})

	t.Run("denial still applies lazy reset", func(t *testing.T) {
		p := &models.Profile{
			Gems: 0, BasicUsed: 99,
			ResetDate: date(2024, time.May, 20),
		}
		out := AuthorizeAndConsume(p, rule, TierBasic, now)
		if out.Allowed {
			t.Fatalf("outcome = %+v, want denial", out)
		}
		if p.BasicUsed != 0 {
			t.Fatalf("basic_used = %d, want 0 after lazy reset", p.BasicUsed)
		}
		if !p.ResetDate.Equal(now) {
			t.Fatalf("reset date = %v, want %v", p.ResetDate, now)
		}
	})

	t.Run("new month restores free quota", func(t *testing.T) {
		p := &models.Profile{
			Subscribed: true, BasicUsed: 10,
			ResetDate: date(2024, time.May, 2),
		}
		out := AuthorizeAndConsume(p, rule, TierBasic, now)
		if !out.Allowed || out.Reason != ReasonQuota {
			t.Fatalf("outcome = %+v, want free quota after reset", out)
		}
		if p.BasicUsed != 1 {
			t.Fatalf("basic_used = %d, want 1", p.BasicUsed)
		}
	})
}

// Gems must never go negative across any call sequence.
func TestGemsNeverNegative(t *testing.T) {
	now := date(2024, time.June, 1)
	p := &models.Profile{Gems: 4, ResetDate: now}
	rule := TierRule{GemCost: 3, MonthlyFreeLimit: 0}
	item := &models.Item{ID: 1, Kind: models.KindSpell, PriceGems: 2}

	steps := []func(){
		func() { AuthorizeAndConsume(p, rule, TierBasic, now) },
		func() { AuthorizeAndConsume(p, rule, TierClarity, now) },
		func() { PurchaseItem(p, false, item) },
		func() { Credit(p, 1) },
		func() { AuthorizeAndConsume(p, rule, TierDeep, now) },
		func() { PurchaseItem(p, false, item) },
	}
	for i, step := range steps {
		step()
		if p.Gems < 0 {
			t.Fatalf("gems went negative (%d) after step %d", p.Gems, i)
		}
	}
}

func TestCredit(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		amount  int
		want    int
		wantErr error
	}{
		{"positive amount", 5, 100, 105, nil},
		{"zero rejected", 5, 0, 5, ErrInvalidQuantity},
		{"negative rejected", 5, -3, 5, ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.Profile{Gems: tt.start}
			err := Credit(p, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Credit error = %v, want %v", err, tt.wantErr)
			}
			if p.Gems != tt.want {
				t.Fatalf("gems = %d, want %d", p.Gems, tt.want)
			}
		})
	}
}

func TestPurchaseItem(t *testing.T) {
	spell := &models.Item{ID: 1, Kind: models.KindSpell, PriceGems: 5}
	potion := &models.Item{ID: 2, Kind: models.KindPotion, PriceGems: 5}

	tests := []struct {
		name    string
		profile models.Profile
		owned   bool
		item    *models.Item
		wantErr error
		want    int
	}{
		{"spell purchase debits", models.Profile{Gems: 7}, false, spell, nil, 2},
		{"already owned", models.Profile{Gems: 7}, true, spell, ErrAlreadyOwned, 7},
		{"insufficient gems", models.Profile{Gems: 4}, false, spell, ErrInsufficientGems, 4},
		{"potion needs subscription", models.Profile{Gems: 7}, false, potion, ErrSubscriptionRequired, 7},
		{"potion with subscription", models.Profile{Gems: 7, Subscribed: true}, false, potion, nil, 2},
		{"ownership checked before subscription", models.Profile{Gems: 7}, true, potion, ErrAlreadyOwned, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.profile
			err := PurchaseItem(&p, tt.owned, tt.item)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PurchaseItem error = %v, want %v", err, tt.wantErr)
			}
			if p.Gems != tt.want {
				t.Fatalf("gems = %d, want %d", p.Gems, tt.want)
			}
		})
	}
}

func TestActivateSubscription(t *testing.T) {
	now := date(2024, time.June, 10)

	t.Run("transition grants reset and bonus once", func(t *testing.T) {
		p := &models.Profile{
			Gems: 5, BasicUsed: 3, ClarityUsed: 2, DeepUsed: 1,
			ResetDate: date(2024, time.May, 1),
		}
		if !ActivateSubscription(p, now) {
			t.Fatal("first activation should grant benefits")
		}
		if !p.Subscribed {
			t.Fatal("profile should be subscribed")
		}
		if p.Gems != 5+SubscriptionBonus {
			t.Fatalf("gems = %d, want %d", p.Gems, 5+SubscriptionBonus)
		}
		if p.BasicUsed != 0 || p.ClarityUsed != 0 || p.DeepUsed != 0 {
			t.Fatalf("counters not reset: %+v", p)
		}
		if !p.ResetDate.Equal(now) {
			t.Fatalf("reset date = %v, want %v", p.ResetDate, now)
		}

		// A second activation must not grant anything again.
		if ActivateSubscription(p, now.AddDate(0, 0, 1)) {
			t.Fatal("repeat activation should not grant benefits")
		}
		if p.Gems != 5+SubscriptionBonus {
			t.Fatalf("gems = %d after repeat, want %d", p.Gems, 5+SubscriptionBonus)
		}
	})

	t.Run("cancel then reactivate grants again", func(t *testing.T) {
		p := &models.Profile{Subscribed: true, ResetDate: now}
		CancelSubscription(p)
		if p.Subscribed {
			t.Fatal("profile should be unsubscribed")
		}
		if !ActivateSubscription(p, now) {
			t.Fatal("reactivation after cancel should grant benefits")
		}
		if p.Gems != SubscriptionBonus {
			t.Fatalf("gems = %d, want %d", p.Gems, SubscriptionBonus)
		}
	})

	t.Run("cancel leaves counters and gems alone", func(t *testing.T) {
		p := &models.Profile{Subscribed: true, Gems: 42, BasicUsed: 6, ResetDate: now}
		CancelSubscription(p)
		if p.Gems != 42 || p.BasicUsed != 6 {
			t.Fatalf("cancel mutated ledger: %+v", p)
		}
	})
}
