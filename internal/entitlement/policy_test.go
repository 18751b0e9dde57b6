package entitlement

import (
	"errors"
	"testing"

	"github.com/tarotnautica/backend/internal/models"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		code    string
		want    Tier
		wantErr bool
	}{
		{"basic", TierBasic, false},
		{"clarity", TierClarity, false},
		{"deep", TierDeep, false},
		{"ritual", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ParseTier(tt.code)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownTier) {
					t.Fatalf("ParseTier(%q) error = %v, want ErrUnknownTier", tt.code, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseTier(%q) = (%v, %v), want %v", tt.code, got, err, tt.want)
			}
		})
	}
}

// The two policies must stay distinct: the direct-debit endpoint and the
// catalog-driven readings endpoint charge different costs and limits for the
// same tier names.
func TestLegacyPolicyRules(t *testing.T) {
	p := LegacyPolicy()
	tests := []struct {
		tier  Tier
		cost  int
		limit int
	}{
		{TierBasic, 1, 100},
		{TierClarity, 2, 50},
		{TierDeep, 7, 30},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			rule, err := p.Rule(tt.tier)
			if err != nil {
				t.Fatalf("Rule(%v) error = %v", tt.tier, err)
			}
			if rule.GemCost != tt.cost || rule.MonthlyFreeLimit != tt.limit {
				t.Fatalf("rule = %+v, want cost=%d limit=%d", rule, tt.cost, tt.limit)
			}
		})
	}
}

func TestCatalogPolicy(t *testing.T) {
	spreads := []models.SpreadType{
		{Tier: "basic", GemCost: 3, MonthlyFreeLimit: 10},
		{Tier: "clarity", GemCost: 5, MonthlyFreeLimit: 10},
		{Tier: "deep", GemCost: 7, MonthlyFreeLimit: 10},
		{Tier: "ritual", GemCost: 99, MonthlyFreeLimit: 99}, // unknown code skipped
	}
	p := CatalogPolicy(spreads)

	rule, err := p.Rule(TierClarity)
	if err != nil {
		t.Fatalf("Rule(clarity) error = %v", err)
	}
	if rule.GemCost != 5 || rule.MonthlyFreeLimit != 10 {
		t.Fatalf("clarity rule = %+v, want cost=5 limit=10", rule)
	}

	if len(p.rules) != 3 {
		t.Fatalf("policy has %d rules, want 3 (unknown tier skipped)", len(p.rules))
	}
}

func TestRuleForSpread(t *testing.T) {
	spread := &models.SpreadType{Tier: "deep", GemCost: 7, MonthlyFreeLimit: 10}
	tier, rule, err := RuleForSpread(spread)
	if err != nil {
		t.Fatalf("RuleForSpread error = %v", err)
	}
	if tier != TierDeep || rule.GemCost != 7 || rule.MonthlyFreeLimit != 10 {
		t.Fatalf("RuleForSpread = (%v, %+v)", tier, rule)
	}

	if _, _, err := RuleForSpread(&models.SpreadType{Tier: "bogus"}); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("RuleForSpread unknown tier error = %v, want ErrUnknownTier", err)
	}
}
