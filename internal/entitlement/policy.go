package entitlement

import (
	"github.com/tarotnautica/backend/internal/models"
)

// TierRule is the price and free allotment for one tier under one policy.
type TierRule struct {
	// GemCost is debited when the free quota does not apply.
	GemCost int
	// MonthlyFreeLimit is how many free uses per month a subscriber gets.
	MonthlyFreeLimit int
}

// Policy maps each tier to its rule. Two policies exist on purpose: the
// direct-debit endpoint and the full-reading endpoint drifted apart over the
// product's history and both behaviors are kept behind distinct entry points.
type Policy struct {
	Name  string
	rules map[Tier]TierRule
}

// Rule returns the rule for a tier. All three tiers are always present in a
// well-formed policy.
func (p *Policy) Rule(tier Tier) (TierRule, error) {
	rule, ok := p.rules[tier]
	if !ok {
		return TierRule{}, ErrUnknownTier
	}
	return rule, nil
}

// LegacyPolicy is the configuration used by the direct-debit endpoint.
func LegacyPolicy() *Policy {
	return &Policy{
		Name: "legacy",
		rules: map[Tier]TierRule{
			TierBasic:   {GemCost: 1, MonthlyFreeLimit: 100},
			TierClarity: {GemCost: 2, MonthlyFreeLimit: 50},
			TierDeep:    {GemCost: 7, MonthlyFreeLimit: 30},
		},
	}
}

// CatalogPolicy builds the configuration used by the full-reading endpoint
// from spread type catalog rows. Rows with an unknown tier code are skipped.
func CatalogPolicy(spreads []models.SpreadType) *Policy {
	rules := make(map[Tier]TierRule, len(spreads))
	for _, s := range spreads {
		tier, err := ParseTier(s.Tier)
		if err != nil {
			continue
		}
		rules[tier] = TierRule{GemCost: s.GemCost, MonthlyFreeLimit: s.MonthlyFreeLimit}
	}
	return &Policy{Name: "catalog", rules: rules}
}

// RuleForSpread is the single-row form of CatalogPolicy, for call sites that
// already hold the spread type being consumed.
func RuleForSpread(spread *models.SpreadType) (Tier, TierRule, error) {
	tier, err := ParseTier(spread.Tier)
	if err != nil {
		return 0, TierRule{}, err
	}
	return tier, TierRule{GemCost: spread.GemCost, MonthlyFreeLimit: spread.MonthlyFreeLimit}, nil
}
