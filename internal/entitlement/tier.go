package entitlement

// Tier identifies one of the three reading depths.
type Tier int

const (
	TierBasic Tier = iota
	TierClarity
	TierDeep
)

// Wire codes for the tiers.
const (
	codeBasic   = "basic"
	codeClarity = "clarity"
	codeDeep    = "deep"
)

// Tiers lists all tiers in display order.
func Tiers() []Tier {
	return []Tier{TierBasic, TierClarity, TierDeep}
}

// ParseTier maps a tier code to its Tier, or ErrUnknownTier.
func ParseTier(code string) (Tier, error) {
	switch code {
	case codeBasic:
		return TierBasic, nil
	case codeClarity:
		return TierClarity, nil
	case codeDeep:
		return TierDeep, nil
	default:
		return 0, ErrUnknownTier
	}
}

func (t Tier) String() string {
	switch t {
	case TierBasic:
		return codeBasic
	case TierClarity:
		return codeClarity
	case TierDeep:
		return codeDeep
	default:
		return "unknown"
	}
}
