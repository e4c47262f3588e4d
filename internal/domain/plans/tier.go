package plans

import "strings"

const (
	TierNone       = "none"
	TierStarter    = "starter"
	TierGrowth     = "growth"
	TierEnterprise = "enterprise"
)

// PlanTier returns the effective tier for a plan.
// The tier stored on the plan wins; plans synced before tiers existed fall
// back to a price bracket.
func PlanTier(p *Plan) string {
	if p == nil {
		return TierNone
	}

	tier := strings.ToLower(strings.TrimSpace(p.Tier))
	switch tier {
	case TierStarter, TierGrowth, TierEnterprise:
		return tier
	}

	return inferTierFromPrice(p.PriceUSD)
}

func inferTierFromPrice(priceUSD float64) string {
	switch {
	case priceUSD >= 399:
		return TierEnterprise
	case priceUSD >= 199:
		return TierGrowth
	default:
		return TierStarter
	}
}
