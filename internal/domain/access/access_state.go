package access

import (
	"time"

	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/infra/stripe"
)

// ComputeEffectiveAccessState maps a tenant's trial window and Stripe
// subscription status to trial|full|limited|locked. Demo tenants are always
// full.
func ComputeEffectiveAccessState(now time.Time, t tenants.Tenant) AccessState {
	if t.IsDemo {
		return AccessFull
	}

	if t.TrialEndAt != nil && now.Before(*t.TrialEndAt) {
		return AccessTrial
	}

	if t.StripeSubscriptionID == nil || *t.StripeSubscriptionID == "" {
		return AccessLocked
	}

	switch stripe.NormalizeStripeStatus(t.StripeSubscriptionStatus) {
	case stripe.StatusActive, stripe.StatusTrialing:
		return stateForTier(t.Plan)

	case stripe.StatusPastDue:
		return AccessLimited

	case stripe.StatusCanceled:
		// paid-through period still counts
		if t.CurrentPeriodEnd != nil && now.Before(*t.CurrentPeriodEnd) {
			return stateForTier(t.Plan)
		}
		return AccessLocked

	default:
		return AccessLocked
	}
}

func stateForTier(p *plans.Plan) AccessState {
	if plans.PlanTier(p) == plans.TierNone {
		return AccessLimited
	}
	return AccessFull
}
