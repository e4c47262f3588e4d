package users

import (
	"time"

	"auvora-crm/internal/domain/access"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/infra/stripe"
)

func BuildTenantDTO(t *tenants.Tenant) *TenantDTO {
	if t == nil {
		return nil
	}
	return &TenantDTO{
		ID:               t.ID,
		Name:             t.Name,
		Subdomain:        t.Subdomain,
		PublicURL:        tenants.PublicURL(t.Subdomain),
		Industry:         t.Industry,
		PrimaryColor:     t.PrimaryColor,
		LogoURL:          t.LogoURL,
		OnboardingStatus: string(t.OnboardingStatus),
		IsDemo:           t.IsDemo,
	}
}

func BuildPlanDTO(p *plans.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:            p.ID,
		Name:          p.Name,
		Tier:          plans.PlanTier(p),
		Interval:      p.Interval,
		PriceUSD:      p.PriceUSD,
		StripePriceID: p.StripePriceID,
	}
}

func BuildSubscriptionDTO(t tenants.Tenant) *SubscriptionDTO {
	if t.StripeSubscriptionID == nil || *t.StripeSubscriptionID == "" {
		return nil
	}
	return &SubscriptionDTO{
		Status:               stripe.NormalizeStripeStatus(t.StripeSubscriptionStatus),
		StartsAt:             t.SubscriptionStart,
		CurrentPeriodEnd:     t.CurrentPeriodEnd,
		StripeSubscriptionID: t.StripeSubscriptionID,
	}
}

func BuildTrialDTO(now time.Time, start, end *time.Time) *TrialDTO {
	if start == nil || end == nil {
		return nil
	}

	d := 0
	if now.Before(*end) {
		d = int(end.Sub(now).Hours() / 24)
	}

	return &TrialDTO{
		StartsAt: start,
		EndsAt:   end,
		DaysLeft: &d,
	}
}

func BuildAccessDTO(policy access.Policy) *AccessDTO {
	var limits *LimitsDTO
	if policy.Limits != nil {
		limits = &LimitsDTO{
			MaxMembers: policy.Limits.MaxMembers,
			MaxStaff:   policy.Limits.MaxStaff,
		}
	}
	return &AccessDTO{
		State:        string(policy.State),
		Capabilities: policy.Capabilities,
		Limits:       limits,
	}
}
