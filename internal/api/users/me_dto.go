package users

import "time"

type MeResponse struct {
	User    UserDTO     `json:"user"`
	Tenant  *TenantDTO  `json:"tenant"`
	Billing *BillingDTO `json:"billing"`
	Access  *AccessDTO  `json:"access"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID       uint    `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
	TenantID *uint   `json:"tenant_id"`
}

/* ---------- TENANT ---------- */

type TenantDTO struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Subdomain        string `json:"subdomain"`
	PublicURL        string `json:"public_url"`
	Industry         string `json:"industry"`
	PrimaryColor     string `json:"primary_color"`
	LogoURL          string `json:"logo_url"`
	OnboardingStatus string `json:"onboarding_status"`
	IsDemo           bool   `json:"is_demo"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Plan         *PlanDTO         `json:"plan"`
	Subscription *SubscriptionDTO `json:"subscription"`
	Trial        *TrialDTO        `json:"trial"`
}

type PlanDTO struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Tier          string  `json:"tier"`
	Interval      string  `json:"interval"`
	PriceUSD      float64 `json:"price_usd"`
	StripePriceID string  `json:"stripe_price_id"`
}

type SubscriptionDTO struct {
	Status               string     `json:"status"`
	StartsAt             *time.Time `json:"starts_at"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
}

type TrialDTO struct {
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	DaysLeft *int       `json:"days_left"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	State        string     `json:"state"` // trial|full|limited|locked
	Capabilities []string   `json:"capabilities"`
	Limits       *LimitsDTO `json:"limits,omitempty"`
}

type LimitsDTO struct {
	MaxMembers int `json:"max_members"`
	MaxStaff   int `json:"max_staff"`
}
