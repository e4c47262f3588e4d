package tenants

import (
	"time"

	"auvora-crm/internal/domain/plans"
)

const (
	IndustryFitness   = "fitness"
	IndustryEducation = "education"
	IndustryWellness  = "wellness"
	IndustryBeauty    = "beauty"
	IndustryOther     = "other"
)

var Industries = []string{IndustryFitness, IndustryEducation, IndustryWellness, IndustryBeauty, IndustryOther}

const TrialDays = 14

type Tenant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Subdomain string `gorm:"not null;uniqueIndex:idx_tenants_subdomain" json:"subdomain"`
	Industry  string `gorm:"type:varchar(20);not null;default:'other'" json:"industry"`

	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	PrimaryColor string `json:"primary_color"`
	LogoURL      string `json:"logo_url"`

	OnboardingStatus OnboardingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"onboarding_status"`
	IsDemo           bool             `gorm:"index" json:"is_demo"`

	PlanID *uint       `json:"plan_id"`
	Plan   *plans.Plan `json:"plan,omitempty"`

	StripeCustomerID         *string    `gorm:"column:stripe_customer_id;uniqueIndex:idx_tenants_stripe_customer_id" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID     *string    `gorm:"column:stripe_subscription_id;uniqueIndex:idx_tenants_stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	StripeSubscriptionStatus *string    `gorm:"column:stripe_subscription_status" json:"stripe_subscription_status,omitempty"`
	SubscriptionStart        *time.Time `json:"subscription_start,omitempty"`
	CurrentPeriodEnd         *time.Time `gorm:"column:current_period_end" json:"current_period_end,omitempty"`

	TrialStartAt *time.Time `gorm:"column:trial_start_at" json:"trial_start_at,omitempty"`
	TrialEndAt   *time.Time `gorm:"column:trial_end_at" json:"trial_end_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StartTrial opens the standard trial window at now.
func (t *Tenant) StartTrial(now time.Time) {
	end := now.AddDate(0, 0, TrialDays)
	t.TrialStartAt = &now
	t.TrialEndAt = &end
}

func ValidIndustry(s string) bool {
	for _, v := range Industries {
		if v == s {
			return true
		}
	}
	return false
}
