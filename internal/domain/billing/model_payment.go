package billing

import (
	"time"

	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"
)

const (
	PaymentPaid     = "paid"
	PaymentPending  = "pending"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Payment struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	TenantID             uint            `gorm:"index;not null" json:"tenant_id"`
	Tenant               *tenants.Tenant `json:"-"`
	InvoiceID            *uint           `gorm:"index" json:"invoice_id,omitempty"`
	PlanID               *uint           `json:"plan_id,omitempty"`
	Plan                 *plans.Plan     `json:"plan,omitempty"`
	StripeSessionID      *string         `gorm:"uniqueIndex" json:"stripe_session_id,omitempty"`
	StripeSubscriptionID *string         `json:"stripe_subscription_id,omitempty"`
	StripeInvoiceID      *string         `gorm:"uniqueIndex" json:"stripe_invoice_id,omitempty"`
	Amount               float64         `gorm:"type:numeric(12,2)" json:"amount"`
	Method               string          `json:"method"`
	Status               string          `json:"status"`
	ReceiptURL           *string         `json:"receipt_url,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}
