package billing

import (
	"errors"
	"time"
)

const (
	ContractDraft     = "draft"
	ContractActive    = "active"
	ContractExpired   = "expired"
	ContractCancelled = "cancelled"
)

var (
	ErrInvalidContractStatus = errors.New("invalid contract status")
	ErrContractDates         = errors.New("contract end date precedes start date")
)

type Contract struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TenantID   uint       `gorm:"index;not null" json:"tenant_id"`
	PlanName   string     `json:"plan_name"`
	MonthlyFee float64    `gorm:"type:numeric(12,2)" json:"monthly_fee"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Status     string     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Notes      string     `json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func ValidContractStatus(s string) bool {
	switch s {
	case ContractDraft, ContractActive, ContractExpired, ContractCancelled:
		return true
	}
	return false
}

// Validate checks the status domain and date ordering.
func (c Contract) Validate() error {
	if !ValidContractStatus(c.Status) {
		return ErrInvalidContractStatus
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		return ErrContractDates
	}
	return nil
}
