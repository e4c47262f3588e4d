package quickbooks

import "time"

const (
	SyncRunning   = "running"
	SyncSucceeded = "succeeded"
	SyncFailed    = "failed"
)

type Sync struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TenantID       uint       `gorm:"index;not null" json:"tenant_id"`
	Status         string     `gorm:"type:varchar(20);not null" json:"status"`
	InvoicesPushed int        `json:"invoices_pushed"`
	PaymentsPushed int        `json:"payments_pushed"`
	Error          string     `json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

func (Sync) TableName() string {
	return "quickbooks_syncs"
}

// Finish closes the run with the given error, if any.
func (s *Sync) Finish(err error, now time.Time) {
	s.FinishedAt = &now
	if err != nil {
		s.Status = SyncFailed
		s.Error = err.Error()
		return
	}
	s.Status = SyncSucceeded
}
