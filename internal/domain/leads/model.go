package leads

import (
	"errors"
	"time"
)

const (
	StatusNew           = "new"
	StatusContacted     = "contacted"
	StatusDemoScheduled = "demo_scheduled"
	StatusConverted     = "converted"
	StatusLost          = "lost"
)

const (
	SourceDemoRequest = "demo_request"
	SourceManual      = "manual"
	SourceReferral    = "referral"
	SourceWebsite     = "website"
)

var (
	ErrInvalidStatus = errors.New("invalid lead status")
	ErrInvalidSource = errors.New("invalid lead source")
)

type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"index" json:"email"`
	Phone     string    `json:"phone"`
	Business  string    `json:"business"`
	Industry  string    `json:"industry"`
	Status    string    `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	Source    string    `gorm:"type:varchar(20);not null;default:'manual'" json:"source"`
	Notes     string    `json:"notes"`
	TenantID  *uint     `json:"tenant_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusDemoScheduled, StatusConverted, StatusLost:
		return true
	}
	return false
}

func ValidSource(s string) bool {
	switch s {
	case SourceDemoRequest, SourceManual, SourceReferral, SourceWebsite:
		return true
	}
	return false
}

func (l Lead) Validate() error {
	if !ValidStatus(l.Status) {
		return ErrInvalidStatus
	}
	if !ValidSource(l.Source) {
		return ErrInvalidSource
	}
	return nil
}
