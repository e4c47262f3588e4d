package schedule

import (
	"errors"
	"time"
)

var (
	ErrShiftRange   = errors.New("shift must end after it starts")
	ErrShiftOverlap = errors.New("shift overlaps another shift for this staff member")
)

type Staff struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   uint      `gorm:"index;not null" json:"tenant_id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	HourlyRate float64   `gorm:"type:numeric(10,2)" json:"hourly_rate"`
	Color      string    `json:"color"`
	Active     bool      `gorm:"default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type StaffShift struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	StaffID   uint      `gorm:"index;not null" json:"staff_id"`
	Staff     *Staff    `json:"staff,omitempty"`
	StartsAt  time.Time `gorm:"index" json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Role      string    `json:"role"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s StaffShift) Validate() error {
	if !s.EndsAt.After(s.StartsAt) {
		return ErrShiftRange
	}
	return nil
}

func (s StaffShift) Duration() time.Duration {
	return s.EndsAt.Sub(s.StartsAt)
}

// Overlaps treats shifts as half-open intervals, so back-to-back shifts do
// not collide.
func (s StaffShift) Overlaps(o StaffShift) bool {
	return s.StartsAt.Before(o.EndsAt) && o.StartsAt.Before(s.EndsAt)
}
