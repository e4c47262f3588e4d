package studio

import (
	"errors"
	"time"
)

var (
	ErrClassFull     = errors.New("class is at capacity")
	ErrClassCapacity = errors.New("capacity must be positive")
)

type Class struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TenantID        uint      `gorm:"index;not null" json:"tenant_id"`
	Name            string    `gorm:"not null" json:"name"`
	InstructorID    *uint     `gorm:"index" json:"instructor_id,omitempty"`
	StartsAt        time.Time `gorm:"index" json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Capacity        int       `json:"capacity"`
	Enrolled        int       `json:"enrolled"`
	Attended        int       `json:"attended"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c Class) EndsAt() time.Time {
	return c.StartsAt.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

func (c Class) Validate() error {
	if c.Capacity <= 0 {
		return ErrClassCapacity
	}
	if c.Enrolled > c.Capacity {
		return ErrClassFull
	}
	return nil
}

// FillRate is enrolled over capacity in [0,1].
func (c Class) FillRate() float64 {
	if c.Capacity <= 0 {
		return 0
	}
	return float64(c.Enrolled) / float64(c.Capacity)
}

// Enroll adds one seat.
func (c *Class) Enroll() error {
	if c.Enrolled >= c.Capacity {
		return ErrClassFull
	}
	c.Enrolled++
	return nil
}
