package studio

import (
	"errors"
	"time"
)

const (
	MemberActive    = "active"
	MemberTrial     = "trial"
	MemberFrozen    = "frozen"
	MemberCancelled = "cancelled"
)

var ErrInvalidMemberStatus = errors.New("invalid member status")

type Member struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TenantID       uint       `gorm:"index;not null" json:"tenant_id"`
	Name           string     `gorm:"not null" json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Status         string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	MembershipType string     `json:"membership_type"`
	MonthlyRate    float64    `gorm:"type:numeric(10,2)" json:"monthly_rate"`
	JoinedAt       time.Time  `json:"joined_at"`
	LastVisitAt    *time.Time `json:"last_visit_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	Goals          []Goal     `json:"goals,omitempty"`
	Notes          []Note     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func ValidMemberStatus(s string) bool {
	switch s {
	case MemberActive, MemberTrial, MemberFrozen, MemberCancelled:
		return true
	}
	return false
}

// SetStatus keeps CancelledAt in step with the status.
func (m *Member) SetStatus(status string, now time.Time) error {
	if !ValidMemberStatus(status) {
		return ErrInvalidMemberStatus
	}
	if status == MemberCancelled && m.Status != MemberCancelled {
		m.CancelledAt = &now
	}
	if status != MemberCancelled {
		m.CancelledAt = nil
	}
	m.Status = status
	return nil
}

const (
	GoalOpen      = "open"
	GoalAchieved  = "achieved"
	GoalAbandoned = "abandoned"
)

type Goal struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MemberID  uint       `gorm:"index;not null" json:"member_id"`
	Title     string     `gorm:"not null" json:"title"`
	Target    float64    `json:"target"`
	Progress  float64    `json:"progress"`
	Unit      string     `json:"unit"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Status    string     `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Percent is progress over target, capped at 100.
func (g Goal) Percent() float64 {
	if g.Target <= 0 {
		return 0
	}
	p := g.Progress / g.Target * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// Touch marks the goal achieved once progress reaches the target.
func (g *Goal) Touch() {
	if g.Status == GoalOpen && g.Target > 0 && g.Progress >= g.Target {
		g.Status = GoalAchieved
	}
}

type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MemberID  uint      `gorm:"index;not null" json:"member_id"`
	AuthorID  *uint     `json:"author_id,omitempty"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
