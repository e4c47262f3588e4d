package social

import (
	"errors"
	"time"
)

const (
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformTikTok    = "tiktok"
	PlatformX         = "x"
)

const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

var (
	ErrInvalidPlatform  = errors.New("invalid platform")
	ErrAlreadyPublished = errors.New("post already published")
	ErrEmptyContent     = errors.New("post content is empty")
)

type Post struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TenantID     uint       `gorm:"index;not null" json:"tenant_id"`
	Platform     string     `gorm:"type:varchar(20);not null" json:"platform"`
	Content      string     `gorm:"not null" json:"content"`
	MediaURL     string     `json:"media_url"`
	ScheduledFor *time.Time `gorm:"index" json:"scheduled_for,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	ExternalID   string     `json:"external_id,omitempty"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Post) TableName() string {
	return "social_posts"
}

func ValidPlatform(p string) bool {
	switch p {
	case PlatformInstagram, PlatformFacebook, PlatformTikTok, PlatformX:
		return true
	}
	return false
}

func (p Post) Validate() error {
	if !ValidPlatform(p.Platform) {
		return ErrInvalidPlatform
	}
	if p.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// StatusFor derives draft or scheduled from the schedule time.
func StatusFor(scheduledFor *time.Time) string {
	if scheduledFor == nil {
		return StatusDraft
	}
	return StatusScheduled
}

// Due reports whether a scheduled post should go out at now.
func (p Post) Due(now time.Time) bool {
	return p.Status == StatusScheduled && p.ScheduledFor != nil && !p.ScheduledFor.After(now)
}
