package messaging

import (
	"errors"
	"time"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelInApp = "in_app"
)

const (
	StatusQueued = "queued"
	StatusSent   = "sent"
	StatusFailed = "failed"
)

var (
	ErrInvalidChannel = errors.New("invalid channel")
	ErrNoRecipient    = errors.New("message has no recipient")
	ErrEmptyBody      = errors.New("message body is empty")
)

type Message struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TenantID  uint       `gorm:"index;not null" json:"tenant_id"`
	MemberID  *uint      `gorm:"index" json:"member_id,omitempty"`
	SenderID  *uint      `json:"sender_id,omitempty"`
	Channel   string     `gorm:"type:varchar(10);not null" json:"channel"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject"`
	Body      string     `gorm:"not null" json:"body"`
	Status    string     `gorm:"type:varchar(10);not null;default:'queued'" json:"status"`
	Error     string     `json:"error,omitempty"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func ValidChannel(c string) bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelInApp:
		return true
	}
	return false
}

func (m Message) Validate() error {
	if !ValidChannel(m.Channel) {
		return ErrInvalidChannel
	}
	if m.Recipient == "" {
		return ErrNoRecipient
	}
	if m.Body == "" {
		return ErrEmptyBody
	}
	return nil
}

// MarkResult records the outcome of a delivery attempt.
func (m *Message) MarkResult(err error, now time.Time) {
	if err != nil {
		m.Status = StatusFailed
		m.Error = err.Error()
		return
	}
	m.Status = StatusSent
	m.Error = ""
	m.SentAt = &now
}
