package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
	InvoiceVoid    = "void"
)

var (
	ErrInvalidInvoiceStatus = errors.New("invalid invoice status")
	ErrInvoiceAlreadyPaid   = errors.New("invoice already paid")
	ErrInvoiceVoid          = errors.New("invoice is void")
)

type Invoice struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TenantID        uint       `gorm:"index;not null" json:"tenant_id"`
	ContractID      *uint      `gorm:"index" json:"contract_id,omitempty"`
	Number          string     `gorm:"not null;uniqueIndex:idx_invoices_number" json:"number"`
	Amount          float64    `gorm:"type:numeric(12,2)" json:"amount"`
	Currency        string     `gorm:"type:varchar(3);not null;default:'usd'" json:"currency"`
	Status          string     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Description     string     `json:"description"`
	IssuedAt        time.Time  `json:"issued_at"`
	DueDate         time.Time  `json:"due_date"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	StripeInvoiceID *string    `gorm:"uniqueIndex" json:"stripe_invoice_id,omitempty"`
	QuickBooksID    *string    `gorm:"column:quickbooks_id" json:"quickbooks_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceVoid:
		return true
	}
	return false
}

// Open reports whether the invoice still expects money.
func (i Invoice) Open() bool {
	return i.Status == InvoiceSent || i.Status == InvoiceOverdue
}

// IsOverdue reports whether a sent invoice has passed its due date.
func (i Invoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoiceSent && now.After(i.DueDate)
}

// CanMarkPaid rejects paid and void invoices.
func (i Invoice) CanMarkPaid() error {
	switch i.Status {
	case InvoicePaid:
		return ErrInvoiceAlreadyPaid
	case InvoiceVoid:
		return ErrInvoiceVoid
	}
	return nil
}

func InvoicePrefix(t time.Time) string {
	return "INV-" + t.Format("200601") + "-"
}

func FormatInvoiceNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", InvoicePrefix(t), seq)
}

// NextInvoiceNumber returns the next number in now's month. Callers run it
// inside the transaction that inserts the invoice and retry on a duplicate
// key, since two transactions can read the same maximum.
//
// Sequences are zero-padded to four digits and grow past that, so a longer
// number is always the larger one.
func NextInvoiceNumber(db *gorm.DB, now time.Time) (string, error) {
	prefix := InvoicePrefix(now)

	var numbers []string
	err := db.Model(&Invoice{}).
		Where("number LIKE ?", prefix+"%").
		Order("LENGTH(number) DESC").
		Order("number DESC").
		Limit(1).
		Pluck("number", &numbers).Error
	if err != nil {
		return "", err
	}

	seq := 0
	if len(numbers) > 0 {
		last := numbers[0]
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("unexpected invoice number %q: %w", last, err)
		}
		seq = n
	}
	return FormatInvoiceNumber(now, seq+1), nil
}
