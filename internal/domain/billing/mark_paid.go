package billing

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	MethodManual = "manual"
	MethodStripe = "stripe"
)

type PaidDetails struct {
	Method          string
	Amount          float64
	ReceiptURL      *string
	StripeInvoiceID *string
}

// MarkPaid flips inv to paid and records the matching payment. Run it inside
// a transaction.
func MarkPaid(tx *gorm.DB, inv *Invoice, d PaidDetails, now time.Time) (*Payment, error) {
	if err := inv.CanMarkPaid(); err != nil {
		return nil, err
	}

	amount := d.Amount
	if amount == 0 {
		amount = inv.Amount
	}
	method := d.Method
	if method == "" {
		method = MethodManual
	}

	inv.Status = InvoicePaid
	inv.PaidAt = &now
	if err := tx.Model(inv).Updates(map[string]interface{}{
		"status":  InvoicePaid,
		"paid_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}

	invoiceID := inv.ID
	payment := Payment{
		TenantID:        inv.TenantID,
		InvoiceID:       &invoiceID,
		Amount:          amount,
		Method:          method,
		Status:          PaymentPaid,
		ReceiptURL:      d.ReceiptURL,
		StripeInvoiceID: d.StripeInvoiceID,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	return &payment, nil
}
