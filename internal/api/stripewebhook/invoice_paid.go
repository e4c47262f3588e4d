package stripewebhooks

import (
	"errors"
	"fmt"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/plans"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleInvoicePaid settles the local invoice the Stripe invoice mirrors.
// Subscription invoices have no local counterpart and are recorded as plain
// payments. Redelivered events are no-ops.
func handleInvoicePaid(c *gin.Context, si *stripe.Invoice) error {
	if si.ID == "" {
		return errors.New("invoice missing id")
	}

	var receipt *string
	if si.HostedInvoiceURL != "" {
		receipt = stripe.String(si.HostedInvoiceURL)
	}
	amount := float64(si.AmountPaid) / 100.0
	now := time.Now()

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var seen int64
		if err := tx.Model(&billing.Payment{}).Where("stripe_invoice_id = ?", si.ID).Count(&seen).Error; err != nil {
			return err
		}
		if seen > 0 {
			return nil
		}

		inv, err := findLocalInvoice(tx, si)
		if err != nil {
			return err
		}
		if inv != nil {
			if inv.Status == billing.InvoicePaid || inv.Status == billing.InvoiceVoid {
				return nil
			}
			_, err := billing.MarkPaid(tx, inv, billing.PaidDetails{
				Method:          billing.MethodStripe,
				Amount:          amount,
				ReceiptURL:      receipt,
				StripeInvoiceID: stripe.String(si.ID),
			}, now)
			return err
		}

		return recordSubscriptionPayment(tx, si, amount, receipt)
	})
}

func findLocalInvoice(tx *gorm.DB, si *stripe.Invoice) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := tx.Where("stripe_invoice_id = ?", si.ID).First(&inv).Error
	if err == nil {
		return &inv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id := parseTenantID(si.Metadata["invoice_id"])
	if id == 0 {
		return nil, nil
	}
	err = tx.First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func recordSubscriptionPayment(tx *gorm.DB, si *stripe.Invoice, amount float64, receipt *string) error {
	subID := ""
	if si.Subscription != nil {
		subID = si.Subscription.ID
	}
	tenant := findTenant(tx, tenantIDFromMetadata(si.Metadata), subID, customerID(si.Customer))
	if tenant.ID == 0 {
		// nothing of ours; acknowledge
		return nil
	}

	payment := billing.Payment{
		TenantID:        tenant.ID,
		StripeInvoiceID: stripe.String(si.ID),
		Amount:          amount,
		Method:          billing.MethodStripe,
		Status:          billing.PaymentPaid,
		ReceiptURL:      receipt,
	}
	if subID != "" {
		payment.StripeSubscriptionID = stripe.String(subID)
	}
	if si.Lines != nil && len(si.Lines.Data) > 0 && si.Lines.Data[0].Price != nil {
		var plan plans.Plan
		if err := tx.Where("stripe_price_id = ?", si.Lines.Data[0].Price.ID).First(&plan).Error; err == nil {
			payment.PlanID = &plan.ID
		}
	}

	if err := tx.Create(&payment).Error; err != nil {
		return fmt.Errorf("record subscription payment: %w", err)
	}
	return nil
}
