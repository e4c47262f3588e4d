package stripe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"auvora-crm/config"
	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/tenants"

	"github.com/cenkalti/backoff/v4"
	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/customer"
	"github.com/stripe/stripe-go/v75/invoice"
	"github.com/stripe/stripe-go/v75/invoiceitem"
)

var ErrNotConfigured = errors.New("stripe key not configured")

// Configure installs the secret key for the package-level Stripe clients.
func Configure() error {
	if config.STRIPE_SECRET_KEY == "" {
		return ErrNotConfigured
	}
	stripego.Key = config.STRIPE_SECRET_KEY
	return nil
}

// NewCustomer creates the Stripe customer for a tenant.
func NewCustomer(t tenants.Tenant) (string, error) {
	email := t.ContactEmail
	cus, err := customer.New(&stripego.CustomerParams{
		Name:  stripego.String(t.Name),
		Email: stripego.String(email),
		Metadata: map[string]string{
			"tenant_id": fmt.Sprint(t.ID),
			"subdomain": t.Subdomain,
			"app_env":   config.APP_ENV,
		},
	})
	if err != nil {
		return "", err
	}
	return cus.ID, nil
}

// PushInvoice mirrors a local invoice into Stripe as a finalized
// send_invoice invoice and returns its id. Each call is retried with
// exponential backoff; 4xx responses other than 429 are not retried.
func PushInvoice(ctx context.Context, customerID string, inv billing.Invoice) (string, error) {
	if customerID == "" {
		return "", errors.New("tenant has no stripe customer")
	}

	daysUntilDue := int64(math.Ceil(time.Until(inv.DueDate).Hours() / 24))
	if daysUntilDue < 1 {
		daysUntilDue = 1
	}
	metadata := map[string]string{
		"invoice_id": fmt.Sprint(inv.ID),
		"tenant_id":  fmt.Sprint(inv.TenantID),
		"number":     inv.Number,
	}

	draft, err := retry(ctx, func() (*stripego.Invoice, error) {
		return invoice.New(&stripego.InvoiceParams{
			Customer:                    stripego.String(customerID),
			CollectionMethod:            stripego.String(string(stripego.InvoiceCollectionMethodSendInvoice)),
			DaysUntilDue:                stripego.Int64(daysUntilDue),
			Description:                 stripego.String(inv.Description),
			PendingInvoiceItemsBehavior: stripego.String("exclude"),
			Metadata:                    metadata,
		})
	})
	if err != nil {
		return "", fmt.Errorf("create stripe invoice: %w", err)
	}

	if _, err := retry(ctx, func() (*stripego.InvoiceItem, error) {
		return invoiceitem.New(&stripego.InvoiceItemParams{
			Customer:    stripego.String(customerID),
			Invoice:     stripego.String(draft.ID),
			Amount:      stripego.Int64(int64(math.Round(inv.Amount * 100))),
			Currency:    stripego.String(inv.Currency),
			Description: stripego.String(inv.Number),
		})
	}); err != nil {
		return "", fmt.Errorf("add stripe invoice item: %w", err)
	}

	final, err := retry(ctx, func() (*stripego.Invoice, error) {
		return invoice.FinalizeInvoice(draft.ID, nil)
	})
	if err != nil {
		return "", fmt.Errorf("finalize stripe invoice: %w", err)
	}
	return final.ID, nil
}

func retry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 4 * time.Second

	return backoff.RetryWithData(func() (T, error) {
		v, err := op()
		if err != nil && !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithContext(backoff.WithMaxRetries(b, 3), ctx))
}

func retryable(err error) bool {
	var serr *stripego.Error
	if errors.As(err, &serr) {
		return serr.HTTPStatusCode == http.StatusTooManyRequests || serr.HTTPStatusCode >= 500
	}
	return true
}
