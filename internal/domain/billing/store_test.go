package billing_test

import (
	"testing"
	"time"

	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNextInvoiceNumberIsPerMonth(t *testing.T) {
	db := testutil.NewDB(t)
	oct := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	first, err := billing.NextInvoiceNumber(db, oct)
	require.NoError(t, err)
	assert.Equal(t, "INV-202610-0001", first)

	require.NoError(t, db.Create(&billing.Invoice{TenantID: 1, Number: first, DueDate: oct}).Error)
	require.NoError(t, db.Create(&billing.Invoice{TenantID: 1, Number: "INV-202609-0007", DueDate: oct}).Error)

	next, err := billing.NextInvoiceNumber(db, oct)
	require.NoError(t, err)
	assert.Equal(t, "INV-202610-0002", next)

	nov, err := billing.NextInvoiceNumber(db, oct.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, "INV-202611-0001", nov)
}

func TestNextInvoiceNumberPastFourDigits(t *testing.T) {
	db := testutil.NewDB(t)
	oct := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	for _, n := range []string{"INV-202610-9998", "INV-202610-9999", "INV-202610-10000"} {
		require.NoError(t, db.Create(&billing.Invoice{TenantID: 1, Number: n, DueDate: oct}).Error)
	}

	next, err := billing.NextInvoiceNumber(db, oct)
	require.NoError(t, err)
	assert.Equal(t, "INV-202610-10001", next)
}

func TestDuplicateInvoiceNumberIsDuplicatedKey(t *testing.T) {
	db := testutil.NewDB(t)
	oct := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&billing.Invoice{TenantID: 1, Number: "INV-202610-0001", DueDate: oct}).Error)
	err := db.Create(&billing.Invoice{TenantID: 2, Number: "INV-202610-0001", DueDate: oct}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMarkPaidRecordsPayment(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()
	inv := billing.Invoice{TenantID: 3, Number: "INV-202610-0001", Amount: 249, Status: billing.InvoiceSent, DueDate: now}
	require.NoError(t, db.Create(&inv).Error)

	p, err := billing.MarkPaid(db, &inv, billing.PaidDetails{}, now)
	require.NoError(t, err)
	assert.Equal(t, 249.0, p.Amount)
	assert.Equal(t, billing.MethodManual, p.Method)
	require.NotNil(t, p.InvoiceID)
	assert.Equal(t, inv.ID, *p.InvoiceID)

	var stored billing.Invoice
	require.NoError(t, db.First(&stored, inv.ID).Error)
	assert.Equal(t, billing.InvoicePaid, stored.Status)
	assert.NotNil(t, stored.PaidAt)

	_, err = billing.MarkPaid(db, &stored, billing.PaidDetails{}, now)
	assert.ErrorIs(t, err, billing.ErrInvoiceAlreadyPaid)
}
