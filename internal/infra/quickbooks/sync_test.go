package quickbooks

import (
	"context"
	"testing"
	"time"

	"auvora-crm/internal/domain/billing"
	qbdomain "auvora-crm/internal/domain/quickbooks"
	"auvora-crm/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestSyncPushesPaidInvoicesOnce(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()

	paid := billing.Invoice{TenantID: 1, Number: "INV-202610-0001", Amount: 100, Status: billing.InvoicePaid, DueDate: now}
	sent := billing.Invoice{TenantID: 1, Number: "INV-202610-0002", Amount: 50, Status: billing.InvoiceSent, DueDate: now}
	other := billing.Invoice{TenantID: 2, Number: "INV-202610-0003", Amount: 75, Status: billing.InvoicePaid, DueDate: now}
	require.NoError(t, db.Create(&paid).Error)
	require.NoError(t, db.Create(&sent).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&billing.Payment{TenantID: 1, InvoiceID: &paid.ID, Amount: 100, Status: billing.PaymentPaid}).Error)

	client := &StubClient{FailTimes: 2}
	s := &Syncer{DB: db, Client: client, Retry: fastRetry()}

	run, err := s.Run(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, qbdomain.SyncSucceeded, run.Status)
	assert.Equal(t, 1, run.InvoicesPushed)
	assert.Equal(t, 1, run.PaymentsPushed)
	assert.Equal(t, 4, client.Calls())

	var got billing.Invoice
	require.NoError(t, db.First(&got, paid.ID).Error)
	require.NotNil(t, got.QuickBooksID)
	assert.Equal(t, "QB-INV-1", *got.QuickBooksID)

	again, err := s.Run(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 0, again.InvoicesPushed)
}

func TestSyncRecordsFailureAfterRetries(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&billing.Invoice{TenantID: 1, Number: "INV-202610-0001", Amount: 10, Status: billing.InvoicePaid, DueDate: time.Now()}).Error)

	s := &Syncer{DB: db, Client: &StubClient{FailTimes: 100}, Retry: fastRetry()}
	run, err := s.Run(context.Background(), 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, qbdomain.SyncFailed, run.Status)
	assert.Contains(t, run.Error, "temporary failure")
	assert.NotNil(t, run.FinishedAt)

	var runs []qbdomain.Sync
	require.NoError(t, db.Find(&runs).Error)
	assert.Len(t, runs, 1)
}
