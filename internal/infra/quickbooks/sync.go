package quickbooks

import (
	"context"
	"fmt"
	"time"

	"auvora-crm/internal/domain/billing"
	qbdomain "auvora-crm/internal/domain/quickbooks"

	"gorm.io/gorm"
)

type Syncer struct {
	DB     *gorm.DB
	Client Client
	Retry  RetryConfig
}

// Run pushes the tenant's paid invoices that have no QuickBooks id yet,
// along with their payments, and records the run.
func (s *Syncer) Run(ctx context.Context, tenantID uint, now time.Time) (*qbdomain.Sync, error) {
	run := &qbdomain.Sync{TenantID: tenantID, Status: qbdomain.SyncRunning, StartedAt: now}
	if err := s.DB.Create(run).Error; err != nil {
		return nil, fmt.Errorf("create sync run: %w", err)
	}

	pushErr := s.push(ctx, tenantID, run)
	run.Finish(pushErr, time.Now())

	if err := s.DB.Save(run).Error; err != nil {
		return run, fmt.Errorf("save sync run: %w", err)
	}
	return run, nil
}

func (s *Syncer) push(ctx context.Context, tenantID uint, run *qbdomain.Sync) error {
	var invoices []billing.Invoice
	if err := s.DB.
		Where("tenant_id = ? AND status = ? AND (quickbooks_id IS NULL OR quickbooks_id = '')", tenantID, billing.InvoicePaid).
		Order("id").
		Find(&invoices).Error; err != nil {
		return fmt.Errorf("load invoices: %w", err)
	}

	for _, inv := range invoices {
		inv := inv
		qbID, err := withRetry(ctx, s.Retry, func() (string, error) {
			return s.Client.PushInvoice(ctx, inv)
		})
		if err != nil {
			return fmt.Errorf("push invoice %s: %w", inv.Number, err)
		}
		if err := s.DB.Model(&billing.Invoice{}).Where("id = ?", inv.ID).Update("quickbooks_id", qbID).Error; err != nil {
			return fmt.Errorf("store quickbooks id: %w", err)
		}
		run.InvoicesPushed++

		var payments []billing.Payment
		if err := s.DB.Where("invoice_id = ?", inv.ID).Find(&payments).Error; err != nil {
			return fmt.Errorf("load payments: %w", err)
		}
		for _, p := range payments {
			p := p
			if _, err := withRetry(ctx, s.Retry, func() (string, error) {
				return s.Client.PushPayment(ctx, p)
			}); err != nil {
				return fmt.Errorf("push payment %d: %w", p.ID, err)
			}
			run.PaymentsPushed++
		}
	}
	return nil
}
