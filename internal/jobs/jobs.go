package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auvora-crm/config"
	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/infra/logger"
	"auvora-crm/internal/infra/metrics"
	"auvora-crm/internal/infra/social"
	"auvora-crm/internal/seed"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	JobDemoReset     = "demo_reset"
	JobOverdueSweep  = "overdue_sweep"
	JobSocialPublish = "social_publish"
)

type Runner struct {
	db        *gorm.DB
	publisher social.Publisher
	scheduler *cron.Cron
	now       func() time.Time
}

func NewRunner(db *gorm.DB, publisher social.Publisher) *Runner {
	return &Runner{
		db:        db,
		publisher: publisher,
		scheduler: cron.New(),
		now:       time.Now,
	}
}

// Start registers the jobs on their schedules and starts the scheduler.
func (r *Runner) Start() error {
	entries := []struct {
		spec string
		name string
		fn   func(context.Context) error
	}{
		{config.DEMO_RESET_CRON, JobDemoReset, r.resetDemos},
		{config.JOBS_CRON, JobOverdueSweep, r.sweepOverdue},
		{config.JOBS_CRON, JobSocialPublish, r.publishSocial},
	}
	for _, e := range entries {
		e := e
		if _, err := r.scheduler.AddFunc(e.spec, func() { r.Run(context.Background(), e.name, e.fn) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", e.name, e.spec, err)
		}
	}

	r.scheduler.Start()
	logger.L().Info("⏰ jobs scheduled", zap.Int("entries", len(r.scheduler.Entries())))
	return nil
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.scheduler.Stop().Done()
}

// Run executes one job, logging and counting the outcome.
func (r *Runner) Run(ctx context.Context, name string, fn func(context.Context) error) {
	start := time.Now()
	err := fn(ctx)
	metrics.RecordJob(name, err)

	log := logger.L().With(zap.String("job", name), zap.Duration("took", time.Since(start)))
	if err != nil {
		log.Error("job failed", zap.Error(err))
		return
	}
	log.Info("job finished")
}

func (r *Runner) resetDemos(ctx context.Context) error {
	_, err := ResetDemos(ctx, r.db, r.now())
	return err
}

func (r *Runner) sweepOverdue(context.Context) error {
	_, err := SweepOverdue(r.db, r.now())
	return err
}

func (r *Runner) publishSocial(ctx context.Context) error {
	_, err := social.PublishDue(ctx, r.db, r.publisher, r.now())
	return err
}

// ResetDemos reseeds every demo tenant and returns how many were reset.
func ResetDemos(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	var demos []tenants.Tenant
	if err := db.WithContext(ctx).Where("is_demo = ?", true).Find(&demos).Error; err != nil {
		return 0, err
	}

	var errs []error
	reset := 0
	for _, t := range demos {
		if _, err := seed.Reset(db.WithContext(ctx), t.ID, t.Industry, now); err != nil {
			errs = append(errs, fmt.Errorf("tenant %d: %w", t.ID, err))
			continue
		}
		reset++
	}
	return reset, errors.Join(errs...)
}

// SweepOverdue moves sent invoices past their due date to overdue.
func SweepOverdue(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&billing.Invoice{}).
		Where("status = ? AND due_date < ?", billing.InvoiceSent, now).
		Update("status", billing.InvoiceOverdue)
	return res.RowsAffected, res.Error
}
