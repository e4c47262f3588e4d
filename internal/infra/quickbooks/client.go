package quickbooks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/infra/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrUnauthorized is never retried.
var ErrUnauthorized = errors.New("quickbooks: unauthorized")

type Client interface {
	PushInvoice(ctx context.Context, inv billing.Invoice) (string, error)
	PushPayment(ctx context.Context, p billing.Payment) (string, error)
}

// StubClient stands in for the QuickBooks Online API. It logs each call and
// hands back a synthetic id. FailTimes makes the first N calls fail with a
// transient error.
type StubClient struct {
	FailTimes int

	mu    sync.Mutex
	calls int
}

func (c *StubClient) fail() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.calls <= c.FailTimes {
		return fmt.Errorf("quickbooks: temporary failure (attempt %d)", c.calls)
	}
	return nil
}

func (c *StubClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *StubClient) PushInvoice(_ context.Context, inv billing.Invoice) (string, error) {
	if err := c.fail(); err != nil {
		return "", err
	}
	logger.L().Info("quickbooks stub: invoice pushed", zap.String("number", inv.Number), zap.Float64("amount", inv.Amount))
	return fmt.Sprintf("QB-INV-%d", inv.ID), nil
}

func (c *StubClient) PushPayment(_ context.Context, p billing.Payment) (string, error) {
	if err := c.fail(); err != nil {
		return "", err
	}
	logger.L().Info("quickbooks stub: payment pushed", zap.Uint("payment_id", p.ID), zap.Float64("amount", p.Amount))
	return fmt.Sprintf("QB-PAY-%d", p.ID), nil
}

type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// withRetry runs op with exponential backoff until it succeeds, the retries
// run out or ctx ends. ErrUnauthorized stops immediately.
func withRetry(ctx context.Context, cfg RetryConfig, op func() (string, error)) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval

	var policy backoff.BackOff = b
	if cfg.MaxRetries > 0 {
		policy = backoff.WithMaxRetries(b, uint64(cfg.MaxRetries))
	}

	return backoff.RetryWithData(func() (string, error) {
		id, err := op()
		if errors.Is(err, ErrUnauthorized) {
			return "", backoff.Permanent(err)
		}
		return id, err
	}, backoff.WithContext(policy, ctx))
}
