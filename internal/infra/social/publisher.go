package social

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	socialdomain "auvora-crm/internal/domain/social"
	"auvora-crm/internal/infra/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Publisher interface {
	Publish(ctx context.Context, p socialdomain.Post) (string, error)
}

// StubPublisher pretends to post to the platform and returns a fake
// external id.
type StubPublisher struct{}

func (StubPublisher) Publish(_ context.Context, p socialdomain.Post) (string, error) {
	id := p.Platform + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	logger.L().Info("social stub: post published",
		zap.Uint("tenant_id", p.TenantID),
		zap.String("platform", p.Platform),
		zap.String("external_id", id),
	)
	return id, nil
}

// Publish sends one post and stores the outcome on it.
func Publish(ctx context.Context, db *gorm.DB, pub Publisher, post *socialdomain.Post, now time.Time) error {
	if post.Status == socialdomain.StatusPublished {
		return socialdomain.ErrAlreadyPublished
	}

	extID, err := pub.Publish(ctx, *post)
	if err != nil {
		post.Status = socialdomain.StatusFailed
		post.Error = err.Error()
	} else {
		post.Status = socialdomain.StatusPublished
		post.ExternalID = extID
		post.PublishedAt = &now
		post.Error = ""
	}

	if saveErr := db.Save(post).Error; saveErr != nil {
		return fmt.Errorf("save post: %w", saveErr)
	}
	return err
}

// PublishDue publishes every scheduled post whose time has come and returns
// how many went out.
func PublishDue(ctx context.Context, db *gorm.DB, pub Publisher, now time.Time) (int, error) {
	var due []socialdomain.Post
	if err := db.Where("status = ? AND scheduled_for <= ?", socialdomain.StatusScheduled, now).
		Order("scheduled_for").
		Find(&due).Error; err != nil {
		return 0, err
	}

	published := 0
	var errs []error
	for i := range due {
		if err := Publish(ctx, db, pub, &due[i], now); err != nil {
			errs = append(errs, fmt.Errorf("post %d: %w", due[i].ID, err))
			continue
		}
		published++
	}
	return published, errors.Join(errs...)
}
