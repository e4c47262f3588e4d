package studio

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidDiscount  = errors.New("discount percent must be between 1 and 100")
	ErrPromotionWindow  = errors.New("promotion ends before it starts")
	ErrPromotionExpired = errors.New("promotion is not active")
)

type Promotion struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TenantID        uint      `gorm:"not null;uniqueIndex:idx_promotions_tenant_code" json:"tenant_id"`
	Name            string    `gorm:"not null" json:"name"`
	Code            string    `gorm:"not null;uniqueIndex:idx_promotions_tenant_code" json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Redemptions     int       `json:"redemptions"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (p Promotion) Validate() error {
	if p.DiscountPercent < 1 || p.DiscountPercent > 100 {
		return ErrInvalidDiscount
	}
	if p.EndsAt.Before(p.StartsAt) {
		return ErrPromotionWindow
	}
	return nil
}

func (p Promotion) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartsAt) && !now.After(p.EndsAt)
}

func (p *Promotion) Redeem(now time.Time) error {
	if !p.ActiveAt(now) {
		return ErrPromotionExpired
	}
	p.Redemptions++
	return nil
}
