package admin

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"auvora-crm/internal/api/auth"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrSubdomainTaken  = errors.New("subdomain already in use")
	ErrInvalidIndustry = errors.New("invalid industry")
	ErrInvalidColor    = errors.New("primary color must look like #rrggbb")
	ErrUnknownPlan     = errors.New("unknown plan")

	hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

type OwnerInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type TenantInput struct {
	Name         string      `json:"name" binding:"required"`
	Subdomain    string      `json:"subdomain" binding:"omitempty,subdomain"`
	Industry     string      `json:"industry"`
	ContactName  string      `json:"contact_name"`
	ContactEmail string      `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string      `json:"contact_phone"`
	PrimaryColor string      `json:"primary_color"`
	LogoURL      string      `json:"logo_url"`
	PlanID       *uint       `json:"plan_id"`
	IsDemo       bool        `json:"-"`
	Owner        *OwnerInput `json:"owner"`
}

// ProvisionTenant creates a tenant, starts its trial and optionally its
// owner account. Run it inside a transaction.
func ProvisionTenant(tx *gorm.DB, in TenantInput, now time.Time) (*tenants.Tenant, *users.User, error) {
	sub := tenants.NormalizeSubdomain(in.Subdomain)
	if sub == "" {
		sub = tenants.MakeSubdomain(in.Name)
	}
	if err := tenants.ValidateSubdomain(sub); err != nil {
		return nil, nil, err
	}
	if err := ensureSubdomainFree(tx, sub, 0); err != nil {
		return nil, nil, err
	}

	industry := strings.ToLower(strings.TrimSpace(in.Industry))
	if industry == "" {
		industry = tenants.IndustryOther
	}
	if !tenants.ValidIndustry(industry) {
		return nil, nil, ErrInvalidIndustry
	}
	if in.PrimaryColor != "" && !hexColor.MatchString(in.PrimaryColor) {
		return nil, nil, ErrInvalidColor
	}
	if err := ensurePlanExists(tx, in.PlanID); err != nil {
		return nil, nil, err
	}

	t := tenants.Tenant{
		Name:             strings.TrimSpace(in.Name),
		Subdomain:        sub,
		Industry:         industry,
		ContactName:      in.ContactName,
		ContactEmail:     strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		ContactPhone:     in.ContactPhone,
		PrimaryColor:     in.PrimaryColor,
		LogoURL:          in.LogoURL,
		PlanID:           in.PlanID,
		IsDemo:           in.IsDemo,
		OnboardingStatus: tenants.OnboardingPending,
	}
	t.StartTrial(now)

	if err := tx.Create(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrSubdomainTaken
		}
		return nil, nil, fmt.Errorf("create tenant: %w", err)
	}

	var owner *users.User
	if in.Owner != nil {
		tenantID := t.ID
		u, err := auth.CreateUser(tx, auth.NewUserInput{
			TenantID: &tenantID,
			Name:     in.Owner.Name,
			Email:    in.Owner.Email,
			Phone:    in.Owner.Phone,
			Password: in.Owner.Password,
			Role:     users.RoleOwner,
		})
		if err != nil {
			return nil, nil, err
		}
		owner = u
	}

	return &t, owner, nil
}

func ensureSubdomainFree(tx *gorm.DB, sub string, exceptID uint) error {
	var n int64
	q := tx.Model(&tenants.Tenant{}).Where("subdomain = ?", sub)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrSubdomainTaken
	}
	return nil
}

func ensurePlanExists(tx *gorm.DB, planID *uint) error {
	if planID == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&plans.Plan{}).Where("id = ?", *planID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownPlan
	}
	return nil
}

// UniqueSubdomain returns base, or base-2, base-3... whichever is free.
func UniqueSubdomain(tx *gorm.DB, base string) (string, error) {
	candidate := base
	for i := 2; i < 100; i++ {
		err := tenants.ValidateSubdomain(candidate)
		if err == nil {
			err = ensureSubdomainFree(tx, candidate, 0)
		}
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, ErrSubdomainTaken) && !errors.Is(err, tenants.ErrReservedSubdomain) {
			return "", err
		}
		suffix := fmt.Sprintf("-%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > 63 {
			trimmed = strings.Trim(trimmed[:63-len(suffix)], "-")
		}
		candidate = trimmed + suffix
	}
	return "", ErrSubdomainTaken
}

// RespondProvisionError maps provisioning failures onto HTTP answers.
func RespondProvisionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSubdomainTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": "Subdomain already in use"})
	case errors.Is(err, tenants.ErrInvalidSubdomain), errors.Is(err, tenants.ErrReservedSubdomain):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidIndustry), errors.Is(err, ErrInvalidColor), errors.Is(err, ErrUnknownPlan):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidRole):
		auth.RespondCreateUserError(c, err)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save tenant"})
	}
}
