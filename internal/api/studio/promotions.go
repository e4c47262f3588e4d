package studio

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/studio"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type promotionInput struct {
	Name            *string `json:"name"`
	Code            *string `json:"code"`
	DiscountPercent *int    `json:"discount_percent"`
	StartsAt        *string `json:"starts_at"`
	EndsAt          *string `json:"ends_at"`
}

func (in promotionInput) apply(p *studio.Promotion) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Code != nil {
		p.Code = studio.NormalizeCode(*in.Code)
	}
	if in.DiscountPercent != nil {
		p.DiscountPercent = *in.DiscountPercent
	}
	if in.StartsAt != nil {
		t, err := httpx.ParseDate(*in.StartsAt)
		if err != nil {
			return errors.New("invalid starts_at")
		}
		p.StartsAt = t
	}
	if in.EndsAt != nil {
		t, err := httpx.ParseDate(*in.EndsAt)
		if err != nil {
			return errors.New("invalid ends_at")
		}
		p.EndsAt = t
	}
	if p.Name == "" || p.Code == "" {
		return errors.New("name and code are required")
	}
	return p.Validate()
}

func codeTaken(tenantID uint, code string, exceptID uint) (bool, error) {
	var n int64
	q := database.DB.Model(&studio.Promotion{}).Where("tenant_id = ? AND code = ?", tenantID, code)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func loadPromotion(c *gin.Context, tenantID uint) (*studio.Promotion, bool) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return nil, false
	}
	var p studio.Promotion
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).First(&p, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Promotion")
		return nil, false
	}
	return &p, true
}

// GET /api/promotions?active=true
func ListPromotions(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	q := database.DB.Scopes(httpx.ForTenant(tenantID))
	if c.Query("active") == "true" {
		now := time.Now()
		q = q.Where("starts_at <= ? AND ends_at >= ?", now, now)
	}

	list := []studio.Promotion{}
	if err := q.Order("starts_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load promotions"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/promotions
func CreatePromotion(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input promotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	p := studio.Promotion{TenantID: tenantID, StartsAt: now, EndsAt: now.AddDate(0, 1, 0)}
	if err := input.apply(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taken, err := codeTaken(tenantID, p.Code, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check code"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Promotion code already in use"})
		return
	}

	if err := database.DB.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promotion"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func GetPromotion(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	p, ok := loadPromotion(c, tenantID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// PATCH /api/promotions/:id
func UpdatePromotion(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input promotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, ok := loadPromotion(c, tenantID)
	if !ok {
		return
	}
	if err := input.apply(p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taken, err := codeTaken(tenantID, p.Code, p.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check code"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Promotion code already in use"})
		return
	}

	if err := database.DB.Save(p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update promotion"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/promotions/:id/redeem
func RedeemPromotion(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var p studio.Promotion
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(httpx.ForTenant(tenantID)).First(&p, id).Error; err != nil {
			return err
		}
		if err := p.Redeem(time.Now()); err != nil {
			return err
		}
		return tx.Model(&p).UpdateColumn("redemptions", gorm.Expr("redemptions + 1")).Error
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
	case errors.Is(err, studio.ErrPromotionExpired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to redeem promotion"})
	}
}

// DELETE /api/promotions/:id
func DeletePromotion(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	p, ok := loadPromotion(c, tenantID)
	if !ok {
		return
	}
	if err := database.DB.Delete(p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete promotion"})
		return
	}
	c.Status(http.StatusNoContent)
}
