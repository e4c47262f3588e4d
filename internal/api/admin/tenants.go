package admin

import (
	"net/http"
	"strings"
	"time"

	"auvora-crm/database"
	askapi "auvora-crm/internal/api/ask"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/access"
	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/leads"
	"auvora-crm/internal/domain/quickbooks"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/domain/users"
	"auvora-crm/internal/infra/logger"
	"auvora-crm/internal/infra/metrics"
	"auvora-crm/internal/seed"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TenantDetail struct {
	Tenant           tenants.Tenant           `json:"tenant"`
	PublicURL        string                   `json:"public_url"`
	Onboarding       []tenants.OnboardingStep `json:"onboarding"`
	UserCount        int64                    `json:"user_count"`
	OpenInvoiceTotal float64                  `json:"open_invoice_total"`
	AccessState      access.AccessState       `json:"access_state"`
}

// GET /api/admin/tenants
func ListTenants(c *gin.Context) {
	q := database.DB.Model(&tenants.Tenant{}).
		Preload("Plan").
		Scopes(httpx.Search(c.Query("q"), "name", "subdomain", "contact_email"))

	if status := c.Query("status"); status != "" {
		st, err := tenants.ParseOnboardingStatus(status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		q = q.Where("onboarding_status = ?", st)
	}
	if industry := c.Query("industry"); industry != "" {
		q = q.Where("industry = ?", strings.ToLower(industry))
	}
	switch c.Query("demo") {
	case "true", "1":
		q = q.Where("is_demo = ?", true)
	case "false", "0":
		q = q.Where("is_demo = ?", false)
	}

	list := []tenants.Tenant{}
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tenants"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/admin/tenants
func CreateTenant(c *gin.Context) {
	var input TenantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		tenant *tenants.Tenant
		owner  *users.User
	)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		tenant, owner, err = ProvisionTenant(tx, input, time.Now())
		return err
	})
	if err != nil {
		RespondProvisionError(c, err)
		return
	}

	metrics.RecordTenantOperation("create")
	logger.FromContext(c).Info("tenant created", zap.Uint("tenant_id", tenant.ID), zap.String("subdomain", tenant.Subdomain))

	c.JSON(http.StatusCreated, gin.H{"tenant": tenant, "owner": owner})
}

// GET /api/admin/tenants/:id
func GetTenant(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var t tenants.Tenant
	if err := database.DB.Preload("Plan").First(&t, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Tenant")
		return
	}

	detail := TenantDetail{
		Tenant:      t,
		PublicURL:   tenants.PublicURL(t.Subdomain),
		Onboarding:  tenants.OnboardingProgress(t.OnboardingStatus),
		AccessState: access.ComputeEffectiveAccessState(time.Now(), t),
	}
	if err := database.DB.Model(&users.User{}).Where("tenant_id = ?", t.ID).Count(&detail.UserCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}
	if err := database.DB.Model(&billing.Invoice{}).
		Where("tenant_id = ? AND status IN ?", t.ID, []string{billing.InvoiceSent, billing.InvoiceOverdue}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&detail.OpenInvoiceTotal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to total invoices"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

type tenantPatch struct {
	Name             *string `json:"name"`
	Subdomain        *string `json:"subdomain"`
	Industry         *string `json:"industry"`
	ContactName      *string `json:"contact_name"`
	ContactEmail     *string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone     *string `json:"contact_phone"`
	PrimaryColor     *string `json:"primary_color"`
	LogoURL          *string `json:"logo_url"`
	OnboardingStatus *string `json:"onboarding_status"`
	PlanID           *uint   `json:"plan_id"`
}

// PATCH /api/admin/tenants/:id
func UpdateTenant(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var patch tenantPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var t tenants.Tenant
	if err := database.DB.First(&t, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Tenant")
		return
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name cannot be empty"})
			return
		}
		updates["name"] = name
	}
	if patch.Subdomain != nil {
		sub := tenants.NormalizeSubdomain(*patch.Subdomain)
		if err := tenants.ValidateSubdomain(sub); err != nil {
			RespondProvisionError(c, err)
			return
		}
		if err := ensureSubdomainFree(database.DB, sub, t.ID); err != nil {
			RespondProvisionError(c, err)
			return
		}
		updates["subdomain"] = sub
	}
	if patch.Industry != nil {
		industry := strings.ToLower(strings.TrimSpace(*patch.Industry))
		if !tenants.ValidIndustry(industry) {
			RespondProvisionError(c, ErrInvalidIndustry)
			return
		}
		updates["industry"] = industry
	}
	if patch.PrimaryColor != nil {
		if *patch.PrimaryColor != "" && !hexColor.MatchString(*patch.PrimaryColor) {
			RespondProvisionError(c, ErrInvalidColor)
			return
		}
		updates["primary_color"] = *patch.PrimaryColor
	}
	if patch.OnboardingStatus != nil {
		st, err := tenants.ParseOnboardingStatus(*patch.OnboardingStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["onboarding_status"] = st
	}
	if patch.PlanID != nil {
		if err := ensurePlanExists(database.DB, patch.PlanID); err != nil {
			RespondProvisionError(c, err)
			return
		}
		updates["plan_id"] = *patch.PlanID
	}
	if patch.ContactName != nil {
		updates["contact_name"] = *patch.ContactName
	}
	if patch.ContactEmail != nil {
		updates["contact_email"] = strings.ToLower(strings.TrimSpace(*patch.ContactEmail))
	}
	if patch.ContactPhone != nil {
		updates["contact_phone"] = *patch.ContactPhone
	}
	if patch.LogoURL != nil {
		updates["logo_url"] = *patch.LogoURL
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&t).Updates(updates).Error; err != nil {
			RespondProvisionError(c, err)
			return
		}
		metrics.RecordTenantOperation("update")
	}

	if err := database.DB.Preload("Plan").First(&t, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload tenant"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// POST /api/admin/tenants/:id/onboarding sets the pipeline to exactly the
// given step, forwards or backwards.
func SetOnboardingStep(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Step string `json:"step" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	step, err := tenants.ParseOnboardingStatus(body.Step)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := database.DB.Model(&tenants.Tenant{}).Where("id = ?", id).Update("onboarding_status", step)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update onboarding"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	metrics.RecordTenantOperation("onboarding")
	c.JSON(http.StatusOK, gin.H{
		"onboarding_status": step,
		"onboarding":        tenants.OnboardingProgress(step),
	})
}

// DELETE /api/admin/tenants/:id?confirm=<subdomain>
func DeleteTenant(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var t tenants.Tenant
	if err := database.DB.First(&t, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Tenant")
		return
	}

	if confirm := c.Query("confirm"); confirm == "" || confirm != t.Subdomain {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type the tenant subdomain to confirm deletion"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return purgeTenant(tx, t.ID)
	})
	if err != nil {
		logger.FromContext(c).Error("tenant delete failed", zap.Uint("tenant_id", t.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tenant"})
		return
	}

	askapi.PurgeTenant(t.ID)
	metrics.RecordTenantOperation("delete")
	logger.FromContext(c).Info("tenant deleted", zap.Uint("tenant_id", t.ID), zap.String("subdomain", t.Subdomain))
	c.JSON(http.StatusOK, gin.H{"message": "Tenant deleted"})
}

// purgeTenant removes the tenant and every row scoped to it.
func purgeTenant(tx *gorm.DB, tenantID uint) error {
	if err := seed.Wipe(tx, tenantID); err != nil {
		return err
	}

	userIDs := tx.Model(&users.User{}).Select("id").Where("tenant_id = ?", tenantID)
	if err := tx.Where("user_id IN (?)", userIDs).Delete(&users.VerificationToken{}).Error; err != nil {
		return err
	}

	for _, model := range []interface{}{
		&users.User{},
		&billing.Invoice{},
		&billing.Contract{},
		&quickbooks.Sync{},
	} {
		if err := tx.Where("tenant_id = ?", tenantID).Delete(model).Error; err != nil {
			return err
		}
	}

	if err := tx.Model(&leads.Lead{}).Where("tenant_id = ?", tenantID).Update("tenant_id", nil).Error; err != nil {
		return err
	}
	return tx.Delete(&tenants.Tenant{}, tenantID).Error
}
