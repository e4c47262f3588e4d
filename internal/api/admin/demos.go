package admin

import (
	"net/http"
	"strings"
	"time"

	"auvora-crm/database"
	askapi "auvora-crm/internal/api/ask"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/infra/logger"
	"auvora-crm/internal/infra/metrics"
	"auvora-crm/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DemoSubdomain builds demo-<industry>-<6 hex>.
func DemoSubdomain(industry string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "demo-" + industry + "-" + hex[:6]
}

// GET /api/admin/demos
func ListDemos(c *gin.Context) {
	list := []tenants.Tenant{}
	if err := database.DB.Where("is_demo = ?", true).Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load demos"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/admin/demos
func CreateDemo(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Industry string `json:"industry"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	industry := strings.ToLower(strings.TrimSpace(body.Industry))
	if industry == "" {
		industry = tenants.IndustryFitness
	}
	if !tenants.ValidIndustry(industry) {
		RespondProvisionError(c, ErrInvalidIndustry)
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		name = "Demo " + strings.ToUpper(industry[:1]) + industry[1:]
	}

	now := time.Now()
	var (
		tenant *tenants.Tenant
		result seed.Result
	)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		tenant, _, err = ProvisionTenant(tx, TenantInput{
			Name:      name,
			Subdomain: DemoSubdomain(industry),
			Industry:  industry,
			IsDemo:    true,
		}, now)
		if err != nil {
			return err
		}
		result, err = seed.Populate(tx, tenant.ID, industry, now)
		return err
	})
	if err != nil {
		RespondProvisionError(c, err)
		return
	}

	metrics.RecordTenantOperation("demo_create")
	logger.FromContext(c).Info("demo created", zap.Uint("tenant_id", tenant.ID), zap.String("industry", industry))
	c.JSON(http.StatusCreated, gin.H{"tenant": tenant, "seeded": result})
}

// POST /api/admin/demos/:id/reset
func ResetDemo(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var t tenants.Tenant
	if err := database.DB.First(&t, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Tenant")
		return
	}
	if !t.IsDemo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only demo tenants can be reset"})
		return
	}

	result, err := seed.Reset(database.DB, t.ID, t.Industry, time.Now())
	if err != nil {
		logger.FromContext(c).Error("demo reset failed", zap.Uint("tenant_id", t.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset demo"})
		return
	}

	askapi.PurgeTenant(t.ID)
	metrics.RecordTenantOperation("demo_reset")
	c.JSON(http.StatusOK, gin.H{"message": "Demo reset", "seeded": result})
}
