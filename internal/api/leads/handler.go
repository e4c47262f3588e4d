package leads

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"auvora-crm/config"
	"auvora-crm/database"
	"auvora-crm/internal/api/admin"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/leads"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/infra/logger"
	"auvora-crm/internal/infra/mailer"
	"auvora-crm/internal/infra/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type leadInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Business *string `json:"business"`
	Industry *string `json:"industry"`
	Status   *string `json:"status"`
	Source   *string `json:"source"`
	Notes    *string `json:"notes"`
}

func (in leadInput) apply(l *leads.Lead) error {
	if in.Name != nil {
		l.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		l.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		l.Phone = *in.Phone
	}
	if in.Business != nil {
		l.Business = strings.TrimSpace(*in.Business)
	}
	if in.Industry != nil {
		l.Industry = strings.ToLower(strings.TrimSpace(*in.Industry))
	}
	if in.Status != nil {
		l.Status = *in.Status
	}
	if in.Source != nil {
		l.Source = *in.Source
	}
	if in.Notes != nil {
		l.Notes = *in.Notes
	}
	if l.Name == "" {
		return fmt.Errorf("name is required")
	}
	return l.Validate()
}

// filtered applies the list filters shared by the listing and the export.
func filtered(c *gin.Context) *gorm.DB {
	q := database.DB.Model(&leads.Lead{}).
		Scopes(httpx.Search(c.Query("q"), "name", "email", "business"))
	if v := c.Query("status"); v != "" {
		q = q.Where("status = ?", v)
	}
	if v := c.Query("source"); v != "" {
		q = q.Where("source = ?", v)
	}
	if v := c.Query("industry"); v != "" {
		q = q.Where("industry = ?", strings.ToLower(v))
	}
	return q.Order("created_at DESC")
}

// GET /api/leads
func ListLeads(c *gin.Context) {
	list := []leads.Lead{}
	if err := filtered(c).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leads"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/leads/export
func ExportLeads(c *gin.Context) {
	var list []leads.Lead
	if err := filtered(c).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leads"})
		return
	}

	filename := fmt.Sprintf("leads-%s.csv", time.Now().Format(httpx.DateLayout))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := leads.WriteCSV(c.Writer, list); err != nil {
		logger.FromContext(c).Error("lead export failed", zap.Error(err))
	}
}

// POST /api/leads
func CreateLead(c *gin.Context) {
	var input leadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l := leads.Lead{Status: leads.StatusNew, Source: leads.SourceManual}
	if err := input.apply(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Create(&l).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead"})
		return
	}
	c.JSON(http.StatusCreated, l)
}

// GET /api/leads/:id
func GetLead(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	var l leads.Lead
	if err := database.DB.First(&l, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Lead")
		return
	}
	c.JSON(http.StatusOK, l)
}

// PATCH /api/leads/:id
func UpdateLead(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var input leadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var l leads.Lead
	if err := database.DB.First(&l, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Lead")
		return
	}
	if err := input.apply(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Save(&l).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead"})
		return
	}
	c.JSON(http.StatusOK, l)
}

// DELETE /api/leads/:id
func DeleteLead(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	res := database.DB.Delete(&leads.Lead{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lead"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type demoRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Business string `json:"business" binding:"required"`
	Industry string `json:"industry"`
	Message  string `json:"message"`
}

// POST /api/demo-requests is the public form on the marketing site.
func RequestDemo(c *gin.Context) {
	var input demoRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	industry := strings.ToLower(strings.TrimSpace(input.Industry))
	if industry != "" && !tenants.ValidIndustry(industry) {
		industry = tenants.IndustryOther
	}

	l := leads.Lead{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:    input.Phone,
		Business: strings.TrimSpace(input.Business),
		Industry: industry,
		Status:   leads.StatusNew,
		Source:   leads.SourceDemoRequest,
		Notes:    input.Message,
	}
	if err := database.DB.Create(&l).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save request"})
		return
	}

	if err := notifySales(c.Request.Context(), l); err != nil {
		logger.FromContext(c).Warn("demo request notification failed", zap.Uint("lead_id", l.ID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Thanks! We'll be in touch shortly."})
}

func notifySales(ctx context.Context, l leads.Lead) error {
	body := fmt.Sprintf("New demo request\n\nName: %s\nEmail: %s\nPhone: %s\nBusiness: %s\nIndustry: %s\n\n%s",
		l.Name, l.Email, l.Phone, l.Business, l.Industry, l.Notes)
	return mailer.Default.Send(ctx, mailer.Mail{
		To:      config.MAIL_FROM,
		ToName:  config.MAIL_FROM_NAME,
		Subject: "Demo request: " + l.Business,
		Text:    body,
	})
}

// POST /api/leads/:id/convert provisions a tenant from the lead.
func ConvertLead(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var l leads.Lead
	if err := database.DB.First(&l, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Lead")
		return
	}
	if l.Status == leads.StatusConverted && l.TenantID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Lead already converted"})
		return
	}

	name := l.Business
	if name == "" {
		name = l.Name
	}
	industry := l.Industry
	if !tenants.ValidIndustry(industry) {
		industry = tenants.IndustryOther
	}

	var tenant *tenants.Tenant
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		sub, err := admin.UniqueSubdomain(tx, tenants.MakeSubdomain(name))
		if err != nil {
			return err
		}
		tenant, _, err = admin.ProvisionTenant(tx, admin.TenantInput{
			Name:         name,
			Subdomain:    sub,
			Industry:     industry,
			ContactName:  l.Name,
			ContactEmail: l.Email,
			ContactPhone: l.Phone,
		}, time.Now())
		if err != nil {
			return err
		}
		return tx.Model(&l).Updates(map[string]interface{}{
			"status":    leads.StatusConverted,
			"tenant_id": tenant.ID,
		}).Error
	})
	if err != nil {
		admin.RespondProvisionError(c, err)
		return
	}

	metrics.RecordTenantOperation("convert")
	c.JSON(http.StatusCreated, gin.H{"tenant": tenant, "lead": l})
}
