package billing

import (
	"net/http"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

// GET /api/billing/payments
func GetPaymentHistory(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	payments := []billing.Payment{}
	if err := database.DB.
		Preload("Plan").
		Scopes(httpx.ForTenant(tenantID)).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GET /api/billing/invoices lists what Auvora has billed the tenant. Drafts
// stay internal.
func GetInvoices(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	invoices := []billing.Invoice{}
	if err := database.DB.
		Scopes(httpx.ForTenant(tenantID)).
		Where("status <> ?", billing.InvoiceDraft).
		Order("issued_at DESC").
		Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invoices"})
		return
	}

	c.JSON(http.StatusOK, invoices)
}
