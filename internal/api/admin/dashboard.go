package admin

import (
	"net/http"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/leads"
	"auvora-crm/internal/domain/tenants"

	"github.com/gin-gonic/gin"
)

type AdminPayment struct {
	ID         uint    `json:"id"`
	TenantID   uint    `json:"tenant_id"`
	TenantName string  `json:"tenant_name"`
	InvoiceID  *uint   `json:"invoice_id,omitempty"`
	PlanName   *string `json:"plan_name,omitempty"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	Status     string  `json:"status"`
	ReceiptURL *string `json:"receipt_url,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type AdminStats struct {
	TotalTenants      int64            `json:"total_tenants"`
	LiveTenants       int64            `json:"live_tenants"`
	DemoTenants       int64            `json:"demo_tenants"`
	TenantsPerStatus  map[string]int64 `json:"tenants_per_status"`
	TenantsPerPlan    map[string]int64 `json:"tenants_per_plan"`
	MRR               float64          `json:"mrr"`
	TotalRevenue      float64          `json:"total_revenue"`
	RecentRevenue     float64          `json:"recent_revenue"`
	OutstandingAmount float64          `json:"outstanding_amount"`
	OpenLeads         int64            `json:"open_leads"`
}

// GET /api/admin/payments
func ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	err := database.DB.Preload("Tenant").Preload("Plan").Order("created_at DESC").Find(&payments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	result := make([]AdminPayment, 0, len(payments))
	for _, p := range payments {
		var planName *string
		if p.Plan != nil {
			planName = &p.Plan.Name
		}
		tenantName := ""
		if p.Tenant != nil {
			tenantName = p.Tenant.Name
		}
		result = append(result, AdminPayment{
			ID:         p.ID,
			TenantID:   p.TenantID,
			TenantName: tenantName,
			InvoiceID:  p.InvoiceID,
			PlanName:   planName,
			Amount:     p.Amount,
			Method:     p.Method,
			Status:     p.Status,
			ReceiptURL: p.ReceiptURL,
			CreatedAt:  p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, result)
}

// GET /api/admin/stats
func GetAdminStats(c *gin.Context) {
	var stats AdminStats
	db := database.DB

	db.Model(&tenants.Tenant{}).Where("is_demo = ?", false).Count(&stats.TotalTenants)
	db.Model(&tenants.Tenant{}).Where("is_demo = ? AND onboarding_status = ?", false, tenants.OnboardingLive).Count(&stats.LiveTenants)
	db.Model(&tenants.Tenant{}).Where("is_demo = ?", true).Count(&stats.DemoTenants)

	db.Model(&billing.Contract{}).Where("status = ?", billing.ContractActive).
		Select("COALESCE(SUM(monthly_fee), 0)").Scan(&stats.MRR)
	db.Model(&billing.Payment{}).Where("status = ?", billing.PaymentPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.TotalRevenue)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	db.Model(&billing.Payment{}).
		Where("status = ? AND created_at >= ?", billing.PaymentPaid, thirtyDaysAgo).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.RecentRevenue)

	db.Model(&billing.Invoice{}).
		Where("status IN ?", []string{billing.InvoiceSent, billing.InvoiceOverdue}).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.OutstandingAmount)

	db.Model(&leads.Lead{}).
		Where("status NOT IN ?", []string{leads.StatusConverted, leads.StatusLost}).
		Count(&stats.OpenLeads)

	type group struct {
		Name  *string
		Count int64
	}

	var perStatus []group
	db.Model(&tenants.Tenant{}).
		Select("onboarding_status AS name, COUNT(id) AS count").
		Where("is_demo = ?", false).
		Group("onboarding_status").
		Scan(&perStatus)
	stats.TenantsPerStatus = map[string]int64{}
	for _, g := range perStatus {
		if g.Name != nil {
			stats.TenantsPerStatus[*g.Name] = g.Count
		}
	}

	var perPlan []group
	db.Table("tenants").
		Select("plans.name AS name, COUNT(tenants.id) AS count").
		Joins("LEFT JOIN plans ON tenants.plan_id = plans.id").
		Where("tenants.is_demo = ?", false).
		Group("plans.name").
		Scan(&perPlan)
	stats.TenantsPerPlan = map[string]int64{}
	for _, g := range perPlan {
		name := "No Plan"
		if g.Name != nil {
			name = *g.Name
		}
		stats.TenantsPerPlan[name] = g.Count
	}

	c.JSON(http.StatusOK, stats)
}
