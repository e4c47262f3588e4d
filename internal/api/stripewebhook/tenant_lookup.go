package stripewebhooks

import (
	"strconv"

	"auvora-crm/internal/domain/tenants"

	"gorm.io/gorm"
)

func tenantIDFromMetadata(md map[string]string) uint {
	if md == nil {
		return 0
	}
	return parseTenantID(md["tenant_id"])
}

func parseTenantID(s string) uint {
	if s == "" {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// findTenant tries the explicit tenant id first, then the subscription id
// and the customer id. A zero ID means no tenant matched.
func findTenant(db *gorm.DB, tenantID uint, subscriptionID, customerID string) tenants.Tenant {
	var t tenants.Tenant
	if tenantID != 0 {
		_ = db.Where("id = ?", tenantID).First(&t).Error
	}
	if t.ID == 0 && subscriptionID != "" {
		_ = db.Where("stripe_subscription_id = ?", subscriptionID).First(&t).Error
	}
	if t.ID == 0 && customerID != "" {
		_ = db.Where("stripe_customer_id = ?", customerID).First(&t).Error
	}
	return t
}
