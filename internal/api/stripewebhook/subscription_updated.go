package stripewebhooks

import (
	"fmt"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

func customerID(cus *stripe.Customer) string {
	if cus == nil {
		return ""
	}
	return cus.ID
}

func handleSubscriptionUpdated(c *gin.Context, sub *stripe.Subscription) error {
	if sub.ID == "" || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return fmt.Errorf("subscription missing id/items/price")
	}

	tenant := findTenant(database.DB, tenantIDFromMetadata(sub.Metadata), sub.ID, customerID(sub.Customer))
	if tenant.ID == 0 {
		// tenant deleted; acknowledge
		return nil
	}

	updates := map[string]interface{}{
		"current_period_end":         time.Unix(sub.CurrentPeriodEnd, 0),
		"stripe_subscription_status": string(sub.Status),
		"stripe_subscription_id":     sub.ID,
	}

	var plan plans.Plan
	if err := database.DB.Where("stripe_price_id = ?", sub.Items.Data[0].Price.ID).First(&plan).Error; err == nil {
		updates["plan_id"] = plan.ID
	}

	return database.DB.Model(&tenants.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(updates).Error
}

func handleSubscriptionDeleted(c *gin.Context, sub *stripe.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	tenant := findTenant(database.DB, tenantIDFromMetadata(sub.Metadata), sub.ID, customerID(sub.Customer))
	if tenant.ID == 0 {
		return nil
	}

	status := string(sub.Status)
	if status == "" {
		status = string(stripe.SubscriptionStatusCanceled)
	}

	updates := map[string]interface{}{"stripe_subscription_status": status}
	if sub.CurrentPeriodEnd > 0 {
		updates["current_period_end"] = time.Unix(sub.CurrentPeriodEnd, 0)
	}

	return database.DB.Model(&tenants.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(updates).Error
}
