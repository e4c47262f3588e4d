package billing

import (
	"net/http"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/app/http/middleware"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/infra/logger"
	stripeinfra "auvora-crm/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	stripesub "github.com/stripe/stripe-go/v75/subscription"
	"go.uber.org/zap"
)

// POST /api/billing/change-plan swaps the subscription's price right away.
// Stripe prorates the difference in both directions.
func ChangePlan(c *gin.Context) {
	var body struct {
		PriceID string `json:"price_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid price_id"})
		return
	}

	if err := stripeinfra.Configure(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	tenant := middleware.CurrentTenant(c)
	if tenant == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant selected"})
		return
	}

	var targetPlan plans.Plan
	if err := database.DB.Where("stripe_price_id = ?", body.PriceID).First(&targetPlan).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target plan not found (run plan sync)"})
		return
	}

	if tenant.StripeSubscriptionID == nil || *tenant.StripeSubscriptionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active subscription to change. Use checkout first."})
		return
	}

	sub, err := stripesub.Get(*tenant.StripeSubscriptionID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Stripe subscription", "details": err.Error()})
		return
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Subscription has no price item"})
		return
	}

	item := sub.Items.Data[0]
	if item.Price.ID == targetPlan.StripePriceID {
		c.JSON(http.StatusOK, gin.H{"message": "Already on this plan"})
		return
	}

	isUpgrade := true
	if tenant.Plan != nil {
		isUpgrade = targetPlan.PriceUSD > tenant.Plan.PriceUSD
	}

	updated, err := stripesub.Update(sub.ID, &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(item.ID),
				Price: stripe.String(targetPlan.StripePriceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change subscription", "details": err.Error()})
		return
	}

	periodEnd := time.Unix(updated.CurrentPeriodEnd, 0)
	status := string(updated.Status)
	if err := database.DB.Model(&tenants.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(map[string]interface{}{
			"plan_id":                    targetPlan.ID,
			"current_period_end":         periodEnd,
			"stripe_subscription_status": status,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tenant", "details": err.Error()})
		return
	}

	logger.FromContext(c).Info("plan changed",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("plan", targetPlan.Name),
		zap.Bool("upgrade", isUpgrade),
	)

	c.JSON(http.StatusOK, gin.H{
		"message":            "Plan changed (prorated automatically by Stripe)",
		"is_upgrade":         isUpgrade,
		"plan":               targetPlan.Name,
		"current_period_end": periodEnd,
		"subscription_id":    updated.ID,
	})
}
