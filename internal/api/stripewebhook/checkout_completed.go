package stripewebhooks

import (
	"errors"
	"fmt"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"
	stripeinfra "auvora-crm/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/subscription"
)

func handleCheckoutSessionCompleted(c *gin.Context, session *stripe.CheckoutSession) error {
	if err := stripeinfra.Configure(); err != nil {
		return err
	}

	fullSession, err := checkoutsession.Get(session.ID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Expand: []*string{
				stripe.String("subscription"),
				stripe.String("customer"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to fetch expanded checkout session: %w", err)
	}

	if fullSession.Subscription == nil || fullSession.Subscription.ID == "" {
		return errors.New("checkout session missing subscription")
	}
	subscriptionID := fullSession.Subscription.ID

	subData, err := subscription.Get(subscriptionID, nil)
	if err != nil || subData == nil || subData.Items == nil || len(subData.Items.Data) == 0 || subData.Items.Data[0].Price == nil {
		return fmt.Errorf("failed to fetch subscription items: %w", err)
	}

	tenantID := tenantIDFromMetadata(subData.Metadata)
	if tenantID == 0 {
		tenantID = parseTenantID(fullSession.ClientReferenceID)
	}
	if tenantID == 0 {
		return errors.New("missing tenant_id (metadata.tenant_id or client_reference_id)")
	}

	var tenant tenants.Tenant
	if err := database.DB.Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		return fmt.Errorf("tenant not found: %w", err)
	}

	priceID := subData.Items.Data[0].Price.ID
	var plan plans.Plan
	if err := database.DB.Where("stripe_price_id = ?", priceID).First(&plan).Error; err != nil {
		return fmt.Errorf("plan not found for stripe price_id=%s: %w", priceID, err)
	}

	now := time.Now()
	periodEnd := time.Unix(subData.CurrentPeriodEnd, 0)

	updates := map[string]interface{}{
		"plan_id":                    plan.ID,
		"stripe_subscription_id":     subscriptionID,
		"subscription_start":         now,
		"current_period_end":         periodEnd,
		"stripe_subscription_status": string(subData.Status),
	}
	if fullSession.Customer != nil && fullSession.Customer.ID != "" {
		updates["stripe_customer_id"] = fullSession.Customer.ID
	}

	// a tenant keeps one subscription
	if tenant.StripeSubscriptionID != nil && *tenant.StripeSubscriptionID != "" && *tenant.StripeSubscriptionID != subscriptionID {
		_, _ = subscription.Cancel(*tenant.StripeSubscriptionID, nil)
	}

	if err := database.DB.Model(&tenants.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update tenant after checkout: %w", err)
	}

	return nil
}
