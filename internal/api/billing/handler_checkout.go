package billing

import (
	"fmt"
	"net/http"

	"auvora-crm/config"
	"auvora-crm/database"
	"auvora-crm/internal/app/http/middleware"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/infra/logger"
	stripeinfra "auvora-crm/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	portalSession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"go.uber.org/zap"
)

// ensureCustomer returns the tenant's Stripe customer, creating it on
// first use.
func ensureCustomer(t *tenants.Tenant) (string, error) {
	if t.StripeCustomerID != nil && *t.StripeCustomerID != "" {
		return *t.StripeCustomerID, nil
	}

	id, err := stripeinfra.NewCustomer(*t)
	if err != nil {
		return "", err
	}
	if err := database.DB.Model(&tenants.Tenant{}).
		Where("id = ?", t.ID).
		Update("stripe_customer_id", id).Error; err != nil {
		return "", err
	}
	t.StripeCustomerID = stripe.String(id)
	return id, nil
}

// POST /api/billing/checkout
func CreateCheckoutSession(c *gin.Context) {
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

	// allow-list price id
	var plan plans.Plan
	if err := database.DB.Where("stripe_price_id = ?", body.PriceID).First(&plan).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan/price_id"})
		return
	}

	customerID, err := ensureCustomer(tenant)
	if err != nil {
		logger.FromContext(c).Error("stripe customer create failed", zap.Uint("tenant_id", tenant.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(config.APP_URL + "/settings/billing"),
		CancelURL:  stripe.String(config.APP_URL + "/settings/billing?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(customerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(plan.StripePriceID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(tenant.ID)),

		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"tenant_id": fmt.Sprint(tenant.ID),
				"plan_id":   fmt.Sprint(plan.ID),
			},
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

// POST /api/billing/portal
func CreateBillingPortal(c *gin.Context) {
	if err := stripeinfra.Configure(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	tenant := middleware.CurrentTenant(c)
	if tenant == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant selected"})
		return
	}
	if tenant.StripeCustomerID == nil || *tenant.StripeCustomerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (subscribe first)"})
		return
	}

	portal, err := portalSession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*tenant.StripeCustomerID),
		ReturnURL: stripe.String(config.APP_URL + "/settings/billing"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}
