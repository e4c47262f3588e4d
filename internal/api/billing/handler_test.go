package billing_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auvora-crm/config"
	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/domain/users"
	"auvora-crm/internal/testutil/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

// fakeStripe points the Stripe clients at a local server and sets a key.
func fakeStripe(t *testing.T, routes map[string]any) *[]string {
	t.Helper()
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.Method+" "+r.URL.Path)
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"no such route"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))

	prevKey := config.STRIPE_SECRET_KEY
	config.STRIPE_SECRET_KEY = "sk_test_fake"
	stripe.SetBackend(stripe.APIBackend, stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
	}))
	t.Cleanup(func() {
		stripe.SetBackend(stripe.APIBackend, nil)
		config.STRIPE_SECRET_KEY = prevKey
		srv.Close()
	})
	return &hits
}

func noStripeKey(t *testing.T) {
	prev := config.STRIPE_SECRET_KEY
	config.STRIPE_SECRET_KEY = ""
	t.Cleanup(func() { config.STRIPE_SECRET_KEY = prev })
}

func TestPaymentHistoryIsTenantScoped(t *testing.T) {
	env := apitest.New(t)
	mine := env.Tenant("Peak", "peak")
	other := env.Tenant("Flow", "flow")
	token := env.Owner(mine)

	w := apitest.Get(env, "/api/billing/payments", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	require.NoError(t, env.DB.Create(&billing.Payment{TenantID: mine.ID, Amount: 99, Status: billing.PaymentPaid}).Error)
	require.NoError(t, env.DB.Create(&billing.Payment{TenantID: other.ID, Amount: 199, Status: billing.PaymentPaid}).Error)

	var list []billing.Payment
	apitest.Decode(t, apitest.Get(env, "/api/billing/payments", token), &list)
	require.Len(t, list, 1)
	assert.Equal(t, 99.0, list[0].Amount)
}

func TestInvoicesHideDrafts(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	other := env.Tenant("Flow", "flow")
	now := time.Now()

	for _, inv := range []billing.Invoice{
		{TenantID: tenant.ID, Number: "INV-202610-0001", Amount: 100, Status: billing.InvoiceDraft, IssuedAt: now, DueDate: now},
		{TenantID: tenant.ID, Number: "INV-202610-0002", Amount: 200, Status: billing.InvoiceSent, IssuedAt: now, DueDate: now},
		{TenantID: other.ID, Number: "INV-202610-0003", Amount: 300, Status: billing.InvoiceSent, IssuedAt: now, DueDate: now},
	} {
		inv := inv
		require.NoError(t, env.DB.Create(&inv).Error)
	}

	var list []billing.Invoice
	apitest.Decode(t, apitest.Get(env, "/api/billing/invoices", env.Owner(tenant)), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "INV-202610-0002", list[0].Number)
}

func TestBillingStaysReachableWhenLocked(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	require.NoError(t, env.DB.Model(&tenant).Update("trial_end_at", time.Now().AddDate(0, 0, -1)).Error)
	token := env.Owner(tenant)

	assert.Equal(t, http.StatusOK, apitest.Get(env, "/api/billing/invoices", token).Code)
	assert.Equal(t, http.StatusPaymentRequired, apitest.Get(env, "/api/members", token).Code)
}

func TestCheckoutValidation(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	token := env.Owner(tenant)

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/checkout", Token: token, Body: map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing or invalid price_id"}`, w.Body.String())

	noStripeKey(t)
	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/checkout", Token: token, Body: map[string]any{"price_id": "price_x"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Stripe key not configured"}`, w.Body.String())
}

func TestCheckoutCreatesCustomerOnce(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	token := env.Owner(tenant)
	require.NoError(t, env.DB.Create(&plans.Plan{Name: "Growth", PriceUSD: 199, StripePriceID: "price_growth", Tier: plans.TierGrowth}).Error)

	hits := fakeStripe(t, map[string]any{
		"POST /v1/customers":         map[string]any{"id": "cus_new", "object": "customer"},
		"POST /v1/checkout/sessions": map[string]any{"id": "cs_1", "object": "checkout.session", "url": "https://checkout.test/cs_1"},
	})

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/checkout", Token: token, Body: map[string]any{"price_id": "price_unknown"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/checkout", Token: token, Body: map[string]any{"price_id": "price_growth"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"url":"https://checkout.test/cs_1"}`, w.Body.String())

	var stored tenants.Tenant
	require.NoError(t, env.DB.First(&stored, tenant.ID).Error)
	require.NotNil(t, stored.StripeCustomerID)
	assert.Equal(t, "cus_new", *stored.StripeCustomerID)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/checkout", Token: token, Body: map[string]any{"price_id": "price_growth"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"POST /v1/customers", "POST /v1/checkout/sessions", "POST /v1/checkout/sessions"}, *hits)
}

func TestBillingPortal(t *testing.T) {
	env := apitest.New(t)
	fresh := env.Tenant("Peak", "peak")
	paying := env.Tenant("Flow", "flow")
	env.Subscribe(&paying, plans.TierStarter)

	fakeStripe(t, map[string]any{
		"POST /v1/billing_portal/sessions": map[string]any{"id": "bps_1", "object": "billing_portal.session", "url": "https://portal.test/bps_1"},
	})

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/portal", Token: env.Owner(fresh)})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/portal", Token: env.Owner(paying)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"url":"https://portal.test/bps_1"}`, w.Body.String())
}

func TestChangePlan(t *testing.T) {
	env := apitest.New(t)
	fresh := env.Tenant("Peak", "peak")
	paying := env.Tenant("Flow", "flow")
	current := env.Subscribe(&paying, plans.TierStarter)
	target := plans.Plan{Name: "Growth", PriceUSD: 199, StripePriceID: "price_growth", Tier: plans.TierGrowth}
	require.NoError(t, env.DB.Create(&target).Error)

	periodEnd := time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC).Unix()
	fakeStripe(t, map[string]any{
		"GET /v1/subscriptions/sub_flow": map[string]any{
			"id": "sub_flow", "object": "subscription", "status": "active",
			"items": map[string]any{"object": "list", "data": []any{
				map[string]any{"id": "si_1", "object": "subscription_item", "price": map[string]any{"id": current.StripePriceID, "object": "price"}},
			}},
		},
		"POST /v1/subscriptions/sub_flow": map[string]any{
			"id": "sub_flow", "object": "subscription", "status": "active", "current_period_end": periodEnd,
		},
	})

	id := paying.ID
	_, staff := env.User("staff@flow.test", users.RoleStaff, &id)
	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/change-plan", Token: staff, Body: map[string]any{"price_id": "price_growth"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/change-plan", Token: env.Owner(fresh), Body: map[string]any{"price_id": "price_growth"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/billing/change-plan", Token: env.Owner(paying), Body: map[string]any{"price_id": "price_growth"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		IsUpgrade bool   `json:"is_upgrade"`
		Plan      string `json:"plan"`
	}
	apitest.Decode(t, w, &resp)
	assert.True(t, resp.IsUpgrade)
	assert.Equal(t, "Growth", resp.Plan)

	var stored tenants.Tenant
	require.NoError(t, env.DB.First(&stored, paying.ID).Error)
	require.NotNil(t, stored.PlanID)
	assert.Equal(t, target.ID, *stored.PlanID)
	require.NotNil(t, stored.CurrentPeriodEnd)
	assert.Equal(t, periodEnd, stored.CurrentPeriodEnd.Unix())
}
