package studio_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"auvora-crm/internal/domain/studio"
	"auvora-crm/internal/testutil/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberCapWhileLimited(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	past := time.Now().AddDate(0, 0, -1)
	require.NoError(t, env.DB.Model(&tenant).Updates(map[string]any{
		"trial_end_at":               past,
		"stripe_subscription_id":     "sub_1",
		"stripe_subscription_status": "past_due",
	}).Error)
	token := env.Owner(tenant)

	members := make([]studio.Member, 0, 50)
	for i := 0; i < 50; i++ {
		members = append(members, studio.Member{TenantID: tenant.ID, Name: fmt.Sprintf("M%d", i), Status: studio.MemberActive})
	}
	require.NoError(t, env.DB.Create(&members).Error)

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/members", Token: token, Body: map[string]any{"name": "One more"}})
	assert.Equal(t, http.StatusPaymentRequired, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "50")

	// limited tenants keep the CRM but lose scheduling
	assert.Equal(t, http.StatusOK, apitest.Get(env, "/api/members", token).Code)
	assert.Equal(t, http.StatusPaymentRequired, apitest.Get(env, "/api/staff", token).Code)
}

func TestMembersAreTenantScoped(t *testing.T) {
	env := apitest.New(t)
	mine := env.Tenant("Peak", "peak")
	other := env.Tenant("Flow", "flow")

	theirs := studio.Member{TenantID: other.ID, Name: "Ana", Status: studio.MemberActive}
	require.NoError(t, env.DB.Create(&theirs).Error)

	w := apitest.Get(env, fmt.Sprintf("/api/members/%d", theirs.ID), env.Owner(mine))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollStopsAtCapacity(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	token := env.Owner(tenant)

	cl := studio.Class{TenantID: tenant.ID, Name: "Spin", StartsAt: time.Now().Add(24 * time.Hour), DurationMinutes: 45, Capacity: 2}
	require.NoError(t, env.DB.Create(&cl).Error)
	path := fmt.Sprintf("/api/classes/%d/enroll", cl.ID)

	for i := 0; i < 2; i++ {
		w := env.Do(apitest.Request{Method: http.MethodPost, Path: path, Token: token})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := env.Do(apitest.Request{Method: http.MethodPost, Path: path, Token: token})
	assert.Equal(t, http.StatusConflict, w.Code)

	var got studio.Class
	require.NoError(t, env.DB.First(&got, cl.ID).Error)
	assert.Equal(t, 2, got.Enrolled)
}

func TestRedeemOnlyInsideWindow(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	token := env.Owner(tenant)
	now := time.Now()

	live := studio.Promotion{TenantID: tenant.ID, Name: "Fall", Code: "FALL", DiscountPercent: 20, StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour)}
	gone := studio.Promotion{TenantID: tenant.ID, Name: "Summer", Code: "SUMMER", DiscountPercent: 20, StartsAt: now.AddDate(0, -3, 0), EndsAt: now.AddDate(0, -1, 0)}
	require.NoError(t, env.DB.Create(&live).Error)
	require.NoError(t, env.DB.Create(&gone).Error)

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: fmt.Sprintf("/api/promotions/%d/redeem", live.ID), Token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: fmt.Sprintf("/api/promotions/%d/redeem", gone.ID), Token: token})
	assert.Equal(t, http.StatusConflict, w.Code)

	var got studio.Promotion
	require.NoError(t, env.DB.First(&got, live.ID).Error)
	assert.Equal(t, 1, got.Redemptions)
}

func TestDuplicatePromotionCodeConflicts(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	token := env.Owner(tenant)

	body := map[string]any{
		"name":             "Fall",
		"code":             "fall",
		"discount_percent": 10,
		"starts_at":        "2026-10-01",
		"ends_at":          "2026-10-31",
	}
	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/promotions", Token: token, Body: body})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body["code"] = " FALL "
	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/promotions", Token: token, Body: body})
	assert.Equal(t, http.StatusConflict, w.Code)
}
