package ask_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	askapi "auvora-crm/internal/api/ask"
	"auvora-crm/internal/domain/ask"
	"auvora-crm/internal/domain/studio"
	"auvora-crm/internal/testutil/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskTenantAnswersFromTenantData(t *testing.T) {
	env := apitest.New(t)
	mine := env.Tenant("Peak", "peak")
	other := env.Tenant("Flow", "flow")
	now := time.Now()

	for _, m := range []studio.Member{
		{TenantID: mine.ID, Name: "A", Status: studio.MemberActive, MonthlyRate: 100, JoinedAt: now},
		{TenantID: mine.ID, Name: "B", Status: studio.MemberActive, MonthlyRate: 50, JoinedAt: now},
		{TenantID: other.ID, Name: "C", Status: studio.MemberActive, MonthlyRate: 999, JoinedAt: now},
	} {
		m := m
		require.NoError(t, env.DB.Create(&m).Error)
	}

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/ask", Token: env.Owner(mine), Body: map[string]string{
		"question": "What is my revenue?",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var a ask.Answer
	apitest.Decode(t, w, &a)
	assert.Equal(t, ask.IntentRevenue, a.Intent)
	assert.Equal(t, float64(150), a.Data["mrr"])
	assert.Equal(t, float64(2), a.Data["active_members"])
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/ask", Token: env.Owner(tenant), Body: map[string]string{"question": "   "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskAdminCountsTenants(t *testing.T) {
	env := apitest.New(t)
	env.Tenant("Peak", "peak")
	env.Tenant("Flow", "flow")

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/admin/ask", Token: env.Admin(), Body: map[string]string{
		"question": "How many tenants do we have?",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var a ask.Answer
	apitest.Decode(t, w, &a)
	assert.Equal(t, ask.IntentTenants, a.Intent)
	assert.Equal(t, float64(2), a.Data["total_tenants"])
}

func askRevenue(t *testing.T, env *apitest.Env, token string, tenantID uint) ask.Answer {
	t.Helper()
	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/ask", Token: token, Tenant: tenantID, Body: map[string]string{
		"question": "What is my revenue this month?",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var a ask.Answer
	apitest.Decode(t, w, &a)
	return a
}

func TestAskCachesSnapshotUntilPurged(t *testing.T) {
	askapi.SetCacheTTL(time.Minute)
	t.Cleanup(func() { askapi.SetCacheTTL(0) })

	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	other := env.Tenant("Flow", "flow")
	token := env.Owner(tenant)
	now := time.Now()

	require.NoError(t, env.DB.Create(&studio.Member{TenantID: tenant.ID, Name: "A", Status: studio.MemberActive, MonthlyRate: 100, JoinedAt: now}).Error)
	assert.Equal(t, float64(100), askRevenue(t, env, token, 0).Data["mrr"])

	require.NoError(t, env.DB.Create(&studio.Member{TenantID: tenant.ID, Name: "B", Status: studio.MemberActive, MonthlyRate: 50, JoinedAt: now}).Error)
	assert.Equal(t, float64(100), askRevenue(t, env, token, 0).Data["mrr"], "second ask is served from cache")

	otherToken := env.Owner(other)
	assert.Equal(t, float64(0), askRevenue(t, env, otherToken, 0).Data["mrr"], "cache entries are per tenant")

	askapi.PurgeTenant(tenant.ID)
	assert.Equal(t, float64(150), askRevenue(t, env, token, 0).Data["mrr"])
}

func TestAskWithoutCacheSeesFreshData(t *testing.T) {
	askapi.SetCacheTTL(0)

	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	token := env.Owner(tenant)
	now := time.Now()

	require.NoError(t, env.DB.Create(&studio.Member{TenantID: tenant.ID, Name: "A", Status: studio.MemberActive, MonthlyRate: 100, JoinedAt: now}).Error)
	assert.Equal(t, float64(100), askRevenue(t, env, token, 0).Data["mrr"])

	require.NoError(t, env.DB.Create(&studio.Member{TenantID: tenant.ID, Name: "B", Status: studio.MemberActive, MonthlyRate: 50, JoinedAt: now}).Error)
	assert.Equal(t, float64(150), askRevenue(t, env, token, 0).Data["mrr"])
}

func TestDeletingTenantPurgesItsCache(t *testing.T) {
	askapi.SetCacheTTL(time.Minute)
	t.Cleanup(func() { askapi.SetCacheTTL(0) })

	env := apitest.New(t)
	admin := env.Admin()
	first := env.Tenant("Peak", "peak")
	now := time.Now()
	require.NoError(t, env.DB.Create(&studio.Member{TenantID: first.ID, Name: "A", Status: studio.MemberActive, MonthlyRate: 100, JoinedAt: now}).Error)
	assert.Equal(t, float64(100), askRevenue(t, env, admin, first.ID).Data["mrr"])

	w := env.Do(apitest.Request{Method: http.MethodDelete, Path: fmt.Sprintf("/api/admin/tenants/%d?confirm=peak", first.ID), Token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// sqlite may hand the freed id to the next tenant
	second := env.Tenant("Flow", "flow")
	assert.Equal(t, float64(0), askRevenue(t, env, admin, second.ID).Data["mrr"])
}
