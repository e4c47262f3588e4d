package users_test

import (
	"net/http"
	"testing"
	"time"

	usersapi "auvora-crm/internal/api/users"
	"auvora-crm/internal/domain/access"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/users"
	"auvora-crm/internal/testutil/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func me(t *testing.T, env *apitest.Env, token string) usersapi.MeResponse {
	t.Helper()
	w := apitest.Get(env, "/api/me", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp usersapi.MeResponse
	apitest.Decode(t, w, &resp)
	return resp
}

func TestMeDuringTrial(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")

	resp := me(t, env, env.Owner(tenant))
	assert.Equal(t, "owner@peak.test", resp.User.Email)
	assert.Equal(t, users.RoleOwner, resp.User.Role)
	require.NotNil(t, resp.Tenant)
	assert.Equal(t, "peak", resp.Tenant.Subdomain)

	require.NotNil(t, resp.Billing)
	assert.Nil(t, resp.Billing.Plan)
	assert.Nil(t, resp.Billing.Subscription)
	require.NotNil(t, resp.Billing.Trial)
	require.NotNil(t, resp.Billing.Trial.DaysLeft)
	assert.Positive(t, *resp.Billing.Trial.DaysLeft)

	require.NotNil(t, resp.Access)
	assert.Equal(t, string(access.AccessTrial), resp.Access.State)
	assert.ElementsMatch(t, []string{access.CapCRM, access.CapSchedule, access.CapAskAuvora, access.CapMessaging}, resp.Access.Capabilities)
	assert.Nil(t, resp.Access.Limits)
}

func TestMeOnPaidPlan(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	env.Subscribe(&tenant, plans.TierGrowth)

	resp := me(t, env, env.Owner(tenant))
	require.NotNil(t, resp.Billing.Plan)
	assert.Equal(t, plans.TierGrowth, resp.Billing.Plan.Tier)
	require.NotNil(t, resp.Billing.Subscription)
	assert.Equal(t, "active", resp.Billing.Subscription.Status)
	assert.Equal(t, string(access.AccessFull), resp.Access.State)
	assert.Contains(t, resp.Access.Capabilities, access.CapSocial)
	assert.NotContains(t, resp.Access.Capabilities, access.CapQuickBooks)
}

func TestMeWhenLocked(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	require.NoError(t, env.DB.Model(&tenant).Update("trial_end_at", time.Now().AddDate(0, 0, -1)).Error)

	resp := me(t, env, env.Owner(tenant))
	assert.Equal(t, string(access.AccessLocked), resp.Access.State)
	assert.Empty(t, resp.Access.Capabilities)
	require.NotNil(t, resp.Access.Limits)
	assert.Equal(t, 50, resp.Access.Limits.MaxMembers)
}

func TestMeForAdmin(t *testing.T) {
	env := apitest.New(t)

	resp := me(t, env, env.Admin())
	assert.Equal(t, users.RoleAuvoraAdmin, resp.User.Role)
	assert.Nil(t, resp.User.TenantID)
	assert.Nil(t, resp.Tenant)
	assert.Nil(t, resp.Billing)
	assert.Nil(t, resp.Access)
}

func TestMeRequiresToken(t *testing.T) {
	env := apitest.New(t)
	assert.Equal(t, http.StatusUnauthorized, apitest.Get(env, "/api/me", "").Code)
}
