package admin_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"auvora-crm/internal/domain/leads"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/domain/users"
	"auvora-crm/internal/testutil/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTenant(env *apitest.Env, token string, body map[string]any) *httptest.ResponseRecorder {
	return env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/admin/tenants", Token: token, Body: body})
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestCreateTenantProvisionsOwnerAndTrial(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/admin/tenants", Token: token, Body: map[string]any{
		"name":          "Peak Fitness",
		"industry":      "fitness",
		"primary_color": "#112233",
		"owner":         map[string]any{"name": "Pat", "email": "Pat@Peak.test", "password": "s3cretpass"},
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Tenant tenants.Tenant `json:"tenant"`
		Owner  users.User     `json:"owner"`
	}
	apitest.Decode(t, w, &resp)
	assert.Equal(t, "peak-fitness", resp.Tenant.Subdomain)
	assert.Equal(t, tenants.OnboardingPending, resp.Tenant.OnboardingStatus)
	require.NotNil(t, resp.Tenant.TrialEndAt)
	assert.Equal(t, "pat@peak.test", resp.Owner.Email)
	assert.Equal(t, users.RoleOwner, resp.Owner.Role)
	require.NotNil(t, resp.Owner.TenantID)
	assert.Equal(t, resp.Tenant.ID, *resp.Owner.TenantID)
}

func TestCreateTenantDuplicateSubdomainConflicts(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()
	env.Tenant("Peak", "peak")

	res := createTenant(env, token, map[string]any{"name": "Other Peak", "subdomain": "Peak"})
	assert.Equal(t, http.StatusConflict, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), "Subdomain already in use")

	var n int64
	require.NoError(t, env.DB.Model(&tenants.Tenant{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCreateTenantRejectsBadInput(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()

	cases := map[string]map[string]any{
		"reserved subdomain": {"name": "X", "subdomain": "admin"},
		"bad subdomain":      {"name": "X", "subdomain": "-bad-"},
		"bad color":          {"name": "X", "subdomain": "xyz", "primary_color": "red"},
		"bad industry":       {"name": "X", "subdomain": "xyz", "industry": "mining"},
		"unknown plan":       {"name": "X", "subdomain": "xyz", "plan_id": 99},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			res := createTenant(env, token, body)
			assert.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())
		})
	}
}

func TestTenantRoutesRequireAdmin(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")
	owner := env.Owner(tenant)

	w := apitest.Get(env, "/api/admin/tenants", owner)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = apitest.Get(env, "/api/admin/tenants", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListTenantsFilters(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()
	env.Tenant("Peak Fitness", "peak")
	demo := env.Tenant("Demo Yoga", "demo-wellness-abc123")
	require.NoError(t, env.DB.Model(&demo).Update("is_demo", true).Error)

	var list []tenants.Tenant
	apitest.Decode(t, apitest.Get(env, "/api/admin/tenants?demo=true", token), &list)
	require.Len(t, list, 1)
	assert.Equal(t, demo.ID, list[0].ID)

	apitest.Decode(t, apitest.Get(env, "/api/admin/tenants?q=peak", token), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "peak", list[0].Subdomain)

	w := apitest.Get(env, "/api/admin/tenants?status=bogus", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetOnboardingStepMovesBothWays(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()
	tenant := env.Tenant("Peak", "peak")
	path := "/api/admin/tenants/" + itoa(tenant.ID) + "/onboarding"

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: path, Token: token, Body: map[string]string{"step": "ready"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: path, Token: token, Body: map[string]string{"step": "branded"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got tenants.Tenant
	require.NoError(t, env.DB.First(&got, tenant.ID).Error)
	assert.Equal(t, tenants.OnboardingBranded, got.OnboardingStatus)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: path, Token: token, Body: map[string]string{"step": "done"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTenantNeedsConfirmation(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()
	tenant := env.Tenant("Peak", "peak")
	env.Owner(tenant)
	lead := leads.Lead{Name: "Sam", Email: "sam@peak.test", Business: "Peak", TenantID: &tenant.ID}
	require.NoError(t, env.DB.Create(&lead).Error)

	path := "/api/admin/tenants/" + itoa(tenant.ID)

	w := env.Do(apitest.Request{Method: http.MethodDelete, Path: path + "?confirm=wrong", Token: token})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodDelete, Path: path + "?confirm=peak", Token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var n int64
	require.NoError(t, env.DB.Model(&tenants.Tenant{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, env.DB.Model(&users.User{}).Where("tenant_id = ?", tenant.ID).Count(&n).Error)
	assert.Zero(t, n)

	var kept leads.Lead
	require.NoError(t, env.DB.First(&kept, lead.ID).Error)
	assert.Nil(t, kept.TenantID)
}

func TestInviteTenantUserSendsEmail(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()
	tenant := env.Tenant("Peak", "peak")

	w := env.Do(apitest.Request{
		Method: http.MethodPost,
		Path:   "/api/admin/tenants/" + itoa(tenant.ID) + "/users",
		Token:  token,
		Body:   map[string]any{"name": "Kim", "email": "kim@peak.test"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var u users.User
	require.NoError(t, env.DB.Where("email = ?", "kim@peak.test").First(&u).Error)
	assert.Equal(t, users.RoleStaff, u.Role)

	sent := env.Mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "kim@peak.test", sent[0].To)
}
