package admin_test

import (
	"net/http"
	"strings"
	"testing"

	"auvora-crm/internal/domain/billing"
	"auvora-crm/internal/domain/studio"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/seed"
	"auvora-crm/internal/testutil/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractLifecycle(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()
	tenant := env.Tenant("Peak", "peak")
	base := "/api/admin/tenants/" + itoa(tenant.ID) + "/contracts"

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: base, Token: token, Body: map[string]any{
		"plan_name": "Growth annual", "monthly_fee": 179, "start_date": "2026-10-01", "end_date": "2027-09-30",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ct billing.Contract
	apitest.Decode(t, w, &ct)
	assert.Equal(t, billing.ContractDraft, ct.Status)
	assert.Equal(t, tenant.ID, ct.TenantID)
	require.NotNil(t, ct.EndDate)

	w = env.Do(apitest.Request{Method: http.MethodPatch, Path: "/api/admin/contracts/" + itoa(ct.ID), Token: token, Body: map[string]any{
		"status": "active", "end_date": "",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	apitest.Decode(t, w, &ct)
	assert.Equal(t, billing.ContractActive, ct.Status)
	assert.Nil(t, ct.EndDate)

	var list []billing.Contract
	apitest.Decode(t, apitest.Get(env, base, token), &list)
	require.Len(t, list, 1)

	w = env.Do(apitest.Request{Method: http.MethodDelete, Path: "/api/admin/contracts/" + itoa(ct.ID), Token: token})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodDelete, Path: "/api/admin/contracts/" + itoa(ct.ID), Token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContractValidation(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()
	tenant := env.Tenant("Peak", "peak")
	base := "/api/admin/tenants/" + itoa(tenant.ID) + "/contracts"

	cases := []struct {
		name string
		body map[string]any
	}{
		{"end before start", map[string]any{"start_date": "2026-10-01", "end_date": "2026-09-01"}},
		{"bad status", map[string]any{"status": "pending"}},
		{"bad date", map[string]any{"start_date": "next week"}},
		{"negative fee", map[string]any{"monthly_fee": -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.Do(apitest.Request{Method: http.MethodPost, Path: base, Token: token, Body: tc.body})
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/admin/tenants/999/contracts", Token: token, Body: map[string]any{}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, env.DB.Model(&billing.Contract{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestContractsAreAdminOnly(t *testing.T) {
	env := apitest.New(t)
	tenant := env.Tenant("Peak", "peak")

	w := apitest.Get(env, "/api/admin/tenants/"+itoa(tenant.ID)+"/contracts", env.Owner(tenant))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAndResetDemo(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/admin/demos", Token: token, Body: map[string]any{}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Tenant tenants.Tenant `json:"tenant"`
		Seeded seed.Result    `json:"seeded"`
	}
	apitest.Decode(t, w, &created)
	assert.True(t, created.Tenant.IsDemo)
	assert.True(t, strings.HasPrefix(created.Tenant.Subdomain, "demo-fitness-"), created.Tenant.Subdomain)
	assert.Equal(t, "Demo Fitness", created.Tenant.Name)
	assert.Positive(t, created.Seeded.Members)
	assert.Positive(t, created.Seeded.Classes)

	var demos []tenants.Tenant
	apitest.Decode(t, apitest.Get(env, "/api/admin/demos", token), &demos)
	require.Len(t, demos, 1)
	assert.Equal(t, created.Tenant.ID, demos[0].ID)

	extra := studio.Member{TenantID: created.Tenant.ID, Name: "Walk-in", Status: studio.MemberActive}
	require.NoError(t, env.DB.Create(&extra).Error)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/admin/demos/" + itoa(created.Tenant.ID) + "/reset", Token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reset struct {
		Seeded seed.Result `json:"seeded"`
	}
	apitest.Decode(t, w, &reset)
	assert.Equal(t, created.Seeded, reset.Seeded)

	var members int64
	require.NoError(t, env.DB.Model(&studio.Member{}).Where("tenant_id = ?", created.Tenant.ID).Count(&members).Error)
	assert.Equal(t, int64(created.Seeded.Members), members)
}

func TestDemoValidation(t *testing.T) {
	env := apitest.New(t)
	token := env.Admin()
	live := env.Tenant("Peak", "peak")

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/admin/demos/" + itoa(live.ID) + "/reset", Token: token})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/admin/demos/999/reset", Token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/admin/demos", Token: token, Body: map[string]any{"industry": "bakery"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
