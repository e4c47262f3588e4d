// Package apitest drives the full router against an in-memory database.
package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"auvora-crm/config"
	routes "auvora-crm/internal/app/http"
	"auvora-crm/internal/app/http/middleware"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/domain/users"
	"auvora-crm/internal/infra/logger"
	"auvora-crm/internal/infra/mailer"
	"auvora-crm/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	Mail   *mailer.Recorder
}

// New builds a router over a fresh database with a recording mailer.
func New(t *testing.T) *Env {
	t.Helper()
	db := testutil.NewDB(t)
	logger.Set(zap.NewNop())

	prevSecret := config.JWT_SECRET
	config.JWT_SECRET = "test-secret"
	prevMailer := mailer.Default
	rec := &mailer.Recorder{}
	mailer.Default = rec
	t.Cleanup(func() {
		config.JWT_SECRET = prevSecret
		mailer.Default = prevMailer
	})

	r := gin.New()
	require.NoError(t, routes.RegisterRoutes(r))
	return &Env{T: t, DB: db, Router: r, Mail: rec}
}

// Tenant inserts a tenant inside its trial window.
func (e *Env) Tenant(name, subdomain string) tenants.Tenant {
	e.T.Helper()
	t := tenants.Tenant{Name: name, Subdomain: subdomain, Industry: tenants.IndustryFitness}
	t.StartTrial(time.Now())
	require.NoError(e.T, e.DB.Create(&t).Error)
	return t
}

// Subscribe moves t past its trial onto an active subscription for a plan
// of the given tier and returns the plan.
func (e *Env) Subscribe(t *tenants.Tenant, tier string) plans.Plan {
	e.T.Helper()
	p := plans.Plan{Name: tier, PriceUSD: 99, StripePriceID: "price_" + tier + "_" + t.Subdomain, Interval: "month", Tier: tier}
	require.NoError(e.T, e.DB.Create(&p).Error)

	past := time.Now().AddDate(0, 0, -1)
	require.NoError(e.T, e.DB.Model(t).Updates(map[string]any{
		"trial_end_at":               past,
		"plan_id":                    p.ID,
		"stripe_customer_id":         "cus_" + t.Subdomain,
		"stripe_subscription_id":     "sub_" + t.Subdomain,
		"stripe_subscription_status": "active",
	}).Error)
	require.NoError(e.T, e.DB.Preload("Plan").First(t, t.ID).Error)
	return p
}

// User inserts a user without a password and returns a signed token for it.
func (e *Env) User(email, role string, tenantID *uint) (users.User, string) {
	e.T.Helper()
	u := users.User{Name: email, Email: email, Role: role, TenantID: tenantID}
	require.NoError(e.T, e.DB.Create(&u).Error)
	token, err := middleware.IssueToken(u)
	require.NoError(e.T, err)
	return u, token
}

func (e *Env) Admin() string {
	_, token := e.User("admin@auvora.app", users.RoleAuvoraAdmin, nil)
	return token
}

func (e *Env) Owner(t tenants.Tenant) string {
	id := t.ID
	_, token := e.User("owner@"+t.Subdomain+".test", users.RoleOwner, &id)
	return token
}

type Request struct {
	Method string
	Path   string
	Token  string
	Tenant uint
	Body   any
}

func (e *Env) Do(req Request) *httptest.ResponseRecorder {
	e.T.Helper()
	var body bytes.Buffer
	if req.Body != nil {
		require.NoError(e.T, json.NewEncoder(&body).Encode(req.Body))
	}
	r := httptest.NewRequest(req.Method, req.Path, &body)
	if req.Body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if req.Tenant != 0 {
		r.Header.Set(middleware.TenantHeader, strconv.FormatUint(uint64(req.Tenant), 10))
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, r)
	return w
}

// Decode unmarshals the recorded JSON body into v.
func Decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func Get(e *Env, path, token string) *httptest.ResponseRecorder {
	return e.Do(Request{Method: http.MethodGet, Path: path, Token: token})
}
