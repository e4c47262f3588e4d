package auth_test

import (
	"net/http"
	"strings"
	"testing"

	"auvora-crm/internal/api/auth"
	"auvora-crm/internal/app/http/middleware"
	"auvora-crm/internal/domain/users"
	"auvora-crm/internal/testutil/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPassword(t *testing.T, env *apitest.Env, email, password string) users.User {
	t.Helper()
	tenant := env.Tenant("Peak", "peak")
	u, err := auth.CreateUser(env.DB, auth.NewUserInput{
		TenantID: &tenant.ID,
		Name:     "Pat",
		Email:    email,
		Password: password,
		Role:     users.RoleOwner,
	})
	require.NoError(t, err)
	return *u
}

func login(env *apitest.Env, email, password string) (int, string) {
	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/auth/login", Body: map[string]string{
		"email": email, "password": password,
	}})
	return w.Code, w.Body.String()
}

func TestIsPasswordStrong(t *testing.T) {
	assert.True(t, auth.IsPasswordStrong("abcdefg1"))
	assert.False(t, auth.IsPasswordStrong("abcdefgh"))
	assert.False(t, auth.IsPasswordStrong("12345678"))
	assert.False(t, auth.IsPasswordStrong("abc1"))
}

func TestLogin(t *testing.T) {
	env := apitest.New(t)
	u := withPassword(t, env, "pat@peak.test", "s3cretpass")

	code, body := login(env, "PAT@peak.test", "s3cretpass")
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `"token"`)
	assert.Contains(t, body, `"role":"owner"`)

	var got users.User
	require.NoError(t, env.DB.First(&got, u.ID).Error)
	assert.NotNil(t, got.LastLoginAt)

	code, _ = login(env, "pat@peak.test", "wrongpass1")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = login(env, "nobody@peak.test", "s3cretpass")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginGoogleOnlyAccount(t *testing.T) {
	env := apitest.New(t)
	withPassword(t, env, "pat@peak.test", "")

	code, body := login(env, "pat@peak.test", "whatever1")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, body, "Google")
}

func TestPasswordResetRoundTrip(t *testing.T) {
	env := apitest.New(t)
	withPassword(t, env, "pat@peak.test", "s3cretpass")

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/auth/request-password-reset", Body: map[string]string{"email": "pat@peak.test"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sent := env.Mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "pat@peak.test", sent[0].To)
	_, rest, found := strings.Cut(sent[0].Text, "token=")
	require.True(t, found)
	token := strings.Fields(rest)[0]

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/auth/reset-password", Body: map[string]string{
		"token": token, "new_password": "weak",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/auth/reset-password", Body: map[string]string{
		"token": token, "new_password": "n3wpassword",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	code, _ := login(env, "pat@peak.test", "n3wpassword")
	assert.Equal(t, http.StatusOK, code)

	// tokens are single use
	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/auth/reset-password", Body: map[string]string{
		"token": token, "new_password": "an0therpass",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPasswordResetUnknownEmailLooksTheSame(t *testing.T) {
	env := apitest.New(t)

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/auth/request-password-reset", Body: map[string]string{"email": "ghost@peak.test"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.Mail.Sent())
}

func TestChangePassword(t *testing.T) {
	env := apitest.New(t)
	u := withPassword(t, env, "pat@peak.test", "s3cretpass")
	token, err := middleware.IssueToken(u)
	require.NoError(t, err)

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/auth/change-password", Token: token, Body: map[string]string{
		"old_password": "wrongpass1", "new_password": "n3wpassword",
	}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/auth/change-password", Token: token, Body: map[string]string{
		"old_password": "s3cretpass", "new_password": "n3wpassword",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	code, _ := login(env, "pat@peak.test", "n3wpassword")
	assert.Equal(t, http.StatusOK, code)
}
