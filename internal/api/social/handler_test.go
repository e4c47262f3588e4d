package social_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	socialapi "auvora-crm/internal/api/social"
	"auvora-crm/internal/domain/plans"
	"auvora-crm/internal/domain/social"
	"auvora-crm/internal/testutil/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downPublisher struct{}

func (downPublisher) Publish(context.Context, social.Post) (string, error) {
	return "", errors.New("platform unavailable")
}

func growthTenant(t *testing.T, env *apitest.Env) string {
	t.Helper()
	tenant := env.Tenant("Peak", "peak")
	env.Subscribe(&tenant, plans.TierGrowth)
	return env.Owner(tenant)
}

func createPost(t *testing.T, env *apitest.Env, token string, body map[string]any) social.Post {
	t.Helper()
	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/social/posts", Token: token, Body: body})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p social.Post
	apitest.Decode(t, w, &p)
	return p
}

func TestCreatePostDerivesStatus(t *testing.T) {
	env := apitest.New(t)
	token := growthTenant(t, env)

	draft := createPost(t, env, token, map[string]any{"platform": "Instagram", "content": "New class schedule"})
	assert.Equal(t, social.StatusDraft, draft.Status)
	assert.Equal(t, social.PlatformInstagram, draft.Platform)

	scheduled := createPost(t, env, token, map[string]any{
		"platform": "x", "content": "Open house Saturday", "scheduled_for": "2026-11-01T09:00:00Z",
	})
	assert.Equal(t, social.StatusScheduled, scheduled.Status)
	require.NotNil(t, scheduled.ScheduledFor)

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/social/posts", Token: token, Body: map[string]any{
		"platform": "myspace", "content": "hi",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: "/api/social/posts", Token: token, Body: map[string]any{
		"platform": "x", "content": "hi", "scheduled_for": "tomorrow",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var list []social.Post
	apitest.Decode(t, apitest.Get(env, "/api/social/posts?status=scheduled", token), &list)
	require.Len(t, list, 1)
	assert.Equal(t, scheduled.ID, list[0].ID)
}

func TestPublishPostOnce(t *testing.T) {
	env := apitest.New(t)
	token := growthTenant(t, env)
	p := createPost(t, env, token, map[string]any{"platform": "facebook", "content": "Summer promo"})
	path := fmt.Sprintf("/api/social/posts/%d/publish", p.ID)

	w := env.Do(apitest.Request{Method: http.MethodPost, Path: path, Token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var published social.Post
	apitest.Decode(t, w, &published)
	assert.Equal(t, social.StatusPublished, published.Status)
	assert.NotEmpty(t, published.ExternalID)
	assert.NotNil(t, published.PublishedAt)

	w = env.Do(apitest.Request{Method: http.MethodPost, Path: path, Token: token})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.Do(apitest.Request{Method: http.MethodPatch, Path: fmt.Sprintf("/api/social/posts/%d", p.ID), Token: token, Body: map[string]any{
		"content": "edited",
	}})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPublishFailureIsStored(t *testing.T) {
	env := apitest.New(t)
	token := growthTenant(t, env)
	prev := socialapi.Publisher
	socialapi.Publisher = downPublisher{}
	t.Cleanup(func() { socialapi.Publisher = prev })

	p := createPost(t, env, token, map[string]any{"platform": "tiktok", "content": "Behind the scenes"})
	w := env.Do(apitest.Request{Method: http.MethodPost, Path: fmt.Sprintf("/api/social/posts/%d/publish", p.ID), Token: token})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var stored social.Post
	require.NoError(t, env.DB.First(&stored, p.ID).Error)
	assert.Equal(t, social.StatusFailed, stored.Status)
	assert.Equal(t, "platform unavailable", stored.Error)
}
