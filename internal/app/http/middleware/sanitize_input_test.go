package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"auvora-crm/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echo(t *testing.T, method, body string) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.SanitizeAndCleanInputMiddleware())
	r.Handle(method, "/echo", func(c *gin.Context) {
		var got map[string]any
		if err := c.ShouldBindJSON(&got); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, got)
	})

	req := httptest.NewRequest(method, "/echo", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSanitizeStripsMarkup(t *testing.T) {
	out := echo(t, http.MethodPost, `{
		"name": "<b>Peak</b> Fitness",
		"tags": ["<script>x()</script>ok"],
		"contact": {"note": "<i>hi</i>"},
		"seats": 12
	}`)

	assert.Equal(t, "Peak Fitness", out["name"])
	assert.Equal(t, []any{"ok"}, out["tags"])
	assert.Equal(t, map[string]any{"note": "hi"}, out["contact"])
	assert.Equal(t, float64(12), out["seats"])
}

func TestSanitizeKeepsPlainTextCharacters(t *testing.T) {
	out := echo(t, http.MethodPost, `{"name": "Sean O'Brien", "business": "<b>Barre</b> & Bloom"}`)

	assert.Equal(t, "Sean O'Brien", out["name"])
	assert.Equal(t, "Barre & Bloom", out["business"])
}

func TestSanitizeLeavesSecretsAlone(t *testing.T) {
	out := echo(t, http.MethodPatch, `{"password": "<p4ss>word1", "token": "a<b>c"}`)

	assert.Equal(t, "<p4ss>word1", out["password"])
	assert.Equal(t, "a<b>c", out["token"])
}

func TestSanitizeRejectsMalformedJSON(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
