package social

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/social"
	"auvora-crm/internal/infra/logger"
	socialinfra "auvora-crm/internal/infra/social"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Publisher posts to the social platforms. Swapped in tests.
var Publisher socialinfra.Publisher = socialinfra.StubPublisher{}

type postInput struct {
	Platform     *string `json:"platform"`
	Content      *string `json:"content"`
	MediaURL     *string `json:"media_url" binding:"omitempty,url"`
	ScheduledFor *string `json:"scheduled_for"`
}

func (in postInput) apply(p *social.Post) error {
	if in.Platform != nil {
		p.Platform = strings.ToLower(*in.Platform)
	}
	if in.Content != nil {
		p.Content = strings.TrimSpace(*in.Content)
	}
	if in.MediaURL != nil {
		p.MediaURL = *in.MediaURL
	}
	if in.ScheduledFor != nil {
		if *in.ScheduledFor == "" {
			p.ScheduledFor = nil
		} else {
			t, err := time.Parse(time.RFC3339, *in.ScheduledFor)
			if err != nil {
				return errors.New("invalid scheduled_for")
			}
			p.ScheduledFor = &t
		}
		p.Status = social.StatusFor(p.ScheduledFor)
	}
	return p.Validate()
}

func loadPost(c *gin.Context, tenantID uint) (*social.Post, bool) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return nil, false
	}
	var p social.Post
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).First(&p, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Post")
		return nil, false
	}
	return &p, true
}

// GET /api/social/posts?status=&platform=
func ListPosts(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	q := database.DB.Scopes(httpx.ForTenant(tenantID))
	if v := c.Query("status"); v != "" {
		q = q.Where("status = ?", v)
	}
	if v := c.Query("platform"); v != "" {
		q = q.Where("platform = ?", v)
	}

	list := []social.Post{}
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/social/posts
func CreatePost(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := social.Post{TenantID: tenantID, Status: social.StatusDraft}
	if err := input.apply(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PATCH /api/social/posts/:id
func UpdatePost(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, ok := loadPost(c, tenantID)
	if !ok {
		return
	}
	if p.Status == social.StatusPublished {
		c.JSON(http.StatusConflict, gin.H{"error": social.ErrAlreadyPublished.Error()})
		return
	}
	if err := input.apply(p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Save(p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/social/posts/:id/publish publishes right away.
func PublishPost(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	p, ok := loadPost(c, tenantID)
	if !ok {
		return
	}

	err := socialinfra.Publish(c.Request.Context(), database.DB, Publisher, p, time.Now())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, social.ErrAlreadyPublished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.FromContext(c).Warn("social publish failed", zap.Uint("post_id", p.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Publishing failed", "post": p})
	}
}

// DELETE /api/social/posts/:id
func DeletePost(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	p, ok := loadPost(c, tenantID)
	if !ok {
		return
	}
	if err := database.DB.Delete(p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	c.Status(http.StatusNoContent)
}
