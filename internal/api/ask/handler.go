package ask

import (
	"net/http"
	"strings"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/ask"
	"auvora-crm/internal/domain/studio"
	"auvora-crm/internal/infra/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type askInput struct {
	Question string `json:"question" binding:"required,max=500"`
}

func bindQuestion(c *gin.Context) (string, bool) {
	var input askInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	q := strings.TrimSpace(input.Question)
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ask a question"})
		return "", false
	}
	return q, true
}

// POST /api/ask
func AskTenant(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	question, ok := bindQuestion(c)
	if !ok {
		return
	}

	now := time.Now()
	intent := ask.Match(question, ask.TenantRules, ask.IntentDefault)
	period := ask.ParsePeriod(question, now)

	cache, _ := caches()
	key := tenantKey(tenantID, period)
	var (
		snap ask.TenantSnapshot
		hit  bool
	)
	if cache != nil {
		snap, hit = cache.Get(key)
	}
	if !hit {
		data, err := loadTenantData(database.DB, tenantID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
			return
		}
		snap = ask.BuildTenantSnapshot(period, now, data)
		if cache != nil {
			cache.Add(key, snap)
		}
	}

	metrics.RecordAsk("tenant", intent)
	c.JSON(http.StatusOK, ask.AnswerTenant(intent, snap))
}

// POST /api/admin/ask
func AskAdmin(c *gin.Context) {
	question, ok := bindQuestion(c)
	if !ok {
		return
	}

	now := time.Now()
	intent := ask.Match(question, ask.AdminRules, ask.IntentDefault)
	period := ask.ParsePeriod(question, now)

	_, cache := caches()
	key := adminKey(period)
	var (
		snap ask.AdminSnapshot
		hit  bool
	)
	if cache != nil {
		snap, hit = cache.Get(key)
	}
	if !hit {
		data, err := loadAdminData(database.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
			return
		}
		snap = ask.BuildAdminSnapshot(period, now, data)
		if cache != nil {
			cache.Add(key, snap)
		}
	}

	metrics.RecordAsk("admin", intent)
	c.JSON(http.StatusOK, ask.AnswerAdmin(intent, snap))
}

func loadTenantData(db *gorm.DB, tenantID uint) (ask.TenantData, error) {
	var d ask.TenantData
	scoped := func() *gorm.DB { return db.Scopes(httpx.ForTenant(tenantID)) }

	var g errgroup.Group
	g.Go(func() error { return scoped().Find(&d.Members).Error })
	g.Go(func() error {
		return db.Where("member_id IN (?)", db.Model(&studio.Member{}).Select("id").Where("tenant_id = ?", tenantID)).
			Find(&d.Goals).Error
	})
	g.Go(func() error { return scoped().Find(&d.Classes).Error })
	g.Go(func() error { return scoped().Find(&d.Promotions).Error })
	g.Go(func() error { return scoped().Find(&d.Staff).Error })
	g.Go(func() error { return scoped().Find(&d.Shifts).Error })
	g.Go(func() error { return scoped().Find(&d.Messages).Error })
	g.Go(func() error { return scoped().Find(&d.Invoices).Error })
	return d, g.Wait()
}

func loadAdminData(db *gorm.DB) (ask.AdminData, error) {
	var d ask.AdminData

	var g errgroup.Group
	g.Go(func() error { return db.Find(&d.Tenants).Error })
	g.Go(func() error { return db.Find(&d.Leads).Error })
	g.Go(func() error { return db.Find(&d.Contracts).Error })
	g.Go(func() error { return db.Find(&d.Invoices).Error })
	g.Go(func() error { return db.Find(&d.Payments).Error })
	return d, g.Wait()
}
