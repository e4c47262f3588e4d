package quickbooks

import (
	"net/http"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	qbdomain "auvora-crm/internal/domain/quickbooks"
	"auvora-crm/internal/infra/logger"
	qbinfra "auvora-crm/internal/infra/quickbooks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Client talks to QuickBooks. Swapped in tests.
var Client qbinfra.Client = &qbinfra.StubClient{}

// POST /api/quickbooks/sync
func Sync(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	syncer := &qbinfra.Syncer{DB: database.DB, Client: Client, Retry: qbinfra.DefaultRetryConfig()}
	run, err := syncer.Run(c.Request.Context(), tenantID, time.Now())
	if err != nil {
		logger.FromContext(c).Error("quickbooks sync could not run", zap.Uint("tenant_id", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run sync"})
		return
	}

	status := http.StatusOK
	if run.Status == qbdomain.SyncFailed {
		status = http.StatusBadGateway
	}
	c.JSON(status, run)
}

// GET /api/quickbooks/syncs
func ListSyncs(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	list := []qbdomain.Sync{}
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).Order("started_at DESC").Limit(50).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load syncs"})
		return
	}
	c.JSON(http.StatusOK, list)
}
