package middleware

import (
	"net/http"
	"strconv"

	"auvora-crm/database"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/domain/users"

	"github.com/gin-gonic/gin"
)

const (
	TenantHeader = "X-Tenant-ID"
	tenantKey    = "tenant"
)

// TenantScope resolves the tenant a request acts on. Tenant users are bound
// to the tenant in their token; Auvora admins pick one with X-Tenant-ID.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tenantID uint

		if c.GetString("role") == users.RoleAuvoraAdmin {
			raw := c.GetHeader(TenantHeader)
			if raw == "" {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Select a tenant first (X-Tenant-ID header missing)"})
				return
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid X-Tenant-ID"})
				return
			}
			tenantID = uint(id)
		} else {
			tenantID = c.GetUint("tenant_id")
			if tenantID == 0 {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No tenant bound to this account"})
				return
			}
		}

		var tenant tenants.Tenant
		if err := database.DB.Preload("Plan").First(&tenant, tenantID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
			return
		}

		c.Set("tenant_id", tenant.ID)
		c.Set(tenantKey, &tenant)
		c.Next()
	}
}

// CurrentTenant returns the tenant loaded by TenantScope.
func CurrentTenant(c *gin.Context) *tenants.Tenant {
	if v, ok := c.Get(tenantKey); ok {
		if t, ok := v.(*tenants.Tenant); ok {
			return t
		}
	}
	return nil
}
