package middleware

import (
	"net/http"
	"time"

	"auvora-crm/internal/domain/access"
	"auvora-crm/internal/domain/users"

	"github.com/gin-gonic/gin"
)

const policyKey = "policy"

var allCapabilities = []string{
	access.CapCRM, access.CapSchedule, access.CapAskAuvora,
	access.CapMessaging, access.CapSocial, access.CapQuickBooks,
}

// RequireAccess computes the tenant's access policy and rejects locked
// tenants with 402. Auvora admins acting on a tenant are never locked out.
// Must run after TenantScope.
func RequireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := CurrentTenant(c)
		if tenant == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Tenant not resolved"})
			return
		}

		var policy access.Policy
		if c.GetString("role") == users.RoleAuvoraAdmin {
			policy = access.Policy{State: access.AccessFull, Capabilities: allCapabilities}
		} else {
			policy = access.ComputePolicy(time.Now(), *tenant)
		}

		if policy.State == access.AccessLocked {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error": "Your subscription is inactive. Update billing to continue.",
				"state": policy.State,
			})
			return
		}

		c.Set(policyKey, policy)
		c.Next()
	}
}

// RequireCapability gates a premium module. Must run after RequireAccess.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy, ok := CurrentPolicy(c)
		if !ok || !policy.Has(capability) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":      "Your plan does not include this feature",
				"capability": capability,
			})
			return
		}
		c.Next()
	}
}

func CurrentPolicy(c *gin.Context) (access.Policy, bool) {
	v, ok := c.Get(policyKey)
	if !ok {
		return access.Policy{}, false
	}
	p, ok := v.(access.Policy)
	return p, ok
}
