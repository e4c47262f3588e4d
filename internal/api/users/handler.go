package users

import (
	"net/http"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/domain/access"
	"auvora-crm/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.
		Preload("Tenant").
		Preload("Tenant.Plan").
		First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	resp := MeResponse{
		User: UserDTO{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Phone:    stringPtrIfNotEmpty(user.Phone),
			Role:     user.Role,
			TenantID: user.TenantID,
		},
	}

	if user.Tenant != nil {
		now := time.Now()
		t := *user.Tenant
		policy := access.ComputePolicy(now, t)

		resp.Tenant = BuildTenantDTO(&t)
		resp.Billing = &BillingDTO{
			Plan:         BuildPlanDTO(t.Plan),
			Subscription: BuildSubscriptionDTO(t),
			Trial:        BuildTrialDTO(now, t.TrialStartAt, t.TrialEndAt),
		}
		resp.Access = BuildAccessDTO(policy)
	}

	c.JSON(http.StatusOK, resp)
}

func stringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
