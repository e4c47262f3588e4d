package admin

import (
	"net/http"

	"auvora-crm/database"
	"auvora-crm/internal/api/auth"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/tenants"
	"auvora-crm/internal/domain/users"
	"auvora-crm/internal/infra/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GET /api/admin/tenants/:id/users
func ListTenantUsers(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	list := []users.User{}
	if err := database.DB.Where("tenant_id = ?", id).Order("name ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type inviteInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// POST /api/admin/tenants/:id/users
func InviteTenantUser(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var input inviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Role == "" {
		input.Role = users.RoleStaff
	}

	var t tenants.Tenant
	if err := database.DB.First(&t, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Tenant")
		return
	}

	var user *users.User
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = auth.CreateUser(tx, auth.NewUserInput{
			TenantID: &t.ID,
			Name:     input.Name,
			Email:    input.Email,
			Phone:    input.Phone,
			Password: input.Password,
			Role:     input.Role,
		})
		return err
	})
	if err != nil {
		auth.RespondCreateUserError(c, err)
		return
	}

	if err := auth.SendInviteEmail(c.Request.Context(), *user, t.Name); err != nil {
		logger.FromContext(c).Warn("invite email failed", zap.String("email", user.Email), zap.Error(err))
	}

	c.JSON(http.StatusCreated, user)
}
