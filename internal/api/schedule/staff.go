package schedule

import (
	"net/http"
	"regexp"
	"strings"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/app/http/middleware"
	"auvora-crm/internal/domain/schedule"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type staffInput struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email" binding:"omitempty,email"`
	Role       *string  `json:"role"`
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
	Color      *string  `json:"color"`
	Active     *bool    `json:"active"`
}

// updates turns the set fields into a column map so a false Active is
// written instead of skipped.
func (in staffInput) updates() (map[string]interface{}, string) {
	u := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, "Name cannot be empty"
		}
		u["name"] = name
	}
	if in.Email != nil {
		u["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil {
		u["role"] = *in.Role
	}
	if in.HourlyRate != nil {
		u["hourly_rate"] = *in.HourlyRate
	}
	if in.Color != nil {
		if *in.Color != "" && !hexColor.MatchString(*in.Color) {
			return nil, "Color must look like #rrggbb"
		}
		u["color"] = *in.Color
	}
	if in.Active != nil {
		u["active"] = *in.Active
	}
	return u, ""
}

// GET /api/staff
func ListStaff(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	q := database.DB.Scopes(httpx.ForTenant(tenantID))
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	list := []schedule.Staff{}
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load staff"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/staff
func CreateStaff(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input staffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	updates, msg := input.updates()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if policy, ok := middleware.CurrentPolicy(c); ok && policy.Limits != nil {
		if !httpx.UnderLimit(c, &schedule.Staff{}, tenantID, policy.Limits.MaxStaff, "staff members") {
			return
		}
	}

	s := schedule.Staff{
		TenantID: tenantID,
		Name:     updates["name"].(string),
		Active:   true,
	}
	if input.Email != nil {
		s.Email = updates["email"].(string)
	}
	if input.Role != nil {
		s.Role = *input.Role
	}
	if input.HourlyRate != nil {
		s.HourlyRate = *input.HourlyRate
	}
	if input.Color != nil {
		s.Color = *input.Color
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&s).Error; err != nil {
			return err
		}
		// the column default would swallow a false on insert
		if input.Active != nil && !*input.Active {
			s.Active = false
			return tx.Model(&s).Update("active", false).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create staff member"})
		return
	}
	c.JSON(http.StatusCreated, s)
}

// PATCH /api/staff/:id
func UpdateStaff(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var input staffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates, msg := input.updates()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var s schedule.Staff
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).First(&s, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Staff member")
		return
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&s).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update staff member"})
			return
		}
		if err := database.DB.First(&s, s.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload staff member"})
			return
		}
	}
	c.JSON(http.StatusOK, s)
}

// DELETE /api/staff/:id removes the staff member with their shifts and
// unassigns their classes.
func DeleteStaff(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var s schedule.Staff
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).First(&s, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Staff member")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", s.ID).Delete(&schedule.StaffShift{}).Error; err != nil {
			return err
		}
		if err := tx.Table("classes").Where("instructor_id = ?", s.ID).Update("instructor_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&s).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete staff member"})
		return
	}
	c.Status(http.StatusNoContent)
}
