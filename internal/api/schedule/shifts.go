package schedule

import (
	"errors"
	"net/http"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/schedule"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type shiftInput struct {
	StaffID      *uint   `json:"staff_id"`
	StartsAt     *string `json:"starts_at"`
	EndsAt       *string `json:"ends_at"`
	Role         *string `json:"role"`
	Notes        *string `json:"notes"`
	AllowOverlap bool    `json:"allow_overlap"`
}

func (in shiftInput) apply(s *schedule.StaffShift) error {
	if in.StaffID != nil {
		s.StaffID = *in.StaffID
	}
	if in.StartsAt != nil {
		t, err := time.Parse(time.RFC3339, *in.StartsAt)
		if err != nil {
			return errors.New("invalid starts_at")
		}
		s.StartsAt = t
	}
	if in.EndsAt != nil {
		t, err := time.Parse(time.RFC3339, *in.EndsAt)
		if err != nil {
			return errors.New("invalid ends_at")
		}
		s.EndsAt = t
	}
	if in.Role != nil {
		s.Role = *in.Role
	}
	if in.Notes != nil {
		s.Notes = *in.Notes
	}
	if s.StaffID == 0 {
		return errors.New("staff_id is required")
	}
	return s.Validate()
}

// checkShift verifies the staff member belongs to the tenant and, unless
// overlaps are allowed, that the shift collides with none of theirs.
func checkShift(c *gin.Context, tenantID uint, s schedule.StaffShift, allowOverlap bool) bool {
	var n int64
	if err := database.DB.Model(&schedule.Staff{}).Where("id = ? AND tenant_id = ?", s.StaffID, tenantID).Count(&n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load staff member"})
		return false
	}
	if n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Staff member not found"})
		return false
	}
	if allowOverlap {
		return true
	}

	var nearby []schedule.StaffShift
	if err := database.DB.
		Where("tenant_id = ? AND staff_id = ? AND starts_at < ? AND ends_at > ?", tenantID, s.StaffID, s.EndsAt, s.StartsAt).
		Find(&nearby).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check overlaps"})
		return false
	}
	if other, clash := schedule.FirstOverlap(s, nearby); clash {
		c.JSON(http.StatusConflict, gin.H{
			"error":    schedule.ErrShiftOverlap.Error(),
			"conflict": other,
		})
		return false
	}
	return true
}

// POST /api/shifts
func CreateShift(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input shiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := schedule.StaffShift{TenantID: tenantID}
	if err := input.apply(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !checkShift(c, tenantID, s, input.AllowOverlap) {
		return
	}

	if err := database.DB.Create(&s).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shift"})
		return
	}
	c.JSON(http.StatusCreated, s)
}

// PATCH /api/shifts/:id
func UpdateShift(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var input shiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var s schedule.StaffShift
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).First(&s, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Shift")
		return
	}
	if err := input.apply(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !checkShift(c, tenantID, s, input.AllowOverlap) {
		return
	}

	if err := database.DB.Omit("Staff").Save(&s).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shift"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// DELETE /api/shifts/:id
func DeleteShift(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	res := database.DB.Scopes(httpx.ForTenant(tenantID)).Delete(&schedule.StaffShift{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shift"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// weekShifts loads the tenant's shifts starting inside the week.
func weekShifts(db *gorm.DB, tenantID uint, start time.Time) ([]schedule.StaffShift, error) {
	shifts := []schedule.StaffShift{}
	err := db.
		Preload("Staff").
		Where("tenant_id = ? AND starts_at >= ? AND starts_at < ?", tenantID, start, start.AddDate(0, 0, 7)).
		Order("starts_at ASC").
		Find(&shifts).Error
	return shifts, err
}
