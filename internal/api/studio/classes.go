package studio

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/schedule"
	"auvora-crm/internal/domain/studio"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type classInput struct {
	Name            *string `json:"name"`
	InstructorID    *uint   `json:"instructor_id"`
	StartsAt        *string `json:"starts_at"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,gt=0"`
	Capacity        *int    `json:"capacity"`
	Enrolled        *int    `json:"enrolled" binding:"omitempty,gte=0"`
	Attended        *int    `json:"attended" binding:"omitempty,gte=0"`
}

func (in classInput) apply(cl *studio.Class) error {
	if in.Name != nil {
		cl.Name = strings.TrimSpace(*in.Name)
	}
	if in.InstructorID != nil {
		if *in.InstructorID == 0 {
			cl.InstructorID = nil
		} else {
			cl.InstructorID = in.InstructorID
		}
	}
	if in.StartsAt != nil {
		t, err := time.Parse(time.RFC3339, *in.StartsAt)
		if err != nil {
			return errors.New("invalid starts_at")
		}
		cl.StartsAt = t
	}
	if in.DurationMinutes != nil {
		cl.DurationMinutes = *in.DurationMinutes
	}
	if in.Capacity != nil {
		cl.Capacity = *in.Capacity
	}
	if in.Enrolled != nil {
		cl.Enrolled = *in.Enrolled
	}
	if in.Attended != nil {
		cl.Attended = *in.Attended
	}
	if cl.Name == "" {
		return errors.New("name is required")
	}
	if cl.StartsAt.IsZero() {
		return errors.New("starts_at is required")
	}
	if cl.Attended > cl.Enrolled {
		return errors.New("attended cannot exceed enrolled")
	}
	return cl.Validate()
}

func instructorBelongsTo(instructorID *uint, tenantID uint) error {
	if instructorID == nil {
		return nil
	}
	var n int64
	if err := database.DB.Model(&schedule.Staff{}).Where("id = ? AND tenant_id = ?", *instructorID, tenantID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errors.New("instructor not found")
	}
	return nil
}

func loadClass(c *gin.Context, tenantID uint) (*studio.Class, bool) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return nil, false
	}
	var cl studio.Class
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).First(&cl, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Class")
		return nil, false
	}
	return &cl, true
}

// GET /api/classes?from=YYYY-MM-DD&to=YYYY-MM-DD
func ListClasses(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	q := database.DB.Scopes(httpx.ForTenant(tenantID))
	if v := c.Query("from"); v != "" {
		from, err := httpx.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from"})
			return
		}
		q = q.Where("starts_at >= ?", from)
	}
	if v := c.Query("to"); v != "" {
		to, err := httpx.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to"})
			return
		}
		q = q.Where("starts_at < ?", to.AddDate(0, 0, 1))
	}

	list := []studio.Class{}
	if err := q.Order("starts_at ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load classes"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/classes
func CreateClass(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input classInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cl := studio.Class{TenantID: tenantID, DurationMinutes: 60}
	if err := input.apply(&cl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := instructorBelongsTo(cl.InstructorID, tenantID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Create(&cl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}
	c.JSON(http.StatusCreated, cl)
}

// GET /api/classes/:id
func GetClass(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	cl, ok := loadClass(c, tenantID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cl)
}

// PATCH /api/classes/:id
func UpdateClass(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input classInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cl, ok := loadClass(c, tenantID)
	if !ok {
		return
	}
	if err := input.apply(cl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := instructorBelongsTo(cl.InstructorID, tenantID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Save(cl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update class"})
		return
	}
	c.JSON(http.StatusOK, cl)
}

// POST /api/classes/:id/enroll
func EnrollClass(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	// conditional update so concurrent enrollments cannot overbook
	res := database.DB.Model(&studio.Class{}).
		Where("id = ? AND tenant_id = ? AND enrolled < capacity", id, tenantID).
		UpdateColumn("enrolled", gorm.Expr("enrolled + 1"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll"})
		return
	}

	cl, ok := loadClass(c, tenantID)
	if !ok {
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": studio.ErrClassFull.Error()})
		return
	}
	c.JSON(http.StatusOK, cl)
}

// DELETE /api/classes/:id
func DeleteClass(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	cl, ok := loadClass(c, tenantID)
	if !ok {
		return
	}
	if err := database.DB.Delete(cl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
		return
	}
	c.Status(http.StatusNoContent)
}
