package studio

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/app/http/middleware"
	"auvora-crm/internal/domain/studio"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type memberInput struct {
	Name           *string  `json:"name"`
	Email          *string  `json:"email" binding:"omitempty,email"`
	Phone          *string  `json:"phone"`
	Status         *string  `json:"status"`
	MembershipType *string  `json:"membership_type"`
	MonthlyRate    *float64 `json:"monthly_rate" binding:"omitempty,gte=0"`
	JoinedAt       *string  `json:"joined_at"`
}

func (in memberInput) apply(m *studio.Member, now time.Time) error {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		m.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		m.Phone = *in.Phone
	}
	if in.Status != nil {
		if err := m.SetStatus(*in.Status, now); err != nil {
			return err
		}
	}
	if in.MembershipType != nil {
		m.MembershipType = *in.MembershipType
	}
	if in.MonthlyRate != nil {
		m.MonthlyRate = *in.MonthlyRate
	}
	if in.JoinedAt != nil {
		d, err := httpx.ParseDate(*in.JoinedAt)
		if err != nil {
			return errors.New("invalid joined_at")
		}
		m.JoinedAt = d
	}
	if m.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// loadMember fetches a member of the current tenant, answering 404 for
// members of other tenants.
func loadMember(c *gin.Context, tenantID uint) (*studio.Member, bool) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return nil, false
	}
	var m studio.Member
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).First(&m, id).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Member")
		return nil, false
	}
	return &m, true
}

// GET /api/members
func ListMembers(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	q := database.DB.Scopes(httpx.ForTenant(tenantID), httpx.Search(c.Query("q"), "name", "email", "phone"))
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	list := []studio.Member{}
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load members"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/members
func CreateMember(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input memberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if policy, ok := middleware.CurrentPolicy(c); ok && policy.Limits != nil {
		if !httpx.UnderLimit(c, &studio.Member{}, tenantID, policy.Limits.MaxMembers, "members") {
			return
		}
	}

	now := time.Now()
	m := studio.Member{TenantID: tenantID, Status: studio.MemberActive, JoinedAt: now}
	if err := input.apply(&m, now); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Create(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GET /api/members/:id
func GetMember(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var m studio.Member
	err := database.DB.
		Preload("Goals", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Scopes(httpx.ForTenant(tenantID)).
		First(&m, id).Error
	if err != nil {
		httpx.NotFoundOr500(c, err, "Member")
		return
	}
	c.JSON(http.StatusOK, m)
}

// PATCH /api/members/:id
func UpdateMember(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input memberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, ok := loadMember(c, tenantID)
	if !ok {
		return
	}
	if err := input.apply(m, time.Now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Omit("Goals", "Notes").Save(m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// POST /api/members/:id/visit records a check-in.
func RecordVisit(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	m, ok := loadMember(c, tenantID)
	if !ok {
		return
	}

	now := time.Now()
	if err := database.DB.Model(m).Update("last_visit_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record visit"})
		return
	}
	m.LastVisitAt = &now
	c.JSON(http.StatusOK, m)
}

// DELETE /api/members/:id
func DeleteMember(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	m, ok := loadMember(c, tenantID)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", m.ID).Delete(&studio.Goal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", m.ID).Delete(&studio.Note{}).Error; err != nil {
			return err
		}
		return tx.Delete(&studio.Member{}, m.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}
	c.Status(http.StatusNoContent)
}
