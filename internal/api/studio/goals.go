package studio

import (
	"errors"
	"net/http"
	"strings"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/studio"

	"github.com/gin-gonic/gin"
)

type goalInput struct {
	Title    *string  `json:"title"`
	Target   *float64 `json:"target" binding:"omitempty,gte=0"`
	Progress *float64 `json:"progress" binding:"omitempty,gte=0"`
	Unit     *string  `json:"unit"`
	DueDate  *string  `json:"due_date"`
	Status   *string  `json:"status"`
}

func (in goalInput) apply(g *studio.Goal) error {
	if in.Title != nil {
		g.Title = strings.TrimSpace(*in.Title)
	}
	if in.Target != nil {
		g.Target = *in.Target
	}
	if in.Progress != nil {
		g.Progress = *in.Progress
	}
	if in.Unit != nil {
		g.Unit = *in.Unit
	}
	if in.DueDate != nil {
		if *in.DueDate == "" {
			g.DueDate = nil
		} else {
			d, err := httpx.ParseDate(*in.DueDate)
			if err != nil {
				return errors.New("invalid due_date")
			}
			g.DueDate = &d
		}
	}
	if in.Status != nil {
		switch *in.Status {
		case studio.GoalOpen, studio.GoalAchieved, studio.GoalAbandoned:
			g.Status = *in.Status
		default:
			return errors.New("invalid goal status")
		}
	}
	if g.Title == "" {
		return errors.New("title is required")
	}
	g.Touch()
	return nil
}

// GET /api/members/:id/goals
func ListGoals(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	m, ok := loadMember(c, tenantID)
	if !ok {
		return
	}

	list := []studio.Goal{}
	if err := database.DB.Where("member_id = ?", m.ID).Order("created_at ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load goals"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/members/:id/goals
func CreateGoal(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input goalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, ok := loadMember(c, tenantID)
	if !ok {
		return
	}

	g := studio.Goal{MemberID: m.ID, Status: studio.GoalOpen}
	if err := input.apply(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Create(&g).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}
	c.JSON(http.StatusCreated, g)
}

func loadGoal(c *gin.Context, tenantID uint) (*studio.Goal, bool) {
	m, ok := loadMember(c, tenantID)
	if !ok {
		return nil, false
	}
	goalID, ok := httpx.ParamID(c, "goalId")
	if !ok {
		return nil, false
	}
	var g studio.Goal
	if err := database.DB.Where("member_id = ?", m.ID).First(&g, goalID).Error; err != nil {
		httpx.NotFoundOr500(c, err, "Goal")
		return nil, false
	}
	return &g, true
}

// PATCH /api/members/:id/goals/:goalId
func UpdateGoal(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input goalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, ok := loadGoal(c, tenantID)
	if !ok {
		return
	}
	if err := input.apply(g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Save(g).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// DELETE /api/members/:id/goals/:goalId
func DeleteGoal(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	g, ok := loadGoal(c, tenantID)
	if !ok {
		return
	}
	if err := database.DB.Delete(g).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}
	c.Status(http.StatusNoContent)
}
