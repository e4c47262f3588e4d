package schedule

import (
	"net/http"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/schedule"

	"github.com/gin-gonic/gin"
)

// weekParam reads ?week=YYYY-MM-DD (any day of the week, default today) and
// returns that week's Monday.
func weekParam(c *gin.Context) (time.Time, bool) {
	day := time.Now().UTC()
	if v := c.Query("week"); v != "" {
		d, err := time.Parse(httpx.DateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week must be YYYY-MM-DD"})
			return time.Time{}, false
		}
		day = d
	}
	return schedule.WeekStart(day), true
}

// GET /api/schedule?week=YYYY-MM-DD
func GetWeek(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	start, ok := weekParam(c)
	if !ok {
		return
	}

	shifts, err := weekShifts(database.DB, tenantID, start)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shifts"})
		return
	}

	staff := []schedule.Staff{}
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).Where("active = ?", true).Order("name ASC").Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load staff"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week_start": start.Format(httpx.DateLayout),
		"week_end":   start.AddDate(0, 0, 6).Format(httpx.DateLayout),
		"grid":       schedule.DefaultGrid,
		"staff":      staff,
		"shifts":     shifts,
		"conflicts":  schedule.Conflicts(shifts),
	})
}

// GET /api/schedule/hours?week=YYYY-MM-DD
func GetHours(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	start, ok := weekParam(c)
	if !ok {
		return
	}

	shifts, err := weekShifts(database.DB, tenantID, start)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shifts"})
		return
	}
	var staff []schedule.Staff
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load staff"})
		return
	}

	hours := schedule.HoursByStaff(staff, shifts)
	var totalHours, totalCost float64
	for _, h := range hours {
		totalHours += h.Hours
		totalCost += h.Cost
	}

	c.JSON(http.StatusOK, gin.H{
		"week_start":  start.Format(httpx.DateLayout),
		"staff":       hours,
		"total_hours": totalHours,
		"total_cost":  totalCost,
	})
}

type slotRequest struct {
	Day    string         `json:"day" binding:"required"`
	StartY float64        `json:"start_y"`
	EndY   float64        `json:"end_y"`
	Grid   *schedule.Grid `json:"grid"`
}

// POST /api/schedule/slot turns a drag on the week view into a shift range.
func GetSlot(c *gin.Context) {
	var body slotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := time.Parse(httpx.DateLayout, body.Day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
		return
	}

	grid := schedule.DefaultGrid
	if body.Grid != nil {
		grid = *body.Grid
	}

	slot, err := grid.SlotFromDrag(day, body.StartY, body.EndY)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, slot)
}
