package studio

import (
	"net/http"
	"strings"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/studio"

	"github.com/gin-gonic/gin"
)

// GET /api/members/:id/notes
func ListNotes(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	m, ok := loadMember(c, tenantID)
	if !ok {
		return
	}

	list := []studio.Note{}
	if err := database.DB.Where("member_id = ?", m.ID).Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notes"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/members/:id/notes
func CreateNote(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var body struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := strings.TrimSpace(body.Body)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note cannot be empty"})
		return
	}

	m, ok := loadMember(c, tenantID)
	if !ok {
		return
	}

	n := studio.Note{MemberID: m.ID, Body: text}
	if uid := c.GetUint("user_id"); uid != 0 {
		n.AuthorID = &uid
	}
	if err := database.DB.Create(&n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}
	c.JSON(http.StatusCreated, n)
}

// DELETE /api/members/:id/notes/:noteId
func DeleteNote(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}
	m, ok := loadMember(c, tenantID)
	if !ok {
		return
	}
	noteID, ok := httpx.ParamID(c, "noteId")
	if !ok {
		return
	}

	res := database.DB.Where("member_id = ?", m.ID).Delete(&studio.Note{}, noteID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
