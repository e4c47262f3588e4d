package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"auvora-crm/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

func MustTenantID(c *gin.Context) (uint, bool) {
	tenantID := c.GetUint("tenant_id")
	if tenantID == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant selected"})
		return 0, false
	}
	return tenantID, true
}

// ParamID reads a positive numeric path parameter, answering 400 otherwise.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// ForTenant scopes a query to one tenant's rows.
func ForTenant(tenantID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search adds a case-insensitive LIKE over columns when q is set. Wildcards
// typed by the user match literally.
func Search(q string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		q = strings.TrimSpace(q)
		if q == "" || len(columns) == 0 {
			return db
		}
		like := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		parts := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			parts = append(parts, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, like)
		}
		return db.Where(strings.Join(parts, " OR "), args...)
	}
}

// NotFoundOr500 answers 404 for a missing record and 500 for anything else.
func NotFoundOr500(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load " + strings.ToLower(what)})
}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// UnderLimit answers 402 when the tenant already has max rows of model.
// A zero max means unlimited.
func UnderLimit(c *gin.Context, model interface{}, tenantID uint, max int, what string) bool {
	if max <= 0 {
		return true
	}
	var n int64
	if err := database.DB.Model(model).Where("tenant_id = ?", tenantID).Count(&n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count " + what})
		return false
	}
	if n >= int64(max) {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Your plan allows up to " + strconv.Itoa(max) + " " + what + ". Upgrade to add more."})
		return false
	}
	return true
}
