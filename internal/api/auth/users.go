package auth

import (
	"errors"
	"net/http"
	"strings"

	"auvora-crm/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken  = errors.New("email already in use")
	ErrInvalidRole = errors.New("invalid role")
)

type NewUserInput struct {
	TenantID *uint
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// CreateUser hashes the password and inserts the user. An empty password
// creates a Google-only account.
func CreateUser(tx *gorm.DB, in NewUserInput) (*users.User, error) {
	if in.Role != users.RoleAuvoraAdmin && !users.ValidTenantRole(in.Role) {
		return nil, ErrInvalidRole
	}
	if in.Role != users.RoleAuvoraAdmin && in.TenantID == nil {
		return nil, ErrInvalidRole
	}

	email := NormalizeEmail(in.Email)
	var n int64
	if err := tx.Model(&users.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrEmailTaken
	}

	user := users.User{
		TenantID:     in.TenantID,
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        in.Phone,
		AuthProvider: "local",
		Role:         in.Role,
	}
	if in.Password != "" {
		hashed, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = &hashed
	} else {
		user.AuthProvider = "google"
	}

	if err := tx.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

func RespondCreateUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
	case errors.Is(err, ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
	case errors.Is(err, ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
	}
}
