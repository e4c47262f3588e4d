package users

import (
	"time"

	"auvora-crm/internal/domain/tenants"
)

const (
	RoleAuvoraAdmin = "auvora_admin"
	RoleOwner       = "owner"
	RoleManager     = "manager"
	RoleStaff       = "staff"
)

var TenantRoles = []string{RoleOwner, RoleManager, RoleStaff}

type User struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	TenantID *uint           `gorm:"index" json:"tenant_id"`
	Tenant   *tenants.Tenant `json:"-"`

	Name         string  `json:"name"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Phone        string  `json:"phone"`
	Password     *string `json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	Role         string  `gorm:"type:varchar(20);not null" json:"role"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u User) IsAuvoraAdmin() bool {
	return u.Role == RoleAuvoraAdmin
}

func ValidTenantRole(role string) bool {
	for _, r := range TenantRoles {
		if r == role {
			return true
		}
	}
	return false
}
