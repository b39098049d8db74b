package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Roles assignable to portal administrators.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// AdminUser is a staff account for the tenant administration surface.
type AdminUser struct {
	ID           snowflake.ID `gorm:"column:id;primaryKey" json:"id"`
	Email        string       `gorm:"column:email;uniqueIndex" json:"email"`
	DisplayName  string       `gorm:"column:display_name" json:"displayName"`
	PasswordHash string       `gorm:"column:password_hash" json:"-"`
	Role         string       `gorm:"column:role" json:"role"`
	IsActive     bool         `gorm:"column:is_active" json:"isActive"`
	CreatedAt    time.Time    `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"column:updated_at" json:"updatedAt"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// AdminSession is a server-side session record. Only the SHA-256 hash of the
// bearer token is persisted.
type AdminSession struct {
	ID          snowflake.ID `gorm:"column:id;primaryKey" json:"id"`
	TokenHash   string       `gorm:"column:token_hash;uniqueIndex" json:"-"`
	AdminUserID snowflake.ID `gorm:"column:admin_user_id;index" json:"adminUserId"`
	ExpiresAt   time.Time    `gorm:"column:expires_at" json:"expiresAt"`
	CreatedAt   time.Time    `gorm:"column:created_at" json:"createdAt"`
}

func (AdminSession) TableName() string {
	return "admin_sessions"
}
