package auth

import (
	"time"
)

// Role names used across route guards
const (
	RoleAdmin   = "admin"   // instance administrator
	RoleManager = "manager" // region manager
	RoleEditor  = "editor"  // region content editor
)

// UserRole represents the user_roles table
type UserRole struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RoleName    string    `gorm:"size:50;not null;uniqueIndex" json:"role_name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName overrides table name for UserRole
func (UserRole) TableName() string {
	return "user_roles"
}

// User represents the users table (staff accounts of the portal). Region
// staff carry a RegionID; instance admins have none and may act on every
// region.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"size:150;not null" json:"full_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       uint      `gorm:"not null;index" json:"role_id"`
	Role         UserRole  `gorm:"foreignKey:RoleID" json:"role"`
	RegionID     *uint     `gorm:"index" json:"region_id,omitempty"`
	Status       string    `gorm:"size:20;default:active" json:"status"` // active/inactive
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for User
func (User) TableName() string {
	return "users"
}

// ============================
// 🟡 Request DTOs

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
	RegionID *uint  `json:"region_id,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
