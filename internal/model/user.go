package model

import (
	"time"
)

// User status constants
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
	UserStatusPending = "pending"
)

// User type constants
const (
	UserTypeAdmin     = "admin"
	UserTypeSecretary = "secretary"
	UserTypeDoctor    = "doctor"
)

// User is a back-office account. Blocked users cannot log in.
type User struct {
	Base
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Type         string     `json:"type" db:"type"`
	Status       string     `json:"status" db:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Type     string `json:"type" binding:"required,oneof=admin secretary doctor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// GateRequest carries the admin credential entered in the confirmation
// dialog that guards blocking and unblocking an account.
type GateRequest struct {
	AdminPassword string `json:"admin_password" binding:"required"`
}
