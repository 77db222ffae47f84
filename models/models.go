package models

import (
	"strings"
	"time"
)

// Authentication methods a user account can be created through
const (
	AuthMethodPassword    = "password"
	AuthMethodPrivyEmail  = "privy_email"
	AuthMethodPrivyGoogle = "privy_google"
	AuthMethodPrivyWallet = "privy_wallet"
	AuthMethodGoogle      = "google"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a marketplace account
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  *string   `json:"-"`
	PrivyUserID   *string   `gorm:"uniqueIndex" json:"privy_user_id,omitempty"`
	GoogleID      *string   `gorm:"uniqueIndex" json:"-"`
	AuthMethod    string    `gorm:"not null;default:password" json:"auth_method"`
	Role          string    `gorm:"not null;default:user" json:"role"`
	WalletAddress *string   `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserResponse is the public projection of a user returned by the auth endpoints
type UserResponse struct {
	ID            uint    `json:"id"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	AuthMethod    string  `json:"authMethod"`
	WalletAddress *string `json:"walletAddress"`
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword reports whether the account can log in with a password
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// ToResponse strips credentials from the user
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		AuthMethod:    u.AuthMethod,
		WalletAddress: u.WalletAddress,
	}
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
