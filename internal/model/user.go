package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// Role is a user's authorization role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account
type User struct {
	ID           UserID
	Username     string // login username (immutable, unique)
	PasswordHash string // bcrypt hash
	Role         Role
	CreatedAt    time.Time
}

// Identity is the authenticated identity extracted from a verified credential.
// A nil *Identity means the caller is anonymous.
type Identity struct {
	UserID   UserID
	Username string
	Role     Role
}
