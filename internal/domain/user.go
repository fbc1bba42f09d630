package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleUser grants standard user access.
	RoleUser Role = "user"
)

// User represents an authenticated user account.
// The store assigns the numeric ID at creation; it is immutable afterward.
type User struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"` // Stored hashed, never serialized
	Role         Role      `json:"role"`
}

// IsAdmin returns true if the user has administrative access.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (u *User) InitTimestamps() {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
}

// Session represents an authenticated device session backed by a refresh token.
// Only the hash of the refresh token is persisted.
type Session struct {
	ID               string    `json:"id"`
	UserID           int64     `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	LastUsedAt       time.Time `json:"last_used_at"`
}

// IsExpired returns true if the session's refresh token can no longer be used.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
