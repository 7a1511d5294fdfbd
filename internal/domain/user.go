package domain

import "time"

// Role is a server-wide user role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account on the server.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Banned       bool       `json:"banned"`
	BanReason    string     `json:"banReason,omitempty"`
	BanExpires   *time.Time `json:"banExpires,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user has the server admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsBanned reports whether the user is currently banned.
// A ban with an expiry in the past no longer applies.
func (u *User) IsBanned(now time.Time) bool {
	if !u.Banned {
		return false
	}
	if u.BanExpires != nil && u.BanExpires.Before(now) {
		return false
	}
	return true
}
