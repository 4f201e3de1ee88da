package model

import (
	"strings"
	"time"
)

// User is an account of the hosting application. PasswordHash is produced by
// the caller's hashing scheme and never leaves the server.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Active       bool       `gorm:"not null" json:"active"`
	IsSuperuser  bool       `gorm:"not null" json:"is_superuser"`
	Permissions  string     `gorm:"size:1024;not null" json:"permissions"` // comma-delimited, case-insensitive
	GroupRef     *uint      `json:"group_ref"`
	JoinedAt     time.Time  `gorm:"autoCreateTime;not null" json:"joined_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// HasPermission reports whether the user holds the named permission.
// Superusers hold every permission. Tokens are compared case-insensitively
// but are not trimmed, so "edit, view" grants "edit" and " view".
func (u *User) HasPermission(name string) bool {
	if u.IsSuperuser {
		return true
	}
	if u.Permissions == "" {
		return false
	}
	want := strings.ToLower(name)
	for _, p := range strings.Split(strings.ToLower(u.Permissions), ",") {
		if p == want {
			return true
		}
	}
	return false
}
