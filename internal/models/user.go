// Package models contains the domain structures of the subscription manager:
// users, packages and subscription records, together with the helper types
// used to receive data from JSON requests ("Dummy" structs) and the patch
// types used for partial updates.
package models

import "time"

// User represents a registered account of the system.
// PasswordHash is never serialized into responses.
type User struct {
	UID          string    `json:"uid"`
	Username     string    `json:"username"` // unique across all rows, active or not
	Email        string    `json:"email"`    // unique across all rows, active or not
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // "admin" or "user"
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DummyRegister receives registration data from a JSON request before it is
// hashed and converted into a User.
type DummyRegister struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

// DummyLogin receives credentials from a JSON login request.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DummyRefresh receives the refresh token from a JSON request.
type DummyRefresh struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// DummyProfileUpdate receives a self-service profile update. Role and UID are
// deliberately absent: a user cannot escalate their own account.
type DummyProfileUpdate struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// UserPatch is the storage-level partial update for a user.
// Only non-nil fields are applied.
type UserPatch struct {
	Email        *string
	PasswordHash *string
	Role         *string
}

// UserPage is a paginated slice of users.
type UserPage struct {
	Users      []*User `json:"users"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
}
