// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

// Package model defines domain models and types used throughout the
// application including User, Category and Product structures.
package model

import (
	"database/sql"
	"time"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Auth providers.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User represents a shop account, either password-based or Google sign-in.
type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	FullName     string         `json:"full_name"`
	PasswordHash sql.NullString `json:"-"` // Never expose in JSON; null for Google accounts
	Provider     string         `json:"provider"`
	GoogleSub    sql.NullString `json:"-"`
	Role         string         `json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
