// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

// Package service provides the business logic layer between HTTP handlers
// and the store: authentication, catalog management and media storage.
package service

import "errors"

// Sentinel errors mapped to HTTP status codes at the handler layer.
var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the operation collides with existing state
	// (duplicate email or slug, category still referenced by products).
	ErrConflict = errors.New("conflict")
	// ErrValidation means the input failed a business rule.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials means email/password authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
