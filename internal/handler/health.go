// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package handler

import (
	"database/sql"
	"net/http"

	"shop-go/internal/version"
)

// HealthHandler serves liveness and welcome endpoints.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health, checking database connectivity.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "Database is unreachable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// Welcome handles GET /.
func (h *HealthHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Shop API",
		"docs":    "/api",
	})
}
