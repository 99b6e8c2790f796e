// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package handler

import (
	"fmt"
	"net/http"
	"time"

	"shop-go/internal/middleware"
	"shop-go/internal/model"
	"shop-go/internal/service"
)

// TokenResponse is returned by every successful sign-in flow.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

// AuthHandler serves registration and sign-in endpoints.
type AuthHandler struct {
	svc        *service.AuthService
	protection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, protection *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{svc: svc, protection: protection}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	user, token, err := h.svc.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteCreated(w, TokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

// Login handles POST /api/auth/login with account lockout tracking.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	if locked, remaining := h.protection.IsAccountLocked(req.Email); locked {
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			fmt.Sprintf("Account is temporarily locked. Try again in %s.", remaining.Round(time.Second)))
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.protection.RecordFailedAttempt(req.Email)
		WriteServiceError(w, err)
		return
	}

	h.protection.RecordSuccessfulLogin(req.Email)
	WriteSuccess(w, TokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

// Google handles POST /api/auth/google.
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	user, token, err := h.svc.GoogleSignIn(r.Context(), req.IDToken)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, TokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

// Me handles GET /api/auth/me for the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	WriteSuccess(w, user)
}
