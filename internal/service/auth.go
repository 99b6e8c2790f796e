// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shop-go/internal/auth"
	"shop-go/internal/config"
	"shop-go/internal/model"
	"shop-go/internal/store"
)

// MinPasswordLength is the minimum accepted password length for registration.
const MinPasswordLength = 8

// GoogleVerifier validates a Google ID token and returns its claims.
// Implemented by auth.GoogleVerifier; stubbed in tests.
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.GoogleClaims, error)
}

// AuthService implements registration, credential login and Google sign-in.
type AuthService struct {
	queries *store.Queries
	cfg     *config.Config
	jwt     *auth.JWTManager
	google  GoogleVerifier
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB, cfg *config.Config, jwtManager *auth.JWTManager, google GoogleVerifier) *AuthService {
	return &AuthService{
		queries: store.New(db),
		cfg:     cfg,
		jwt:     jwtManager,
		google:  google,
	}
}

// Register creates a local-password account and returns it with an access token.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, "", fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return model.User{}, "", fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	if _, err := s.queries.GetUserByEmail(ctx, email); err == nil {
		return model.User{}, "", fmt.Errorf("%w: email is already registered", ErrConflict)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, "", fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.User{}, "", fmt.Errorf("hashing password: %w", err)
	}

	role, err := s.resolveRole(ctx, email)
	if err != nil {
		return model.User{}, "", err
	}

	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: sql.NullString{String: hash, Valid: true},
		Provider:     model.ProviderLocal,
		Role:         role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return model.User{}, "", fmt.Errorf("creating user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	return s.withToken(user)
}

// Login authenticates a local-password account.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", fmt.Errorf("loading user: %w", err)
	}

	// Google-only accounts have no password to check.
	if !user.PasswordHash.Valid {
		return model.User{}, "", ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash.String)
	if err != nil || !ok {
		return model.User{}, "", ErrInvalidCredentials
	}

	return s.withToken(user)
}

// GoogleSignIn verifies a Google ID token and signs the user in, creating or
// linking the account as needed.
func (s *AuthService) GoogleSignIn(ctx context.Context, idToken string) (model.User, string, error) {
	claims, err := s.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		return model.User{}, "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	email := normalizeEmail(claims.Email)

	// Returning Google user.
	if user, err := s.queries.GetUserByGoogleSub(ctx, claims.Sub); err == nil {
		return s.withToken(user)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, "", fmt.Errorf("loading user: %w", err)
	}

	// Existing local account with the same email gets the Google identity
	// attached. Role is upgraded if the email is on the admin list.
	if user, err := s.queries.GetUserByEmail(ctx, email); err == nil {
		role := user.Role
		if s.cfg.IsAdminEmail(email) {
			role = model.RoleAdmin
		}
		linked, err := s.queries.LinkUserGoogle(ctx, store.LinkUserGoogleParams{
			ID:        user.ID,
			GoogleSub: sql.NullString{String: claims.Sub, Valid: true},
			Provider:  user.Provider,
			Role:      role,
		})
		if err != nil {
			return model.User{}, "", fmt.Errorf("linking google account: %w", err)
		}
		slog.Info("google identity linked", "user_id", linked.ID)
		return s.withToken(linked)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, "", fmt.Errorf("loading user: %w", err)
	}

	role, err := s.resolveRole(ctx, email)
	if err != nil {
		return model.User{}, "", err
	}

	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:     email,
		FullName:  strings.TrimSpace(claims.Name),
		Provider:  model.ProviderGoogle,
		GoogleSub: sql.NullString{String: claims.Sub, Valid: true},
		Role:      role,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return model.User{}, "", fmt.Errorf("creating user: %w", err)
	}

	slog.Info("user registered via google", "user_id", user.ID, "role", user.Role)
	return s.withToken(user)
}

// resolveRole decides the role for a new (or newly linked) account: admins
// come from the configured email list, and the very first account is promoted
// so a fresh install always has an administrator.
func (s *AuthService) resolveRole(ctx context.Context, email string) (string, error) {
	if s.cfg.IsAdminEmail(email) {
		return model.RoleAdmin, nil
	}

	count, err := s.queries.CountUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("counting users: %w", err)
	}
	if count == 0 {
		return model.RoleAdmin, nil
	}
	return model.RoleUser, nil
}

func (s *AuthService) withToken(user model.User) (model.User, string, error) {
	token, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("issuing token: %w", err)
	}
	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
