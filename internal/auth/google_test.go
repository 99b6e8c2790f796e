// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func tokenInfoServer(t *testing.T, claims GoogleClaims, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") == "" {
			t.Error("id_token query parameter missing")
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(claims)
	}))
}

func validClaims() GoogleClaims {
	return GoogleClaims{
		Sub:           "google-sub-1",
		Email:         "user@example.com",
		EmailVerified: "true",
		Name:          "Example User",
		Audience:      "client-id-1",
		Expiry:        strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
	}
}

func TestVerifyIDToken(t *testing.T) {
	srv := tokenInfoServer(t, validClaims(), http.StatusOK)
	defer srv.Close()

	v := NewGoogleVerifierWithEndpoint("client-id-1", srv.URL)
	claims, err := v.VerifyIDToken(context.Background(), "some-token")
	if err != nil {
		t.Fatalf("VerifyIDToken: %v", err)
	}
	if claims.Sub != "google-sub-1" || claims.Email != "user@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyIDTokenRejections(t *testing.T) {
	expired := validClaims()
	expired.Expiry = strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)

	wrongAud := validClaims()
	wrongAud.Audience = "someone-else"

	unverified := validClaims()
	unverified.EmailVerified = "false"

	noEmail := validClaims()
	noEmail.Email = ""

	tests := []struct {
		name   string
		claims GoogleClaims
		status int
	}{
		{"rejected by google", validClaims(), http.StatusBadRequest},
		{"expired token", expired, http.StatusOK},
		{"wrong audience", wrongAud, http.StatusOK},
		{"unverified email", unverified, http.StatusOK},
		{"missing email", noEmail, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := tokenInfoServer(t, tt.claims, tt.status)
			defer srv.Close()

			v := NewGoogleVerifierWithEndpoint("client-id-1", srv.URL)
			if _, err := v.VerifyIDToken(context.Background(), "some-token"); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestVerifyIDTokenNotConfigured(t *testing.T) {
	v := NewGoogleVerifier("")
	if _, err := v.VerifyIDToken(context.Background(), "some-token"); err == nil {
		t.Error("expected error when client ID is not configured")
	}
}

func TestVerifyIDTokenEmptyToken(t *testing.T) {
	v := NewGoogleVerifier("client-id-1")
	if _, err := v.VerifyIDToken(context.Background(), ""); err == nil {
		t.Error("expected error for empty token")
	}
}
