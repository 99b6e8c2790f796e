// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleProviderTranslate(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"client": r.URL.Query().Get("client"),
			"sl":     r.URL.Query().Get("sl"),
			"tl":     r.URL.Query().Get("tl"),
			"q":      r.URL.Query().Get("q"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[["Обувь","Shoes",null,null],["!","!",null,null]],null,"en"]`))
	}))
	defer srv.Close()

	p := NewGoogleProviderWithEndpoint(srv.URL)
	got := p.Translate(context.Background(), "Shoes!", "en", "ru")
	if got != "Обувь!" {
		t.Errorf("Translate = %q, want %q", got, "Обувь!")
	}

	if gotQuery["client"] != "gtx" {
		t.Errorf("client = %q, want gtx", gotQuery["client"])
	}
	if gotQuery["sl"] != "en" || gotQuery["tl"] != "ru" {
		t.Errorf("sl/tl = %q/%q, want en/ru", gotQuery["sl"], gotQuery["tl"])
	}
	if gotQuery["q"] != "Shoes!" {
		t.Errorf("q = %q, want %q", gotQuery["q"], "Shoes!")
	}
}

func TestGoogleProviderShortCircuits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not call out for short-circuit inputs")
	}))
	defer srv.Close()

	p := NewGoogleProviderWithEndpoint(srv.URL)
	ctx := context.Background()

	if got := p.Translate(ctx, "", "en", "ru"); got != "" {
		t.Errorf("empty text: got %q", got)
	}
	if got := p.Translate(ctx, "Shoes", "en", ""); got != "Shoes" {
		t.Errorf("empty target: got %q", got)
	}
	if got := p.Translate(ctx, "Shoes", "en", "en"); got != "Shoes" {
		t.Errorf("same language: got %q", got)
	}
	if got := p.Translate(ctx, "   ", "en", "ru"); got != "" {
		t.Errorf("whitespace text: got %q", got)
	}
}

func TestGoogleProviderFailOpen(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"an array"}`))
		}},
		{"unexpected shape", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`["string instead of chunks"]`))
		}},
		{"empty chunks", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[[],null]`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := NewGoogleProviderWithEndpoint(srv.URL)
			if got := p.Translate(context.Background(), "Shoes", "en", "ru"); got != "Shoes" {
				t.Errorf("Translate = %q, want original text back", got)
			}
		})
	}
}

func TestGoogleProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewGoogleProviderWithEndpoint(srv.URL)
	if got := p.Translate(context.Background(), "Shoes", "en", "ru"); got != "Shoes" {
		t.Errorf("Translate = %q, want original text back", got)
	}
}
