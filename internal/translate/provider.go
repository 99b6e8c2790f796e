// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// Free Google Translate endpoint (the one the web widget uses).
	googleTranslateURL = "https://translate.googleapis.com/translate_a/single"
	// Per-request timeout. A hung provider is bounded by this alone.
	translateTimeout = 8 * time.Second
)

// Provider translates text between two language codes. Implementations must
// be fail-open: on any failure they return the input text unchanged.
type Provider interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) string
}

// GoogleProvider calls the unauthenticated Google Translate endpoint.
// Every failure mode (network error, timeout, non-2xx status, malformed
// payload) degrades to returning the original text.
type GoogleProvider struct {
	endpoint string
	client   *http.Client
}

// NewGoogleProvider creates a provider pointed at the public endpoint.
func NewGoogleProvider() *GoogleProvider {
	return NewGoogleProviderWithEndpoint(googleTranslateURL)
}

// NewGoogleProviderWithEndpoint creates a provider against a custom endpoint.
// Tests point this at an httptest.Server.
func NewGoogleProviderWithEndpoint(endpoint string) *GoogleProvider {
	return &GoogleProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: translateTimeout},
	}
}

// Translate returns text translated from sourceLang to targetLang.
// Empty text, an empty target, or source == target short-circuit without any
// network call.
func (p *GoogleProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) string {
	source := strings.TrimSpace(sourceLang)
	if source == "" {
		source = "auto"
	}
	target := strings.ToLower(strings.TrimSpace(targetLang))
	content := strings.TrimSpace(text)

	if content == "" || target == "" || source == target {
		return content
	}

	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", target)
	query.Set("dt", "t")
	query.Set("q", content)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return content
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return content
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return content
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return content
	}

	translated := parseTranslatePayload(body)
	if translated == "" {
		return content
	}
	return translated
}

// parseTranslatePayload extracts the translated text from the endpoint's
// nested-array response: the first top-level element is a list of chunks, and
// each chunk's first element is a translated fragment. Returns "" when the
// payload does not have that shape.
func parseTranslatePayload(body []byte) string {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return ""
	}

	var chunks [][]any
	if err := json.Unmarshal(payload[0], &chunks); err != nil {
		return ""
	}

	var b strings.Builder
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		if fragment, ok := chunk[0].(string); ok {
			b.WriteString(fragment)
		}
	}

	return strings.TrimSpace(b.String())
}
