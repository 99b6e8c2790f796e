// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"already slug", "hello-world", "hello-world"},
		{"accents removed", "Café au Lait", "cafe-au-lait"},
		{"punctuation dropped", "What's New?!", "whats-new"},
		{"multiple spaces", "too   many   spaces", "too-many-spaces"},
		{"leading trailing junk", "  --Trimmed--  ", "trimmed"},
		{"cyrillic transliterated", "Обувь", "obuv"},
		{"cyrillic phrase", "Кожаная сумка", "kozhanaya-sumka"},
		{"mixed scripts", "Nike Кроссовки 2024", "nike-krossovki-2024"},
		{"soft sign dropped", "Спортивная одежда", "sportivnaya-odezhda"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"hello-world", true},
		{"abc123", true},
		{"a", true},
		{"", false},
		{"Hello", false},
		{"hello_world", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"with space", false},
		{"обувь", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestSlugifyProducesValidSlugs(t *testing.T) {
	inputs := []string{
		"Hello World", "Café au Lait", "Обувь", "Кожаная сумка", "a---b",
	}
	for _, in := range inputs {
		slug := Slugify(in)
		if slug != "" && !IsValidSlug(slug) {
			t.Errorf("Slugify(%q) = %q which fails IsValidSlug", in, slug)
		}
	}
}
