// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package model

// Category is a catalog category with a bilingual name.
// Name keeps the legacy, pre-bilingual value and stays authoritative;
// NameRu/NameEn are derived by the translation service.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	NameRu string `json:"name_ru"`
	NameEn string `json:"name_en"`
	Slug   string `json:"slug"`
}
