// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package model

import "time"

// Product is a catalog product. The name and description families each carry
// the legacy value plus derived ru/en variants. ImageURL mirrors the first
// row of the product_images table for pre-gallery clients.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	NameRu        string    `json:"name_ru"`
	NameEn        string    `json:"name_en"`
	Description   string    `json:"description"`
	DescriptionRu string    `json:"description_ru"`
	DescriptionEn string    `json:"description_en"`
	Price         float64   `json:"price"`
	CategoryID    int64     `json:"category_id"`
	ImageURL      string    `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProductImage is one entry of a product's ordered image gallery.
type ProductImage struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	ImageURL  string    `json:"image_url"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
