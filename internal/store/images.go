// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"shop-go/internal/model"
)

const imageColumns = `id, product_id, image_url, sort_order, created_at`

func scanImage(row interface{ Scan(...any) error }) (model.ProductImage, error) {
	var img model.ProductImage
	err := row.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.SortOrder, &img.CreatedAt)
	return img, err
}

// CreateProductImageParams holds the fields for one gallery entry.
type CreateProductImageParams struct {
	ProductID int64
	ImageURL  string
	SortOrder int64
	CreatedAt time.Time
}

// CreateProductImage inserts a gallery row and returns it.
func (q *Queries) CreateProductImage(ctx context.Context, arg CreateProductImageParams) (model.ProductImage, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO product_images (product_id, image_url, sort_order, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+imageColumns,
		arg.ProductID, arg.ImageURL, arg.SortOrder, arg.CreatedAt)
	return scanImage(row)
}

// ListProductImages returns a product's gallery ordered by (sort_order, id).
func (q *Queries) ListProductImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+imageColumns+` FROM product_images
		WHERE product_id = ?
		ORDER BY sort_order, id`, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var images []model.ProductImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteProductImages removes every gallery row of a product.
func (q *Queries) DeleteProductImages(ctx context.Context, productID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = ?`, productID)
	return err
}
