// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"shop-go/internal/model"
)

const productColumns = `id, name, COALESCE(name_ru, ''), COALESCE(name_en, ''),
	COALESCE(description, ''), COALESCE(description_ru, ''), COALESCE(description_en, ''),
	price, category_id, COALESCE(image_url, ''), created_at`

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.NameRu, &p.NameEn,
		&p.Description, &p.DescriptionRu, &p.DescriptionEn,
		&p.Price, &p.CategoryID, &p.ImageURL, &p.CreatedAt)
	return p, err
}

// CreateProductParams holds the fields for creating a product.
type CreateProductParams struct {
	Name          string
	NameRu        string
	NameEn        string
	Description   string
	DescriptionRu string
	DescriptionEn string
	Price         float64
	CategoryID    int64
	ImageURL      string
	CreatedAt     time.Time
}

// CreateProduct inserts a new product and returns it.
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (model.Product, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO product (name, name_ru, name_en, description, description_ru, description_en,
			price, category_id, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+productColumns,
		arg.Name, arg.NameRu, arg.NameEn, arg.Description, arg.DescriptionRu, arg.DescriptionEn,
		arg.Price, arg.CategoryID, arg.ImageURL, arg.CreatedAt)
	return scanProduct(row)
}

// GetProductByID returns a product by primary key.
func (q *Queries) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM product WHERE id = ?`, id)
	return scanProduct(row)
}

// ListProducts returns all products, optionally filtered by a case-insensitive
// substring match over name and description (all language variants).
func (q *Queries) ListProducts(ctx context.Context, search string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM product`
	var args []any
	if search != "" {
		query += ` WHERE name LIKE ? COLLATE NOCASE
			OR name_ru LIKE ? COLLATE NOCASE
			OR name_en LIKE ? COLLATE NOCASE
			OR description LIKE ? COLLATE NOCASE
			OR description_ru LIKE ? COLLATE NOCASE
			OR description_en LIKE ? COLLATE NOCASE`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern, pattern)
	}
	query += ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListProductsByCategory returns the products of one category ordered by id.
func (q *Queries) ListProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM product WHERE category_id = ? ORDER BY id`, categoryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProductParams holds the mutable fields of a product.
type UpdateProductParams struct {
	ID            int64
	Name          string
	NameRu        string
	NameEn        string
	Description   string
	DescriptionRu string
	DescriptionEn string
	Price         float64
	CategoryID    int64
	ImageURL      string
}

// UpdateProduct updates a product and returns the new row.
func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (model.Product, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE product
		SET name = ?, name_ru = ?, name_en = ?, description = ?, description_ru = ?,
			description_en = ?, price = ?, category_id = ?, image_url = ?
		WHERE id = ?
		RETURNING `+productColumns,
		arg.Name, arg.NameRu, arg.NameEn, arg.Description, arg.DescriptionRu,
		arg.DescriptionEn, arg.Price, arg.CategoryID, arg.ImageURL, arg.ID)
	return scanProduct(row)
}

// UpdateProductImageURL sets only the legacy image_url mirror column.
func (q *Queries) UpdateProductImageURL(ctx context.Context, id int64, imageURL string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE product SET image_url = ? WHERE id = ?`, imageURL, id)
	return err
}

// DeleteProduct removes a product by id. Its gallery rows go with it via the
// cascading foreign key.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM product WHERE id = ?`, id)
	return err
}
