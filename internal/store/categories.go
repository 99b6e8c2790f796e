// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"shop-go/internal/model"
)

const categoryColumns = `id, name, COALESCE(name_ru, ''), COALESCE(name_en, ''), slug`

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.NameRu, &c.NameEn, &c.Slug)
	return c, err
}

// CreateCategoryParams holds the fields for creating a category.
type CreateCategoryParams struct {
	Name   string
	NameRu string
	NameEn string
	Slug   string
}

// CreateCategory inserts a new category and returns it.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, name_ru, name_en, slug)
		VALUES (?, ?, ?, ?)
		RETURNING `+categoryColumns,
		arg.Name, arg.NameRu, arg.NameEn, arg.Slug)
	return scanCategory(row)
}

// GetCategoryByID returns a category by primary key.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

// GetCategoryBySlug returns a category by its slug.
func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug)
	return scanCategory(row)
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategoryParams holds the mutable fields of a category.
type UpdateCategoryParams struct {
	ID     int64
	Name   string
	NameRu string
	NameEn string
	Slug   string
}

// UpdateCategory updates a category and returns the new row.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE categories SET name = ?, name_ru = ?, name_en = ?, slug = ?
		WHERE id = ?
		RETURNING `+categoryColumns,
		arg.Name, arg.NameRu, arg.NameEn, arg.Slug, arg.ID)
	return scanCategory(row)
}

// DeleteCategory removes a category by id.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

// CountProductsByCategory returns the number of products referencing a category.
func (q *Queries) CountProductsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product WHERE category_id = ?`, categoryID).Scan(&count)
	return count, err
}
