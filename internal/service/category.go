// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shop-go/internal/model"
	"shop-go/internal/store"
	"shop-go/internal/util"
)

// Translator resolves a source string into its (ru, en) pair.
// Implemented by translate.Service; stubbed in tests.
type Translator interface {
	BuildRuEn(ctx context.Context, text string) (ru, en string)
}

// CategoryService manages the category catalog.
type CategoryService struct {
	queries    *store.Queries
	translator Translator
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *sql.DB, translator Translator) *CategoryService {
	return &CategoryService{
		queries:    store.New(db),
		translator: translator,
	}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.queries.ListCategories(ctx)
}

// Get returns a category by id.
func (s *CategoryService) Get(ctx context.Context, id int64) (model.Category, error) {
	cat, err := s.queries.GetCategoryByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrNotFound
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("loading category: %w", err)
	}
	return cat, nil
}

// Create adds a category, resolving its bilingual names and slug.
// An empty slug is derived from the name.
func (s *CategoryService) Create(ctx context.Context, name, slug string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	slug, err := s.resolveSlug(ctx, name, slug, 0)
	if err != nil {
		return model.Category{}, err
	}

	ru, en := s.translator.BuildRuEn(ctx, name)

	cat, err := s.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name:   name,
		NameRu: ru,
		NameEn: en,
		Slug:   slug,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.Category{}, fmt.Errorf("%w: category name or slug already exists", ErrConflict)
		}
		return model.Category{}, fmt.Errorf("creating category: %w", err)
	}
	return cat, nil
}

// Update renames a category and recomputes its translations and slug.
func (s *CategoryService) Update(ctx context.Context, id int64, name, slug string) (model.Category, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return model.Category{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	slug, err := s.resolveSlug(ctx, name, slug, id)
	if err != nil {
		return model.Category{}, err
	}

	ru, en := s.translator.BuildRuEn(ctx, name)

	cat, err := s.queries.UpdateCategory(ctx, store.UpdateCategoryParams{
		ID:     id,
		Name:   name,
		NameRu: ru,
		NameEn: en,
		Slug:   slug,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.Category{}, fmt.Errorf("%w: category name or slug already exists", ErrConflict)
		}
		return model.Category{}, fmt.Errorf("updating category: %w", err)
	}
	return cat, nil
}

// Delete removes an empty category. Categories still referenced by products
// are refused.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.queries.CountProductsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category has %d products", ErrConflict, count)
	}

	if err := s.queries.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// resolveSlug derives and validates the slug for a category. selfID is the
// category being updated (0 on create) so it can keep its own slug.
func (s *CategoryService) resolveSlug(ctx context.Context, name, slug string, selfID int64) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = util.Slugify(name)
	}
	if slug == "" {
		return "", fmt.Errorf("%w: cannot derive a slug from the name, provide one explicitly", ErrValidation)
	}
	if !util.IsValidSlug(slug) {
		return "", fmt.Errorf("%w: slug may only contain lowercase letters, digits and hyphens", ErrValidation)
	}

	existing, err := s.queries.GetCategoryBySlug(ctx, slug)
	if err == nil && existing.ID != selfID {
		return "", fmt.Errorf("%w: slug %q is taken", ErrConflict, slug)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking slug: %w", err)
	}

	return slug, nil
}

// isUniqueViolation detects SQLite unique constraint failures.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
