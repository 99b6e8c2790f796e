// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shop-go/internal/model"
	"shop-go/internal/store"
)

// ImageRemover deletes a stored image given its public URL. External URLs are
// ignored. Implemented by MediaService.
type ImageRemover interface {
	DeleteByURL(url string) error
}

// ProductDetail is a product together with its ordered image gallery.
type ProductDetail struct {
	model.Product
	Images []model.ProductImage `json:"images"`
}

// ProductService manages the product catalog and its image galleries.
type ProductService struct {
	db         *sql.DB
	queries    *store.Queries
	translator Translator
	remover    ImageRemover
}

// NewProductService creates a new ProductService.
func NewProductService(db *sql.DB, translator Translator, remover ImageRemover) *ProductService {
	return &ProductService{
		db:         db,
		queries:    store.New(db),
		translator: translator,
		remover:    remover,
	}
}

// CreateProductInput holds the fields for creating a product. ImageURLs is
// the initial gallery in display order.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	CategoryID  int64
	ImageURLs   []string
}

// UpdateProductInput holds the fields for updating a product. The image
// gallery is replaced only when ReplaceImages is set: the new gallery is
// ExistingImageURLs (a subset of the current one, validated) followed by
// NewImageURLs.
type UpdateProductInput struct {
	Name              string
	Description       string
	Price             float64
	CategoryID        int64
	ReplaceImages     bool
	ExistingImageURLs []string
	NewImageURLs      []string
}

// List returns products, optionally filtered by a search term.
func (s *ProductService) List(ctx context.Context, search string) ([]ProductDetail, error) {
	products, err := s.queries.ListProducts(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return s.attachImages(ctx, products)
}

// ListByCategory returns the products of one category.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64) ([]ProductDetail, error) {
	products, err := s.queries.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return s.attachImages(ctx, products)
}

// Get returns one product with its gallery.
func (s *ProductService) Get(ctx context.Context, id int64) (ProductDetail, error) {
	product, err := s.queries.GetProductByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ProductDetail{}, ErrNotFound
	}
	if err != nil {
		return ProductDetail{}, fmt.Errorf("loading product: %w", err)
	}

	images, err := s.queries.ListProductImages(ctx, id)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("loading images: %w", err)
	}
	return ProductDetail{Product: product, Images: images}, nil
}

// Create adds a product with resolved translations and an initial gallery.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (ProductDetail, error) {
	if err := s.validate(ctx, input.Name, input.Price, input.CategoryID); err != nil {
		return ProductDetail{}, err
	}

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)

	nameRu, nameEn := s.translator.BuildRuEn(ctx, name)
	descRu, descEn := s.translator.BuildRuEn(ctx, description)

	// One transaction covers the row and its gallery.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	product, err := q.CreateProduct(ctx, store.CreateProductParams{
		Name:          name,
		NameRu:        nameRu,
		NameEn:        nameEn,
		Description:   description,
		DescriptionRu: descRu,
		DescriptionEn: descEn,
		Price:         input.Price,
		CategoryID:    input.CategoryID,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		return ProductDetail{}, fmt.Errorf("creating product: %w", err)
	}

	if err := replaceGallery(ctx, q, product.ID, input.ImageURLs); err != nil {
		return ProductDetail{}, err
	}

	if err := tx.Commit(); err != nil {
		return ProductDetail{}, fmt.Errorf("committing product: %w", err)
	}

	return s.Get(ctx, product.ID)
}

// Update modifies a product. Translations are recomputed only for fields
// whose source text changed.
func (s *ProductService) Update(ctx context.Context, id int64, input UpdateProductInput) (ProductDetail, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return ProductDetail{}, err
	}

	if err := s.validate(ctx, input.Name, input.Price, input.CategoryID); err != nil {
		return ProductDetail{}, err
	}

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)

	nameRu, nameEn := current.NameRu, current.NameEn
	if name != current.Name {
		nameRu, nameEn = s.translator.BuildRuEn(ctx, name)
	}
	descRu, descEn := current.DescriptionRu, current.DescriptionEn
	if description != current.Description {
		descRu, descEn = s.translator.BuildRuEn(ctx, description)
	}

	// Validate the kept-image list before touching anything.
	var dropped []string
	if input.ReplaceImages {
		keep := make(map[string]bool, len(input.ExistingImageURLs))
		currentURLs := make(map[string]bool, len(current.Images))
		for _, img := range current.Images {
			currentURLs[img.ImageURL] = true
		}
		for _, url := range input.ExistingImageURLs {
			if !currentURLs[url] {
				return ProductDetail{}, fmt.Errorf("%w: image %q does not belong to this product", ErrValidation, url)
			}
			keep[url] = true
		}
		for _, img := range current.Images {
			if !keep[img.ImageURL] {
				dropped = append(dropped, img.ImageURL)
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	if _, err := q.UpdateProduct(ctx, store.UpdateProductParams{
		ID:            id,
		Name:          name,
		NameRu:        nameRu,
		NameEn:        nameEn,
		Description:   description,
		DescriptionRu: descRu,
		DescriptionEn: descEn,
		Price:         input.Price,
		CategoryID:    input.CategoryID,
		// Carry the mirror through; replaceGallery rewrites it below when the
		// gallery changes.
		ImageURL: current.ImageURL,
	}); err != nil {
		return ProductDetail{}, fmt.Errorf("updating product: %w", err)
	}

	if input.ReplaceImages {
		gallery := append(append([]string{}, input.ExistingImageURLs...), input.NewImageURLs...)
		if err := replaceGallery(ctx, q, id, gallery); err != nil {
			return ProductDetail{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ProductDetail{}, fmt.Errorf("committing product: %w", err)
	}

	// Files dropped from the gallery are removed only after the commit, so a
	// failed update never loses images.
	for _, url := range dropped {
		if err := s.remover.DeleteByURL(url); err != nil {
			slog.Warn("failed to delete image file", "url", url, "error", err)
		}
	}

	return s.Get(ctx, id)
}

// Delete removes a product, its gallery rows and stored image files.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	for _, img := range detail.Images {
		if err := s.remover.DeleteByURL(img.ImageURL); err != nil {
			slog.Warn("failed to delete image file", "url", img.ImageURL, "error", err)
		}
	}

	if err := s.queries.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

func (s *ProductService) validate(ctx context.Context, name string, price float64, categoryID int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	if _, err := s.queries.GetCategoryByID(ctx, categoryID); errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: category %d does not exist", ErrValidation, categoryID)
	} else if err != nil {
		return fmt.Errorf("loading category: %w", err)
	}
	return nil
}

// replaceGallery rewrites the gallery rows in the given order and keeps the
// legacy image_url column mirroring the first image. Runs on the caller's
// transaction.
func replaceGallery(ctx context.Context, q *store.Queries, productID int64, urls []string) error {
	if err := q.DeleteProductImages(ctx, productID); err != nil {
		return fmt.Errorf("clearing gallery: %w", err)
	}

	for i, url := range urls {
		if _, err := q.CreateProductImage(ctx, store.CreateProductImageParams{
			ProductID: productID,
			ImageURL:  url,
			SortOrder: int64(i),
			CreatedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("adding image: %w", err)
		}
	}

	primary := ""
	if len(urls) > 0 {
		primary = urls[0]
	}
	if err := q.UpdateProductImageURL(ctx, productID, primary); err != nil {
		return fmt.Errorf("updating primary image: %w", err)
	}
	return nil
}

func (s *ProductService) attachImages(ctx context.Context, products []model.Product) ([]ProductDetail, error) {
	details := make([]ProductDetail, 0, len(products))
	for _, p := range products {
		images, err := s.queries.ListProductImages(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("loading images: %w", err)
		}
		details = append(details, ProductDetail{Product: p, Images: images})
	}
	return details, nil
}
