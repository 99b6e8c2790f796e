// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shop-go/internal/service"
)

// CatalogHandler serves the public, read-only catalog endpoints.
type CatalogHandler struct {
	categories *service.CategoryService
	products   *service.ProductService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(categories *service.CategoryService, products *service.ProductService) *CatalogHandler {
	return &CatalogHandler{categories: categories, products: products}
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, categories)
}

// GetCategory handles GET /api/categories/{id}.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, category)
}

// ListCategoryProducts handles GET /api/categories/{id}/products.
func (h *CatalogHandler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if _, err := h.categories.Get(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}

	products, err := h.products.ListByCategory(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, products)
}

// ListProducts handles GET /api/products with an optional ?q= search term.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, products)
}

// GetProduct handles GET /api/products/{id}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, product)
}

// idParam parses the {id} URL parameter, writing a 400 on failure.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "bad_request", "Invalid id")
		return 0, false
	}
	return id, true
}
