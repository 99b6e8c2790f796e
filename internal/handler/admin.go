// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"shop-go/internal/middleware"
	"shop-go/internal/model"
	"shop-go/internal/service"
	"shop-go/internal/store"
)

// maxMultipartMemory bounds in-memory buffering of product upload forms.
const maxMultipartMemory = 32 << 20 // 32 MB

// AdminHandler serves the admin-only management endpoints.
type AdminHandler struct {
	queries    *store.Queries
	categories *service.CategoryService
	products   *service.ProductService
	media      *service.MediaService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, categories *service.CategoryService, products *service.ProductService, media *service.MediaService) *AdminHandler {
	return &AdminHandler{
		queries:    store.New(db),
		categories: categories,
		products:   products,
		media:      media,
	}
}

// ListEvents handles GET /api/admin/events with an optional ?limit= (default
// 100, capped at 1000).
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := int64(100)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			WriteError(w, http.StatusBadRequest, "bad_request", "Invalid limit")
			return
		}
		limit = min(parsed, 1000)
	}

	events, err := h.queries.ListEvents(r.Context(), limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, events)
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, users)
}

// UpdateUserRole handles PATCH /api/admin/users/{id}/role.
// Admins cannot change their own role, so a deployment always keeps at least
// the acting administrator.
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if middleware.GetUserID(r) == id {
		WriteError(w, http.StatusBadRequest, "bad_request", "You cannot change your own role")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleUser {
		WriteError(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("Role must be %q or %q", model.RoleAdmin, model.RoleUser))
		return
	}

	if _, err := h.queries.GetUserByID(r.Context(), id); errors.Is(err, sql.ErrNoRows) {
		WriteError(w, http.StatusNotFound, "not_found", "User not found")
		return
	} else if err != nil {
		WriteServiceError(w, err)
		return
	}

	user, err := h.queries.UpdateUserRole(r.Context(), id, req.Role)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, user)
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if middleware.GetUserID(r) == id {
		WriteError(w, http.StatusBadRequest, "bad_request", "You cannot delete your own account")
		return
	}

	if _, err := h.queries.GetUserByID(r.Context(), id); errors.Is(err, sql.ErrNoRows) {
		WriteError(w, http.StatusNotFound, "not_found", "User not found")
		return
	} else if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/admin/categories.
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, categories)
}

// ListProducts handles GET /api/admin/products with an optional ?q= search
// term.
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, products)
}

// CreateCategory handles POST /api/admin/categories.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name, req.Slug)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, category)
}

// UpdateCategory handles PUT /api/admin/categories/{id}.
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	category, err := h.categories.Update(r.Context(), id, req.Name, req.Slug)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, category)
}

// DeleteCategory handles DELETE /api/admin/categories/{id}.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateProduct handles POST /api/admin/products (multipart form).
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}

	urls, err := h.media.SaveUploads(form.files)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	product, err := h.products.Create(r.Context(), service.CreateProductInput{
		Name:        form.name,
		Description: form.description,
		Price:       form.price,
		CategoryID:  form.categoryID,
		ImageURLs:   urls,
	})
	if err != nil {
		// Roll back files saved for a product that was never created.
		for _, url := range urls {
			_ = h.media.DeleteByURL(url)
		}
		WriteServiceError(w, err)
		return
	}
	WriteCreated(w, product)
}

// UpdateProduct handles PUT /api/admin/products/{id} (multipart form).
// The gallery is replaced only when the caller sends existing_image_urls
// and/or new files; otherwise it is left untouched.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	form, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}

	newURLs, err := h.media.SaveUploads(form.files)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	replace := form.existingSet || len(newURLs) > 0

	product, err := h.products.Update(r.Context(), id, service.UpdateProductInput{
		Name:              form.name,
		Description:       form.description,
		Price:             form.price,
		CategoryID:        form.categoryID,
		ReplaceImages:     replace,
		ExistingImageURLs: form.existing,
		NewImageURLs:      newURLs,
	})
	if err != nil {
		for _, url := range newURLs {
			_ = h.media.DeleteByURL(url)
		}
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, product)
}

// DeleteProduct handles DELETE /api/admin/products/{id}.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// productForm is the parsed multipart payload for product create/update.
type productForm struct {
	name        string
	description string
	price       float64
	categoryID  int64
	existing    []string
	existingSet bool
	files       []*multipart.FileHeader
}

func (h *AdminHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (productForm, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Expected a multipart form")
		return productForm{}, false
	}

	form := productForm{
		name:        r.FormValue("name"),
		description: r.FormValue("description"),
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "Invalid price")
		return productForm{}, false
	}
	form.price = price

	categoryID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("category_id")), 10, 64)
	if err != nil || categoryID <= 0 {
		WriteError(w, http.StatusBadRequest, "bad_request", "Invalid category_id")
		return productForm{}, false
	}
	form.categoryID = categoryID

	if raw, present := r.MultipartForm.Value["existing_image_urls"]; present && len(raw) > 0 {
		form.existingSet = true
		if err := json.Unmarshal([]byte(raw[0]), &form.existing); err != nil {
			WriteError(w, http.StatusBadRequest, "bad_request", "existing_image_urls must be a JSON array of strings")
			return productForm{}, false
		}
	}

	form.files = r.MultipartForm.File["images"]
	return form, true
}
