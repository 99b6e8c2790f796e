// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shop-go/internal/model"
	"shop-go/internal/service"
	"shop-go/internal/store"
)

func TestListEvents(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")

	queries := store.New(env.db)
	for i := 0; i < 3; i++ {
		_, err := queries.CreateEvent(context.Background(), store.CreateEventParams{
			Level:     model.EventLevelWarning,
			Category:  model.EventCategoryAuth,
			Message:   fmt.Sprintf("login failed %d", i),
			Metadata:  "{}",
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	rec := env.do(t, http.MethodGet, "/api/admin/events?limit=2", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeData[[]model.Event](t, rec)
	require.Len(t, events, 2)
	require.Equal(t, "login failed 2", events[0].Message, "newest first")

	rec = env.do(t, http.MethodGet, "/api/admin/events?limit=zero", admin.AccessToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminAccessControl(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "admin@example.com", "password123")
	user := env.register(t, "user@example.com", "password123")

	rec := env.do(t, http.MethodGet, "/api/admin/users", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/users", user.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	env.register(t, "user@example.com", "password123")

	rec := env.do(t, http.MethodGet, "/api/admin/users", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeData[[]model.User](t, rec)
	require.Len(t, users, 2)
}

func TestUpdateUserRole(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	user := env.register(t, "user@example.com", "password123")

	rec := env.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", user.User.ID),
		admin.AccessToken, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, model.RoleAdmin, decodeData[model.User](t, rec).Role)

	// Admins cannot demote themselves.
	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", admin.User.ID),
		admin.AccessToken, map[string]string{"role": "user"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", user.User.ID),
		admin.AccessToken, map[string]string{"role": "superuser"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/admin/users/9999/role",
		admin.AccessToken, map[string]string{"role": "user"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	user := env.register(t, "user@example.com", "password123")

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", admin.User.ID),
		admin.AccessToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, "self-delete must be refused")

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", user.User.ID),
		admin.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", user.User.ID),
		admin.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")

	cat := env.createCategory(t, admin.AccessToken, "Shoes", "")
	require.Equal(t, "shoes", cat.Slug)

	rec := env.do(t, http.MethodPost, "/api/admin/categories", admin.AccessToken,
		map[string]string{"name": "Other Shoes", "slug": "shoes"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/categories/%d", cat.ID),
		admin.AccessToken, map[string]string{"name": "Footwear", "slug": "footwear"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "footwear", decodeData[model.Category](t, rec).Slug)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", cat.ID),
		admin.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%d", cat.ID), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCatalogLists(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	user := env.register(t, "user@example.com", "password123")

	cat := env.createCategory(t, admin.AccessToken, "Shoes", "")
	env.createProduct(t, admin.AccessToken, cat.ID, "Leather Boots", nil)
	env.createProduct(t, admin.AccessToken, cat.ID, "Sneakers", nil)

	rec := env.do(t, http.MethodGet, "/api/admin/categories", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[[]model.Category](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/api/admin/products", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[[]service.ProductDetail](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/api/admin/products?q=leather", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decodeData[[]service.ProductDetail](t, rec)
	require.Len(t, products, 1)
	require.Equal(t, "Leather Boots", products[0].Name)

	// The admin lists stay behind the role check.
	rec = env.do(t, http.MethodGet, "/api/admin/products", user.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteCategoryWithProductsRefused(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	cat := env.createCategory(t, admin.AccessToken, "Shoes", "")
	env.createProduct(t, admin.AccessToken, cat.ID, "Leather Boots", nil)

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", cat.ID),
		admin.AccessToken, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateProductWithImages(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	cat := env.createCategory(t, admin.AccessToken, "Shoes", "")

	product := env.createProduct(t, admin.AccessToken, cat.ID, "Leather Boots", map[string][]byte{
		"boots.png": pngBytes(t, 400, 300),
	})

	require.Len(t, product.Images, 1)
	url := product.Images[0].ImageURL
	require.True(t, len(url) > len("/static/images/"), "url: %s", url)
	require.Equal(t, url, product.ImageURL, "legacy image_url mirrors the first gallery entry")

	name := path.Base(url)
	original := filepath.Join(env.cfg.ImagesDir(), name)
	thumb := filepath.Join(env.cfg.ImagesDir(), "thumbs", name)
	require.FileExists(t, original)
	require.FileExists(t, thumb)
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	cat := env.createCategory(t, admin.AccessToken, "Shoes", "")

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing name", map[string]string{
			"price": "10", "category_id": strconv.FormatInt(cat.ID, 10),
		}},
		{"bad price", map[string]string{
			"name": "Boots", "price": "free", "category_id": strconv.FormatInt(cat.ID, 10),
		}},
		{"bad category", map[string]string{
			"name": "Boots", "price": "10", "category_id": "0",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := productFormBody(t, tt.fields, nil)
			rec := env.doMultipart(t, http.MethodPost, "/api/admin/products", admin.AccessToken, body, contentType)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	body, contentType := productFormBody(t, map[string]string{
		"name": "Boots", "price": "10", "category_id": "9999",
	}, nil)
	rec := env.doMultipart(t, http.MethodPost, "/api/admin/products", admin.AccessToken, body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code, "unknown category is a validation error")
}

func TestUpdateProductReplacesImages(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	cat := env.createCategory(t, admin.AccessToken, "Shoes", "")

	product := env.createProduct(t, admin.AccessToken, cat.ID, "Leather Boots", map[string][]byte{
		"a.png": pngBytes(t, 400, 300),
		"b.png": pngBytes(t, 400, 300),
	})
	require.Len(t, product.Images, 2)

	keep := product.Images[0].ImageURL
	dropped := product.Images[1].ImageURL
	droppedFile := filepath.Join(env.cfg.ImagesDir(), path.Base(dropped))
	require.FileExists(t, droppedFile)

	body, contentType := productFormBody(t, map[string]string{
		"name":                "Leather Boots",
		"description":         "Leather Boots description",
		"price":               "49.90",
		"category_id":         strconv.FormatInt(cat.ID, 10),
		"existing_image_urls": fmt.Sprintf(`[%q]`, keep),
	}, map[string][]byte{
		"c.png": pngBytes(t, 400, 300),
	})
	rec := env.doMultipart(t, http.MethodPut, fmt.Sprintf("/api/admin/products/%d", product.ID),
		admin.AccessToken, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	updated := decodeData[service.ProductDetail](t, rec)
	require.Len(t, updated.Images, 2)
	require.Equal(t, keep, updated.Images[0].ImageURL)
	require.Equal(t, keep, updated.ImageURL)

	_, err := os.Stat(droppedFile)
	require.True(t, os.IsNotExist(err), "dropped image file must be removed")
}

func TestUpdateProductWithoutImageFieldsKeepsGallery(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	cat := env.createCategory(t, admin.AccessToken, "Shoes", "")

	product := env.createProduct(t, admin.AccessToken, cat.ID, "Leather Boots", map[string][]byte{
		"a.png": pngBytes(t, 400, 300),
	})

	body, contentType := productFormBody(t, map[string]string{
		"name":        "Leather Boots v2",
		"description": "Updated description",
		"price":       "59.90",
		"category_id": strconv.FormatInt(cat.ID, 10),
	}, nil)
	rec := env.doMultipart(t, http.MethodPut, fmt.Sprintf("/api/admin/products/%d", product.ID),
		admin.AccessToken, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	updated := decodeData[service.ProductDetail](t, rec)
	require.Equal(t, "Leather Boots v2", updated.Name)
	require.Len(t, updated.Images, 1)
	require.Equal(t, product.Images[0].ImageURL, updated.Images[0].ImageURL)
	require.Equal(t, product.ImageURL, updated.ImageURL, "legacy mirror survives a gallery-less update")
}

func TestUpdateProductRejectsForeignImageURL(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	cat := env.createCategory(t, admin.AccessToken, "Shoes", "")
	product := env.createProduct(t, admin.AccessToken, cat.ID, "Leather Boots", nil)

	body, contentType := productFormBody(t, map[string]string{
		"name":                "Leather Boots",
		"description":         "Leather Boots description",
		"price":               "49.90",
		"category_id":         strconv.FormatInt(cat.ID, 10),
		"existing_image_urls": `["/static/images/not-yours.png"]`,
	}, nil)
	rec := env.doMultipart(t, http.MethodPut, fmt.Sprintf("/api/admin/products/%d", product.ID),
		admin.AccessToken, body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProductRemovesFiles(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123")
	cat := env.createCategory(t, admin.AccessToken, "Shoes", "")
	product := env.createProduct(t, admin.AccessToken, cat.ID, "Leather Boots", map[string][]byte{
		"a.png": pngBytes(t, 400, 300),
	})

	file := filepath.Join(env.cfg.ImagesDir(), path.Base(product.Images[0].ImageURL))
	require.FileExists(t, file)

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", product.ID),
		admin.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err := os.Stat(file)
	require.True(t, os.IsNotExist(err))

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
