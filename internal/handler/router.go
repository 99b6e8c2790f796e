// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package handler

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"shop-go/internal/auth"
	"shop-go/internal/config"
	"shop-go/internal/middleware"
	"shop-go/internal/service"
)

// NewRouter wires services, handlers and middleware into the HTTP router.
func NewRouter(db *sql.DB, cfg *config.Config, translator service.Translator, google service.GoogleVerifier, protection *middleware.LoginProtection) http.Handler {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL())

	media := service.NewMediaService(cfg.ImagesDir())
	authSvc := service.NewAuthService(db, cfg, jwtManager, google)
	categories := service.NewCategoryService(db, translator)
	products := service.NewProductService(db, translator, media)

	authHandler := NewAuthHandler(authSvc, protection)
	catalogHandler := NewCatalogHandler(categories, products)
	adminHandler := NewAdminHandler(db, categories, products, media)
	healthHandler := NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))

	r.Get("/", healthHandler.Welcome)
	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtManager, db))

		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints share the per-IP limiter.
			r.Group(func(r chi.Router) {
				r.Use(protection.Middleware())
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/google", authHandler.Google)
			})
			r.With(middleware.RequireAuth()).Get("/me", authHandler.Me)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCategories)
			r.Get("/{id}", catalogHandler.GetCategory)
			r.Get("/{id}/products", catalogHandler.ListCategoryProducts)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{id}", catalogHandler.GetProduct)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Get("/events", adminHandler.ListEvents)

			r.Get("/users", adminHandler.ListUsers)
			r.Patch("/users/{id}/role", adminHandler.UpdateUserRole)
			r.Delete("/users/{id}", adminHandler.DeleteUser)

			r.Get("/categories", adminHandler.ListCategories)
			r.Post("/categories", adminHandler.CreateCategory)
			r.Put("/categories/{id}", adminHandler.UpdateCategory)
			r.Delete("/categories/{id}", adminHandler.DeleteCategory)

			r.Get("/products", adminHandler.ListProducts)
			r.Post("/products", adminHandler.CreateProduct)
			r.Put("/products/{id}", adminHandler.UpdateProduct)
			r.Delete("/products/{id}", adminHandler.DeleteProduct)
		})
	})

	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
