// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

// Package testutil provides shared test helpers for the shop project.
package testutil

import (
	"database/sql"
	"os"
	"testing"

	"shop-go/internal/store"
)

// TestDB creates a temporary test database with migrations applied.
// Cleanup is registered on the test automatically.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "shop-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}
