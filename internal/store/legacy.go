// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Translator resolves a free-text value into its (ru, en) pair. Satisfied by
// translate.Service; the indirection keeps the backfill testable with a stub.
type Translator interface {
	BuildRuEn(ctx context.Context, text string) (ru, en string)
}

// MigrateLegacy upgrades a database created before the gallery and bilingual
// features in place, then backfills missing translations. Every step checks
// the live schema or row state before acting, so the whole sequence is safe
// to run on every startup against a database at any stage of migration.
//
// All steps run inside a single transaction: a failure anywhere rolls back
// everything and the next startup retries from scratch.
func MigrateLegacy(ctx context.Context, db *sql.DB, tr Translator, logger *slog.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning legacy migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := migrateUsersRole(ctx, tx); err != nil {
		return fmt.Errorf("migrating users role: %w", err)
	}
	if err := migrateProductImagesTable(ctx, tx); err != nil {
		return fmt.Errorf("migrating product images table: %w", err)
	}
	if err := seedProductImages(ctx, tx); err != nil {
		return fmt.Errorf("seeding product images: %w", err)
	}
	if err := syncLegacyImageURL(ctx, tx); err != nil {
		return fmt.Errorf("syncing legacy image urls: %w", err)
	}
	if err := migrateBilingualColumns(ctx, tx); err != nil {
		return fmt.Errorf("migrating bilingual columns: %w", err)
	}
	if err := seedBilingualColumns(ctx, tx); err != nil {
		return fmt.Errorf("seeding bilingual columns: %w", err)
	}
	if err := backfillTranslations(ctx, tx, tr, logger); err != nil {
		return fmt.Errorf("backfilling translations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing legacy migration: %w", err)
	}
	return nil
}

// tableExists checks the live schema for a table.
func tableExists(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	var count int64
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	return count > 0, err
}

// columnExists checks the live schema for a column.
func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	var count int64
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&count)
	return count > 0, err
}

// addColumnIfMissing issues ALTER TABLE ADD COLUMN only when needed.
func addColumnIfMissing(ctx context.Context, tx *sql.Tx, table, column, sqlType string) error {
	exists, err := columnExists(ctx, tx, table, column)
	if err != nil || exists {
		return err
	}
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, sqlType))
	return err
}

// migrateUsersRole adds the role column to databases created before roles.
func migrateUsersRole(ctx context.Context, tx *sql.Tx) error {
	exists, err := tableExists(ctx, tx, "users")
	if err != nil || !exists {
		return err
	}
	return addColumnIfMissing(ctx, tx, "users", "role", "TEXT NOT NULL DEFAULT 'user'")
}

// migrateProductImagesTable creates the gallery table for databases created
// before multi-image support.
func migrateProductImagesTable(ctx context.Context, tx *sql.Tx) error {
	productExists, err := tableExists(ctx, tx, "product")
	if err != nil || !productExists {
		return err
	}

	imagesExist, err := tableExists(ctx, tx, "product_images")
	if err != nil || imagesExist {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE product_images (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id INTEGER NOT NULL,
			image_url TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (product_id) REFERENCES product (id) ON DELETE CASCADE
		)`); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS ix_product_images_product_id ON product_images (product_id)`)
	return err
}

// seedProductImages copies legacy single image_url values into the gallery,
// one sort_order-0 row per product that has none yet.
func seedProductImages(ctx context.Context, tx *sql.Tx) error {
	exists, err := tableExists(ctx, tx, "product")
	if err != nil || !exists {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO product_images (product_id, image_url, sort_order, created_at)
		SELECT p.id, p.image_url, 0, CURRENT_TIMESTAMP
		FROM product p
		LEFT JOIN product_images pi ON pi.product_id = p.id AND pi.sort_order = 0
		WHERE p.image_url IS NOT NULL AND TRIM(p.image_url) != '' AND pi.id IS NULL`)
	return err
}

// syncLegacyImageURL fills empty legacy image_url values from the first
// gallery row, keeping the denormalized column read-compatible.
func syncLegacyImageURL(ctx context.Context, tx *sql.Tx) error {
	exists, err := tableExists(ctx, tx, "product")
	if err != nil || !exists {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE product
		SET image_url = (
			SELECT pi.image_url
			FROM product_images pi
			WHERE pi.product_id = product.id
			ORDER BY pi.sort_order ASC, pi.id ASC
			LIMIT 1
		)
		WHERE image_url IS NULL OR TRIM(image_url) = ''`)
	return err
}

// migrateBilingualColumns adds the ru/en column pairs where missing.
func migrateBilingualColumns(ctx context.Context, tx *sql.Tx) error {
	categoriesExist, err := tableExists(ctx, tx, "categories")
	if err != nil {
		return err
	}
	if categoriesExist {
		if err := addColumnIfMissing(ctx, tx, "categories", "name_ru", "TEXT"); err != nil {
			return err
		}
		if err := addColumnIfMissing(ctx, tx, "categories", "name_en", "TEXT"); err != nil {
			return err
		}
	}

	productExists, err := tableExists(ctx, tx, "product")
	if err != nil {
		return err
	}
	if productExists {
		for _, col := range []struct{ name, sqlType string }{
			{"name_ru", "TEXT"},
			{"name_en", "TEXT"},
			{"description_ru", "TEXT"},
			{"description_en", "TEXT"},
		} {
			if err := addColumnIfMissing(ctx, tx, "product", col.name, col.sqlType); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedBilingualColumns copies the legacy value verbatim into empty ru/en
// columns. The copies are placeholders: the backfill recognizes the
// ru == en == source state as the stale marker and recomputes real
// translations for it.
func seedBilingualColumns(ctx context.Context, tx *sql.Tx) error {
	categoriesExist, err := tableExists(ctx, tx, "categories")
	if err != nil {
		return err
	}
	if categoriesExist {
		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET name_ru = name WHERE name_ru IS NULL OR TRIM(name_ru) = ''`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET name_en = name WHERE name_en IS NULL OR TRIM(name_en) = ''`); err != nil {
			return err
		}
	}

	productExists, err := tableExists(ctx, tx, "product")
	if err != nil {
		return err
	}
	if productExists {
		for _, stmt := range []string{
			`UPDATE product SET name_ru = name WHERE name_ru IS NULL OR TRIM(name_ru) = ''`,
			`UPDATE product SET name_en = name WHERE name_en IS NULL OR TRIM(name_en) = ''`,
			`UPDATE product SET description_ru = description WHERE description_ru IS NULL`,
			`UPDATE product SET description_en = description WHERE description_en IS NULL`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}
