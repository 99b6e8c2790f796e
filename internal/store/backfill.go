// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"log/slog"

	"shop-go/internal/translate"
)

// backfillTranslations walks every category and product on the open
// transaction and recomputes ru/en variants for fields that need it. Name and
// description families are evaluated independently, and the product update
// only touches the columns that were recomputed. Fields already resolved are
// never rewritten, which makes repeated runs converge to a fixed point.
func backfillTranslations(ctx context.Context, tx *sql.Tx, tr Translator, logger *slog.Logger) error {
	if err := backfillCategories(ctx, tx, tr, logger); err != nil {
		return err
	}
	return backfillProducts(ctx, tx, tr, logger)
}

type categoryRow struct {
	id           int64
	name, ru, en string
}

func backfillCategories(ctx context.Context, tx *sql.Tx, tr Translator, logger *slog.Logger) error {
	exists, err := tableExists(ctx, tx, "categories")
	if err != nil || !exists {
		return err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, COALESCE(name_ru, ''), COALESCE(name_en, '') FROM categories`)
	if err != nil {
		return err
	}

	var pending []categoryRow
	for rows.Next() {
		var row categoryRow
		if err := rows.Scan(&row.id, &row.name, &row.ru, &row.en); err != nil {
			_ = rows.Close()
			return err
		}
		if translate.NeedsTranslation(row.name, row.ru, row.en) {
			pending = append(pending, row)
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, row := range pending {
		ru, en := tr.BuildRuEn(ctx, row.name)
		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET name_ru = ?, name_en = ? WHERE id = ?`, ru, en, row.id); err != nil {
			return err
		}
		logger.Debug("backfilled category translation", "id", row.id, "name", row.name)
	}

	if len(pending) > 0 {
		logger.Info("category translations backfilled", "count", len(pending))
	}
	return nil
}

type productRow struct {
	id                   int64
	name, nameRu, nameEn string
	desc, descRu, descEn string
}

func backfillProducts(ctx context.Context, tx *sql.Tx, tr Translator, logger *slog.Logger) error {
	exists, err := tableExists(ctx, tx, "product")
	if err != nil || !exists {
		return err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, COALESCE(name_ru, ''), COALESCE(name_en, ''),
			COALESCE(description, ''), COALESCE(description_ru, ''), COALESCE(description_en, '')
		FROM product`)
	if err != nil {
		return err
	}

	var pending []productRow
	for rows.Next() {
		var row productRow
		if err := rows.Scan(&row.id, &row.name, &row.nameRu, &row.nameEn,
			&row.desc, &row.descRu, &row.descEn); err != nil {
			_ = rows.Close()
			return err
		}
		if translate.NeedsTranslation(row.name, row.nameRu, row.nameEn) ||
			translate.NeedsTranslation(row.desc, row.descRu, row.descEn) {
			pending = append(pending, row)
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}

	updated := 0
	for _, row := range pending {
		// nil means "keep the current column value" via COALESCE below.
		var nameRu, nameEn, descRu, descEn *string

		if translate.NeedsTranslation(row.name, row.nameRu, row.nameEn) {
			ru, en := tr.BuildRuEn(ctx, row.name)
			nameRu, nameEn = &ru, &en
		}
		if translate.NeedsTranslation(row.desc, row.descRu, row.descEn) {
			ru, en := tr.BuildRuEn(ctx, row.desc)
			descRu, descEn = &ru, &en
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE product
			SET name_ru = COALESCE(?, name_ru),
				name_en = COALESCE(?, name_en),
				description_ru = COALESCE(?, description_ru),
				description_en = COALESCE(?, description_en)
			WHERE id = ?`,
			nameRu, nameEn, descRu, descEn, row.id); err != nil {
			return err
		}
		updated++
	}

	if updated > 0 {
		logger.Info("product translations backfilled", "count", updated)
	}
	return nil
}
