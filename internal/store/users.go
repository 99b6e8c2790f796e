// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"time"

	"shop-go/internal/model"
)

const userColumns = `id, email, full_name, hashed_password, provider, google_sub, role, created_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash,
		&u.Provider, &u.GoogleSub, &u.Role, &u.CreatedAt)
	return u, err
}

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Email        string
	FullName     string
	PasswordHash sql.NullString
	Provider     string
	GoogleSub    sql.NullString
	Role         string
	CreatedAt    time.Time
}

// CreateUser inserts a new user and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (email, full_name, hashed_password, provider, google_sub, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		arg.Email, arg.FullName, arg.PasswordHash, arg.Provider, arg.GoogleSub, arg.Role, arg.CreatedAt)
	return scanUser(row)
}

// GetUserByID returns a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns a user by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetUserByGoogleSub returns a user by its Google subject identifier.
func (q *Queries) GetUserByGoogleSub(ctx context.Context, sub string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE google_sub = ?`, sub)
	return scanUser(row)
}

// ListUsers returns all users ordered by id.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of registered users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// CountUsersByRole returns how many users have the given role.
func (q *Queries) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&count)
	return count, err
}

// UpdateUserRole changes a user's role and returns the updated user.
func (q *Queries) UpdateUserRole(ctx context.Context, id int64, role string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE users SET role = ? WHERE id = ?
		RETURNING `+userColumns, role, id)
	return scanUser(row)
}

// LinkUserGoogleParams holds the fields updated when a Google sign-in is
// attached to an existing account.
type LinkUserGoogleParams struct {
	ID        int64
	GoogleSub sql.NullString
	Provider  string
	Role      string
}

// LinkUserGoogle attaches Google identity details to an existing user.
func (q *Queries) LinkUserGoogle(ctx context.Context, arg LinkUserGoogleParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE users SET google_sub = ?, provider = ?, role = ? WHERE id = ?
		RETURNING `+userColumns,
		arg.GoogleSub, arg.Provider, arg.Role, arg.ID)
	return scanUser(row)
}

// DeleteUser removes a user by id.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}
