// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/database/schema"
	"github.com/taibuivan/farmreg/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to [apperr.AppError]
// through [dberr.Wrap] so storage details never reach the client.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Ensure PostgresUserRepository implements UserRepository
var _ UserRepository = (*PostgresUserRepository)(nil)

var selectUserColumns = fmt.Sprintf(`
	SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
	FROM %s`,
	schema.UserAccount.ID, schema.UserAccount.UserID, schema.UserAccount.Name, schema.UserAccount.Email,
	schema.UserAccount.PasswordHash, schema.UserAccount.Role, schema.UserAccount.Permissions,
	schema.UserAccount.ForcePasswordChange, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	schema.UserAccount.Table,
)

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Permissions,
		&user.ForcePasswordChange,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if user.Permissions == nil {
		user.Permissions = []string{}
	}
	return user, nil
}

/*
Create persists a new account into the account table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on a duplicate user ID or email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.UserID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.PasswordHash, schema.UserAccount.Role, schema.UserAccount.Permissions,
		schema.UserAccount.ForcePasswordChange, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.UserID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Permissions,
		user.ForcePasswordChange,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("User ID or email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := selectUserColumns + fmt.Sprintf(`
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
FindByLogin retrieves an account by user ID or email.

Description: User IDs are matched exactly; emails case-insensitively.

Parameters:
  - context: context.Context
  - login: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	query := selectUserColumns + fmt.Sprintf(`
		WHERE (%s = $1 OR lower(%s) = lower($1)) AND %s IS NULL
		LIMIT 1`,
		schema.UserAccount.UserID, schema.UserAccount.Email, schema.UserAccount.DeletedAt,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, login))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
UpdatePassword replaces the password hash and clears the forced change flag.

Parameters:
  - context: context.Context
  - id: string
  - newHash: string

Returns:
  - error: apperr.NotFound when no live row matched, or execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id, newHash string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = FALSE, %s = $3
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.PasswordHash, schema.UserAccount.ForcePasswordChange, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, id, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdateUserID replaces the login handle of an account.

Parameters:
  - context: context.Context
  - id: string
  - newUserID: string

Returns:
  - error: apperr.Conflict when the handle is taken, apperr.NotFound, or execution errors
*/
func (repository *PostgresUserRepository) UpdateUserID(context context.Context, id, newUserID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.UserID, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, id, newUserID, time.Now())
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("User ID is already taken")
		}
		return fmt.Errorf("postgres_user_repo_update_user_id_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
