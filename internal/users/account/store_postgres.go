// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account (Postgres) implements the storage layer for the credential audit trail.

# Schema Table Mapping
  - users.credentialchange: One row per password or user ID change.
*/
package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/farmreg/internal/platform/database/schema"
	"github.com/taibuivan/farmreg/internal/platform/dberr"
)

// # Repository Implementations

// PostgresAuditRepository implements [AuditRepository] using pgx.
type PostgresAuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new Postgres implementation for the audit trail.
func NewAuditRepository(pool *pgxpool.Pool) *PostgresAuditRepository {
	return &PostgresAuditRepository{pool: pool}
}

// Ensure PostgresAuditRepository implements AuditRepository
var _ AuditRepository = (*PostgresAuditRepository)(nil)

/*
Record inserts an audit entry.

Parameters:
  - context: context.Context
  - record: *ChangeRecord

Returns:
  - error: apperr.NotFound when the account is gone, or execution failures
*/
func (repository *PostgresAuditRepository) Record(context context.Context, record *ChangeRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)`,
		schema.UserCredentialChange.Table,
		schema.UserCredentialChange.ID, schema.UserCredentialChange.AccountID,
		schema.UserCredentialChange.Kind, schema.UserCredentialChange.ChangedAt,
	)

	_, err := repository.pool.Exec(context, query, record.ID, record.AccountID, string(record.Kind), record.ChangedAt)
	if err != nil {
		return fmt.Errorf("postgres_audit_repo_record_failed: %w", dberr.Wrap(err, "Account"))
	}
	return nil
}

/*
ListRecent returns the newest audit entries of an account.

Parameters:
  - context: context.Context
  - accountID: string
  - limit: int

Returns:
  - []ChangeRecord: Newest first
  - error: Database retrieval failures
*/
func (repository *PostgresAuditRepository) ListRecent(context context.Context, accountID string, limit int) ([]ChangeRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2`,
		schema.UserCredentialChange.ID, schema.UserCredentialChange.AccountID,
		schema.UserCredentialChange.Kind, schema.UserCredentialChange.ChangedAt,
		schema.UserCredentialChange.Table,
		schema.UserCredentialChange.AccountID,
		schema.UserCredentialChange.ChangedAt,
	)

	rows, err := repository.pool.Query(context, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_audit_repo_list_failed: %w", err)
	}
	defer rows.Close()

	records := []ChangeRecord{}
	for rows.Next() {
		var record ChangeRecord
		if err := rows.Scan(&record.ID, &record.AccountID, &record.Kind, &record.ChangedAt); err != nil {
			return nil, fmt.Errorf("postgres_audit_repo_scan_failed: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
