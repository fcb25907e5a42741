// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package farmer (Postgres) implements the registry storage layer.

# Schema Table Mapping
  - registry.farmer: Registered farmers.
  - registry.kycassignment: KYC tasks handed to staff.
  - registry.activity: Per-account activity trail.
*/
package farmer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/farmreg/internal/platform/database/schema"
	"github.com/taibuivan/farmreg/internal/platform/dberr"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed registry store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Ensure PostgresRepository implements Repository
var _ Repository = (*PostgresRepository)(nil)

var farmerColumns = fmt.Sprintf(`f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s`,
	schema.RegistryFarmer.ID, schema.RegistryFarmer.AccountID, schema.RegistryFarmer.Name,
	schema.RegistryFarmer.Phone, schema.RegistryFarmer.Village, schema.RegistryFarmer.District,
	schema.RegistryFarmer.State, schema.RegistryFarmer.LandAcres, schema.RegistryFarmer.KYCStatus,
	schema.RegistryFarmer.CreatedAt, schema.RegistryFarmer.UpdatedAt,
)

func scanFarmer(row pgx.Row, extra ...any) (*Farmer, error) {
	farmer := &Farmer{}
	destinations := []any{
		&farmer.ID,
		&farmer.AccountID,
		&farmer.Name,
		&farmer.Phone,
		&farmer.Village,
		&farmer.District,
		&farmer.State,
		&farmer.LandAcres,
		&farmer.KYCStatus,
		&farmer.CreatedAt,
		&farmer.UpdatedAt,
	}

	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}
	return farmer, nil
}

/*
List returns a filtered, paginated slice of farmers and the total count.

Description: COUNT(*) OVER() returns the total alongside the page so a
single round-trip serves both.

Parameters:
  - context: context.Context
  - filter: Filter (Search, district, KYC status)
  - limit: int
  - offset: int

Returns:
  - []*Farmer: Page of farmers, ordered by name
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Farmer, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s f
		WHERE TRUE`,
		farmerColumns, schema.RegistryFarmer.Table,
	))

	// Name, village or phone search
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (f.%s ILIKE $%d OR f.%s ILIKE $%d OR f.%s LIKE $%d)",
			schema.RegistryFarmer.Name, argID,
			schema.RegistryFarmer.Village, argID,
			schema.RegistryFarmer.Phone, argID,
		))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if filter.District != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND lower(f.%s) = lower($%d)", schema.RegistryFarmer.District, argID))
		args = append(args, filter.District)
		argID++
	}

	if len(filter.KYCStatus) > 0 {
		statuses := make([]string, len(filter.KYCStatus))
		for i, status := range filter.KYCStatus {
			statuses[i] = string(status)
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND f.%s = ANY($%d)", schema.RegistryFarmer.KYCStatus, argID))
		args = append(args, statuses)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY f.%s ASC, f.%s ASC LIMIT $%d OFFSET $%d",
		schema.RegistryFarmer.Name, schema.RegistryFarmer.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_farmer_repo_list_failed: %w", err)
	}
	defer rows.Close()

	farmers := []*Farmer{}
	var totalCount int

	for rows.Next() {
		farmer, err := scanFarmer(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_farmer_repo_scan_failed: %w", err)
		}
		farmers = append(farmers, farmer)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_farmer_repo_rows_failed: %w", err)
	}

	return farmers, totalCount, nil
}

// FindByID retrieves a farmer by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Farmer, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s f WHERE f.%s = $1`,
		farmerColumns, schema.RegistryFarmer.Table, schema.RegistryFarmer.ID)

	farmer, err := scanFarmer(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Farmer")
	}
	return farmer, nil
}

// FindByAccountID retrieves the farmer linked to a login account.
func (repository *PostgresRepository) FindByAccountID(context context.Context, accountID string) (*Farmer, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s f WHERE f.%s = $1 LIMIT 1`,
		farmerColumns, schema.RegistryFarmer.Table, schema.RegistryFarmer.AccountID)

	farmer, err := scanFarmer(repository.pool.QueryRow(context, query, accountID))
	if err != nil {
		return nil, dberr.Wrap(err, "Farmer")
	}
	return farmer, nil
}

/*
AssignmentsFor lists the KYC assignments handed to a staff account.

Description: Joins the farmer table so each item carries the farmer's
name and village. Pending items come first, then newest first.

Parameters:
  - context: context.Context
  - assigneeID: string

Returns:
  - []KYCAssignment: Assignments (empty, never nil)
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) AssignmentsFor(context context.Context, assigneeID string) ([]KYCAssignment, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, f.%s, f.%s, a.%s, a.%s
		FROM %s a
		JOIN %s f ON f.%s = a.%s
		WHERE a.%s = $1
		ORDER BY (a.%s = 'pending') DESC, a.%s DESC`,
		schema.RegistryKYCAssignment.ID, schema.RegistryKYCAssignment.FarmerID,
		schema.RegistryFarmer.Name, schema.RegistryFarmer.Village,
		schema.RegistryKYCAssignment.Status, schema.RegistryKYCAssignment.AssignedAt,
		schema.RegistryKYCAssignment.Table,
		schema.RegistryFarmer.Table, schema.RegistryFarmer.ID, schema.RegistryKYCAssignment.FarmerID,
		schema.RegistryKYCAssignment.AssigneeID,
		schema.RegistryKYCAssignment.Status, schema.RegistryKYCAssignment.AssignedAt,
	)

	rows, err := repository.pool.Query(context, query, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("postgres_farmer_repo_assignments_failed: %w", err)
	}
	defer rows.Close()

	assignments := []KYCAssignment{}
	for rows.Next() {
		var item KYCAssignment
		if err := rows.Scan(&item.ID, &item.FarmerID, &item.FarmerName, &item.Village, &item.Status, &item.AssignedAt); err != nil {
			return nil, fmt.Errorf("postgres_farmer_repo_assignment_scan_failed: %w", err)
		}
		assignments = append(assignments, item)
	}

	return assignments, rows.Err()
}

// RecentActivity lists an account's newest activity entries.
func (repository *PostgresRepository) RecentActivity(context context.Context, accountID string, limit int) ([]Activity, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2`,
		schema.RegistryActivity.ID, schema.RegistryActivity.Description, schema.RegistryActivity.OccurredAt,
		schema.RegistryActivity.Table,
		schema.RegistryActivity.AccountID,
		schema.RegistryActivity.OccurredAt,
	)

	rows, err := repository.pool.Query(context, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_farmer_repo_activity_failed: %w", err)
	}
	defer rows.Close()

	entries := []Activity{}
	for rows.Next() {
		var entry Activity
		if err := rows.Scan(&entry.ID, &entry.Description, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("postgres_farmer_repo_activity_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
