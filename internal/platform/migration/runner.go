// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the users and registry schema migrations with
// golang-migrate before the server accepts traffic.
package migration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

/*
RunUp brings the schema to the newest version found in migrations.

Parameters:
  - dsn: string (postgres:// or postgresql:// URL)
  - migrations: fs.FS (NNNNNN_name.up.sql / .down.sql pairs at its root)
  - logger: *slog.Logger

Returns:
  - error: Source, connection or migration failures. A dirty schema is
    refused rather than forced.
*/
func RunUp(dsn string, migrations fs.FS, logger *slog.Logger) error {
	migrator, err := open(dsn, migrations, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	from, err := version(migrator)
	if err != nil {
		return err
	}

	logger.Info("migration_started", slog.Uint64("current_version", uint64(from)))

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_already_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	case err != nil:
		return fmt.Errorf("migration_up_failed: %w", err)
	}

	to, err := version(migrator)
	if err != nil {
		return err
	}

	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

func open(dsn string, migrations fs.FS, logger *slog.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("migration_source_failed: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, pgx5URL(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration_init_failed: %w", err)
	}

	migrator.Log = &migrateLogger{logger: logger}
	return migrator, nil
}

// version reports the applied version, zero for an empty schema.
func version(migrator *migrate.Migrate) (uint, error) {
	current, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("migration_version_failed: %w", err)
	}
	if dirty {
		return current, fmt.Errorf("migration_dirty: version %d needs manual repair", current)
	}
	return current, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if sourceErr != nil {
		logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
	}
	if databaseErr != nil {
		logger.Error("migration_db_close_failed", slog.Any("error", databaseErr))
	}
}

// pgx5URL switches a postgres URL to the scheme the pgx v5 driver registers.
// Other DSN forms pass through untouched.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger routes golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (adapter *migrateLogger) Printf(format string, args ...any) {
	adapter.logger.Debug("migration_progress", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (adapter *migrateLogger) Verbose() bool {
	return adapter.logger.Enabled(context.Background(), slog.LevelDebug)
}
