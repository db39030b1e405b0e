package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"scopedocs/internal/config"
)

type migrationStep struct {
	Name string
	SQL  string
}

var postgresSteps = []migrationStep{
	{
		Name: "create_table_stored_documents",
		SQL: `CREATE TABLE IF NOT EXISTS stored_documents (
  id               TEXT        PRIMARY KEY,
  namespace        TEXT        NOT NULL,
  scope_key        TEXT        NOT NULL,
  name             TEXT        NOT NULL,
  mime_type        TEXT        NOT NULL DEFAULT 'Unknown',
  byte_size        BIGINT      NOT NULL CHECK (byte_size >= 0),
  last_modified_ms BIGINT      NOT NULL,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_stored_documents_scope_key",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_stored_documents_scope_key ON stored_documents (scope_key);`,
	},
	{
		Name: "create_index_stored_documents_namespace",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_stored_documents_namespace ON stored_documents (namespace);`,
	},
}

var sqliteSteps = []migrationStep{
	{
		Name: "create_table_stored_documents",
		SQL: `CREATE TABLE IF NOT EXISTS stored_documents (
  id               TEXT    PRIMARY KEY,
  namespace        TEXT    NOT NULL,
  scope_key        TEXT    NOT NULL,
  name             TEXT    NOT NULL,
  mime_type        TEXT    NOT NULL DEFAULT 'Unknown',
  byte_size        INTEGER NOT NULL CHECK (byte_size >= 0),
  last_modified_ms INTEGER NOT NULL,
  created_at       TEXT    NOT NULL
);`,
	},
	{
		Name: "create_index_stored_documents_scope_key",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_stored_documents_scope_key ON stored_documents (scope_key);`,
	},
	{
		Name: "create_index_stored_documents_namespace",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_stored_documents_namespace ON stored_documents (namespace);`,
	},
}

// sentinelQuery reports whether the stored_documents table already exists.
func sentinelQuery(driver string) string {
	if driver == config.DriverPostgres {
		return "SELECT to_regclass('public.stored_documents') IS NOT NULL"
	}
	return "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'stored_documents')"
}

func stepsFor(driver string) []migrationStep {
	if driver == config.DriverPostgres {
		return postgresSteps
	}
	return sqliteSteps
}

// EnsureMigrated checks if the 'stored_documents' table exists and runs migrations if it doesn't.
// Every step is idempotent, so concurrent callers racing past the check still succeed.
func EnsureMigrated(ctx context.Context, db *sql.DB, driver string, target string, log *zap.Logger) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_target", target), zap.String("driver", driver))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery(driver)).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("detail", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range stepsFor(driver) {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
