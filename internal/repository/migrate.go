package repository

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/jobseeker-api/internal/dbmigrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded migrations not yet recorded in schema_version.
// Each migration runs in its own transaction. Returns the versions applied.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]int, error) {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version     INTEGER PRIMARY KEY,
			applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return nil, fmt.Errorf("creating schema_version table: %w", err)
	}

	files, err := dbmigrate.Load(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	var applied []int
	for _, f := range files {
		var exists bool
		if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_version WHERE version = $1)`, f.Version).Scan(&exists); err != nil {
			return applied, fmt.Errorf("checking migration %d: %w", f.Version, err)
		}
		if exists {
			continue
		}
		if err := applyMigration(ctx, pool, f.Version, f.SQL); err != nil {
			return applied, err
		}
		log.Info().Int("version", f.Version).Str("file", f.Name).Msg("Migration applied")
		applied = append(applied, f.Version)
	}
	return applied, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, version int, content string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, content); err != nil {
		return fmt.Errorf("applying migration %d: %w", version, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("recording migration %d: %w", version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing migration %d: %w", version, err)
	}
	return nil
}
