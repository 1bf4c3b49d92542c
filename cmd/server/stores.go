package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/jobseeker-api/internal/config"
	"github.com/yourusername/jobseeker-api/internal/localstore"
	"github.com/yourusername/jobseeker-api/internal/model"
	"github.com/yourusername/jobseeker-api/internal/repository"
	"github.com/yourusername/jobseeker-api/internal/service"
)

// catalog is the writable side of the job store, used by seeding
type catalog interface {
	UpsertJob(ctx context.Context, j *model.Job) error
	UpsertCompany(ctx context.Context, c *model.Company) error
}

type stores struct {
	jobs    service.JobStore
	refs    service.ReferenceStore
	users   service.UserStore
	catalog catalog

	// migrate brings the schema up to date and returns the migration versions it reports
	migrate func(ctx context.Context) ([]int, error)
	close   func()
}

// openStores connects the driver selected by DATABASE_URL
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		log.Info().Msg("Database connected")

		jobRepo := repository.NewJobRepo(pool)
		return &stores{
			jobs:    jobRepo,
			refs:    repository.NewReferenceRepo(pool),
			users:   repository.NewUserRepo(pool),
			catalog: jobRepo,
			migrate: func(ctx context.Context) ([]int, error) {
				return repository.Migrate(ctx, pool)
			},
			close: pool.Close,
		}, nil

	case config.DriverSQLite:
		store, err := localstore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("SQLite store opened")

		return &stores{
			jobs:    store,
			refs:    store,
			users:   store,
			catalog: store,
			// Open already migrated
			migrate: func(ctx context.Context) ([]int, error) {
				return store.AppliedMigrations()
			},
			close: func() { store.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

// jobSource is the job store the API reads from: the remote job API
// when configured, the database otherwise
func jobSource(cfg *config.Config, s *stores) service.JobStore {
	if cfg.JobAPIURL == "" {
		return s.jobs
	}
	log.Info().Str("url", cfg.JobAPIURL).Msg("Reading jobs from remote job API")
	return service.NewJobAPIClient(cfg.JobAPIURL, cfg.JobAPIKey)
}
