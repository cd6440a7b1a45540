package container

import (
	"context"
	"fmt"

	"polysynth/adapters/filestore"
	"polysynth/adapters/postgres"
	"polysynth/adapters/rng"
	"polysynth/app"
	"polysynth/internal"
	"polysynth/internal/config"
	"polysynth/internal/errors"
	"polysynth/internal/migration"
	"polysynth/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories
	Artifacts ports.ArtifactRepository
	Catalog   ports.CatalogRepository

	// Schema
	Migrator migration.Migrator

	// Seed is the base seed of the invocation; see RunSeed.
	Seed uint64
}

// New creates a new dependency injection container. The catalog stays
// disabled until InitWithDatabase is called.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	writer, err := filestore.NewWriter(cfg.Output.DatasetsDir, cfg.Output.MetadataDir, cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		Artifacts: writer,
		Migrator:  migration.NewRunner(),
		Seed:      rng.ResolveSeed(cfg.Seed),
	}
	return c, nil
}

// Connect opens the catalog database named by the configuration and wires it in
func (c *Container) Connect(ctx context.Context) error {
	if c.Config.Catalog.DatabaseURL == "" {
		return errors.ConfigInvalid("catalog.database_url is not set")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Catalog.DatabaseURL)
	if err != nil {
		return errors.DatabaseError("failed to connect to catalog database", err)
	}

	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// InitWithDatabase migrates the catalog schema and enables catalog registration
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := c.Migrator.Run(ctx, db); err != nil {
		return err
	}

	c.DB = db
	c.Catalog = postgres.NewCatalogRepository(db)

	c.Logger.Debug("Catalog schema at version %s", c.Migrator.Version())
	return nil
}

// RunSeed is the seed recorded in the manifest of the run-th run (1-based)
func (c *Container) RunSeed(run int) uint64 {
	return rng.RunSeed(c.Seed, run)
}

// Generator returns a generator for the run-th run (1-based) with its own
// sampler, so every run replays independently from its manifest seed.
func (c *Container) Generator(run int) *app.GeneratorService {
	return app.NewGeneratorService(c.Config, rng.NewSampler(c.RunSeed(run)), c.Artifacts, c.Catalog, c.Logger)
}

// Close releases the database connection if one was opened
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
