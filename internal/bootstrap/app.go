// Package bootstrap runs the startup gate for the movies search platform:
// wait for Postgres and Elasticsearch, provision the search indexes, then
// hand the process over to the wrapped command.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/movieforge/search-provisioner/internal/config"
	"github.com/movieforge/search-provisioner/internal/logger"
)

// Start runs the full bootstrap sequence. On success it replaces the current
// process with argv and never returns; with an empty argv it returns nil.
// Any failure is returned after being logged, and the caller exits non-zero.
func Start(ctx context.Context, argv []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting search provisioner",
		logger.String("name", cfg.Service.Name),
		logger.String("database", fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port)),
		logger.String("search", cfg.Search.URL()),
		logger.Strings("indexes", cfg.Provision.Indexes),
	)

	if runErr := Run(ctx, cfg, log); runErr != nil {
		log.Error("Bootstrap failed", logger.Error(runErr))
		return runErr
	}

	if len(argv) == 0 {
		log.Info("Provisioning complete, no wrapped command supplied")
		return nil
	}

	log.Info("Handing off to wrapped command", logger.Strings("argv", argv))
	_ = log.Sync()

	// Returns only on error; otherwise the process image is replaced.
	return Handoff(argv)
}

// Run waits for both dependencies, in order, then provisions every index.
// It fails on the first index that cannot be created; remaining indexes are
// never attempted, so the wrapped application cannot start against a
// partially provisioned search engine.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if err := WaitForDatabase(ctx, cfg, log); err != nil {
		return err
	}
	if err := WaitForSearch(ctx, cfg, log); err != nil {
		return err
	}
	return ProvisionIndexes(ctx, cfg, log)
}
