package bootstrap

import (
	"context"
	"fmt"

	"github.com/movieforge/search-provisioner/internal/config"
	"github.com/movieforge/search-provisioner/internal/logger"
	"github.com/movieforge/search-provisioner/internal/provisioner"
)

// ProvisionIndexes creates every configured index in declaration order,
// stopping at the first one that cannot be created.
func ProvisionIndexes(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	creator := provisioner.NewCreator(provisioner.Config{
		BaseURL:     cfg.Search.URL(),
		MaxAttempts: cfg.Provision.MaxAttempts,
		RetryDelay:  cfg.Provision.RetryDelay,
	}, log)

	for _, name := range cfg.Provision.Indexes {
		spec := provisioner.NewIndexSpec(cfg.Provision.DataDir, name)
		if _, err := creator.CreateIndex(ctx, spec); err != nil {
			return fmt.Errorf("provision index %s: %w", name, err)
		}
	}

	log.Info("All indexes provisioned", logger.Strings("indexes", cfg.Provision.Indexes))
	return nil
}
