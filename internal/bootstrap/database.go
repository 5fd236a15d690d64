package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/movieforge/search-provisioner/internal/config"
	"github.com/movieforge/search-provisioner/internal/database"
	"github.com/movieforge/search-provisioner/internal/logger"
	"github.com/movieforge/search-provisioner/internal/waiter"
)

// WaitForDatabase blocks until Postgres accepts TCP connections and, unless
// disabled, answers a SQL ping. Like the TCP wait, the ping loop has no
// attempt cap: the database may accept connections well before it can serve
// queries, and there is nothing useful to do until it can.
func WaitForDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	ep := waiter.Endpoint{Host: cfg.Database.Host, Port: cfg.Database.Port}
	if err := waiter.WaitForTCP(ctx, ep, cfg.Provision.PollInterval, log); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if cfg.Database.SkipVerify {
		return nil
	}

	dbCfg := &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}

	for {
		conn, err := database.NewConnection(ctx, dbCfg)
		if err == nil {
			_ = conn.Close()
			log.Info("Database ready", logger.String("addr", ep.Addr()))
			return nil
		}

		log.Debug("Database not serving queries yet", logger.Error(err))
		select {
		case <-ctx.Done():
			return fmt.Errorf("database: %w", ctx.Err())
		case <-time.After(cfg.Provision.PollInterval):
		}
	}
}
