package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/movieforge/search-provisioner/internal/config"
	"github.com/movieforge/search-provisioner/internal/elasticsearch"
	"github.com/movieforge/search-provisioner/internal/logger"
	"github.com/movieforge/search-provisioner/internal/waiter"
)

// WaitForSearch blocks until the search engine accepts TCP connections and
// its API answers a ping. A node can listen long before the cluster is ready
// to create indexes, so the ping loop is as unbounded as the TCP wait.
func WaitForSearch(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	ep := waiter.Endpoint{Host: cfg.Search.Host, Port: cfg.Search.Port}
	if err := waiter.WaitForTCP(ctx, ep, cfg.Provision.PollInterval, log); err != nil {
		return fmt.Errorf("search engine: %w", err)
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{URL: cfg.Search.URL()})
	if err != nil {
		return fmt.Errorf("search engine: %w", err)
	}

	for {
		pingErr := elasticsearch.Ping(ctx, client, elasticsearch.DefaultPingTimeout)
		if pingErr == nil {
			log.Info("Search engine ready", logger.String("url", cfg.Search.URL()))
			return nil
		}

		log.Debug("Search engine not answering pings yet", logger.Error(pingErr))
		select {
		case <-ctx.Done():
			return fmt.Errorf("search engine: %w", ctx.Err())
		case <-time.After(cfg.Provision.PollInterval):
		}
	}
}
