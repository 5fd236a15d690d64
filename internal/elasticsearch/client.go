// Package elasticsearch builds the client used to verify the search engine
// answers API calls before index provisioning starts.
package elasticsearch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
)

// DefaultPingTimeout bounds a single cluster ping.
const DefaultPingTimeout = 5 * time.Second

// Config holds Elasticsearch client configuration.
type Config struct {
	// URL is the Elasticsearch server URL (e.g. http://elasticsearch:9200).
	URL string
	// Username is the optional basic auth username.
	Username string
	// Password is the optional basic auth password.
	Password string
	// PingTimeout is the timeout for one ping probe (default: 5s).
	PingTimeout time.Duration
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = DefaultPingTimeout
	}
}

// NewClient creates an Elasticsearch client. The connection is not verified
// here; callers probe it with Ping once the endpoint is reachable.
func NewClient(cfg Config) (*es.Client, error) {
	cfg.SetDefaults()

	clientConfig := es.Config{
		Addresses: []string{normalizeURL(cfg.URL)},
	}
	if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	esClient, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create Elasticsearch client: %w", err)
	}
	return esClient, nil
}

// Ping verifies the cluster answers API calls.
func Ping(ctx context.Context, client *es.Client, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.IsError() {
		return fmt.Errorf("ping returned %s", res.Status())
	}
	return nil
}

// normalizeURL adds an http:// prefix if the URL has no scheme.
func normalizeURL(url string) string {
	if url == "" {
		return "http://localhost:9200"
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}
