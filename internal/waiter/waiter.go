// Package waiter blocks startup until the provisioner's TCP dependencies
// accept connections.
package waiter

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/movieforge/search-provisioner/internal/logger"
)

// DefaultPollInterval is the sleep between connection probes.
const DefaultPollInterval = 100 * time.Millisecond

// Endpoint identifies a TCP dependency to probe.
type Endpoint struct {
	Host string
	Port int
}

// Addr returns the endpoint in host:port form.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, fmt.Sprintf("%d", e.Port))
}

// WaitForTCP blocks until a TCP connection to the endpoint succeeds or the
// context is cancelled. There is no attempt cap: the gate has nothing useful
// to do until the dependency exists, and the surrounding supervisor owns
// timeouts and termination.
func WaitForTCP(ctx context.Context, ep Endpoint, interval time.Duration, log logger.Logger) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	addr := ep.Addr()
	dialer := &net.Dialer{Timeout: interval}

	log.Info("Waiting for TCP endpoint", logger.String("addr", addr))
	for attempt := 1; ; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			_ = conn.Close()
			log.Info("TCP endpoint reachable",
				logger.String("addr", addr),
				logger.Int("attempts", attempt),
			)
			return nil
		}

		if ctx.Err() != nil {
			return fmt.Errorf("wait for %s: %w", addr, ctx.Err())
		}

		log.Debug("TCP endpoint not ready",
			logger.String("addr", addr),
			logger.Int("attempt", attempt),
			logger.Error(err),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s: %w", addr, ctx.Err())
		case <-time.After(interval):
		}
	}
}
