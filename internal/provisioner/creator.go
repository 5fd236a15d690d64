package provisioner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/movieforge/search-provisioner/internal/logger"
	"github.com/movieforge/search-provisioner/internal/retry"
)

// StatusNetworkFailure is the sentinel status recorded when a PUT fails at
// the network level and no HTTP response exists.
const StatusNetworkFailure = 0

// Default creation retry budget.
const (
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 3 * time.Second
)

// Config holds Creator configuration.
type Config struct {
	// BaseURL is the search engine's HTTP API root, e.g. http://elasticsearch:9200.
	BaseURL string
	// MaxAttempts bounds PUTs per index (including the first).
	MaxAttempts int
	// RetryDelay is the fixed delay between attempts.
	RetryDelay time.Duration
	// HTTPClient is the client used for index PUTs. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}

// Creator provisions indexes against one search engine.
type Creator struct {
	cfg Config
	log logger.Logger
}

// NewCreator creates a Creator for the given search engine.
func NewCreator(cfg Config, log logger.Logger) *Creator {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &Creator{cfg: cfg, log: log}
}

// CreateIndex provisions one index. It reads the definition file once, then
// PUTs it to <BaseURL>/<name> until the engine answers 200 (created) or 400
// (already exists), retrying any other result up to the attempt budget.
//
// A missing definition file fails immediately with ErrDefinitionMissing and
// issues no network calls. A spent budget fails with *ExhaustedError.
func (c *Creator) CreateIndex(ctx context.Context, spec IndexSpec) (Outcome, error) {
	body, err := os.ReadFile(spec.DefinitionPath)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("index %s (%s): %w: %w",
			spec.Name, spec.DefinitionPath, ErrDefinitionMissing, err)
	}

	var (
		outcome    Outcome
		lastStatus int
		attempts   int
	)

	retryCfg := retry.Config{
		MaxAttempts: c.cfg.MaxAttempts,
		Delay:       c.cfg.RetryDelay,
		OnAttempt: func(attempt int, attemptErr error) {
			c.log.Warn("Index creation attempt failed",
				logger.String("index", spec.Name),
				logger.Int("attempt", attempt),
				logger.Int("max_attempts", c.cfg.MaxAttempts),
				logger.Int("status", lastStatus),
				logger.Error(attemptErr),
			)
		},
	}

	err = retry.Do(ctx, retryCfg, func() error {
		attempts++
		status, putErr := c.put(ctx, spec.Name, body)
		lastStatus = status
		if putErr != nil {
			return fmt.Errorf("put index %s: %w", spec.Name, putErr)
		}

		switch {
		case status == http.StatusOK:
			outcome = OutcomeCreated
			return nil
		case isIdempotentConflict(status):
			outcome = OutcomeAlreadyExists
			return nil
		default:
			return fmt.Errorf("put index %s: unexpected status %d", spec.Name, status)
		}
	})
	if err != nil {
		if errors.Is(err, retry.ErrContextCancelled) {
			return OutcomeFailed, err
		}
		return OutcomeFailed, &ExhaustedError{
			Index:      spec.Name,
			Attempts:   attempts,
			LastStatus: lastStatus,
		}
	}

	c.log.Info("Index provisioned",
		logger.String("index", spec.Name),
		logger.String("outcome", outcome.String()),
		logger.Int("attempts", attempts),
	)
	return outcome, nil
}

// put issues one creation PUT and returns the HTTP status, or
// StatusNetworkFailure with an error when no response was produced.
func (c *Creator) put(ctx context.Context, name string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.cfg.BaseURL+"/"+name, bytes.NewReader(body))
	if err != nil {
		return StatusNetworkFailure, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return StatusNetworkFailure, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	// Only the status code matters; the body is discarded.
	return res.StatusCode, nil
}

// isIdempotentConflict reports whether a creation status means the index
// already exists. Elasticsearch answers 400 (resource_already_exists_exception)
// on this endpoint; exactly that status is success, not 4xx in general.
// Whether newer engine versions signal the conflict differently is untracked.
func isIdempotentConflict(status int) bool {
	return status == http.StatusBadRequest
}
