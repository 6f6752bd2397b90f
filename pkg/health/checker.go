package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker probes a single dependency
type Checker func() error

// CheckerConfig holds per-check settings
type CheckerConfig struct {
	Timeout time.Duration
}

// DefaultCheckerConfig returns the default check settings
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{Timeout: 2 * time.Second}
}

// DatabaseChecker returns a health check function for PostgreSQL
func DatabaseChecker(pool *pgxpool.Pool) Checker {
	return DatabaseCheckerWithConfig(pool, DefaultCheckerConfig())
}

// DatabaseCheckerWithConfig returns a PostgreSQL check with custom settings
func DatabaseCheckerWithConfig(pool *pgxpool.Pool, cfg CheckerConfig) Checker {
	return func() error {
		if pool == nil {
			return errors.New("database connection is nil")
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		return pool.Ping(ctx)
	}
}

// RedisChecker returns a health check function for Redis
func RedisChecker(client *redis.Client) Checker {
	return RedisCheckerWithConfig(client, DefaultCheckerConfig())
}

// RedisCheckerWithConfig returns a Redis check with custom settings
func RedisCheckerWithConfig(client *redis.Client, cfg CheckerConfig) Checker {
	return func() error {
		if client == nil {
			return errors.New("redis client is nil")
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}

// HTTPEndpointChecker returns a health check function for HTTP endpoints,
// useful for external service dependencies like the PDF renderer.
func HTTPEndpointChecker(url string) Checker {
	return HTTPEndpointCheckerWithConfig(url, DefaultCheckerConfig())
}

// HTTPEndpointCheckerWithConfig returns an HTTP check with custom settings.
// Any response below 400 counts as healthy.
func HTTPEndpointCheckerWithConfig(url string, cfg CheckerConfig) Checker {
	return func() error {
		client := &http.Client{Timeout: cfg.Timeout}
		resp, err := client.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("endpoint %s returned status %d", url, resp.StatusCode)
		}
		return nil
	}
}

// CompositeChecker runs a set of named checks and fails on the first error
func CompositeChecker(name string, checkers map[string]Checker) Checker {
	return func() error {
		for key, check := range checkers {
			if err := check(); err != nil {
				return fmt.Errorf("%s.%s: %w", name, key, err)
			}
		}
		return nil
	}
}

// AsyncChecker bounds a check with a timeout so a hung dependency cannot
// stall the health endpoint.
func AsyncChecker(checker Checker, timeout time.Duration) Checker {
	return func() error {
		done := make(chan error, 1)
		go func() {
			done <- checker()
		}()

		select {
		case err := <-done:
			return err
		case <-time.After(timeout):
			return fmt.Errorf("health check timeout after %s", timeout)
		}
	}
}

// CachedChecker memoizes a check result for a TTL. Load balancers probe
// health endpoints aggressively; there is no need to ping the database on
// every probe.
type CachedChecker struct {
	checker  Checker
	cacheTTL time.Duration

	mu        sync.Mutex
	lastRun   time.Time
	lastError error
}

// NewCachedChecker wraps a checker with result caching
func NewCachedChecker(checker Checker, ttl time.Duration) *CachedChecker {
	return &CachedChecker{checker: checker, cacheTTL: ttl}
}

// Check returns the cached result when fresh, otherwise runs the check
func (c *CachedChecker) Check() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRun.IsZero() && time.Since(c.lastRun) < c.cacheTTL {
		return c.lastError
	}

	c.lastError = c.checker()
	c.lastRun = time.Now()
	return c.lastError
}
