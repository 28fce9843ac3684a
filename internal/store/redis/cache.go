// Package redis implements the report cache: completed analysis reports
// keyed by ticker with a TTL, behind a circuit breaker so a down Redis
// reads as a cache miss rather than an outage.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"alpha-enginev1/internal/metrics"
	"alpha-enginev1/internal/model"
)

const keyPrefix = "report:"

// CacheConfig configures the report cache.
type CacheConfig struct {
	Addr     string
	Password string
	TTL      time.Duration // per-report lifetime, e.g. 5m

	BreakerMaxFailures int           // default 5
	BreakerResetAfter  time.Duration // default 10s

	Prom *metrics.Metrics // optional
}

// Cache is a Redis-backed model.ReportCache.
type Cache struct {
	rdb     *goredis.Client
	ttl     time.Duration
	breaker *CircuitBreaker
	prom    *metrics.Metrics
}

// NewCache connects to Redis and verifies the connection with a ping.
func NewCache(cfg CacheConfig) (*Cache, error) {
	if cfg.BreakerMaxFailures <= 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerResetAfter <= 0 {
		cfg.BreakerResetAfter = 10 * time.Second
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	c := &Cache{
		rdb:     rdb,
		ttl:     cfg.TTL,
		breaker: NewCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerResetAfter),
		prom:    cfg.Prom,
	}
	c.breaker.OnStateChange = func(from, to State) {
		if c.prom == nil {
			return
		}
		c.prom.BreakerState.Set(float64(to))
		if to == StateOpen {
			c.prom.BreakerTrips.Inc()
		}
	}
	return c, nil
}

// Put stores the report under "report:{ticker}" with the cache TTL.
func (c *Cache) Put(ctx context.Context, r *model.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return c.breaker.Execute(func() error {
		return c.rdb.Set(ctx, key(r.Ticker), data, c.ttl).Err()
	})
}

// Get loads a cached report. Returns (nil, nil) on a miss; including
// when the breaker is open.
func (c *Cache) Get(ctx context.Context, ticker string) (*model.Report, error) {
	var data []byte
	err := c.breaker.Execute(func() error {
		b, err := c.rdb.Get(ctx, key(ticker)).Bytes()
		if err == goredis.Nil {
			return nil // a miss is a healthy Redis, not a failure
		}
		if err != nil {
			return err
		}
		data = b
		return nil
	})
	if err == ErrCircuitOpen {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal cached report: %w", err)
	}
	return &r, nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error { return c.rdb.Close() }

// BreakerState exposes the breaker for health endpoints.
func (c *Cache) BreakerState() State { return c.breaker.CurrentState() }

func key(ticker string) string {
	return keyPrefix + strings.ToUpper(ticker)
}
