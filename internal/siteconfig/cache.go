// Package siteconfig owns the read-through cache for the storefront
// configuration singleton. Reads fall back along store → cached copy →
// compiled-in default and therefore never fail.
package siteconfig

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"thunder-recargas/internal/listing"
	"thunder-recargas/internal/metrics"
)

// TTL bounds how stale a cached configuration may be served.
const TTL = 30 * time.Second

const cacheKey = "site-config"

// ErrDisconnected is returned by Put while the store was never reachable.
var ErrDisconnected = errors.New("config store disconnected")

// Querier is the slice of the store the cache depends on.
type Querier interface {
	GetConfig(ctx context.Context) (json.RawMessage, error)
	UpsertConfig(ctx context.Context, data json.RawMessage, updatedAt time.Time) error
}

// Cache serves the configuration singleton with a TTL-bounded copy.
type Cache struct {
	querier Querier // nil while the store never connected
	cache   *ttlcache.Cache[string, json.RawMessage]
	logger  *slog.Logger
	metrics *metrics.Metrics

	// refreshMu serializes the read-check-refresh sequence so concurrent
	// misses trigger a single store read.
	refreshMu sync.Mutex
}

// New builds the cache. A nil querier marks the store as permanently
// disconnected: Get serves the default and Put fails fast.
func New(querier Querier, logger *slog.Logger, m *metrics.Metrics) *Cache {
	return &Cache{
		querier: querier,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, json.RawMessage](TTL),
			ttlcache.WithDisableTouchOnHit[string, json.RawMessage](),
		),
		logger:  logger.With("component", "siteconfig"),
		metrics: m,
	}
}

// Get returns the configuration blob. It never fails: a store error or an
// empty table yields the compiled-in default, and a fresh read within the TTL
// window is served from memory without touching the store.
func (c *Cache) Get(ctx context.Context) json.RawMessage {
	if item := c.cache.Get(cacheKey); item != nil {
		c.lookup("hit")
		return item.Value()
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another request may have refreshed while we waited on the lock.
	if item := c.cache.Get(cacheKey); item != nil {
		c.lookup("hit")
		return item.Value()
	}

	if c.querier == nil {
		c.lookup("default")
		return Default()
	}

	data, err := c.querier.GetConfig(ctx)
	if err != nil || len(data) == 0 {
		if err != nil {
			c.logger.Warn("config read failed, serving default", "error", err)
		}
		// The default is not cached so the store is retried on the next read.
		c.lookup("default")
		return Default()
	}

	c.cache.Set(cacheKey, data, ttlcache.DefaultTTL)
	c.lookup("refresh")
	return data
}

// Put upserts the configuration under the fixed singleton identity and, on
// success, replaces the cached copy and resets its TTL. On failure the
// existing cached value stays available.
func (c *Cache) Put(ctx context.Context, data json.RawMessage) error {
	if c.querier == nil {
		return ErrDisconnected
	}
	if err := c.querier.UpsertConfig(ctx, data, time.Now().In(listing.Zone())); err != nil {
		return err
	}
	c.cache.Set(cacheKey, data, ttlcache.DefaultTTL)
	return nil
}

func (c *Cache) lookup(outcome string) {
	if c.metrics != nil {
		c.metrics.ConfigCacheHits.WithLabelValues(outcome).Inc()
	}
}
