// Package cache provides a best-effort Redis cache for the hot read paths:
// the popular and latest business listings shown on the home screen. Cache
// failures are never surfaced to callers; the database remains the source of
// truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
)

const (
	keyPopular = "umkm:listing:popular"
	keyLatest  = "umkm:listing:latest"
)

// ListingCache caches the popular and latest business listings.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewListingCache creates a Redis-backed listing cache.
func NewListingCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ListingCache {
	return &ListingCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetPopular returns the cached popular listing, or found=false on a miss or
// any Redis error.
func (c *ListingCache) GetPopular(ctx context.Context) ([]domain.Business, bool) {
	return c.get(ctx, keyPopular)
}

// SetPopular stores the popular listing.
func (c *ListingCache) SetPopular(ctx context.Context, businesses []domain.Business) {
	c.set(ctx, keyPopular, businesses)
}

// GetLatest returns the cached latest listing, or found=false on a miss or
// any Redis error.
func (c *ListingCache) GetLatest(ctx context.Context) ([]domain.Business, bool) {
	return c.get(ctx, keyLatest)
}

// SetLatest stores the latest listing.
func (c *ListingCache) SetLatest(ctx context.Context, businesses []domain.Business) {
	c.set(ctx, keyLatest, businesses)
}

// Invalidate drops both listings. Called after any write that could change
// what the home screen shows.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, keyPopular, keyLatest).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate listing cache",
			slog.String("error", err.Error()),
		)
	}
}

func (c *ListingCache) get(ctx context.Context, key string) ([]domain.Business, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "listing cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var businesses []domain.Business
	if err := json.Unmarshal(data, &businesses); err != nil {
		c.logger.WarnContext(ctx, "listing cache entry corrupt",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return businesses, true
}

func (c *ListingCache) set(ctx context.Context, key string, businesses []domain.Business) {
	data, err := json.Marshal(businesses)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to marshal listing cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, fmt.Sprintf("listing cache write failed for %s", key),
			slog.String("error", err.Error()),
		)
	}
}
