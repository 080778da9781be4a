package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/core/port"
)

// ListingCacheRepository stores serialized listing pages keyed by pagination
// bounds. Invalidation drops every cached page via a version counter, so no
// SCAN is needed on the hot path.
type ListingCacheRepository struct {
	client *redis.Client
	prefix string
}

// NewListingCacheRepository constructs a cache using the provided Redis client.
func NewListingCacheRepository(client *redis.Client, prefix string) *ListingCacheRepository {
	if prefix == "" {
		prefix = "market:listings"
	}
	return &ListingCacheRepository{client: client, prefix: prefix}
}

// GetPage returns the cached page if present.
func (r *ListingCacheRepository) GetPage(ctx context.Context, offset, limit int) ([]domain.Listing, bool, error) {
	key, err := r.pageKey(ctx, offset, limit)
	if err != nil {
		return nil, false, err
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var listings []domain.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached listings: %w", err)
	}

	return listings, true, nil
}

// SetPage caches the page under the current cache version.
func (r *ListingCacheRepository) SetPage(ctx context.Context, offset, limit int, listings []domain.Listing, ttl time.Duration) error {
	key, err := r.pageKey(ctx, offset, limit)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("marshal listings: %w", err)
	}

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Invalidate bumps the cache version, orphaning every cached page. Orphans
// expire via their TTL.
func (r *ListingCacheRepository) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.versionKey()).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	return nil
}

func (r *ListingCacheRepository) pageKey(ctx context.Context, offset, limit int) (string, error) {
	version, err := r.client.Get(ctx, r.versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("redis get version: %w", err)
	}
	return fmt.Sprintf("%s:v%d:%d:%d", r.prefix, version, offset, limit), nil
}

func (r *ListingCacheRepository) versionKey() string {
	return fmt.Sprintf("%s:version", r.prefix)
}

var _ port.ListingCache = (*ListingCacheRepository)(nil)
