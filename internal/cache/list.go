// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache for list endpoint responses.
// Listing articles or subscribers requires a full prefix scan of the kv
// table plus a sort, so the serialized JSON payloads are kept in Valkey
// and invalidated whenever a record in the namespace changes. Cache
// failures never fail a request — reads fall through to the store.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached list payloads.
	listKeyPrefix = "list:"

	// DefaultListTTL is how long a list payload stays cached.
	DefaultListTTL = 5 * time.Minute
)

// Cache keys for the list endpoints. Category lists append the lowercased
// category name to KeyCategoryPrefix.
const (
	KeyArticles       = "articles"
	KeyFeatured       = "articles:featured"
	KeyCategoryPrefix = "articles:category:"
	KeySubscribers    = "subscribers"
	KeyStats          = "subscribers:stats"
)

// ListCache manages cached JSON list payloads in Valkey.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns (nil, false) on miss or error.
func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key)
	return val, true
}

// Set stores a payload under key with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, key string, payload []byte) {
	if err := lc.client.Set(ctx, listKeyPrefix+key, payload, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// InvalidateArticles removes every cached article list (full, featured, and
// all per-category payloads) by scanning for the article key family. Called
// on any article create, update, or delete — a write to one article can
// affect any of the lists.
func (lc *ListCache) InvalidateArticles(ctx context.Context) {
	lc.invalidatePattern(ctx, listKeyPrefix+KeyArticles+"*")
}

// InvalidateSubscribers removes the cached subscriber list and stats.
// Called on subscribe and unsubscribe.
func (lc *ListCache) InvalidateSubscribers(ctx context.Context) {
	lc.invalidatePattern(ctx, listKeyPrefix+KeySubscribers+"*")
}

// invalidatePattern deletes all Valkey keys matching pattern via SCAN.
func (lc *ListCache) invalidatePattern(ctx context.Context, pattern string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "pattern", pattern, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("list cache invalidated", "pattern", pattern, "deleted", deleted)
	}
}
