// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Redis read-through cache for the member directory.

# Strategy

The directory changes only when an administrator seeds a new member, yet it is
read on every visit to the compose screen. A short-TTL cache in front of the
PostgreSQL listing absorbs that traffic. The cache is strictly best-effort:
any Redis failure (miss, timeout, corrupt payload) falls through to the
underlying repository and never surfaces to the caller.
*/

package account

import (
	stdctx "context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bisik/internal/platform/constants"
	"github.com/taibuivan/bisik/internal/platform/ctxutil"
)

// DirectoryCacheTTL bounds how stale the cached listing may get after a new
// member is seeded.
const DirectoryCacheTTL = 5 * time.Minute

// cacheKeyUsers is the single key holding the serialized directory listing.
const cacheKeyUsers = constants.RedisPrefixDirectory + "users"

// CachedRepository decorates a [Repository] with a Redis read-through cache.
type CachedRepository struct {
	inner  Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedRepository wraps the given repository with the directory cache.
func NewCachedRepository(inner Repository, client *redis.Client) *CachedRepository {
	return &CachedRepository{
		inner:  inner,
		client: client,
		ttl:    DirectoryCacheTTL,
	}
}

// ListUsers serves the directory from Redis when possible, refilling the
// cache from the inner repository on a miss.
func (repository *CachedRepository) ListUsers(context stdctx.Context) ([]Summary, error) {
	if cached := repository.fromCache(context); cached != nil {
		return cached, nil
	}

	summaries, err := repository.inner.ListUsers(context)
	if err != nil {
		return nil, err
	}

	repository.fill(context, summaries)
	return summaries, nil
}

// fromCache attempts a cache read. Any failure is treated as a miss.
func (repository *CachedRepository) fromCache(context stdctx.Context) []Summary {
	payload, err := repository.client.Get(context, cacheKeyUsers).Bytes()
	if err != nil {
		// redis.Nil is the ordinary miss; anything else is logged and skipped.
		if err != redis.Nil {
			ctxutil.GetLogger(context).WarnContext(context, "directory_cache_read_failed",
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	var summaries []Summary
	if err := json.Unmarshal(payload, &summaries); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "directory_cache_corrupt",
			slog.String("error", err.Error()),
		)
		return nil
	}

	return summaries
}

// fill writes the listing back to Redis. Failures are logged, never returned.
func (repository *CachedRepository) fill(context stdctx.Context, summaries []Summary) {
	payload, err := json.Marshal(summaries)
	if err != nil {
		return
	}

	if err := repository.client.Set(context, cacheKeyUsers, payload, repository.ttl).Err(); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "directory_cache_write_failed",
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate drops the cached listing, forcing the next read to refill.
func (repository *CachedRepository) Invalidate(context stdctx.Context) {
	if err := repository.client.Del(context, cacheKeyUsers).Err(); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "directory_cache_invalidate_failed",
			slog.String("error", err.Error()),
		)
	}
}
