// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bisik/internal/users/account"
)

// countingRepository records how many times the underlying store is hit.
type countingRepository struct {
	summaries []account.Summary
	calls     int
}

func (r *countingRepository) ListUsers(_ context.Context) ([]account.Summary, error) {
	r.calls++
	return r.summaries, nil
}

func newCacheFixture(t *testing.T) (*countingRepository, *account.CachedRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingRepository{summaries: []account.Summary{
		{ID: "id-1", Username: "alice", DisplayName: "Alice A."},
		{ID: "id-2", Username: "bob", DisplayName: "Bob B."},
	}}

	return inner, account.NewCachedRepository(inner, client), server
}

/*
TestCachedRepository_ReadThrough verifies the first read fills the cache and
subsequent reads never touch the inner repository.
*/
func TestCachedRepository_ReadThrough(t *testing.T) {
	inner, cached, _ := newCacheFixture(t)

	first, err := cached.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, inner.calls)

	second, err := cached.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "second read should be served from cache")
}

/*
TestCachedRepository_TTLExpiry verifies the listing is refetched once the
cache entry expires.
*/
func TestCachedRepository_TTLExpiry(t *testing.T) {
	inner, cached, server := newCacheFixture(t)

	_, err := cached.ListUsers(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)

	server.FastForward(account.DirectoryCacheTTL + 1)

	_, err = cached.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "expired entry should refetch")
}

/*
TestCachedRepository_CorruptEntry verifies a corrupt cache payload falls
through to the inner repository instead of failing the request.
*/
func TestCachedRepository_CorruptEntry(t *testing.T) {
	inner, cached, server := newCacheFixture(t)

	require.NoError(t, server.Set("directory:users", "{corrupt"))

	summaries, err := cached.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, 1, inner.calls)
}

/*
TestCachedRepository_Invalidate verifies dropping the entry forces a refill.
*/
func TestCachedRepository_Invalidate(t *testing.T) {
	inner, cached, _ := newCacheFixture(t)

	_, err := cached.ListUsers(context.Background())
	require.NoError(t, err)

	cached.Invalidate(context.Background())

	_, err = cached.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
