package rediscache

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct{ mock.Mock }

func (m *MockStore) FindForLocation(ctx context.Context, locationID string) (*carrier.Account, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*carrier.Account), args.Error(1)
}

func (m *MockStore) FindDefault(ctx context.Context) (*carrier.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*carrier.Account), args.Error(1)
}

func testAccount(t *testing.T, locationID *string) *carrier.Account {
	t.Helper()
	account, err := carrier.NewAccount(
		kernel.NewUUID(), "main", "https://carrier.example", "key-123",
		locationID, locationID == nil, true,
	)
	require.NoError(t, err)
	return account
}

func newTestCache(t *testing.T, inner *MockStore) (*AccountCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewAccountCache(client, inner, time.Minute), server
}

func TestAccountCache_FindDefault_CachesInnerResult(t *testing.T) {
	ctx := t.Context()
	account := testAccount(t, nil)

	inner := new(MockStore)
	inner.On("FindDefault", ctx).Return(account, nil).Once()

	cache, _ := newTestCache(t, inner)

	// Miss goes to the inner store; the hit right after does not.
	first, err := cache.FindDefault(ctx)
	require.NoError(t, err)
	assert.True(t, first.ID().IsEqual(account.ID()))

	second, err := cache.FindDefault(ctx)
	require.NoError(t, err)
	assert.True(t, second.ID().IsEqual(account.ID()))
	assert.Equal(t, account.APIKey(), second.APIKey())
	assert.True(t, second.IsDefault())

	inner.AssertExpectations(t)
	inner.AssertNumberOfCalls(t, "FindDefault", 1)
}

func TestAccountCache_FindForLocation_KeyedByLocation(t *testing.T) {
	ctx := t.Context()
	almaty := "almaty-01"
	astana := "astana-01"

	inner := new(MockStore)
	inner.On("FindForLocation", ctx, almaty).Return(testAccount(t, &almaty), nil).Once()
	inner.On("FindForLocation", ctx, astana).Return(testAccount(t, &astana), nil).Once()

	cache, _ := newTestCache(t, inner)

	first, err := cache.FindForLocation(ctx, almaty)
	require.NoError(t, err)
	require.NotNil(t, first.LocationID())
	assert.Equal(t, almaty, *first.LocationID())

	second, err := cache.FindForLocation(ctx, astana)
	require.NoError(t, err)
	require.NotNil(t, second.LocationID())
	assert.Equal(t, astana, *second.LocationID())

	// Both entries are now warm.
	_, err = cache.FindForLocation(ctx, almaty)
	require.NoError(t, err)
	_, err = cache.FindForLocation(ctx, astana)
	require.NoError(t, err)

	inner.AssertExpectations(t)
}

func TestAccountCache_CorruptEntryFallsThrough(t *testing.T) {
	ctx := t.Context()
	account := testAccount(t, nil)

	inner := new(MockStore)
	inner.On("FindDefault", ctx).Return(account, nil).Once()

	cache, server := newTestCache(t, inner)
	require.NoError(t, server.Set("carrier_account:default", "{not json"))

	got, err := cache.FindDefault(ctx)

	require.NoError(t, err)
	assert.True(t, got.ID().IsEqual(account.ID()))
	inner.AssertExpectations(t)
}

func TestAccountCache_InnerErrorIsNotCached(t *testing.T) {
	ctx := t.Context()
	account := testAccount(t, nil)

	inner := new(MockStore)
	inner.On("FindDefault", ctx).Return(nil, assert.AnError).Once()
	inner.On("FindDefault", ctx).Return(account, nil).Once()

	cache, _ := newTestCache(t, inner)

	_, err := cache.FindDefault(ctx)
	require.Error(t, err)

	got, err := cache.FindDefault(ctx)
	require.NoError(t, err)
	assert.True(t, got.ID().IsEqual(account.ID()))
	inner.AssertExpectations(t)
}

func TestAccountCache_RedisDownFallsThroughToInner(t *testing.T) {
	ctx := t.Context()
	account := testAccount(t, nil)

	inner := new(MockStore)
	inner.On("FindDefault", ctx).Return(account, nil).Twice()

	cache, server := newTestCache(t, inner)
	server.Close()

	// Every lookup reaches the inner store while Redis is unreachable.
	for range 2 {
		got, err := cache.FindDefault(ctx)
		require.NoError(t, err)
		assert.True(t, got.ID().IsEqual(account.ID()))
	}
	inner.AssertExpectations(t)
}

func TestAccountCache_Invalidate(t *testing.T) {
	ctx := t.Context()
	almaty := "almaty-01"
	account := testAccount(t, nil)

	inner := new(MockStore)
	inner.On("FindDefault", ctx).Return(account, nil).Twice()
	inner.On("FindForLocation", ctx, almaty).Return(testAccount(t, &almaty), nil).Twice()

	cache, _ := newTestCache(t, inner)

	_, err := cache.FindDefault(ctx)
	require.NoError(t, err)
	_, err = cache.FindForLocation(ctx, almaty)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, almaty))

	// Cold again after invalidation.
	_, err = cache.FindDefault(ctx)
	require.NoError(t, err)
	_, err = cache.FindForLocation(ctx, almaty)
	require.NoError(t, err)

	inner.AssertExpectations(t)
}

func TestAccountCache_EntryExpires(t *testing.T) {
	ctx := t.Context()
	account := testAccount(t, nil)

	inner := new(MockStore)
	inner.On("FindDefault", ctx).Return(account, nil).Twice()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewAccountCache(client, inner, time.Second)

	_, err := cache.FindDefault(ctx)
	require.NoError(t, err)

	server.FastForward(2 * time.Second)

	_, err = cache.FindDefault(ctx)
	require.NoError(t, err)
	inner.AssertExpectations(t)
}
