// Package rediscache provides a read-through Redis cache in front of the
// carrier account store. Account rows change rarely but are read on every
// carrier interaction, so a short TTL removes almost all of that load from
// postgres. The cache is best effort: any Redis failure falls through to
// the inner store.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a cached account stays valid.
const DefaultTTL = 5 * time.Minute

// AccountCache implements ports.CarrierAccountStore by caching another
// store's results in Redis.
type AccountCache struct {
	client *redis.Client
	inner  ports.CarrierAccountStore
	ttl    time.Duration
}

// NewAccountCache creates a read-through cache over inner. A non-positive
// ttl falls back to DefaultTTL.
func NewAccountCache(client *redis.Client, inner ports.CarrierAccountStore, ttl time.Duration) *AccountCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &AccountCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
	}
}

// FindForLocation retrieves the enabled account bound to the location,
// serving from cache when possible.
func (c *AccountCache) FindForLocation(ctx context.Context, locationID string) (*carrier.Account, error) {
	return c.readThrough(ctx, "carrier_account:location:"+locationID, func() (*carrier.Account, error) {
		return c.inner.FindForLocation(ctx, locationID)
	})
}

// FindDefault retrieves the enabled fallback account, serving from cache
// when possible.
func (c *AccountCache) FindDefault(ctx context.Context) (*carrier.Account, error) {
	return c.readThrough(ctx, "carrier_account:default", func() (*carrier.Account, error) {
		return c.inner.FindDefault(ctx)
	})
}

// Invalidate drops the cached entries. Called when account configuration
// is known to have changed.
func (c *AccountCache) Invalidate(ctx context.Context, locationIDs ...string) error {
	keys := make([]string, 0, len(locationIDs)+1)
	keys = append(keys, "carrier_account:default")
	for _, loc := range locationIDs {
		keys = append(keys, "carrier_account:location:"+loc)
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *AccountCache) readThrough(ctx context.Context, key string, load func() (*carrier.Account, error)) (*carrier.Account, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if account, decodeErr := decodeAccount(raw); decodeErr == nil {
			return account, nil
		}
		// Corrupt entry, drop it and reload.
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not break account lookup.
		return load()
	}

	account, err := load()
	if err != nil {
		return nil, err
	}

	if encoded, encodeErr := encodeAccount(account); encodeErr == nil {
		_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
	}
	return account, nil
}

// accountPayload is the cached wire form of an account.
type accountPayload struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BaseURL    string  `json:"base_url"`
	APIKey     string  `json:"api_key"`
	LocationID *string `json:"location_id,omitempty"`
	IsDefault  bool    `json:"is_default"`
	Enabled    bool    `json:"enabled"`
}

func encodeAccount(account *carrier.Account) (string, error) {
	payload := accountPayload{
		ID:         account.ID().String(),
		Name:       account.Name(),
		BaseURL:    account.BaseURL(),
		APIKey:     account.APIKey(),
		LocationID: account.LocationID(),
		IsDefault:  account.IsDefault(),
		Enabled:    account.IsEnabled(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeAccount(raw string) (*carrier.Account, error) {
	var payload accountPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}

	id, err := kernel.UUIDFromString(payload.ID)
	if err != nil {
		return nil, err
	}

	return carrier.NewAccount(
		id,
		payload.Name,
		payload.BaseURL,
		payload.APIKey,
		payload.LocationID,
		payload.IsDefault,
		payload.Enabled,
	)
}
