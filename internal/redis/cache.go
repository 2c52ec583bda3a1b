package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches computed shipment balances in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// BalanceCacheTTL bounds how stale a cached balance can get. Balances are
// also invalidated on every register/void, so the TTL is only a backstop.
const BalanceCacheTTL = 30 * time.Second

const balanceCachePrefix = "cache:balance:"

// CachedBalance is the cached payment position of a shipment.
type CachedBalance struct {
	Total       float64 `json:"total"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
}

// GetBalance retrieves a shipment balance from cache. Returns nil on miss.
func (s *CacheStore) GetBalance(ctx context.Context, shipmentID string) (*CachedBalance, error) {
	key := balanceCachePrefix + shipmentID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var balance CachedBalance
	if err := json.Unmarshal(data, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// SetBalance stores a shipment balance in cache.
func (s *CacheStore) SetBalance(ctx context.Context, shipmentID string, balance *CachedBalance) error {
	key := balanceCachePrefix + shipmentID
	data, err := json.Marshal(balance)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, BalanceCacheTTL).Err()
}

// InvalidateBalance removes a shipment balance from cache.
func (s *CacheStore) InvalidateBalance(ctx context.Context, shipmentID string) error {
	key := balanceCachePrefix + shipmentID
	return s.client.Del(ctx, key).Err()
}
