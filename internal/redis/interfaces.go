package redis

import "context"

// BalanceCacheInterface defines the interface for the shipment balance cache.
type BalanceCacheInterface interface {
	GetBalance(ctx context.Context, shipmentID string) (*CachedBalance, error)
	SetBalance(ctx context.Context, shipmentID string, balance *CachedBalance) error
	InvalidateBalance(ctx context.Context, shipmentID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ BalanceCacheInterface = (*CacheStore)(nil)
)
