package ports

import (
	"context"
	"time"

	"pickup/internal/core/domain/model/order"
)

// OrderEventPublisher forwards domain events once their transaction committed.
type OrderEventPublisher interface {
	Publish(ctx context.Context, events ...order.StatusChanged) error
}

// BatchLock keeps overlapping batch sync runs from processing the same orders.
type BatchLock interface {
	// Acquire returns false without error when another holder owns key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	Release(ctx context.Context, key string) error
}
