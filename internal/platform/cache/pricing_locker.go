package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PricingLocker serializes bulk price runs per rate card using redis locks.
type PricingLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewPricingLocker(client *redis.Client, ttl time.Duration, logger *slog.Logger) *PricingLocker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PricingLocker{client: client, ttl: ttl, logger: logger}
}

// Acquire takes the bulk pricing lock for one rate card. The returned release
// func is safe to call once the run finishes; release errors are only logged
// because the ttl bounds the damage of a stuck lock.
func (l *PricingLocker) Acquire(ctx context.Context, rateCardID string) (func(context.Context), error) {
	lock, err := AcquireLock(ctx, l.client, BulkPricingLockKey(rateCardID), uuid.NewString(), l.ttl)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) {
		if err := lock.Release(ctx); err != nil && l.logger != nil {
			l.logger.Warn("release bulk pricing lock", slog.String("rate_card_id", rateCardID), slog.Any("error", err))
		}
	}, nil
}
