package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestAcquireLock(t *testing.T) {
	ctx := context.Background()
	client, _ := testClient(t)

	lock, err := AcquireLock(ctx, client, BulkPricingLockKey("rc-1"), "holder-a", time.Minute)
	require.NoError(t, err)

	_, err = AcquireLock(ctx, client, BulkPricingLockKey("rc-1"), "holder-b", time.Minute)
	require.ErrorIs(t, err, ErrLockHeld)

	// A different rate card is an independent lock.
	other, err := AcquireLock(ctx, client, BulkPricingLockKey("rc-2"), "holder-b", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lock.Release(ctx))
	_, err = AcquireLock(ctx, client, BulkPricingLockKey("rc-1"), "holder-b", time.Minute)
	require.NoError(t, err)
}

func TestLockReleaseKeepsForeignHolder(t *testing.T) {
	ctx := context.Background()
	client, mr := testClient(t)

	lock, err := AcquireLock(ctx, client, "k", "holder-a", time.Minute)
	require.NoError(t, err)

	// Simulate expiry plus re-acquisition by another holder.
	mr.Del("k")
	require.NoError(t, mr.Set("k", "holder-b"))

	require.NoError(t, lock.Release(ctx))
	got, err := mr.Get("k")
	require.NoError(t, err)
	require.Equal(t, "holder-b", got)
}

func TestLockExpires(t *testing.T) {
	ctx := context.Background()
	client, mr := testClient(t)

	_, err := AcquireLock(ctx, client, "k", "holder-a", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = AcquireLock(ctx, client, "k", "holder-b", time.Second)
	require.NoError(t, err)
}

func TestPricingLockerAcquireRelease(t *testing.T) {
	ctx := context.Background()
	client, _ := testClient(t)

	locker := NewPricingLocker(client, time.Minute, nil)

	release, err := locker.Acquire(ctx, "rc-1")
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "rc-1")
	require.ErrorIs(t, err, ErrLockHeld)

	release(ctx)

	release, err = locker.Acquire(ctx, "rc-1")
	require.NoError(t, err)
	release(ctx)
}
