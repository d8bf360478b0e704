package lease

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "speech-insight/internal/app/errors"
)

func exerciseLocker(t *testing.T, locker Locker) {
	ctx := context.Background()
	key := uuid.NewString()

	first, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, key, time.Minute)
	assert.True(t, errors.Is(err, apperrors.ErrLeaseHeld))

	other, err := locker.Acquire(ctx, key+"-other", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, first.Release(ctx))
	second, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	// A stale holder releasing again must not drop the new lease.
	require.NoError(t, first.Release(ctx))
	_, err = locker.Acquire(ctx, key, time.Minute)
	assert.True(t, errors.Is(err, apperrors.ErrLeaseHeld))
	require.NoError(t, second.Release(ctx))
}

func TestMemoryLocker(t *testing.T) {
	exerciseLocker(t, NewMemoryLocker())
}

func TestMemoryLocker_Expiry(t *testing.T) {
	locker := NewMemoryLocker()
	now := time.Now()
	locker.now = func() time.Time { return now }

	_, err := locker.Acquire(context.Background(), "a", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = locker.Acquire(context.Background(), "a", time.Second)
	assert.NoError(t, err, "expired leases are taken over")
}

func TestMemoryLocker_Concurrent(t *testing.T) {
	locker := NewMemoryLocker()
	var won int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := locker.Acquire(context.Background(), "same", time.Minute); err == nil {
				atomic.AddInt32(&won, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), won)
}

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := NewRedisClient(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	exerciseLocker(t, NewRedisLocker(client))
}
