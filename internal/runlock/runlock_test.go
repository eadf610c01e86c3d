package runlock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	lock := NewLocal()

	token, err := lock.Acquire(ctx, "owner-1", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = lock.Acquire(ctx, "owner-1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	_, err = lock.Acquire(ctx, "owner-2", time.Minute)
	assert.NoError(t, err, "owners do not block each other")

	require.NoError(t, lock.Release(ctx, "owner-1", token))
	_, err = lock.Acquire(ctx, "owner-1", time.Minute)
	assert.NoError(t, err)
}

func TestLocal_ExpiredLockCanBeTaken(t *testing.T) {
	ctx := context.Background()
	lock := NewLocal()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lock.clock = func() time.Time { return now }

	stale, err := lock.Acquire(ctx, "owner-1", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	fresh, err := lock.Acquire(ctx, "owner-1", time.Minute)
	require.NoError(t, err)

	// The stale holder must not free the new holder's lock.
	require.NoError(t, lock.Release(ctx, "owner-1", stale))
	_, err = lock.Acquire(ctx, "owner-1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, lock.Release(ctx, "owner-1", fresh))
}

func TestLocal_OneWinnerUnderContention(t *testing.T) {
	ctx := context.Background()
	lock := NewLocal()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := lock.Acquire(ctx, "owner-1", time.Minute); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
