package lock

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRedisLocker(rdb, ttl, log), mr
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	l, mr := newTestRedisLocker(t, time.Second)

	release, err := l.Acquire(context.Background(), "b", "a", "b")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:material:a"))
	assert.True(t, mr.Exists("lock:material:b"))

	release()
	release()
	assert.False(t, mr.Exists("lock:material:a"))
	assert.False(t, mr.Exists("lock:material:b"))

	again, err := l.Acquire(context.Background(), "a")
	require.NoError(t, err)
	again()
}

func TestRedisLockerGivesUpWhileKeyIsHeld(t *testing.T) {
	l, _ := newTestRedisLocker(t, 150*time.Millisecond)

	release, err := l.Acquire(context.Background(), "gold")
	require.NoError(t, err)
	defer release()

	start := time.Now()
	_, err = l.Acquire(context.Background(), "gold")
	assert.ErrorIs(t, err, ErrNotObtained)
	// retried before giving up
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRedisLockerReleasesPartialAcquire(t *testing.T) {
	l, mr := newTestRedisLocker(t, 100*time.Millisecond)

	// another instance holds "b"
	require.NoError(t, mr.Set("lock:material:b", "other-owner"))

	_, err := l.Acquire(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrNotObtained)

	assert.False(t, mr.Exists("lock:material:a"), "keys taken before the failure must be released")
	got, err := mr.Get("lock:material:b")
	require.NoError(t, err)
	assert.Equal(t, "other-owner", got)
}

func TestRedisLockerWaitsForRelease(t *testing.T) {
	l, _ := newTestRedisLocker(t, time.Second)

	release, err := l.Acquire(context.Background(), "gold")
	require.NoError(t, err)

	go func() {
		time.Sleep(100 * time.Millisecond)
		release()
	}()

	second, err := l.Acquire(context.Background(), "gold")
	require.NoError(t, err)
	second()
}
