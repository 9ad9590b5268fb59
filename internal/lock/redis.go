package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const retryInterval = 50 * time.Millisecond

// RedisLocker takes one redislock per key so several API instances share
// the same critical sections.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	prefix string
	log    *logrus.Logger
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		prefix: "lock:material:",
		log:    log,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	var held []*redislock.Lock
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			// background ctx: release must still run when the request ctx is gone
			if err := held[i].Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.log.WithFields(logrus.Fields{"key": held[i].Key()}).Warn("failed to release stock lock: " + err.Error())
			}
		}
	}

	attempts := int(l.ttl / retryInterval)
	if attempts < 1 {
		attempts = 1
	}
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), attempts),
	}

	for _, key := range normalize(keys) {
		lk, err := l.client.Obtain(ctx, l.prefix+key, l.ttl, opts)
		if err != nil {
			release()
			if errors.Is(err, redislock.ErrNotObtained) {
				return nil, ErrNotObtained
			}
			return nil, err
		}
		held = append(held, lk)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}
