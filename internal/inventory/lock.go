package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	lockTTL        = 10 * time.Second
	lockRetries    = 20
	lockRetryDelay = 100 * time.Millisecond
	lockKeyPrefix  = "offering_lock:"
)

// RedisLock implements OfferingLock with a SetNX lease. The token stored
// under the key ensures only the holder can release it.
type RedisLock struct {
	Client *redis.Client

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{Client: client, tokens: make(map[string]string)}
}

func (r *RedisLock) Lock(ctx context.Context, key string) (bool, error) {
	token := uuid.New().String()
	for i := 0; i < lockRetries; i++ {
		ok, err := r.Client.SetNX(ctx, lockKeyPrefix+key, token, lockTTL).Result()
		if err != nil {
			return false, err
		}
		if ok {
			r.mu.Lock()
			r.tokens[key] = token
			r.mu.Unlock()
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return false, nil
}

func (r *RedisLock) Unlock(ctx context.Context, key string) error {
	r.mu.Lock()
	token, held := r.tokens[key]
	delete(r.tokens, key)
	r.mu.Unlock()
	if !held {
		return errors.New("lock not held")
	}

	val, err := r.Client.Get(ctx, lockKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil // lease expired
	}
	if err != nil {
		return err
	}
	if val == token {
		return r.Client.Del(ctx, lockKeyPrefix+key).Err()
	}
	return nil
}

// LocalLock serializes within a single process. Used by the maintenance
// CLI, which runs alone against the store.
type LocalLock struct {
	mu sync.Mutex
}

func (l *LocalLock) Lock(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	return true, nil
}

func (l *LocalLock) Unlock(ctx context.Context, key string) error {
	l.mu.Unlock()
	return nil
}
