// Package runlock serializes sync runs per owner. A lock is held for a bounded
// TTL so that a crashed process cannot wedge an owner forever.
package runlock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned by Acquire while another holder owns the key.
var ErrLocked = errors.New("lock is held")

const keyPrefix = "lms_sync:run:"

// Compare-and-delete, so a holder whose TTL ran out cannot release a lock
// that has since been taken by someone else.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Redis is a lock shared by every process using the same Redis.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Acquire takes key for ttl and returns the token needed to release it.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.New().String()

	ok, err := r.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrLocked
	}
	return token, nil
}

// Release frees key if token still holds it. Releasing a lost lock is not an error.
func (r *Redis) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, r.client, []string{keyPrefix + key}, token).Err()
}

// Local is an in-process lock for single-instance deployments and tests.
type Local struct {
	mu    sync.Mutex
	held  map[string]localEntry
	clock func() time.Time
}

type localEntry struct {
	token   string
	expires time.Time
}

func NewLocal() *Local {
	return &Local{held: make(map[string]localEntry), clock: time.Now}
}

func (l *Local) Acquire(_ context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if e, ok := l.held[key]; ok && now.Before(e.expires) {
		return "", ErrLocked
	}

	token := uuid.New().String()
	l.held[key] = localEntry{token: token, expires: now.Add(ttl)}
	return token, nil
}

func (l *Local) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.held[key]; ok && e.token == token {
		delete(l.held, key)
	}
	return nil
}
