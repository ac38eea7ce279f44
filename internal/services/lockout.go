package services

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	MaxFailedLoginAttempts = 10
	LoginLockoutWindow     = 15 * time.Minute
)

// LoginLimiter counts failed logins per key inside a fixed window.
type LoginLimiter interface {
	// Locked reports whether key has exhausted its attempts, and for how long it stays locked.
	Locked(ctx context.Context, key string) (bool, time.Duration, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

type memoryLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	now    func() time.Time
	state  map[string]*memoryWindow
}

func NewMemoryLoginLimiter(max int, window time.Duration) LoginLimiter {
	return &memoryLimiter{
		max:    max,
		window: window,
		now:    time.Now,
		state:  make(map[string]*memoryWindow),
	}
}

func (l *memoryLimiter) current(key string) *memoryWindow {
	w, ok := l.state[key]
	if !ok {
		return nil
	}
	if !l.now().Before(w.resetAt) {
		delete(l.state, key)
		return nil
	}
	return w
}

func (l *memoryLimiter) Locked(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.current(key)
	if w == nil || w.count < l.max {
		return false, 0, nil
	}
	return true, w.resetAt.Sub(l.now()), nil
}

func (l *memoryLimiter) Fail(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.current(key)
	if w == nil {
		w = &memoryWindow{resetAt: l.now().Add(l.window)}
		l.state[key] = w
	}
	w.count++
	return nil
}

func (l *memoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.state, key)
	return nil
}

type redisLimiter struct {
	rdb    goredis.UniversalClient
	max    int64
	window time.Duration
	prefix string
}

// NewRedisLoginLimiter shares counters across API instances.
func NewRedisLoginLimiter(rdb goredis.UniversalClient, max int, window time.Duration) LoginLimiter {
	return &redisLimiter{rdb: rdb, max: int64(max), window: window, prefix: "roadmap:login_failures:"}
}

func (l *redisLimiter) Locked(ctx context.Context, key string) (bool, time.Duration, error) {
	n, err := l.rdb.Get(ctx, l.prefix+key).Int64()
	if err == goredis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	if n < l.max {
		return false, 0, nil
	}
	ttl, err := l.rdb.TTL(ctx, l.prefix+key).Result()
	if err != nil {
		return true, l.window, nil
	}
	return true, ttl, nil
}

func (l *redisLimiter) Fail(ctx context.Context, key string) error {
	k := l.prefix + key
	pipe := l.rdb.TxPipeline()
	pipe.Incr(ctx, k)
	// NX keeps the window fixed from the first failure
	pipe.ExpireNX(ctx, k, l.window)
	_, err := pipe.Exec(ctx)
	return err
}

func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, l.prefix+key).Err()
}
