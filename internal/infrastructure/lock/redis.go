package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
)

// DefaultTTL bounds how long a crashed save keeps its record locked
const DefaultTTL = 2 * time.Minute

const keyPrefix = "cotacao:save:"

// release deletes the key only while it still holds our token
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock implements port.SaveLock across processes with SET NX
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient connects and pings the server
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("lock: ping redis: %w", err)
	}
	return client, nil
}

// NewRedisLock creates a distributed save lock
func NewRedisLock(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLock {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLock{client: client, ttl: ttl, logger: logger}
}

// TryLock acquires key without waiting
func (l *RedisLock) TryLock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := keyPrefix + key

	ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock: set %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", port.ErrLockHeld, key)
	}

	return func() {
		// the caller's context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := release.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Error("Failed to release save lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

var _ port.SaveLock = (*RedisLock)(nil)
