package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/raushankrgupta/stylesync/config"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes the Redis client from config. Only the address is mandatory.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.RedisAddr,
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForAICalls is the per-user counter for the current window.
func (c *RedisCache) KeyForAICalls(userID string, window time.Duration, now time.Time) string {
	return fmt.Sprintf("ai:calls:%s:%d", userID, now.Unix()/int64(window.Seconds()))
}

// AllowAICall counts one AI call for userID in a fixed window and reports
// whether it is within limit. The counter expires with its window.
func (c *RedisCache) AllowAICall(ctx context.Context, userID string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	key := c.KeyForAICalls(userID, window, time.Now())

	pipe := c.Client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("ai rate limit: %w", err)
	}
	return incr.Val() <= int64(limit), nil
}
