package common

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	"github.com/redis/go-redis/v9"

	"resilient-bharat/prashikshan/internal/config"
	"resilient-bharat/prashikshan/internal/logging"
)

// NewRedisClient builds the shared Redis client. The connection is
// verified with a ping; failures are retried a few times and then
// surfaced so the caller can fall back to the in-memory cache.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	err := retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Ping(ctx).Err()
		},
		retry.Attempts(5),
		retry.Delay(time.Second),
	)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	logging.Info("connected to redis", "addr", cfg.RedisAddr())
	return client, nil
}
