package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"skypulse/flightcore/internal/config"
	"skypulse/flightcore/internal/logging"
)

// NewRedisClient builds the shared client used by the Redis cache and the
// status change stream. A failed ping is logged, not fatal: the pool retries.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	addr := cfg.Host + ":" + cfg.Port
	logging.Info("Initializing Redis client", "addr", addr)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("Failed to ping Redis", "addr", addr, "error", err)
		return client
	}

	logging.Info("Connected to Redis", "addr", addr)
	return client
}
