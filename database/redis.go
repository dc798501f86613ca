package database

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient initializes and returns a Redis client, or nil when no URL
// is configured. Callers must treat a nil client as "caching disabled".
func NewRedisClient(redisURL string, logger *zap.Logger) *redis.Client {
	if redisURL == "" {
		logger.Info("REDIS_URL not set, product caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("Invalid Redis URL, caching disabled", zap.Error(err))
		return nil
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, caching disabled", zap.Error(err))
		return nil
	}

	logger.Info("Connected to Redis")
	return client
}
