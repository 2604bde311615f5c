package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisOptions reads the Redis connection shared by refresh sessions and the
// indexing queue.
func RedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     GetEnvOr("REDIS_ADDRESS", "localhost:6379"),
		Password: GetEnv("REDIS_PASSWORD"),
		DB:       GetEnvInt("REDIS_DB", 0),
	}
}

// InitRedisServer connects the refresh-session store. The API cannot
// authenticate without it, so a failed ping stops startup.
func InitRedisServer(ctx context.Context) *redis.Client {
	client := redis.NewClient(RedisOptions())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		Logger.Fatal("Failed to connect to Redis",
			zap.String("address", client.Options().Addr),
			zap.Error(err))
	}

	return client
}
