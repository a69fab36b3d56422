// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"quitcoach/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the Redis client backing the week-grid cache.
var CacheClient *redis.Client

// InitCache initializes the Redis cache client (using REDIS_CACHE_DB from AppConfig).
func InitCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis (cache): %w", err)
	}
	CacheClient = client
	return nil
}

// GetCacheClient returns the cache client, or nil when InitCache has not succeeded.
func GetCacheClient() *redis.Client {
	return CacheClient
}
