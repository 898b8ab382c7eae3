// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"github.com/Infoya/FourSeasonsPOC/config"

	"github.com/go-redis/redis/v8"
)

// ConversationCacheClient is the Redis client backing the conversation store.
var ConversationCacheClient *redis.Client

// InitConversationCache initializes the Redis client for conversation
// state. Returns an error instead of exiting so callers can fall back to
// the in-memory store when Redis is not running.
func InitConversationCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return err
	}
	ConversationCacheClient = client
	return nil
}

// GetConversationCacheClient returns the Redis client for conversation
// state, or nil when Redis is unavailable.
func GetConversationCacheClient() *redis.Client {
	return ConversationCacheClient
}
