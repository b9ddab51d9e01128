package utils

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects the shared redis client used for caching public API
// responses. The address comes from REDIS_ADDR.
func InitRedis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		return err
	}

	log.Println("✅ Redis connection established")
	return nil
}

// CacheGet returns the cached payload for key, or false on a miss. A broken
// or absent redis connection is treated as a miss, never as an error.
func CacheGet(ctx context.Context, key string) ([]byte, bool) {
	if RedisClient == nil {
		return nil, false
	}
	val, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ Redis GET failed for %s: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

// CacheSet stores a payload with a TTL, best effort.
func CacheSet(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Printf("⚠️ Redis SET failed for %s: %v", key, err)
	}
}

// SetToken stores a short-lived token value (password reset flows)
func SetToken(key, value string, ttl time.Duration) error {
	if RedisClient == nil {
		return errors.New("redis not initialized")
	}
	return RedisClient.Set(context.Background(), key, value, ttl).Err()
}

// GetToken returns a stored token value
func GetToken(key string) (string, error) {
	if RedisClient == nil {
		return "", errors.New("redis not initialized")
	}
	return RedisClient.Get(context.Background(), key).Result()
}

// DeleteToken removes a token after use
func DeleteToken(key string) error {
	if RedisClient == nil {
		return errors.New("redis not initialized")
	}
	return RedisClient.Del(context.Background(), key).Err()
}

// CacheInvalidate removes all cached payloads matching the pattern, e.g.
// after content is published.
func CacheInvalidate(ctx context.Context, pattern string) {
	if RedisClient == nil {
		return
	}
	iter := RedisClient.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("⚠️ Redis DEL failed for %s: %v", iter.Val(), err)
		}
	}
}
