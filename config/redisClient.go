package config

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()
var RedisClient *redis.Client

// ConnectRedis initializes the Redis client used by the issue rate limiter.
// When no address is configured, or Redis is unreachable, the client stays
// nil and rate limiting is skipped.
func ConnectRedis(addr, password string) {
	if addr == "" {
		log.Println("REDIS_ADDRESS is not set, issue rate limiting disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0, // default DB
	})

	if _, err := client.Ping(Ctx).Result(); err != nil {
		log.Printf("Failed to connect to Redis: %v (issue rate limiting disabled)", err)
		return
	}

	RedisClient = client
	log.Println("Connected to Redis")
}
