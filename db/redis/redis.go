package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"series_guide/configs"
	"series_guide/pkg/logger"

	"github.com/redis/go-redis/v9"
)

var redisClient atomic.Pointer[redis.Client]

func client() *redis.Client {
	return redisClient.Load()
}

// ConnectRedis is a no-op without REDIS_URL; callers then treat every key as absent.
// It blocks until the first ping returns, so run it before serving requests.
func ConnectRedis() {
	if configs.GetConfigs().RedisUrl == "" {
		logger.Warn("REDIS_URL not set, token revocation disabled")
		return
	}
	time.Sleep(time.Duration(configs.GetConfigs().WaitForRedisConnectionSec) * time.Second)
	c := redis.NewClient(&redis.Options{
		Addr:     configs.GetConfigs().RedisUrl,
		Password: configs.GetConfigs().RedisPassword,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pong, err := c.Ping(ctx).Result()
	logger.Info("redis client connected", "pong", pong, "error", err)
	redisClient.Store(c)
}

func IsConnected() bool {
	return client() != nil
}

func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

func GetRedis(ctx context.Context, key string) (string, error) {
	c := client()
	if c == nil {
		return "", redis.Nil
	}
	val, err := c.Get(ctx, key).Result()
	return val, err
}

func ExistsRedis(ctx context.Context, key string) (bool, error) {
	c := client()
	if c == nil {
		return false, nil
	}
	n, err := c.Exists(ctx, key).Result()
	return n > 0, err
}

func SetRedis(ctx context.Context, key string, value interface{}, duration time.Duration) error {
	c := client()
	if c == nil {
		return nil
	}
	err := c.Set(ctx, key, value, duration).Err()
	return err
}

func DelRedis(ctx context.Context, key string) error {
	c := client()
	if c == nil {
		return nil
	}
	return c.Del(ctx, key).Err()
}
