package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestHelpersWithoutClient(t *testing.T) {
	redisClient.Store(nil)
	ctx := context.Background()

	if IsConnected() {
		t.Fatal("connected without a client")
	}
	if _, err := GetRedis(ctx, "k"); !IsNil(err) {
		t.Errorf("GetRedis err = %v, want redis.Nil", err)
	}
	if ok, err := ExistsRedis(ctx, "k"); ok || err != nil {
		t.Errorf("ExistsRedis = %v, %v", ok, err)
	}
	if err := SetRedis(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("SetRedis err = %v", err)
	}
	if err := DelRedis(ctx, "k"); err != nil {
		t.Errorf("DelRedis err = %v", err)
	}
}

func TestClientSwapWhileReading(t *testing.T) {
	t.Cleanup(func() { redisClient.Store(nil) })
	c := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = IsConnected()
			}
		}()
	}
	redisClient.Store(c)
	wg.Wait()

	if !IsConnected() {
		t.Error("stored client not visible")
	}
}
