package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jobtrail-dev/jobtrail/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DashboardCache keeps the serialized dashboard payload per user in Redis.
// A nil *DashboardCache is a valid, fully disabled cache; every method is
// nil-safe so callers never have to branch on configuration.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func dashboardKey(userID uint) string {
	return fmt.Sprintf("dashboard:user:%d", userID)
}

// New connects to Redis at addr. An empty addr yields a disabled cache.
func New(addr, password string, ttl time.Duration) (*DashboardCache, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &DashboardCache{client: client, ttl: ttl}, nil
}

func (c *DashboardCache) Close() error {
	if c == nil {
		return nil
	}

	return c.client.Close()
}

// Get returns the cached payload for userID, or false on miss or error.
func (c *DashboardCache) Get(ctx context.Context, userID uint) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, dashboardKey(userID)).Bytes()

	if err == redis.Nil {
		return nil, false
	}

	if err != nil {
		logger.Log.Warn("dashboard cache get failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, false
	}

	return data, true
}

func (c *DashboardCache) Set(ctx context.Context, userID uint, payload []byte) {
	if c == nil {
		return
	}

	if err := c.client.Set(ctx, dashboardKey(userID), payload, c.ttl).Err(); err != nil {
		logger.Log.Warn("dashboard cache set failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// Invalidate drops the cached dashboard after any pipeline mutation.
func (c *DashboardCache) Invalidate(ctx context.Context, userID uint) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, dashboardKey(userID)).Err(); err != nil {
		logger.Log.Warn("dashboard cache invalidate failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
