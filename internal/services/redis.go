package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kavinesh/fleetbook-backend/internal/scheduling"
)

// InitRedis connects the client used for availability caching.
func InitRedis() (*redis.Client, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return client, nil
}

// availabilityTTL keeps cached candidate pools short-lived: assignments
// change availability and the cache is only a UI precomputation.
const availabilityTTL = 30 * time.Second

// AvailabilityCache caches driver/vehicle availability per time window.
// Implements scheduling.AvailabilityCache.
type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

func availabilityKey(w scheduling.Window) string {
	return fmt.Sprintf("availability:%d:%d", w.Start.Unix(), w.End.Unix())
}

func (c *AvailabilityCache) Get(ctx context.Context, w scheduling.Window) (*scheduling.AvailabilitySet, bool) {
	data, err := c.client.Get(ctx, availabilityKey(w)).Result()
	if err != nil {
		return nil, false
	}

	var set scheduling.AvailabilitySet
	if err := json.Unmarshal([]byte(data), &set); err != nil {
		logrus.WithError(err).Warn("corrupt availability cache entry")
		return nil, false
	}
	return &set, true
}

func (c *AvailabilityCache) Set(ctx context.Context, w scheduling.Window, set *scheduling.AvailabilitySet) {
	data, err := json.Marshal(set)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, availabilityKey(w), data, availabilityTTL).Err(); err != nil {
		logrus.WithError(err).Warn("failed to cache availability")
	}
}

// InvalidateAvailability drops every cached window after an assignment
// changes the schedule.
func InvalidateAvailability(ctx context.Context, client *redis.Client) {
	iter := client.Scan(ctx, 0, "availability:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Warn("failed to invalidate availability cache")
	}
}
