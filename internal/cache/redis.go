package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// RedisCache stores policies in Redis so multiple instances share one view
// of the active policies.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr string, ttl time.Duration) (*RedisCache, error) {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached policy or nil on a miss.
func (c *RedisCache) Get(ctx context.Context, merchantID int64) (*model.RewardPolicy, error) {
	data, err := c.client.Get(ctx, policyKey(merchantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var policy model.RewardPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// Set stores the policy with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, merchantID int64, policy *model.RewardPolicy) error {
	data, err := json.Marshal(policy)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, policyKey(merchantID), data, c.ttl).Err()
}

// Invalidate drops the entry for a merchant.
func (c *RedisCache) Invalidate(ctx context.Context, merchantID int64) error {
	return c.client.Del(ctx, policyKey(merchantID)).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func policyKey(merchantID int64) string {
	return fmt.Sprintf("rewardmart:policy:%d", merchantID)
}
