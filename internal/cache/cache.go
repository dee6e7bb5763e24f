// Package cache provides the merchant policy cache. The active policy is
// read on every purchase, so reads go through a cache and policy writes
// invalidate it.
package cache

import (
	"context"

	"github.com/loyaltyhub/rewardmart/internal/config"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// PolicyCache caches reward policies by merchant. Get returns nil, nil on a
// miss; a miss is not an error.
type PolicyCache interface {
	Get(ctx context.Context, merchantID int64) (*model.RewardPolicy, error)
	Set(ctx context.Context, merchantID int64, policy *model.RewardPolicy) error
	Invalidate(ctx context.Context, merchantID int64) error
	Close() error
}

// New selects the cache backend from configuration: Redis when an address is
// configured, an in-process LRU otherwise.
func New(cfg *config.Config) (PolicyCache, error) {
	if cfg.RedisAddr != "" {
		return NewRedisCache(cfg.RedisAddr, cfg.PolicyCacheTTL)
	}
	return NewLRUCache(cfg.PolicyCacheSize, cfg.PolicyCacheTTL), nil
}
