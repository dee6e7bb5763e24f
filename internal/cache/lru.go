package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// LRUCache is a thread-safe in-process policy cache with TTL eviction.
type LRUCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[int64]*list.Element
	order   *list.List
}

type lruEntry struct {
	merchantID int64
	policy     *model.RewardPolicy
	expiresAt  time.Time
}

// NewLRUCache creates an LRU policy cache holding at most maxSize entries.
func NewLRUCache(maxSize int, ttl time.Duration) *LRUCache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LRUCache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[int64]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached policy or nil on a miss.
func (c *LRUCache) Get(ctx context.Context, merchantID int64) (*model.RewardPolicy, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[merchantID]
	if !ok {
		return nil, nil
	}
	entry := elem.Value.(*lruEntry)
	if time.Now().After(entry.expiresAt) {
		c.removeElement(elem)
		return nil, nil
	}
	c.order.MoveToFront(elem)
	return entry.policy, nil
}

// Set stores the policy, evicting the least recently used entry when full.
func (c *LRUCache) Set(ctx context.Context, merchantID int64, policy *model.RewardPolicy) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[merchantID]; ok {
		entry := elem.Value.(*lruEntry)
		entry.policy = policy
		entry.expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(elem)
		return nil
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}

	elem := c.order.PushFront(&lruEntry{
		merchantID: merchantID,
		policy:     policy,
		expiresAt:  time.Now().Add(c.ttl),
	})
	c.items[merchantID] = elem
	return nil
}

// Invalidate drops the entry for a merchant.
func (c *LRUCache) Invalidate(ctx context.Context, merchantID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[merchantID]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Close releases all entries.
func (c *LRUCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[int64]*list.Element)
	c.order.Init()
	return nil
}

// Len reports the number of cached policies.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRUCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*lruEntry)
	delete(c.items, entry.merchantID)
	c.order.Remove(elem)
}
