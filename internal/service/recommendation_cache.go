package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"school-advisor/internal/domain"
)

// RecommendationCache guarda un RecommendationSet por (usuario, codigo).
// Put no sobreescribe: devuelve stored=false si ya habia un valor.
type RecommendationCache interface {
	Get(ctx context.Context, userID string, code domain.TraitCode) (domain.RecommendationSet, bool, error)
	Put(ctx context.Context, set domain.RecommendationSet) (bool, error)
	Delete(ctx context.Context, userID string, code domain.TraitCode) error
}

type memoryRecommendationCache struct {
	mu    sync.Mutex
	items map[string]domain.RecommendationSet
}

func NewMemoryRecommendationCache() RecommendationCache {
	return &memoryRecommendationCache{
		items: make(map[string]domain.RecommendationSet),
	}
}

func (c *memoryRecommendationCache) Get(_ context.Context, userID string, code domain.TraitCode) (domain.RecommendationSet, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.items[cacheKey(userID, code)]
	return set, ok, nil
}

func (c *memoryRecommendationCache) Put(_ context.Context, set domain.RecommendationSet) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(set.UserID, set.TraitCode)
	if _, exists := c.items[key]; exists {
		return false, nil
	}
	c.items[key] = set
	return true, nil
}

func (c *memoryRecommendationCache) Delete(_ context.Context, userID string, code domain.TraitCode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, cacheKey(userID, code))
	return nil
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisRecommendationCache struct {
	client  redisKVClient
	prefix  string
	timeout time.Duration
}

// NewRedisRecommendationCache usa SETNX para que gane el primer writer.
func NewRedisRecommendationCache(client *redis.Client) RecommendationCache {
	if client == nil {
		return nil
	}
	return &redisRecommendationCache{
		client:  client,
		prefix:  "reco:set:",
		timeout: 500 * time.Millisecond,
	}
}

func (c *redisRecommendationCache) Get(ctx context.Context, userID string, code domain.TraitCode) (domain.RecommendationSet, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+cacheKey(userID, code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RecommendationSet{}, false, nil
	}
	if err != nil {
		return domain.RecommendationSet{}, false, err
	}
	var set domain.RecommendationSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.RecommendationSet{}, false, fmt.Errorf("decode cached set: %w", err)
	}
	return set, true, nil
}

func (c *redisRecommendationCache) Put(ctx context.Context, set domain.RecommendationSet) (bool, error) {
	payload, err := json.Marshal(set)
	if err != nil {
		return false, fmt.Errorf("encode set: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.SetNX(ctx, c.prefix+cacheKey(set.UserID, set.TraitCode), payload, 0).Result()
}

func (c *redisRecommendationCache) Delete(ctx context.Context, userID string, code domain.TraitCode) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Del(ctx, c.prefix+cacheKey(userID, code)).Err()
}

func cacheKey(userID string, code domain.TraitCode) string {
	return strings.TrimSpace(userID) + ":" + string(code)
}
