package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"school-advisor/internal/domain"
)

type mockRedisKVClient struct {
	values     map[string]string
	lastSetKey string
	lastSetTTL time.Duration
	lastDel    []string

	getErr   error
	setNXErr error
	delErr   error
}

func newMockRedisKVClient() *mockRedisKVClient {
	return &mockRedisKVClient{values: make(map[string]string)}
}

func (m *mockRedisKVClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	v, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockRedisKVClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.lastSetKey = key
	m.lastSetTTL = expiration
	cmd := redis.NewBoolCmd(ctx)
	if m.setNXErr != nil {
		cmd.SetErr(m.setNXErr)
		return cmd
	}
	if _, exists := m.values[key]; exists {
		cmd.SetVal(false)
		return cmd
	}
	m.values[key] = string(value.([]byte))
	cmd.SetVal(true)
	return cmd
}

func (m *mockRedisKVClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastDel = keys
	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func newTestRedisCache(client redisKVClient) *redisRecommendationCache {
	return &redisRecommendationCache{client: client, prefix: "reco:set:", timeout: 500 * time.Millisecond}
}

func sampleSet(id string) domain.RecommendationSet {
	return domain.RecommendationSet{
		ID:          id,
		UserID:      "u1",
		TraitCode:   "RIA",
		Results:     []domain.RecommendedProgram{{Rank: 1, ProgramID: "p1", Title: "BS Computer Science"}},
		GeneratedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryRecommendationCache_FirstWriterWins(t *testing.T) {
	cache := NewMemoryRecommendationCache()
	ctx := context.Background()

	if _, found, _ := cache.Get(ctx, "u1", "RIA"); found {
		t.Fatalf("expected empty cache")
	}
	stored, err := cache.Put(ctx, sampleSet("a"))
	if err != nil || !stored {
		t.Fatalf("expected first put stored, got %v,%v", stored, err)
	}
	stored, err = cache.Put(ctx, sampleSet("b"))
	if err != nil || stored {
		t.Fatalf("expected second put rejected, got %v,%v", stored, err)
	}
	got, found, _ := cache.Get(ctx, "u1", "RIA")
	if !found || got.ID != "a" {
		t.Fatalf("expected first writer, got %+v", got)
	}
	if err := cache.Delete(ctx, "u1", "RIA"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := cache.Get(ctx, "u1", "RIA"); found {
		t.Fatalf("expected deleted entry")
	}
}

func TestRedisRecommendationCache_SetNX(t *testing.T) {
	mock := newMockRedisKVClient()
	cache := newTestRedisCache(mock)
	ctx := context.Background()

	stored, err := cache.Put(ctx, sampleSet("a"))
	if err != nil || !stored {
		t.Fatalf("expected stored, got %v,%v", stored, err)
	}
	if mock.lastSetKey != "reco:set:u1:RIA" || mock.lastSetTTL != 0 {
		t.Fatalf("unexpected setnx key=%q ttl=%v", mock.lastSetKey, mock.lastSetTTL)
	}
	stored, err = cache.Put(ctx, sampleSet("b"))
	if err != nil || stored {
		t.Fatalf("expected conflict, got %v,%v", stored, err)
	}

	got, found, err := cache.Get(ctx, "u1", "RIA")
	if err != nil || !found {
		t.Fatalf("expected cached set, got %v,%v", found, err)
	}
	if got.ID != "a" || len(got.Results) != 1 || got.Results[0].ProgramID != "p1" {
		t.Fatalf("unexpected cached set: %+v", got)
	}

	var decoded domain.RecommendationSet
	if err := json.Unmarshal([]byte(mock.values["reco:set:u1:RIA"]), &decoded); err != nil {
		t.Fatalf("stored payload is not json: %v", err)
	}

	if err := cache.Delete(ctx, "u1", "RIA"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(mock.lastDel) != 1 || mock.lastDel[0] != "reco:set:u1:RIA" {
		t.Fatalf("unexpected del keys: %v", mock.lastDel)
	}
}

func TestRedisRecommendationCache_Errors(t *testing.T) {
	ctx := context.Background()

	mock := newMockRedisKVClient()
	if _, found, err := newTestRedisCache(mock).Get(ctx, "u1", "RIA"); err != nil || found {
		t.Fatalf("missing key must be a clean miss, got %v,%v", found, err)
	}

	mock.getErr = errors.New("redis down")
	if _, _, err := newTestRedisCache(mock).Get(ctx, "u1", "RIA"); err == nil {
		t.Fatalf("expected read error")
	}

	mock = newMockRedisKVClient()
	mock.setNXErr = errors.New("redis down")
	if _, err := newTestRedisCache(mock).Put(ctx, sampleSet("a")); err == nil {
		t.Fatalf("expected write error")
	}

	mock = newMockRedisKVClient()
	mock.values["reco:set:u1:RIA"] = "{not json"
	if _, _, err := newTestRedisCache(mock).Get(ctx, "u1", "RIA"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewRedisRecommendationCache_NilClient(t *testing.T) {
	if NewRedisRecommendationCache(nil) != nil {
		t.Fatalf("expected nil cache for nil client")
	}
}
