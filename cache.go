package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// PlanCache holds the latest plan per user so GET /api/plan skips the
// database. Entries are replaced whenever a plan is written.
type PlanCache interface {
	Get(ctx context.Context, userID int64) (*Plan, bool)
	Set(ctx context.Context, userID int64, p *Plan) error
	Delete(ctx context.Context, userID int64) error
}

func planCacheKey(userID int64) string {
	return fmt.Sprintf("ccplanner:plan:latest:%d", userID)
}

type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanCache(addr string, ttl time.Duration) *RedisPlanCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisPlanCache{client: rdb, ttl: ttl}
}

func (r *RedisPlanCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisPlanCache) Get(ctx context.Context, userID int64) (*Plan, bool) {
	val, err := r.client.Get(ctx, planCacheKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			loggerFrom(ctx).Warn("plan cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var p Plan
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (r *RedisPlanCache) Set(ctx context.Context, userID int64, p *Plan) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, planCacheKey(userID), b, r.ttl).Err()
}

func (r *RedisPlanCache) Delete(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, planCacheKey(userID)).Err()
}

func (r *RedisPlanCache) Close() error { return r.client.Close() }

type memoryCacheEntry struct {
	plan    []byte
	expires time.Time
}

type MemoryPlanCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[int64]memoryCacheEntry
}

func NewMemoryPlanCache(ttl time.Duration) *MemoryPlanCache {
	return &MemoryPlanCache{ttl: ttl, data: make(map[int64]memoryCacheEntry)}
}

func (m *MemoryPlanCache) Get(ctx context.Context, userID int64) (*Plan, bool) {
	m.mu.Lock()
	e, ok := m.data[userID]
	if ok && time.Now().After(e.expires) {
		delete(m.data, userID)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	var p Plan
	if err := json.Unmarshal(e.plan, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (m *MemoryPlanCache) Set(ctx context.Context, userID int64, p *Plan) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID] = memoryCacheEntry{plan: b, expires: time.Now().Add(m.ttl)}
	return nil
}

func (m *MemoryPlanCache) Delete(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	return nil
}
