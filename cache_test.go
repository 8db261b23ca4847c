package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan(t *testing.T) *Plan {
	t.Helper()
	plan, err := GeneratePlan(scenarioCards(), 10000, Avalanche, fixedOpts(t, "2025-03-01"))
	require.NoError(t, err)
	return plan
}

func exercisePlanCache(t *testing.T, cache PlanCache, userID int64) {
	t.Helper()
	ctx := context.Background()

	_, ok := cache.Get(ctx, userID)
	assert.False(t, ok)

	plan := samplePlan(t)
	require.NoError(t, cache.Set(ctx, userID, plan))

	got, ok := cache.Get(ctx, userID)
	require.True(t, ok)
	assert.Equal(t, plan.PlanID, got.PlanID)
	assert.Equal(t, plan.Actions, got.Actions)
	assert.Equal(t, plan.ReferenceDate, got.ReferenceDate)

	_, ok = cache.Get(ctx, userID+1)
	assert.False(t, ok, "entries are per user")

	require.NoError(t, cache.Delete(ctx, userID))
	_, ok = cache.Get(ctx, userID)
	assert.False(t, ok)
}

func TestMemoryPlanCache(t *testing.T) {
	exercisePlanCache(t, NewMemoryPlanCache(time.Minute), 7)
}

func TestMemoryPlanCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryPlanCache(10 * time.Millisecond)
	require.NoError(t, cache.Set(ctx, 1, samplePlan(t)))

	time.Sleep(20 * time.Millisecond)
	_, ok := cache.Get(ctx, 1)
	assert.False(t, ok)
}

func TestMemoryPlanCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryPlanCache(time.Minute)
	require.NoError(t, cache.Set(ctx, 1, samplePlan(t)))

	got, ok := cache.Get(ctx, 1)
	require.True(t, ok)
	got.Actions[0].AmountCents = 1

	again, ok := cache.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, int64(5000), again.Actions[0].AmountCents)
}

func TestRedisPlanCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis test")
	}
	cache := NewRedisPlanCache(addr, time.Minute)
	defer cache.Close()
	require.NoError(t, cache.Ping(context.Background()))

	userID := time.Now().UnixNano()
	exercisePlanCache(t, cache, userID)
}

func TestPlanCacheKey(t *testing.T) {
	assert.Equal(t, "ccplanner:plan:latest:42", planCacheKey(42))
}
