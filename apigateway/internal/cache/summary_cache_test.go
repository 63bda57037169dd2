package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/summary"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestCache needs a Redis at REDIS_ADDR (default localhost:6379).
func setupTestCache(t *testing.T) *SummaryCache {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", addr, err)
	}

	prefix := "test:" + t.Name() + ":"
	client.Del(ctx, prefix+generationKey, prefix+weeklySummaryKey+":0")
	return New(client, prefix, time.Minute)
}

func sampleReport(year int) *summary.Report {
	week := time.Date(year, time.September, 14, 0, 0, 0, 0, time.UTC)
	return &summary.Report{
		Year: year,
		Buckets: []summary.Bucket{{
			Week:       &week,
			OpenTasks:  1,
			TotalTasks: 1,
			Tasks: []summary.BucketTask{{
				ID:       "1",
				Title:    "Standup",
				DateTime: domain.DateTime{StartTime: "09:15", EndTime: "09:30"},
				Priority: domain.PriorityLow,
				Status:   domain.StatusInProgress,
			}},
		}},
	}
}

func TestSummaryCache_RoundTrip(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	_, hit, err := c.Get(ctx, gen, 2026)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, gen, sampleReport(2026)))

	got, hit, err := c.Get(ctx, gen, 2026)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, sampleReport(2026), got)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(1), stats.Sets)
}

func TestSummaryCache_OtherYearIsMiss(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, sampleReport(2025)))

	_, hit, err := c.Get(ctx, 0, 2026)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSummaryCache_Invalidate(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, sampleReport(2026)))
	require.NoError(t, c.Invalidate(ctx))

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	_, hit, err := c.Get(ctx, gen, 2026)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSummaryCache_ReportFromBeforeInvalidateIsNotServed(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	before, err := c.Generation(ctx)
	require.NoError(t, err)

	// A mutation lands while the report is being computed.
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, before, sampleReport(2026)))

	now, err := c.Generation(ctx)
	require.NoError(t, err)
	_, hit, err := c.Get(ctx, now, 2026)
	require.NoError(t, err)
	assert.False(t, hit)
}
