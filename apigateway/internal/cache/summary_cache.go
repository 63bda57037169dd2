// Package cache keeps computed weekly summaries in Redis (cache-aside).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/summary"
	"github.com/redis/go-redis/v9"
)

const (
	weeklySummaryKey = "weekly-summary"
	generationKey    = "weekly-summary:generation"
)

// Stats tracks cache statistics.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Sets    uint64 `json:"sets"`
	Deletes uint64 `json:"deletes"`
	Errors  uint64 `json:"errors"`
}

// SummaryCache stores the latest weekly summary report.
type SummaryCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	stats  *Stats
}

// New creates a summary cache. Keys are namespaced by prefix.
func New(client redis.UniversalClient, prefix string, ttl time.Duration) *SummaryCache {
	return &SummaryCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		stats:  &Stats{},
	}
}

// Generation returns the current invalidation counter. Reports are stored
// under the generation that was current when their computation started, so
// a report computed before an invalidation is never served after it.
func (c *SummaryCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.prefix+generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return 0, fmt.Errorf("cache generation error: %w", err)
	}
	return gen, nil
}

func (c *SummaryCache) reportKey(gen int64) string {
	return fmt.Sprintf("%s%s:%d", c.prefix, weeklySummaryKey, gen)
}

// Get returns the report cached for gen and year. A report computed for
// another year is a miss.
func (c *SummaryCache) Get(ctx context.Context, gen int64, year int) (*summary.Report, bool, error) {
	data, err := c.client.Get(ctx, c.reportKey(gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddUint64(&c.stats.Misses, 1)
			return nil, false, nil
		}
		atomic.AddUint64(&c.stats.Errors, 1)
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	var report summary.Report
	if err := json.Unmarshal(data, &report); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return nil, false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	if report.Year != year {
		atomic.AddUint64(&c.stats.Misses, 1)
		return nil, false, nil
	}

	atomic.AddUint64(&c.stats.Hits, 1)
	return &report, true, nil
}

// Set stores report under gen with the cache TTL.
func (c *SummaryCache) Set(ctx context.Context, gen int64, report *summary.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.reportKey(gen), data, c.ttl).Err(); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return fmt.Errorf("cache set error: %w", err)
	}
	atomic.AddUint64(&c.stats.Sets, 1)
	return nil
}

// Invalidate bumps the generation, orphaning every stored report. Orphans
// expire with the TTL.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.prefix+generationKey).Err(); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return fmt.Errorf("cache invalidate error: %w", err)
	}
	atomic.AddUint64(&c.stats.Deletes, 1)
	return nil
}

// Stats returns a snapshot of the counters.
func (c *SummaryCache) Stats() Stats {
	return Stats{
		Hits:    atomic.LoadUint64(&c.stats.Hits),
		Misses:  atomic.LoadUint64(&c.stats.Misses),
		Sets:    atomic.LoadUint64(&c.stats.Sets),
		Deletes: atomic.LoadUint64(&c.stats.Deletes),
		Errors:  atomic.LoadUint64(&c.stats.Errors),
	}
}
