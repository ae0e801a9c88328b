// In file: internal/suggest/stats.go
package suggest

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsKey = "calcstats:suggest"

// Stats tracks how the suggestion capability is behaving: total successes and
// failures plus cumulative latency, kept in a Redis hash so the numbers
// survive restarts and are shared across gateway instances.
type Stats struct {
	rdb *redis.Client
}

func NewStats(rdb *redis.Client) *Stats {
	return &Stats{rdb: rdb}
}

// RecordSuccess increments the success counter and accumulates latency.
func (s *Stats) RecordSuccess(ctx context.Context, latency time.Duration) error {
	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, statsKey, "total_successes", 1)
	pipe.HIncrBy(ctx, statsKey, "total_latency_ms", latency.Milliseconds())
	_, err := pipe.Exec(ctx)
	return err
}

// RecordFailure increments the failure counter.
func (s *Stats) RecordFailure(ctx context.Context) error {
	return s.rdb.HIncrBy(ctx, statsKey, "total_failures", 1).Err()
}

// Snapshot is a read-only view of the counters.
type Snapshot struct {
	TotalSuccesses int64 `json:"total_successes"`
	TotalFailures  int64 `json:"total_failures"`
	AvgLatencyMS   int64 `json:"avg_latency_ms"`
}

// Read returns the current counters. Missing fields read as zero, so a fresh
// deployment reports an all-zero snapshot rather than an error.
func (s *Stats) Read(ctx context.Context) (*Snapshot, error) {
	data, err := s.rdb.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	snap.TotalSuccesses, _ = strconv.ParseInt(data["total_successes"], 10, 64)
	snap.TotalFailures, _ = strconv.ParseInt(data["total_failures"], 10, 64)
	totalLatency, _ := strconv.ParseInt(data["total_latency_ms"], 10, 64)
	if snap.TotalSuccesses > 0 {
		snap.AvgLatencyMS = totalLatency / snap.TotalSuccesses
	}
	return snap, nil
}
