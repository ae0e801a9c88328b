// In file: internal/history/redis.go
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"calc-gateway/internal/api"

	"github.com/redis/go-redis/v9"
)

// historyKeyPrefix namespaces the per-owner list keys in Redis.
const historyKeyPrefix = "calchist:"

// RedisLedger stores each owner's sequence as one Redis list, records encoded
// as JSON. RPUSH/RPOP give the append/undo pair its total order server-side,
// so two concurrent executes for the same owner always land as two records in
// some order, never a lost update.
type RedisLedger struct {
	rdb *redis.Client
}

var _ Ledger = (*RedisLedger)(nil)

func NewRedisLedger(rdb *redis.Client) *RedisLedger {
	return &RedisLedger{rdb: rdb}
}

func (l *RedisLedger) key(owner string) string {
	return historyKeyPrefix + owner
}

func (l *RedisLedger) Append(ctx context.Context, owner string, record *api.OperationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := l.rdb.RPush(ctx, l.key(owner), payload).Err(); err != nil {
		return fmt.Errorf("failed to append record for %s: %w", owner, err)
	}
	return nil
}

func (l *RedisLedger) List(ctx context.Context, owner string, limit, offset int) ([]api.OperationRecord, error) {
	if offset < 0 {
		offset = 0
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}

	raw, err := l.rdb.LRange(ctx, l.key(owner), int64(offset), stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", owner, err)
	}

	records := make([]api.OperationRecord, 0, len(raw))
	for _, item := range raw {
		var rec api.OperationRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("corrupt history record for %s: %w", owner, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *RedisLedger) Undo(ctx context.Context, owner string) (*api.OperationRecord, error) {
	raw, err := l.rdb.RPop(ctx, l.key(owner)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUndoEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to undo for %s: %w", owner, err)
	}

	var rec api.OperationRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("corrupt history record for %s: %w", owner, err)
	}
	return &rec, nil
}

func (l *RedisLedger) Clear(ctx context.Context, owner string) (int64, error) {
	key := l.key(owner)

	// LLen then Del is not atomic, but the count is informational: a record
	// appended between the two commands is still deleted, it just isn't
	// counted. The list itself is never left partially cleared.
	count, err := l.rdb.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count history for %s: %w", owner, err)
	}
	if err := l.rdb.Del(ctx, key).Err(); err != nil {
		return 0, fmt.Errorf("failed to clear history for %s: %w", owner, err)
	}
	return count, nil
}
