// In file: internal/history/memory_test.go
package history

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"calc-gateway/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecord(owner, operation string, a, b, result float64) *api.OperationRecord {
	return &api.OperationRecord{
		ID:        fmt.Sprintf("%s-%s-%g-%g", owner, operation, a, b),
		Owner:     owner,
		Operation: operation,
		OperandA:  a,
		OperandB:  b,
		Result:    result,
		Timestamp: time.Now().UTC(),
	}
}

func TestMemoryLedgerAppendAndListOrder(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "alice", makeRecord("alice", "add", 1, 2, 3)))
	require.NoError(t, ledger.Append(ctx, "alice", makeRecord("alice", "subtract", 5, 2, 3)))
	require.NoError(t, ledger.Append(ctx, "alice", makeRecord("alice", "multiply", 2, 2, 4)))

	records, err := ledger.List(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "add", records[0].Operation)
	assert.Equal(t, "subtract", records[1].Operation)
	assert.Equal(t, "multiply", records[2].Operation)
}

func TestMemoryLedgerListUnknownOwnerIsEmpty(t *testing.T) {
	ledger := NewMemoryLedger()

	records, err := ledger.List(context.Background(), "nobody", 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestMemoryLedgerPagination(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, ledger.Append(ctx, "alice", makeRecord("alice", "add", float64(i), 1, float64(i+1))))
	}

	page, err := ledger.List(ctx, "alice", 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 1.0, page[0].OperandA)
	assert.Equal(t, 2.0, page[1].OperandA)

	// An offset past the end is an empty page, not an error.
	page, err = ledger.List(ctx, "alice", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	// A limit past the end is truncated.
	page, err = ledger.List(ctx, "alice", 100, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 4.0, page[0].OperandA)
}

func TestMemoryLedgerUndoRoundTrip(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "alice", makeRecord("alice", "add", 1, 2, 3)))
	before, err := ledger.List(ctx, "alice", 0, 0)
	require.NoError(t, err)

	appended := makeRecord("alice", "divide", 8, 2, 4)
	require.NoError(t, ledger.Append(ctx, "alice", appended))

	undone, err := ledger.Undo(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, appended.ID, undone.ID)

	after, err := ledger.List(ctx, "alice", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, before, after, "undo must restore the pre-append sequence")
}

func TestMemoryLedgerUndoEmpty(t *testing.T) {
	ledger := NewMemoryLedger()

	record, err := ledger.Undo(context.Background(), "alice")
	assert.Nil(t, record)
	require.ErrorIs(t, err, ErrUndoEmpty)

	kind, ok := api.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, api.KindUndoEmpty, kind)
}

func TestMemoryLedgerClearIdempotent(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "alice", makeRecord("alice", "add", 1, 2, 3)))
	require.NoError(t, ledger.Append(ctx, "alice", makeRecord("alice", "add", 3, 4, 7)))

	removed, err := ledger.Clear(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	removed, err = ledger.Clear(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	records, err := ledger.List(ctx, "alice", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryLedgerOwnerIsolation(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, "alice", makeRecord("alice", "add", 1, 2, 3)))
	require.NoError(t, ledger.Append(ctx, "bob", makeRecord("bob", "multiply", 2, 3, 6)))

	aliceRecords, err := ledger.List(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, aliceRecords, 1)
	assert.Equal(t, "add", aliceRecords[0].Operation)

	// Clearing alice leaves bob untouched.
	_, err = ledger.Clear(ctx, "alice")
	require.NoError(t, err)

	bobRecords, err := ledger.List(ctx, "bob", 0, 0)
	require.NoError(t, err)
	require.Len(t, bobRecords, 1)
	assert.Equal(t, "multiply", bobRecords[0].Operation)
}

// TestMemoryLedgerConcurrentAppends hammers one owner from many goroutines
// and checks that no append is lost and every stored record is distinct.
func TestMemoryLedgerConcurrentAppends(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	const goroutines = 16
	const perGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				rec := makeRecord("alice", "add", float64(g), float64(i), float64(g+i))
				rec.ID = fmt.Sprintf("g%d-i%d", g, i)
				if err := ledger.Append(ctx, "alice", rec); err != nil {
					t.Errorf("append failed: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	records, err := ledger.List(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, goroutines*perGoroutine)

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		assert.False(t, seen[rec.ID], "record %s stored twice", rec.ID)
		seen[rec.ID] = true
	}
}

// TestMemoryLedgerConcurrentMixedOps runs appends, undos, lists, and clears
// together; the invariant checked is simply that nothing panics or corrupts
// the sequence into a negative or impossible state.
func TestMemoryLedgerConcurrentMixedOps(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			owner := fmt.Sprintf("owner-%d", g%2)
			for i := 0; i < 40; i++ {
				switch i % 4 {
				case 0:
					_ = ledger.Append(ctx, owner, makeRecord(owner, "add", float64(i), 1, float64(i+1)))
				case 1:
					_, _ = ledger.Undo(ctx, owner)
				case 2:
					_, _ = ledger.List(ctx, owner, 0, 0)
				case 3:
					_, _ = ledger.Clear(ctx, owner)
				}
			}
		}(g)
	}
	wg.Wait()

	for _, owner := range []string{"owner-0", "owner-1"} {
		records, err := ledger.List(ctx, owner, 0, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(records), 0)
	}
}
