// In file: internal/history/memory.go
package history

import (
	"context"
	"sync"

	"calc-gateway/internal/api"
)

// MemoryLedger keeps each owner's sequence in process memory. Every owner
// gets its own mutex, so concurrent requests for different owners never
// contend; the outer RWMutex guards only the bucket lookup.
type MemoryLedger struct {
	mu     sync.RWMutex
	owners map[string]*ownerLog
}

type ownerLog struct {
	mu      sync.Mutex
	records []api.OperationRecord
}

var _ Ledger = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{owners: make(map[string]*ownerLog)}
}

// log returns owner's bucket, creating it if needed.
func (l *MemoryLedger) log(owner string) *ownerLog {
	l.mu.RLock()
	ol, ok := l.owners[owner]
	l.mu.RUnlock()
	if ok {
		return ol
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if ol, ok = l.owners[owner]; ok {
		return ol
	}
	ol = &ownerLog{}
	l.owners[owner] = ol
	return ol
}

func (l *MemoryLedger) Append(ctx context.Context, owner string, record *api.OperationRecord) error {
	ol := l.log(owner)
	ol.mu.Lock()
	defer ol.mu.Unlock()
	// Store a copy: the ledger owns its records, callers keep theirs.
	ol.records = append(ol.records, *record)
	return nil
}

func (l *MemoryLedger) List(ctx context.Context, owner string, limit, offset int) ([]api.OperationRecord, error) {
	ol := l.log(owner)
	ol.mu.Lock()
	defer ol.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ol.records) {
		return []api.OperationRecord{}, nil
	}
	end := len(ol.records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	page := make([]api.OperationRecord, end-offset)
	copy(page, ol.records[offset:end])
	return page, nil
}

func (l *MemoryLedger) Undo(ctx context.Context, owner string) (*api.OperationRecord, error) {
	ol := l.log(owner)
	ol.mu.Lock()
	defer ol.mu.Unlock()

	if len(ol.records) == 0 {
		return nil, ErrUndoEmpty
	}
	last := ol.records[len(ol.records)-1]
	ol.records = ol.records[:len(ol.records)-1]
	return &last, nil
}

func (l *MemoryLedger) Clear(ctx context.Context, owner string) (int64, error) {
	ol := l.log(owner)
	ol.mu.Lock()
	defer ol.mu.Unlock()

	removed := int64(len(ol.records))
	ol.records = nil
	return removed, nil
}
