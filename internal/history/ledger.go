// In file: internal/history/ledger.go

// Package history implements the per-owner operation ledger: an append-only
// ordered log of completed calculations with undo (pop-last) and clear
// semantics. Two backends exist: an in-memory ledger for tests and
// single-process deployments, and a Redis-backed ledger for anything that
// needs to survive a restart.
package history

import (
	"context"

	"calc-gateway/internal/api"
)

// ErrUndoEmpty signals that an owner had no records to undo. It is carried
// as an error value so call sites can't miss it, but it is an expected
// condition: handlers report it as a benign status, never as a fault.
var ErrUndoEmpty = api.NewError(api.KindUndoEmpty, "nothing to undo")

// Ledger is the contract both backends satisfy. Insertion order is
// chronological order is undo order; owners are fully isolated from each
// other.
type Ledger interface {
	// Append adds a record to the end of owner's sequence.
	Append(ctx context.Context, owner string, record *api.OperationRecord) error

	// List returns owner's records oldest-first. A limit <= 0 returns the
	// full sequence from offset; offset counts from the oldest record so a
	// page stays stable while new records are appended. An owner with no
	// history gets an empty slice, not an error.
	List(ctx context.Context, owner string, limit, offset int) ([]api.OperationRecord, error)

	// Undo removes and returns owner's most recently appended record, or
	// ErrUndoEmpty when there is none.
	Undo(ctx context.Context, owner string) (*api.OperationRecord, error)

	// Clear removes all of owner's records and returns how many were
	// removed. Clearing an empty history returns 0.
	Clear(ctx context.Context, owner string) (int64, error)
}
