// In file: internal/calc/executor.go
package calc

import (
	"context"
	"fmt"
	"time"

	"calc-gateway/internal/api"
	"calc-gateway/internal/history"

	"github.com/google/uuid"
)

// Executor validates operands, runs the registered operation, and appends the
// resulting record to the owner's history. History reflects completed
// operations only: a failure anywhere on the path appends nothing.
type Executor struct {
	registry *Registry
	ledger   history.Ledger
}

func NewExecutor(registry *Registry, ledger history.Ledger) *Executor {
	return &Executor{registry: registry, ledger: ledger}
}

// Execute runs the named operation for owner and records the outcome.
// Failure kinds, in the order they are checked:
//   - invalid_operand for NaN or ±Inf operands,
//   - unknown_operation for an unregistered name,
//   - domain_error when the operation itself is undefined for the operands
//     (or its result is not a finite number).
func (e *Executor) Execute(ctx context.Context, owner, name string, a, b float64) (*api.OperationRecord, error) {
	if !isFinite(a) || !isFinite(b) {
		return nil, api.NewError(api.KindInvalidOperand, "operands must be finite numbers (got a=%v, b=%v)", a, b)
	}

	op, err := e.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	result, err := op.Apply(a, b)
	if err != nil {
		return nil, api.WrapError(api.KindDomainError, err, "%s(%g, %g): %v", name, a, b, err)
	}
	if !isFinite(result) {
		return nil, api.NewError(api.KindDomainError, "%s(%g, %g) has no finite result", name, a, b)
	}

	record := &api.OperationRecord{
		ID:        uuid.NewString(),
		Owner:     owner,
		Operation: name,
		OperandA:  a,
		OperandB:  b,
		Result:    result,
		Timestamp: time.Now().UTC(),
	}

	if err := e.ledger.Append(ctx, owner, record); err != nil {
		return nil, fmt.Errorf("failed to record %s operation for %s: %w", name, owner, err)
	}
	return record, nil
}
