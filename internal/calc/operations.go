// In file: internal/calc/operations.go

// Package calc implements the arithmetic core of the gateway: the operation
// registry, the builtin operations, and the executor that validates operands,
// runs an operation, and records the outcome in the history ledger.
package calc

import (
	"errors"
	"math"
)

// Operation is a single named binary arithmetic function. Implementations
// must be pure: no state, no side effects, same output for same inputs.
// Apply returns an error only when the operation is mathematically undefined
// for the given operands.
type Operation interface {
	// Name returns the unique name the operation is registered under.
	Name() string
	// Apply computes the result for the two operands.
	Apply(a, b float64) (float64, error)
}

// --- Builtin Operations ---

// Statically verify that every builtin implements the Operation interface.
var (
	_ Operation = (*AddOperation)(nil)
	_ Operation = (*SubtractOperation)(nil)
	_ Operation = (*MultiplyOperation)(nil)
	_ Operation = (*DivideOperation)(nil)
)

// AddOperation adds two numbers.
type AddOperation struct{}

func (AddOperation) Name() string { return "add" }

func (AddOperation) Apply(a, b float64) (float64, error) {
	return a + b, nil
}

// SubtractOperation subtracts the second number from the first.
type SubtractOperation struct{}

func (SubtractOperation) Name() string { return "subtract" }

func (SubtractOperation) Apply(a, b float64) (float64, error) {
	return a - b, nil
}

// MultiplyOperation multiplies two numbers.
type MultiplyOperation struct{}

func (MultiplyOperation) Name() string { return "multiply" }

func (MultiplyOperation) Apply(a, b float64) (float64, error) {
	return a * b, nil
}

// DivideOperation divides the first number by the second.
// Division by zero is undefined and fails rather than producing ±Inf.
type DivideOperation struct{}

func (DivideOperation) Name() string { return "divide" }

func (DivideOperation) Apply(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errors.New("Cannot divide by zero!")
	}
	return a / b, nil
}

// Builtins returns the operations every gateway instance registers at
// startup. Adding an operation here (or registering an extra one in main)
// requires no change to the executor or the suggestion resolver.
func Builtins() []Operation {
	return []Operation{
		AddOperation{},
		SubtractOperation{},
		MultiplyOperation{},
		DivideOperation{},
	}
}

// isFinite reports whether v is a usable operand (not NaN, not ±Inf).
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
