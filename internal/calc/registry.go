// In file: internal/calc/registry.go
package calc

import (
	"fmt"

	"calc-gateway/internal/api"
)

// Registry maps operation names to their implementations. It is populated
// once in main before the server starts accepting requests and is read-only
// afterwards, so lookups need no locking.
type Registry struct {
	ops   map[string]Operation
	order []string // preserves registration order for deterministic listing
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

// Register adds an operation under its name. Registering a name twice is an
// error rather than a silent overwrite, so a misconfigured startup cannot
// shadow an existing operation.
func (r *Registry) Register(op Operation) error {
	name := op.Name()
	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("operation %q is already registered", name)
	}
	r.ops[name] = op
	r.order = append(r.order, name)
	return nil
}

// Resolve returns the operation registered under name.
func (r *Registry) Resolve(name string) (Operation, error) {
	op, ok := r.ops[name]
	if !ok {
		return nil, api.NewError(api.KindUnknownOperation, "unknown operation %q", name)
	}
	return op, nil
}

// Names returns the registered operation names in registration order. The
// suggestion resolver uses this both to build its prompt and to validate the
// model's answer.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered operations.
func (r *Registry) Count() int {
	return len(r.ops)
}
