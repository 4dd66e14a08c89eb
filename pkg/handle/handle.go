// Package handle implements LIMEX's Handle: the user-extensible table of
// named callables over the numeric type, seeded at construction with the
// built-ins spec.md §4.5 requires. A Handle is shared, read-mostly state:
// the tree builder resolves a function_call/aggregation token to a callable
// index at parse time, and the evaluator dispatches through that same index
// at evaluate time.
package handle

import "fmt"

// Callable is the signature every handle entry — built-in or user-added —
// implements: an ordered argument vector in, a single numeric result or
// error out.
type Callable func(args []float64) (float64, error)

// Reserved built-in indices, in the fixed order spec.md §4.5 mandates. The
// evaluator indexes directly by these constants for the built-ins it
// dispatches to internally (exponentiate→Pow, if_then_else→IfThenElse,
// membership→ElementOf/NotElementOf).
const (
	IfThenElse = iota
	NAryIf
	Abs
	Pow
	Sqrt
	Cbrt
	Sum
	Avg
	Count
	Min
	Max
	ElementOf
	NotElementOf
	At
	BuiltinCount
)

// Handle owns a parallel pair of lists: callable names and implementations.
// Registration is expected to complete before an expression is built or
// evaluated against it; per the concurrency model (spec.md §5) Handle does
// no internal locking — sharing a Handle across goroutines is safe only
// once registration has finished and only if every registered Callable is
// itself safe to invoke concurrently.
type Handle struct {
	names   []string
	impls   []Callable
	index   map[string]int
	closers []func() error
}

// New returns a Handle seeded with the 14 built-ins in their fixed order.
func New() *Handle {
	h := &Handle{
		index: make(map[string]int, BuiltinCount),
	}
	for _, b := range builtins {
		if err := h.Add(b.name, b.impl); err != nil {
			// Unreachable: builtins is a fixed, internally-deduplicated table.
			panic(fmt.Sprintf("limex: built-in registration failed: %v", err))
		}
	}
	return h
}

// Add registers a new callable under name. Names must be unique; Add
// returns an error if name is already registered.
func (h *Handle) Add(name string, impl Callable) error {
	if _, exists := h.index[name]; exists {
		return fmt.Errorf("limex: callable %q already registered", name)
	}
	h.index[name] = len(h.names)
	h.names = append(h.names, name)
	h.impls = append(h.impls, impl)
	return nil
}

// GetIndex looks up name, returning (index, true) if registered.
func (h *Handle) GetIndex(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// MustIndex looks up name and panics if it is not registered. The tree
// builder does not use it: it resolves names with GetIndex and reports an
// unknown name as the recoverable parse error types.ErrUnknownCallable.
func (h *Handle) MustIndex(name string) int {
	i, ok := h.GetIndex(name)
	if !ok {
		panic(fmt.Sprintf("limex: unknown callable %q", name))
	}
	return i
}

// Names returns the registration-order name list: built-ins first in their
// fixed 0..BuiltinCount-1 order, then user-added names in registration
// order.
func (h *Handle) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Call invokes the callable at index with args. Returns an out-of-range
// error if index is not a registered callable.
func (h *Handle) Call(index int, args []float64) (float64, error) {
	if index < 0 || index >= len(h.impls) {
		return 0, fmt.Errorf("limex: callable index %d out of range", index)
	}
	return h.impls[index](args)
}

// Close releases resources held by any WASM-backed callables registered via
// AddWASM. Safe to call even if none were registered.
func (h *Handle) Close() error {
	var first error
	for _, c := range h.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
