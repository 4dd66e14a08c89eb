// Package evaluator implements LIMEX's recursive tree evaluator (spec.md
// §4.4): given variable and collection value vectors and a handle, it walks
// an ast.Node tree bottom-up to a single numeric result.
package evaluator

import (
	"context"
	"log/slog"

	"github.com/sandrolain/limex/pkg/ast"
	"github.com/sandrolain/limex/pkg/handle"
)

// Evaluator holds the value bindings one Eval call is evaluated against.
// It is stateless beyond those bindings: building one per call (as the
// Expression façade does) is cheap and keeps the evaluator safe to use from
// multiple goroutines against the same compiled Expression, so long as the
// handle's callables are themselves concurrency-safe (spec.md §5).
type Evaluator struct {
	handle *handle.Handle
	vars   []float64
	colls  [][]float64
	logger *slog.Logger
}

// EvalOption configures an Evaluator.
type EvalOption func(*Evaluator)

// WithLogger attaches a logger for debug tracing of evaluation steps.
func WithLogger(l *slog.Logger) EvalOption {
	return func(e *Evaluator) { e.logger = l }
}

// New builds an Evaluator bound to h, vars and colls.
func New(h *handle.Handle, vars []float64, colls [][]float64, opts ...EvalOption) *Evaluator {
	e := &Evaluator{handle: h, vars: vars, colls: colls, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval evaluates n with a background context. WASM-backed callables never
// see cancellation through this path; use EvalContext for that.
func (e *Evaluator) Eval(n *ast.Node) (float64, error) {
	return e.EvalContext(context.Background(), n)
}

// EvalContext evaluates n, checking ctx before every callable invocation —
// the only point in evaluation that can block (a WASM-backed callable
// invoked through Handle.AddWASM). Pure arithmetic recursion never blocks,
// per spec.md §5's concurrency model.
func (e *Evaluator) EvalContext(ctx context.Context, n *ast.Node) (float64, error) {
	v, err := e.eval(ctx, n)
	if err != nil {
		e.logger.Debug("limex: evaluation failed", "error", err)
	}
	return v, err
}
