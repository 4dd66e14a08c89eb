package limex

import (
	"context"

	"github.com/sandrolain/limex/pkg/ast"
	"github.com/sandrolain/limex/pkg/evaluator"
	"github.com/sandrolain/limex/pkg/handle"
)

// Expression is LIMEX's compiled-program façade (spec.md §6). It owns the
// original input, the first-seen name tables the tree builder accumulated,
// the optional assignment target, the AST root and arena, and a reference
// to the handle it was compiled against. An Expression is immutable after
// construction and safe for concurrent Evaluate calls so long as the
// handle's callables are themselves concurrency-safe (spec.md §5).
type Expression struct {
	input       string
	handle      *handle.Handle
	root        *ast.Node
	arena       *ast.Arena
	variables   []string
	collections []string
	target      string
	hasTarget   bool
}

// Input returns the original source text this Expression was compiled from.
func (x *Expression) Input() string {
	return x.input
}

// Variables returns the expression's referenced scalar variable names in
// first-seen order, excluding the assignment target (if any).
func (x *Expression) Variables() []string {
	out := make([]string, len(x.variables))
	copy(out, x.variables)
	return out
}

// Collections returns the expression's referenced collection names in
// first-seen order.
func (x *Expression) Collections() []string {
	out := make([]string, len(x.collections))
	copy(out, x.collections)
	return out
}

// Target returns the assignment target name and true if the outermost
// operator is an assignment family member.
func (x *Expression) Target() (string, bool) {
	return x.target, x.hasTarget
}

// Root exposes the AST root for callers that want to walk it directly.
func (x *Expression) Root() *ast.Node {
	return x.root
}

// Handle returns the handle this Expression was compiled against.
func (x *Expression) Handle() *handle.Handle {
	return x.handle
}

// Stringify renders the AST in parenthesized prefix notation (spec.md §6,
// §9): literal numerics stringified directly, variable/collection operands
// replaced by their names.
func (x *Expression) Stringify() string {
	return x.root.Stringify(x.variables, x.collections, x.handle.Names())
}

// Evaluate evaluates the expression against varValues and collValues,
// positionally corresponding to Variables() and Collections().
func (x *Expression) Evaluate(varValues []float64, collValues [][]float64) (float64, error) {
	return x.EvaluateContext(context.Background(), varValues, collValues)
}

// EvaluateContext is Evaluate with cancellation support: ctx is checked
// before every callable invocation, the one potentially blocking operation
// in LIMEX evaluation (a WASM-backed callable registered through
// Handle.AddWASM).
func (x *Expression) EvaluateContext(ctx context.Context, varValues []float64, collValues [][]float64) (float64, error) {
	ev := evaluator.New(x.handle, varValues, collValues)
	return ev.EvalContext(ctx, x.root)
}
