package evaluator

import (
	"context"
	"testing"

	"github.com/sandrolain/limex/pkg/ast"
	"github.com/sandrolain/limex/pkg/handle"
	"github.com/sandrolain/limex/pkg/parser"
	"github.com/sandrolain/limex/pkg/types"
)

// compile is a small in-package helper wrapping parser.Compile so evaluator
// tests can work directly from source text instead of hand-building AST.
func compile(t *testing.T, input string, h *handle.Handle) *parser.Result {
	t.Helper()
	res, err := parser.Compile(input, h)
	if err != nil {
		t.Fatalf("parser.Compile(%q): %v", input, err)
	}
	return res
}

func evalWith(t *testing.T, input string, vars []float64, colls [][]float64) float64 {
	t.Helper()
	h := handle.New()
	res := compile(t, input, h)
	v, err := New(h, vars, colls).Eval(res.Root)
	if err != nil {
		t.Fatalf("Eval(%q): %v", input, err)
	}
	return v
}

func TestEvalArithmetic(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2 + 3*4", 14},
		{"2^3^2", 512},
		{"3²", 9},
		{"2³", 8},
		{"-3² + 1", -8},
		{"10/4", 2.5},
	}
	for _, tc := range cases {
		if got := evalWith(t, tc.expr, nil, nil); got != tc.want {
			t.Errorf("eval(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvalVariables(t *testing.T) {
	h := handle.New()
	res := compile(t, "3*x + 1", h)
	if len(res.Variables) != 1 || res.Variables[0] != "x" {
		t.Fatalf("expected Variables=[x], got %v", res.Variables)
	}
	v, err := New(h, []float64{5}, nil).Eval(res.Root)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v != 16 {
		t.Errorf("got %v, want 16", v)
	}
}

func TestEvalCollectionAggregation(t *testing.T) {
	v := evalWith(t, "sum{xs[]}", nil, [][]float64{{2, 5, 3}})
	if v != 10 {
		t.Errorf("sum{xs[]} = %v, want 10", v)
	}
	v = evalWith(t, "avg{xs[]}", nil, [][]float64{{10, 20, 30}})
	if v != 20 {
		t.Errorf("avg = %v, want 20", v)
	}
	v = evalWith(t, "count{xs[]}", nil, [][]float64{{1, 2, 3, 4}})
	if v != 4 {
		t.Errorf("count = %v, want 4", v)
	}
}

func TestEvalIndexing(t *testing.T) {
	v := evalWith(t, "xs[2]", nil, [][]float64{{7, 8, 9}})
	if v != 8 {
		t.Errorf("xs[2] = %v, want 8 (1-based)", v)
	}
}

func TestEvalIndexOutOfRange(t *testing.T) {
	h := handle.New()
	res := compile(t, "xs[5]", h)
	_, err := New(h, nil, [][]float64{{1, 2, 3}}).Eval(res.Root)
	if err == nil {
		t.Fatal("expected an out-of-range error")
	}
	le, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("expected *types.Error, got %T", err)
	}
	if le.Code != types.ErrIndexOutOfRange {
		t.Errorf("got code %v, want %v", le.Code, types.ErrIndexOutOfRange)
	}
}

func TestEvalMembership(t *testing.T) {
	if v := evalWith(t, "x ∈ {1,2,3}", []float64{2}, nil); v != 1 {
		t.Errorf("2 ∈ {1,2,3} = %v, want 1", v)
	}
	if v := evalWith(t, "x ∈ {1,2,3}", []float64{9}, nil); v != 0 {
		t.Errorf("9 ∈ {1,2,3} = %v, want 0", v)
	}
	if v := evalWith(t, "x ∉ {1,2,3}", []float64{9}, nil); v != 1 {
		t.Errorf("9 ∉ {1,2,3} = %v, want 1", v)
	}
}

// TestEvalMembershipEmptySet exercises the Open Question decision recorded
// in DESIGN.md: element_of/not_element_of on an empty set return false/true.
func TestEvalMembershipEmptySet(t *testing.T) {
	h := handle.New()
	if v, err := h.Call(handle.ElementOf, []float64{5}); err != nil || v != 0 {
		t.Errorf("element_of(5) [empty set] = (%v, %v), want (0, nil)", v, err)
	}
	if v, err := h.Call(handle.NotElementOf, []float64{5}); err != nil || v != 1 {
		t.Errorf("not_element_of(5) [empty set] = (%v, %v), want (1, nil)", v, err)
	}
}

func TestEvalTernary(t *testing.T) {
	if v := evalWith(t, "if true then 1 else if false then 0 else -1", nil, nil); v != 1 {
		t.Errorf("got %v, want 1", v)
	}
}

func TestEvalCompoundAssignment(t *testing.T) {
	// "x /= if x>3 then 2 else 1" with x=5 → 2.5 (spec.md §8).
	v := evalWith(t, "x /= if x>3 then 2 else 1", []float64{5}, nil)
	if v != 2.5 {
		t.Errorf("got %v, want 2.5", v)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	h := handle.New()
	res := compile(t, "x / y", h)
	_, err := New(h, []float64{1, 0}, nil).Eval(res.Root)
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
	le, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("expected *types.Error, got %T", err)
	}
	if le.Code != types.ErrDivisionByZero {
		t.Errorf("got code %v, want %v", le.Code, types.ErrDivisionByZero)
	}
}

func TestEvalContextCancellation(t *testing.T) {
	h := handle.New()
	res := compile(t, "abs(x)", h)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(h, []float64{-1}, nil).EvalContext(ctx, res.Root)
	if err == nil {
		t.Fatal("expected a context-cancellation error")
	}
}

func TestEvalBareCollectionIsNotAValue(t *testing.T) {
	h := handle.New()
	arena := ast.NewArena()
	n := arena.Alloc(ast.Collection, 0)
	n.Index = 0
	_, err := New(h, nil, [][]float64{{1, 2, 3}}).Eval(n)
	if err == nil {
		t.Fatal("expected an error evaluating a bare collection")
	}
}

// TestEvalEmptyGroupReturnsErrorNotPanic exercises an empty GROUP node
// reachable from parser-accepted input like "1 + ()" (the top-level empty
// expression is rejected by the parser, but a nested empty group is not):
// evaluating it must return an error, never panic on an index-out-of-range.
func TestEvalEmptyGroupReturnsErrorNotPanic(t *testing.T) {
	h := handle.New()
	arena := ast.NewArena()
	n := arena.Alloc(ast.Group, 0)
	_, err := New(h, nil, nil).Eval(n)
	if err == nil {
		t.Fatal("expected an error evaluating an empty group")
	}
}
