package parser

import (
	"testing"

	"github.com/sandrolain/limex/pkg/ast"
	"github.com/sandrolain/limex/pkg/handle"
	"github.com/sandrolain/limex/pkg/types"
)

func compileOK(t *testing.T, input string) *Result {
	t.Helper()
	res, err := Compile(input, handle.New())
	if err != nil {
		t.Fatalf("Compile(%q): %v", input, err)
	}
	return res
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	res := compileOK(t, "2 + 3*4")
	root := res.Root
	if len(root.Operands) != 1 {
		t.Fatalf("expected a single top-level segment, got %d", len(root.Operands))
	}
	add := root.Operands[0]
	if add.Kind != ast.Add {
		t.Fatalf("expected top-level add, got %v", add.Kind)
	}
	if add.Operands[0].Kind != ast.Literal || add.Operands[0].Value != 2 {
		t.Errorf("expected left operand literal 2, got %+v", add.Operands[0])
	}
	mul := add.Operands[1]
	if mul.Kind != ast.Multiply {
		t.Fatalf("expected right operand to be a multiply, got %v", mul.Kind)
	}
}

func TestCompileExponentiateRightAssociative(t *testing.T) {
	res := compileOK(t, "2^3^2")
	outer := res.Root.Operands[0]
	if outer.Kind != ast.Exponentiate {
		t.Fatalf("expected exponentiate, got %v", outer.Kind)
	}
	if outer.Operands[0].Value != 2 {
		t.Errorf("expected outer left operand 2, got %+v", outer.Operands[0])
	}
	inner := outer.Operands[1]
	if inner.Kind != ast.Exponentiate {
		t.Fatalf("expected 2^(3^2) nesting, got %v on the right", inner.Kind)
	}
	if inner.Operands[0].Value != 3 || inner.Operands[1].Value != 2 {
		t.Errorf("expected inner 3^2, got %+v", inner)
	}
}

func TestCompileTernaryNesting(t *testing.T) {
	res := compileOK(t, "if true then 1 else if false then 0 else -1")
	outer := res.Root.Operands[0]
	if outer.Kind != ast.IfThenElse {
		t.Fatalf("expected if_then_else, got %v", outer.Kind)
	}
	elseNode := outer.Operands[2]
	if elseNode.Kind != ast.IfThenElse {
		t.Fatalf("expected nested if_then_else in else branch, got %v", elseNode.Kind)
	}
}

func TestCompileAssignmentTarget(t *testing.T) {
	res := compileOK(t, "y := x*2")
	if !res.HasTarget || res.Target != "y" {
		t.Fatalf("expected target y, got HasTarget=%v Target=%q", res.HasTarget, res.Target)
	}
	for _, v := range res.Variables {
		if v == "y" {
			t.Errorf("assignment target %q must not appear in Variables(), got %v", v, res.Variables)
		}
	}
	if len(res.Variables) != 1 || res.Variables[0] != "x" {
		t.Errorf("expected Variables=[x], got %v", res.Variables)
	}
}

func TestCompileCompoundAssignmentKeepsLHSAsRead(t *testing.T) {
	res := compileOK(t, "z -= 1")
	if !res.HasTarget || res.Target != "z" {
		t.Fatalf("expected target z, got %q", res.Target)
	}
	found := false
	for _, v := range res.Variables {
		if v == "z" {
			found = true
		}
	}
	if !found {
		t.Errorf("compound-assignment LHS must remain a read, Variables=%v", res.Variables)
	}
}

func TestCompileAssignmentMustBeInitial(t *testing.T) {
	_, err := Compile("1 + x := 2", handle.New())
	if err == nil {
		t.Fatal("expected an error: assignment not in initial position")
	}
	pe, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("expected *types.Error, got %T", err)
	}
	if pe.Code != types.ErrAssignmentNotInitial {
		t.Errorf("got code %v, want %v", pe.Code, types.ErrAssignmentNotInitial)
	}
}

func TestCompileAssignmentTargetMustBeVariable(t *testing.T) {
	_, err := Compile("3 := 2", handle.New())
	if err == nil {
		t.Fatal("expected an error: assignment target must be a variable")
	}
	pe, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("expected *types.Error, got %T", err)
	}
	if pe.Code != types.ErrAssignmentTargetKind {
		t.Errorf("got code %v, want %v", pe.Code, types.ErrAssignmentTargetKind)
	}
}

func TestCompileIndexedVariable(t *testing.T) {
	res := compileOK(t, "xs[2]")
	idx := res.Root.Operands[0]
	if idx.Kind != ast.Index {
		t.Fatalf("expected index node, got %v", idx.Kind)
	}
	if idx.Operands[0].Kind != ast.Collection {
		t.Fatalf("expected collection operand, got %v", idx.Operands[0].Kind)
	}
	if len(res.Collections) != 1 || res.Collections[0] != "xs" {
		t.Errorf("expected Collections=[xs], got %v", res.Collections)
	}
}

func TestCompileUnknownCallable(t *testing.T) {
	_, err := Compile("nope(1,2)", handle.New())
	if err == nil {
		t.Fatal("expected an unknown-callable error")
	}
	pe, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("expected *types.Error, got %T", err)
	}
	if pe.Code != types.ErrUnknownCallable {
		t.Errorf("got code %v, want %v", pe.Code, types.ErrUnknownCallable)
	}
}

func TestCompileMissingOperand(t *testing.T) {
	_, err := Compile("1 +", handle.New())
	if err == nil {
		t.Fatal("expected a missing-operand error")
	}
}

func TestCompileEmptyExpressionIsAnError(t *testing.T) {
	// An empty top-level expression must be rejected at compile time, not
	// surface as a childless root that panics the evaluator later.
	_, err := Compile("", handle.New())
	if err == nil {
		t.Fatal("expected an error compiling an empty expression")
	}
	pe, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("expected *types.Error, got %T", err)
	}
	if pe.Code != types.ErrMissingOperand {
		t.Errorf("got code %v, want %v", pe.Code, types.ErrMissingOperand)
	}
}

func TestCompileMaxDepth(t *testing.T) {
	_, err := Compile("((((1))))", handle.New(), WithMaxDepth(2))
	if err == nil {
		t.Fatal("expected a max-depth error")
	}
}

func TestCompileChainedComparisonIsLeftAssociative(t *testing.T) {
	// spec.md §9(a): "a < b < c" parses as "(a < b) < c", not an n-ary chain.
	res := compileOK(t, "a < b < c")
	outer := res.Root.Operands[0]
	if outer.Kind != ast.LessThan {
		t.Fatalf("expected outer less_than, got %v", outer.Kind)
	}
	inner := outer.Operands[0]
	if inner.Kind != ast.LessThan {
		t.Fatalf("expected (a<b) nested on the left, got %v", inner.Kind)
	}
	if outer.Operands[1].Kind != ast.Variable {
		t.Fatalf("expected c as the right operand, got %v", outer.Operands[1].Kind)
	}
}
