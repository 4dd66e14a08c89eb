package evaluator

import (
	"context"

	"github.com/sandrolain/limex/pkg/ast"
	"github.com/sandrolain/limex/pkg/handle"
	"github.com/sandrolain/limex/pkg/types"
)

func (e *Evaluator) eval(ctx context.Context, n *ast.Node) (float64, error) {
	switch n.Kind {
	case ast.Literal:
		return n.Value, nil

	case ast.Variable:
		if n.Index < 0 || n.Index >= len(e.vars) {
			return 0, types.NewError(types.ErrVariableOutOfRange, "variable index out of range", n.Position)
		}
		return e.vars[n.Index], nil

	case ast.Collection:
		return 0, types.NewError(types.ErrNotAValue, "a bare collection cannot be evaluated", n.Position)

	case ast.Group:
		if len(n.Operands) == 0 {
			return 0, types.NewError(types.ErrMissingOperand, "empty group has no value", n.Position)
		}
		return e.eval(ctx, n.Operands[0])

	case ast.Set, ast.Sequence:
		return 0, types.NewError(types.ErrNotAValue, "a bare set or sequence cannot be evaluated", n.Position)

	case ast.Negate:
		v, err := e.eval(ctx, n.Operands[0])
		if err != nil {
			return 0, err
		}
		return -v, nil

	case ast.LogicalNot:
		v, err := e.eval(ctx, n.Operands[0])
		if err != nil {
			return 0, err
		}
		return boolToFloat(v == 0), nil

	case ast.Square:
		v, err := e.eval(ctx, n.Operands[0])
		if err != nil {
			return 0, err
		}
		return v * v, nil

	case ast.Cube:
		v, err := e.eval(ctx, n.Operands[0])
		if err != nil {
			return 0, err
		}
		return v * v * v, nil

	case ast.Add, ast.Subtract, ast.Multiply, ast.LogicalAnd, ast.LogicalOr,
		ast.LessThan, ast.LessOrEqual, ast.GreaterThan, ast.GreaterOrEqual,
		ast.EqualTo, ast.NotEqualTo:
		return e.evalBinary(ctx, n)

	case ast.Divide:
		a, b, err := e.evalPair(ctx, n)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return 0, types.NewError(types.ErrDivisionByZero, "division by zero", n.Position)
		}
		return a / b, nil

	case ast.Exponentiate:
		a, b, err := e.evalPair(ctx, n)
		if err != nil {
			return 0, err
		}
		return e.handle.Call(handle.Pow, []float64{a, b})

	case ast.FunctionCall, ast.Aggregation:
		return e.evalCall(ctx, n)

	case ast.Index:
		return e.evalIndex(ctx, n)

	case ast.ElementOf:
		return e.evalMembership(ctx, n, handle.ElementOf)

	case ast.NotElementOf:
		return e.evalMembership(ctx, n, handle.NotElementOf)

	case ast.IfThenElse:
		cond, err := e.eval(ctx, n.Operands[0])
		if err != nil {
			return 0, err
		}
		thenVal, err := e.eval(ctx, n.Operands[1])
		if err != nil {
			return 0, err
		}
		elseVal, err := e.eval(ctx, n.Operands[2])
		if err != nil {
			return 0, err
		}
		return e.handle.Call(handle.IfThenElse, []float64{cond, thenVal, elseVal})

	case ast.Assign:
		return e.eval(ctx, n.Operands[0])

	case ast.AddAssign:
		a, b, err := e.evalPair(ctx, n)
		if err != nil {
			return 0, err
		}
		return a + b, nil

	case ast.SubtractAssign:
		a, b, err := e.evalPair(ctx, n)
		if err != nil {
			return 0, err
		}
		return a - b, nil

	case ast.MultiplyAssign:
		a, b, err := e.evalPair(ctx, n)
		if err != nil {
			return 0, err
		}
		return a * b, nil

	case ast.DivideAssign:
		a, b, err := e.evalPair(ctx, n)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return 0, types.NewError(types.ErrDivisionByZero, "division by zero", n.Position)
		}
		return a / b, nil

	default:
		return 0, types.NewError(types.ErrInternal, "unevaluable node kind "+n.Kind.String(), n.Position)
	}
}

func (e *Evaluator) evalPair(ctx context.Context, n *ast.Node) (float64, float64, error) {
	a, err := e.eval(ctx, n.Operands[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := e.eval(ctx, n.Operands[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (e *Evaluator) evalBinary(ctx context.Context, n *ast.Node) (float64, error) {
	a, b, err := e.evalPair(ctx, n)
	if err != nil {
		return 0, err
	}
	switch n.Kind {
	case ast.Add:
		return a + b, nil
	case ast.Subtract:
		return a - b, nil
	case ast.Multiply:
		return a * b, nil
	case ast.LogicalAnd:
		return boolToFloat(a != 0 && b != 0), nil
	case ast.LogicalOr:
		return boolToFloat(a != 0 || b != 0), nil
	case ast.LessThan:
		return boolToFloat(a < b), nil
	case ast.LessOrEqual:
		return boolToFloat(a <= b), nil
	case ast.GreaterThan:
		return boolToFloat(a > b), nil
	case ast.GreaterOrEqual:
		return boolToFloat(a >= b), nil
	case ast.EqualTo:
		return boolToFloat(a == b), nil
	case ast.NotEqualTo:
		return boolToFloat(a != b), nil
	default:
		return 0, types.NewError(types.ErrInternal, "unreachable binary kind "+n.Kind.String(), n.Position)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// evalCall evaluates a function_call/aggregation node: if its sole operand
// is a bare collection, that collection's value vector is passed directly
// as the argument list (spec.md §4.4); otherwise every operand is evaluated
// individually.
func (e *Evaluator) evalCall(ctx context.Context, n *ast.Node) (float64, error) {
	var args []float64
	if len(n.Operands) == 1 && n.Operands[0].Kind == ast.Collection {
		idx := n.Operands[0].Index
		if idx < 0 || idx >= len(e.colls) {
			return 0, types.NewError(types.ErrVariableOutOfRange, "collection index out of range", n.Position)
		}
		args = e.colls[idx]
	} else {
		args = make([]float64, len(n.Operands))
		for i, op := range n.Operands {
			v, err := e.eval(ctx, op)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	v, err := e.handle.Call(n.Index, args)
	if err != nil {
		return 0, types.NewError(types.ErrCallableArity, err.Error(), n.Position).WithCause(err)
	}
	return v, nil
}

// evalIndex resolves a 1-based lookup into a named collection. A literal
// index is cast directly; a computed index is evaluated then cast, since
// LIMEX's numeric type (float64) always supports integer casting — the
// non-castable fallback to an n-ary if expansion (spec.md §4.4, §9) applies
// only to the generic collection-element configuration, not this one.
func (e *Evaluator) evalIndex(ctx context.Context, n *ast.Node) (float64, error) {
	collNode := n.Operands[0]
	if collNode.Index < 0 || collNode.Index >= len(e.colls) {
		return 0, types.NewError(types.ErrVariableOutOfRange, "collection index out of range", n.Position)
	}
	coll := e.colls[collNode.Index]

	idxNode := n.Operands[1]
	var idxVal float64
	if idxNode.Kind == ast.Literal {
		idxVal = idxNode.Value
	} else {
		v, err := e.eval(ctx, idxNode)
		if err != nil {
			return 0, err
		}
		idxVal = v
	}

	k := int(idxVal)
	if k < 1 || k > len(coll) {
		return 0, types.NewError(types.ErrIndexOutOfRange, "collection index out of range", n.Position)
	}
	return coll[k-1], nil
}

// evalMembership evaluates the probe (LHS) and the set elements (RHS), then
// dispatches to the handle's element_of/not_element_of built-in by index.
func (e *Evaluator) evalMembership(ctx context.Context, n *ast.Node, callableIndex int) (float64, error) {
	probe, err := e.eval(ctx, n.Operands[0])
	if err != nil {
		return 0, err
	}

	elements := setElements(n.Operands[1])
	args := make([]float64, 0, len(elements)+1)
	args = append(args, probe)
	for _, el := range elements {
		v, err := e.eval(ctx, el)
		if err != nil {
			return 0, err
		}
		args = append(args, v)
	}

	return e.handle.Call(callableIndex, args)
}

// setElements returns the element subtrees of a membership RHS: the
// operands of a set/sequence literal, or the node itself treated as a
// singleton when some other expression shape is used.
func setElements(n *ast.Node) []*ast.Node {
	if n.Kind == ast.Set || n.Kind == ast.Sequence {
		return n.Operands
	}
	return []*ast.Node{n}
}
