package parser

import (
	"strconv"

	"github.com/sandrolain/limex/pkg/ast"
	"github.com/sandrolain/limex/pkg/token"
	"github.com/sandrolain/limex/pkg/types"
)

// buildChildren builds one node of kind from a token sequence (the Children
// of a GROUP/SET/SEQUENCE/FUNCTION_CALL/AGGREGATION/INDEXED_VARIABLE token,
// or the synthetic child list of an if/then bootstrap). lead, when non-nil,
// is prepended to the result's Operands ahead of the comma-separated
// segments built from children. Every current caller passes nil: callables
// and indexed collections carry their leading reference elsewhere
// (Node.Index, or a Collection node attached by buildIndexed).
func (p *Parser) buildChildren(kind ast.Kind, lead *ast.Node, children []*token.Token, pos int) (*ast.Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return nil, types.NewError(types.ErrInternal, "maximum nesting depth exceeded", pos)
	}

	node := p.arena.Alloc(kind, pos)
	if lead != nil {
		node.Operands = append(node.Operands, lead)
	}

	if len(children) == 0 {
		return node, nil
	}

	var segments []*ast.Node
	var operandStack []*ast.Node
	var opStack []opEntry
	var pendingPrefix *token.Token

	flush := func(tokPos int) error {
		if pendingPrefix != nil {
			return types.NewError(types.ErrMissingOperand, "missing operand after prefix operator", pendingPrefix.Position).WithToken(pendingPrefix)
		}
		for len(opStack) > 0 {
			if err := p.popApply(&opStack, &operandStack); err != nil {
				return err
			}
		}
		if len(operandStack) != 1 {
			return types.NewError(types.ErrMissingOperand, "missing operand", tokPos)
		}
		segments = append(segments, operandStack[0])
		operandStack = nil
		return nil
	}

	i := 0
	for i < len(children) {
		tok := children[i]
		switch {
		case tok.Category == token.Prefix && tok.Type == token.Operator:
			pendingPrefix = tok
			i++

		case tok.Category == token.Prefix && tok.Type == token.Group:
			sub, err := p.buildChildren(ast.IfInternal, nil, tok.Children, tok.Position)
			if err != nil {
				return nil, err
			}
			sub = p.wrapPrefix(sub, &pendingPrefix)
			operandStack = append(operandStack, sub)
			i++

		case tok.Category == token.Infix && tok.Type == token.Group:
			sub, err := p.buildChildren(ast.ThenInternal, nil, tok.Children, tok.Position)
			if err != nil {
				return nil, err
			}
			operandStack = append(operandStack, sub)
			opStack = append(opStack, opEntry{kind: ast.ThenInternal, prec: precedence(ast.ThenInternal), pos: tok.Position})
			i++

		case tok.Category == token.Operand:
			operand, err := p.buildOperand(tok)
			if err != nil {
				return nil, err
			}
			next := i + 1
			if next < len(children) && children[next].Category == token.Postfix && children[next].Type == token.Operator {
				wrapped, err := p.wrapPostfix(operand, children[next])
				if err != nil {
					return nil, err
				}
				operand = wrapped
				next++
			}
			operand = p.wrapPrefix(operand, &pendingPrefix)
			operandStack = append(operandStack, operand)
			i = next

		case tok.Type == token.Separator:
			if err := flush(tok.Position); err != nil {
				return nil, err
			}
			i++

		case tok.Category == token.Infix && tok.Type == token.Operator:
			if err := p.handleInfixOperator(tok, &operandStack, &opStack); err != nil {
				return nil, err
			}
			i++

		default:
			return nil, types.NewError(types.ErrInternal, "unrecognized token in tree builder", tok.Position).WithToken(tok)
		}
	}

	if err := flush(pos); err != nil {
		return nil, err
	}

	node.Operands = append(node.Operands, segments...)
	return node, nil
}

func (p *Parser) wrapPostfix(node *ast.Node, tok *token.Token) (*ast.Node, error) {
	kind, ok := postfixKinds[tok.Value]
	if !ok {
		return nil, types.NewError(types.ErrInternal, "unknown postfix operator", tok.Position).WithToken(tok)
	}
	wrapped := p.arena.Alloc(kind, tok.Position)
	wrapped.Operands = []*ast.Node{node}
	return wrapped, nil
}

func (p *Parser) wrapPrefix(node *ast.Node, pending **token.Token) *ast.Node {
	tok := *pending
	if tok == nil {
		return node
	}
	*pending = nil
	kind := prefixKinds[tok.Value]
	wrapped := p.arena.Alloc(kind, tok.Position)
	wrapped.Operands = []*ast.Node{node}
	return wrapped
}

// buildOperand constructs the node for a single OPERAND-category token,
// dispatching by token type per spec.md §4.3's bullet list.
func (p *Parser) buildOperand(tok *token.Token) (*ast.Node, error) {
	switch tok.Type {
	case token.Number:
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, types.NewError(types.ErrUnexpectedCharacter, "invalid numeric literal", tok.Position).WithToken(tok).WithCause(err)
		}
		n := p.arena.Alloc(ast.Literal, tok.Position)
		n.Value = v
		return n, nil

	case token.Variable:
		n := p.arena.Alloc(ast.Variable, tok.Position)
		n.Index = p.registerVar(tok.Value)
		return n, nil

	case token.Collection:
		n := p.arena.Alloc(ast.Collection, tok.Position)
		n.Index = p.registerColl(tok.Value)
		return n, nil

	case token.Group:
		return p.buildChildren(ast.Group, nil, tok.Children, tok.Position)

	case token.Set:
		return p.buildChildren(ast.Set, nil, tok.Children, tok.Position)

	case token.Sequence:
		return p.buildChildren(ast.Sequence, nil, tok.Children, tok.Position)

	case token.FunctionCall:
		return p.buildCallable(ast.FunctionCall, tok)

	case token.Aggregation:
		return p.buildCallable(ast.Aggregation, tok)

	case token.IndexedVariable:
		return p.buildIndexed(tok)

	default:
		return nil, types.NewError(types.ErrInternal, "unexpected token type in operand position", tok.Position).WithToken(tok)
	}
}

func (p *Parser) buildCallable(kind ast.Kind, tok *token.Token) (*ast.Node, error) {
	idx, ok := p.h.GetIndex(tok.Value)
	if !ok {
		return nil, types.NewError(types.ErrUnknownCallable, "unknown callable \""+tok.Value+"\"", tok.Position).WithToken(tok)
	}
	node, err := p.buildChildren(kind, nil, tok.Children, tok.Position)
	if err != nil {
		return nil, err
	}
	node.Index = idx
	return node, nil
}

// buildIndexed builds an `index` node for an INDEXED_VARIABLE token
// (`name[expr]`): the named collection as the first operand, the bracketed
// expression as the second. This is the scalar-collection-element path;
// the generic element-type configuration's function_call(at, …) rewrite is
// not implemented here (see DESIGN.md).
func (p *Parser) buildIndexed(tok *token.Token) (*ast.Node, error) {
	collNode := p.arena.Alloc(ast.Collection, tok.Position)
	collNode.Index = p.registerColl(tok.Value)

	idxExpr, err := p.buildChildren(ast.Group, nil, tok.Children, tok.Position)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(ast.Index, tok.Position)
	node.Operands = []*ast.Node{collNode, idxExpr}
	return node, nil
}

// handleInfixOperator resolves tok to an AST operator kind, enforces the
// assignment-in-initial-position rule, performs the target-variable
// bookkeeping, and runs the precedence-climbing pop loop before pushing the
// new operator (spec.md §4.3).
func (p *Parser) handleInfixOperator(tok *token.Token, operandStack *[]*ast.Node, opStack *[]opEntry) error {
	kind, ok := infixKinds[tok.Value]
	if !ok {
		return types.NewError(types.ErrUnexpectedCharacter, "unknown operator \""+tok.Value+"\"", tok.Position).WithToken(tok)
	}

	if isAssignKind(kind) {
		if len(*operandStack) != 1 || len(*opStack) != 0 {
			return types.NewError(types.ErrAssignmentNotInitial,
				"assignment must be the first operator in its expression", tok.Position).WithToken(tok)
		}
		lhs := (*operandStack)[0]
		if lhs.Kind != ast.Variable {
			return types.NewError(types.ErrAssignmentTargetKind,
				"assignment target must be a simple variable", tok.Position).WithToken(tok)
		}
		name := p.vars[lhs.Index]
		p.target = name
		p.hasTarget = true
		if kind == ast.Assign {
			p.vars = p.vars[:len(p.vars)-1]
			delete(p.varIdx, name)
		}
	}

	prec := precedence(kind)
	for len(*opStack) > 0 {
		top := (*opStack)[len(*opStack)-1]
		if !shouldPop(top, prec, rightAssoc(kind)) {
			break
		}
		if err := p.popApply(opStack, operandStack); err != nil {
			return err
		}
	}

	*opStack = append(*opStack, opEntry{kind: kind, prec: prec, pos: tok.Position})
	return nil
}

// popApply pops the top of opStack and applies it to operandStack,
// dispatching to the ternary, assignment, or generic-binary shape per
// spec.md §4.3's apply helper.
func (p *Parser) popApply(opStack *[]opEntry, operandStack *[]*ast.Node) error {
	n := len(*opStack)
	top := (*opStack)[n-1]
	*opStack = (*opStack)[:n-1]

	switch {
	case top.kind == ast.ElseInternal:
		if len(*opStack) == 0 || (*opStack)[len(*opStack)-1].kind != ast.ThenInternal {
			return types.NewError(types.ErrMalformedTernary, "malformed ternary expression", top.pos)
		}
		*opStack = (*opStack)[:len(*opStack)-1]
		if len(*operandStack) < 3 {
			return types.NewError(types.ErrMalformedTernary, "malformed ternary expression", top.pos)
		}
		m := len(*operandStack)
		elseResult, thenResult, condition := (*operandStack)[m-1], (*operandStack)[m-2], (*operandStack)[m-3]
		*operandStack = (*operandStack)[:m-3]
		if condition.Kind == ast.IfInternal {
			condition.Kind = ast.Group
		}
		thenResult.Kind = ast.Group
		node := p.arena.Alloc(ast.IfThenElse, top.pos)
		node.Operands = []*ast.Node{condition, thenResult, elseResult}
		*operandStack = append(*operandStack, node)
		return nil

	case isAssignKind(top.kind):
		if len(*operandStack) < 2 {
			return types.NewError(types.ErrMissingOperand, "missing operand", top.pos)
		}
		m := len(*operandStack)
		right, left := (*operandStack)[m-1], (*operandStack)[m-2]
		*operandStack = (*operandStack)[:m-2]
		if left.Kind != ast.Variable {
			return types.NewError(types.ErrAssignmentTargetKind, "assignment target must be a simple variable", top.pos)
		}
		node := p.arena.Alloc(top.kind, top.pos)
		if top.kind == ast.Assign {
			node.Operands = []*ast.Node{right}
		} else {
			node.Operands = []*ast.Node{left, right}
		}
		*operandStack = append(*operandStack, node)
		return nil

	default:
		if len(*operandStack) < 2 {
			return types.NewError(types.ErrMissingOperand, "missing operand", top.pos)
		}
		m := len(*operandStack)
		right, left := (*operandStack)[m-1], (*operandStack)[m-2]
		*operandStack = (*operandStack)[:m-2]
		node := p.arena.Alloc(top.kind, top.pos)
		node.Operands = []*ast.Node{left, right}
		*operandStack = append(*operandStack, node)
		return nil
	}
}
