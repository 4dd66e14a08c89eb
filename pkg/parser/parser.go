// Package parser implements LIMEX's tree builder: precedence-climbing
// consumption of the lexer's token tree into an AST (spec.md §4.3), plus the
// package's public Compile entry point and functional options.
package parser

import (
	"fmt"

	"github.com/sandrolain/limex/pkg/ast"
	"github.com/sandrolain/limex/pkg/handle"
	"github.com/sandrolain/limex/pkg/token"
	"github.com/sandrolain/limex/pkg/types"
)

// Parser carries the mutable state threaded through one compile: the name
// tables being built up, the handle used to resolve callable names, the
// node arena, and a nesting-depth guard.
type Parser struct {
	h      *handle.Handle
	arena  *ast.Arena
	vars   []string
	varIdx map[string]int

	colls   []string
	collIdx map[string]int

	target    string
	hasTarget bool

	maxDepth int
	depth    int
}

func newParser(h *handle.Handle, maxDepth int) *Parser {
	return &Parser{
		h:        h,
		arena:    ast.NewArena(),
		varIdx:   make(map[string]int),
		collIdx:  make(map[string]int),
		maxDepth: maxDepth,
	}
}

func (p *Parser) registerVar(name string) int {
	if idx, ok := p.varIdx[name]; ok {
		return idx
	}
	idx := len(p.vars)
	p.vars = append(p.vars, name)
	p.varIdx[name] = idx
	return idx
}

func (p *Parser) registerColl(name string) int {
	if idx, ok := p.collIdx[name]; ok {
		return idx
	}
	idx := len(p.colls)
	p.colls = append(p.colls, name)
	p.collIdx[name] = idx
	return idx
}

// opEntry is one frame of the tree builder's operator stack: the AST kind
// an infix token resolved to, its precedence (spec.md §4.1; smaller binds
// tighter), and the source position of the operator token, used for error
// reporting if the segment never resolves cleanly.
type opEntry struct {
	kind ast.Kind
	prec int
	pos  int
}

func precedence(k ast.Kind) int {
	switch k {
	case ast.Exponentiate:
		return 2
	case ast.Multiply, ast.Divide, ast.LogicalAnd:
		return 4
	case ast.Add, ast.Subtract, ast.LogicalOr:
		return 5
	case ast.ThenInternal, ast.ElseInternal:
		return 6
	case ast.LessThan, ast.LessOrEqual, ast.GreaterThan, ast.GreaterOrEqual,
		ast.EqualTo, ast.NotEqualTo, ast.ElementOf, ast.NotElementOf:
		return 7
	case ast.Assign, ast.AddAssign, ast.SubtractAssign, ast.MultiplyAssign, ast.DivideAssign:
		return 8
	default:
		return 0
	}
}

// rightAssoc reports whether repeated operators of kind associate to the
// right. Exponentiation is LIMEX's only generically right-associative
// infix operator (spec.md §8 property 3); the ternary family associates
// right via the explicit _then_/_else barrier instead, handled in shouldPop.
func rightAssoc(k ast.Kind) bool {
	return k == ast.Exponentiate
}

func isAssignKind(k ast.Kind) bool {
	switch k {
	case ast.Assign, ast.AddAssign, ast.SubtractAssign, ast.MultiplyAssign, ast.DivideAssign:
		return true
	}
	return false
}

// shouldPop reports whether the operator-stack entry top must be applied
// before pushing a new operator of the given precedence/associativity.
// _then_/_else are a hard barrier: they are only ever applied during an
// end-of-segment flush, never by a later operator's arrival, which is what
// makes the ternary family right-associative (spec.md §4.3, §8 property 4).
func shouldPop(top opEntry, incomingPrec int, incomingRightAssoc bool) bool {
	if top.kind == ast.ThenInternal || top.kind == ast.ElseInternal {
		return false
	}
	if top.prec < incomingPrec {
		return true
	}
	if top.prec == incomingPrec && !incomingRightAssoc {
		return true
	}
	return false
}

var infixKinds = map[string]ast.Kind{
	"+": ast.Add, "-": ast.Subtract, "*": ast.Multiply, "/": ast.Divide, "^": ast.Exponentiate,

	"&&": ast.LogicalAnd, "∧": ast.LogicalAnd, "and": ast.LogicalAnd,
	"||": ast.LogicalOr, "∨": ast.LogicalOr, "or": ast.LogicalOr,

	"<": ast.LessThan,
	"<=": ast.LessOrEqual, "≤": ast.LessOrEqual,
	">": ast.GreaterThan,
	">=": ast.GreaterOrEqual, "≥": ast.GreaterOrEqual,
	"==": ast.EqualTo,
	"!=": ast.NotEqualTo, "≠": ast.NotEqualTo,

	"in": ast.ElementOf, "∈": ast.ElementOf,
	"not in": ast.NotElementOf, "∉": ast.NotElementOf,

	":=": ast.Assign, "≔": ast.Assign,
	"+=": ast.AddAssign, "-=": ast.SubtractAssign,
	"*=": ast.MultiplyAssign, "/=": ast.DivideAssign,

	":": ast.ElseInternal, token.KeywordElse: ast.ElseInternal,
}

var prefixKinds = map[string]ast.Kind{
	"-": ast.Negate,
	"!": ast.LogicalNot, "¬": ast.LogicalNot,
}

var postfixKinds = map[string]ast.Kind{
	"²": ast.Square,
	"³": ast.Cube,
}

func parseErrorf(code types.ErrorCode, pos int, tok *token.Token, format string, args ...any) *types.Error {
	e := types.NewError(code, fmt.Sprintf(format, args...), pos)
	if tok != nil {
		e = e.WithToken(tok)
	}
	return e
}
