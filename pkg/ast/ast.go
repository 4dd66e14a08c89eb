// Package ast defines the LIMEX abstract syntax tree: a single tagged-variant
// Node type covering every expression-tree shape from literals to
// assignments, plus a bump-pointer arena that owns node storage for one
// compiled Expression.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a Node with the operation or value it represents.
type Kind uint8

const (
	// Literal holds a numeric value directly in Node.Value.
	Literal Kind = iota
	// Variable holds an index into the expression's variable-name table.
	Variable
	// Collection holds an index into the expression's collection-name
	// table. Legal only as the argument carrier of a FunctionCall or
	// Aggregation parent, or as Operands[0] of an Index node.
	Collection
	Group
	Set
	Sequence
	// FunctionCall and Aggregation: the callable index is carried in
	// Node.Index on the node itself, not as a child; all Operands are
	// argument subtrees.
	FunctionCall
	Aggregation
	// Index: Operands[0] is a Collection node; Operands[1] produces the
	// 1-based index.
	Index

	Negate
	LogicalNot
	Square
	Cube

	Add
	Subtract
	Multiply
	Divide
	Exponentiate

	LogicalAnd
	LogicalOr

	LessThan
	LessOrEqual
	GreaterThan
	GreaterOrEqual
	EqualTo
	NotEqualTo

	ElementOf
	NotElementOf

	IfThenElse

	Assign
	AddAssign
	SubtractAssign
	MultiplyAssign
	DivideAssign

	// ifInternal, thenInternal, elseInternal are parse-internal markers
	// used only by the tree builder's operator stack; they never survive
	// into a completed tree (spec §3).
	ifInternal
	thenInternal
	elseInternal
)

var kindNames = map[Kind]string{
	Literal:         "literal",
	Variable:        "variable",
	Collection:      "collection",
	Group:           "group",
	Set:             "set",
	Sequence:        "sequence",
	FunctionCall:    "function_call",
	Aggregation:     "aggregation",
	Index:           "index",
	Negate:          "negate",
	LogicalNot:      "logical_not",
	Square:          "square",
	Cube:            "cube",
	Add:             "add",
	Subtract:        "subtract",
	Multiply:        "multiply",
	Divide:          "divide",
	Exponentiate:    "exponentiate",
	LogicalAnd:      "logical_and",
	LogicalOr:       "logical_or",
	LessThan:        "less_than",
	LessOrEqual:     "less_or_equal",
	GreaterThan:     "greater_than",
	GreaterOrEqual:  "greater_or_equal",
	EqualTo:         "equal_to",
	NotEqualTo:      "not_equal_to",
	ElementOf:       "element_of",
	NotElementOf:    "not_element_of",
	IfThenElse:      "if_then_else",
	Assign:          "assign",
	AddAssign:       "add_assign",
	SubtractAssign:  "subtract_assign",
	MultiplyAssign:  "multiply_assign",
	DivideAssign:    "divide_assign",
	ifInternal:      "if_",
	thenInternal:    "_then_",
	elseInternal:    "_else",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsInternal reports whether k is one of the parse-internal marker kinds
// that must never appear in a finished AST.
func (k Kind) IsInternal() bool {
	return k == ifInternal || k == thenInternal || k == elseInternal
}

// Internal marker constructors, exposed for the parser package only by
// virtue of being in the same module; external packages have no legitimate
// use for them.
const (
	IfInternal   = ifInternal
	ThenInternal = thenInternal
	ElseInternal = elseInternal
)

// Node is the single tagged-variant AST node shape. Which fields are
// meaningful depends on Kind:
//   - Literal: Value
//   - Variable, Collection: Index (name-table index)
//   - FunctionCall, Aggregation: Index (callable-table index), Operands (args)
//   - Index: Operands[0]=Collection node, Operands[1]=index expression
//   - everything else: Operands holds children in a fixed, kind-specific order
type Node struct {
	Kind     Kind
	Value    float64
	Index    int
	Operands []*Node
	Position int
}

// arenaChunkSize bounds the slab size for each arena growth step, trading a
// little waste for amortized-O(1) allocation without reslicing references.
const arenaChunkSize = 64

// Arena is a bump-pointer allocator for Node values. It exists to keep the
// many small nodes of one compiled Expression in a handful of contiguous
// slabs instead of scattering one heap object per node. An Arena must
// outlive every Node pointer it produced; attach it to the owning Expression
// so both are collected together. Not safe for concurrent use — one Arena
// per Parser/Expression.
type Arena struct {
	chunks [][]Node
	pos    int
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc returns a zero-valued Node of the given kind and position, backed by
// arena storage.
func (a *Arena) Alloc(kind Kind, position int) *Node {
	if len(a.chunks) == 0 || a.pos == len(a.chunks[len(a.chunks)-1]) {
		a.chunks = append(a.chunks, make([]Node, arenaChunkSize))
		a.pos = 0
	}
	chunk := a.chunks[len(a.chunks)-1]
	n := &chunk[a.pos]
	a.pos++
	n.Kind = kind
	n.Position = position
	return n
}

// Stringify renders n in parenthesized prefix notation: "kind(operand,
// operand, …)". Literal numerics are formatted with Go's default float
// formatting; Variable/Collection operands are replaced by their name from
// the supplied tables; FunctionCall/Aggregation operands are named from
// callableNames. Name tables are passed as parameters rather than stored as
// a node→expression back-reference, which would otherwise create a cycle
// for no benefit beyond this one call site.
func (n *Node) Stringify(varNames, collNames, callableNames []string) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case Literal:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case Variable:
		return nameAt(varNames, n.Index)
	case Collection:
		return nameAt(collNames, n.Index)
	}

	var parts []string
	if n.Kind == FunctionCall || n.Kind == Aggregation {
		parts = append(parts, nameAt(callableNames, n.Index))
	}
	for _, op := range n.Operands {
		parts = append(parts, op.Stringify(varNames, collNames, callableNames))
	}
	return n.Kind.String() + "(" + strings.Join(parts, ", ") + ")"
}

func nameAt(names []string, index int) string {
	if index < 0 || index >= len(names) {
		return fmt.Sprintf("<?%d>", index)
	}
	return names[index]
}
