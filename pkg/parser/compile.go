package parser

import (
	"log/slog"

	"github.com/sandrolain/limex/pkg/ast"
	"github.com/sandrolain/limex/pkg/handle"
	"github.com/sandrolain/limex/pkg/lexer"
	"github.com/sandrolain/limex/pkg/types"
)

// Result is everything a successful compile produces: the AST root and
// arena that owns it, plus the name tables the tree builder accumulated in
// first-seen order (spec.md §3 "Expression").
type Result struct {
	Root        *ast.Node
	Arena       *ast.Arena
	Variables   []string
	Collections []string
	Target      string
	HasTarget   bool
}

type options struct {
	maxDepth int
	logger   *slog.Logger
}

// Option configures a single Compile call.
type Option func(*options)

// WithMaxDepth bounds token-tree recursion depth; 0 (the default) means
// unbounded. Guards against pathological input driving unbounded recursion
// in the tree builder.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithLogger attaches a logger the tree builder can use for debug tracing.
// Unset, compilation is silent.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Compile tokenizes input and builds its AST against h, returning a Result
// or the first LexError/ParseError encountered.
func Compile(input string, h *handle.Handle, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	root, err := lexer.Tokenize(input)
	if err != nil {
		logger.Debug("limex: tokenize failed", "error", err)
		return nil, err
	}

	p := newParser(h, o.maxDepth)
	node, err := p.buildChildren(ast.Group, nil, root.Children, root.Position)
	if err != nil {
		logger.Debug("limex: tree build failed", "error", err)
		return nil, err
	}
	if len(node.Operands) == 0 {
		err := types.NewError(types.ErrMissingOperand, "empty expression", root.Position)
		logger.Debug("limex: tree build failed", "error", err)
		return nil, err
	}

	return &Result{
		Root:        node,
		Arena:       p.arena,
		Variables:   p.vars,
		Collections: p.colls,
		Target:      p.target,
		HasTarget:   p.hasTarget,
	}, nil
}
