// Package limex parses Unicode-rich mathematical and logical expression
// strings into an AST and evaluates them repeatedly against numeric
// bindings for named scalar variables and named ordered collections, with
// user-registrable named callables and aggregators via a Handle.
//
// # Quick start
//
//	h := handle.New()
//	expr, err := limex.Compile("3*x + sum{xs[]}", h)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := expr.Evaluate([]float64{2}, [][]float64{{1, 2, 3}})
//
// # More information
//
// For detailed documentation, see:
//   - Lexer: github.com/sandrolain/limex/pkg/lexer
//   - Parser: github.com/sandrolain/limex/pkg/parser
//   - Evaluator: github.com/sandrolain/limex/pkg/evaluator
//   - Handle: github.com/sandrolain/limex/pkg/handle
package limex

import (
	"fmt"
	"log/slog"

	"github.com/sandrolain/limex/pkg/cache"
	"github.com/sandrolain/limex/pkg/handle"
	"github.com/sandrolain/limex/pkg/parser"
)

// Version returns the current version of LIMEX.
func Version() string {
	return "v0.1.0-dev"
}

type compileOptions struct {
	maxDepth int
	logger   *slog.Logger
	cache    *cache.Cache[*Expression]
}

// CompileOption configures a single Compile call.
type CompileOption func(*compileOptions)

// WithMaxDepth bounds token-tree recursion depth; 0 (the default) means
// unbounded.
func WithMaxDepth(n int) CompileOption {
	return func(o *compileOptions) { o.maxDepth = n }
}

// WithLogger attaches a logger for debug tracing of tokenizing/tree
// building. Unset, compilation is silent at the default slog level.
func WithLogger(l *slog.Logger) CompileOption {
	return func(o *compileOptions) { o.logger = l }
}

// WithCache routes Compile through c, keyed by the input source text: a
// repeated Compile call for the same string returns the cached Expression
// instead of re-tokenizing and re-building it.
func WithCache(c *cache.Cache[*Expression]) CompileOption {
	return func(o *compileOptions) { o.cache = c }
}

// Compile parses input against h and returns a reusable Expression, or the
// first LexError/ParseError encountered.
func Compile(input string, h *handle.Handle, opts ...CompileOption) (*Expression, error) {
	var o compileOptions
	for _, opt := range opts {
		opt(&o)
	}

	build := func() (*Expression, error) {
		var parserOpts []parser.Option
		if o.maxDepth > 0 {
			parserOpts = append(parserOpts, parser.WithMaxDepth(o.maxDepth))
		}
		if o.logger != nil {
			parserOpts = append(parserOpts, parser.WithLogger(o.logger))
		}

		res, err := parser.Compile(input, h, parserOpts...)
		if err != nil {
			return nil, err
		}
		return &Expression{
			input:       input,
			handle:      h,
			root:        res.Root,
			arena:       res.Arena,
			variables:   res.Variables,
			collections: res.Collections,
			target:      res.Target,
			hasTarget:   res.HasTarget,
		}, nil
	}

	if o.cache == nil {
		return build()
	}
	return o.cache.GetOrCompile(input, build)
}

// MustCompile is like Compile but panics if input cannot be compiled. It
// simplifies safe initialization of package-level expressions.
func MustCompile(input string, h *handle.Handle, opts ...CompileOption) *Expression {
	expr, err := Compile(input, h, opts...)
	if err != nil {
		panic(fmt.Sprintf("limex: Compile(%q): %v", input, err))
	}
	return expr
}

// Eval is a convenience function that compiles and evaluates an expression
// in a single call. For repeated evaluations of the same expression, use
// Compile instead.
func Eval(input string, h *handle.Handle, varValues []float64, collValues [][]float64) (float64, error) {
	expr, err := Compile(input, h)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate(varValues, collValues)
}
