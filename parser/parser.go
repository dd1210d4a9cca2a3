// Package parser builds syntax trees for every supported dialect.
//
// Parse lexes and parses one file and always returns a tree, even for empty
// or garbage input; problems are reported as diagnostics. Each dialect is a
// grammar running on a shared engine that supplies ordered choice,
// memoization and error recovery, and grammars share the expression and
// state sub-grammars where their syntax coincides.
package parser

import (
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/internal/lexer"
	"github.com/doomfront/doomfront/token"
)

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

type config struct {
	maxDepth  int
	maxErrors int
}

// Option is a configuration function for Parse.
type Option func(*config)

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithMaxErrors stops reporting after n syntax errors; the rest of the
// input is then covered by a single error node. Zero means no limit.
func WithMaxErrors(n int) Option {
	return func(c *config) {
		c.maxErrors = n
	}
}

// grammar is implemented by each dialect.
type grammar interface {
	Dialect() token.Dialect
	ParseUnit(e *engine) *ast.File
}

var grammars = map[token.Dialect]grammar{}

func register(g grammar) {
	grammars[g.Dialect()] = g
}

func init() {
	register(zscriptGrammar{})
	register(decorateGrammar{})
	register(dehackedGrammar{})
	register(umapinfoGrammar{})
	register(cvarinfoGrammar{})
	register(loadacsGrammar{})
}

// Supported reports whether a grammar exists for the dialect.
func Supported(d token.Dialect) bool {
	_, ok := grammars[d]
	return ok
}

// Parse lexes and parses src as the given dialect. The returned diagnostics
// include lexical and syntax errors ordered by span.
func Parse(file token.FileID, src string, dialect token.Dialect, options ...Option) (*ast.File, []diag.Diagnostic) {
	toks, lexDiags := lexer.Tokenize(src, dialect, file)
	tree, diags := ParseTokens(file, src, dialect, toks, options...)
	return tree, diag.Merge(lexDiags, diags)
}

// ParseTokens parses an already lexed token sequence. Comment tokens are
// ignored. src must be the text the tokens were produced from; some
// dialects read raw payloads from it. Only syntax diagnostics are returned.
func ParseTokens(file token.FileID, src string, dialect token.Dialect, toks []token.Token, options ...Option) (*ast.File, []diag.Diagnostic) {
	cfg := &config{maxDepth: DefaultMaxDepth}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.maxDepth <= 0 {
		cfg.maxDepth = DefaultMaxDepth
	}
	e := newEngine(file, src, dialect, toks, cfg)
	g, ok := grammars[dialect]
	if !ok {
		span := token.NewSpan(file, 0, len(src))
		d := diag.New(diag.P207, token.NewSpan(file, 0, 0), "no grammar for dialect %q", dialect)
		var decls []ast.Node
		if len(src) > 0 {
			decls = append(decls, &ast.Bad{Range: span, Message: "unknown dialect"})
		}
		return &ast.File{Range: span, Dialect: dialect, Decls: decls}, []diag.Diagnostic{d}
	}
	tree := g.ParseUnit(e)
	diags := e.diagnostics()
	diag.Sort(diags)
	return tree, diags
}
