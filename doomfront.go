// Package doomfront is the frontend for the Doom-engine DSLs: ZScript,
// DECORATE, DeHackEd/BEX, UMAPINFO, CVARINFO and LOADACS.
//
// Analyze runs the per-file pipeline. Lexing, parsing and binding are pure
// functions of the source text, so independent files may be analyzed in
// parallel:
//
//	res := doomfront.Analyze("actors/imp.zs", src, token.ZScript)
//	for _, d := range res.Diagnostics {
//		fmt.Println(d)
//	}
//
// Cross-file queries live in the workspace package.
package doomfront

import (
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/binder"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/internal/lexer"
	"github.com/doomfront/doomfront/parser"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

// Result is everything the pipeline produces for one file. A Result is
// immutable once returned and safe to share between goroutines.
type Result struct {
	File    token.FileID
	Dialect token.Dialect
	Tree    *ast.File
	Table   *symbols.Table

	// Diagnostics holds the lex, parse and bind diagnostics ordered by span.
	Diagnostics []diag.Diagnostic
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	return r != nil && diag.Count(r.Diagnostics, diag.Error) > 0
}

// Analyze lexes, parses and binds src. It never fails: malformed input
// yields a partial tree and diagnostics.
func Analyze(file token.FileID, src string, dialect token.Dialect, opts ...Option) *Result {
	o := collectOptions(opts...)
	tree, parseDiags := parser.Parse(file, src, dialect, o.parserOpts()...)
	table, bindDiags := binder.Bind(tree)
	return &Result{
		File:        file,
		Dialect:     dialect,
		Tree:        tree,
		Table:       table,
		Diagnostics: diag.Merge(parseDiags, bindDiags),
	}
}

// Parse runs the lexer and parser only.
func Parse(file token.FileID, src string, dialect token.Dialect, opts ...Option) (*ast.File, []diag.Diagnostic) {
	o := collectOptions(opts...)
	return parser.Parse(file, src, dialect, o.parserOpts()...)
}

// Tokenize returns the token stream of src, trivia included, ending with
// an EOF token.
func Tokenize(file token.FileID, src string, dialect token.Dialect) ([]token.Token, []diag.Diagnostic) {
	return lexer.Tokenize(src, dialect, file)
}

// Dialects returns the supported dialects.
func Dialects() []token.Dialect {
	var out []token.Dialect
	for _, d := range token.Dialects() {
		if parser.Supported(d) {
			out = append(out, d)
		}
	}
	return out
}
