package parser

import (
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
)

// engine is the shared parsing machine that every dialect grammar runs on.
// It works over the significant tokens of one file (comments removed) and
// provides ordered-choice backtracking, packrat memoization, recovery to
// synchronization points and a nesting guard.
type engine struct {
	file    token.FileID
	src     string
	dialect token.Dialect
	toks    []token.Token // significant tokens; the last one is EOF
	pos     int

	diags      []diag.Diagnostic
	lastErrPos int // token index of the most recent diagnostic

	memos map[memoKey]memoEntry

	depth     int
	maxDepth  int
	maxErrors int

	// Once halted, tokens from limit on look like EOF and no further
	// diagnostics are reported. haltDiag and tail survive backtracking.
	halted   bool
	limit    int
	haltDiag *diag.Diagnostic
	tail     *ast.Bad
}

type rule uint8

const (
	ruleExpr rule = iota
	ruleType
)

type memoKey struct {
	rule rule
	pos  int
}

type memoEntry struct {
	node  ast.Node
	end   int
	diags []diag.Diagnostic
}

// mark is a saved parser position, see engine.mark.
type mark struct {
	pos        int
	ndiags     int
	lastErrPos int
}

func newEngine(file token.FileID, src string, dialect token.Dialect, toks []token.Token, cfg *config) *engine {
	sig := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Type == token.COMMENT {
			continue
		}
		sig = append(sig, tok)
	}
	if len(sig) == 0 || sig[len(sig)-1].Type != token.EOF {
		sig = append(sig, token.Token{Type: token.EOF, Span: token.NewSpan(file, len(src), len(src))})
	}
	return &engine{
		file:       file,
		src:        src,
		dialect:    dialect,
		toks:       sig,
		lastErrPos: -1,
		memos:      map[memoKey]memoEntry{},
		maxDepth:   cfg.maxDepth,
		maxErrors:  cfg.maxErrors,
		limit:      len(sig) - 1,
	}
}

// Token access

func (e *engine) peek(n int) token.Token {
	i := e.pos + n
	if i >= e.limit {
		return e.eofToken()
	}
	return e.toks[i]
}

func (e *engine) cur() token.Token { return e.peek(0) }

func (e *engine) eofToken() token.Token {
	if e.limit < len(e.toks)-1 {
		// Halted: present a zero-width EOF where the tail begins.
		at := e.toks[e.limit].Span.Start
		return token.Token{Type: token.EOF, Span: token.NewSpan(e.file, at, at), Start: e.toks[e.limit].Start, End: e.toks[e.limit].Start}
	}
	return e.toks[len(e.toks)-1]
}

func (e *engine) at(typ token.Type) bool { return e.cur().Type == typ }

func (e *engine) atEOF() bool { return e.at(token.EOF) }

func (e *engine) atKeyword(kw string) bool { return e.cur().IsKeyword(kw) }

func (e *engine) atWord(w string) bool { return e.cur().IsWord(w) }

// next consumes and returns the current token. It never moves past EOF.
func (e *engine) next() token.Token {
	tok := e.cur()
	if tok.Type != token.EOF {
		e.pos++
	}
	return tok
}

func (e *engine) accept(typ token.Type) (token.Token, bool) {
	if e.at(typ) {
		return e.next(), true
	}
	return token.Token{}, false
}

func (e *engine) acceptKeyword(kw string) (token.Token, bool) {
	if e.atKeyword(kw) {
		return e.next(), true
	}
	return token.Token{}, false
}

func (e *engine) acceptWord(w string) (token.Token, bool) {
	if e.atWord(w) {
		return e.next(), true
	}
	return token.Token{}, false
}

// expect consumes a token of the given type or reports that it is missing
// right after the previous token.
func (e *engine) expect(typ token.Type, context string) (token.Token, bool) {
	if tok, ok := e.accept(typ); ok {
		return tok, true
	}
	e.expected(describeType(typ), context)
	return token.Token{}, false
}

// expectClose consumes the closing delimiter matching open, reporting an
// unclosed delimiter when it is absent.
func (e *engine) expectClose(typ token.Type, open token.Token) bool {
	if _, ok := e.accept(typ); ok {
		return true
	}
	if e.atEOF() || e.atDecl() {
		e.errorf(diag.P203, open.Span, "unclosed %s", describe(open))
		return false
	}
	e.expected(describeType(typ), "")
	return false
}

// atDecl reports whether the current token starts a file-scope declaration
// that cannot appear inside a body. Bodies stop there, so a missing '}'
// does not swallow the declarations that follow it.
func (e *engine) atDecl() bool {
	tok := e.cur()
	if tok.Type != token.KEYWORD {
		return false
	}
	next := e.peek(1)
	switch e.dialect {
	case token.ZScript:
		switch tok.Keyword {
		case "class":
			return next.Type == token.IDENT
		case "extend":
			return next.IsKeyword("class") || next.IsKeyword("struct")
		case "mixin":
			return next.IsKeyword("class")
		}
	case token.Decorate:
		return tok.Keyword == "actor" && next.Type == token.IDENT
	}
	return false
}

// prevEnd returns the end offset of the last consumed token.
func (e *engine) prevEnd() int {
	if e.pos == 0 {
		return 0
	}
	return e.toks[e.pos-1].Span.End
}

// prev returns the last consumed token.
func (e *engine) prev() token.Token {
	if e.pos == 0 {
		return token.Token{}
	}
	return e.toks[e.pos-1]
}

// spanFrom returns the span from start to the end of the last consumed
// token.
func (e *engine) spanFrom(start int) token.Span {
	return token.NewSpan(e.file, start, max(start, e.prevEnd()))
}

// sameLine reports whether the current token starts on the line where the
// previous token ended.
func (e *engine) sameLine() bool {
	if e.pos == 0 {
		return true
	}
	return e.cur().Start.Line == e.prev().End.Line && !e.atEOF()
}

// adjacent reports whether b starts exactly where a ends.
func adjacent(a, b token.Token) bool {
	return a.Span.End == b.Span.Start
}

func (e *engine) ident(tok token.Token) *ast.Ident {
	return &ast.Ident{Range: tok.Span, Name: tok.Literal}
}

// identSpan builds an identifier whose name is the source text of span.
func (e *engine) identSpan(span token.Span) *ast.Ident {
	return &ast.Ident{Range: span, Name: span.Text(e.src)}
}

// run consumes a sequence of adjacent tokens accepted by ok and returns
// them as one identifier, as used for sprite names ("####") and frame
// letters ("[\]"). It returns nil when the current token is not accepted.
func (e *engine) run(ok func(token.Token) bool) *ast.Ident {
	if !ok(e.cur()) {
		return nil
	}
	first := e.next()
	last := first
	for ok(e.cur()) && adjacent(last, e.cur()) {
		last = e.next()
	}
	return e.identSpan(token.NewSpan(e.file, first.Span.Start, last.Span.End))
}

// Backtracking

func (e *engine) mark() mark {
	return mark{pos: e.pos, ndiags: len(e.diags), lastErrPos: e.lastErrPos}
}

func (e *engine) reset(m mark) {
	e.pos = m.pos
	if m.ndiags <= len(e.diags) {
		e.diags = e.diags[:m.ndiags]
	}
	e.lastErrPos = m.lastErrPos
}

// try runs fn speculatively. If fn reports failure the position and any
// diagnostics it produced are rolled back.
func (e *engine) try(fn func() bool) bool {
	m := e.mark()
	if fn() {
		return true
	}
	e.reset(m)
	return false
}

// choice runs the alternatives in order and returns the result of the
// first one that succeeds, rolling back after each failure.
func choice[T any](e *engine, alts ...func() (T, bool)) (T, bool) {
	for _, alt := range alts {
		m := e.mark()
		if v, ok := alt(); ok {
			return v, true
		}
		e.reset(m)
	}
	var zero T
	return zero, false
}

// memo caches the result of rule at the current position so that
// alternatives sharing a prefix do not reparse it.
func (e *engine) memo(r rule, fn func() ast.Node) ast.Node {
	if e.halted {
		return fn()
	}
	key := memoKey{rule: r, pos: e.pos}
	if m, ok := e.memos[key]; ok {
		e.pos = m.end
		for _, d := range m.diags {
			e.report(d)
		}
		return m.node
	}
	before := len(e.diags)
	node := fn()
	if !e.halted {
		saved := make([]diag.Diagnostic, len(e.diags)-before)
		copy(saved, e.diags[before:])
		e.memos[key] = memoEntry{node: node, end: e.pos, diags: saved}
	}
	return node
}

// Nesting guard

// enter increments the nesting depth. It returns false, halting the parse,
// when the maximum depth is exceeded.
func (e *engine) enter() bool {
	if e.depth >= e.maxDepth {
		e.halt(diag.P204, "maximum nesting depth exceeded")
		return false
	}
	e.depth++
	return true
}

func (e *engine) leave() { e.depth-- }

// halt stops the parse at the current token: the remaining input becomes
// one error node appended to the file, and the grammar sees EOF from here.
func (e *engine) halt(code diag.Code, msg string) {
	if e.halted {
		return
	}
	tok := e.cur()
	d := diag.New(code, tok.Span, "%s", msg)
	e.haltDiag = &d
	e.halted = true
	e.limit = e.pos
	if rest := e.toks[e.pos : len(e.toks)-1]; len(rest) > 0 {
		span := token.NewSpan(e.file, rest[0].Span.Start, rest[len(rest)-1].Span.End)
		e.tail = &ast.Bad{Range: span, Message: msg, Tokens: rest}
	}
}

// Diagnostics

func (e *engine) report(d diag.Diagnostic) {
	if e.halted {
		return
	}
	e.diags = append(e.diags, d)
	if e.maxErrors > 0 && len(e.diags) >= e.maxErrors {
		e.halt(diag.P205, "too many errors")
	}
}

// errorf reports a syntax error. At most one diagnostic is reported per
// token position so that a single malformed region does not cascade.
func (e *engine) errorf(code diag.Code, span token.Span, format string, args ...any) {
	if e.halted || e.pos == e.lastErrPos {
		return
	}
	e.lastErrPos = e.pos
	e.report(diag.New(code, span, format, args...))
}

// unexpected reports the current token as unexpected.
func (e *engine) unexpected(want string) {
	tok := e.cur()
	if tok.Type == token.ILLEGAL {
		// Already reported by the lexer.
		e.lastErrPos = e.pos
		return
	}
	if want == "" {
		e.errorf(diag.P201, tok.Span, "unexpected %s", describe(tok))
		return
	}
	e.errorf(diag.P201, tok.Span, "unexpected %s, expected %s", describe(tok), want)
}

// expected reports a missing construct just after the previous token.
func (e *engine) expected(what, context string) {
	span := token.NewSpan(e.file, e.prevEnd(), e.prevEnd())
	if context != "" {
		e.errorf(diag.P202, span, "expected %s %s, found %s", what, context, describe(e.cur()))
		return
	}
	e.errorf(diag.P202, span, "expected %s, found %s", what, describe(e.cur()))
}

// missing returns a zero-width error node placed after the previous token.
func (e *engine) missing(what string) *ast.Bad {
	at := e.prevEnd()
	return &ast.Bad{Range: token.NewSpan(e.file, at, at), Message: "missing " + what, Missing: true}
}

// Recovery

// recover reports the current token as unexpected and skips to the next
// synchronization point. A terminating ";" and balanced brace groups are
// included in the returned node; a closing brace of the enclosing block,
// EOF, or a token for which stop returns true is left in place. At least
// one token is always consumed unless at EOF.
func (e *engine) recover(want string, stop func() bool) *ast.Bad {
	e.unexpected(want)
	start := e.pos
	first := e.cur()
	depth := 0
	for !e.atEOF() {
		tok := e.cur()
		if e.pos > start && depth == 0 {
			if tok.Type == token.RBRACE || e.atDecl() || stop != nil && stop() {
				break
			}
		}
		e.next()
		switch tok.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			if depth > 0 {
				depth--
				if depth == 0 {
					return e.badFrom(start, first)
				}
			}
		case token.SEMICOLON:
			if depth == 0 {
				return e.badFrom(start, first)
			}
		}
	}
	return e.badFrom(start, first)
}

// skipLine consumes the rest of the current line (DeHackEd) into an error
// node, reporting the first token as unexpected.
func (e *engine) skipLine(want string) *ast.Bad {
	return e.recover(want, func() bool { return e.at(token.NEWLINE) })
}

func (e *engine) badFrom(start int, first token.Token) *ast.Bad {
	if e.pos == start {
		return e.missing("")
	}
	toks := e.toks[start:e.pos]
	span := token.NewSpan(e.file, first.Span.Start, toks[len(toks)-1].Span.End)
	return &ast.Bad{Range: span, Message: "unexpected " + describe(first), Tokens: toks}
}

// Units

// unit parses a sequence of declarations until EOF. When decl consumes
// nothing, the offending input is skipped with recover up to the next token
// satisfying sync.
func (e *engine) unit(want string, decl func() ast.Node, sync func() bool) []ast.Node {
	var out []ast.Node
	for !e.atEOF() {
		start := e.pos
		if n := decl(); n != nil {
			out = append(out, n)
		}
		if e.pos == start && !e.atEOF() {
			if bad := e.recover(want, sync); !bad.Missing {
				out = append(out, bad)
			}
		}
	}
	return out
}

// finish wraps the declarations in the root node.
func (e *engine) finish(decls []ast.Node) *ast.File {
	if e.tail != nil {
		decls = append(decls, e.tail)
	}
	return &ast.File{
		Range:   token.NewSpan(e.file, 0, len(e.src)),
		Dialect: e.dialect,
		Decls:   decls,
	}
}

// diagnostics returns the parse diagnostics, including the one that halted
// the parse, if any.
func (e *engine) diagnostics() []diag.Diagnostic {
	out := e.diags
	if e.haltDiag != nil {
		out = append(out, *e.haltDiag)
	}
	return out
}
