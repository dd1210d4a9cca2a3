// Package lexer converts source text of one dialect into tokens.
//
// A Lexer is created by calling New() with the source and dialect. Tokens are
// then read one at a time with Next(); the final token is always EOF and
// further calls keep returning EOF. Lexing never fails: unrecognized input is
// returned as ILLEGAL tokens and reported through Diagnostics().
package lexer

import (
	"iter"
	"unicode/utf8"

	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
)

// Option is a configuration function for a Lexer.
type Option func(*Lexer)

// WithFile sets the file identifier recorded in token spans.
func WithFile(file token.FileID) Option {
	return func(l *Lexer) {
		l.file = file
	}
}

// Lexer holds the scanning state for one source text.
type Lexer struct {
	src     string
	dialect token.Dialect
	file    token.FileID

	pos       int // current byte offset
	line      int // 0-indexed line of pos
	lineStart int // byte offset of the start of the current line

	// lineHasToken is true once a non-newline token was produced on the
	// current line; DeHackEd only treats '#' as a comment before that.
	lineHasToken bool

	diags []diag.Diagnostic
}

// State is a snapshot of the lexer's position, used by SaveState and
// RestoreState.
type State struct {
	pos, line, lineStart int
	lineHasToken         bool
	ndiags               int
}

// New returns a Lexer for src in the given dialect.
func New(src string, dialect token.Dialect, options ...Option) *Lexer {
	l := &Lexer{src: src, dialect: dialect}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Filename returns the file identifier used in spans.
func (l *Lexer) Filename() token.FileID {
	return l.file
}

// Diagnostics returns the lexical diagnostics reported so far.
func (l *Lexer) Diagnostics() []diag.Diagnostic {
	return l.diags
}

// SaveState captures the lexer position so that scanning can be rewound.
func (l *Lexer) SaveState() State {
	return State{
		pos:          l.pos,
		line:         l.line,
		lineStart:    l.lineStart,
		lineHasToken: l.lineHasToken,
		ndiags:       len(l.diags),
	}
}

// RestoreState rewinds the lexer to a previously saved state, discarding
// diagnostics reported after it.
func (l *Lexer) RestoreState(s State) {
	l.pos = s.pos
	l.line = s.line
	l.lineStart = s.lineStart
	l.lineHasToken = s.lineHasToken
	if s.ndiags <= len(l.diags) {
		l.diags = l.diags[:s.ndiags]
	}
}

// Next returns the next token, including comments.
func (l *Lexer) Next() token.Token {
	switch l.dialect {
	case token.DeHackEd:
		return l.nextDehacked()
	case token.LoadACS:
		return l.nextWord()
	default:
		return l.nextCLike()
	}
}

// Tokenize lexes the whole of src and returns every token, including
// comments and the final EOF, together with the lexical diagnostics.
func Tokenize(src string, dialect token.Dialect, file token.FileID) ([]token.Token, []diag.Diagnostic) {
	l := New(src, dialect, WithFile(file))
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks, l.diags
}

// Tokens returns a lazy sequence over the tokens of src, ending with EOF.
// Each iteration starts a fresh lexer, so the sequence may be ranged over
// any number of times.
func Tokens(src string, dialect token.Dialect, file token.FileID) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		l := New(src, dialect, WithFile(file))
		for {
			tok := l.Next()
			if !yield(tok) || tok.Type == token.EOF {
				return
			}
		}
	}
}

// GetLineText returns the full source line on which tok starts.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.Start.LineStart
	end := start
	for end < len(l.src) && l.src[end] != '\n' {
		end++
	}
	text := l.src[start:end]
	if n := len(text); n > 0 && text[n-1] == '\r' {
		text = text[:n-1]
	}
	return text
}

// Helpers shared by the dialect scanners.

func (l *Lexer) position() token.Position {
	return token.Position{
		Offset:    l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.pos - l.lineStart,
	}
}

func (l *Lexer) peekByte(ahead int) byte {
	if i := l.pos + ahead; i < len(l.src) {
		return l.src[i]
	}
	return 0
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// advance moves forward one byte, tracking line starts.
func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}
	if l.src[l.pos] == '\n' {
		l.line++
		l.lineStart = l.pos + 1
		l.lineHasToken = false
	}
	l.pos++
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// advanceRune moves forward over one UTF-8 encoded character.
func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if size < 1 {
		size = 1
	}
	l.advanceN(size)
}

func (l *Lexer) makeToken(typ token.Type, start token.Position) token.Token {
	l.lineHasToken = l.lineHasToken || typ != token.NEWLINE
	return token.Token{
		Type:    typ,
		Literal: l.src[start.Offset:l.pos],
		Span:    token.NewSpan(l.file, start.Offset, l.pos),
		Start:   start,
		End:     l.position(),
	}
}

func (l *Lexer) eof() token.Token {
	p := l.position()
	return token.Token{
		Type:  token.EOF,
		Span:  token.NewSpan(l.file, p.Offset, p.Offset),
		Start: p,
		End:   p,
	}
}

func (l *Lexer) errorf(code diag.Code, start, end int, format string, args ...any) {
	l.diags = append(l.diags, diag.New(code, token.NewSpan(l.file, start, end), format, args...))
}

// illegal consumes one character and reports it.
func (l *Lexer) illegal(start token.Position) token.Token {
	l.advanceRune()
	tok := l.makeToken(token.ILLEGAL, start)
	l.errorf(diag.L101, start.Offset, l.pos, "unrecognized character %q", tok.Literal)
	return tok
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\v' || ch == '\f'
}
