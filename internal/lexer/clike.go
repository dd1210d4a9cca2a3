package lexer

import (
	"strconv"
	"strings"

	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
)

// Operators in longest-first order. '>' is never merged with a following
// '>' so that nested type arguments such as array<array<int>> close cleanly;
// the parser joins adjacent '>' tokens into shift operators.
var operators = []struct {
	text string
	typ  token.Type
}{
	{"~==", token.APPROX_EQ},
	{"<>=", token.THREE_WAY},
	{"<<=", token.LT_LT_EQUALS},
	{"...", token.ELLIPSIS},
	{"&&", token.AND},
	{"||", token.OR},
	{"==", token.EQ},
	{"!=", token.NOT_EQ},
	{"<=", token.LT_EQUALS},
	{">=", token.GT_EQUALS},
	{"<<", token.LT_LT},
	{"+=", token.PLUS_EQUALS},
	{"-=", token.MINUS_EQUALS},
	{"*=", token.ASTERISK_EQUALS},
	{"/=", token.SLASH_EQUALS},
	{"%=", token.MOD_EQUALS},
	{"&=", token.AND_EQUALS},
	{"|=", token.OR_EQUALS},
	{"^=", token.XOR_EQUALS},
	{"++", token.PLUS_PLUS},
	{"--", token.MINUS_MINUS},
	{"**", token.POW},
	{"::", token.DOUBLE_COLON},
	{"..", token.DOTDOT},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{";", token.SEMICOLON},
	{":", token.COLON},
	{",", token.COMMA},
	{".", token.PERIOD},
	{"=", token.ASSIGN},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.ASTERISK},
	{"/", token.SLASH},
	{"%", token.MOD},
	{"!", token.BANG},
	{"~", token.TILDE},
	{"&", token.AMPERSAND},
	{"|", token.BITOR},
	{"^", token.CARET},
	{"<", token.LT},
	{">", token.GT},
	{"?", token.QUESTION},
}

// actorDialect reports whether the dialect uses the actor syntax family
// (names in single quotes, preprocessor directives, sprite frames).
func (l *Lexer) actorDialect() bool {
	return l.dialect == token.ZScript || l.dialect == token.Decorate
}

func (l *Lexer) nextCLike() token.Token {
	for !l.atEnd() && (isSpace(l.src[l.pos]) || l.src[l.pos] == '\n') {
		l.advance()
	}
	if l.atEnd() {
		return l.eof()
	}
	start := l.position()
	ch := l.src[l.pos]

	switch {
	case ch == '/' && l.peekByte(1) == '/':
		for !l.atEnd() && l.src[l.pos] != '\n' {
			l.advance()
		}
		return l.makeToken(token.COMMENT, start)
	case ch == '/' && l.peekByte(1) == '*':
		return l.blockComment(start)
	case isLetter(ch):
		return l.identifier(start)
	case isDigit(ch), ch == '.' && isDigit(l.peekByte(1)):
		return l.number(start)
	case ch == '"':
		return l.quoted(start, '"', token.STRING, l.dialect == token.UMapInfo)
	case ch == '\'' && l.actorDialect():
		return l.quoted(start, '\'', token.NAME, false)
	case ch == '#' && l.actorDialect():
		if isLetter(l.peekByte(1)) {
			return l.directive(start)
		}
		l.advance()
		return l.makeToken(token.HASH, start)
	case ch == '\\' && l.actorDialect():
		l.advance()
		return l.makeToken(token.BACKSLASH, start)
	}

	rest := l.src[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			l.advanceN(len(op.text))
			return l.makeToken(op.typ, start)
		}
	}
	return l.illegal(start)
}

func (l *Lexer) blockComment(start token.Position) token.Token {
	l.advanceN(2)
	for !l.atEnd() {
		if l.src[l.pos] == '*' && l.peekByte(1) == '/' {
			l.advanceN(2)
			return l.makeToken(token.COMMENT, start)
		}
		l.advance()
	}
	l.errorf(diag.L103, start.Offset, l.pos, "unterminated block comment")
	return l.makeToken(token.COMMENT, start)
}

func (l *Lexer) identifier(start token.Position) token.Token {
	for !l.atEnd() && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
		l.advance()
	}
	tok := l.makeToken(token.IDENT, start)
	if kw, ok := token.LookupKeyword(l.dialect, tok.Literal); ok {
		tok.Type = token.KEYWORD
		tok.Keyword = kw
		switch kw {
		case "true":
			tok.Value = true
		case "false":
			tok.Value = false
		}
	}
	return tok
}

func (l *Lexer) directive(start token.Position) token.Token {
	l.advance() // '#'
	for !l.atEnd() && isLetter(l.src[l.pos]) {
		l.advance()
	}
	name := strings.ToLower(l.src[start.Offset+1 : l.pos])
	if name == "region" || name == "endregion" {
		// Editor folding markers; the remainder of the line is free text.
		for !l.atEnd() && l.src[l.pos] != '\n' {
			l.advance()
		}
		return l.makeToken(token.COMMENT, start)
	}
	tok := l.makeToken(token.DIRECTIVE, start)
	tok.Keyword = name
	return tok
}

func (l *Lexer) number(start token.Position) token.Token {
	if l.src[l.pos] == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X') {
		l.advanceN(2)
		digits := l.pos
		for !l.atEnd() && isHexDigit(l.src[l.pos]) {
			l.advance()
		}
		if l.pos == digits {
			tok := l.makeToken(token.ILLEGAL, start)
			l.errorf(diag.L104, start.Offset, l.pos, "hexadecimal literal %q has no digits", tok.Literal)
			return tok
		}
		text := l.src[start.Offset:l.pos]
		l.intSuffix()
		return l.intToken(start, text, 0)
	}

	isFloat := false
	for !l.atEnd() && isDigit(l.src[l.pos]) {
		l.advance()
	}
	if !l.atEnd() && l.src[l.pos] == '.' && l.peekByte(1) != '.' && !isLetter(l.peekByte(1)) {
		isFloat = true
		l.advance()
		for !l.atEnd() && isDigit(l.src[l.pos]) {
			l.advance()
		}
	}
	if c := l.peekByte(0); c == 'e' || c == 'E' {
		next := l.peekByte(1)
		switch {
		case isDigit(next) || (next == '+' || next == '-') && isDigit(l.peekByte(2)):
			isFloat = true
			l.advanceN(2)
			for !l.atEnd() && isDigit(l.src[l.pos]) {
				l.advance()
			}
		case next == '+' || next == '-' || !isLetter(next) && !isDigit(next):
			// An exponent marker with no digits: 1e, 2.5e+
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			tok := l.makeToken(token.ILLEGAL, start)
			l.errorf(diag.L104, start.Offset, l.pos, "exponent of %q has no digits", tok.Literal)
			return tok
		}
	}
	text := l.src[start.Offset:l.pos]
	if c := l.peekByte(0); c == 'f' || c == 'F' {
		if !isLetter(l.peekByte(1)) && !isDigit(l.peekByte(1)) {
			isFloat = true
			l.advance()
		}
	}
	if isFloat {
		tok := l.makeToken(token.FLOAT, start)
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.errorf(diag.L104, start.Offset, l.pos, "malformed float literal %q", tok.Literal)
		}
		tok.Value = v
		return tok
	}
	l.intSuffix()
	if len(text) > 1 && text[0] == '0' {
		return l.intToken(start, text, 8)
	}
	return l.intToken(start, text, 10)
}

// intSuffix consumes C-style u/l integer suffixes.
func (l *Lexer) intSuffix() {
	for !l.atEnd() {
		c := l.src[l.pos]
		if c != 'u' && c != 'U' && c != 'l' && c != 'L' {
			return
		}
		if n := l.peekByte(1); isLetter(n) && n != 'u' && n != 'U' && n != 'l' && n != 'L' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) intToken(start token.Position, text string, base int) token.Token {
	tok := l.makeToken(token.INT, start)
	digits := text
	if base == 0 {
		digits, base = text[2:], 16
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil || v > 1<<63-1 {
		l.errorf(diag.L104, start.Offset, l.pos, "malformed integer literal %q", tok.Literal)
		return tok
	}
	tok.Value = int64(v)
	return tok
}

// quoted scans a string or name literal. Escapes follow C with the addition
// of \c, the text color escape.
func (l *Lexer) quoted(start token.Position, quote byte, typ token.Type, multiline bool) token.Token {
	l.advance() // opening quote
	var sb strings.Builder
	closed := false
	for !l.atEnd() {
		ch := l.src[l.pos]
		if ch == quote {
			l.advance()
			closed = true
			break
		}
		if ch == '\n' && !multiline {
			break
		}
		if ch == '\\' && l.pos+1 < len(l.src) {
			escStart := l.pos
			l.advance()
			esc := l.src[l.pos]
			l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case 'a':
				sb.WriteByte('\a')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'v':
				sb.WriteByte('\v')
			case 'c':
				sb.WriteByte('\x1c')
			case '\\', '"', '\'', '?':
				sb.WriteByte(esc)
			case '\n':
				// line continuation
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
				l.errorf(diag.L105, escStart, l.pos, "invalid escape sequence %q", l.src[escStart:l.pos])
			}
			continue
		}
		sb.WriteByte(ch)
		l.advance()
	}
	tok := l.makeToken(typ, start)
	tok.Value = sb.String()
	if !closed {
		code, what := diag.L102, "string"
		if typ == token.NAME {
			code, what = diag.L106, "name"
		}
		l.errorf(code, start.Offset, l.pos, "unterminated %s literal", what)
	}
	return tok
}
