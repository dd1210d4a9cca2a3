package lexer

import (
	"strconv"
	"strings"

	"github.com/doomfront/doomfront/token"
)

// nextDehacked scans DeHackEd and BEX patches. The format is line oriented:
// newlines are significant, '#' opens a comment only when it is the first
// thing on a line, and everything else is a word delimited by whitespace or
// one of "=()[]".
func (l *Lexer) nextDehacked() token.Token {
	for !l.atEnd() && isSpace(l.src[l.pos]) {
		l.advance()
	}
	if l.atEnd() {
		return l.eof()
	}
	start := l.position()
	ch := l.src[l.pos]

	switch {
	case ch == '\n':
		l.advance()
		return l.makeToken(token.NEWLINE, start)
	case ch == '#' && !l.lineHasToken:
		for !l.atEnd() && l.src[l.pos] != '\n' {
			l.advance()
		}
		tok := l.makeToken(token.COMMENT, start)
		l.lineHasToken = false
		return tok
	case ch == '=':
		l.advance()
		return l.makeToken(token.ASSIGN, start)
	case ch == '(':
		l.advance()
		return l.makeToken(token.LPAREN, start)
	case ch == ')':
		l.advance()
		return l.makeToken(token.RPAREN, start)
	case ch == '[':
		l.advance()
		return l.makeToken(token.LBRACKET, start)
	case ch == ']':
		l.advance()
		return l.makeToken(token.RBRACKET, start)
	case isControl(ch):
		return l.illegal(start)
	}

	for !l.atEnd() && isDehackedWordByte(l.src[l.pos]) {
		l.advanceRune()
	}
	tok := l.makeToken(token.IDENT, start)
	if v, ok := dehackedInt(tok.Literal); ok {
		tok.Type = token.INT
		tok.Value = v
	} else if f, ok := dehackedFloat(tok.Literal); ok {
		tok.Type = token.FLOAT
		tok.Value = f
	}
	return tok
}

func isDehackedWordByte(ch byte) bool {
	switch ch {
	case '=', '(', ')', '[', ']', '\n':
		return false
	}
	return !isSpace(ch) && !isControl(ch)
}

func isControl(ch byte) bool {
	return ch < 0x20 && !isSpace(ch) && ch != '\n' || ch == 0x7f
}

// dehackedInt decodes decimal and 0x-prefixed hexadecimal integers with an
// optional sign, the forms accepted by numeric patch fields.
func dehackedInt(w string) (int64, bool) {
	neg := false
	switch {
	case strings.HasPrefix(w, "-"):
		neg, w = true, w[1:]
	case strings.HasPrefix(w, "+"):
		w = w[1:]
	}
	if w == "" {
		return 0, false
	}
	var (
		v   int64
		err error
	)
	if len(w) > 2 && (w[:2] == "0x" || w[:2] == "0X") {
		v, err = strconv.ParseInt(w[2:], 16, 64)
	} else {
		for i := 0; i < len(w); i++ {
			if !isDigit(w[i]) {
				return 0, false
			}
		}
		v, err = strconv.ParseInt(w, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

func dehackedFloat(w string) (float64, bool) {
	if w == "" || strings.ContainsAny(w, "xXnNiI_") {
		return 0, false
	}
	if c := w[0]; !isDigit(c) && c != '-' && c != '+' && c != '.' {
		return 0, false
	}
	f, err := strconv.ParseFloat(w, 64)
	return f, err == nil
}
