package lexer

import "github.com/doomfront/doomfront/token"

// nextWord scans word lists such as LOADACS: whitespace separated words with
// C-style comments.
func (l *Lexer) nextWord() token.Token {
	for !l.atEnd() && (isSpace(l.src[l.pos]) || l.src[l.pos] == '\n') {
		l.advance()
	}
	if l.atEnd() {
		return l.eof()
	}
	start := l.position()
	switch ch := l.src[l.pos]; {
	case ch == '/' && l.peekByte(1) == '/':
		for !l.atEnd() && l.src[l.pos] != '\n' {
			l.advance()
		}
		return l.makeToken(token.COMMENT, start)
	case ch == '/' && l.peekByte(1) == '*':
		return l.blockComment(start)
	case isControl(ch):
		return l.illegal(start)
	}
	for !l.atEnd() {
		ch := l.src[l.pos]
		if isSpace(ch) || ch == '\n' || isControl(ch) {
			break
		}
		if ch == '/' && (l.peekByte(1) == '/' || l.peekByte(1) == '*') {
			break
		}
		l.advanceRune()
	}
	return l.makeToken(token.IDENT, start)
}
