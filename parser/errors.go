package parser

import (
	"fmt"

	"github.com/doomfront/doomfront/token"
)

// describe returns a human friendly description of a token for use in
// diagnostics.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.NEWLINE:
		return "end of line"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case token.KEYWORD:
		return fmt.Sprintf("keyword %q", tok.Literal)
	case token.INT, token.FLOAT:
		return fmt.Sprintf("number %s", tok.Literal)
	case token.STRING:
		return "string literal"
	case token.NAME:
		return "name literal"
	case token.DIRECTIVE:
		return fmt.Sprintf("directive %q", tok.Literal)
	case token.ILLEGAL:
		return fmt.Sprintf("illegal token %q", tok.Literal)
	}
	return fmt.Sprintf("%q", tok.Literal)
}

// describeType returns a description of a token type for "expected ..."
// messages.
func describeType(typ token.Type) string {
	switch typ {
	case token.IDENT:
		return "identifier"
	case token.INT:
		return "integer"
	case token.FLOAT:
		return "number"
	case token.STRING:
		return "string literal"
	case token.NAME:
		return "name literal"
	case token.NEWLINE:
		return "end of line"
	case token.EOF:
		return "end of file"
	}
	return fmt.Sprintf("%q", string(typ))
}
