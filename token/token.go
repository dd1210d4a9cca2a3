// Package token defines the tokens, source positions and spans shared by
// every dialect lexer and parser.
package token

import "strings"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Offset    int // byte offset within the file
	LineStart int // byte offset of the start of the current line
	Line      int // 0-indexed line number
	Column    int // 0-indexed column number (in bytes)
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type    Type
	Literal string // raw source text
	Value   any    // decoded literal: int64, float64, string or bool
	Keyword string // lower-cased keyword when Type is KEYWORD
	Span    Span
	Start   Position
	End     Position
}

// Is reports whether the token has the given type.
func (t Token) Is(typ Type) bool {
	return t.Type == typ
}

// IsKeyword reports whether the token is the given keyword. Keywords are
// stored lower-cased so kw must be lower-case.
func (t Token) IsKeyword(kw string) bool {
	return t.Type == KEYWORD && t.Keyword == kw
}

// IsWord reports whether the token is an identifier or keyword whose text
// matches w without regard to case. Used for contextual keywords such as
// "goto" or "replaces" that are ordinary identifiers elsewhere.
func (t Token) IsWord(w string) bool {
	if t.Type != IDENT && t.Type != KEYWORD {
		return false
	}
	return strings.EqualFold(t.Literal, w)
}

// Category returns the coarse classification of the token.
func (t Token) Category() Category {
	return t.Type.Category()
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of file"
	case NEWLINE:
		return "end of line"
	}
	if t.Literal == "" {
		return string(t.Type)
	}
	return t.Literal
}

// Token types
const (
	ILLEGAL   Type = "ILLEGAL"
	EOF       Type = "EOF"
	NEWLINE   Type = "EOL"
	COMMENT   Type = "COMMENT"
	DIRECTIVE Type = "DIRECTIVE"

	IDENT   Type = "IDENT"
	KEYWORD Type = "KEYWORD"

	INT    Type = "INT"
	FLOAT  Type = "FLOAT"
	STRING Type = "STRING"
	NAME   Type = "NAME" // single-quoted name literal

	AND             Type = "&&"
	BACKSLASH       Type = "\\"
	HASH            Type = "#"
	AND_EQUALS      Type = "&="
	AMPERSAND       Type = "&"
	APPROX_EQ       Type = "~=="
	ASSIGN          Type = "="
	ASTERISK        Type = "*"
	ASTERISK_EQUALS Type = "*="
	BANG            Type = "!"
	BITOR           Type = "|"
	CARET           Type = "^"
	COLON           Type = ":"
	COMMA           Type = ","
	DOUBLE_COLON    Type = "::"
	DOTDOT          Type = ".."
	ELLIPSIS        Type = "..."
	EQ              Type = "=="
	GT              Type = ">"
	GT_EQUALS       Type = ">="
	LBRACE          Type = "{"
	LBRACKET        Type = "["
	LPAREN          Type = "("
	LT              Type = "<"
	LT_EQUALS       Type = "<="
	LT_LT           Type = "<<"
	LT_LT_EQUALS    Type = "<<="
	MINUS           Type = "-"
	MINUS_EQUALS    Type = "-="
	MINUS_MINUS     Type = "--"
	MOD             Type = "%"
	MOD_EQUALS      Type = "%="
	NOT_EQ          Type = "!="
	OR              Type = "||"
	OR_EQUALS       Type = "|="
	PERIOD          Type = "."
	PLUS            Type = "+"
	PLUS_EQUALS     Type = "+="
	PLUS_PLUS       Type = "++"
	POW             Type = "**"
	QUESTION        Type = "?"
	RBRACE          Type = "}"
	RBRACKET        Type = "]"
	RPAREN          Type = ")"
	SEMICOLON       Type = ";"
	SLASH           Type = "/"
	SLASH_EQUALS    Type = "/="
	THREE_WAY       Type = "<>="
	TILDE           Type = "~"
	XOR_EQUALS      Type = "^="
)

// Category is the coarse classification of a token type.
type Category uint8

const (
	CatPunctuation Category = iota
	CatKeyword
	CatIdentifier
	CatLiteral
	CatComment
	CatDirective
	CatNewline
	CatError
	CatEOF
)

var categoryNames = [...]string{
	CatPunctuation: "punctuation",
	CatKeyword:     "keyword",
	CatIdentifier:  "identifier",
	CatLiteral:     "literal",
	CatComment:     "comment",
	CatDirective:   "directive",
	CatNewline:     "newline",
	CatError:       "error",
	CatEOF:         "eof",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Category returns the coarse classification of the token type.
func (t Type) Category() Category {
	switch t {
	case KEYWORD:
		return CatKeyword
	case IDENT:
		return CatIdentifier
	case INT, FLOAT, STRING, NAME:
		return CatLiteral
	case COMMENT:
		return CatComment
	case DIRECTIVE:
		return CatDirective
	case NEWLINE:
		return CatNewline
	case ILLEGAL:
		return CatError
	case EOF:
		return CatEOF
	default:
		return CatPunctuation
	}
}

// IsTrivia reports whether tokens of this type carry no syntax.
func (t Type) IsTrivia() bool {
	return t == COMMENT
}
