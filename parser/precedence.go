package parser

import "github.com/doomfront/doomfront/token"

// Precedence order for operators, lowest first. Bitwise operators bind
// tighter than comparisons, as in the engines' own grammar.
const (
	_ int = iota
	LOWEST
	ASSIGN  // = += -= ...
	TERNARY // ? :
	OROR    // ||
	ANDAND  // &&
	EQUALS  // == != ~==
	COMPARE // < > <= >= <>= is
	CONCAT  // ..
	BITOR   // |
	BITXOR  // ^
	BITAND  // &
	SHIFT   // << >> >>>
	SUM     // + -
	PRODUCT // * / % cross dot
	POWER   // **
	PREFIX  // -X !X ~X ++X
)

var precedences = map[token.Type]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_EQUALS:     ASSIGN,
	token.MINUS_EQUALS:    ASSIGN,
	token.ASTERISK_EQUALS: ASSIGN,
	token.SLASH_EQUALS:    ASSIGN,
	token.MOD_EQUALS:      ASSIGN,
	token.LT_LT_EQUALS:    ASSIGN,
	token.AND_EQUALS:      ASSIGN,
	token.OR_EQUALS:       ASSIGN,
	token.XOR_EQUALS:      ASSIGN,
	token.QUESTION:        TERNARY,
	token.OR:              OROR,
	token.AND:             ANDAND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.APPROX_EQ:       EQUALS,
	token.LT:              COMPARE,
	token.GT:              COMPARE,
	token.LT_EQUALS:       COMPARE,
	token.GT_EQUALS:       COMPARE,
	token.THREE_WAY:       COMPARE,
	token.DOTDOT:          CONCAT,
	token.BITOR:           BITOR,
	token.CARET:           BITXOR,
	token.AMPERSAND:       BITAND,
	token.LT_LT:           SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.MOD:             PRODUCT,
	token.POW:             POWER,
}

// rightAssoc reports whether operators of the given precedence group to
// the right.
func rightAssoc(prec int) bool {
	return prec == ASSIGN || prec == TERNARY
}
