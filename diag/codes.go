package diag

// Code identifies a diagnostic type. Codes are organized by stage:
//   - L1xx: lexical errors
//   - P2xx: syntax errors
//   - B3xx: binding errors
//   - R4xx: resolution warnings
type Code string

const (
	// Lexical errors (L1xx)
	L101 Code = "L101" // Unrecognized character
	L102 Code = "L102" // Unterminated string literal
	L103 Code = "L103" // Unterminated block comment
	L104 Code = "L104" // Malformed number literal
	L105 Code = "L105" // Invalid escape sequence
	L106 Code = "L106" // Unterminated name literal

	// Syntax errors (P2xx)
	P201 Code = "P201" // Unexpected token
	P202 Code = "P202" // Missing required construct
	P203 Code = "P203" // Unclosed delimiter
	P204 Code = "P204" // Maximum nesting depth exceeded
	P205 Code = "P205" // Too many errors
	P206 Code = "P206" // Invalid value
	P207 Code = "P207" // Unknown dialect

	// Binding errors (B3xx)
	B301 Code = "B301" // Duplicate declaration
	B302 Code = "B302" // Self inheritance
	B303 Code = "B303" // Ambiguous or unqualified name
	B304 Code = "B304" // Duplicate key in block

	// Resolution warnings (R4xx)
	R401 Code = "R401" // Unresolved parent
	R402 Code = "R402" // Unresolved include
	R403 Code = "R403" // Include cycle
	R404 Code = "R404" // Unresolved reference
	R405 Code = "R405" // Inheritance cycle
)

// codeDescriptions maps codes to their short descriptions.
var codeDescriptions = map[Code]string{
	L101: "unrecognized character",
	L102: "unterminated string literal",
	L103: "unterminated block comment",
	L104: "malformed number literal",
	L105: "invalid escape sequence",
	L106: "unterminated name literal",

	P201: "unexpected token",
	P202: "missing required construct",
	P203: "unclosed delimiter",
	P204: "maximum nesting depth exceeded",
	P205: "too many errors",
	P206: "invalid value",
	P207: "unknown dialect",

	B301: "duplicate declaration",
	B302: "self inheritance",
	B303: "ambiguous name",
	B304: "duplicate key",

	R401: "unresolved parent",
	R402: "unresolved include",
	R403: "include cycle",
	R404: "unresolved reference",
	R405: "inheritance cycle",
}

// Description returns the short description of the code.
func (c Code) Description() string {
	if d, ok := codeDescriptions[c]; ok {
		return d
	}
	return ""
}

// Stage returns the pipeline stage the code belongs to.
func (c Code) Stage() Stage {
	if c == "" {
		return StageParse
	}
	switch c[0] {
	case 'L':
		return StageLex
	case 'B':
		return StageBind
	case 'R':
		return StageResolve
	default:
		return StageParse
	}
}
