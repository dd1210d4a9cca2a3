package ast

import (
	"bytes"
	"strings"

	"github.com/doomfront/doomfront/token"
)

// Prefix is an operator expression where the operator precedes the operand.
// Examples include "!done", "-x" and "++i".
type Prefix struct {
	Range token.Span
	Op    string
	X     Expr
}

func (x *Prefix) Kind() Kind       { return KindPrefix }
func (x *Prefix) Span() token.Span { return x.Range }
func (x *Prefix) Children() []Node { return nodes(x.X) }
func (x *Prefix) exprNode()        {}

func (x *Prefix) String() string {
	return "(" + x.Op + exprString(x.X) + ")"
}

// Postfix is "x++" or "x--".
type Postfix struct {
	Range token.Span
	X     Expr
	Op    string
}

func (x *Postfix) Kind() Kind       { return KindPostfix }
func (x *Postfix) Span() token.Span { return x.Range }
func (x *Postfix) Children() []Node { return nodes(x.X) }
func (x *Postfix) exprNode()        {}

func (x *Postfix) String() string {
	return "(" + exprString(x.X) + x.Op + ")"
}

// Binary is an infix operator expression, including assignments, "is" and
// string concatenation with "..".
type Binary struct {
	Range token.Span
	X     Expr
	Op    string
	Y     Expr
}

func (x *Binary) Kind() Kind       { return KindBinary }
func (x *Binary) Span() token.Span { return x.Range }
func (x *Binary) Children() []Node { return nodes(x.X, x.Y) }
func (x *Binary) exprNode()        {}

func (x *Binary) String() string {
	return "(" + exprString(x.X) + " " + x.Op + " " + exprString(x.Y) + ")"
}

// IsAssignment reports whether the operator is "=" or a compound assignment.
func (x *Binary) IsAssignment() bool {
	switch x.Op {
	case "=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", ">>>=", "&=", "|=", "^=":
		return true
	}
	return false
}

// Ternary is "cond ? a : b".
type Ternary struct {
	Range token.Span
	Cond  Expr
	Then  Expr
	Else  Expr
}

func (x *Ternary) Kind() Kind       { return KindTernary }
func (x *Ternary) Span() token.Span { return x.Range }
func (x *Ternary) Children() []Node { return nodes(x.Cond, x.Then, x.Else) }
func (x *Ternary) exprNode()        {}

func (x *Ternary) String() string {
	return "(" + exprString(x.Cond) + " ? " + exprString(x.Then) + " : " + exprString(x.Else) + ")"
}

// Call is a function or action call.
type Call struct {
	Range token.Span
	Fun   Expr
	Args  []*Arg
}

func (x *Call) Kind() Kind       { return KindCall }
func (x *Call) Span() token.Span { return x.Range }
func (x *Call) Children() []Node { return each(nodes(x.Fun), x.Args) }
func (x *Call) exprNode()        {}

func (x *Call) String() string {
	var out bytes.Buffer
	out.WriteString(exprString(x.Fun))
	out.WriteString("(")
	for i, a := range x.Args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	out.WriteString(")")
	return out.String()
}

// Arg is one call argument, optionally named ("flags: CMF_AIMDIRECTION").
type Arg struct {
	Range token.Span
	Name  *Ident
	Value Expr
}

func (x *Arg) Kind() Kind       { return KindArg }
func (x *Arg) Span() token.Span { return x.Range }
func (x *Arg) Children() []Node { return nodes(x.Name, x.Value) }
func (x *Arg) exprNode()        {}

func (x *Arg) String() string {
	if x.Name != nil {
		return x.Name.Name + ": " + exprString(x.Value)
	}
	return exprString(x.Value)
}

// Index is "x[i]".
type Index struct {
	Range token.Span
	X     Expr
	Index Expr
}

func (x *Index) Kind() Kind       { return KindIndex }
func (x *Index) Span() token.Span { return x.Range }
func (x *Index) Children() []Node { return nodes(x.X, x.Index) }
func (x *Index) exprNode()        {}

func (x *Index) String() string {
	return exprString(x.X) + "[" + exprString(x.Index) + "]"
}

// Member is "x.name".
type Member struct {
	Range token.Span
	X     Expr
	Name  *Ident
}

func (x *Member) Kind() Kind       { return KindMember }
func (x *Member) Span() token.Span { return x.Range }
func (x *Member) Children() []Node { return nodes(x.X, x.Name) }
func (x *Member) exprNode()        {}

func (x *Member) String() string {
	name := ""
	if x.Name != nil {
		name = x.Name.Name
	}
	return exprString(x.X) + "." + name
}

// Vector is a vector literal "(x, y)" or "(x, y, z)".
type Vector struct {
	Range token.Span
	Elems []Expr
}

func (x *Vector) Kind() Kind       { return KindVector }
func (x *Vector) Span() token.Span { return x.Range }
func (x *Vector) Children() []Node { return each(nil, x.Elems) }
func (x *Vector) exprNode()        {}

func (x *Vector) String() string {
	parts := make([]string, len(x.Elems))
	for i, e := range x.Elems {
		parts[i] = exprString(e)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Cast is a class cast "(class<Actor>)(x)".
type Cast struct {
	Range token.Span
	Type  *TypeRef
	X     Expr
}

func (x *Cast) Kind() Kind       { return KindCast }
func (x *Cast) Span() token.Span { return x.Range }
func (x *Cast) Children() []Node { return nodes(x.Type, x.X) }
func (x *Cast) exprNode()        {}

func (x *Cast) String() string {
	return "(" + x.Type.String() + ")(" + exprString(x.X) + ")"
}

// SizeOf is "sizeof(x)" or "alignof(x)".
type SizeOf struct {
	Range token.Span
	Op    string
	X     Expr
}

func (x *SizeOf) Kind() Kind       { return KindSizeOf }
func (x *SizeOf) Span() token.Span { return x.Range }
func (x *SizeOf) Children() []Node { return nodes(x.X) }
func (x *SizeOf) exprNode()        {}

func (x *SizeOf) String() string {
	return x.Op + "(" + exprString(x.X) + ")"
}

// TypeRef names a type, with optional type arguments as in "array<int>",
// "class<Actor>" or "map<Name, int>". Fixed array dimensions are recorded on
// the declared variable, not here.
type TypeRef struct {
	Range token.Span
	Name  *Ident
	Args  []*TypeRef
}

func (x *TypeRef) Kind() Kind       { return KindTypeRef }
func (x *TypeRef) Span() token.Span { return x.Range }
func (x *TypeRef) Children() []Node { return each(nodes(x.Name), x.Args) }
func (x *TypeRef) exprNode()        {}

func (x *TypeRef) String() string {
	if x == nil {
		return "<nil>"
	}
	var out bytes.Buffer
	if x.Name != nil {
		out.WriteString(x.Name.Name)
	}
	if len(x.Args) > 0 {
		out.WriteString("<")
		for i, a := range x.Args {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(a.String())
		}
		out.WriteString(">")
	}
	return out.String()
}

func exprString(e Expr) string {
	if isNil(e) {
		return "<nil>"
	}
	return e.String()
}
