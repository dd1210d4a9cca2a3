package ast

import (
	"strconv"

	"github.com/doomfront/doomfront/token"
)

// Ident is a name. Qualified names such as "Inventory.Amount" or
// "Super::Spawn" are kept as one Ident whose Name is the full text.
type Ident struct {
	Range token.Span
	Name  string
}

func (x *Ident) Kind() Kind       { return KindIdent }
func (x *Ident) Span() token.Span { return x.Range }
func (x *Ident) Children() []Node { return nil }
func (x *Ident) String() string   { return x.Name }
func (x *Ident) exprNode()        {}

// Int is an integer literal.
type Int struct {
	Range   token.Span
	Literal string
	Value   int64
}

func (x *Int) Kind() Kind       { return KindInt }
func (x *Int) Span() token.Span { return x.Range }
func (x *Int) Children() []Node { return nil }
func (x *Int) String() string   { return x.Literal }
func (x *Int) exprNode()        {}

// Float is a floating point literal.
type Float struct {
	Range   token.Span
	Literal string
	Value   float64
}

func (x *Float) Kind() Kind       { return KindFloat }
func (x *Float) Span() token.Span { return x.Range }
func (x *Float) Children() []Node { return nil }
func (x *Float) String() string   { return x.Literal }
func (x *Float) exprNode()        {}

// String is a string literal. Value holds the decoded text. Adjacent string
// literals are concatenated into one node.
type String struct {
	Range token.Span
	Value string
}

func (x *String) Kind() Kind       { return KindString }
func (x *String) Span() token.Span { return x.Range }
func (x *String) Children() []Node { return nil }
func (x *String) String() string   { return strconv.Quote(x.Value) }
func (x *String) exprNode()        {}

// Name is a single-quoted name literal such as 'Imp'.
type Name struct {
	Range token.Span
	Value string
}

func (x *Name) Kind() Kind       { return KindName }
func (x *Name) Span() token.Span { return x.Range }
func (x *Name) Children() []Node { return nil }
func (x *Name) String() string   { return "'" + x.Value + "'" }
func (x *Name) exprNode()        {}

// Bool is a true or false literal.
type Bool struct {
	Range token.Span
	Value bool
}

func (x *Bool) Kind() Kind       { return KindBool }
func (x *Bool) Span() token.Span { return x.Range }
func (x *Bool) Children() []Node { return nil }
func (x *Bool) String() string   { return strconv.FormatBool(x.Value) }
func (x *Bool) exprNode()        {}

// Null is the null literal.
type Null struct {
	Range token.Span
}

func (x *Null) Kind() Kind       { return KindNull }
func (x *Null) Span() token.Span { return x.Range }
func (x *Null) Children() []Node { return nil }
func (x *Null) String() string   { return "null" }
func (x *Null) exprNode()        {}
