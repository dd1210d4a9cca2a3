package ast

import "github.com/doomfront/doomfront/token"

// Block is a braced statement list. Blocks are also used as anonymous state
// actions.
type Block struct {
	Range token.Span
	Stmts []Stmt
}

func (x *Block) Kind() Kind       { return KindBlock }
func (x *Block) Span() token.Span { return x.Range }
func (x *Block) Children() []Node { return each(nil, x.Stmts) }
func (x *Block) stmtNode()        {}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Range token.Span
	X     Expr
}

func (x *ExprStmt) Kind() Kind       { return KindExprStmt }
func (x *ExprStmt) Span() token.Span { return x.Range }
func (x *ExprStmt) Children() []Node { return nodes(x.X) }
func (x *ExprStmt) stmtNode()        {}

// LocalVar declares one or more local variables of one type:
// "int a = 1, b[4];".
type LocalVar struct {
	Range token.Span
	Type  *TypeRef
	Vars  []*VarSpec
}

func (x *LocalVar) Kind() Kind       { return KindLocalVar }
func (x *LocalVar) Span() token.Span { return x.Range }
func (x *LocalVar) Children() []Node { return each(nodes(x.Type), x.Vars) }
func (x *LocalVar) stmtNode()        {}

// VarSpec is one declared name with an optional array size and initializer.
type VarSpec struct {
	Range token.Span
	Name  *Ident
	Size  []Expr // fixed array dimensions; an empty dimension is nil
	Init  Expr
}

func (x *VarSpec) Kind() Kind       { return KindVarSpec }
func (x *VarSpec) Span() token.Span { return x.Range }
func (x *VarSpec) Children() []Node { return nodes(append(each(nodes(x.Name), x.Size), x.Init)...) }

// Let is "let name = value;".
type Let struct {
	Range token.Span
	Name  *Ident
	Value Expr
}

func (x *Let) Kind() Kind       { return KindLet }
func (x *Let) Span() token.Span { return x.Range }
func (x *Let) Children() []Node { return nodes(x.Name, x.Value) }
func (x *Let) stmtNode()        {}

// If is "if (cond) then [else else]".
type If struct {
	Range token.Span
	Cond  Expr
	Then  Stmt
	Else  Stmt
}

func (x *If) Kind() Kind       { return KindIf }
func (x *If) Span() token.Span { return x.Range }
func (x *If) Children() []Node { return nodes(x.Cond, x.Then, x.Else) }
func (x *If) stmtNode()        {}

// While is a "while (cond)" loop, or an "until (cond)" loop when Until is set.
type While struct {
	Range token.Span
	Until bool
	Cond  Expr
	Body  Stmt
}

func (x *While) Kind() Kind       { return KindWhile }
func (x *While) Span() token.Span { return x.Range }
func (x *While) Children() []Node { return nodes(x.Cond, x.Body) }
func (x *While) stmtNode()        {}

// DoWhile is "do body while (cond);" or "do body until (cond);".
type DoWhile struct {
	Range token.Span
	Body  Stmt
	Until bool
	Cond  Expr
}

func (x *DoWhile) Kind() Kind       { return KindDoWhile }
func (x *DoWhile) Span() token.Span { return x.Range }
func (x *DoWhile) Children() []Node { return nodes(x.Body, x.Cond) }
func (x *DoWhile) stmtNode()        {}

// For is a C-style for loop. Init holds local declarations or expression
// statements.
type For struct {
	Range token.Span
	Init  []Stmt
	Cond  Expr
	Post  []Expr
	Body  Stmt
}

func (x *For) Kind() Kind       { return KindFor }
func (x *For) Span() token.Span { return x.Range }
func (x *For) Children() []Node {
	out := each(nil, x.Init)
	out = append(out, nodes(x.Cond)...)
	out = each(out, x.Post)
	return append(out, nodes(x.Body)...)
}
func (x *For) stmtNode() {}

// ForEach is "foreach (v : coll)" or "foreach (k, v : coll)".
type ForEach struct {
	Range token.Span
	Vars  []*Ident
	Iter  Expr
	Body  Stmt
}

func (x *ForEach) Kind() Kind       { return KindForEach }
func (x *ForEach) Span() token.Span { return x.Range }
func (x *ForEach) Children() []Node { return append(each(nil, x.Vars), nodes(x.Iter, x.Body)...) }
func (x *ForEach) stmtNode()        {}

// Switch is "switch (tag) { ... }". Case labels appear as statements inside
// the body, as in C.
type Switch struct {
	Range token.Span
	Tag   Expr
	Body  *Block
}

func (x *Switch) Kind() Kind       { return KindSwitch }
func (x *Switch) Span() token.Span { return x.Range }
func (x *Switch) Children() []Node { return nodes(x.Tag, x.Body) }
func (x *Switch) stmtNode()        {}

// Case is a "case v:" label, or "default:" when Value is nil.
type Case struct {
	Range token.Span
	Value Expr
}

func (x *Case) Kind() Kind       { return KindCase }
func (x *Case) Span() token.Span { return x.Range }
func (x *Case) Children() []Node { return nodes(x.Value) }
func (x *Case) stmtNode()        {}

// IsDefault reports whether this is the default label.
func (x *Case) IsDefault() bool { return x.Value == nil }

// Branch is "break;" or "continue;".
type Branch struct {
	Range token.Span
	Tok   string
}

func (x *Branch) Kind() Kind       { return KindBranch }
func (x *Branch) Span() token.Span { return x.Range }
func (x *Branch) Children() []Node { return nil }
func (x *Branch) stmtNode()        {}

// Return is "return [values];".
type Return struct {
	Range  token.Span
	Values []Expr
}

func (x *Return) Kind() Kind       { return KindReturn }
func (x *Return) Span() token.Span { return x.Range }
func (x *Return) Children() []Node { return each(nil, x.Values) }
func (x *Return) stmtNode()        {}

// MultiAssign is "[a, b] = f();".
type MultiAssign struct {
	Range   token.Span
	Targets []Expr
	Value   Expr
}

func (x *MultiAssign) Kind() Kind       { return KindMultiAssign }
func (x *MultiAssign) Span() token.Span { return x.Range }
func (x *MultiAssign) Children() []Node { return append(each(nil, x.Targets), nodes(x.Value)...) }
func (x *MultiAssign) stmtNode()        {}
