package ast

import "github.com/doomfront/doomfront/token"

// Defaults is a ZScript "default { ... }" block.
type Defaults struct {
	Range token.Span
	Items []Node
}

func (x *Defaults) Kind() Kind       { return KindDefaults }
func (x *Defaults) Span() token.Span { return x.Range }
func (x *Defaults) Children() []Node { return nodes(x.Items...) }

// Property sets an actor property: "Health 100;" or "Inventory.Amount 5".
type Property struct {
	Range  token.Span
	Name   *Ident
	Values []Expr
}

func (x *Property) Kind() Kind       { return KindProperty }
func (x *Property) Span() token.Span { return x.Range }
func (x *Property) Children() []Node { return each(nodes(x.Name), x.Values) }

// Flag sets ("+SHOOTABLE") or clears ("-SOLID") an actor flag.
type Flag struct {
	Range token.Span
	On    bool
	Name  *Ident
}

func (x *Flag) Kind() Kind       { return KindFlag }
func (x *Flag) Span() token.Span { return x.Range }
func (x *Flag) Children() []Node { return nodes(x.Name) }

// States is a state machine block. Scope lists the optional usage
// qualifiers, as in "states(actor, overlay)".
type States struct {
	Range token.Span
	Scope []*Ident
	Items []Node
}

func (x *States) Kind() Kind       { return KindStates }
func (x *States) Span() token.Span { return x.Range }
func (x *States) Children() []Node { return append(each(nil, x.Scope), nodes(x.Items...)...) }

// StateLabel is "Spawn:" or a qualified label such as "Missile.Big:".
type StateLabel struct {
	Range token.Span
	Name  *Ident
}

func (x *StateLabel) Kind() Kind       { return KindStateLabel }
func (x *StateLabel) Span() token.Span { return x.Range }
func (x *StateLabel) Children() []Node { return nodes(x.Name) }

// StateFrame is one state definition line: sprite, frame letters, duration,
// modifiers and an optional action. Action is a call expression, a bare
// identifier or an anonymous *Block.
type StateFrame struct {
	Range     token.Span
	Sprite    *Ident
	Frames    *Ident
	Duration  Expr
	Modifiers []*Modifier
	Action    Node
}

func (x *StateFrame) Kind() Kind       { return KindStateFrame }
func (x *StateFrame) Span() token.Span { return x.Range }
func (x *StateFrame) Children() []Node {
	out := nodes(x.Sprite, x.Frames, x.Duration)
	out = each(out, x.Modifiers)
	return append(out, nodes(x.Action)...)
}

// StateFlow ends a state sequence: "goto Label[+n]", "stop", "loop", "wait"
// or "fail".
type StateFlow struct {
	Range  token.Span
	Op     string
	Target *Ident
	Offset Expr
}

func (x *StateFlow) Kind() Kind       { return KindStateFlow }
func (x *StateFlow) Span() token.Span { return x.Range }
func (x *StateFlow) Children() []Node { return nodes(x.Target, x.Offset) }
