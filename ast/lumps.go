package ast

import "github.com/doomfront/doomfront/token"

// PatchEntry is a DeHackEd block introduced by a header such as
// "Thing 1 (Zombieman)", "Frame 200" or "Pointer 5 (Frame 7)". Index is an
// *Int, or a missing *Bad when the header lacks its number.
type PatchEntry struct {
	Range  token.Span
	Type   *Ident
	Index  Node
	Label  *Ident
	Fields []Node
}

func (x *PatchEntry) Kind() Kind       { return KindPatchEntry }
func (x *PatchEntry) Span() token.Span { return x.Range }
func (x *PatchEntry) Children() []Node {
	return append(nodes(x.Type, x.Index, x.Label), nodes(x.Fields...)...)
}

// Number returns the entry index, or false when it is missing.
func (x *PatchEntry) Number() (int64, bool) {
	if n, ok := x.Index.(*Int); ok {
		return n.Value, true
	}
	return 0, false
}

// PatchField is "Key words = value". Value is an *Int or *Float when the
// text is numeric, otherwise an *Ident (flag mnemonics such as
// "SOLID+SHOOTABLE") or a *String for BEX string sections.
type PatchField struct {
	Range token.Span
	Key   *Ident
	Value Expr
}

func (x *PatchField) Kind() Kind       { return KindPatchField }
func (x *PatchField) Span() token.Span { return x.Range }
func (x *PatchField) Children() []Node { return nodes(x.Key, x.Value) }

// PatchText is a "Text L1 L2" replacement. The payload that follows the
// header is cut from the source by the two lengths.
type PatchText struct {
	Range  token.Span
	OldLen Node
	NewLen Node
	Old    *String
	New    *String
}

func (x *PatchText) Kind() Kind       { return KindPatchText }
func (x *PatchText) Span() token.Span { return x.Range }
func (x *PatchText) Children() []Node { return nodes(x.OldLen, x.NewLen, x.Old, x.New) }

// PatchSection is a BEX section such as "[STRINGS]" or "[CODEPTR]".
type PatchSection struct {
	Range token.Span
	Name  *Ident
	Items []Node
}

func (x *PatchSection) Kind() Kind       { return KindPatchSection }
func (x *PatchSection) Span() token.Span { return x.Range }
func (x *PatchSection) Children() []Node { return append(nodes(x.Name), nodes(x.Items...)...) }

// PatchLine is a free-form line: the patch banner, "par" lines and other
// lines that are not key/value pairs.
type PatchLine struct {
	Range token.Span
	Words []Expr
}

func (x *PatchLine) Kind() Kind       { return KindPatchLine }
func (x *PatchLine) Span() token.Span { return x.Range }
func (x *PatchLine) Children() []Node { return each(nil, x.Words) }

// MapBlock is "map MAP01 { ... }" in UMAPINFO.
type MapBlock struct {
	Range token.Span
	Name  *Ident
	Props []Node
}

func (x *MapBlock) Kind() Kind       { return KindMapBlock }
func (x *MapBlock) Span() token.Span { return x.Range }
func (x *MapBlock) Children() []Node { return append(nodes(x.Name), nodes(x.Props...)...) }

// MapProperty is "key = value[, value...]". The value "clear" is kept as an
// *Ident.
type MapProperty struct {
	Range  token.Span
	Key    *Ident
	Values []Expr
}

func (x *MapProperty) Kind() Kind       { return KindMapProperty }
func (x *MapProperty) Span() token.Span { return x.Range }
func (x *MapProperty) Children() []Node { return each(nodes(x.Key), x.Values) }

// CVar is one CVARINFO definition: "server noarchive int sv_foo = 1;".
type CVar struct {
	Range token.Span
	Flags []*Ident
	Type  *Ident
	Name  *Ident
	Value Expr
}

func (x *CVar) Kind() Kind       { return KindCVar }
func (x *CVar) Span() token.Span { return x.Range }
func (x *CVar) Children() []Node {
	return append(each(nil, x.Flags), nodes(x.Type, x.Name, x.Value)...)
}

// Library is one ACS library name listed in LOADACS.
type Library struct {
	Range token.Span
	Name  *Ident
}

func (x *Library) Kind() Kind       { return KindLibrary }
func (x *Library) Span() token.Span { return x.Range }
func (x *Library) Children() []Node { return nodes(x.Name) }
