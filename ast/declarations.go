package ast

import "github.com/doomfront/doomfront/token"

// Version is the ZScript file header `version "4.10";`.
type Version struct {
	Range token.Span
	Value *String
}

func (x *Version) Kind() Kind       { return KindVersion }
func (x *Version) Span() token.Span { return x.Range }
func (x *Version) Children() []Node { return nodes(x.Value) }

// Include is a textual inclusion: "#include" in ZScript and DECORATE, or the
// BEX "include" line in DeHackEd patches.
type Include struct {
	Range token.Span
	Path  *String
}

func (x *Include) Kind() Kind       { return KindInclude }
func (x *Include) Span() token.Span { return x.Range }
func (x *Include) Children() []Node { return nodes(x.Path) }

// Modifier is a qualifier keyword, optionally with arguments:
// "native", "version("4.2")", "bright", "offset(2, 4)".
type Modifier struct {
	Range token.Span
	Name  string
	Args  []Expr
}

func (x *Modifier) Kind() Kind       { return KindModifier }
func (x *Modifier) Span() token.Span { return x.Range }
func (x *Modifier) Children() []Node { return each(nil, x.Args) }

// HasModifier reports whether mods contains a modifier with the given
// lower-case name.
func HasModifier(mods []*Modifier, name string) bool {
	for _, m := range mods {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Class is a ZScript class declaration. Extend and Mixin mark "extend class"
// and "mixin class". Open marks the file-scope form "class Name;" whose
// members run to the end of the file.
type Class struct {
	Range     token.Span
	Extend    bool
	Mixin     bool
	Open      bool
	Name      *Ident
	Parent    *Ident
	Replaces  *Ident
	Modifiers []*Modifier
	Members   []Node
}

func (x *Class) Kind() Kind       { return KindClass }
func (x *Class) Span() token.Span { return x.Range }
func (x *Class) Children() []Node {
	out := nodes(x.Name, x.Parent, x.Replaces)
	out = each(out, x.Modifiers)
	return ordered(append(out, x.Members...))
}

// Struct is a ZScript struct declaration.
type Struct struct {
	Range     token.Span
	Extend    bool
	Name      *Ident
	Modifiers []*Modifier
	Members   []Node
}

func (x *Struct) Kind() Kind       { return KindStruct }
func (x *Struct) Span() token.Span { return x.Range }
func (x *Struct) Children() []Node {
	return ordered(append(each(nodes(x.Name), x.Modifiers), x.Members...))
}

// Enum is "enum Name [: type] { A = 1, B }".
type Enum struct {
	Range   token.Span
	Name    *Ident
	Type    *Ident
	Members []*EnumMember
}

func (x *Enum) Kind() Kind       { return KindEnum }
func (x *Enum) Span() token.Span { return x.Range }
func (x *Enum) Children() []Node { return each(nodes(x.Name, x.Type), x.Members) }

// EnumMember is one enumerator with its optional explicit value.
type EnumMember struct {
	Range token.Span
	Name  *Ident
	Value Expr
}

func (x *EnumMember) Kind() Kind       { return KindEnumMember }
func (x *EnumMember) Span() token.Span { return x.Range }
func (x *EnumMember) Children() []Node { return nodes(x.Name, x.Value) }

// Const is a named constant. DECORATE constants carry a type
// ("const int X = 1;"), ZScript ones do not.
type Const struct {
	Range token.Span
	Type  *TypeRef
	Name  *Ident
	Value Expr
}

func (x *Const) Kind() Kind       { return KindConst }
func (x *Const) Span() token.Span { return x.Range }
func (x *Const) Children() []Node { return nodes(x.Type, x.Name, x.Value) }

// Field declares member variables. DECORATE user variables
// ("var int user_x;") use the same node.
type Field struct {
	Range     token.Span
	Modifiers []*Modifier
	Type      *TypeRef
	Vars      []*VarSpec
}

func (x *Field) Kind() Kind       { return KindField }
func (x *Field) Span() token.Span { return x.Range }
func (x *Field) Children() []Node {
	return each(append(each(nil, x.Modifiers), nodes(x.Type)...), x.Vars)
}

// Method is a function declaration. Body is nil for declarations ending in
// ";" (native or abstract methods, DECORATE action imports).
type Method struct {
	Range     token.Span
	Modifiers []*Modifier
	Returns   []*TypeRef
	Name      *Ident
	Params    []*Param
	Varargs   bool
	Const     bool
	Body      *Block
}

func (x *Method) Kind() Kind       { return KindMethod }
func (x *Method) Span() token.Span { return x.Range }
func (x *Method) Children() []Node {
	out := each(each(nil, x.Modifiers), x.Returns)
	out = append(out, nodes(x.Name)...)
	out = each(out, x.Params)
	return ordered(append(out, nodes(x.Body)...))
}

// Param is one method parameter.
type Param struct {
	Range     token.Span
	Modifiers []*Modifier
	Type      *TypeRef
	Name      *Ident
	Default   Expr
}

func (x *Param) Kind() Kind       { return KindParam }
func (x *Param) Span() token.Span { return x.Range }
func (x *Param) Children() []Node {
	return append(each(nil, x.Modifiers), nodes(x.Type, x.Name, x.Default)...)
}

// PropertyDef is "property Name: field1, field2;".
type PropertyDef struct {
	Range  token.Span
	Name   *Ident
	Fields []*Ident
}

func (x *PropertyDef) Kind() Kind       { return KindPropertyDef }
func (x *PropertyDef) Span() token.Span { return x.Range }
func (x *PropertyDef) Children() []Node { return each(nodes(x.Name), x.Fields) }

// FlagDef is "flagdef Name: field, bit;".
type FlagDef struct {
	Range token.Span
	Name  *Ident
	Field *Ident
	Bit   Expr
}

func (x *FlagDef) Kind() Kind       { return KindFlagDef }
func (x *FlagDef) Span() token.Span { return x.Range }
func (x *FlagDef) Children() []Node { return nodes(x.Name, x.Field, x.Bit) }

// Mixin is "mixin Name;" inside a class body.
type Mixin struct {
	Range token.Span
	Name  *Ident
}

func (x *Mixin) Kind() Kind       { return KindMixin }
func (x *Mixin) Span() token.Span { return x.Range }
func (x *Mixin) Children() []Node { return nodes(x.Name) }

// Actor is a DECORATE actor definition.
type Actor struct {
	Range     token.Span
	Name      *Ident
	Parent    *Ident
	Replaces  *Ident
	EdNum     *Int
	Modifiers []*Modifier
	Members   []Node
}

func (x *Actor) Kind() Kind       { return KindActor }
func (x *Actor) Span() token.Span { return x.Range }
func (x *Actor) Children() []Node {
	out := nodes(x.Name, x.Parent, x.Replaces, x.EdNum)
	out = each(out, x.Modifiers)
	return ordered(append(out, x.Members...))
}
