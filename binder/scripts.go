package binder

import (
	"strings"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

// scriptDecls binds ZScript and DECORATE declarations. owner is the key of
// the enclosing class, struct or actor.
func (b *binder) scriptDecls(decls []ast.Node, owner string) {
	for _, n := range decls {
		switch n := n.(type) {
		case *ast.Include:
			b.include(n.Path)
		case *ast.Class:
			b.class(n)
		case *ast.Actor:
			b.actor(n)
		case *ast.Struct:
			b.structDecl(n, owner)
		case *ast.Enum:
			b.enum(n, owner)
		case *ast.Const:
			if n.Name != nil {
				b.declare(n.Name, symbols.Const, owner, n.Range, diag.Error)
			}
		case *ast.Field:
			for _, v := range n.Vars {
				if v.Name != nil {
					b.declare(v.Name, symbols.Field, owner, n.Range, diag.Error)
				}
			}
		case *ast.Method:
			if n.Name != nil {
				b.declare(n.Name, symbols.Method, owner, n.Range, diag.Error)
			}
		case *ast.PropertyDef:
			if n.Name != nil {
				b.declare(n.Name, symbols.Property, owner, n.Range, diag.Error)
			}
		case *ast.FlagDef:
			if n.Name != nil {
				b.declare(n.Name, symbols.FlagDef, owner, n.Range, diag.Error)
			}
		case *ast.Mixin:
			b.reference(symbols.RoleMixin, symbols.MixinClass, n.Name, owner)
		case *ast.States:
			b.states(n, owner)
		}
	}
}

func (b *binder) class(c *ast.Class) {
	if c.Name == nil {
		return
	}
	key := symbols.Key(symbols.Class, c.Name.Name)
	switch {
	case c.Extend:
		b.reference(symbols.RoleExtend, symbols.Class, c.Name, "")
	case c.Mixin:
		b.declare(c.Name, symbols.MixinClass, "", c.Range, diag.Error)
	default:
		b.typeDecl(c.Name, symbols.Class, c.Parent, c.Replaces, c.Range)
	}
	b.scriptDecls(c.Members, key)
	b.flush()
}

func (b *binder) actor(a *ast.Actor) {
	if a.Name == nil {
		return
	}
	b.typeDecl(a.Name, symbols.Actor, a.Parent, a.Replaces, a.Range)
	b.scriptDecls(a.Members, symbols.Key(symbols.Actor, a.Name.Name))
	b.flush()
}

// typeDecl declares a class or actor and records its parent and
// replacement as references.
func (b *binder) typeDecl(name *ast.Ident, kind symbols.Kind, parent, replaces *ast.Ident, full token.Span) {
	d := symbols.Declaration{
		Name:     name.Name,
		Key:      symbols.Key(kind, name.Name),
		Kind:     kind,
		File:     b.file,
		Dialect:  b.dialect,
		Span:     name.Range,
		FullSpan: full,
	}
	if parent != nil {
		d.Parent = parent.Name
		if symbols.Key(kind, parent.Name) == d.Key {
			b.diags = append(b.diags, diag.New(diag.B302, parent.Range, "%s %q inherits from itself", kind, name.Name))
		} else {
			b.reference(symbols.RoleParent, kind, parent, d.Key)
		}
	}
	if replaces != nil {
		d.Replaces = replaces.Name
		b.reference(symbols.RoleReplaces, kind, replaces, d.Key)
	}
	b.insert(d, diag.Error)
}

func (b *binder) structDecl(s *ast.Struct, owner string) {
	if s.Name == nil {
		return
	}
	key := symbols.Qualify(owner, symbols.Struct, symbols.Key(symbols.Struct, s.Name.Name))
	if s.Extend {
		b.reference(symbols.RoleExtend, symbols.Struct, s.Name, owner)
	} else {
		b.declare(s.Name, symbols.Struct, owner, s.Range, diag.Error)
	}
	b.scriptDecls(s.Members, key)
}

// enum declares the enum and its members. Members belong to the enum's
// owner, not to the enum, as the engines do.
func (b *binder) enum(e *ast.Enum, owner string) {
	if e.Name != nil {
		b.declare(e.Name, symbols.Enum, owner, e.Range, diag.Error)
	}
	for _, m := range e.Members {
		if m.Name != nil {
			b.declare(m.Name, symbols.EnumMember, owner, m.Range, diag.Error)
		}
	}
}

// states declares the labels of a states block. Jumps to labels that are
// not declared in the same class become references; "Super::" and
// "Class::" targets always do.
func (b *binder) states(st *ast.States, owner string) {
	for _, item := range st.Items {
		switch item := item.(type) {
		case *ast.StateLabel:
			if item.Name != nil {
				b.declare(item.Name, symbols.StateLabel, owner, item.Range, diag.Error)
			}
		case *ast.StateFlow:
			if item.Op != "goto" || item.Target == nil {
				continue
			}
			ref := symbols.Reference{
				Role: symbols.RoleGoto,
				Name: item.Target.Name,
				Kind: symbols.StateLabel,
				Span: item.Target.Range,
				From: owner,
			}
			if strings.Contains(item.Target.Name, "::") {
				b.table.AddReference(ref)
				continue
			}
			local := symbols.Qualify(owner, symbols.StateLabel, symbols.Key(symbols.StateLabel, item.Target.Name))
			b.deferRef(ref, local, symbols.StateLabel)
		}
	}
}
