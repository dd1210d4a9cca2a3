// Package binder collects the declarations of a syntax tree into a symbol
// table.
//
// Binding is a pure function of one tree. Names that cannot be resolved
// inside the file, such as inheritance parents declared elsewhere, are
// recorded as references for the workspace to resolve later.
package binder

import (
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

// Bind builds the symbol table of tree. The returned diagnostics are
// ordered by span. A nil tree yields an empty table.
func Bind(tree *ast.File) (*symbols.Table, []diag.Diagnostic) {
	if tree == nil {
		return symbols.NewTable("", token.Unknown), nil
	}
	b := &binder{
		file:    tree.Range.File,
		dialect: tree.Dialect,
		table:   symbols.NewTable(tree.Range.File, tree.Dialect),
	}
	switch tree.Dialect {
	case token.ZScript, token.Decorate:
		b.scriptDecls(tree.Decls, "")
	case token.DeHackEd:
		b.patch(tree.Decls)
	case token.UMapInfo:
		b.mapInfo(tree.Decls)
	case token.CVarInfo:
		b.cvarInfo(tree.Decls)
	case token.LoadACS:
		b.loadACS(tree.Decls)
	}
	diag.Sort(b.diags)
	return b.table, b.diags
}

type binder struct {
	file    token.FileID
	dialect token.Dialect
	table   *symbols.Table
	diags   []diag.Diagnostic

	// references waiting for the rest of their scope to be declared.
	pending []pendingRef
}

type pendingRef struct {
	ref   symbols.Reference
	local string // key the reference resolves to inside the file
	kind  symbols.Kind
}

// declare inserts a declaration and reports a duplicate. sev is the
// severity used for duplicates.
func (b *binder) declare(name *ast.Ident, kind symbols.Kind, owner string, full token.Span, sev diag.Severity) (symbols.Declaration, bool) {
	d := symbols.Declaration{
		Name:      name.Name,
		Key:       symbols.Qualify(owner, kind, symbols.Key(kind, name.Name)),
		Kind:      kind,
		File:      b.file,
		Dialect:   b.dialect,
		Span:      name.Range,
		FullSpan:  full,
		Container: owner,
	}
	return b.insert(d, sev)
}

func (b *binder) insert(d symbols.Declaration, sev diag.Severity) (symbols.Declaration, bool) {
	first, ok := b.table.Insert(d)
	if !ok {
		dup := diag.New(diag.B301, d.Span, "%s %q is already declared", d.Kind, d.Name).
			WithRelated(first.Span, "first declared here")
		dup.Severity = sev
		b.diags = append(b.diags, dup)
	}
	return d, ok
}

func (b *binder) include(path *ast.String) {
	if path == nil || path.Value == "" {
		return
	}
	b.table.AddInclude(symbols.Include{Path: path.Value, Span: path.Range})
}

func (b *binder) reference(role symbols.Role, kind symbols.Kind, name *ast.Ident, from string) {
	if name == nil {
		return
	}
	b.table.AddReference(symbols.Reference{
		Role: role,
		Name: name.Name,
		Kind: kind,
		Span: name.Range,
		From: from,
	})
}

// deferRef records a reference that is dropped if local is declared in the
// file by the time flush runs.
func (b *binder) deferRef(ref symbols.Reference, local string, kind symbols.Kind) {
	b.pending = append(b.pending, pendingRef{ref: ref, local: local, kind: kind})
}

func (b *binder) flush() {
	for _, p := range b.pending {
		if _, ok := b.table.Lookup(p.local, p.kind); ok {
			continue
		}
		b.table.AddReference(p.ref)
	}
	b.pending = b.pending[:0]
}
