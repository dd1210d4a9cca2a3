package binder

import (
	"strconv"
	"strings"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

// patch binds DeHackEd entries and BEX sections. Later patch entries
// override earlier ones in the engines, so duplicates are warnings.
func (b *binder) patch(decls []ast.Node) {
	for _, n := range decls {
		switch n := n.(type) {
		case *ast.Include:
			b.include(n.Path)
		case *ast.PatchEntry:
			b.patchEntry(n)
		case *ast.PatchSection:
			b.patchSection(n)
		}
	}
}

func (b *binder) patchEntry(e *ast.PatchEntry) {
	num, ok := e.Number()
	if !ok || e.Type == nil {
		return
	}
	header := &ast.Ident{
		Range: token.NewSpan(b.file, e.Type.Range.Start, e.Index.Span().End),
		Name:  e.Type.Name + " " + strconv.FormatInt(num, 10),
	}
	d, _ := b.declare(header, symbols.PatchEntry, "", e.Range, diag.Warning)
	b.uniqueKeys(e.Fields, d.Name)
}

func (b *binder) patchSection(s *ast.PatchSection) {
	if s.Name == nil {
		return
	}
	var kind symbols.Kind
	switch strings.ToUpper(s.Name.Name) {
	case "STRINGS":
		kind = symbols.PatchString
	case "CODEPTR":
		kind = symbols.CodePointer
	default:
		b.uniqueKeys(s.Items, "["+s.Name.Name+"]")
		return
	}
	for _, item := range s.Items {
		if f, ok := item.(*ast.PatchField); ok && f.Key != nil {
			b.declare(f.Key, kind, "", f.Range, diag.Warning)
		}
	}
}

// uniqueKeys warns about a field assigned twice in one block.
func (b *binder) uniqueKeys(fields []ast.Node, block string) {
	seen := map[string]token.Span{}
	for _, n := range fields {
		var key *ast.Ident
		switch n := n.(type) {
		case *ast.PatchField:
			key = n.Key
		case *ast.MapProperty:
			key = n.Key
		}
		if key == nil {
			continue
		}
		folded := strings.ToLower(strings.Join(strings.Fields(key.Name), " "))
		if first, ok := seen[folded]; ok {
			b.diags = append(b.diags, diag.Warn(diag.B304, key.Range, "%q is set more than once in %s", key.Name, block).
				WithRelated(first, "first set here"))
			continue
		}
		seen[folded] = key.Range
	}
}

// mapInfo binds UMAPINFO blocks. "next" and "nextsecret" name other maps;
// targets not defined in the same lump become references.
func (b *binder) mapInfo(decls []ast.Node) {
	for _, n := range decls {
		m, ok := n.(*ast.MapBlock)
		if !ok || m.Name == nil {
			continue
		}
		d, _ := b.declare(m.Name, symbols.Map, "", m.Range, diag.Error)
		b.uniqueKeys(m.Props, d.Name)
		for _, p := range m.Props {
			prop, ok := p.(*ast.MapProperty)
			if !ok || prop.Key == nil || len(prop.Values) == 0 {
				continue
			}
			switch strings.ToLower(prop.Key.Name) {
			case "next", "nextsecret":
			default:
				continue
			}
			target, ok := prop.Values[0].(*ast.String)
			if !ok || target.Value == "" {
				continue
			}
			ref := symbols.Reference{
				Role: symbols.RoleMap,
				Name: target.Value,
				Kind: symbols.Map,
				Span: target.Range,
				From: d.Key,
			}
			b.deferRef(ref, symbols.Key(symbols.Map, target.Value), symbols.Map)
		}
	}
	b.flush()
}

func (b *binder) cvarInfo(decls []ast.Node) {
	for _, n := range decls {
		if c, ok := n.(*ast.CVar); ok && c.Name != nil {
			b.declare(c.Name, symbols.CVar, "", c.Range, diag.Error)
		}
	}
}

func (b *binder) loadACS(decls []ast.Node) {
	for _, n := range decls {
		if l, ok := n.(*ast.Library); ok && l.Name != nil {
			b.declare(l.Name, symbols.Library, "", l.Range, diag.Warning)
		}
	}
}
