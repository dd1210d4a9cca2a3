package lspconv

import (
	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"

	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
	"github.com/doomfront/doomfront/workspace"
)

// symbolKind maps declaration kinds onto the protocol's symbol kinds.
func symbolKind(k symbols.Kind) protocol.SymbolKind {
	switch k {
	case symbols.Class, symbols.Actor:
		return 5 // Class
	case symbols.MixinClass:
		return 11 // Interface
	case symbols.Struct:
		return 23 // Struct
	case symbols.Enum:
		return 10 // Enum
	case symbols.EnumMember:
		return 22 // EnumMember
	case symbols.Const:
		return 14 // Constant
	case symbols.Field:
		return 8 // Field
	case symbols.Method:
		return 6 // Method
	case symbols.Property:
		return 7 // Property
	case symbols.FlagDef:
		return 17 // Boolean
	case symbols.StateLabel:
		return 20 // Key
	case symbols.PatchEntry:
		return 19 // Object
	case symbols.PatchString:
		return 15 // String
	case symbols.CodePointer:
		return 12 // Function
	case symbols.Map:
		return 2 // Module
	case symbols.CVar:
		return 13 // Variable
	case symbols.Library:
		return 4 // Package
	default:
		return 13
	}
}

func detail(d symbols.Declaration) string {
	switch {
	case d.Parent != "" && d.Replaces != "":
		return ": " + d.Parent + " replaces " + d.Replaces
	case d.Parent != "":
		return ": " + d.Parent
	case d.Replaces != "":
		return "replaces " + d.Replaces
	default:
		return d.Kind.String()
	}
}

// DocumentSymbols returns the outline of a file. Members are nested under
// the class, actor or struct that contains them; members of types declared
// elsewhere, as in "extend class", stay at the top level.
func (c *Converter) DocumentSymbols(table *symbols.Table) []protocol.DocumentSymbol {
	type node struct {
		sym      protocol.DocumentSymbol
		children []*node
	}
	var roots []*node
	owners := map[string]*node{}
	for d := range table.All() {
		n := &node{sym: protocol.DocumentSymbol{
			Name:           d.Name,
			Detail:         detail(d),
			Kind:           symbolKind(d.Kind),
			Range:          c.Range(d.FullSpan),
			SelectionRange: c.Range(d.Span),
		}}
		if parent, ok := owners[d.Container]; ok && d.Container != "" {
			parent.children = append(parent.children, n)
		} else {
			roots = append(roots, n)
		}
		switch d.Kind {
		case symbols.Class, symbols.Actor, symbols.MixinClass, symbols.Struct:
			if _, dup := owners[d.Key]; !dup {
				owners[d.Key] = n
			}
		}
	}
	var build func(nodes []*node) []protocol.DocumentSymbol
	build = func(nodes []*node) []protocol.DocumentSymbol {
		out := make([]protocol.DocumentSymbol, 0, len(nodes))
		for _, n := range nodes {
			sym := n.sym
			if len(n.children) > 0 {
				sym.Children = build(n.children)
			}
			out = append(out, sym)
		}
		return out
	}
	return build(roots)
}

// Locate returns the protocol location of a declaration in the workspace
// rooted at root.
func Locate(snap *workspace.Snapshot, root string, d symbols.Declaration) (protocol.Location, bool) {
	e, ok := snap.Entry(d.File)
	if !ok {
		return protocol.Location{}, false
	}
	return ForEntry(root, e).Location(d.Span), true
}

// WorkspaceSymbols answers a workspace symbol query.
func WorkspaceSymbols(snap *workspace.Snapshot, root, query string) []protocol.SymbolInformation {
	var out []protocol.SymbolInformation
	convs := map[token.FileID]*Converter{}
	for _, d := range snap.Symbols(query) {
		c, ok := convs[d.File]
		if !ok {
			e, found := snap.Entry(d.File)
			if !found {
				continue
			}
			c = ForEntry(root, e)
			convs[d.File] = c
		}
		out = append(out, protocol.SymbolInformation{
			Name:          d.Name,
			Kind:          symbolKind(d.Kind),
			Location:      c.Location(d.Span),
			ContainerName: d.Container,
		})
	}
	return out
}

// CompletionItems offers the keywords of dialect followed by the names
// declared in the workspace that the dialect can refer to.
func CompletionItems(snap *workspace.Snapshot, dialect token.Dialect) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, kw := range token.Keywords(dialect) {
		items = append(items, protocol.CompletionItem{
			Label:  kw,
			Kind:   14, // Keyword
			Detail: dialect.String() + " keyword",
		})
	}
	seen := map[string]bool{}
	for _, d := range snap.Symbols("", completable(dialect)...) {
		if d.Container != "" || seen[d.Key] {
			continue
		}
		seen[d.Key] = true
		items = append(items, protocol.CompletionItem{
			Label:  d.Name,
			Kind:   completionKind(d.Kind),
			Detail: detail(d),
		})
	}
	return items
}

func completable(dialect token.Dialect) []symbols.Kind {
	switch dialect {
	case token.ZScript, token.Decorate:
		return []symbols.Kind{symbols.Class, symbols.Actor, symbols.Struct, symbols.Enum, symbols.Const, symbols.MixinClass}
	case token.UMapInfo:
		return []symbols.Kind{symbols.Map}
	case token.DeHackEd:
		return []symbols.Kind{symbols.PatchString, symbols.CodePointer}
	case token.LoadACS:
		return []symbols.Kind{symbols.Library}
	case token.CVarInfo:
		return []symbols.Kind{symbols.CVar}
	default:
		return symbols.Kinds()
	}
}

func completionKind(k symbols.Kind) protocol.CompletionItemKind {
	switch k {
	case symbols.Class, symbols.Actor:
		return 7 // Class
	case symbols.Struct:
		return 22 // Struct
	case symbols.Enum:
		return 13 // Enum
	case symbols.Const:
		return 21 // Constant
	case symbols.MixinClass:
		return 8 // Interface
	case symbols.Map, symbols.Library:
		return 9 // Module
	default:
		return 6 // Variable
	}
}
