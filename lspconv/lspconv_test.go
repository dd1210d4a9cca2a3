package lspconv

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
	"github.com/doomfront/doomfront/workspace"
)

func TestPositionUTF16(t *testing.T) {
	src := "a\n\U0001F600b\nc"
	c := NewConverter("x.zs", "file:///x.zs", src)

	b := strings.Index(src, "b")
	assert.Equal(t, protocol.Position{Line: 1, Character: 2}, c.Position(b))
	assert.Equal(t, protocol.Position{Line: 2, Character: 0}, c.Position(len(src)-1))
	assert.Equal(t, protocol.Position{Line: 2, Character: 1}, c.Position(len(src)+10))

	assert.Equal(t, b, c.Offset(protocol.Position{Line: 1, Character: 2}))
	assert.Equal(t, b+1, c.Offset(protocol.Position{Line: 1, Character: 99}))
	assert.Equal(t, 0, c.Offset(protocol.Position{Line: 0, Character: 0}))
}

func TestURI(t *testing.T) {
	dir := t.TempDir()
	uri := URI(filepath.Join(dir, "my mod", "a.zs"))
	assert.True(t, strings.HasPrefix(string(uri), "file:///"))
	assert.True(t, strings.HasSuffix(string(uri), "/my%20mod/a.zs"))
}

func TestDiagnostics(t *testing.T) {
	src := "class A {}\nclass a {}\n"
	res := doomfront.Analyze("a.zs", src, token.ZScript)
	require.Len(t, res.Diagnostics, 1)

	c := NewConverter("a.zs", "file:///a.zs", src)
	out := c.Diagnostics(res.Diagnostics)
	require.Len(t, out, 1)
	d := out[0]
	assert.Equal(t, protocol.SeverityError, d.Severity)
	assert.Equal(t, string(diag.B301), d.Code)
	assert.Equal(t, Source, d.Source)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 6},
		End:   protocol.Position{Line: 1, Character: 7},
	}, d.Range)
	require.Len(t, d.RelatedInformation, 1)
	assert.Equal(t, uint32(0), d.RelatedInformation[0].Location.Range.Start.Line)

	assert.NotNil(t, c.Diagnostics(nil))
	assert.Empty(t, c.Diagnostics(nil))
}

func TestRelatedInOtherFileDropped(t *testing.T) {
	c := NewConverter("a.zs", "file:///a.zs", "class A {}")
	d := diag.New(diag.B301, token.NewSpan("a.zs", 6, 7), "dup").
		WithRelated(token.NewSpan("b.zs", 0, 1), "elsewhere")
	assert.Empty(t, c.Diagnostic(d).RelatedInformation)
}

func TestDocumentSymbols(t *testing.T) {
	src := "class Imp : Actor {\n\tint hp;\n\tvoid Tick() {}\n}\nstruct S { int x; }\nextend class Other { int y; }\n"
	res := doomfront.Analyze("imp.zs", src, token.ZScript)
	require.Empty(t, res.Diagnostics)

	c := NewConverter("imp.zs", "file:///imp.zs", src)
	syms := c.DocumentSymbols(res.Table)

	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Imp", "S", "y"}, names)

	imp := syms[0]
	assert.Equal(t, protocol.SymbolKind(5), imp.Kind)
	assert.Equal(t, ": Actor", imp.Detail)
	assert.Equal(t, protocol.Position{Line: 0, Character: 6}, imp.SelectionRange.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, imp.Range.Start)
	require.Len(t, imp.Children, 2)
	assert.Equal(t, "hp", imp.Children[0].Name)
	assert.Equal(t, protocol.SymbolKind(8), imp.Children[0].Kind)
	assert.Equal(t, "Tick", imp.Children[1].Name)
	assert.Equal(t, protocol.SymbolKind(6), imp.Children[1].Kind)

	require.Len(t, syms[1].Children, 1)
	assert.Equal(t, protocol.SymbolKind(23), syms[1].Kind)
}

func testIndex(t *testing.T, files map[token.FileID]string) *workspace.Index {
	t.Helper()
	idx := workspace.New()
	t.Cleanup(func() { _ = idx.Close() })
	for file, text := range files {
		_, err := idx.Open(file, token.Unknown, text, 1)
		require.NoError(t, err)
	}
	return idx
}

func TestLocateAndWorkspaceSymbols(t *testing.T) {
	root := t.TempDir()
	idx := testIndex(t, map[token.FileID]string{
		"actors/imp.zs": "class Imp : Actor {}\n",
		"lib/base.zs":   "\nclass ImpBase {}\n",
	})
	snap := idx.Snapshot()

	decl, ok, err := snap.Resolve("", "ImpBase", symbols.Class)
	require.NoError(t, err)
	require.True(t, ok)
	loc, ok := Locate(snap, root, decl)
	require.True(t, ok)
	assert.Equal(t, URI(filepath.Join(root, "lib", "base.zs")), loc.URI)
	assert.Equal(t, protocol.Position{Line: 1, Character: 6}, loc.Range.Start)

	_, ok = Locate(snap, root, symbols.Declaration{File: "nope.zs"})
	assert.False(t, ok)

	infos := WorkspaceSymbols(snap, root, "imp")
	require.Len(t, infos, 2)
	assert.Equal(t, "Imp", infos[0].Name)
	assert.Equal(t, "ImpBase", infos[1].Name)
}

func TestCompletionItems(t *testing.T) {
	idx := testIndex(t, map[token.FileID]string{
		"a.zs": "class Imp : Actor { int hp; }\nenum Colors { Red }\n",
	})
	items := CompletionItems(idx.Snapshot(), token.ZScript)

	labels := map[string]protocol.CompletionItemKind{}
	for _, it := range items {
		labels[it.Label] = it.Kind
	}
	assert.Equal(t, protocol.CompletionItemKind(14), labels["class"])
	assert.Equal(t, protocol.CompletionItemKind(7), labels["Imp"])
	assert.Equal(t, protocol.CompletionItemKind(13), labels["Colors"])
	assert.NotContains(t, labels, "hp")
	assert.NotContains(t, labels, "Red")
}
