package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test looking up values succeeds, then fails
func TestLookupKeyword(t *testing.T) {
	for d, table := range keywords {
		for key := range table {
			kw, ok := LookupKeyword(d, key)
			if !ok || kw != key {
				t.Errorf("lookup of %s in %s failed", key, d)
			}
			// Keywords are case-insensitive in every dialect.
			kw, ok = LookupKeyword(d, strings.ToUpper(key))
			if !ok || kw != key {
				t.Errorf("upper-case lookup of %s in %s failed", key, d)
			}
		}
	}
	_, ok := LookupKeyword(ZScript, "Actor")
	assert.False(t, ok)
	_, ok = LookupKeyword(DeHackEd, "thing")
	assert.False(t, ok)
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:    IDENT,
		Literal: "foo",
		Start: Position{
			Line:   2,
			Column: 0,
		},
	}
	// Switches to 1-indexed
	assert.Equal(t, 3, tok.Start.LineNumber())
	assert.Equal(t, 1, tok.Start.ColumnNumber())
}

func TestCategory(t *testing.T) {
	tests := []struct {
		typ  Type
		want Category
	}{
		{KEYWORD, CatKeyword},
		{IDENT, CatIdentifier},
		{INT, CatLiteral},
		{NAME, CatLiteral},
		{COMMENT, CatComment},
		{LBRACE, CatPunctuation},
		{APPROX_EQ, CatPunctuation},
		{ILLEGAL, CatError},
		{EOF, CatEOF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.Category(), "type %s", tt.typ)
	}
	assert.Equal(t, "literal", CatLiteral.String())
}

func TestIsWord(t *testing.T) {
	tok := Token{Type: IDENT, Literal: "GoTo"}
	assert.True(t, tok.IsWord("goto"))
	assert.False(t, tok.IsWord("stop"))
	str := Token{Type: STRING, Literal: `"goto"`}
	assert.False(t, str.IsWord("goto"))
}

func TestSpan(t *testing.T) {
	outer := NewSpan("a.zs", 10, 20)
	inner := NewSpan("a.zs", 12, 15)
	assert.True(t, outer.Covers(inner))
	assert.False(t, inner.Covers(outer))
	assert.True(t, outer.Overlaps(inner))
	assert.False(t, NewSpan("a.zs", 0, 10).Overlaps(outer))
	assert.True(t, outer.Contains(20))
	assert.Equal(t, NewSpan("a.zs", 0, 20), NewSpan("a.zs", 0, 5).Union(outer))
	assert.True(t, outer.At(4).IsEmpty())
	assert.Equal(t, "lo", NewSpan("", 2, 4).Text("hello"))
	assert.Equal(t, "", NewSpan("", 4, 40).Text("hi"))
}

func TestLineIndex(t *testing.T) {
	src := "one\ntwo\r\n\nfour"
	li := NewLineIndex(src)
	require.Equal(t, 4, li.LineCount())

	pos := li.Position(5)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 1, pos.Column)
	assert.Equal(t, 4, pos.LineStart)

	assert.Equal(t, 5, li.Offset(1, 1))
	assert.Equal(t, len(src), li.Offset(9, 0))
	assert.Equal(t, "two", li.LineText(src, 1))
	assert.Equal(t, "", li.LineText(src, 2))
	assert.Equal(t, "four", li.LineText(src, 3))

	end := li.Position(len(src) + 10)
	assert.Equal(t, 3, end.Line)
	assert.Equal(t, 4, end.Column)
}

func TestDialects(t *testing.T) {
	for _, d := range Dialects() {
		parsed, err := ParseDialect(strings.ToUpper(d.String()))
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
	_, err := ParseDialect("acs")
	assert.Error(t, err)

	tests := map[string]Dialect{
		"zscript/actors/imp.zs": ZScript,
		"ZSCRIPT.txt":           ZScript,
		"decorate.weapons":      Decorate,
		"patch.DEH":             DeHackEd,
		"UMAPINFO":              UMapInfo,
		"cvarinfo.txt":          CVarInfo,
		"LOADACS":               LoadACS,
		"readme.md":             Unknown,
	}
	for path, want := range tests {
		assert.Equal(t, want, DialectForPath(path, nil), path)
	}

	var d Dialect
	require.NoError(t, d.UnmarshalText([]byte("umapinfo")))
	assert.Equal(t, UMapInfo, d)
}
