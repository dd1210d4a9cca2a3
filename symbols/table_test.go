package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doomfront/doomfront/token"
)

func decl(name string, kind Kind, start int) Declaration {
	return Declaration{
		Name: name,
		Key:  Key(kind, name),
		Kind: kind,
		File: "a.zs",
		Span: token.NewSpan("a.zs", start, start+len(name)),
	}
}

func TestInsertKeepsFirst(t *testing.T) {
	table := NewTable("a.zs", token.ZScript)

	first, ok := table.Insert(decl("Imp", Class, 0))
	require.True(t, ok)
	assert.Equal(t, "imp", first.Key)

	got, ok := table.Insert(decl("IMP", Class, 40))
	assert.False(t, ok)
	assert.Equal(t, 0, got.Span.Start)

	// Same key, different kind: not a collision.
	_, ok = table.Insert(decl("imp", Const, 80))
	assert.True(t, ok)

	assert.Equal(t, 2, table.Len())
	require.Len(t, table.Shadowed(), 1)
	assert.Equal(t, 40, table.Shadowed()[0].Span.Start)

	d, ok := table.LookupName("iMp", Class)
	require.True(t, ok)
	assert.Equal(t, "Imp", d.Name)
}

func TestDeclarationsOrdered(t *testing.T) {
	table := NewTable("a.zs", token.ZScript)
	for i, name := range []string{"C", "A", "B"} {
		table.Insert(decl(name, Class, i*10))
	}
	var names []string
	for _, d := range table.Declarations() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
}

func TestNilTable(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
	assert.Nil(t, table.Declarations())
	_, ok := table.Lookup("x", Class)
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		want string
	}{
		{Class, "DoomImp", "doomimp"},
		{Actor, "ZombieMan", "zombieman"},
		{Map, "map01", "MAP01"},
		{PatchEntry, "Thing  1", "thing:1"},
		{CodePointer, "Frame   200", "FRAME 200"},
		{PatchString, "GotRedSkul", "GOTREDSKUL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Key(tt.kind, tt.name), tt.name)
	}
	assert.Equal(t, "imp::spawn", Qualify("imp", StateLabel, "spawn"))
	assert.Equal(t, "imp.tick", Qualify("imp", Method, "tick"))
	assert.Equal(t, "x", Qualify("", Const, "x"))
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("nope")
	assert.Error(t, err)
}

func TestMembers(t *testing.T) {
	table := NewTable("a.zs", token.ZScript)
	table.Insert(decl("Imp", Class, 0))
	m := decl("Tick", Method, 10)
	m.Container = "imp"
	m.Key = Qualify("imp", Method, "tick")
	table.Insert(m)
	members := table.Members("imp")
	require.Len(t, members, 1)
	assert.Equal(t, "imp.tick", members[0].Key)
}
