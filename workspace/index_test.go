package workspace

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

func newIndex(t *testing.T, opts ...Option) *Index {
	t.Helper()
	idx := New(append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func open(t *testing.T, idx *Index, file token.FileID, text string) *Entry {
	t.Helper()
	e, err := idx.Open(file, token.Unknown, text, 1)
	require.NoError(t, err)
	return e
}

func codes(diags []diag.Diagnostic) []diag.Code {
	out := []diag.Code{}
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestIncludeCycle(t *testing.T) {
	idx := newIndex(t)
	open(t, idx, "a.zs", "#include \"b.zs\"\nclass A {}\n")
	open(t, idx, "b.zs", "#include \"a.zs\"\nclass B : A {}\n")

	g := idx.IncludeGraph()
	assert.Equal(t, []token.FileID{"a.zs", "b.zs"}, g.Nodes)
	assert.Len(t, g.Edges, 2)
	require.True(t, g.HasCycles())
	cycles := g.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []token.FileID{"a.zs", "b.zs"}, cycles[0].Files)
	assert.Equal(t, token.FileID("b.zs"), cycles[0].Closing.From)
	assert.Equal(t, "a.zs -> b.zs -> a.zs", cycles[0].String())

	bd, err := idx.Diagnostics("b.zs")
	require.NoError(t, err)
	require.Equal(t, []diag.Code{diag.R403}, codes(bd))
	assert.Equal(t, diag.Warning, bd[0].Severity)
	assert.Equal(t, diag.StageResolve, bd[0].Stage)
	assert.Equal(t, token.NewSpan("b.zs", 9, 15), bd[0].Span)

	ad, err := idx.Diagnostics("a.zs")
	require.NoError(t, err)
	assert.Empty(t, ad)

	// Both files stay fully indexed.
	d, ok, err := idx.Resolve("a.zs", "B", symbols.Class)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, token.FileID("b.zs"), d.File)
	d, ok, err = idx.Resolve("b.zs", "a", symbols.Class)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, token.FileID("a.zs"), d.File)
}

func TestIncludeCycleClosedByLaterParse(t *testing.T) {
	idx := newIndex(t)
	open(t, idx, "b.zs", "#include \"a.zs\"\n")
	open(t, idx, "a.zs", "#include \"b.zs\"\n")

	cycles := idx.IncludeGraph().Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, token.FileID("a.zs"), cycles[0].Closing.From)

	ad, err := idx.Diagnostics("a.zs")
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.R403}, codes(ad))
	bd, err := idx.Diagnostics("b.zs")
	require.NoError(t, err)
	assert.Empty(t, bd)
}

func TestSelfInclude(t *testing.T) {
	idx := newIndex(t)
	open(t, idx, "s.deh", "include s.deh\n")
	cycles := idx.IncludeGraph().Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []token.FileID{"s.deh"}, cycles[0].Files)
}

func TestResolveOrder(t *testing.T) {
	idx := newIndex(t)
	open(t, idx, "a.zs", "class Shared {}\n")
	open(t, idx, "z.zs", "class Shared {}\n")
	open(t, idx, "m.zs", "#include \"z.zs\"\n")
	open(t, idx, "d.dec", "actor Walker {}\n")

	d, ok, err := idx.Resolve("m.zs", "shared", symbols.Class)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, token.FileID("z.zs"), d.File)

	d, ok, err = idx.Resolve("", "SHARED", symbols.Class)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, token.FileID("a.zs"), d.File)

	// Classes and actors share a namespace.
	d, ok, err = idx.Resolve("m.zs", "walker", symbols.Class)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, symbols.Actor, d.Kind)

	_, ok, err = idx.Resolve("m.zs", "nothing", symbols.Class)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = idx.Resolve("nope.zs", "shared", symbols.Class)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFile))
	var ue *UsageError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "resolve", ue.Op)
}

func TestResolutionWarnings(t *testing.T) {
	idx := newIndex(t)
	open(t, idx, "x.zs", `#include "missing.zs"
class Imp : Ghost {}
class Walker : Actor { states { Spawn: TNT1 A 0; Goto Death; } }
class Loner { states { Spawn: TNT1 A 0; Goto Death; } }
`)
	diags, err := idx.Diagnostics("x.zs")
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.R402, diag.R401, diag.R404}, codes(diags))
	for _, d := range diags {
		assert.Equal(t, diag.Warning, d.Severity)
	}

	// Defining the parent elsewhere clears the warning.
	open(t, idx, "ghost.zs", "class Ghost {}\n")
	diags, err = idx.Diagnostics("x.zs")
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.R402, diag.R404}, codes(diags))
}

func TestInheritedStateLabel(t *testing.T) {
	idx := newIndex(t)
	open(t, idx, "base.zs", "class Base { states { Death: TNT1 A 0; Stop; } }\n")
	open(t, idx, "imp.zs", `class Imp : Base {
	states { Spawn: TNT1 A 0; Goto Death; Pain: TNT1 A 0; Goto Super::Death; Missile: TNT1 A 0; Goto Base::Melee; }
}
`)
	diags, err := idx.Diagnostics("imp.zs")
	require.NoError(t, err)
	require.Equal(t, []diag.Code{diag.R404}, codes(diags))
	assert.Contains(t, diags[0].Message, "Base::Melee")
}

func TestInheritanceCycle(t *testing.T) {
	idx := newIndex(t)
	open(t, idx, "c.zs", "class P : Q {}\nclass Q : P {}\n")
	diags, err := idx.Diagnostics("c.zs")
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.R405, diag.R405}, codes(diags))
}

func TestChange(t *testing.T) {
	idx := newIndex(t)
	first := open(t, idx, "f.zs", "class A {}\n")

	same, err := idx.Change("f.zs", "class A {}\n", 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), same.Version)
	assert.Same(t, first.Tree, same.Tree)
	assert.Equal(t, first.Seq, same.Seq)

	next, err := idx.Change("f.zs", "class B {}\n", 3)
	require.NoError(t, err)
	assert.NotSame(t, first.Tree, next.Tree)
	assert.Greater(t, next.Seq, first.Seq)
	_, ok, _ := idx.Resolve("f.zs", "A", symbols.Class)
	assert.False(t, ok)

	_, err = idx.Change("g.zs", "", 1)
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestUpdateAndRemove(t *testing.T) {
	idx := newIndex(t)
	res := doomfront.Analyze("u.dec", "actor U {}\nactor U {}\n", token.Decorate)
	require.NoError(t, idx.Update("u.dec", res.Tree, res.Table, res.Diagnostics))

	e, ok := idx.Entry("u.dec")
	require.True(t, ok)
	assert.Equal(t, token.Decorate, e.Dialect)
	assert.Zero(t, e.Hash)
	assert.Equal(t, []diag.Code{diag.B301}, codes(e.Diagnostics))

	require.NoError(t, idx.Remove("u.dec"))
	assert.Empty(t, idx.Files())
	assert.ErrorIs(t, idx.Remove("u.dec"), ErrUnknownFile)
	_, err := idx.Diagnostics("u.dec")
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestSessionID(t *testing.T) {
	a, b := newIndex(t), newIndex(t)
	assert.Equal(t, byte(uuid.V4), a.ID().Version())
	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestClose(t *testing.T) {
	idx := New(WithLogger(zerolog.Nop()))
	open(t, idx, "a.zs", "class A {}")
	require.NoError(t, idx.Close())
	assert.Empty(t, idx.Files())
	_, err := idx.Open("a.zs", token.ZScript, "", 1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = idx.Change("a.zs", "", 2)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, idx.Close(), ErrClosed)
}

func TestSymbols(t *testing.T) {
	idx := newIndex(t)
	open(t, idx, "a.zs", "class Imp { void Tick() {} }\nconst IMPS = 2;\n")
	open(t, idx, "b.dec", "actor ImpBall {}\n")

	var names []string
	for _, d := range idx.Symbols("imp") {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Imp", "IMPS", "ImpBall"}, names)

	got := idx.Symbols("", symbols.Method)
	require.Len(t, got, 1)
	assert.Equal(t, "imp.tick", got[0].Key)
}

func TestSnapshotIsolation(t *testing.T) {
	idx := newIndex(t)
	open(t, idx, "a.zs", "class A {}")
	snap := idx.Snapshot()
	open(t, idx, "b.zs", "class B {}")
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 2, idx.Snapshot().Len())
}

func TestAtomicReplace(t *testing.T) {
	idx := newIndex(t)
	const one = "class One {}\n"
	const two = "class Two {}\nclass Two {}\n"
	open(t, idx, "f.zs", one)

	var stop atomic.Bool
	var wg sync.WaitGroup
	var mixed atomic.Int64
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				snap := idx.Snapshot()
				e, ok := snap.Entry("f.zs")
				if !ok {
					mixed.Add(1)
					continue
				}
				_, isOne, _ := snap.Resolve("f.zs", "One", symbols.Class)
				_, isTwo, _ := snap.Resolve("f.zs", "Two", symbols.Class)
				consistent := (isOne && !isTwo && e.Text == one && len(e.Tree.Decls) == 1 && len(e.Diagnostics) == 0) ||
					(isTwo && !isOne && e.Text == two && len(e.Tree.Decls) == 2 && len(e.Diagnostics) == 1)
				if !consistent {
					mixed.Add(1)
				}
			}
		}()
	}
	for i := range 200 {
		text := one
		if i%2 == 0 {
			text = two
		}
		_, err := idx.Change("f.zs", text, int32(i+2))
		require.NoError(t, err)
	}
	stop.Store(true)
	wg.Wait()
	assert.Zero(t, mixed.Load())
}
