package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

func writeFile(t *testing.T, root, name, text string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
	return p
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "actors/imp.zs", "#include \"base.zs\"\nclass Imp : Base {}\n")
	writeFile(t, root, "lib/base.zs", "class Base {}\n")
	writeFile(t, root, "readme.txt", "not a lump")
	writeFile(t, root, ".git/hooks.zs", "class Hidden {}\n")
	writeFile(t, root, "skip/old.zs", "class Old {}\n")
	writeFile(t, root, "DECORATE.txt", "actor Zombie {}\n")

	idx := newIndex(t, WithIncludeRoots("lib"), WithIgnore("skip/**"), WithWorkers(2))
	n, err := idx.LoadDir(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []token.FileID{"DECORATE.txt", "actors/imp.zs", "lib/base.zs"}, idx.Files())

	e, ok := idx.Entry("DECORATE.txt")
	require.True(t, ok)
	assert.Equal(t, token.Decorate, e.Dialect)

	g := idx.IncludeGraph()
	require.Len(t, g.Edges, 1)
	assert.Equal(t, token.FileID("lib/base.zs"), g.Edges[0].To)
	assert.Empty(t, g.Unresolved)

	diags, err := idx.Diagnostics("actors/imp.zs")
	require.NoError(t, err)
	assert.Empty(t, diags)

	// Reloading unchanged files keeps their trees.
	before, _ := idx.Entry("lib/base.zs")
	_, err = idx.LoadDir(context.Background(), root)
	require.NoError(t, err)
	after, _ := idx.Entry("lib/base.zs")
	assert.Same(t, before.Tree, after.Tree)
	assert.Equal(t, before.Version+1, after.Version)
}

func TestLoadDirCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.zs", "class A {}\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	idx := newIndex(t)
	_, err := idx.LoadDir(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, idx.Files())
}

func TestLoadFileMissing(t *testing.T) {
	idx := newIndex(t)
	err := idx.LoadFile(t.TempDir(), filepath.Join(t.TempDir(), "gone.zs"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileID(t *testing.T) {
	root := filepath.Join("mods", "mine")
	assert.Equal(t, token.FileID("zscript/imp.zs"), FileID(root, filepath.Join(root, "zscript", "imp.zs")))
	assert.Equal(t, token.FileID("elsewhere/x.zs"), FileID(root, filepath.Join("elsewhere", "x.zs")))
	assert.Equal(t, token.FileID("..foo.zs"), FileID(root, filepath.Join(root, "..foo.zs")))
	assert.Equal(t, token.FileID("mods"), FileID(root, "mods"))
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int64
	var last atomic.Int64
	for i := range 5 {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(int64(i))
		})
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(4), last.Load())

	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())

	d.Trigger(func() { calls.Add(1) })
	d.Flush()
	assert.Equal(t, int64(2), calls.Load())
}

func TestWatcher(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.zs", "class A {}\n")
	idx := newIndex(t)
	_, err := idx.LoadDir(context.Background(), root)
	require.NoError(t, err)

	var mu sync.Mutex
	changed := map[token.FileID]bool{}
	w, err := NewWatcher(idx, root, 10*time.Millisecond, func(file token.FileID, removed bool) {
		mu.Lock()
		changed[file] = removed
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	writeFile(t, root, "sub/b.zs", "class B {}\n")
	writeFile(t, root, "c.zs", "class C {}\n")
	require.Eventually(t, func() bool {
		_, ok, _ := idx.Resolve("", "C", symbols.Class)
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(a))
	require.Eventually(t, func() bool {
		_, ok := idx.Entry("a.zs")
		return !ok
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	removed, ok := changed["c.zs"]
	assert.True(t, ok)
	assert.False(t, removed)
	assert.True(t, changed["a.zs"])
}

func TestWatcherForgetsSettledPaths(t *testing.T) {
	root := t.TempDir()
	idx := newIndex(t)
	w, err := NewWatcher(idx, root, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	var calls atomic.Int64
	for i := range 3 {
		w.schedule(filepath.Join(root, "x.zs"), func() { calls.Add(1) })
		w.schedule(filepath.Join(root, "y"+string(rune('a'+i))+".zs"), func() { calls.Add(1) })
	}
	require.Eventually(t, func() bool { return calls.Load() == 4 }, time.Second, 5*time.Millisecond)

	pending := func() int {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.pending)
	}
	require.Eventually(t, func() bool { return pending() == 0 }, time.Second, 5*time.Millisecond)
}
