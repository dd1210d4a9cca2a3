// Package workspace aggregates per-file analysis results into a project
// index that answers cross-file questions: where a name is defined, which
// files include which, and what could not be resolved.
//
// The index is the only shared mutable state. Writers build a new immutable
// Snapshot and publish it with one atomic store, so readers never lock and
// never see a file's tree, table and diagnostics from different parses.
package workspace

import (
	"maps"
	"sync"
	"sync/atomic"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

// Index is the workspace index of one open project. It is safe for
// concurrent use.
type Index struct {
	id   uuid.UUID
	opts *options
	log  zerolog.Logger

	// mu serialises writers; readers only load snap.
	mu     sync.Mutex
	seq    uint64
	closed bool
	snap   atomic.Pointer[Snapshot]
}

// New returns an empty index.
func New(opts ...Option) *Index {
	o := collectOptions(opts...)
	id := uuid.Must(uuid.NewV4())
	idx := &Index{
		id:   id,
		opts: o,
		log:  o.logger.With().Str("session", id.String()).Logger(),
	}
	idx.snap.Store(newSnapshot(nil, o))
	idx.log.Debug().Msg("workspace opened")
	return idx
}

// ID identifies the workspace session.
func (idx *Index) ID() uuid.UUID {
	return idx.id
}

// Close drops every entry. Later writes fail with ErrClosed and reads see an
// empty workspace.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return usage("close", "", ErrClosed)
	}
	idx.closed = true
	idx.snap.Store(newSnapshot(nil, idx.opts))
	idx.log.Debug().Msg("workspace closed")
	return nil
}

// Snapshot returns the current immutable view of the workspace.
func (idx *Index) Snapshot() *Snapshot {
	return idx.snap.Load()
}

// swap applies fn to a copy of the current entries and publishes the result.
func (idx *Index) swap(op string, file token.FileID, fn func(files map[token.FileID]*Entry) error) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return usage(op, file, ErrClosed)
	}
	files := maps.Clone(idx.snap.Load().files)
	if files == nil {
		files = map[token.FileID]*Entry{}
	}
	if err := fn(files); err != nil {
		return err
	}
	idx.snap.Store(newSnapshot(files, idx.opts))
	return nil
}

func (idx *Index) put(e *Entry) error {
	return idx.swap("update", e.File, func(files map[token.FileID]*Entry) error {
		idx.seq++
		e.Seq = idx.seq
		files[e.File] = e
		idx.log.Debug().
			Str("file", string(e.File)).
			Str("dialect", e.Dialect.String()).
			Int32("version", e.Version).
			Int("diagnostics", len(e.Diagnostics)).
			Msg("indexed")
		return nil
	})
}

// Update replaces the entry of file with an externally produced tree, table
// and diagnostics.
func (idx *Index) Update(file token.FileID, tree *ast.File, table *symbols.Table, diags []diag.Diagnostic) error {
	e := &Entry{
		File:        file,
		Tree:        tree,
		Table:       table,
		Diagnostics: diag.Merge(diags),
	}
	if tree != nil {
		e.Dialect = tree.Dialect
	}
	if table == nil {
		e.Table = symbols.NewTable(file, e.Dialect)
	}
	return idx.put(e)
}

// Open analyzes text and indexes it under file, replacing any previous
// entry. An Unknown dialect is guessed from the file name.
func (idx *Index) Open(file token.FileID, dialect token.Dialect, text string, version int32) (*Entry, error) {
	if dialect == token.Unknown {
		dialect = token.DialectForPath(string(file), idx.opts.extensions)
	}
	e := entryFromResult(doomfront.Analyze(file, text, dialect, idx.opts.analyze...), text, version)
	if err := idx.put(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Change re-analyzes an open file with new text. When the text is unchanged
// only the version is updated.
func (idx *Index) Change(file token.FileID, text string, version int32) (*Entry, error) {
	cur, ok := idx.Snapshot().Entry(file)
	if !ok {
		if idx.isClosed() {
			return nil, usage("change", file, ErrClosed)
		}
		return nil, usage("change", file, ErrUnknownFile)
	}
	if cur.Hash == hashText(text) && cur.Text == text {
		var next *Entry
		err := idx.swap("change", file, func(files map[token.FileID]*Entry) error {
			prev, ok := files[file]
			if !ok {
				return usage("change", file, ErrUnknownFile)
			}
			cp := *prev
			cp.Version = version
			next = &cp
			files[file] = next
			return nil
		})
		if err != nil {
			return nil, err
		}
		idx.log.Debug().Str("file", string(file)).Int32("version", version).Msg("content unchanged")
		return next, nil
	}
	return idx.Open(file, cur.Dialect, text, version)
}

// Remove drops the entry of file.
func (idx *Index) Remove(file token.FileID) error {
	return idx.swap("remove", file, func(files map[token.FileID]*Entry) error {
		if _, ok := files[file]; !ok {
			return usage("remove", file, ErrUnknownFile)
		}
		delete(files, file)
		idx.log.Debug().Str("file", string(file)).Msg("removed")
		return nil
	})
}

func (idx *Index) isClosed() bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.closed
}

// Files returns the indexed file ids in sorted order.
func (idx *Index) Files() []token.FileID {
	return idx.Snapshot().Files()
}

// Entry returns the current entry of file.
func (idx *Index) Entry(file token.FileID) (*Entry, bool) {
	return idx.Snapshot().Entry(file)
}

// Resolve finds the declaration name of the given kind as seen from file.
// See Snapshot.Resolve.
func (idx *Index) Resolve(from token.FileID, name string, kind symbols.Kind) (symbols.Declaration, bool, error) {
	return idx.Snapshot().Resolve(from, name, kind)
}

// IncludeGraph returns the include graph of the current snapshot.
func (idx *Index) IncludeGraph() *Graph {
	return idx.Snapshot().IncludeGraph()
}

// Diagnostics returns the diagnostics of file including resolution warnings.
func (idx *Index) Diagnostics(file token.FileID) ([]diag.Diagnostic, error) {
	return idx.Snapshot().Diagnostics(file)
}

// Symbols searches declarations across the workspace.
func (idx *Index) Symbols(query string, kinds ...symbols.Kind) []symbols.Declaration {
	return idx.Snapshot().Symbols(query, kinds...)
}
