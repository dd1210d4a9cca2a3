package workspace

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/doomfront/doomfront/token"
)

// DefaultDebounce is the quiet period the watcher waits for before
// re-analyzing a changed file.
const DefaultDebounce = 150 * time.Millisecond

// ChangeFunc is called after the watcher updated or removed a file.
type ChangeFunc func(file token.FileID, removed bool)

// Watcher keeps an index in sync with a directory tree on disk.
type Watcher struct {
	idx      *Index
	root     string
	delay    time.Duration
	onChange ChangeFunc
	fsw      *fsnotify.Watcher
	log      zerolog.Logger

	mu      sync.Mutex
	pending map[string]*Debouncer
}

// NewWatcher watches root and every directory below it that is not
// ignored. onChange may be nil.
func NewWatcher(idx *Index, root string, delay time.Duration, onChange ChangeFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	w := &Watcher{
		idx:      idx,
		root:     root,
		delay:    delay,
		onChange: onChange,
		fsw:      fsw,
		log:      idx.log.With().Str("root", root).Logger(),
		pending:  map[string]*Debouncer{},
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.idx.ignored(w.root, p, true) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

// Run processes file system events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	p := ev.Name
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.schedule(p, func() { w.remove(p) })
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		info, err := os.Stat(p)
		if err != nil {
			return
		}
		if info.IsDir() {
			if !w.idx.ignored(w.root, p, true) {
				if err := w.addTree(p); err != nil {
					w.log.Warn().Err(err).Str("path", p).Msg("cannot watch directory")
				}
			}
			return
		}
		if w.idx.ignored(w.root, p, false) || w.idx.dialectFor(p) == token.Unknown {
			return
		}
		w.schedule(p, func() { w.reload(p) })
	}
}

func (w *Watcher) schedule(p string, fn func()) {
	w.mu.Lock()
	d, ok := w.pending[p]
	if !ok {
		d = NewDebouncer(w.delay)
		w.pending[p] = d
	}
	w.mu.Unlock()
	d.Trigger(func() {
		w.mu.Lock()
		if w.pending[p] == d {
			delete(w.pending, p)
		}
		w.mu.Unlock()
		fn()
	})
}

func (w *Watcher) reload(p string) {
	if err := w.idx.LoadFile(w.root, p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.remove(p)
			return
		}
		w.log.Warn().Err(err).Str("path", p).Msg("reload failed")
		return
	}
	w.notify(FileID(w.root, p), false)
}

func (w *Watcher) remove(p string) {
	if _, err := os.Stat(p); err == nil {
		// Renamed over or recreated before the delay passed.
		w.reload(p)
		return
	}
	id := FileID(w.root, p)
	if err := w.idx.Remove(id); err != nil {
		if !errors.Is(err, ErrUnknownFile) {
			w.log.Warn().Err(err).Str("file", string(id)).Msg("remove failed")
		}
		return
	}
	w.notify(id, true)
}

func (w *Watcher) notify(id token.FileID, removed bool) {
	if w.onChange != nil {
		w.onChange(id, removed)
	}
}

// Close stops watching and cancels pending re-analysis.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, d := range w.pending {
		d.Cancel()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
