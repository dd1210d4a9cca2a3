package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/doomfront/doomfront/token"
)

// FileID returns the id of the file at p inside the workspace root: its
// slash-separated path relative to root.
func FileID(root, p string) token.FileID {
	if rel, err := filepath.Rel(root, p); err == nil {
		rel = filepath.ToSlash(rel)
		if rel != ".." && !strings.HasPrefix(rel, "../") {
			return token.FileID(rel)
		}
	}
	return token.FileID(filepath.ToSlash(p))
}

// LoadDir analyzes every recognised file under root in parallel and indexes
// it. Files that cannot be read are skipped; their errors are returned
// together once everything else is loaded. LoadDir returns the number of
// files indexed.
func (idx *Index) LoadDir(ctx context.Context, root string) (int, error) {
	paths, err := idx.scan(ctx, root)
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.opts.workers)
	var (
		mu     sync.Mutex
		result *multierror.Error
		loaded atomic.Int64
	)
	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := idx.LoadFile(root, p); err != nil {
				idx.log.Warn().Err(err).Str("path", p).Msg("failed to load file")
				mu.Lock()
				result = multierror.Append(result, err)
				mu.Unlock()
				return nil
			}
			loaded.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(loaded.Load()), err
	}
	idx.log.Info().Str("root", root).Int64("files", loaded.Load()).Msg("workspace loaded")
	return int(loaded.Load()), result.ErrorOrNil()
}

// LoadFile reads the file at p and indexes it under its id relative to
// root. Unchanged content is not re-analyzed.
func (idx *Index) LoadFile(root, p string) error {
	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("load %s: %w", p, err)
	}
	id := FileID(root, p)
	text := string(data)
	if cur, ok := idx.Entry(id); ok {
		_, err = idx.Change(id, text, cur.Version+1)
		return err
	}
	_, err = idx.Open(id, idx.dialectFor(p), text, 0)
	return err
}

func (idx *Index) dialectFor(p string) token.Dialect {
	return token.DialectForPath(p, idx.opts.extensions)
}

// scan lists the analyzable files under root in lexical order.
func (idx *Index) scan(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if idx.ignored(root, p, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Type().IsRegular() && idx.dialectFor(p) != token.Unknown {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return paths, nil
}

// ignored matches p against the ignore patterns. Hidden directories are
// always skipped.
func (idx *Index) ignored(root, p string, dir bool) bool {
	base := filepath.Base(p)
	if dir && strings.HasPrefix(base, ".") {
		return true
	}
	rel := string(FileID(root, p))
	for _, pat := range idx.opts.ignore {
		if prefix, ok := strings.CutSuffix(pat, "/**"); ok {
			if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
	}
	return false
}
