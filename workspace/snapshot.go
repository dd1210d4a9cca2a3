package workspace

import (
	"cmp"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

// Snapshot is an immutable view of the workspace at one point in time.
// Derived data such as the include graph is computed on first use.
type Snapshot struct {
	files map[token.FileID]*Entry
	ids   []token.FileID

	// byPath maps folded, slash-separated paths to file ids for include
	// lookup. Lump names are case-insensitive in the engines.
	byPath map[string]token.FileID

	includeRoots []string
	builtins     map[string]bool
	builtinNames []string

	graph func() *Graph
}

func newSnapshot(files map[token.FileID]*Entry, o *options) *Snapshot {
	s := &Snapshot{
		files:        files,
		byPath:       make(map[string]token.FileID, len(files)),
		includeRoots: o.includeRoots,
		builtins:     make(map[string]bool, len(o.builtins)),
		builtinNames: o.builtins,
	}
	for id := range files {
		s.ids = append(s.ids, id)
	}
	slices.Sort(s.ids)
	for _, id := range s.ids {
		key := foldPath(string(id))
		if _, dup := s.byPath[key]; !dup {
			s.byPath[key] = id
		}
	}
	for _, name := range o.builtins {
		s.builtins[strings.ToLower(name)] = true
	}
	s.graph = sync.OnceValue(s.buildGraph)
	return s
}

func foldPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.ToLower(path.Clean(p))
}

// Len returns the number of indexed files.
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// Files returns the indexed file ids in sorted order.
func (s *Snapshot) Files() []token.FileID {
	return slices.Clone(s.ids)
}

// Entry returns the entry of file.
func (s *Snapshot) Entry(file token.FileID) (*Entry, bool) {
	e, ok := s.files[file]
	return e, ok
}

// IncludeGraph returns the include graph.
func (s *Snapshot) IncludeGraph() *Graph {
	return s.graph()
}

// includeTarget resolves an include path written in from. Paths are tried
// relative to the including file, as written, then under each include root.
func (s *Snapshot) includeTarget(from token.FileID, p string) (token.FileID, bool) {
	p = strings.ReplaceAll(p, `\`, "/")
	candidates := []string{path.Join(path.Dir(strings.ReplaceAll(string(from), `\`, "/")), p), p}
	for _, root := range s.includeRoots {
		candidates = append(candidates, path.Join(root, p))
	}
	for _, c := range candidates {
		if id, ok := s.byPath[foldPath(c)]; ok {
			return id, true
		}
	}
	return "", false
}

func (s *Snapshot) isBuiltin(name string) bool {
	return s.builtins[strings.ToLower(name)]
}

// searchOrder lists the files consulted when resolving a name from file:
// file itself, then the files it includes in breadth-first order, then
// every other file sorted by id.
func (s *Snapshot) searchOrder(from token.FileID) []token.FileID {
	order := make([]token.FileID, 0, len(s.ids))
	seen := make(map[token.FileID]bool, len(s.ids))
	if _, ok := s.files[from]; ok {
		g := s.IncludeGraph()
		queue := []token.FileID{from}
		seen[from] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			order = append(order, cur)
			for _, next := range g.Successors(cur) {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	for _, id := range s.ids {
		if !seen[id] {
			order = append(order, id)
		}
	}
	return order
}

// lookupKinds returns the kinds a query for kind matches. Classes and
// actors share one namespace: DECORATE actors may inherit from ZScript
// classes and the other way round.
func lookupKinds(kind symbols.Kind) []symbols.Kind {
	switch kind {
	case symbols.Class:
		return []symbols.Kind{symbols.Class, symbols.Actor}
	case symbols.Actor:
		return []symbols.Kind{symbols.Actor, symbols.Class}
	default:
		return []symbols.Kind{kind}
	}
}

// Resolve finds the declaration of name with the given kind as seen from
// the file from: declarations in from and the files it includes win over
// the rest of the workspace, and the first match is authoritative. An empty
// from searches every file in id order. Naming a file that is not indexed
// is a usage error wrapping ErrUnknownFile.
func (s *Snapshot) Resolve(from token.FileID, name string, kind symbols.Kind) (symbols.Declaration, bool, error) {
	if from != "" {
		if _, ok := s.files[from]; !ok {
			return symbols.Declaration{}, false, usage("resolve", from, ErrUnknownFile)
		}
	}
	d, ok := s.resolve(from, name, kind)
	return d, ok, nil
}

func (s *Snapshot) resolve(from token.FileID, name string, kind symbols.Kind) (symbols.Declaration, bool) {
	kinds := lookupKinds(kind)
	for _, id := range s.searchOrder(from) {
		table := s.files[id].Table
		for _, k := range kinds {
			if d, ok := table.LookupName(name, k); ok {
				return d, true
			}
		}
	}
	return symbols.Declaration{}, false
}

// Diagnostics returns the lex, parse and bind diagnostics of file merged
// with the resolution warnings computed against this snapshot, ordered by
// span.
func (s *Snapshot) Diagnostics(file token.FileID) ([]diag.Diagnostic, error) {
	e, ok := s.files[file]
	if !ok {
		return nil, usage("diagnostics", file, ErrUnknownFile)
	}
	return diag.Merge(e.Diagnostics, s.resolutionDiagnostics(e)), nil
}

// Symbols returns the declarations whose name contains query, ignoring
// case, restricted to kinds when any are given. Results are ordered by file
// id, then by declaration order.
func (s *Snapshot) Symbols(query string, kinds ...symbols.Kind) []symbols.Declaration {
	query = strings.ToLower(query)
	var out []symbols.Declaration
	for _, id := range s.ids {
		for d := range s.files[id].Table.All() {
			if len(kinds) > 0 && !slices.Contains(kinds, d.Kind) {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(d.Name), query) {
				continue
			}
			out = append(out, d)
		}
	}
	return out
}

// byRecency orders ids by the time their entries were last replaced.
func (s *Snapshot) byRecency() []token.FileID {
	ids := slices.Clone(s.ids)
	slices.SortStableFunc(ids, func(a, b token.FileID) int {
		return cmp.Compare(s.files[a].Seq, s.files[b].Seq)
	})
	return ids
}
