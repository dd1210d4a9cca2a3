package workspace

import (
	"slices"
	"strings"

	"github.com/doomfront/doomfront/token"
)

// Edge is one include directive. To is empty when the target is not
// indexed.
type Edge struct {
	From token.FileID `json:"from"`
	To   token.FileID `json:"to,omitempty"`
	Path string       `json:"path"`
	Span token.Span   `json:"span"`
}

// Cycle is a closed include path. Files starts at the file the closing
// edge points back to.
type Cycle struct {
	Files   []token.FileID `json:"files"`
	Closing Edge           `json:"closing"`
}

func (c Cycle) String() string {
	parts := make([]string, 0, len(c.Files)+1)
	for _, f := range c.Files {
		parts = append(parts, string(f))
	}
	parts = append(parts, string(c.Closing.To))
	return strings.Join(parts, " -> ")
}

// Graph is the directed include graph of a snapshot.
type Graph struct {
	Nodes      []token.FileID `json:"nodes"`
	Edges      []Edge         `json:"edges"`
	Unresolved []Edge         `json:"unresolved,omitempty"`

	out    map[token.FileID][]Edge
	cycles []Cycle
}

func (s *Snapshot) buildGraph() *Graph {
	g := &Graph{
		Nodes: slices.Clone(s.ids),
		out:   make(map[token.FileID][]Edge, len(s.ids)),
	}
	for _, id := range s.ids {
		for _, inc := range s.files[id].Includes() {
			e := Edge{From: id, Path: inc.Path, Span: inc.Span}
			to, ok := s.includeTarget(id, inc.Path)
			if !ok {
				g.Unresolved = append(g.Unresolved, e)
				continue
			}
			e.To = to
			g.Edges = append(g.Edges, e)
			g.out[id] = append(g.out[id], e)
		}
	}
	g.findCycles(s.byRecency())
	return g
}

// findCycles runs a depth-first search from each root in order and records
// every back edge as a cycle. Roots are visited in the order their files
// were indexed, so a cycle is closed by the edge of the file whose parse
// completed it.
func (g *Graph) findCycles(roots []token.FileID) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[token.FileID]int, len(g.Nodes))
	var stack []token.FileID
	var visit func(n token.FileID)
	visit = func(n token.FileID) {
		color[n] = gray
		stack = append(stack, n)
		for _, e := range g.out[n] {
			switch color[e.To] {
			case gray:
				i := slices.Index(stack, e.To)
				g.cycles = append(g.cycles, Cycle{Files: slices.Clone(stack[i:]), Closing: e})
			case white:
				visit(e.To)
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
	}
	for _, n := range roots {
		if color[n] == white {
			visit(n)
		}
	}
}

// Successors returns the files directly included by file, in directive
// order, without duplicates.
func (g *Graph) Successors(file token.FileID) []token.FileID {
	var out []token.FileID
	for _, e := range g.out[file] {
		if !slices.Contains(out, e.To) {
			out = append(out, e.To)
		}
	}
	return out
}

// Cycles returns the include cycles in discovery order.
func (g *Graph) Cycles() []Cycle {
	return slices.Clone(g.cycles)
}

// HasCycles reports whether any include cycle exists.
func (g *Graph) HasCycles() bool {
	return len(g.cycles) > 0
}

// Reachable returns every file reachable from file through includes, file
// excluded, in breadth-first order.
func (g *Graph) Reachable(file token.FileID) []token.FileID {
	seen := map[token.FileID]bool{file: true}
	var out []token.FileID
	queue := []token.FileID{file}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.Successors(cur) {
			if !seen[next] {
				seen[next] = true
				out = append(out, next)
				queue = append(queue, next)
			}
		}
	}
	return out
}
