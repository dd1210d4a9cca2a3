package ast

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the children of node, followed by
// a call of w.Visit(nil).
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range node.Children() {
		Walk(v, child)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the children of node, followed by a call of
// f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Preorder returns an iterator over all the nodes of the syntax tree
// beneath (and including) the specified root, in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range n.Children() {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// Postorder returns an iterator over all the nodes beneath (and including)
// root, each node yielded after its children.
func Postorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			for _, child := range n.Children() {
				if !visit(child) {
					return false
				}
			}
			return yield(n)
		}
		visit(root)
	}
}

// PathTo returns the chain of nodes from root down to the innermost node
// whose span contains offset. It returns nil when root does not contain it.
// A span contains its end offset, so a cursor just past a token still finds
// it; when two siblings touch, the later one wins.
func PathTo(root Node, offset int) []Node {
	if root == nil || !root.Span().Contains(offset) {
		return nil
	}
	path := []Node{root}
	for n := root; ; {
		var next Node
		for _, child := range n.Children() {
			if child.Span().Contains(offset) {
				next = child
			}
			if child.Span().Start > offset {
				break
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
		n = next
	}
}

// NodeAt returns the innermost node containing offset, or nil.
func NodeAt(root Node, offset int) Node {
	path := PathTo(root, offset)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// Errors returns the error placeholders in the tree, in source order.
func Errors(root Node) []*Bad {
	var out []*Bad
	for n := range Preorder(root) {
		if bad, ok := n.(*Bad); ok {
			out = append(out, bad)
		}
	}
	return out
}

// Validate checks the structural invariants of a tree: every child span lies
// within its parent's span, and sibling spans are ordered and do not
// overlap. It returns the first violation found.
func Validate(root Node) error {
	for n := range Preorder(root) {
		parent := n.Span()
		prevEnd := parent.Start
		var prev Node
		for _, child := range n.Children() {
			span := child.Span()
			if span.File != parent.File {
				return fmt.Errorf("%s at %s: child %s belongs to file %q", n.Kind(), parent, child.Kind(), span.File)
			}
			if !parent.Covers(span) {
				return fmt.Errorf("%s at %s: child %s at %s escapes its parent", n.Kind(), parent, child.Kind(), span)
			}
			if span.Start < prevEnd {
				return fmt.Errorf("%s at %s: child %s at %s overlaps sibling %s", n.Kind(), parent, child.Kind(), span, prev.Kind())
			}
			prevEnd, prev = span.End, child
		}
	}
	return nil
}

// Dump writes an indented outline of the tree, one node per line.
func Dump(w io.Writer, root Node) error {
	var err error
	depth := 0
	Inspect(root, func(n Node) bool {
		if n == nil {
			depth--
			return false
		}
		if err == nil {
			_, err = fmt.Fprintf(w, "%s%s %d..%d%s\n", strings.Repeat("  ", depth), n.Kind(), n.Span().Start, n.Span().End, label(n))
		}
		depth++
		return true
	})
	return err
}

// Label returns the short detail printed next to a node's kind by Dump,
// such as an identifier's name or an operator.
func Label(n Node) string {
	return strings.TrimPrefix(label(n), " ")
}

func label(n Node) string {
	switch x := n.(type) {
	case *Ident:
		return " " + x.Name
	case *Bad:
		if x.Message != "" {
			return fmt.Sprintf(" %q", x.Message)
		}
	case *Modifier:
		return " " + x.Name
	case *Branch:
		return " " + x.Tok
	case *StateFlow:
		return " " + x.Op
	case *Flag:
		if x.On {
			return " +"
		}
		return " -"
	case Expr:
		switch n.Kind() {
		case KindInt, KindFloat, KindString, KindName, KindBool, KindNull:
			return " " + x.String()
		case KindPrefix, KindPostfix, KindBinary:
			return " " + opOf(x)
		}
	}
	return ""
}

func opOf(e Expr) string {
	switch x := e.(type) {
	case *Prefix:
		return x.Op
	case *Postfix:
		return x.Op
	case *Binary:
		return x.Op
	}
	return ""
}
