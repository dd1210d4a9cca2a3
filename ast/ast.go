// Package ast defines the syntax trees produced for every dialect.
//
// All dialects share one Node interface and one root type, File. Nodes are
// typed structs; Children returns the child nodes in source order so that the
// traversal helpers in walk.go work uniformly across dialects. Trees are not
// modified after the parser returns them.
package ast

import (
	"reflect"
	"slices"

	"github.com/doomfront/doomfront/token"
)

// Node represents a portion of the syntax tree. Every node covers a span of
// its file, and that span contains the spans of all of its children.
type Node interface {
	// Kind returns the node's variant tag.
	Kind() Kind

	// Span returns the byte range of the source covered by the node.
	Span() token.Span

	// Children returns the non-nil child nodes ordered by start offset.
	Children() []Node
}

// Expr represents an expression node.
type Expr interface {
	Node
	String() string
	exprNode()
}

// Stmt represents a statement inside a function body or anonymous action.
type Stmt interface {
	Node
	stmtNode()
}

// File is the root of every tree. An empty input yields a File spanning
// [0,0] with no declarations.
type File struct {
	Range   token.Span
	Dialect token.Dialect
	Decls   []Node
}

func (x *File) Kind() Kind       { return KindFile }
func (x *File) Span() token.Span { return x.Range }
func (x *File) Children() []Node { return each(nil, x.Decls) }

// Bad is a placeholder for a construct the parser could not recognize. It
// keeps the skipped tokens so that consumers can still inspect them.
// A Missing node is zero-width and marks where a required construct was
// expected.
type Bad struct {
	Range   token.Span
	Message string
	Tokens  []token.Token
	Missing bool
}

func (x *Bad) Kind() Kind       { return KindBad }
func (x *Bad) Span() token.Span { return x.Range }
func (x *Bad) Children() []Node { return nil }
func (x *Bad) String() string   { return "<bad>" }
func (x *Bad) exprNode()        {}
func (x *Bad) stmtNode()        {}

// IsError reports whether n is an error placeholder.
func IsError(n Node) bool {
	_, ok := n.(*Bad)
	return ok
}

// nodes collects the non-nil nodes among xs, in order.
func nodes(xs ...Node) []Node {
	var out []Node
	for _, x := range xs {
		if !isNil(x) {
			out = append(out, x)
		}
	}
	return out
}

// each appends the non-nil elements of xs to out.
func each[T Node](out []Node, xs []T) []Node {
	for _, x := range xs {
		if !isNil(x) {
			out = append(out, x)
		}
	}
	return out
}

// ordered sorts children by start offset. Used by nodes whose fields do not
// follow source order, such as a trailing modifier list.
func ordered(out []Node) []Node {
	slices.SortStableFunc(out, func(a, b Node) int {
		return a.Span().Start - b.Span().Start
	})
	return out
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
