// Package symbols holds the per-file declaration tables built by the binder.
//
// Declarations refer to each other by name. Inheritance parents, include
// targets and state jumps are recorded as References and resolved later
// against the workspace, so a table never points into another file's tree.
package symbols

import (
	"fmt"
	"iter"
	"slices"

	"github.com/doomfront/doomfront/token"
)

// Declaration is a named entity declared in one file.
type Declaration struct {
	// Name is the name as written, qualified labels included.
	Name string `json:"name"`

	// Key is the folded, owner-qualified lookup key, e.g. "imp.tick".
	Key string `json:"key"`

	Kind    Kind          `json:"kind"`
	File    token.FileID  `json:"file"`
	Dialect token.Dialect `json:"dialect"`

	// Span covers the name; FullSpan covers the whole declaration.
	Span     token.Span `json:"span"`
	FullSpan token.Span `json:"fullSpan"`

	// Container is the key of the enclosing declaration, if any.
	Container string `json:"container,omitempty"`

	// Parent and Replaces name other type declarations. They are resolved
	// lazily through the workspace.
	Parent   string `json:"parent,omitempty"`
	Replaces string `json:"replaces,omitempty"`
}

// Role says what a reference is used for.
type Role uint8

const (
	RoleParent Role = iota
	RoleReplaces
	RoleExtend
	RoleMixin
	RoleGoto
	RoleMap
)

var roleNames = [...]string{
	RoleParent:   "parent",
	RoleReplaces: "replaces",
	RoleExtend:   "extend",
	RoleMixin:    "mixin",
	RoleGoto:     "goto",
	RoleMap:      "map",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	for i, n := range roleNames {
		if n == string(text) {
			*r = Role(i)
			return nil
		}
	}
	return fmt.Errorf("unknown reference role %q", text)
}

// Reference is a use of a name that the binder could not resolve within the
// file.
type Reference struct {
	Role Role       `json:"role"`
	Name string     `json:"name"`
	Kind Kind       `json:"kind"`
	Span token.Span `json:"span"`

	// From is the key of the declaration containing the reference.
	From string `json:"from,omitempty"`
}

// Include is a textual inclusion directive.
type Include struct {
	Path string     `json:"path"`
	Span token.Span `json:"span"`
}

type tableKey struct {
	key  string
	kind Kind
}

// Table maps declaration keys to declarations for one file. Insertion order
// is preserved. The first declaration of a (key, kind) pair is
// authoritative; later ones are kept as shadowed.
//
// A Table is not modified after the binder returns it and may be read
// concurrently.
type Table struct {
	File    token.FileID
	Dialect token.Dialect

	decls    []Declaration
	index    map[tableKey]int
	shadowed []Declaration
	refs     []Reference
	includes []Include
}

// NewTable returns an empty table for file.
func NewTable(file token.FileID, dialect token.Dialect) *Table {
	return &Table{
		File:    file,
		Dialect: dialect,
		index:   map[tableKey]int{},
	}
}

// Insert adds d. When a declaration with the same key and kind exists, d is
// recorded as shadowed and the existing declaration is returned with
// false.
func (t *Table) Insert(d Declaration) (Declaration, bool) {
	k := tableKey{d.Key, d.Kind}
	if i, ok := t.index[k]; ok {
		t.shadowed = append(t.shadowed, d)
		return t.decls[i], false
	}
	t.index[k] = len(t.decls)
	t.decls = append(t.decls, d)
	return d, true
}

// Lookup finds the authoritative declaration for a folded key.
func (t *Table) Lookup(key string, kind Kind) (Declaration, bool) {
	if t == nil {
		return Declaration{}, false
	}
	i, ok := t.index[tableKey{key, kind}]
	if !ok {
		return Declaration{}, false
	}
	return t.decls[i], true
}

// LookupName folds name for kind and looks it up.
func (t *Table) LookupName(name string, kind Kind) (Declaration, bool) {
	return t.Lookup(Key(kind, name), kind)
}

// Len returns the number of authoritative declarations.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.decls)
}

// Declarations returns the authoritative declarations in insertion order.
func (t *Table) Declarations() []Declaration {
	if t == nil {
		return nil
	}
	return slices.Clone(t.decls)
}

// All is like Declarations but yields without copying.
func (t *Table) All() iter.Seq[Declaration] {
	return func(yield func(Declaration) bool) {
		if t == nil {
			return
		}
		for _, d := range t.decls {
			if !yield(d) {
				return
			}
		}
	}
}

// Shadowed returns the duplicate declarations in insertion order.
func (t *Table) Shadowed() []Declaration {
	if t == nil {
		return nil
	}
	return slices.Clone(t.shadowed)
}

// AddReference records an unresolved name reference.
func (t *Table) AddReference(r Reference) {
	t.refs = append(t.refs, r)
}

// References returns the recorded references in source order.
func (t *Table) References() []Reference {
	if t == nil {
		return nil
	}
	out := slices.Clone(t.refs)
	slices.SortStableFunc(out, func(a, b Reference) int { return a.Span.Start - b.Span.Start })
	return out
}

// AddInclude records an include directive.
func (t *Table) AddInclude(inc Include) {
	t.includes = append(t.includes, inc)
}

// Includes returns the include directives in source order.
func (t *Table) Includes() []Include {
	if t == nil {
		return nil
	}
	return slices.Clone(t.includes)
}

// Members returns the declarations whose container is owner.
func (t *Table) Members(owner string) []Declaration {
	var out []Declaration
	for d := range t.All() {
		if d.Container == owner {
			out = append(out, d)
		}
	}
	return out
}
