package workspace

import (
	"slices"
	"strings"

	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

// resolutionDiagnostics checks the includes and references of e against the
// snapshot. Names defined by the engine are never reported, and a chain
// that leaves the workspace stops silently.
func (s *Snapshot) resolutionDiagnostics(e *Entry) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, inc := range e.Includes() {
		if _, ok := s.includeTarget(e.File, inc.Path); !ok {
			out = append(out, diag.Warn(diag.R402, inc.Span, "included file %q is not in the workspace", inc.Path))
		}
	}
	for _, c := range s.IncludeGraph().Cycles() {
		if c.Closing.From == e.File {
			out = append(out, diag.Warn(diag.R403, c.Closing.Span, "include cycle: %s", c))
		}
	}
	for _, ref := range e.Table.References() {
		if d, ok := s.checkReference(e.File, ref); ok {
			out = append(out, d)
		}
	}
	diag.Sort(out)
	return out
}

func (s *Snapshot) checkReference(file token.FileID, ref symbols.Reference) (diag.Diagnostic, bool) {
	switch ref.Role {
	case symbols.RoleParent:
		if s.isBuiltin(ref.Name) {
			return diag.Diagnostic{}, false
		}
		parent, ok := s.resolve(file, ref.Name, ref.Kind)
		if !ok {
			return diag.Warn(diag.R401, ref.Span, "parent %s %q is not defined in the workspace%s", ref.Kind, ref.Name, s.hint(ref)), true
		}
		if s.inherits(parent, ref.From) {
			return diag.Warn(diag.R405, ref.Span, "%q inherits from itself through %q", ref.From, ref.Name), true
		}
	case symbols.RoleGoto:
		if s.labelMissing(file, ref) {
			return diag.Warn(diag.R404, ref.Span, "state label %q is not defined in %q or its ancestors", ref.Name, ref.From), true
		}
	default:
		if ref.Kind.IsType() && s.isBuiltin(ref.Name) {
			return diag.Diagnostic{}, false
		}
		if _, ok := s.resolve(file, ref.Name, ref.Kind); !ok {
			return diag.Warn(diag.R404, ref.Span, "%s %q is not defined in the workspace%s", ref.Kind, ref.Name, s.hint(ref)), true
		}
	}
	return diag.Diagnostic{}, false
}

// hint suggests declared names close to an unresolved reference.
func (s *Snapshot) hint(ref symbols.Reference) string {
	kinds := lookupKinds(ref.Kind)
	var names []string
	for _, id := range s.ids {
		for d := range s.files[id].Table.All() {
			if d.Container == "" && slices.Contains(kinds, d.Kind) {
				names = append(names, d.Name)
			}
		}
	}
	if ref.Kind.IsType() {
		names = append(names, s.builtinNames...)
	}
	return diag.FormatSuggestions(diag.Suggest(ref.Name, names))
}

// inherits reports whether walking the parent chain from d reaches the type
// with the given key.
func (s *Snapshot) inherits(d symbols.Declaration, key string) bool {
	seen := map[string]bool{}
	for {
		if d.Key == key {
			return true
		}
		if seen[d.Key] || d.Parent == "" || s.isBuiltin(d.Parent) {
			return false
		}
		seen[d.Key] = true
		next, ok := s.resolve(d.File, d.Parent, d.Kind)
		if !ok {
			return false
		}
		d = next
	}
}

// labelMissing reports whether a state jump definitely has no target. Jumps
// are looked up along the inheritance chain of the owning type, starting at
// the type named before "::" or at the owner's parent. The answer is false
// whenever the chain leaves the workspace.
func (s *Snapshot) labelMissing(file token.FileID, ref symbols.Reference) bool {
	label := ref.Name
	var start string
	if scope, rest, ok := strings.Cut(label, "::"); ok {
		label = rest
		if strings.EqualFold(scope, "super") {
			owner, ok := s.resolve(file, ref.From, symbols.Class)
			if !ok {
				return false
			}
			start = implicitParent(owner)
		} else {
			start = scope
		}
	} else {
		owner, ok := s.resolve(file, ref.From, symbols.Class)
		if !ok {
			return false
		}
		start = implicitParent(owner)
	}

	labelKey := symbols.Key(symbols.StateLabel, label)
	seen := map[string]bool{}
	from := file
	for cur := start; cur != ""; {
		key := strings.ToLower(cur)
		if seen[key] || s.isBuiltin(cur) {
			return false
		}
		seen[key] = true
		d, ok := s.resolve(from, cur, symbols.Class)
		if !ok {
			return false
		}
		table := s.files[d.File].Table
		if _, ok := table.Lookup(symbols.Qualify(d.Key, symbols.StateLabel, labelKey), symbols.StateLabel); ok {
			return false
		}
		from = d.File
		cur = implicitParent(d)
	}
	return true
}

// implicitParent returns the parent of a type. DECORATE actors without an
// explicit parent inherit from Actor.
func implicitParent(d symbols.Declaration) string {
	if d.Parent == "" && d.Kind == symbols.Actor {
		return "Actor"
	}
	return d.Parent
}
