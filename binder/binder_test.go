package binder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/parser"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

func bind(t *testing.T, dialect token.Dialect, src string) (*symbols.Table, []diag.Diagnostic) {
	t.Helper()
	tree, diags := parser.Parse("test", src, dialect)
	require.Empty(t, diags, "parse errors")
	return Bind(tree)
}

func keys(table *symbols.Table) []string {
	var out []string
	for d := range table.All() {
		out = append(out, d.Kind.String()+" "+d.Key)
	}
	return out
}

func TestDuplicateActors(t *testing.T) {
	src := "actor Imp : DoomImp {}\nactor IMP {}\n"
	table, diags := bind(t, token.Decorate, src)

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, diag.B301, d.Code)
	assert.Equal(t, diag.StageBind, d.Stage)
	second := strings.Index(src, "IMP")
	assert.Equal(t, token.NewSpan("test", second, second+3), d.Span)
	require.Len(t, d.Related, 1)
	assert.Equal(t, token.NewSpan("test", 6, 9), d.Related[0].Span)

	imp, ok := table.LookupName("imp", symbols.Actor)
	require.True(t, ok)
	assert.Equal(t, "Imp", imp.Name)
	assert.Equal(t, "DoomImp", imp.Parent)
	assert.Equal(t, 1, table.Len())
	require.Len(t, table.Shadowed(), 1)
	assert.Equal(t, "IMP", table.Shadowed()[0].Name)
}

func TestDuplicateClasses(t *testing.T) {
	table, diags := bind(t, token.ZScript, "class A {}\nclass B {}\nclass a {}\n")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.B301, diags[0].Code)
	assert.Equal(t, []string{"class a", "class b"}, keys(table))
}

func TestBindIdempotent(t *testing.T) {
	src := `#include "lib.zs"
class Imp : Actor replaces DoomImp {
	int hp, armor;
	enum E { A, B }
	void Tick() {}
	states { Spawn: TROO A 1; Goto See; See: TROO B 1; Goto Super::Spawn; }
}
struct S { int x; }
`
	tree, diags := parser.Parse("test", src, token.ZScript)
	require.Empty(t, diags)
	t1, d1 := Bind(tree)
	t2, d2 := Bind(tree)
	assert.Equal(t, t1, t2)
	assert.Equal(t, d1, d2)
	assert.Equal(t, t1.Declarations(), t2.Declarations())
}

func TestZScriptQualification(t *testing.T) {
	src := `#include "lib.zs"
const TOP = 1;
class Imp : Actor replaces DoomImp {
	int hp, armor;
	const SPEED = 8;
	enum E { A, B }
	property Fuel: hp;
	flagdef Burning: hp, 1;
	mixin Helpers;
	void Tick() {}
	states { Spawn: TROO A 1; Goto See; See: TROO B 1; Goto Missile; Death: TNT1 A 0; Goto Super::Death; }
}
struct S { int x; }
mixin class Helpers { void Help() {} }
extend class Imp { int extra; }
`
	table, diags := bind(t, token.ZScript, src)
	require.Empty(t, diags)
	assert.Equal(t, []string{
		"const top",
		"class imp",
		"field imp.hp",
		"field imp.armor",
		"const imp.speed",
		"enum imp.e",
		"enum-member imp.a",
		"enum-member imp.b",
		"property imp.fuel",
		"flagdef imp.burning",
		"method imp.tick",
		"state-label imp::spawn",
		"state-label imp::see",
		"state-label imp::death",
		"struct s",
		"field s.x",
		"mixin helpers",
		"method helpers.help",
		"field imp.extra",
	}, keys(table))

	imp, ok := table.Lookup("imp", symbols.Class)
	require.True(t, ok)
	assert.Equal(t, "Actor", imp.Parent)
	assert.Equal(t, "DoomImp", imp.Replaces)
	assert.Equal(t, "Imp", imp.Span.Text(src))
	assert.True(t, imp.FullSpan.Covers(imp.Span))

	require.Equal(t, []symbols.Include{{Path: "lib.zs", Span: token.NewSpan("test", 9, 17)}}, table.Includes())

	var refs []string
	for _, r := range table.References() {
		refs = append(refs, r.Role.String()+" "+r.Name)
	}
	assert.Equal(t, []string{
		"parent Actor",
		"replaces DoomImp",
		"mixin Helpers",
		"goto Missile",
		"goto Super::Death",
		"extend Imp",
	}, refs)
}

func TestSelfInheritance(t *testing.T) {
	table, diags := bind(t, token.ZScript, "class Loop : loop {}")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.B302, diags[0].Code)
	assert.Empty(t, table.References())
	assert.Equal(t, 1, table.Len())
}

func TestDeHackEd(t *testing.T) {
	src := `Thing 1 (Zombieman)
Hit points = 20
Hit Points = 30
Frame 200
Thing 1
Speed = 3
[STRINGS]
GOTREDSKUL = red
[CODEPTR]
FRAME 200 = A_Look
include more.bex
`
	table, diags := bind(t, token.DeHackEd, src)
	assert.Equal(t, []string{
		"patch-entry thing:1",
		"patch-entry frame:200",
		"string GOTREDSKUL",
		"codeptr FRAME 200",
	}, keys(table))

	require.Len(t, diags, 2)
	assert.Equal(t, diag.B304, diags[0].Code)
	assert.Equal(t, diag.Warning, diags[0].Severity)
	assert.Equal(t, diag.B301, diags[1].Code)
	assert.Equal(t, diag.Warning, diags[1].Severity)

	entry, ok := table.LookupName("Thing 1", symbols.PatchEntry)
	require.True(t, ok)
	assert.Equal(t, "Thing 1", entry.Span.Text(src))
	assert.Equal(t, []symbols.Include{{Path: "more.bex", Span: token.NewSpan("test", strings.Index(src, "more.bex"), len(src)-1)}}, table.Includes())
}

func TestDeHackEdMissingIndex(t *testing.T) {
	tree, diags := parser.Parse("test", "Thing\nHit points = 1\nThing 2\n", token.DeHackEd)
	require.Len(t, diags, 1)
	table, bdiags := Bind(tree)
	assert.Empty(t, bdiags)
	assert.Equal(t, []string{"patch-entry thing:2"}, keys(table))
}

func TestUMapInfo(t *testing.T) {
	src := `map MAP01 { levelname = "One" next = "MAP02" }
map map02 { next = "MAP03" nextsecret = "map01" levelname = "A" LevelName = "B" }
map MAP01 { }
`
	table, diags := bind(t, token.UMapInfo, src)
	assert.Equal(t, []string{"map MAP01", "map MAP02"}, keys(table))
	codes := []diag.Code{}
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []diag.Code{diag.B304, diag.B301}, codes)

	refs := table.References()
	require.Len(t, refs, 1)
	assert.Equal(t, "MAP03", refs[0].Name)
	assert.Equal(t, symbols.RoleMap, refs[0].Role)
	assert.Equal(t, "MAP02", refs[0].From)
}

func TestCVarInfoAndLoadACS(t *testing.T) {
	table, diags := bind(t, token.CVarInfo, "user int Foo = 1;\nserver bool bar;\nuser float FOO = 2;\n")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.B301, diags[0].Code)
	assert.Equal(t, []string{"cvar foo", "cvar bar"}, keys(table))

	table, diags = bind(t, token.LoadACS, "lib1 LIB2 lib1")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.Warning, diags[0].Severity)
	assert.Equal(t, 2, table.Len())
}

func TestBindPartialTree(t *testing.T) {
	tree, diags := parser.Parse("test", "class A { int x; void F() { x = ; } }\nclass { }\nclass B : A {}", token.ZScript)
	require.NotEmpty(t, diags)
	require.NoError(t, ast.Validate(tree))
	table, _ := Bind(tree)
	_, ok := table.LookupName("B", symbols.Class)
	assert.True(t, ok)
	_, ok = table.Lookup("a.f", symbols.Method)
	assert.True(t, ok)
}

func TestBindNil(t *testing.T) {
	table, diags := Bind(nil)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, diags)
}
