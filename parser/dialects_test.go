package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
)

// exprOf parses src as the single statement of a ZScript method body.
func exprOf(t *testing.T, src string) ast.Expr {
	t.Helper()
	f, diags := parse(t, token.ZScript, "class T { void F() { "+src+"; } }")
	require.Empty(t, diags, src)
	m := f.Decls[0].(*ast.Class).Members[0].(*ast.Method)
	require.Len(t, m.Body.Stmts, 1, src)
	stmt, ok := m.Body.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "%s: got %T", src, m.Body.Stmts[0])
	return stmt.X
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b * c", "(a + (b * c))"},
		{"a = b = c", "(a = (b = c))"},
		{"a += b ? c : d", "(a += (b ? c : d))"},
		{"a || b && c", "(a || (b && c))"},
		{"a == b | c", "(a == (b | c))"},
		{"a & b == c", "((a & b) == c)"},
		{"a < b | c", "(a < (b | c))"},
		{"a >> 1 + 2", "(a >> (1 + 2))"},
		{"a >>> b", "(a >>> b)"},
		{"a >>= 2", "(a >>= 2)"},
		{"a .. b + c", "(a .. (b + c))"},
		{"2 ** 3 ** 2", "((2 ** 3) ** 2)"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"-a * b", "((-a) * b)"},
		{"!a && b", "((!a) && b)"},
		{"x is 'Actor'", "(x is 'Actor')"},
		{"a cross b dot c", "((a cross b) dot c)"},
		{"f(1, flags: 2)", "f(1, flags: 2)"},
		{"a.b[1].c", "a.b[1].c"},
		{"i++", "(i++)"},
		{"(1, 2, 3)", "(1, 2, 3)"},
		{"(class<Actor>)(x)", "(class<Actor>)(x)"},
		{"sizeof(a)", "sizeof(a)"},
		{`"a" "b"`, `"ab"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, exprOf(t, tt.input).String())
		})
	}
}

const zscriptSample = `version "4.10"
#include "actors/base.zs"

class Imp : DoomImp replaces DoomImp
{
	int counter, ammo[4];
	const SPEED = 8;
	enum EState { ST_IDLE, ST_RUN = 2, }
	property Fuel: fuel;
	flagdef Burning: flags, 1;
	Default
	{
		Health 60;
		+FLOAT
		-SOLID;
	}
	override void Tick()
	{
		super.Tick();
		if (counter > 0) counter--;
		else counter = SPEED;
		for (int i = 0; i < 4; i++) ammo[i] = 0;
	}
	int, double GetTwo(int a, out double b = 1.5) const { return a, b; }
	States
	{
	Spawn:
		TROO AB 10 A_Look;
		Loop;
	See:
		TROO AABBCCDD 3 Fast A_Chase();
		Goto Super::See;
	Death:
		TROO I 8 Bright { A_Scream(); }
		TROO J 8 Offset(1, 2);
		Stop;
	}
}
`

func TestZScriptClass(t *testing.T) {
	f, diags := parse(t, token.ZScript, zscriptSample)
	require.Empty(t, diags)
	require.Len(t, f.Decls, 3)

	assert.Equal(t, "4.10", f.Decls[0].(*ast.Version).Value.Value)
	assert.Equal(t, "actors/base.zs", f.Decls[1].(*ast.Include).Path.Value)

	cls := f.Decls[2].(*ast.Class)
	assert.Equal(t, "Imp", cls.Name.Name)
	assert.Equal(t, "DoomImp", cls.Parent.Name)
	assert.Equal(t, "DoomImp", cls.Replaces.Name)

	kinds := make([]ast.Kind, len(cls.Members))
	for i, m := range cls.Members {
		kinds[i] = m.Kind()
	}
	assert.Equal(t, []ast.Kind{
		ast.KindField, ast.KindConst, ast.KindEnum, ast.KindPropertyDef, ast.KindFlagDef,
		ast.KindDefaults, ast.KindMethod, ast.KindMethod, ast.KindStates,
	}, kinds)

	field := cls.Members[0].(*ast.Field)
	require.Len(t, field.Vars, 2)
	assert.Equal(t, "ammo", field.Vars[1].Name.Name)
	require.Len(t, field.Vars[1].Size, 1)

	enum := cls.Members[2].(*ast.Enum)
	require.Len(t, enum.Members, 2)
	assert.Equal(t, "2", enum.Members[1].Value.String())

	defaults := cls.Members[5].(*ast.Defaults)
	require.Len(t, defaults.Items, 3)
	assert.False(t, defaults.Items[2].(*ast.Flag).On)

	tick := cls.Members[6].(*ast.Method)
	assert.True(t, ast.HasModifier(tick.Modifiers, "override"))
	require.Len(t, tick.Body.Stmts, 3)
	assert.IsType(t, &ast.If{}, tick.Body.Stmts[1])
	assert.IsType(t, &ast.For{}, tick.Body.Stmts[2])

	two := cls.Members[7].(*ast.Method)
	assert.Len(t, two.Returns, 2)
	assert.True(t, two.Const)
	require.Len(t, two.Params, 2)
	assert.True(t, ast.HasModifier(two.Params[1].Modifiers, "out"))
	assert.Equal(t, "1.5", two.Params[1].Default.String())

	states := cls.Members[8].(*ast.States)
	require.Len(t, states.Items, 10)
	assert.Equal(t, "Spawn", states.Items[0].(*ast.StateLabel).Name.Name)
	frame := states.Items[1].(*ast.StateFrame)
	assert.Equal(t, "TROO", frame.Sprite.Name)
	assert.Equal(t, "AB", frame.Frames.Name)
	assert.Equal(t, "10", frame.Duration.String())
	assert.Equal(t, "loop", states.Items[2].(*ast.StateFlow).Op)
	chase := states.Items[4].(*ast.StateFrame)
	assert.True(t, ast.HasModifier(chase.Modifiers, "fast"))
	assert.IsType(t, &ast.Call{}, chase.Action)
	assert.Equal(t, "Super::See", states.Items[5].(*ast.StateFlow).Target.Name)
	assert.IsType(t, &ast.Block{}, states.Items[7].(*ast.StateFrame).Action)
	offset := states.Items[8].(*ast.StateFrame)
	require.Len(t, offset.Modifiers, 1)
	assert.Len(t, offset.Modifiers[0].Args, 2)
	assert.Nil(t, offset.Action)
}

func TestZScriptForms(t *testing.T) {
	src := `class Base : Actor;
int x;
extend class Base { void G() {} }
struct Pt { double x, y; }
const Top = 1;
enum E { A, B }
mixin class M { int m; }`
	f, diags := parse(t, token.ZScript, src)
	require.Empty(t, diags)
	require.Len(t, f.Decls, 6)

	base := f.Decls[0].(*ast.Class)
	assert.True(t, base.Open)
	require.Len(t, base.Members, 1)

	ext := f.Decls[1].(*ast.Class)
	assert.True(t, ext.Extend)
	assert.IsType(t, &ast.Struct{}, f.Decls[2])
	assert.IsType(t, &ast.Const{}, f.Decls[3])
	assert.Equal(t, "E", f.Decls[4].(*ast.Enum).Name.Name)
	assert.True(t, f.Decls[5].(*ast.Class).Mixin)
}

func TestZScriptStatements(t *testing.T) {
	src := `class T {
	void F() {
		let x = 1;
		do { x++; } until (x > 3);
		while (true) break;
		foreach (a : list) continue;
		switch (x) { case 1: return; default: x = 2; }
		[a, b] = Pair();
		Array<int> arr;
		readonly<Actor> r = null;
	}
}`
	f, diags := parse(t, token.ZScript, src)
	require.Empty(t, diags)
	body := f.Decls[0].(*ast.Class).Members[0].(*ast.Method).Body
	require.Len(t, body.Stmts, 8)
	assert.IsType(t, &ast.Let{}, body.Stmts[0])
	assert.True(t, body.Stmts[1].(*ast.DoWhile).Until)
	assert.IsType(t, &ast.While{}, body.Stmts[2])
	assert.IsType(t, &ast.ForEach{}, body.Stmts[3])
	sw := body.Stmts[4].(*ast.Switch)
	require.Len(t, sw.Body.Stmts, 4)
	assert.Nil(t, sw.Body.Stmts[2].(*ast.Case).Value)
	ma := body.Stmts[5].(*ast.MultiAssign)
	assert.Len(t, ma.Targets, 2)
	arr := body.Stmts[6].(*ast.LocalVar)
	assert.Equal(t, "Array<int>", arr.Type.String())
	assert.IsType(t, &ast.LocalVar{}, body.Stmts[7])
}

const decorateSample = `#include "actors/monsters.txt"
const int MAXHP = 100;

actor Zombie : ZombieMan replaces ZombieMan 3004
{
	Health MAXHP
	Speed 8
	Radius 20
	+SHOOTABLE +COUNTKILL
	Obituary "%o was zombified."
	DropItem "Clip", 255, 1
	Monster
	var int user_x;
	States
	{
	Spawn:
		POSS AB 10 A_Look
		Loop
	See:
		POSS AABBCCDD 4 A_Chase
		Goto Spawn+1
	Death:
		POSS H 5 A_Scream
		Stop
	}
}

damagetype Fire { Factor 0.5 }

actor Marker 9001 { }
`

func TestDecorateActor(t *testing.T) {
	f, diags := parse(t, token.Decorate, decorateSample)
	require.Equal(t, []diag.Code{diag.P201}, codes(diags))
	assert.Equal(t, strings.Index(decorateSample, "damagetype"), diags[0].Span.Start)

	require.Len(t, f.Decls, 5)
	assert.IsType(t, &ast.Include{}, f.Decls[0])
	assert.Equal(t, "int", f.Decls[1].(*ast.Const).Type.String())
	assert.True(t, ast.IsError(f.Decls[3]))
	assert.Equal(t, int64(9001), f.Decls[4].(*ast.Actor).EdNum.Value)

	actor := f.Decls[2].(*ast.Actor)
	assert.Equal(t, "Zombie", actor.Name.Name)
	assert.Equal(t, "ZombieMan", actor.Parent.Name)
	assert.Equal(t, "ZombieMan", actor.Replaces.Name)
	assert.Equal(t, int64(3004), actor.EdNum.Value)

	kinds := make([]ast.Kind, len(actor.Members))
	for i, m := range actor.Members {
		kinds[i] = m.Kind()
	}
	assert.Equal(t, []ast.Kind{
		ast.KindProperty, ast.KindProperty, ast.KindProperty, ast.KindFlag, ast.KindFlag,
		ast.KindProperty, ast.KindProperty, ast.KindProperty, ast.KindField, ast.KindStates,
	}, kinds)
	assert.Len(t, actor.Members[6].(*ast.Property).Values, 3)
	assert.Empty(t, actor.Members[7].(*ast.Property).Values)

	states := actor.Members[9].(*ast.States)
	require.Len(t, states.Items, 9)
	gotoSpawn := states.Items[5].(*ast.StateFlow)
	assert.Equal(t, "Spawn", gotoSpawn.Target.Name)
	assert.Equal(t, "1", gotoSpawn.Offset.String())
	assert.Equal(t, "stop", states.Items[8].(*ast.StateFlow).Op)
}

func TestDecorateLineBoundValues(t *testing.T) {
	src := "actor A\n{\n\tSpeed 8\n\t-FLOAT\n\tHeight 56\n}\n"
	f, diags := parse(t, token.Decorate, src)
	require.Empty(t, diags)
	actor := f.Decls[0].(*ast.Actor)
	require.Len(t, actor.Members, 3)
	assert.Equal(t, "8", actor.Members[0].(*ast.Property).Values[0].String())
	assert.False(t, actor.Members[1].(*ast.Flag).On)
}

const dehackedSample = `Patch File for DeHackEd v3.0
Doom version = 21
Thing
Hit points = 50
Thing 2 (Trooper)
Speed = 8
Bits = SOLID+SHOOTABLE
Frame 200
Sprite subnumber = 32769
`

func TestDeHackEdMissingIndex(t *testing.T) {
	f, diags := parse(t, token.DeHackEd, dehackedSample)
	require.Equal(t, []diag.Code{diag.P202}, codes(diags))
	thingEnd := strings.Index(dehackedSample, "Thing\n") + len("Thing")
	assert.Equal(t, token.NewSpan("test", thingEnd, thingEnd), diags[0].Span)

	require.Len(t, f.Decls, 5)
	assert.IsType(t, &ast.PatchLine{}, f.Decls[0])
	assert.Equal(t, "Doom version", f.Decls[1].(*ast.PatchField).Key.Name)

	first := f.Decls[2].(*ast.PatchEntry)
	bad, ok := first.Index.(*ast.Bad)
	require.True(t, ok)
	assert.True(t, bad.Missing)
	require.Len(t, first.Fields, 1)
	assert.Equal(t, "50", first.Fields[0].(*ast.PatchField).Value.String())

	second := f.Decls[3].(*ast.PatchEntry)
	n, ok := second.Number()
	require.True(t, ok)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "Trooper", second.Label.Name)
	require.Len(t, second.Fields, 2)
	assert.Equal(t, "SOLID+SHOOTABLE", second.Fields[1].(*ast.PatchField).Value.String())

	frame := f.Decls[4].(*ast.PatchEntry)
	require.Len(t, frame.Fields, 1)
	assert.Equal(t, "Sprite subnumber", frame.Fields[0].(*ast.PatchField).Key.Name)
}

func TestDeHackEdText(t *testing.T) {
	f, diags := parse(t, token.DeHackEd, "Text 5 3\nHELLOBYE\nThing 1\n")
	require.Empty(t, diags)
	require.Len(t, f.Decls, 2)
	text := f.Decls[0].(*ast.PatchText)
	assert.Equal(t, "HELLO", text.Old.Value)
	assert.Equal(t, "BYE", text.New.Value)
	assert.IsType(t, &ast.PatchEntry{}, f.Decls[1])

	_, diags = parse(t, token.DeHackEd, "Text 50 3\nHELLO\n")
	assert.Equal(t, []diag.Code{diag.P206}, codes(diags))
}

func TestBEXSections(t *testing.T) {
	src := `[STRINGS]
GOTREDSKUL = You got the red skull \
card!
[PARS]
par 1 1 30
[CODEPTR]
FRAME 200 = A_Look
include other.deh
`
	f, diags := parse(t, token.DeHackEd, src)
	require.Empty(t, diags)
	require.Len(t, f.Decls, 4)

	strs := f.Decls[0].(*ast.PatchSection)
	assert.Equal(t, "STRINGS", strs.Name.Name)
	require.Len(t, strs.Items, 1)
	skull := strs.Items[0].(*ast.PatchField)
	assert.Equal(t, "GOTREDSKUL", skull.Key.Name)
	assert.Equal(t, "You got the red skull card!", skull.Value.(*ast.String).Value)

	pars := f.Decls[1].(*ast.PatchSection)
	require.Len(t, pars.Items, 1)
	assert.Len(t, pars.Items[0].(*ast.PatchLine).Words, 4)

	ptr := f.Decls[2].(*ast.PatchSection).Items[0].(*ast.PatchField)
	assert.Equal(t, "FRAME 200", ptr.Key.Name)
	assert.Equal(t, "A_Look", ptr.Value.String())

	assert.Equal(t, "other.deh", f.Decls[3].(*ast.Include).Path.Value)
}

func TestUMapInfo(t *testing.T) {
	src := `map MAP01
{
	levelname = "Entryway"
	next = "MAP02"
	bossaction = Fatso, 666, 0
	partime = -30
	episode = clear
}
`
	f, diags := parse(t, token.UMapInfo, src)
	require.Empty(t, diags)
	require.Len(t, f.Decls, 1)
	m := f.Decls[0].(*ast.MapBlock)
	assert.Equal(t, "MAP01", m.Name.Name)
	require.Len(t, m.Props, 5)
	assert.Len(t, m.Props[2].(*ast.MapProperty).Values, 3)
	assert.IsType(t, &ast.Prefix{}, m.Props[3].(*ast.MapProperty).Values[0])
	assert.Equal(t, "clear", m.Props[4].(*ast.MapProperty).Values[0].String())
}

func TestUMapInfoRecovery(t *testing.T) {
	src := `map MAP01 {
	levelname "Entryway"
	next = "MAP02"
	skytexture = "SKY1"
}
map MAP02 { levelname = "Underhalls" }
`
	f, diags := parse(t, token.UMapInfo, src)
	require.Len(t, diags, 1)
	require.Len(t, f.Decls, 2)
	var props int
	for _, p := range f.Decls[0].(*ast.MapBlock).Props {
		if _, ok := p.(*ast.MapProperty); ok {
			props++
		}
	}
	assert.Equal(t, 3, props)
}

func TestCVarInfo(t *testing.T) {
	src := `

server int delusive_bunker = 42;

USER
latch BOOL MEAT_GRINDER = false;

nOsAvE 	cheat color blueroom =
"F5 3a 95";

// a valid single-line comment

nosave server
noarchive 	float
fullConfession = 0.369;

/* ***
a valid block comment //
*/

/**/
/***/

server user nosave cheat noarchive latch server bool ch3mic4l_br3w;

user
	nosave
string
KatanaZERO
=
"LudoWic";
`
	f, diags := parse(t, token.CVarInfo, src)
	require.Empty(t, diags)
	require.Len(t, f.Decls, 6)
	color := f.Decls[2].(*ast.CVar)
	assert.Equal(t, "blueroom", color.Name.Name)
	assert.Equal(t, "F5 3a 95", color.Value.(*ast.String).Value)
	assert.Len(t, f.Decls[4].(*ast.CVar).Flags, 7)
	assert.Nil(t, f.Decls[4].(*ast.CVar).Value)
}

func TestCVarInfoTypeMismatch(t *testing.T) {
	tests := []string{
		`int a = "x";`,
		`bool b = 1;`,
		`color c = "12 34";`,
		`string s = 2.5;`,
	}
	for _, src := range tests {
		_, diags := parse(t, token.CVarInfo, src)
		assert.Equal(t, []diag.Code{diag.P206}, codes(diags), src)
	}
	_, diags := parse(t, token.CVarInfo, `float f = -1; int i = -2; color c = "abcdef";`)
	assert.Empty(t, diags)
}

func TestValidColor(t *testing.T) {
	assert.True(t, validColor("F5 3a 95"))
	assert.True(t, validColor("f53a95"))
	assert.False(t, validColor("F 53a95"))
	assert.False(t, validColor("GG 00 00"))
	assert.False(t, validColor("00 00"))
}

func TestLoadACS(t *testing.T) {
	f, diags := parse(t, token.LoadACS, "monsters // comment\nweapons\n  items\n")
	require.Empty(t, diags)
	require.Len(t, f.Decls, 3)
	assert.Equal(t, "items", f.Decls[2].(*ast.Library).Name.Name)
}
