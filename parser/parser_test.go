package parser

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/internal/lexer"
	"github.com/doomfront/doomfront/token"
)

func parse(t *testing.T, dialect token.Dialect, src string, opts ...Option) (*ast.File, []diag.Diagnostic) {
	t.Helper()
	f, diags := Parse("test", src, dialect, opts...)
	require.NotNil(t, f)
	require.NoError(t, ast.Validate(f))
	require.Equal(t, token.NewSpan("test", 0, len(src)), f.Range)
	return f, diags
}

func codes(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestEmptyInput(t *testing.T) {
	for _, d := range token.Dialects() {
		t.Run(d.String(), func(t *testing.T) {
			f, diags := parse(t, d, "")
			assert.Equal(t, 0, f.Range.Start)
			assert.Equal(t, 0, f.Range.End)
			assert.Empty(t, f.Decls)
			assert.Empty(t, diags)
			assert.Equal(t, d, f.Dialect)
		})
	}
}

func TestUnknownDialect(t *testing.T) {
	f, diags := Parse("x", "hello", token.Unknown)
	require.NotNil(t, f)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.P207, diags[0].Code)
	require.Len(t, f.Decls, 1)
	assert.True(t, ast.IsError(f.Decls[0]))
	assert.False(t, Supported(token.Unknown))
	assert.True(t, Supported(token.ZScript))
}

func TestTotality(t *testing.T) {
	inputs := []string{
		"}", "{{{{", "((((", "class", "class A {", "actor {", "\x00\x01\x02",
		"\"unterminated", "Thing\nThing x\n", "map { = }", "states { goto }",
		"int x = ;", "class A { void F() { for ( ) ; } }", "[STRINGS]\nA = b\\",
		"Text 99999999999999 9999999999999\nabc", "server int", "= = =",
		"class A { states { TNT1 A 0 { } } }", "actor A { states { POSS } }",
		"#include", "extend", "struct S { enum { A, , B } }", "/* open",
		"class A { default { +", "map MAP01 { next = }", "color c = ",
	}
	rng := rand.New(rand.NewSource(1))
	alphabet := []byte("{}()[];:,.=+-*/<>!?#\"'\\ \n\tabcXYZ019")
	for i := 0; i < 200; i++ {
		n := rng.Intn(60)
		buf := make([]byte, n)
		for j := range buf {
			buf[j] = alphabet[rng.Intn(len(alphabet))]
		}
		inputs = append(inputs, string(buf))
	}
	for _, d := range token.Dialects() {
		for _, src := range inputs {
			f, diags := Parse("test", src, d)
			require.NotNil(t, f, "%s %q", d, src)
			require.NoError(t, ast.Validate(f), "%s %q", d, src)
			for _, dg := range diags {
				assert.True(t, dg.Span.End <= len(src), "%s %q: %v", d, src, dg)
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	src := "class A : B { int x; void F() { x = 1 +; } }"
	f1, d1 := Parse("test", src, token.ZScript)
	f2, d2 := Parse("test", src, token.ZScript)
	assert.Equal(t, d1, d2)
	var b1, b2 strings.Builder
	require.NoError(t, ast.Dump(&b1, f1))
	require.NoError(t, ast.Dump(&b2, f2))
	assert.Equal(t, b1.String(), b2.String())
}

func TestMaxErrors(t *testing.T) {
	src := "a; b; c; d; e;"
	f, diags := parse(t, token.Decorate, src, WithMaxErrors(2))
	assert.ElementsMatch(t, []diag.Code{diag.P201, diag.P201, diag.P205}, codes(diags))
	require.Len(t, f.Decls, 2)
	tail, ok := f.Decls[1].(*ast.Bad)
	require.True(t, ok)
	assert.Equal(t, 3, tail.Range.Start)
	assert.Equal(t, len(src), tail.Range.End)
}

func TestMaxDepth(t *testing.T) {
	src := "class A { void F() { x = " + strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200) + "; } }"
	f, diags := parse(t, token.ZScript, src, WithMaxDepth(50))
	require.Equal(t, []diag.Code{diag.P204}, codes(diags))
	last := f.Decls[len(f.Decls)-1]
	assert.True(t, ast.IsError(last))
	assert.Equal(t, len(src), last.Span().End)
}

func TestErrorLocality(t *testing.T) {
	src := `class A
{
	int x
	int y;
	void F() { a = ; b = 1; }
}`
	f, diags := parse(t, token.ZScript, src)
	assert.Equal(t, []diag.Code{diag.P202, diag.P201}, codes(diags))
	assert.Equal(t, strings.Index(src, "x")+1, diags[0].Span.Start)

	cls := f.Decls[0].(*ast.Class)
	require.Len(t, cls.Members, 3)
	m := cls.Members[2].(*ast.Method)
	require.Len(t, m.Body.Stmts, 2)
	assert.Equal(t, "(b = 1)", m.Body.Stmts[1].(*ast.ExprStmt).X.String())
}

func TestUnclosedDelimiter(t *testing.T) {
	_, diags := parse(t, token.ZScript, "class A { void F() { x = f(1, 2")
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.P203, diags[0].Code)
}

func TestChoice(t *testing.T) {
	src := "a b ;"
	toks, _ := lexer.Tokenize(src, token.ZScript, "test")
	e := newEngine("test", src, token.ZScript, toks, &config{maxDepth: DefaultMaxDepth})

	got, ok := choice(e,
		func() (string, bool) {
			e.next()
			e.expected("';'", "")
			return "", e.at(token.SEMICOLON)
		},
		func() (string, bool) {
			a := e.next()
			b := e.next()
			return a.Literal + b.Literal, e.at(token.SEMICOLON)
		},
	)
	require.True(t, ok)
	assert.Equal(t, "ab", got)
	assert.Empty(t, e.diags)
	assert.Equal(t, 2, e.pos)

	_, ok = choice(e, func() (int, bool) { e.next(); return 0, false })
	assert.False(t, ok)
	assert.Equal(t, 2, e.pos)
}

func TestMultipleReturnTypes(t *testing.T) {
	f, diags := parse(t, token.ZScript, "class A {\n\tint, double F() { return 1, 2.0; }\n\tint a, b;\n}")
	assert.Empty(t, diags)
	members := f.Decls[0].(*ast.Class).Members
	require.Len(t, members, 2)
	m, ok := members[0].(*ast.Method)
	require.True(t, ok)
	assert.Len(t, m.Returns, 2)
	field, ok := members[1].(*ast.Field)
	require.True(t, ok)
	assert.Len(t, field.Vars, 2)
}

func TestMissingBraceKeepsNextDeclaration(t *testing.T) {
	tests := []struct {
		name    string
		dialect token.Dialect
		src     string
	}{
		{"zscript class", token.ZScript, "class A : Actor {\n\tvoid F() {\n\t\tx = 1;\n\t}\nclass B : Actor { int y; }"},
		{"zscript method", token.ZScript, "class A {\n\tvoid F() {\n\t\tx = 1;\n}\nclass B { int y; }"},
		{"zscript string", token.ZScript, "class A {\n\tvoid F() {\n\t\tx = \"abc;}\n\t}\nclass B {}"},
		{"zscript extend", token.ZScript, "struct S {\n\tint a;\nextend class B {}"},
		{"decorate actor", token.Decorate, "actor A\n{\n\tstates\n\t{\n\tSpawn:\n\t\tTROO A 10\n\t\tloop\n\t}\nactor B { health 3 }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, diags := parse(t, tt.dialect, tt.src)
			assert.Contains(t, codes(diags), diag.P203)
			require.Len(t, f.Decls, 2)
			var name string
			switch d := f.Decls[1].(type) {
			case *ast.Class:
				name = d.Name.Name
			case *ast.Actor:
				name = d.Name.Name
			default:
				t.Fatalf("second declaration is %T", d)
			}
			assert.Equal(t, "B", name)
		})
	}
}

func TestClassTypeInBodyIsNotADeclaration(t *testing.T) {
	f, diags := parse(t, token.ZScript, "class A {\n\tclass<Actor> kind;\n\tvoid F() {}\n}")
	assert.Empty(t, diags)
	require.Len(t, f.Decls, 1)
	assert.Len(t, f.Decls[0].(*ast.Class).Members, 2)
}

func TestLexErrorsIncluded(t *testing.T) {
	_, diags := parse(t, token.ZScript, "const X = \"abc;\n")
	assert.Contains(t, codes(diags), diag.L102)
}
