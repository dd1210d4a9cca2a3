package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, text := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
	}
	return root
}

func TestTokens(t *testing.T) {
	out, _, err := run(t, "", "tokens", "-d", "zscript", "-c", "class A {} // done")
	require.NoError(t, err)
	assert.Contains(t, out, "KEYWORD")
	assert.Contains(t, out, `"class"`)
	assert.NotContains(t, out, "COMMENT")

	out, _, err = run(t, "", "tokens", "-d", "zscript", "--trivia", "-o", "json", "-c", "class A {} // done")
	require.NoError(t, err)
	var views []tokenView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.NotEmpty(t, views)
	assert.Equal(t, tokenView{Type: "KEYWORD", Literal: "class", Line: 1, Column: 1, Start: 0, End: 5}, views[0])
	var comments int
	for _, v := range views {
		if v.Type == "COMMENT" {
			comments++
		}
	}
	assert.Equal(t, 1, comments)
}

func TestInputErrors(t *testing.T) {
	_, _, err := run(t, "", "tokens")
	assert.ErrorContains(t, err, "no input provided")

	_, _, err = run(t, "", "tokens", "-c", "class A {}")
	assert.ErrorContains(t, err, "--dialect")

	root := writeFiles(t, map[string]string{"a.zs": "class A {}"})
	_, _, err = run(t, "", "tokens", "-c", "x", filepath.Join(root, "a.zs"))
	assert.ErrorContains(t, err, "multiple input sources")

	_, _, err = run(t, "", "tokens", "-d", "cobol", "-c", "x")
	assert.Error(t, err)
}

func TestParseFromFileAndStdin(t *testing.T) {
	root := writeFiles(t, map[string]string{"DECORATE.txt": "actor Imp {}\n"})
	out, _, err := run(t, "", "parse", "-o", "json", filepath.Join(root, "DECORATE.txt"))
	require.NoError(t, err)

	var res struct {
		Dialect     string            `json:"dialect"`
		Tree        treeNode          `json:"tree"`
		Diagnostics []json.RawMessage `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "decorate", res.Dialect)
	assert.Equal(t, "File", res.Tree.Kind)
	assert.NotEmpty(t, res.Tree.Children)
	assert.Empty(t, res.Diagnostics)

	out, _, err = run(t, "class A {}\n", "parse", "--stdin", "-d", "zscript", "-o", "yaml")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "zscript", doc["dialect"])
	assert.Equal(t, "<stdin>", doc["file"])

	out, _, err = run(t, "", "parse", "-d", "zscript", "-c", "class A {}")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "File 0..10\n"))
	assert.Contains(t, out, "Ident")
}

func TestLintExitCode(t *testing.T) {
	out, _, err := run(t, "", "lint", "-d", "zscript", "-c", "class A {")
	var exit *exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.code)
	assert.Contains(t, out, "error[")
	assert.Contains(t, out, "1 file(s) checked, 0 clean")

	out, _, err = run(t, "", "lint", "-d", "zscript", "-c", "class A {}")
	require.NoError(t, err)
	assert.Equal(t, "1 file(s) checked, 1 clean\n", out)
}

func TestLintDirectory(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.zs":          "#include \"missing.zs\"\nclass A : Ghost {}\n",
		"lib/b.zs":      "class B {}\n",
		"notes/old.txt": "ignored",
	})
	out, _, err := run(t, "", "lint", root)
	require.NoError(t, err)
	assert.Contains(t, out, "R402")
	assert.Contains(t, out, "R401")
	assert.Contains(t, out, "2 file(s) checked, 1 clean")

	out, _, err = run(t, "", "lint", "--severity", "error", "-o", "json", root)
	require.NoError(t, err)
	var reports []lintReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Empty(t, reports[0].Diagnostics)

	_, _, err = run(t, "", "lint", "--severity", "loud", root)
	assert.Error(t, err)
}

func TestSymbols(t *testing.T) {
	src := "class Imp : Actor { int hp; void Tick() {} }"
	out, _, err := run(t, "", "symbols", "-d", "zscript", "--kind", "field", "-c", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imp.hp")
	assert.NotContains(t, out, "imp.tick")

	out, _, err = run(t, "", "symbols", "-d", "zscript", "--lsp", "-c", src)
	require.NoError(t, err)
	var res lspOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "untitled:<code>", string(res.URI))
	require.Len(t, res.Symbols, 1)
	assert.Equal(t, "Imp", res.Symbols[0].Name)
	assert.Len(t, res.Symbols[0].Children, 2)
	assert.Empty(t, res.Diagnostics)

	_, _, err = run(t, "", "symbols", "-d", "zscript", "--kind", "gizmo", "-c", src)
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.zs": "#include \"b.zs\"\nclass A {}\n",
		"b.zs": "#include \"a.zs\"\nclass B : A {}\n",
	})
	out, _, err := run(t, "", "index", root)
	require.NoError(t, err)
	assert.Contains(t, out, "2 file(s)")
	assert.Contains(t, out, "a.zs -> b.zs")
	assert.Contains(t, out, "b.zs -> a.zs")
	assert.Contains(t, out, "cycle: ")

	out, _, err = run(t, "", "index", "--resolve", "B", root)
	require.NoError(t, err)
	assert.Equal(t, "b.zs:2:7: class B\n", out)

	_, _, err = run(t, "", "index", "--resolve", "Nope", root)
	var exit *exitError
	assert.ErrorAs(t, err, &exit)

	db := filepath.Join(t.TempDir(), "index.db")
	dump := filepath.Join(t.TempDir(), "index.json.zst")
	out, _, err = run(t, "", "index", "-o", "json", "--export", db, "--dump", dump, root)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 2 file(s), 2 declaration(s)")
	assert.FileExists(t, db)
	assert.FileExists(t, dump)
}

func TestDialects(t *testing.T) {
	out, _, err := run(t, "", "dialects")
	require.NoError(t, err)
	assert.Contains(t, out, "zscript")
	assert.Contains(t, out, ".zs")
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extensions:\n  .zx: zscript\n"), 0o644))
	root := writeFiles(t, map[string]string{"a.zx": "class A {}\n"})

	out, _, err := run(t, "", "--config", path, "symbols", filepath.Join(root, "a.zx"))
	require.NoError(t, err)
	assert.Contains(t, out, "class")

	_, _, err = run(t, "", "--log-format", "xml", "dialects")
	assert.Error(t, err)
}
