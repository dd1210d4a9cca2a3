package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
	"github.com/doomfront/doomfront/workspace"
)

func testIndex(t *testing.T) *workspace.Index {
	t.Helper()
	idx := workspace.New()
	t.Cleanup(func() { _ = idx.Close() })
	files := []struct {
		file token.FileID
		text string
	}{
		{"base.zs", "class Base : Actor {\n\tint hp;\n}\n"},
		{"imp.zs", "#include \"base.zs\"\n#include \"gone.zs\"\nclass Imp : Base {}\n"},
	}
	for _, f := range files {
		_, err := idx.Open(f.file, token.ZScript, f.text, 1)
		require.NoError(t, err)
	}
	return idx
}

func TestSQLiteExport(t *testing.T) {
	idx := testIndex(t)
	path := filepath.Join(t.TempDir(), "symbols.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Write(t.Context(), idx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Files: 2, Declarations: 3, References: 2, Includes: 2, Diagnostics: 1}, stats)

	rows, err := db.Lookup(t.Context(), "IMP")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{File: "imp.zs", Name: "Imp", Kind: symbols.Class, Parent: "Base", Line: 3, Column: 7}, rows[0])

	// A second export replaces the first.
	_, err = idx.Change("imp.zs", "class Imp : Base {}\nclass Imp2 {}\n", 2)
	require.NoError(t, err)
	_, err = db.Write(t.Context(), idx)
	require.NoError(t, err)
	n, err := db.Count(t.Context(), "declarations")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	n, err = db.Count(t.Context(), "diagnostics")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = db.Count(t.Context(), "meta; DROP TABLE files")
	assert.Error(t, err)
}

func TestDumpRoundTrip(t *testing.T) {
	idx := testIndex(t)
	var buf bytes.Buffer
	require.NoError(t, WriteDump(&buf, idx))

	dump, err := ReadDump(&buf)
	require.NoError(t, err)
	assert.Equal(t, idx.ID().String(), dump.Session)
	require.Len(t, dump.Files, 2)

	imp := dump.Files[1]
	assert.Equal(t, token.FileID("imp.zs"), imp.File)
	assert.Equal(t, token.ZScript, imp.Dialect)
	require.Len(t, imp.Declarations, 1)
	assert.Equal(t, symbols.Class, imp.Declarations[0].Kind)
	require.Len(t, imp.Diagnostics, 1)
	assert.Equal(t, diag.R402, imp.Diagnostics[0].Code)
	assert.Equal(t, diag.Warning, imp.Diagnostics[0].Severity)
	assert.Equal(t, diag.StageResolve, imp.Diagnostics[0].Stage)

	require.Len(t, dump.Graph.Edges, 1)
	assert.Equal(t, token.FileID("base.zs"), dump.Graph.Edges[0].To)
	require.Len(t, dump.Graph.Unresolved, 1)
}

func TestReadDumpRejectsGarbage(t *testing.T) {
	_, err := ReadDump(bytes.NewReader([]byte("not zstd")))
	assert.Error(t, err)
}
