package workspace

import (
	"github.com/cespare/xxhash/v2"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

// Entry is the indexed state of one file. Entries are immutable: a re-parse
// builds a new Entry and swaps it in whole.
type Entry struct {
	File    token.FileID  `json:"file"`
	Dialect token.Dialect `json:"dialect"`

	// Version is the client-supplied document version.
	Version int32 `json:"version"`

	// Hash is the xxhash of Text. It is zero for entries built by Update,
	// which receives no text.
	Hash uint64 `json:"hash"`
	Text string `json:"-"`

	// Seq orders entries by the time their content was last replaced.
	Seq uint64 `json:"seq"`

	Tree        *ast.File         `json:"-"`
	Table       *symbols.Table    `json:"-"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// Includes returns the include directives of the file.
func (e *Entry) Includes() []symbols.Include {
	if e == nil {
		return nil
	}
	return e.Table.Includes()
}

func entryFromResult(res *doomfront.Result, text string, version int32) *Entry {
	return &Entry{
		File:        res.File,
		Dialect:     res.Dialect,
		Version:     version,
		Hash:        hashText(text),
		Text:        text,
		Tree:        res.Tree,
		Table:       res.Table,
		Diagnostics: res.Diagnostics,
	}
}

func hashText(text string) uint64 {
	return xxhash.Sum64String(text)
}
