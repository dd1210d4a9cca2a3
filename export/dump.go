package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
	"github.com/doomfront/doomfront/workspace"
)

// Dump is the JSON document written by WriteDump.
type Dump struct {
	Session string           `json:"session"`
	Files   []FileDump       `json:"files"`
	Graph   *workspace.Graph `json:"graph"`
}

// FileDump holds the symbols and diagnostics of one file.
type FileDump struct {
	File         token.FileID          `json:"file"`
	Dialect      token.Dialect         `json:"dialect"`
	Version      int32                 `json:"version"`
	Declarations []symbols.Declaration `json:"declarations"`
	References   []symbols.Reference   `json:"references,omitempty"`
	Includes     []symbols.Include     `json:"includes,omitempty"`
	Diagnostics  []diag.Diagnostic     `json:"diagnostics,omitempty"`
}

// WriteDump writes the current snapshot of idx to w as zstd-compressed JSON.
func WriteDump(w io.Writer, idx *workspace.Index) error {
	snap := idx.Snapshot()
	dump := Dump{Session: idx.ID().String(), Graph: snap.IncludeGraph()}
	for _, file := range snap.Files() {
		e, _ := snap.Entry(file)
		diags, err := snap.Diagnostics(file)
		if err != nil {
			return err
		}
		dump.Files = append(dump.Files, FileDump{
			File:         e.File,
			Dialect:      e.Dialect,
			Version:      e.Version,
			Declarations: e.Table.Declarations(),
			References:   e.Table.References(),
			Includes:     e.Includes(),
			Diagnostics:  diags,
		})
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(dump); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode dump: %w", err)
	}
	return enc.Close()
}

// ReadDump decodes a dump written by WriteDump.
func ReadDump(r io.Reader) (*Dump, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var dump Dump
	if err := json.NewDecoder(dec).Decode(&dump); err != nil {
		return nil, fmt.Errorf("decode dump: %w", err)
	}
	return &dump, nil
}
