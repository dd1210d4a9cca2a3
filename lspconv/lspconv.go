// Package lspconv converts doomfront values into Language Server Protocol
// types. It performs no transport; a server built on top sends the results.
//
// Spans are byte offsets, while protocol positions count UTF-16 code units
// per line, so every conversion goes through a Converter built from the
// file's text.
package lspconv

import (
	"net/url"
	"path/filepath"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"

	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
	"github.com/doomfront/doomfront/workspace"
)

// Source is reported as the origin of every diagnostic.
const Source = "doomfront"

// URI returns the file URI of a path.
func URI(path string) protocol.DocumentURI {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return protocol.DocumentURI(u.String())
}

// Converter maps offsets of one file to protocol positions.
type Converter struct {
	file  token.FileID
	uri   protocol.DocumentURI
	src   string
	lines *token.LineIndex
}

// NewConverter returns a converter for the text of file, published under
// uri.
func NewConverter(file token.FileID, uri protocol.DocumentURI, src string) *Converter {
	return &Converter{file: file, uri: uri, src: src, lines: token.NewLineIndex(src)}
}

// ForEntry returns a converter for an indexed file below the workspace root.
func ForEntry(root string, e *workspace.Entry) *Converter {
	return NewConverter(e.File, URI(filepath.Join(root, filepath.FromSlash(string(e.File)))), e.Text)
}

// URI returns the document URI.
func (c *Converter) URI() protocol.DocumentURI {
	return c.uri
}

// Position converts a byte offset.
func (c *Converter) Position(offset int) protocol.Position {
	pos := c.lines.Position(offset)
	return protocol.Position{
		Line:      uint32(pos.Line),
		Character: uint32(utf16Len(c.src[pos.LineStart:pos.Offset])),
	}
}

// Offset converts a protocol position back to a byte offset. Characters
// past the end of the line are clamped to it.
func (c *Converter) Offset(p protocol.Position) int {
	start := c.lines.Offset(int(p.Line), 0)
	line := c.lines.LineText(c.src, int(p.Line))
	units := 0
	for i, r := range line {
		if units >= int(p.Character) {
			return start + i
		}
		units += runeUnits(r)
	}
	return start + len(line)
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

func runeUnits(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// Range converts a span.
func (c *Converter) Range(s token.Span) protocol.Range {
	return protocol.Range{Start: c.Position(s.Start), End: c.Position(s.End)}
}

// Location converts a span into a location in this document.
func (c *Converter) Location(s token.Span) protocol.Location {
	return protocol.Location{URI: c.uri, Range: c.Range(s)}
}

func severity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.Error:
		return protocol.SeverityError
	case diag.Warning:
		return protocol.SeverityWarning
	case diag.Info:
		return protocol.SeverityInformation
	default:
		return protocol.SeverityHint
	}
}

// Diagnostic converts a diagnostic. Related locations in other files are
// dropped.
func (c *Converter) Diagnostic(d diag.Diagnostic) protocol.Diagnostic {
	out := protocol.Diagnostic{
		Range:    c.Range(d.Span),
		Severity: severity(d.Severity),
		Code:     string(d.Code),
		Source:   Source,
		Message:  d.Message,
	}
	for _, r := range d.Related {
		if r.Span.File != c.file {
			continue
		}
		out.RelatedInformation = append(out.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: c.Location(r.Span),
			Message:  r.Message,
		})
	}
	return out
}

// Diagnostics converts a diagnostic list, keeping its order. The result is
// never nil so that clearing a document's diagnostics serialises as [].
func (c *Converter) Diagnostics(diags []diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, c.Diagnostic(d))
	}
	return out
}
