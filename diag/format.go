package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/doomfront/doomfront/token"
)

// Formatter renders diagnostics with source context in a rust-like style:
//
//	error[P201]: unexpected "}" while parsing class body
//	  --> actors.zs:4:2
//	   |
//	 4 | }}
//	   |  ^
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new diagnostic formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorError    = color.New(color.FgHiRed, color.Bold)
	colorWarning  = color.New(color.FgHiYellow, color.Bold)
	colorInfo     = color.New(color.FgHiBlue, color.Bold)
	colorCode     = color.New(color.FgHiBlack)
	colorLocation = color.New(color.FgCyan)
	colorPipe     = color.New(color.FgHiBlack)
	colorNote     = color.New(color.FgHiBlue)
)

func init() {
	// Each Formatter decides for itself; fatih/color's global switch would
	// otherwise strip colors when stdout is not a terminal.
	for _, c := range []*color.Color{colorError, colorWarning, colorInfo, colorCode, colorLocation, colorPipe, colorNote} {
		c.EnableColor()
	}
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

func severityColor(s Severity) *color.Color {
	switch s {
	case Error:
		return colorError
	case Warning:
		return colorWarning
	default:
		return colorInfo
	}
}

// Format renders one diagnostic against the source text it refers to.
func (f *Formatter) Format(d Diagnostic, src string) string {
	var b strings.Builder
	lines := token.NewLineIndex(src)
	start := lines.Position(d.Span.Start)
	end := lines.Position(d.Span.End)

	lineNumWidth := len(fmt.Sprintf("%d", start.LineNumber()))
	if lineNumWidth < 2 {
		lineNumWidth = 2
	}
	padding := strings.Repeat(" ", lineNumWidth)

	// Header: "error[P201]: message"
	b.WriteString(f.paint(severityColor(d.Severity), d.Severity.String()))
	if d.Code != "" {
		b.WriteString(f.paint(colorCode, "["+string(d.Code)+"]"))
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteString("\n")

	// Location arrow: "  --> file.zs:10:5"
	loc := fmt.Sprintf("%d:%d", start.LineNumber(), start.ColumnNumber())
	if d.Span.File != "" {
		loc = string(d.Span.File) + ":" + loc
	}
	b.WriteString(padding)
	b.WriteString(f.paint(colorLocation, "-->"))
	b.WriteString(" ")
	b.WriteString(f.paint(colorLocation, loc))
	b.WriteString("\n")

	// Source line with caret underline
	text := lines.LineText(src, start.Line)
	b.WriteString(padding)
	b.WriteString(f.paint(colorPipe, " |"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%*d", lineNumWidth, start.LineNumber()))
	b.WriteString(f.paint(colorPipe, " | "))
	b.WriteString(text)
	b.WriteString("\n")

	width := 1
	if end.Line == start.Line && end.Column > start.Column {
		width = end.Column - start.Column
	} else if end.Line > start.Line && len(text) > start.Column {
		width = len(text) - start.Column
	}
	b.WriteString(padding)
	b.WriteString(f.paint(colorPipe, " | "))
	b.WriteString(strings.Repeat(" ", start.Column))
	b.WriteString(f.paint(severityColor(d.Severity), strings.Repeat("^", width)))
	b.WriteString("\n")

	for _, rel := range d.Related {
		relPos := lines.Position(rel.Span.Start)
		note := fmt.Sprintf("note: %s (%d:%d)", rel.Message, relPos.LineNumber(), relPos.ColumnNumber())
		if rel.Span.File != "" && rel.Span.File != d.Span.File {
			note = fmt.Sprintf("note: %s (%s)", rel.Message, rel.Span.File)
		}
		b.WriteString(padding)
		b.WriteString(" = ")
		b.WriteString(f.paint(colorNote, note))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatAll renders every diagnostic separated by blank lines, followed by a
// summary line.
func (f *Formatter) FormatAll(diags []Diagnostic, src string) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.Format(d, src))
	}
	errs, warns := Count(diags, Error), Count(diags, Warning)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d error(s), %d warning(s)\n", errs, warns))
	return b.String()
}
