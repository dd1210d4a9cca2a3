// Package diag defines the diagnostics produced by every stage of the
// pipeline and the collector that merges them.
package diag

import (
	"fmt"

	"github.com/doomfront/doomfront/token"
)

// Severity of a diagnostic. The zero value is Error so that a diagnostic
// built without an explicit severity is never hidden.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

var severityNames = [...]string{
	Error:   "error",
	Warning: "warning",
	Info:    "info",
	Hint:    "hint",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// Rank orders severities for display: higher is more important.
func (s Severity) Rank() int {
	switch s {
	case Error:
		return 3
	case Warning:
		return 2
	case Info:
		return 1
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	for i, n := range severityNames {
		if n == string(text) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", text)
}

// Stage is the pipeline stage that produced a diagnostic.
type Stage uint8

const (
	StageLex Stage = iota
	StageParse
	StageBind
	StageResolve
)

var stageNames = [...]string{
	StageLex:     "lex",
	StageParse:   "parse",
	StageBind:    "bind",
	StageResolve: "resolve",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	for i, n := range stageNames {
		if n == string(text) {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", text)
}

// Kind is the taxonomy class of a diagnostic.
type Kind uint8

const (
	LexError Kind = iota
	SyntaxError
	BindError
	ResolutionWarning
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case SyntaxError:
		return "syntax error"
	case BindError:
		return "bind error"
	case ResolutionWarning:
		return "resolution warning"
	default:
		return "error"
	}
}

// Related points at a secondary location relevant to a diagnostic, such as
// the first declaration of a duplicated name.
type Related struct {
	Span    token.Span `json:"span"`
	Message string     `json:"message"`
}

// Diagnostic is a span-addressed message produced by the lexer, the parser,
// the binder or the workspace index.
type Diagnostic struct {
	Severity Severity   `json:"severity"`
	Stage    Stage      `json:"stage"`
	Code     Code       `json:"code"`
	Span     token.Span `json:"span"`
	Message  string     `json:"message"`
	Related  []Related  `json:"related,omitempty"`
}

// Kind returns the taxonomy class derived from the stage.
func (d Diagnostic) Kind() Kind {
	switch d.Stage {
	case StageLex:
		return LexError
	case StageBind:
		return BindError
	case StageResolve:
		return ResolutionWarning
	default:
		return SyntaxError
	}
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s[%s]: %s", d.Span, d.Severity, d.Code, d.Message)
}

// New returns an error-severity diagnostic whose stage is derived from code.
func New(code Code, span token.Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: Error,
		Stage:    code.Stage(),
		Code:     code,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warn is like New but produces a warning.
func Warn(code Code, span token.Span, format string, args ...any) Diagnostic {
	d := New(code, span, format, args...)
	d.Severity = Warning
	return d
}

// WithRelated returns a copy of d with an additional related location.
func (d Diagnostic) WithRelated(span token.Span, message string) Diagnostic {
	related := make([]Related, len(d.Related), len(d.Related)+1)
	copy(related, d.Related)
	d.Related = append(related, Related{Span: span, Message: message})
	return d
}
