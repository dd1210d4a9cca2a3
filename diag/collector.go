package diag

import (
	"cmp"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// Collector accumulates diagnostics from the lex, parse, bind and resolve
// stages of one file. The zero value is ready to use. A Collector is not safe
// for concurrent use.
type Collector struct {
	diags []Diagnostic
}

// Add appends diagnostics.
func (c *Collector) Add(diags ...Diagnostic) {
	c.diags = append(c.diags, diags...)
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	return len(c.diags)
}

// Sorted returns a copy of the diagnostics ordered by span.
func (c *Collector) Sorted() []Diagnostic {
	out := slices.Clone(c.diags)
	Sort(out)
	return out
}

// HasErrors reports whether any error-severity diagnostic was collected.
func (c *Collector) HasErrors() bool {
	return Count(c.diags, Error) > 0
}

// Err returns the error-severity diagnostics as a single error, or nil.
func (c *Collector) Err() error {
	var result *multierror.Error
	for _, d := range c.Sorted() {
		if d.Severity == Error {
			result = multierror.Append(result, d)
		}
	}
	return result.ErrorOrNil()
}

// Compare orders diagnostics by span start, span end, descending severity
// and finally stage, so that output is deterministic.
func Compare(a, b Diagnostic) int {
	if c := cmp.Compare(a.Span.File, b.Span.File); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Span.Start, b.Span.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Span.End, b.Span.End); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Severity.Rank(), a.Severity.Rank()); c != 0 {
		return c
	}
	return cmp.Compare(a.Stage, b.Stage)
}

// Sort orders diagnostics in place using Compare. The sort is stable so
// diagnostics at the same location keep their production order.
func Sort(diags []Diagnostic) {
	slices.SortStableFunc(diags, Compare)
}

// Merge concatenates the given groups and sorts the result.
func Merge(groups ...[]Diagnostic) []Diagnostic {
	var c Collector
	for _, g := range groups {
		c.Add(g...)
	}
	return c.Sorted()
}

// Count returns the number of diagnostics with the given severity.
func Count(diags []Diagnostic, sev Severity) int {
	n := 0
	for _, d := range diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Truncate returns at most n diagnostics, preferring higher severities so
// that errors are never hidden behind warnings. The result is ordered by
// span. A negative n returns everything.
func Truncate(diags []Diagnostic, n int) []Diagnostic {
	if n < 0 || len(diags) <= n {
		out := slices.Clone(diags)
		Sort(out)
		return out
	}
	ranked := slices.Clone(diags)
	slices.SortStableFunc(ranked, func(a, b Diagnostic) int {
		if c := cmp.Compare(b.Severity.Rank(), a.Severity.Rank()); c != 0 {
			return c
		}
		return Compare(a, b)
	})
	out := ranked[:n]
	Sort(out)
	return out
}

// Filter returns the diagnostics at or above the given severity.
func Filter(diags []Diagnostic, floor Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity.Rank() >= floor.Rank() {
			out = append(out, d)
		}
	}
	return out
}
