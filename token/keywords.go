package token

import (
	"slices"
	"strings"
)

// Reserved keywords per dialect. All dialects treat keywords without regard
// to case; the tables hold the lower-case spelling.
var keywords = map[Dialect]map[string]bool{
	ZScript: set(
		"abstract", "action", "alignof", "break", "case", "class", "clearscope",
		"const", "continue", "default", "deprecated", "do", "else", "enum",
		"extend", "false", "final", "flagdef", "for", "foreach", "if",
		"internal", "latent", "let", "meta", "mixin", "native", "null", "out",
		"override", "play", "private", "property", "protected", "readonly",
		"return", "sizeof", "states", "static", "struct", "switch",
		"transient", "true", "ui", "until", "vararg", "version", "virtual",
		"virtualscope", "while", "is",
	),
	Decorate: set(
		"actor", "const", "enum", "false", "native", "states", "true",
	),
	UMapInfo: set("map"),
	CVarInfo: set(
		"server", "user", "nosave", "noarchive", "cheat", "latch",
		"int", "float", "color", "bool", "string", "true", "false",
	),
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// LookupKeyword reports whether ident is a keyword of dialect d and returns
// its canonical lower-case spelling.
func LookupKeyword(d Dialect, ident string) (string, bool) {
	table := keywords[d]
	if table == nil {
		return "", false
	}
	lower := strings.ToLower(ident)
	if table[lower] {
		return lower, true
	}
	return "", false
}

// Keywords returns the sorted keyword list of dialect d.
func Keywords(d Dialect) []string {
	table := keywords[d]
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
