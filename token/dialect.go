package token

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dialect selects one of the supported domain-specific languages.
type Dialect uint8

const (
	// Unknown is the zero Dialect; parsing it yields an empty tree and a
	// usage diagnostic.
	Unknown Dialect = iota
	// ZScript is GZDoom's object-oriented scripting language.
	ZScript
	// Decorate is the older actor definition language sharing ZScript's
	// state and expression syntax.
	Decorate
	// DeHackEd is the line-oriented patch format, including BEX extensions.
	DeHackEd
	// UMapInfo is the universal map metadata format.
	UMapInfo
	// CVarInfo declares console variables.
	CVarInfo
	// LoadACS lists ACS libraries to load.
	LoadACS
)

var dialectNames = [...]string{
	Unknown:  "unknown",
	ZScript:  "zscript",
	Decorate: "decorate",
	DeHackEd: "dehacked",
	UMapInfo: "umapinfo",
	CVarInfo: "cvarinfo",
	LoadACS:  "loadacs",
}

func (d Dialect) String() string {
	if int(d) < len(dialectNames) {
		return dialectNames[d]
	}
	return fmt.Sprintf("dialect(%d)", uint8(d))
}

// Dialects returns every known dialect in declaration order.
func Dialects() []Dialect {
	return []Dialect{ZScript, Decorate, DeHackEd, UMapInfo, CVarInfo, LoadACS}
}

// ParseDialect returns the dialect with the given (case-insensitive) name.
func ParseDialect(name string) (Dialect, error) {
	for d, n := range dialectNames {
		if d != int(Unknown) && strings.EqualFold(n, name) {
			return Dialect(d), nil
		}
	}
	return Unknown, fmt.Errorf("unknown dialect %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dialect) UnmarshalText(text []byte) error {
	v, err := ParseDialect(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// DefaultExtensions maps lower-cased file extensions, or whole lump names for
// extension-less lumps, to dialects.
var DefaultExtensions = map[string]Dialect{
	".zs":       ZScript,
	".zsc":      ZScript,
	".zc":       ZScript,
	"zscript":   ZScript,
	".dec":      Decorate,
	"decorate":  Decorate,
	".deh":      DeHackEd,
	".bex":      DeHackEd,
	"dehacked":  DeHackEd,
	".umapinfo": UMapInfo,
	"umapinfo":  UMapInfo,
	".cvarinfo": CVarInfo,
	"cvarinfo":  CVarInfo,
	"loadacs":   LoadACS,
}

// DialectForPath guesses the dialect of a file from its name using the
// given extension table, falling back to DefaultExtensions when table is nil.
// Lump names such as "ZSCRIPT.txt" or "decorate.weapons" are recognised by
// their stem.
func DialectForPath(path string, table map[string]Dialect) Dialect {
	if table == nil {
		table = DefaultExtensions
	}
	base := strings.ToLower(filepath.Base(path))
	if d, ok := table[strings.ToLower(filepath.Ext(base))]; ok {
		return d
	}
	if d, ok := table[base]; ok {
		return d
	}
	stem := base
	if i := strings.IndexByte(base, '.'); i > 0 {
		stem = base[:i]
	}
	if d, ok := table[stem]; ok {
		return d
	}
	return Unknown
}
