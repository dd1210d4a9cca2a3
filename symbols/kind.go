package symbols

import (
	"fmt"
	"strings"
)

// Kind classifies a declaration.
type Kind uint8

const (
	Class Kind = iota
	MixinClass
	Struct
	Enum
	EnumMember
	Const
	Field
	Method
	Property
	FlagDef
	StateLabel
	Actor
	PatchEntry
	PatchString
	CodePointer
	Map
	CVar
	Library
)

var kindNames = [...]string{
	Class:       "class",
	MixinClass:  "mixin",
	Struct:      "struct",
	Enum:        "enum",
	EnumMember:  "enum-member",
	Const:       "const",
	Field:       "field",
	Method:      "method",
	Property:    "property",
	FlagDef:     "flagdef",
	StateLabel:  "state-label",
	Actor:       "actor",
	PatchEntry:  "patch-entry",
	PatchString: "string",
	CodePointer: "codeptr",
	Map:         "map",
	CVar:        "cvar",
	Library:     "library",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind converts a kind name, as printed by String, back to a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown declaration kind %q", name)
}

// Kinds returns every declaration kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// IsType reports whether declarations of kind k can be inherited from.
// ZScript classes and DECORATE actors share one namespace.
func (k Kind) IsType() bool {
	return k == Class || k == Actor
}

// Key folds a declaration name into its lookup key. Script names are case
// insensitive and fold to lower case. Map lumps and BEX mnemonics are
// conventionally upper case and fold to upper case. Patch entries fold
// "Thing 1" to "thing:1".
func Key(kind Kind, name string) string {
	fields := strings.Fields(name)
	switch kind {
	case Map, PatchString, CodePointer:
		return strings.ToUpper(strings.Join(fields, " "))
	case PatchEntry:
		return strings.ToLower(strings.Join(fields, ":"))
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// Qualify joins an owner key and a member key. State labels use "::", as
// in "imp::spawn"; other members use ".".
func Qualify(owner string, kind Kind, key string) string {
	if owner == "" {
		return key
	}
	if kind == StateLabel {
		return owner + "::" + key
	}
	return owner + "." + key
}
