package ast

// Kind tags the variant of a Node.
type Kind uint8

const (
	KindFile Kind = iota
	KindBad

	// Shared expressions
	KindIdent
	KindInt
	KindFloat
	KindString
	KindName
	KindBool
	KindNull
	KindPrefix
	KindPostfix
	KindBinary
	KindTernary
	KindCall
	KindArg
	KindIndex
	KindMember
	KindVector
	KindCast
	KindSizeOf
	KindTypeRef

	// Statements
	KindBlock
	KindExprStmt
	KindLocalVar
	KindVarSpec
	KindLet
	KindIf
	KindWhile
	KindDoWhile
	KindFor
	KindForEach
	KindSwitch
	KindCase
	KindBranch
	KindReturn
	KindMultiAssign

	// Declarations
	KindVersion
	KindInclude
	KindClass
	KindStruct
	KindEnum
	KindEnumMember
	KindConst
	KindField
	KindMethod
	KindParam
	KindPropertyDef
	KindFlagDef
	KindMixin
	KindActor

	// Defaults and states
	KindDefaults
	KindProperty
	KindFlag
	KindStates
	KindStateLabel
	KindStateFrame
	KindModifier
	KindStateFlow

	// DeHackEd
	KindPatchEntry
	KindPatchField
	KindPatchText
	KindPatchSection
	KindPatchLine

	// Map info, CVARINFO and LOADACS
	KindMapBlock
	KindMapProperty
	KindCVar
	KindLibrary
)

var kindNames = [...]string{
	KindFile:          "File",
	KindBad:           "Bad",
	KindIdent:         "Ident",
	KindInt:           "Int",
	KindFloat:         "Float",
	KindString:        "String",
	KindName:          "Name",
	KindBool:          "Bool",
	KindNull:          "Null",
	KindPrefix:        "Prefix",
	KindPostfix:       "Postfix",
	KindBinary:        "Binary",
	KindTernary:       "Ternary",
	KindCall:          "Call",
	KindArg:           "Arg",
	KindIndex:         "Index",
	KindMember:        "Member",
	KindVector:        "Vector",
	KindCast:          "Cast",
	KindSizeOf:        "SizeOf",
	KindTypeRef:       "TypeRef",
	KindBlock:         "Block",
	KindExprStmt:      "ExprStmt",
	KindLocalVar:      "LocalVar",
	KindVarSpec:       "VarSpec",
	KindLet:           "Let",
	KindIf:            "If",
	KindWhile:         "While",
	KindDoWhile:       "DoWhile",
	KindFor:           "For",
	KindForEach:       "ForEach",
	KindSwitch:        "Switch",
	KindCase:          "Case",
	KindBranch:        "Branch",
	KindReturn:        "Return",
	KindMultiAssign:   "MultiAssign",
	KindVersion:       "Version",
	KindInclude:       "Include",
	KindClass:         "Class",
	KindStruct:        "Struct",
	KindEnum:          "Enum",
	KindEnumMember:    "EnumMember",
	KindConst:         "Const",
	KindField:         "Field",
	KindMethod:        "Method",
	KindParam:         "Param",
	KindPropertyDef:   "PropertyDef",
	KindFlagDef:       "FlagDef",
	KindMixin:         "Mixin",
	KindActor:         "Actor",
	KindDefaults:      "Defaults",
	KindProperty:      "Property",
	KindFlag:          "Flag",
	KindStates:        "States",
	KindStateLabel:    "StateLabel",
	KindStateFrame:    "StateFrame",
	KindModifier:      "Modifier",
	KindStateFlow:     "StateFlow",
	KindPatchEntry:    "PatchEntry",
	KindPatchField:    "PatchField",
	KindPatchText:     "PatchText",
	KindPatchSection:  "PatchSection",
	KindPatchLine:     "PatchLine",
	KindMapBlock:      "MapBlock",
	KindMapProperty:   "MapProperty",
	KindCVar:          "CVar",
	KindLibrary:       "Library",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// MarshalText lets kinds appear by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
