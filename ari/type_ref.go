package ari

import "fmt"

// BuiltinKind enumerates the primitive and structural ARI value kinds
// fixed by spec.md §3.1/§4.3. The numeric values double as the CBOR
// wire type_code (spec.md §4.6, resolved per SPEC_FULL.md §4.3 and
// DESIGN.md's "Builtin type-code table" entry); golden vectors S3
// (INT=4) and S1 (EXECSET=20) pin two of these values exactly.
type BuiltinKind uint8

const (
	KindUndefined BuiltinKind = iota
	KindNull
	KindBool
	KindUint   // uint64
	KindInt    // int64 ("INT" in the text grammar and in scenario S3)
	KindUvast  // uvast: wide unsigned integer
	KindVast   // vast: wide signed integer
	KindReal32
	KindReal64
	KindText
	KindBytes
	KindTP // timepoint
	KindTD // timeperiod
	kindReservedLabel
	KindAC
	KindAM
	KindTBL
	KindTBLT
	KindRptSet
	KindRpt
	KindExecSet
)

var builtinKindNames = map[BuiltinKind]string{
	KindUndefined: "UNDEFINED",
	KindNull:      "NULL",
	KindBool:      "BOOL",
	KindUint:      "UINT",
	KindInt:       "INT",
	KindUvast:     "UVAST",
	KindVast:      "VAST",
	KindReal32:    "REAL32",
	KindReal64:    "REAL64",
	KindText:      "TEXT",
	KindBytes:     "BYTESTR",
	KindTP:        "TP",
	KindTD:        "TD",
	KindAC:        "AC",
	KindAM:        "AM",
	KindTBL:       "TBL",
	KindTBLT:      "TBLT",
	KindRptSet:    "RPTSET",
	KindRpt:       "RPT",
	KindExecSet:   "EXECSET",
}

func (k BuiltinKind) String() string {
	if s, ok := builtinKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("BuiltinKind(%d)", uint8(k))
}

// BuiltinKindByName resolves a text-grammar type keyword to its
// BuiltinKind, or reports ok=false.
func BuiltinKindByName(name string) (BuiltinKind, bool) {
	for k, n := range builtinKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// TypeRef names the declared type of a Literal or of an ADM formal
// parameter/EDD/VAR/CONST: either one of the closed builtin kinds, or a
// reference to an ADM TYPEDEF object. A TypeRef never carries the
// expanded type expression itself — that lives in the catalog
// (admcatalog.Object) and is looked up through typesys, keeping this
// package free of any dependency on the catalog.
type TypeRef struct {
	Builtin BuiltinKind
	// ADM is set iff this TypeRef names an ADM-defined typedef rather
	// than a builtin. When set, Builtin is ignored.
	ADM *ADMTypeName
}

// ADMTypeName identifies a TYPEDEF object by org/module/name, the same
// shape as an ObjectRef but restricted to what naming a type needs.
type ADMTypeName struct {
	Org      ID
	Model    ID
	Revision *Revision
	Name     ID
}

// IsBuiltin reports whether this TypeRef names a builtin kind rather than
// an ADM typedef.
func (t TypeRef) IsBuiltin() bool { return t.ADM == nil }

// Builtin constructs a TypeRef for a builtin kind.
func Builtin(k BuiltinKind) TypeRef { return TypeRef{Builtin: k} }

func (t TypeRef) String() string {
	if t.ADM != nil {
		return fmt.Sprintf("%s/%s/TYPEDEF/%s", t.ADM.Org, t.ADM.Model, t.ADM.Name)
	}
	return t.Builtin.String()
}
