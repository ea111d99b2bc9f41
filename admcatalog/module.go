// Package admcatalog implements the ADM catalog: an in-memory index of
// ADM modules and their objects, with symbolic/numeric name resolution
// and typedef expansion (spec.md §3.3, §4.1).
//
// The catalog is built once per loaded module and then treated as
// read-only (spec.md §3.4, §4.7): Catalog swaps in a new immutable
// snapshot on every LoadModule call rather than mutating shared state in
// place, so concurrent readers never observe a half-built index
// (spec.md §5).
package admcatalog

import "github.com/dtnma-project/ace-ari/ari"

// FormalParam is one formal parameter of a CTRL or OPER object.
type FormalParam struct {
	Name    string
	Type    ari.TypeRef
	Default ari.ARI // nil means the parameter is required.
}

// ObjectKey identifies an object within a module: its type bucket and its
// symbolic name (spec.md §3.3: "object_list keys are (object_type, name),
// values unique within that module").
type ObjectKey struct {
	Type ari.ObjectType
	Name string
}

// Object is one ADM object: a CONST, CTRL, EDD, IDENT, OPER, SBR, TBR,
// TYPEDEF, or VAR, each carrying its own metadata per spec.md §3.3. Not
// every field is meaningful for every Type; which ones apply is
// documented per field.
type Object struct {
	Type ari.ObjectType
	Name string
	Enum uint64

	// ValueType applies to EDD, VAR, and CONST: the declared type of the
	// value the object carries or produces.
	ValueType ari.TypeRef

	// ConstValue applies to CONST only: its fixed value.
	ConstValue ari.ARI

	// FormalParams and ResultType apply to CTRL and OPER.
	FormalParams []FormalParam
	ResultType   *ari.TypeRef

	// Typedef applies to TYPEDEF only; Catalog.Typedef (see catalog.go)
	// finds the object by name and returns this field as a
	// typesys.TypeExpr, whose aliases can reference other typedefs in the
	// same or another module.
	Typedef TypeExprRef

	// BaseClasses applies to IDENT only: the list of base identities this
	// one derives from.
	BaseClasses []ari.ADMTypeName
}

// TypeExprRef is a typesys.TypeExpr stored as an opaque interface{} to
// avoid importing typesys's concrete types into every Object literal;
// admcatalog's Typedef accessor performs the type assertion.
type TypeExprRef interface{}

// Module is one ADM module: its identity, revision, module-level enum,
// and its object list (spec.md §3.3).
type Module struct {
	Org      ari.ID
	Model    ari.ID
	Revision *ari.Revision
	Enum     uint64
	Objects  map[ObjectKey]*Object
}

// ModuleRecord is the shape an external YANG-ingestion pipeline hands to
// LoadModule (spec.md §1: ingestion is an external collaborator; the
// catalog only consumes its already-parsed output). It is intentionally
// identical in shape to Module — the catalog does not require any
// additional normalization step beyond what LoadModule itself performs
// (building the name/enum indices).
type ModuleRecord = Module
