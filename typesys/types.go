// Package typesys implements the ARI type system: the closed builtin type
// set, typedef expansion (alias, union, structural constructors), and the
// value/type compatibility and coercion rules of spec.md §4.3.
//
// typesys depends only on ari, not on admcatalog, so the catalog can
// depend on typesys for its TYPEDEF object's expanded form without a
// dependency cycle; anything typesys needs from the catalog (expanding an
// ADM-defined typedef by name) is requested through the small
// TypedefResolver interface instead.
package typesys

import "github.com/dtnma-project/ace-ari/ari"

// TypeExpr is the closed set of typedef expression shapes spec.md §4.3
// defines: alias, union, ulist, dlist, umap, tblt, and use+constraints,
// plus a leaf case for a bare builtin type.
type TypeExpr interface {
	isTypeExpr()
}

// Builtin is a leaf type expression naming one of the builtin kinds
// directly (no typedef indirection).
type Builtin struct {
	Kind ari.BuiltinKind
}

func (Builtin) isTypeExpr() {}

// Alias is a reference to another ADM typedef by name, expanded
// transparently during Check (spec.md §4.3); a builtin kind is written
// as Builtin, not as an Alias.
type Alias struct {
	Ref ari.ADMTypeName
}

func (Alias) isTypeExpr() {}

// Union is an ordered sequence of alternatives. First-match wins on
// encoding, first-accepting wins on decoding (spec.md §4.3 and §9's first
// Open Question, resolved in DESIGN.md).
type Union struct {
	Alternatives []TypeExpr
}

func (Union) isTypeExpr() {}

// UList is a uniform list of element type Elem.
type UList struct {
	Elem TypeExpr
}

func (UList) isTypeExpr() {}

// DList is a heterogeneous list with a fixed element-type sequence.
type DList struct {
	Elems []TypeExpr
}

func (DList) isTypeExpr() {}

// UMap is a uniform map from Key type to Value type.
type UMap struct {
	Key   TypeExpr
	Value TypeExpr
}

func (UMap) isTypeExpr() {}

// TBLTField is one named, typed column of a TBLT type expression.
type TBLTField struct {
	Name string
	Type TypeExpr
}

// TBLTExpr is a table-row type: a sequence of named/typed columns.
type TBLTExpr struct {
	Fields []TBLTField
}

func (TBLTExpr) isTypeExpr() {}

// Use is a base type with constraints (range, length, pattern, or
// enum-restriction).
type Use struct {
	Base        TypeExpr
	Constraints Constraints
}

func (Use) isTypeExpr() {}

// TypedefResolver expands an ADM-defined type name into its TypeExpr. The
// catalog implements this; typesys only depends on the interface so it
// never imports admcatalog.
type TypedefResolver interface {
	ResolveTypedef(name ari.ADMTypeName) (TypeExpr, error)
}
