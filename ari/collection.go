package ari

import "fmt"

// AC is an ordered sequence of ARI values (spec.md §3.1).
type AC struct {
	Items []ARI
}

func (AC) isPrimitive() {}

// AMPair is one key/value entry of an AM map, in insertion order.
type AMPair struct {
	Key   ARI
	Value ARI
}

// AM is a key-unique, insertion-ordered mapping from ARI to ARI
// (spec.md §3.1, invariant 2). Pairs is kept as a slice rather than a Go
// map because map iteration order is unspecified and spec.md §5 requires
// am iteration order to be insertion order.
type AM struct {
	Pairs []AMPair
}

func (AM) isPrimitive() {}

// NewAM builds an AM from pairs, returning DuplicateMapKeyError if any key
// repeats under ARI equality (invariant 2), and InvariantViolation if a
// key is Undefined.
func NewAM(pairs []AMPair) (AM, error) {
	for i := range pairs {
		if _, ok := pairs[i].Key.(Undefined); ok {
			return AM{}, InvariantViolation{Msg: "am key must not be Undefined"}
		}
		for j := 0; j < i; j++ {
			if Equal(pairs[i].Key, pairs[j].Key) {
				return AM{}, DuplicateMapKeyError{Key: pairs[i].Key}
			}
		}
	}
	return AM{Pairs: pairs}, nil
}

// Get returns the value associated with key and whether it was found.
func (m AM) Get(key ARI) (ARI, bool) {
	for _, p := range m.Pairs {
		if Equal(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

// TBL is a row-major grid of ARI values with a declared column count and
// per-column type tuple (spec.md §3.1, invariant 3).
type TBL struct {
	Columns     int
	ColumnTypes []TypeRef
	// Cells is row-major and flat: len(Cells) is a multiple of Columns.
	Cells []ARI
}

func (TBL) isPrimitive() {}

// NewTBL validates invariant 3 (row length is a multiple of the declared
// column count) before constructing the table.
func NewTBL(columns int, columnTypes []TypeRef, cells []ARI) (TBL, error) {
	if columns <= 0 {
		return TBL{}, InvariantViolation{Msg: "tbl column count must be positive"}
	}
	if len(cells)%columns != 0 {
		return TBL{}, InvariantViolation{Msg: fmt.Sprintf("tbl cell count %d is not a multiple of column count %d", len(cells), columns)}
	}
	if columnTypes != nil && len(columnTypes) != columns {
		return TBL{}, InvariantViolation{Msg: fmt.Sprintf("tbl declares %d columns but %d column types", columns, len(columnTypes))}
	}
	return TBL{Columns: columns, ColumnTypes: columnTypes, Cells: cells}, nil
}

// Rows returns the number of data rows.
func (t TBL) Rows() int {
	if t.Columns == 0 {
		return 0
	}
	return len(t.Cells) / t.Columns
}

// Row returns the cells of row i.
func (t TBL) Row(i int) []ARI {
	return t.Cells[i*t.Columns : (i+1)*t.Columns]
}

// TBLTField is one named/typed/valued field of a labeled tuple.
type TBLTField struct {
	Name  string
	Type  TypeRef
	Value ARI
}

// TBLT is a labeled tuple: a sequence of (name, type, value) fields
// (spec.md §3.1).
type TBLT struct {
	Fields []TBLTField
}

func (TBLT) isPrimitive() {}
