package ari

import "fmt"

// ID names an ADM entity (organization, model, or object) by either its
// symbolic text name or its numeric enumeration. Exactly one form is set;
// the catalog is what decides, at resolution time, which form an
// unresolved ID should be treated as carrying (invariant 4 in spec.md).
type ID struct {
	Text      string
	Num       int64
	IsNumeric bool
}

// TextID builds a symbolic ID.
func TextID(name string) ID { return ID{Text: name} }

// NumID builds a numeric ID.
func NumID(n int64) ID { return ID{Num: n, IsNumeric: true} }

func (id ID) String() string {
	if id.IsNumeric {
		return fmt.Sprintf("!%d", id.Num)
	}
	return id.Text
}

// Equal compares two IDs by their concrete form; an unresolved text ID and
// an unresolved numeric ID are never equal to each other — resolution
// against the catalog is what establishes that equivalence (invariant 4).
func (id ID) Equal(other ID) bool {
	if id.IsNumeric != other.IsNumeric {
		return false
	}
	if id.IsNumeric {
		return id.Num == other.Num
	}
	return id.Text == other.Text
}

// Revision is an ADM module revision date (YYYY-MM-DD, per YANG
// convention). A nil *Revision means "unspecified" per §3.1.
type Revision struct {
	Year  int
	Month int
	Day   int
}

func (r *Revision) String() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", r.Year, r.Month, r.Day)
}

// Equal compares two revisions, including the nil/non-nil case.
func (r *Revision) Equal(other *Revision) bool {
	if r == nil || other == nil {
		return r == other
	}
	return *r == *other
}

// ObjectType is the closed set of ADM object kinds an ObjectRef can name.
type ObjectType uint8

// Object type codes are fixed by spec.md §4.6 and reused verbatim as the
// CBOR wire type_code for an object reference.
const (
	ObjTypeConst ObjectType = iota
	ObjTypeCtrl
	ObjTypeEDD
	ObjTypeIdent
	ObjTypeOper
	ObjTypeSBR
	ObjTypeTBR
	ObjTypeTypedef
	ObjTypeVar
)

var objectTypeNames = map[ObjectType]string{
	ObjTypeConst:   "CONST",
	ObjTypeCtrl:    "CTRL",
	ObjTypeEDD:     "EDD",
	ObjTypeIdent:   "IDENT",
	ObjTypeOper:    "OPER",
	ObjTypeSBR:     "SBR",
	ObjTypeTBR:     "TBR",
	ObjTypeTypedef: "TYPEDEF",
	ObjTypeVar:     "VAR",
}

func (t ObjectType) String() string {
	if s, ok := objectTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ObjectType(%d)", uint8(t))
}

// ObjectTypeByName resolves a grammar keyword ("CTRL", "EDD", ...) to its
// ObjectType, or reports ok=false if the name is not one of the closed set.
func ObjectTypeByName(name string) (ObjectType, bool) {
	for t, n := range objectTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// ObjectRef identifies a named ADM object, optionally applying actual
// parameters to its formal parameters (§3.1). ObjectRef never embeds a
// catalog pointer: resolution is always a separate step (§9's design
// note), so an ObjectRef is freely shareable across catalog reloads.
type ObjectRef struct {
	Org      ID
	Model    ID
	Revision *Revision
	ObjType  ObjectType
	Object   ID
	Params   []ARI // nil means "no parameters given", distinct from an empty slice of params.
}

func (*ObjectRef) isARI() {}
