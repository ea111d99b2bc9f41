package transforms

import (
	"sort"

	"github.com/dtnma-project/ace-ari/admcatalog"
)

// CanonicalModule is a module rendered into the stable, diff-friendly
// ordering spec.md §4.2 specifies: module-level scalars first (carried
// as plain fields, same as admcatalog.Module), then object groups in a
// fixed type order, then objects within a group by enum ascending.
//
// admcatalog.Module keeps its objects in a map, which has no ordering of
// its own; CanonicalModule is the ordered view a serializer (the text or
// CBOR codec, or a diff tool) renders from.
type CanonicalModule struct {
	Module  admcatalog.Module
	Objects []*admcatalog.Object
}

// Canonicalize reorders m's objects into the fixed ordering spec.md §4.2
// defines. The ordering is a pure function of each object's (Type, Enum,
// Name) — never of the input map's iteration order — so re-canonicalizing
// an already-canonical module reproduces byte-identical output (spec.md
// §8 property 4).
func Canonicalize(m *admcatalog.Module) *CanonicalModule {
	clone := cloneModule(m)
	objs := make([]*admcatalog.Object, 0, len(clone.Objects))
	for _, obj := range clone.Objects {
		objs = append(objs, obj)
	}
	sort.Slice(objs, func(i, j int) bool {
		a, b := objs[i], objs[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Enum != b.Enum {
			return a.Enum < b.Enum
		}
		return a.Name < b.Name
	})
	return &CanonicalModule{
		Module:  *clone,
		Objects: objs,
	}
}
