package transforms

import (
	"sort"

	"github.com/dtnma-project/ace-ari/admcatalog"
	"github.com/dtnma-project/ace-ari/ari"
)

// AddEnum assigns a unique enum to every object missing one, choosing the
// smallest unused nonnegative integer within that object's type bucket
// (spec.md §4.2). Assignment is deterministic: objects needing an enum
// are visited in ascending name order within their bucket, so applying
// AddEnum twice to the same unmodified module produces the same
// assignment (spec.md §8 property 5: applying it again is the identity).
//
// Enum zero is reserved as this module's "unassigned" sentinel (matching
// admcatalog.Object's zero value), so AddEnum only ever hands out 1, 2,
// 3, ... within a bucket; an object explicitly enumerated 0 by its ADM
// source is indistinguishable from one with no enum at all.
func AddEnum(m *admcatalog.Module) *admcatalog.Module {
	out := cloneModule(m)

	used := map[ari.ObjectType]map[uint64]bool{}
	var missing []*admcatalog.Object
	for _, obj := range out.Objects {
		if used[obj.Type] == nil {
			used[obj.Type] = map[uint64]bool{}
		}
		if obj.Enum != 0 {
			used[obj.Type][obj.Enum] = true
		} else {
			missing = append(missing, obj)
		}
	}

	sort.Slice(missing, func(i, j int) bool {
		if missing[i].Type != missing[j].Type {
			return missing[i].Type < missing[j].Type
		}
		return missing[i].Name < missing[j].Name
	})

	for _, obj := range missing {
		bucket := used[obj.Type]
		next := uint64(1)
		for bucket[next] {
			next++
		}
		bucket[next] = true
		obj.Enum = next
	}

	return out
}
