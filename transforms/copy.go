package transforms

import (
	"github.com/dtnma-project/ace-ari/admcatalog"
	"github.com/dtnma-project/ace-ari/ari"
)

// cloneModule returns a deep-enough copy of m for a transform to mutate
// freely: transforms operate on catalog copies, never on the live catalog
// (spec.md §4.5's ordering note, "Transforms operate on catalog copies,
// not in-place on the live catalog").
func cloneModule(m *admcatalog.Module) *admcatalog.Module {
	out := &admcatalog.Module{
		Org:      m.Org,
		Model:    m.Model,
		Revision: m.Revision,
		Enum:     m.Enum,
		Objects:  make(map[admcatalog.ObjectKey]*admcatalog.Object, len(m.Objects)),
	}
	for k, obj := range m.Objects {
		o := *obj
		if obj.FormalParams != nil {
			o.FormalParams = append([]admcatalog.FormalParam(nil), obj.FormalParams...)
		}
		if obj.BaseClasses != nil {
			o.BaseClasses = append([]ari.ADMTypeName(nil), obj.BaseClasses...)
		}
		out.Objects[k] = &o
	}
	return out
}
