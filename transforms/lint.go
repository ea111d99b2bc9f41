package transforms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dtnma-project/ace-ari/admcatalog"
	"github.com/dtnma-project/ace-ari/ari"
	"github.com/dtnma-project/ace-ari/typesys"
)

// Lint reports findings against m without mutating it: a module is
// never rejected outright, every problem is collected instead of
// aborting on the first one (spec.md §7, §4.2's "(NEW) lint" addition).
func Lint(m *admcatalog.Module) []Finding {
	var findings []Finding

	findings = append(findings, lintNames(m)...)
	findings = append(findings, lintDuplicateEnums(m)...)
	findings = append(findings, lintTypedefCycles(m)...)
	findings = append(findings, lintUnreachableUnionAlternatives(m)...)

	return findings
}

func lintNames(m *admcatalog.Module) []Finding {
	var out []Finding
	for _, obj := range sortedObjects(m) {
		if !strings.Contains(obj.Name, "-") && len(obj.Name) > 0 {
			out = append(out, Finding{
				Severity: SeverityWarning,
				Object:   objectLabel(obj),
				Msg:      "object name has no hyphen separator",
			})
		}
	}
	return out
}

func lintDuplicateEnums(m *admcatalog.Module) []Finding {
	var out []Finding
	seen := map[ari.ObjectType]map[uint64]string{}
	for _, obj := range sortedObjects(m) {
		if obj.Enum == 0 {
			continue
		}
		if seen[obj.Type] == nil {
			seen[obj.Type] = map[uint64]string{}
		}
		if other, ok := seen[obj.Type][obj.Enum]; ok {
			out = append(out, Finding{
				Severity: SeverityError,
				Object:   objectLabel(obj),
				Msg:      fmt.Sprintf("enum %d is already used by %q in the same type bucket", obj.Enum, other),
			})
			continue
		}
		seen[obj.Type][obj.Enum] = obj.Name
	}
	return out
}

// lintTypedefCycles walks Alias edges among this module's own TYPEDEF
// objects. It cannot follow an Alias into another module without a
// catalog to resolve it, so a cycle that only closes through an
// external module goes undetected here — a limitation recorded in
// DESIGN.md, not a silent correctness claim.
func lintTypedefCycles(m *admcatalog.Module) []Finding {
	exprs := map[string]typesys.TypeExpr{}
	for _, obj := range m.Objects {
		if obj.Type != ari.ObjTypeTypedef {
			continue
		}
		if te, ok := obj.Typedef.(typesys.TypeExpr); ok {
			exprs[obj.Name] = te
		}
	}

	var out []Finding
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var visit func(name string, path []string) bool
	visit = func(name string, path []string) bool {
		switch color[name] {
		case black:
			return false
		case gray:
			return true
		}
		color[name] = gray
		for _, ref := range localAliasTargets(exprs[name], m) {
			if visit(ref, append(path, ref)) {
				return true
			}
		}
		color[name] = black
		return false
	}

	for _, name := range sortedKeys(exprs) {
		if color[name] == white && visit(name, []string{name}) {
			out = append(out, Finding{
				Severity: SeverityError,
				Object:   name,
				Msg:      "typedef participates in a reference cycle",
			})
		}
	}
	return out
}

func localAliasTargets(te typesys.TypeExpr, m *admcatalog.Module) []string {
	switch t := te.(type) {
	case typesys.Alias:
		if t.Ref.Org.Equal(m.Org) && t.Ref.Model.Equal(m.Model) {
			return []string{t.Ref.Name.String()}
		}
	case typesys.Use:
		return localAliasTargets(t.Base, m)
	}
	return nil
}

// lintUnreachableUnionAlternatives flags a union alternative that can
// never be selected because an earlier, unconstrained alternative of
// the same builtin kind already matches everything that alternative
// would. This is a conservative heuristic: it only detects the
// "earlier alternative has no constraints at all" case, not general
// constraint-subset reasoning (recorded in DESIGN.md).
func lintUnreachableUnionAlternatives(m *admcatalog.Module) []Finding {
	var out []Finding
	for _, obj := range sortedObjects(m) {
		if obj.Type != ari.ObjTypeTypedef {
			continue
		}
		te, ok := obj.Typedef.(typesys.TypeExpr)
		if !ok {
			continue
		}
		findUnionsAndCheck(obj.Name, te, &out)
	}
	return out
}

func findUnionsAndCheck(objName string, te typesys.TypeExpr, out *[]Finding) {
	switch t := te.(type) {
	case typesys.Union:
		for j := 1; j < len(t.Alternatives); j++ {
			jKind, jOK := baseKind(t.Alternatives[j])
			if !jOK {
				continue
			}
			for i := 0; i < j; i++ {
				iKind, iOK := baseKind(t.Alternatives[i])
				if iOK && iKind == jKind && isUnconstrained(t.Alternatives[i]) {
					*out = append(*out, Finding{
						Severity: SeverityWarning,
						Object:   objName,
						Msg:      fmt.Sprintf("union alternative %d is unreachable: alternative %d already accepts every %s value", j, i, jKind),
					})
					break
				}
			}
		}
		for _, alt := range t.Alternatives {
			findUnionsAndCheck(objName, alt, out)
		}
	case typesys.Use:
		findUnionsAndCheck(objName, t.Base, out)
	}
}

func baseKind(te typesys.TypeExpr) (ari.BuiltinKind, bool) {
	switch t := te.(type) {
	case typesys.Builtin:
		return t.Kind, true
	case typesys.Use:
		return baseKind(t.Base)
	}
	return 0, false
}

func isUnconstrained(te typesys.TypeExpr) bool {
	switch t := te.(type) {
	case typesys.Builtin:
		return true
	case typesys.Use:
		c := t.Constraints
		return c.MinInt == nil && c.MaxInt == nil && c.MinLen == nil && c.MaxLen == nil && c.Pattern == nil && c.EnumValues == nil
	}
	return false
}

func objectLabel(obj *admcatalog.Object) string {
	return fmt.Sprintf("%s/%s", obj.Type, obj.Name)
}

func sortedObjects(m *admcatalog.Module) []*admcatalog.Object {
	cm := Canonicalize(m)
	return cm.Objects
}

func sortedKeys(m map[string]typesys.TypeExpr) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
