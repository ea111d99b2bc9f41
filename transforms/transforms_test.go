package transforms

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dtnma-project/ace-ari/admcatalog"
	"github.com/dtnma-project/ace-ari/ari"
	"github.com/dtnma-project/ace-ari/typesys"
)

func sampleModule() *admcatalog.Module {
	return &admcatalog.Module{
		Org:   ari.TextID("ietf"),
		Model: ari.TextID("dtnma-agent"),
		Objects: map[admcatalog.ObjectKey]*admcatalog.Object{
			{Type: ari.ObjTypeEDD, Name: "sw-version"}: {
				Type:      ari.ObjTypeEDD,
				Name:      "sw-version",
				ValueType: ari.Builtin(ari.KindText),
			},
			{Type: ari.ObjTypeCtrl, Name: "inspect"}: {
				Type: ari.ObjTypeCtrl,
				Name: "inspect",
			},
			{Type: ari.ObjTypeCtrl, Name: "reset"}: {
				Type: ari.ObjTypeCtrl,
				Name: "reset",
				Enum: 1,
			},
		},
	}
}

func TestAddEnumAssignsMissingOnly(t *testing.T) {
	m := sampleModule()
	out := AddEnum(m)

	inspect := out.Objects[admcatalog.ObjectKey{Type: ari.ObjTypeCtrl, Name: "inspect"}]
	reset := out.Objects[admcatalog.ObjectKey{Type: ari.ObjTypeCtrl, Name: "reset"}]
	if reset.Enum != 1 {
		t.Fatalf("reset.Enum changed: got %d, want 1", reset.Enum)
	}
	if inspect.Enum == 0 {
		t.Fatal("inspect.Enum was not assigned")
	}
	if inspect.Enum == reset.Enum {
		t.Fatalf("inspect and reset collide on enum %d", inspect.Enum)
	}

	// Original module must be untouched.
	if m.Objects[admcatalog.ObjectKey{Type: ari.ObjTypeCtrl, Name: "inspect"}].Enum != 0 {
		t.Fatal("AddEnum mutated its input module")
	}
}

func TestAddEnumIsIdempotent(t *testing.T) {
	m := sampleModule()
	once := AddEnum(m)
	twice := AddEnum(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("reapplying AddEnum changed the module (-once +twice):\n%s", diff)
	}
}

func TestAddEnumDeterministic(t *testing.T) {
	m := sampleModule()
	a := AddEnum(m)
	b := AddEnum(m)
	for k, obj := range a.Objects {
		if b.Objects[k].Enum != obj.Enum {
			t.Fatalf("non-deterministic assignment for %v", k)
		}
	}
}

func TestCanonicalizeOrdering(t *testing.T) {
	m := sampleModule()
	cm := Canonicalize(m)
	for i := 1; i < len(cm.Objects); i++ {
		a, b := cm.Objects[i-1], cm.Objects[i]
		if a.Type > b.Type {
			t.Fatalf("objects out of type order at %d: %v before %v", i, a.Type, b.Type)
		}
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	m := sampleModule()
	first := Canonicalize(m)
	second := Canonicalize(&first.Module)
	if len(first.Objects) != len(second.Objects) {
		t.Fatalf("object count changed: %d -> %d", len(first.Objects), len(second.Objects))
	}
	for i := range first.Objects {
		if first.Objects[i].Name != second.Objects[i].Name || first.Objects[i].Type != second.Objects[i].Type {
			t.Fatalf("ordering changed at %d: %v -> %v", i, first.Objects[i], second.Objects[i])
		}
	}
}

// TestCanonicalizeObjectsAreOwnedByTheClone ensures mutating an object
// reached through CanonicalModule.Objects never reaches back into the
// caller's original module (spec.md §4.7: transforms operate on catalog
// copies, never in place on the live module).
func TestCanonicalizeObjectsAreOwnedByTheClone(t *testing.T) {
	m := sampleModule()
	cm := Canonicalize(m)
	for _, obj := range cm.Objects {
		obj.Enum = 999
	}
	for k, orig := range m.Objects {
		if orig.Enum == 999 {
			t.Fatalf("mutating CanonicalModule.Objects mutated the caller's module at %v", k)
		}
	}
	for k, clonedObj := range cm.Module.Objects {
		if clonedObj.Enum != 999 {
			t.Fatalf("CanonicalModule.Objects and CanonicalModule.Module.Objects disagree at %v: %d", k, clonedObj.Enum)
		}
	}
}

func TestLintFlagsNonHyphenatedName(t *testing.T) {
	m := sampleModule()
	findings := Lint(m)
	found := false
	for _, f := range findings {
		if f.Object == "CTRL/inspect" && f.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a hyphenation warning for CTRL/inspect, got %+v", findings)
	}
}

func TestLintFlagsDuplicateEnum(t *testing.T) {
	m := sampleModule()
	m.Objects[admcatalog.ObjectKey{Type: ari.ObjTypeCtrl, Name: "inspect"}].Enum = 1
	findings := Lint(m)
	found := false
	for _, f := range findings {
		if f.Severity == SeverityError && f.Object == "CTRL/reset" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate-enum error for CTRL/reset, got %+v", findings)
	}
}

func TestLintFlagsTypedefCycle(t *testing.T) {
	m := &admcatalog.Module{
		Org:   ari.TextID("ietf"),
		Model: ari.TextID("dtnma-agent"),
		Objects: map[admcatalog.ObjectKey]*admcatalog.Object{
			{Type: ari.ObjTypeTypedef, Name: "a"}: {
				Type:    ari.ObjTypeTypedef,
				Name:    "a",
				Typedef: typesys.Alias{Ref: ari.ADMTypeName{Org: ari.TextID("ietf"), Model: ari.TextID("dtnma-agent"), Name: ari.TextID("b")}},
			},
			{Type: ari.ObjTypeTypedef, Name: "b"}: {
				Type:    ari.ObjTypeTypedef,
				Name:    "b",
				Typedef: typesys.Alias{Ref: ari.ADMTypeName{Org: ari.TextID("ietf"), Model: ari.TextID("dtnma-agent"), Name: ari.TextID("a")}},
			},
		},
	}
	findings := Lint(m)
	found := false
	for _, f := range findings {
		if f.Severity == SeverityError && (f.Object == "a" || f.Object == "b") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a typedef cycle finding, got %+v", findings)
	}
}

func TestLintFlagsUnreachableUnionAlternative(t *testing.T) {
	m := &admcatalog.Module{
		Org:   ari.TextID("ietf"),
		Model: ari.TextID("dtnma-agent"),
		Objects: map[admcatalog.ObjectKey]*admcatalog.Object{
			{Type: ari.ObjTypeTypedef, Name: "loose-or-tight"}: {
				Type: ari.ObjTypeTypedef,
				Name: "loose-or-tight",
				Typedef: typesys.Union{Alternatives: []typesys.TypeExpr{
					typesys.Builtin{Kind: ari.KindText},
					typesys.Use{Base: typesys.Builtin{Kind: ari.KindText}, Constraints: typesys.Constraints{}},
				}},
			},
		},
	}
	findings := Lint(m)
	found := false
	for _, f := range findings {
		if f.Object == "loose-or-tight" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unreachable-alternative finding, got %+v", findings)
	}
}

func TestLintErrorsAggregatesErrorsOnly(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityWarning, Object: "CTRL/inspect", Msg: "object name should be hyphenated"},
		{Severity: SeverityError, Object: "CTRL/inspect", Msg: "duplicate enum 1"},
		{Severity: SeverityError, Object: "a", Msg: "typedef cycle"},
	}
	err := LintErrors(findings)
	if err == nil {
		t.Fatal("expected a non-nil aggregated error")
	}
	if !strings.Contains(err.Error(), "duplicate enum 1") || !strings.Contains(err.Error(), "typedef cycle") {
		t.Fatalf("aggregated error missing a finding: %v", err)
	}
	if strings.Contains(err.Error(), "hyphenated") {
		t.Fatalf("aggregated error must not include warnings: %v", err)
	}
}

func TestLintErrorsNilWhenNoErrors(t *testing.T) {
	findings := []Finding{{Severity: SeverityWarning, Msg: "just a warning"}}
	if err := LintErrors(findings); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestLintIsReadOnly(t *testing.T) {
	m := sampleModule()
	before := len(m.Objects)
	Lint(m)
	if len(m.Objects) != before {
		t.Fatal("Lint must not mutate the module")
	}
}
