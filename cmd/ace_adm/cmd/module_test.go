package cmd

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/dtnma-project/ace-ari/admcatalog"
	"github.com/dtnma-project/ace-ari/ari"
)

func sampleModuleForJSON() *admcatalog.Module {
	return &admcatalog.Module{
		Org:   ari.TextID("example"),
		Model: ari.TextID("demo"),
		Enum:  1,
		Objects: map[admcatalog.ObjectKey]*admcatalog.Object{
			{Type: ari.ObjTypeEDD, Name: "sw-version"}: {
				Type:      ari.ObjTypeEDD,
				Name:      "sw-version",
				Enum:      1,
				ValueType: ari.Builtin(ari.KindText),
			},
			{Type: ari.ObjTypeCtrl, Name: "reset"}: {
				Type: ari.ObjTypeCtrl,
				Name: "reset",
				Enum: 2,
				FormalParams: []admcatalog.FormalParam{
					{Name: "delay", Type: ari.Builtin(ari.KindUint)},
				},
			},
		},
	}
}

func TestModuleJSONRoundTrip(t *testing.T) {
	m := sampleModuleForJSON()
	jm, err := fromModule(m)
	if err != nil {
		t.Fatalf("fromModule: %v", err)
	}
	if len(jm.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(jm.Objects))
	}
	back, err := jm.toModule()
	if err != nil {
		t.Fatalf("toModule: %v", err)
	}
	if diff := pretty.Compare(back.Org, m.Org); diff != "" {
		t.Fatalf("org did not round-trip (-got +want):\n%s", diff)
	}
	if diff := pretty.Compare(back.Model, m.Model); diff != "" {
		t.Fatalf("model did not round-trip (-got +want):\n%s", diff)
	}
	key := admcatalog.ObjectKey{Type: ari.ObjTypeEDD, Name: "sw-version"}
	obj, ok := back.Objects[key]
	if !ok {
		t.Fatalf("missing EDD sw-version after round trip")
	}
	if !obj.ValueType.IsBuiltin() || obj.ValueType.Builtin != ari.KindText {
		t.Fatalf("value type did not round-trip: %+v", obj.ValueType)
	}
}

func TestLoadModuleRejectsYangFormat(t *testing.T) {
	if _, err := loadModule("unused.yang", "yang"); err == nil {
		t.Fatalf("expected error for yang ingestion format")
	}
}

func TestApplyTransformsUnknownName(t *testing.T) {
	m := sampleModuleForJSON()
	if _, err := applyTransforms(m, []string{"not-a-transform"}); err == nil {
		t.Fatalf("expected error for unrecognized transform")
	}
}

func TestApplyTransformsAddEnum(t *testing.T) {
	m := sampleModuleForJSON()
	m.Objects[admcatalog.ObjectKey{Type: ari.ObjTypeCtrl, Name: "reset"}].Enum = 0
	out, err := applyTransforms(m, []string{"add-enum"})
	if err != nil {
		t.Fatalf("applyTransforms: %v", err)
	}
	if out.Objects[admcatalog.ObjectKey{Type: ari.ObjTypeCtrl, Name: "reset"}].Enum == 0 {
		t.Fatalf("expected add-enum to assign a nonzero enum")
	}
}
