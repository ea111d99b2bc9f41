package admcatalog

import (
	"testing"

	"github.com/dtnma-project/ace-ari/ari"
)

func ietfAgentModule() *Module {
	return &Module{
		Org:   ari.TextID("ietf"),
		Model: ari.TextID("dtnma-agent"),
		Enum:  1,
		Objects: map[ObjectKey]*Object{
			{Type: ari.ObjTypeCtrl, Name: "inspect"}: {
				Type: ari.ObjTypeCtrl, Name: "inspect", Enum: 5,
				FormalParams: []FormalParam{{Name: "target", Type: ari.Builtin(ari.KindText)}},
			},
			{Type: ari.ObjTypeEDD, Name: "sw-version"}: {
				Type: ari.ObjTypeEDD, Name: "sw-version", Enum: 1,
				ValueType: ari.Builtin(ari.KindText),
			},
		},
	}
}

func TestLoadAndResolveByName(t *testing.T) {
	c := New()
	if err := c.LoadModule(ietfAgentModule()); err != nil {
		t.Fatal(err)
	}
	obj, err := c.ResolveByName(ari.TextID("ietf"), ari.TextID("dtnma-agent"), nil, ari.ObjTypeCtrl, "inspect")
	if err != nil {
		t.Fatal(err)
	}
	if obj.Enum != 5 {
		t.Errorf("expected enum 5, got %d", obj.Enum)
	}
}

func TestResolveByNameNotFound(t *testing.T) {
	c := New()
	if err := c.LoadModule(ietfAgentModule()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ResolveByName(ari.TextID("ietf"), ari.TextID("dtnma-agent"), nil, ari.ObjTypeCtrl, "does-not-exist"); err == nil {
		t.Fatal("expected NotFoundError")
	} else if _, ok := err.(NotFoundError); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	c := New()
	m := ietfAgentModule()
	if err := c.LoadModule(m); err != nil {
		t.Fatal(err)
	}
	if err := c.LoadModule(m); err != nil {
		t.Fatal(err)
	}
	if len(c.ListModules()) != 1 {
		t.Errorf("expected idempotent load to keep exactly one module, got %d", len(c.ListModules()))
	}
}

func TestAmbiguousReferenceAcrossOrgs(t *testing.T) {
	c := New()
	if err := c.LoadModule(ietfAgentModule()); err != nil {
		t.Fatal(err)
	}
	other := &Module{
		Org:   ari.TextID("acme"),
		Model: ari.TextID("dtnma-agent"),
		Objects: map[ObjectKey]*Object{
			{Type: ari.ObjTypeCtrl, Name: "inspect"}: {Type: ari.ObjTypeCtrl, Name: "inspect", Enum: 9},
		},
	}
	if err := c.LoadModule(other); err != nil {
		t.Fatal(err)
	}
	_, err := c.ResolveByName(ari.ID{}, ari.TextID("dtnma-agent"), nil, ari.ObjTypeCtrl, "inspect")
	if err == nil {
		t.Fatal("expected AmbiguousReferenceError when org is omitted and two orgs publish the same name")
	}
	if _, ok := err.(AmbiguousReferenceError); !ok {
		t.Errorf("expected AmbiguousReferenceError, got %T", err)
	}
}

func TestRevisionOmittedResolvesLatest(t *testing.T) {
	c := New()
	older := ietfAgentModule()
	older.Revision = &ari.Revision{Year: 2020, Month: 1, Day: 1}
	newer := ietfAgentModule()
	newer.Revision = &ari.Revision{Year: 2024, Month: 6, Day: 1}
	newer.Objects[ObjectKey{Type: ari.ObjTypeCtrl, Name: "inspect"}].Enum = 42

	if err := c.LoadModule(older); err != nil {
		t.Fatal(err)
	}
	if err := c.LoadModule(newer); err != nil {
		t.Fatal(err)
	}
	obj, err := c.ResolveByName(ari.TextID("ietf"), ari.TextID("dtnma-agent"), nil, ari.ObjTypeCtrl, "inspect")
	if err != nil {
		t.Fatal(err)
	}
	if obj.Enum != 42 {
		t.Errorf("expected the newer revision's object (enum 42), got enum %d", obj.Enum)
	}

	exact, err := c.ResolveByName(ari.TextID("ietf"), ari.TextID("dtnma-agent"), older.Revision, ari.ObjTypeCtrl, "inspect")
	if err != nil {
		t.Fatal(err)
	}
	if exact.Enum != 5 {
		t.Errorf("expected the exact older revision's object (enum 5), got enum %d", exact.Enum)
	}
}

func TestResolveByEnum(t *testing.T) {
	c := New()
	m := ietfAgentModule()
	m.Org = ari.NumID(1)
	m.Model = ari.NumID(1)
	if err := c.LoadModule(m); err != nil {
		t.Fatal(err)
	}
	obj, err := c.ResolveByEnum(1, 1, nil, ari.ObjTypeCtrl, 5)
	if err != nil {
		t.Fatal(err)
	}
	if obj.Name != "inspect" {
		t.Errorf("expected to resolve 'inspect', got %q", obj.Name)
	}
}
