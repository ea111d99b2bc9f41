package typesys

import (
	"testing"

	"github.com/dtnma-project/ace-ari/ari"
)

type noopResolver struct{}

func (noopResolver) ResolveTypedef(ari.ADMTypeName) (TypeExpr, error) {
	return nil, TypeMismatchError{Msg: "no typedefs in this fixture"}
}

func TestCheckUnsignedWidensIntoSigned(t *testing.T) {
	v := ari.NewLiteral(ari.Builtin(ari.KindUint), ari.Uint(5))
	got, err := Check(v, Builtin{Kind: ari.KindInt}, noopResolver{})
	if err != nil {
		t.Fatalf("unsigned 5 should widen into a signed request: %v", err)
	}
	lit := got.(*ari.Literal)
	if _, ok := lit.Value.(ari.Int); !ok {
		t.Errorf("expected coercion to Int, got %T", lit.Value)
	}
}

func TestCheckRealNeverSatisfiesInteger(t *testing.T) {
	v := ari.NewLiteral(ari.Builtin(ari.KindReal64), ari.Real64(5))
	if _, err := Check(v, Builtin{Kind: ari.KindInt}, noopResolver{}); err == nil {
		t.Error("a real value must never silently satisfy an integer request")
	}
}

func TestCheckWiderRealNeverNarrows(t *testing.T) {
	v := ari.NewLiteral(ari.Builtin(ari.KindReal64), ari.Real64(1.5))
	if _, err := Check(v, Builtin{Kind: ari.KindReal32}, noopResolver{}); err == nil {
		t.Error("a real64 must not be truncated into a real32 slot")
	}
}

func TestCheckUnion(t *testing.T) {
	u := Union{Alternatives: []TypeExpr{Builtin{Kind: ari.KindBool}, Builtin{Kind: ari.KindInt}}}
	v := ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(7))
	if _, err := Check(v, u, noopResolver{}); err != nil {
		t.Errorf("int should match the second union alternative: %v", err)
	}
	if !Compatible(v, u, noopResolver{}) {
		t.Error("Compatible should agree with Check")
	}
}

func TestCheckUListElementType(t *testing.T) {
	ac := ari.AC{Items: []ari.ARI{
		ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(1)),
		ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(2)),
	}}
	v := ari.NewLiteral(ari.Builtin(ari.KindAC), ac)
	ul := UList{Elem: Builtin{Kind: ari.KindInt}}
	if _, err := Check(v, ul, noopResolver{}); err != nil {
		t.Errorf("uniform int list should type-check: %v", err)
	}

	bad := ari.AC{Items: []ari.ARI{
		ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(1)),
		ari.NewLiteral(ari.Builtin(ari.KindText), ari.Text("x")),
	}}
	if _, err := Check(ari.NewLiteral(ari.Builtin(ari.KindAC), bad), ul, noopResolver{}); err == nil {
		t.Error("a text element should fail a uniform int list")
	}
}

func TestConstraintsRange(t *testing.T) {
	min, max := int64(0), int64(10)
	use := Use{Base: Builtin{Kind: ari.KindInt}, Constraints: Constraints{MinInt: &min, MaxInt: &max}}
	ok := ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(5))
	if _, err := Check(ok, use, noopResolver{}); err != nil {
		t.Errorf("5 should be within [0,10]: %v", err)
	}
	tooBig := ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(11))
	if _, err := Check(tooBig, use, noopResolver{}); err == nil {
		t.Error("11 should violate the [0,10] range constraint")
	}
}
