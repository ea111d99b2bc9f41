package ari

import "testing"

func TestEqualUndefined(t *testing.T) {
	if !Equal(Undefined{}, Undefined{}) {
		t.Error("Undefined should equal Undefined (spec.md §4.4)")
	}
}

func TestEqualNull(t *testing.T) {
	if !Equal(Null{}, Null{}) {
		t.Error("Null should equal Null")
	}
	if Equal(Null{}, Undefined{}) {
		t.Error("Null should not equal Undefined")
	}
}

func TestEqualIntegerFamilyCrossType(t *testing.T) {
	a := NewLiteral(Builtin(KindUint), Uint(5))
	b := NewLiteral(Builtin(KindInt), Int(5))
	if !Equal(a, b) {
		t.Error("Uint(5) should equal Int(5): integer kinds compare by value within the integer family")
	}
}

func TestEqualRealNaN(t *testing.T) {
	nan := NewLiteral(Builtin(KindReal64), Real64(nan()))
	if Equal(nan, nan) {
		t.Error("NaN must never compare equal, even to itself")
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestEqualRealBitExact(t *testing.T) {
	a := NewLiteral(Builtin(KindReal64), Real64(1.5))
	b := NewLiteral(Builtin(KindReal64), Real64(1.5))
	if !Equal(a, b) {
		t.Error("identical reals should compare equal")
	}
}

func TestEqualTextBytes(t *testing.T) {
	if !Equal(NewLiteral(Builtin(KindText), Text("hi")), NewLiteral(Builtin(KindText), Text("hi"))) {
		t.Error("identical text should be equal")
	}
	if Equal(NewLiteral(Builtin(KindText), Text("hi")), NewLiteral(Builtin(KindText), Text("ho"))) {
		t.Error("distinct text should not be equal")
	}
	if !Equal(NewLiteral(Builtin(KindBytes), Bytes{1, 2}), NewLiteral(Builtin(KindBytes), Bytes{1, 2})) {
		t.Error("identical bytes should be equal")
	}
}

func TestEqualAMInsertionOrderSensitive(t *testing.T) {
	k1 := NewLiteral(Builtin(KindUint), Uint(1))
	v1 := NewLiteral(Builtin(KindText), Text("a"))
	k2 := NewLiteral(Builtin(KindUint), Uint(2))
	v2 := NewLiteral(Builtin(KindText), Text("b"))

	forward, err := NewAM([]AMPair{{k1, v1}, {k2, v2}})
	if err != nil {
		t.Fatal(err)
	}
	reversed, err := NewAM([]AMPair{{k2, v2}, {k1, v1}})
	if err != nil {
		t.Fatal(err)
	}
	litForward := NewLiteral(Builtin(KindAM), forward)
	litReversed := NewLiteral(Builtin(KindAM), reversed)
	if Equal(litForward, litReversed) {
		t.Error("am equality must be insertion-order sensitive (spec.md §4.4/§5)")
	}
	if !Equal(litForward, litForward) {
		t.Error("am should be reflexively equal to itself")
	}
}

func TestNewAMDuplicateKeyRejected(t *testing.T) {
	k := NewLiteral(Builtin(KindUint), Uint(1))
	_, err := NewAM([]AMPair{{k, NewLiteral(Builtin(KindText), Text("a"))}, {k, NewLiteral(Builtin(KindText), Text("b"))}})
	if err == nil {
		t.Fatal("expected DuplicateMapKeyError")
	}
	if _, ok := err.(DuplicateMapKeyError); !ok {
		t.Errorf("expected DuplicateMapKeyError, got %T", err)
	}
}

func TestNewTBLInvariant(t *testing.T) {
	cells := []ARI{
		NewLiteral(Builtin(KindUint), Uint(1)), NewLiteral(Builtin(KindUint), Uint(2)),
		NewLiteral(Builtin(KindUint), Uint(3)), NewLiteral(Builtin(KindUint), Uint(4)),
	}
	tbl, err := NewTBL(2, nil, cells)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Rows() != 2 {
		t.Errorf("expected 2 rows, got %d", tbl.Rows())
	}
	if _, err := NewTBL(3, nil, cells); err == nil {
		t.Error("expected invariant violation for non-multiple row length")
	}
}
