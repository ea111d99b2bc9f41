package ari

import (
	"bytes"
	"math"
	"math/big"
)

// Equal implements the structural equality rules of spec.md §4.4:
// Undefined compares equal to Undefined; numeric literals compare by
// mathematical value within the same family (all integer kinds
// cross-compare, reals never cross-compare with integers); reals compare
// bit-exact, with NaN never equal to anything including itself; text
// compares by codepoint sequence; bytes by octet sequence; structural
// values compare componentwise and order-sensitively, am included (its
// pairs compare in insertion order, not as a set).
func Equal(a, b ARI) bool {
	switch av := a.(type) {
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Null:
		_, ok := b.(Null)
		return ok
	case *Literal:
		bv, ok := b.(*Literal)
		if !ok || av == nil || bv == nil {
			return av == bv
		}
		return equalPrimitive(av.Value, bv.Value)
	case *ObjectRef:
		bv, ok := b.(*ObjectRef)
		if !ok || av == nil || bv == nil {
			return av == bv
		}
		return equalObjectRef(av, bv)
	}
	return false
}

func equalObjectRef(a, b *ObjectRef) bool {
	if !a.Org.Equal(b.Org) || !a.Model.Equal(b.Model) {
		return false
	}
	if !a.Revision.Equal(b.Revision) {
		return false
	}
	if a.ObjType != b.ObjType || !a.Object.Equal(b.Object) {
		return false
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !Equal(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return true
}

func equalPrimitive(a, b Primitive) bool {
	if ai, aok := toBigInt(a); aok {
		bi, bok := toBigInt(b)
		return bok && ai.Cmp(bi) == 0
	}
	switch av := a.(type) {
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Real32:
		bv, ok := b.(Real32)
		return ok && bitExactEqual(float64(av), float64(bv))
	case Real64:
		bv, ok := b.(Real64)
		return ok && bitExactEqual(float64(av), float64(bv))
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Bytes:
		bv, ok := b.(Bytes)
		return ok && bytes.Equal(av, bv)
	case TP:
		bv, ok := b.(TP)
		return ok && av == bv
	case TD:
		bv, ok := b.(TD)
		return ok && av == bv
	case AC:
		bv, ok := b.(AC)
		return ok && equalARISlice(av.Items, bv.Items)
	case AM:
		bv, ok := b.(AM)
		if !ok || len(av.Pairs) != len(bv.Pairs) {
			return false
		}
		for i := range av.Pairs {
			if !Equal(av.Pairs[i].Key, bv.Pairs[i].Key) || !Equal(av.Pairs[i].Value, bv.Pairs[i].Value) {
				return false
			}
		}
		return true
	case TBL:
		bv, ok := b.(TBL)
		return ok && av.Columns == bv.Columns && equalARISlice(av.Cells, bv.Cells)
	case TBLT:
		bv, ok := b.(TBLT)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if av.Fields[i].Name != bv.Fields[i].Name || !Equal(av.Fields[i].Value, bv.Fields[i].Value) {
				return false
			}
		}
		return true
	case ExecSet:
		bv, ok := b.(ExecSet)
		return ok && Equal(av.Nonce, bv.Nonce) && equalARISlice(av.Targets, bv.Targets)
	case RptSet:
		bv, ok := b.(RptSet)
		if !ok || len(av.Reports) != len(bv.Reports) || !Equal(av.Nonce, bv.Nonce) {
			return false
		}
		for i := range av.Reports {
			if !equalPrimitive(av.Reports[i], bv.Reports[i]) {
				return false
			}
		}
		return true
	case Rpt:
		bv, ok := b.(Rpt)
		if !ok || !Equal(av.Source, bv.Source) || !equalARISlice(av.Items, bv.Items) {
			return false
		}
		if (av.Timestamp == nil) != (bv.Timestamp == nil) {
			return false
		}
		return av.Timestamp == nil || *av.Timestamp == *bv.Timestamp
	}
	return false
}

func equalARISlice(a, b []ARI) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// bitExactEqual implements "reals compare bit-exact; NaN is never equal,
// including to itself". NaN is rejected first; every other pair compares
// by IEEE-754 bit pattern, so +0 and -0 are not equal.
func bitExactEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return math.Float64bits(a) == math.Float64bits(b)
}

// toBigInt widens any integer-family Primitive to a big.Int so uint64 and
// int64 kinds can be compared by mathematical value without overflow
// (spec.md §4.4: "integer types compare as integers within the same type
// family").
func toBigInt(p Primitive) (*big.Int, bool) {
	switch v := p.(type) {
	case Uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case Uvast:
		return new(big.Int).SetUint64(uint64(v)), true
	case Int:
		return big.NewInt(int64(v)), true
	case Vast:
		return big.NewInt(int64(v)), true
	}
	return nil, false
}
