package typesys

import (
	"fmt"
	"math"

	"github.com/dtnma-project/ace-ari/ari"
)

// Check validates value against t, expanding aliases and unions
// (first-match wins, per DESIGN.md's Open Question resolution) and
// recursing into structural types. On success it returns value,
// re-tagged with t's concrete builtin kind where narrower-to-wider
// coercion applied (spec.md §4.3's "never truncate" rule). Neither
// textcodec nor cborcodec calls it; type checking is a separate step
// from parsing and decoding.
//
// Structurally this mirrors ytypes/leaf.go's validateLeaf: one dispatch
// switch over the declared shape, delegating each case to a dedicated
// checker.
func Check(value ari.ARI, t TypeExpr, r TypedefResolver) (ari.ARI, error) {
	if _, ok := value.(ari.Undefined); ok {
		return nil, TypeMismatchError{Msg: "undefined is not a valid typed value (invariant 6)"}
	}
	if _, ok := value.(ari.Null); ok {
		return value, nil
	}

	switch te := t.(type) {
	case Builtin:
		return checkBuiltin(value, te.Kind)
	case Alias:
		expanded, err := r.ResolveTypedef(te.Ref)
		if err != nil {
			return nil, err
		}
		return Check(value, expanded, r)
	case Union:
		return checkUnion(value, te, r)
	case UList:
		return checkUList(value, te, r)
	case DList:
		return checkDList(value, te, r)
	case UMap:
		return checkUMap(value, te, r)
	case TBLTExpr:
		return checkTBLT(value, te, r)
	case Use:
		coerced, err := Check(value, te.Base, r)
		if err != nil {
			return nil, err
		}
		if err := te.Constraints.Check(coerced); err != nil {
			return nil, err
		}
		return coerced, nil
	}
	return nil, TypeMismatchError{Msg: "unknown type expression"}
}

// Compatible reports whether value matches t without returning the
// (possibly coerced) value.
func Compatible(value ari.ARI, t TypeExpr, r TypedefResolver) bool {
	_, err := Check(value, t, r)
	return err == nil
}

func checkUnion(value ari.ARI, u Union, r TypedefResolver) (ari.ARI, error) {
	for _, alt := range u.Alternatives {
		if coerced, err := Check(value, alt, r); err == nil {
			return coerced, nil
		}
	}
	return nil, TypeMismatchError{Msg: "value matched no union alternative"}
}

func checkUList(value ari.ARI, ul UList, r TypedefResolver) (ari.ARI, error) {
	lit, ac, err := asACLiteral(value)
	if err != nil {
		return nil, err
	}
	items := make([]ari.ARI, len(ac.Items))
	for i, it := range ac.Items {
		coerced, err := Check(it, ul.Elem, r)
		if err != nil {
			return nil, fmt.Errorf("ulist element %d: %w", i, err)
		}
		items[i] = coerced
	}
	return ari.NewLiteral(lit.Type, ari.AC{Items: items}), nil
}

func checkDList(value ari.ARI, dl DList, r TypedefResolver) (ari.ARI, error) {
	lit, ac, err := asACLiteral(value)
	if err != nil {
		return nil, err
	}
	if len(ac.Items) != len(dl.Elems) {
		return nil, TypeMismatchError{Msg: fmt.Sprintf("dlist expects %d elements, got %d", len(dl.Elems), len(ac.Items))}
	}
	items := make([]ari.ARI, len(ac.Items))
	for i, it := range ac.Items {
		coerced, err := Check(it, dl.Elems[i], r)
		if err != nil {
			return nil, fmt.Errorf("dlist element %d: %w", i, err)
		}
		items[i] = coerced
	}
	return ari.NewLiteral(lit.Type, ari.AC{Items: items}), nil
}

func checkUMap(value ari.ARI, um UMap, r TypedefResolver) (ari.ARI, error) {
	lit, ok := value.(*ari.Literal)
	if !ok {
		return nil, TypeMismatchError{Msg: "umap requires a literal am value"}
	}
	am, ok := lit.Value.(ari.AM)
	if !ok {
		return nil, TypeMismatchError{Msg: "umap requires an am literal"}
	}
	pairs := make([]ari.AMPair, len(am.Pairs))
	for i, p := range am.Pairs {
		ck, err := Check(p.Key, um.Key, r)
		if err != nil {
			return nil, fmt.Errorf("umap key %d: %w", i, err)
		}
		cv, err := Check(p.Value, um.Value, r)
		if err != nil {
			return nil, fmt.Errorf("umap value %d: %w", i, err)
		}
		pairs[i] = ari.AMPair{Key: ck, Value: cv}
	}
	coerced, err := ari.NewAM(pairs)
	if err != nil {
		return nil, err
	}
	return ari.NewLiteral(lit.Type, coerced), nil
}

func checkTBLT(value ari.ARI, te TBLTExpr, r TypedefResolver) (ari.ARI, error) {
	lit, ok := value.(*ari.Literal)
	if !ok {
		return nil, TypeMismatchError{Msg: "tblt requires a literal tblt value"}
	}
	tblt, ok := lit.Value.(ari.TBLT)
	if !ok {
		return nil, TypeMismatchError{Msg: "tblt requires a tblt literal"}
	}
	if len(tblt.Fields) != len(te.Fields) {
		return nil, TypeMismatchError{Msg: fmt.Sprintf("tblt expects %d fields, got %d", len(te.Fields), len(tblt.Fields))}
	}
	fields := make([]ari.TBLTField, len(tblt.Fields))
	for i, f := range tblt.Fields {
		if f.Name != te.Fields[i].Name {
			return nil, TypeMismatchError{Msg: fmt.Sprintf("tblt field %d name %q does not match declared name %q", i, f.Name, te.Fields[i].Name)}
		}
		cv, err := Check(f.Value, te.Fields[i].Type, r)
		if err != nil {
			return nil, fmt.Errorf("tblt field %q: %w", f.Name, err)
		}
		fields[i] = ari.TBLTField{Name: f.Name, Type: f.Type, Value: cv}
	}
	return ari.NewLiteral(lit.Type, ari.TBLT{Fields: fields}), nil
}

func asACLiteral(value ari.ARI) (*ari.Literal, ari.AC, error) {
	lit, ok := value.(*ari.Literal)
	if !ok {
		return nil, ari.AC{}, TypeMismatchError{Msg: "list type requires a literal ac value"}
	}
	ac, ok := lit.Value.(ari.AC)
	if !ok {
		return nil, ari.AC{}, TypeMismatchError{Msg: "list type requires an ac literal"}
	}
	return lit, ac, nil
}

// checkBuiltin implements the numeric widening and structural-kind-match
// rules of spec.md §4.3: unsigned values widen into a signed request when
// in range; reals never silently satisfy an integer request; narrower
// reals widen into wider ones but never the reverse; text/bytes/tp/td and
// the structural kinds require an exact kind match.
func checkBuiltin(value ari.ARI, kind ari.BuiltinKind) (ari.ARI, error) {
	lit, ok := value.(*ari.Literal)
	if !ok {
		return nil, TypeMismatchError{Msg: fmt.Sprintf("expected a %s literal, got %T", kind, value)}
	}
	retag := func(v ari.Primitive) ari.ARI { return ari.NewLiteral(ari.Builtin(kind), v) }

	switch kind {
	case ari.KindBool:
		if v, ok := lit.Value.(ari.Bool); ok {
			return retag(v), nil
		}
	case ari.KindUint:
		switch v := lit.Value.(type) {
		case ari.Uint:
			return retag(v), nil
		case ari.Uvast:
			if uint64(v) <= math.MaxUint64 {
				return retag(ari.Uint(v)), nil
			}
		}
	case ari.KindInt:
		switch v := lit.Value.(type) {
		case ari.Int:
			return retag(v), nil
		case ari.Vast:
			return retag(ari.Int(v)), nil
		case ari.Uint:
			if uint64(v) <= math.MaxInt64 {
				return retag(ari.Int(v)), nil
			}
		case ari.Uvast:
			if uint64(v) <= math.MaxInt64 {
				return retag(ari.Int(v)), nil
			}
		}
	case ari.KindUvast:
		switch v := lit.Value.(type) {
		case ari.Uvast:
			return retag(v), nil
		case ari.Uint:
			return retag(ari.Uvast(v)), nil
		}
	case ari.KindVast:
		switch v := lit.Value.(type) {
		case ari.Vast:
			return retag(v), nil
		case ari.Int:
			return retag(ari.Vast(v)), nil
		case ari.Uint:
			if uint64(v) <= math.MaxInt64 {
				return retag(ari.Vast(v)), nil
			}
		case ari.Uvast:
			if uint64(v) <= math.MaxInt64 {
				return retag(ari.Vast(v)), nil
			}
		}
	case ari.KindReal32:
		if v, ok := lit.Value.(ari.Real32); ok {
			return retag(v), nil
		}
	case ari.KindReal64:
		switch v := lit.Value.(type) {
		case ari.Real64:
			return retag(v), nil
		case ari.Real32:
			return retag(ari.Real64(v)), nil
		}
	case ari.KindText:
		if v, ok := lit.Value.(ari.Text); ok {
			return retag(v), nil
		}
	case ari.KindBytes:
		if v, ok := lit.Value.(ari.Bytes); ok {
			return retag(v), nil
		}
	case ari.KindTP:
		if v, ok := lit.Value.(ari.TP); ok {
			return retag(v), nil
		}
	case ari.KindTD:
		if v, ok := lit.Value.(ari.TD); ok {
			return retag(v), nil
		}
	case ari.KindAC:
		if v, ok := lit.Value.(ari.AC); ok {
			return retag(v), nil
		}
	case ari.KindAM:
		if v, ok := lit.Value.(ari.AM); ok {
			return retag(v), nil
		}
	case ari.KindTBL:
		if v, ok := lit.Value.(ari.TBL); ok {
			return retag(v), nil
		}
	case ari.KindTBLT:
		if v, ok := lit.Value.(ari.TBLT); ok {
			return retag(v), nil
		}
	case ari.KindExecSet:
		if v, ok := lit.Value.(ari.ExecSet); ok {
			return retag(v), nil
		}
	case ari.KindRptSet:
		if v, ok := lit.Value.(ari.RptSet); ok {
			return retag(v), nil
		}
	case ari.KindRpt:
		if v, ok := lit.Value.(ari.Rpt); ok {
			return retag(v), nil
		}
	}
	return nil, TypeMismatchError{Msg: fmt.Sprintf("value of kind %T is not compatible with declared type %s", lit.Value, kind)}
}
