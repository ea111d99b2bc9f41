// Package cborcodec implements the CBOR (RFC 8949) binary form:
// encoder and decoder between an ari.ARI and a single CBOR data item
// (spec.md §4.6). Leaf value and array/tag serialization is delegated
// to github.com/fxamacker/cbor/v2; this package owns only the choice
// of wire shape per ARI variant and the major-type dispatch spec.md
// §4.6 calls for on decode.
package cborcodec

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/dtnma-project/ace-ari/ari"
)

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
}

// Encode renders v as a single CBOR data item (spec.md §4.6).
func Encode(v ari.ARI, opts Options) ([]byte, error) {
	// Undefined and Null are the only variants with a fixed one-byte
	// wire form (spec.md §8 S2: "/NULL" -> 0xF6); Undefined can only
	// ever appear at the top level (ari invariant 6), so it is handled
	// here rather than in the general recursive encoder.
	if _, ok := v.(ari.Undefined); ok {
		return []byte{0xF7}, nil
	}
	node, err := encodeNode(v, opts)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(node)
}

func encodeNode(v ari.ARI, opts Options) (interface{}, error) {
	switch t := v.(type) {
	case ari.Null:
		return nil, nil
	case ari.Undefined:
		return nil, EncodeError{Msg: "undefined may only appear as a top-level ARI value"}
	case *ari.ObjectRef:
		return encodeObjectRef(t, opts)
	case *ari.Literal:
		return encodeLiteral(t, opts)
	}
	return nil, EncodeError{Msg: fmt.Sprintf("unencodable ARI variant %T", v)}
}

func encodeID(id ari.ID) interface{} {
	if id.IsNumeric {
		return id.Num
	}
	return id.Text
}

func encodeRevision(rev *ari.Revision) interface{} {
	if rev == nil {
		return nil
	}
	return []interface{}{rev.Year, rev.Month, rev.Day}
}

func encodeObjectRef(ref *ari.ObjectRef, opts Options) (interface{}, error) {
	if opts.PreferNumericNames && (!ref.Org.IsNumeric || !ref.Model.IsNumeric || !ref.Object.IsNumeric) {
		return nil, EncodeError{Msg: "prefer_numeric_names requested but object reference carries a symbolic identifier"}
	}
	arr := []interface{}{
		encodeID(ref.Org),
		encodeID(ref.Model),
		encodeRevision(ref.Revision),
		uint8(ref.ObjType),
		encodeID(ref.Object),
	}
	if ref.Params != nil {
		params := make([]interface{}, len(ref.Params))
		for i, p := range ref.Params {
			n, err := encodeNode(p, opts)
			if err != nil {
				return nil, err
			}
			params[i] = n
		}
		arr = append(arr, params)
	}
	return arr, nil
}

// valueKind derives the built-in kind from a primitive's Go type, the
// same convention textcodec.inferKind uses for the text grammar,
// applied here to pick the CBOR type_code (spec.md §4.6).
func valueKind(v ari.Primitive) (ari.BuiltinKind, error) {
	switch v.(type) {
	case ari.Bool:
		return ari.KindBool, nil
	case ari.Uint:
		return ari.KindUint, nil
	case ari.Int:
		return ari.KindInt, nil
	case ari.Uvast:
		return ari.KindUvast, nil
	case ari.Vast:
		return ari.KindVast, nil
	case ari.Real32:
		return ari.KindReal32, nil
	case ari.Real64:
		return ari.KindReal64, nil
	case ari.Text:
		return ari.KindText, nil
	case ari.Bytes:
		return ari.KindBytes, nil
	case ari.TP:
		return ari.KindTP, nil
	case ari.TD:
		return ari.KindTD, nil
	case ari.AC:
		return ari.KindAC, nil
	case ari.AM:
		return ari.KindAM, nil
	case ari.TBL:
		return ari.KindTBL, nil
	case ari.TBLT:
		return ari.KindTBLT, nil
	case ari.ExecSet:
		return ari.KindExecSet, nil
	case ari.RptSet:
		return ari.KindRptSet, nil
	case ari.Rpt:
		return ari.KindRpt, nil
	}
	return 0, EncodeError{Msg: fmt.Sprintf("no CBOR type_code for primitive %T", v)}
}

func encodeTPContent(tp ari.TP) interface{} {
	if tp.Nanos == 0 {
		return tp.Seconds
	}
	return float64(tp.Seconds) + float64(tp.Nanos)/1e9
}

func encodeTDContent(td ari.TD) interface{} {
	if td.Nanos == 0 {
		return td.Seconds
	}
	return float64(td.Seconds) + float64(td.Nanos)/1e9
}

func encodeLiteral(lit *ari.Literal, opts Options) (interface{}, error) {
	kind, err := valueKind(lit.Value)
	if err != nil {
		return nil, err
	}
	switch kind {
	case ari.KindTP:
		return cbor.Tag{Number: TagTimepoint, Content: encodeTPContent(lit.Value.(ari.TP))}, nil
	case ari.KindTD:
		return cbor.Tag{Number: opts.timeperiodTag(), Content: encodeTDContent(lit.Value.(ari.TD))}, nil
	}
	payload, err := encodePayload(kind, lit.Value, opts)
	if err != nil {
		return nil, err
	}
	return []interface{}{uint8(kind), payload}, nil
}

// encodePayload builds the second element of a [type_code, payload]
// wrapper (spec.md §4.6). Structured kinds recurse through
// encodeNode for their nested ARI elements.
func encodePayload(kind ari.BuiltinKind, value ari.Primitive, opts Options) (interface{}, error) {
	switch kind {
	case ari.KindBool:
		return bool(value.(ari.Bool)), nil
	case ari.KindUint:
		return uint64(value.(ari.Uint)), nil
	case ari.KindInt:
		return int64(value.(ari.Int)), nil
	case ari.KindUvast:
		return uint64(value.(ari.Uvast)), nil
	case ari.KindVast:
		return int64(value.(ari.Vast)), nil
	case ari.KindReal32:
		return float32(value.(ari.Real32)), nil
	case ari.KindReal64:
		return float64(value.(ari.Real64)), nil
	case ari.KindText:
		return string(value.(ari.Text)), nil
	case ari.KindBytes:
		return []byte(value.(ari.Bytes)), nil
	case ari.KindAC:
		ac := value.(ari.AC)
		items := make([]interface{}, len(ac.Items))
		for i, it := range ac.Items {
			n, err := encodeNode(it, opts)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return items, nil
	case ari.KindAM:
		return encodeAMPayload(value.(ari.AM), opts)
	case ari.KindTBL:
		tbl := value.(ari.TBL)
		cells := make([]interface{}, len(tbl.Cells))
		for i, c := range tbl.Cells {
			n, err := encodeNode(c, opts)
			if err != nil {
				return nil, err
			}
			cells[i] = n
		}
		return []interface{}{tbl.Columns, cells}, nil
	case ari.KindTBLT:
		tblt := value.(ari.TBLT)
		fields := make([]interface{}, len(tblt.Fields))
		for i, f := range tblt.Fields {
			v, err := encodeNode(f.Value, opts)
			if err != nil {
				return nil, err
			}
			fields[i] = []interface{}{f.Name, v}
		}
		return fields, nil
	case ari.KindExecSet:
		es := value.(ari.ExecSet)
		nonce, err := encodeNode(es.Nonce, opts)
		if err != nil {
			return nil, err
		}
		targets := make([]interface{}, len(es.Targets))
		for i, t := range es.Targets {
			n, err := encodeNode(t, opts)
			if err != nil {
				return nil, err
			}
			targets[i] = n
		}
		return []interface{}{nonce, targets}, nil
	case ari.KindRptSet:
		rs := value.(ari.RptSet)
		nonce, err := encodeNode(rs.Nonce, opts)
		if err != nil {
			return nil, err
		}
		reports := make([]interface{}, len(rs.Reports))
		for i, r := range rs.Reports {
			rp, err := encodePayload(ari.KindRpt, r, opts)
			if err != nil {
				return nil, err
			}
			reports[i] = []interface{}{uint8(ari.KindRpt), rp}
		}
		return []interface{}{nonce, reports}, nil
	case ari.KindRpt:
		r := value.(ari.Rpt)
		source, err := encodeNode(r.Source, opts)
		if err != nil {
			return nil, err
		}
		var ts interface{}
		if r.Timestamp != nil {
			ts = cbor.Tag{Number: TagTimepoint, Content: encodeTPContent(*r.Timestamp)}
		}
		items := make([]interface{}, len(r.Items))
		for i, it := range r.Items {
			n, err := encodeNode(it, opts)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return []interface{}{source, ts, items}, nil
	}
	return nil, EncodeError{Msg: fmt.Sprintf("unencodable literal kind %v", kind)}
}

// encodeAMPayload encodes an am as an array of [key, value] pairs
// rather than a native CBOR map (DESIGN.md's am-wire-shape decision):
// no golden vector exercises am in binary form, and an array of pairs
// preserves insertion order for free, with SortMapKeys as an explicit
// opt-in reordering rather than something the wire shape has to fight.
func encodeAMPayload(am ari.AM, opts Options) (interface{}, error) {
	pairs := make([]interface{}, len(am.Pairs))
	keyBytes := make([][]byte, len(am.Pairs))
	for i, pr := range am.Pairs {
		k, err := encodeNode(pr.Key, opts)
		if err != nil {
			return nil, err
		}
		v, err := encodeNode(pr.Value, opts)
		if err != nil {
			return nil, err
		}
		pairs[i] = []interface{}{k, v}
		if opts.SortMapKeys {
			kb, err := encMode.Marshal(k)
			if err != nil {
				return nil, err
			}
			keyBytes[i] = kb
		}
	}
	if opts.SortMapKeys {
		idx := make([]int, len(pairs))
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool {
			return compareBytes(keyBytes[idx[a]], keyBytes[idx[b]]) < 0
		})
		sorted := make([]interface{}, len(pairs))
		for i, j := range idx {
			sorted[i] = pairs[j]
		}
		return sorted, nil
	}
	return pairs, nil
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}
