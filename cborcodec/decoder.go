package cborcodec

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/dtnma-project/ace-ari/ari"
)

// Decode parses a single CBOR data item into an ARI (spec.md §4.6).
func Decode(data []byte, opts Options) (ari.ARI, error) {
	if len(data) == 1 && data[0] == 0xF7 {
		return ari.Undefined{}, nil
	}
	return decodeNode(cbor.RawMessage(data), opts)
}

// decodeNode dispatches on the item's CBOR major type, the strategy
// spec.md §4.6 calls for, then delegates the actual value extraction to
// the cbor library against a precisely-typed Go target so integer and
// float widths survive round-tripping.
func decodeNode(raw cbor.RawMessage, opts Options) (ari.ARI, error) {
	major, addInfo, err := peekHeader(raw)
	if err != nil {
		return nil, decodeErrorf("%v", err)
	}
	switch major {
	case majorOther:
		switch addInfo {
		case addInfoNull:
			return ari.Null{}, nil
		case addInfoUndefined:
			return nil, DecodeError{Msg: "undefined may only appear as a top-level item"}
		case addInfoTrue, addInfoFalse:
			if opts.RequireTyped {
				return nil, decodeErrorf("bare bool item has no type_code wrapper")
			}
			var b bool
			if err := cbor.Unmarshal(raw, &b); err != nil {
				return nil, decodeErrorf("bool: %v", err)
			}
			return ari.NewLiteral(ari.Builtin(ari.KindBool), ari.Bool(b)), nil
		}
		return nil, decodeErrorf("unsupported simple/float item (additional info %d)", addInfo)
	case majorTag:
		return decodeTagNode(raw, opts)
	case majorArray:
		var items []cbor.RawMessage
		if err := cbor.Unmarshal(raw, &items); err != nil {
			return nil, decodeErrorf("array: %v", err)
		}
		return decodeArrayNode(items, opts)
	case majorUint:
		if opts.RequireTyped {
			return nil, decodeErrorf("bare uint item has no type_code wrapper")
		}
		var v uint64
		if err := cbor.Unmarshal(raw, &v); err != nil {
			return nil, decodeErrorf("uint: %v", err)
		}
		// A bare, unwrapped CBOR unsigned integer carries no type_code of
		// its own; major type 0 defaults to uint rather than uvast since
		// the encoder always uses the [type_code, payload] wrapper for
		// anything requiring a wider or signed distinction.
		return ari.NewLiteral(ari.Builtin(ari.KindUint), ari.Uint(v)), nil
	case majorNInt:
		if opts.RequireTyped {
			return nil, decodeErrorf("bare negative int item has no type_code wrapper")
		}
		var v int64
		if err := cbor.Unmarshal(raw, &v); err != nil {
			return nil, decodeErrorf("negative int: %v", err)
		}
		return ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(v)), nil
	case majorText:
		if opts.RequireTyped {
			return nil, decodeErrorf("bare text item has no type_code wrapper")
		}
		var s string
		if err := cbor.Unmarshal(raw, &s); err != nil {
			return nil, decodeErrorf("text: %v", err)
		}
		return ari.NewLiteral(ari.Builtin(ari.KindText), ari.Text(s)), nil
	case majorBytes:
		if opts.RequireTyped {
			return nil, decodeErrorf("bare bytes item has no type_code wrapper")
		}
		var b []byte
		if err := cbor.Unmarshal(raw, &b); err != nil {
			return nil, decodeErrorf("bytes: %v", err)
		}
		return ari.NewLiteral(ari.Builtin(ari.KindBytes), ari.Bytes(b)), nil
	}
	return nil, decodeErrorf("unhandled major type %d", major)
}

func decodeTagNode(raw cbor.RawMessage, opts Options) (ari.ARI, error) {
	var tag cbor.RawTag
	if err := cbor.Unmarshal(raw, &tag); err != nil {
		return nil, decodeErrorf("tag: %v", err)
	}
	switch tag.Number {
	case TagTimepoint:
		tp, err := decodeTPContent(tag.Content)
		if err != nil {
			return nil, err
		}
		return ari.NewLiteral(ari.Builtin(ari.KindTP), tp), nil
	case opts.timeperiodTag():
		td, err := decodeTDContent(tag.Content)
		if err != nil {
			return nil, err
		}
		return ari.NewLiteral(ari.Builtin(ari.KindTD), td), nil
	}
	if opts.AllowUnknownTags {
		return ari.NewLiteral(ari.Builtin(ari.KindBytes), ari.Bytes(tag.Content)), nil
	}
	return nil, DecodeError{Msg: "unrecognized CBOR tag", UnknownTag: true}
}

func decodeTPContent(content cbor.RawMessage) (ari.TP, error) {
	major, _, err := peekHeader(content)
	if err != nil {
		return ari.TP{}, decodeErrorf("tp content: %v", err)
	}
	if major == majorOther {
		var f float64
		if err := cbor.Unmarshal(content, &f); err != nil {
			return ari.TP{}, decodeErrorf("tp content (float): %v", err)
		}
		return ari.TP{Seconds: int64(f), Nanos: int32((f - float64(int64(f))) * 1e9)}, nil
	}
	var secs int64
	if err := cbor.Unmarshal(content, &secs); err != nil {
		return ari.TP{}, decodeErrorf("tp content (int): %v", err)
	}
	return ari.TP{Seconds: secs}, nil
}

func decodeTDContent(content cbor.RawMessage) (ari.TD, error) {
	major, _, err := peekHeader(content)
	if err != nil {
		return ari.TD{}, decodeErrorf("td content: %v", err)
	}
	if major == majorOther {
		var f float64
		if err := cbor.Unmarshal(content, &f); err != nil {
			return ari.TD{}, decodeErrorf("td content (float): %v", err)
		}
		return ari.TD{Seconds: int64(f), Nanos: int32((f - float64(int64(f))) * 1e9)}, nil
	}
	var secs int64
	if err := cbor.Unmarshal(content, &secs); err != nil {
		return ari.TD{}, decodeErrorf("td content (int): %v", err)
	}
	return ari.TD{Seconds: secs}, nil
}

// decodeArrayNode disambiguates the two array shapes the encoder
// produces: a 2-element [type_code, payload] literal wrapper, or a
// bare 5- or 6-element object reference array. The two never overlap
// in length, so the length alone is a safe dispatch key (DESIGN.md).
func decodeArrayNode(items []cbor.RawMessage, opts Options) (ari.ARI, error) {
	switch len(items) {
	case 2:
		var code uint8
		if err := cbor.Unmarshal(items[0], &code); err != nil {
			return nil, decodeErrorf("type_code: %v", err)
		}
		kind := ari.BuiltinKind(code)
		value, err := decodeTypedPayload(kind, items[1], opts)
		if err != nil {
			return nil, err
		}
		return ari.NewLiteral(ari.Builtin(kind), value), nil
	case 5, 6:
		return decodeObjectRef(items, opts)
	}
	return nil, decodeErrorf("array of length %d is not a recognized ARI wire shape", len(items))
}

func decodeIDRaw(raw cbor.RawMessage) (ari.ID, error) {
	major, _, err := peekHeader(raw)
	if err != nil {
		return ari.ID{}, decodeErrorf("id: %v", err)
	}
	switch major {
	case majorUint, majorNInt:
		var n int64
		if err := cbor.Unmarshal(raw, &n); err != nil {
			return ari.ID{}, decodeErrorf("numeric id: %v", err)
		}
		return ari.NumID(n), nil
	case majorText:
		var s string
		if err := cbor.Unmarshal(raw, &s); err != nil {
			return ari.ID{}, decodeErrorf("text id: %v", err)
		}
		return ari.TextID(s), nil
	}
	return ari.ID{}, decodeErrorf("identifier must be an integer or text string, found major type %d", major)
}

func decodeRevisionRaw(raw cbor.RawMessage) (*ari.Revision, error) {
	major, addInfo, err := peekHeader(raw)
	if err != nil {
		return nil, decodeErrorf("revision: %v", err)
	}
	if major == majorOther && addInfo == addInfoNull {
		return nil, nil
	}
	var ymd [3]int
	if err := cbor.Unmarshal(raw, &ymd); err != nil {
		return nil, decodeErrorf("revision: %v", err)
	}
	return &ari.Revision{Year: ymd[0], Month: ymd[1], Day: ymd[2]}, nil
}

func decodeObjectRef(items []cbor.RawMessage, opts Options) (*ari.ObjectRef, error) {
	org, err := decodeIDRaw(items[0])
	if err != nil {
		return nil, err
	}
	model, err := decodeIDRaw(items[1])
	if err != nil {
		return nil, err
	}
	rev, err := decodeRevisionRaw(items[2])
	if err != nil {
		return nil, err
	}
	var objTypeCode uint8
	if err := cbor.Unmarshal(items[3], &objTypeCode); err != nil {
		return nil, decodeErrorf("object type: %v", err)
	}
	object, err := decodeIDRaw(items[4])
	if err != nil {
		return nil, err
	}
	ref := &ari.ObjectRef{Org: org, Model: model, Revision: rev, ObjType: ari.ObjectType(objTypeCode), Object: object}
	if len(items) == 6 {
		var rawParams []cbor.RawMessage
		if err := cbor.Unmarshal(items[5], &rawParams); err != nil {
			return nil, decodeErrorf("params: %v", err)
		}
		params := make([]ari.ARI, len(rawParams))
		for i, p := range rawParams {
			n, err := decodeNode(p, opts)
			if err != nil {
				return nil, err
			}
			params[i] = n
		}
		ref.Params = params
	}
	if opts.StrictResolve && opts.Resolver != nil {
		if err := opts.Resolver(ref.Org, ref.Model, ref.Revision, ref.ObjType, ref.Object.String()); err != nil {
			return nil, DecodeError{Msg: "object reference did not resolve: " + err.Error()}
		}
	}
	return ref, nil
}

// decodeTypedPayload is encodePayload's inverse, one case per built-in
// kind.
func decodeTypedPayload(kind ari.BuiltinKind, payload cbor.RawMessage, opts Options) (ari.Primitive, error) {
	switch kind {
	case ari.KindBool:
		var v bool
		return ari.Bool(v), cbor.Unmarshal(payload, &v)
	case ari.KindUint:
		var v uint64
		err := cbor.Unmarshal(payload, &v)
		return ari.Uint(v), err
	case ari.KindInt:
		var v int64
		err := cbor.Unmarshal(payload, &v)
		return ari.Int(v), err
	case ari.KindUvast:
		var v uint64
		err := cbor.Unmarshal(payload, &v)
		return ari.Uvast(v), err
	case ari.KindVast:
		var v int64
		err := cbor.Unmarshal(payload, &v)
		return ari.Vast(v), err
	case ari.KindReal32:
		var v float32
		err := cbor.Unmarshal(payload, &v)
		return ari.Real32(v), err
	case ari.KindReal64:
		var v float64
		err := cbor.Unmarshal(payload, &v)
		return ari.Real64(v), err
	case ari.KindText:
		var v string
		err := cbor.Unmarshal(payload, &v)
		return ari.Text(v), err
	case ari.KindBytes:
		var v []byte
		err := cbor.Unmarshal(payload, &v)
		return ari.Bytes(v), err
	case ari.KindAC:
		var raw []cbor.RawMessage
		if err := cbor.Unmarshal(payload, &raw); err != nil {
			return nil, decodeErrorf("ac: %v", err)
		}
		items := make([]ari.ARI, len(raw))
		for i, r := range raw {
			n, err := decodeNode(r, opts)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return ari.AC{Items: items}, nil
	case ari.KindAM:
		return decodeAMPayload(payload, opts)
	case ari.KindTBL:
		var arr [2]cbor.RawMessage
		if err := cbor.Unmarshal(payload, &arr); err != nil {
			return nil, decodeErrorf("tbl: %v", err)
		}
		var columns int
		if err := cbor.Unmarshal(arr[0], &columns); err != nil {
			return nil, decodeErrorf("tbl columns: %v", err)
		}
		var rawCells []cbor.RawMessage
		if err := cbor.Unmarshal(arr[1], &rawCells); err != nil {
			return nil, decodeErrorf("tbl cells: %v", err)
		}
		cells := make([]ari.ARI, len(rawCells))
		for i, r := range rawCells {
			n, err := decodeNode(r, opts)
			if err != nil {
				return nil, err
			}
			cells[i] = n
		}
		tbl, err := ari.NewTBL(columns, nil, cells)
		if err != nil {
			return nil, decodeErrorf("tbl: %v", err)
		}
		return tbl, nil
	case ari.KindTBLT:
		var rawFields []cbor.RawMessage
		if err := cbor.Unmarshal(payload, &rawFields); err != nil {
			return nil, decodeErrorf("tblt: %v", err)
		}
		fields := make([]ari.TBLTField, len(rawFields))
		for i, rf := range rawFields {
			var pair [2]cbor.RawMessage
			if err := cbor.Unmarshal(rf, &pair); err != nil {
				return nil, decodeErrorf("tblt field: %v", err)
			}
			var name string
			if err := cbor.Unmarshal(pair[0], &name); err != nil {
				return nil, decodeErrorf("tblt field name: %v", err)
			}
			v, err := decodeNode(pair[1], opts)
			if err != nil {
				return nil, err
			}
			fields[i] = ari.TBLTField{Name: name, Value: v}
		}
		return ari.TBLT{Fields: fields}, nil
	case ari.KindExecSet:
		var arr [2]cbor.RawMessage
		if err := cbor.Unmarshal(payload, &arr); err != nil {
			return nil, decodeErrorf("execset: %v", err)
		}
		nonce, err := decodeNode(arr[0], opts)
		if err != nil {
			return nil, err
		}
		var rawTargets []cbor.RawMessage
		if err := cbor.Unmarshal(arr[1], &rawTargets); err != nil {
			return nil, decodeErrorf("execset targets: %v", err)
		}
		targets := make([]ari.ARI, len(rawTargets))
		for i, r := range rawTargets {
			n, err := decodeNode(r, opts)
			if err != nil {
				return nil, err
			}
			targets[i] = n
		}
		return ari.ExecSet{Nonce: nonce, Targets: targets}, nil
	case ari.KindRptSet:
		var arr [2]cbor.RawMessage
		if err := cbor.Unmarshal(payload, &arr); err != nil {
			return nil, decodeErrorf("rptset: %v", err)
		}
		nonce, err := decodeNode(arr[0], opts)
		if err != nil {
			return nil, err
		}
		var rawReports []cbor.RawMessage
		if err := cbor.Unmarshal(arr[1], &rawReports); err != nil {
			return nil, decodeErrorf("rptset reports: %v", err)
		}
		reports := make([]ari.Rpt, len(rawReports))
		for i, r := range rawReports {
			var wrapper [2]cbor.RawMessage
			if err := cbor.Unmarshal(r, &wrapper); err != nil {
				return nil, decodeErrorf("rptset report wrapper: %v", err)
			}
			var code uint8
			if err := cbor.Unmarshal(wrapper[0], &code); err != nil {
				return nil, decodeErrorf("rptset report type_code: %v", err)
			}
			if ari.BuiltinKind(code) != ari.KindRpt {
				return nil, decodeErrorf("rptset entry has type_code %d, expected rpt", code)
			}
			rp, err := decodeTypedPayload(ari.KindRpt, wrapper[1], opts)
			if err != nil {
				return nil, err
			}
			reports[i] = rp.(ari.Rpt)
		}
		return ari.RptSet{Nonce: nonce, Reports: reports}, nil
	case ari.KindRpt:
		var arr [3]cbor.RawMessage
		if err := cbor.Unmarshal(payload, &arr); err != nil {
			return nil, decodeErrorf("rpt: %v", err)
		}
		source, err := decodeNode(arr[0], opts)
		if err != nil {
			return nil, err
		}
		var ts *ari.TP
		tsMajor, tsAddInfo, err := peekHeader(arr[1])
		if err != nil {
			return nil, decodeErrorf("rpt timestamp: %v", err)
		}
		if !(tsMajor == majorOther && tsAddInfo == addInfoNull) {
			tp, err := decodeTagTimepoint(arr[1])
			if err != nil {
				return nil, err
			}
			ts = &tp
		}
		var rawItems []cbor.RawMessage
		if err := cbor.Unmarshal(arr[2], &rawItems); err != nil {
			return nil, decodeErrorf("rpt items: %v", err)
		}
		items := make([]ari.ARI, len(rawItems))
		for i, r := range rawItems {
			n, err := decodeNode(r, opts)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return ari.Rpt{Source: source, Timestamp: ts, Items: items}, nil
	}
	return nil, decodeErrorf("no decoder for type_code %d", kind)
}

func decodeTagTimepoint(raw cbor.RawMessage) (ari.TP, error) {
	var tag cbor.RawTag
	if err := cbor.Unmarshal(raw, &tag); err != nil {
		return ari.TP{}, decodeErrorf("timepoint tag: %v", err)
	}
	if tag.Number != TagTimepoint {
		return ari.TP{}, decodeErrorf("rpt timestamp carries tag %d, expected %d", tag.Number, TagTimepoint)
	}
	return decodeTPContent(tag.Content)
}

// decodeAMPayload is encodeAMPayload's inverse: an array of [key,
// value] pairs, rebuilt in wire order and validated for key uniqueness
// the same way ari.NewAM does for in-memory construction.
func decodeAMPayload(payload cbor.RawMessage, opts Options) (ari.Primitive, error) {
	var rawPairs []cbor.RawMessage
	if err := cbor.Unmarshal(payload, &rawPairs); err != nil {
		return nil, decodeErrorf("am: %v", err)
	}
	pairs := make([]ari.AMPair, len(rawPairs))
	for i, rp := range rawPairs {
		var pair [2]cbor.RawMessage
		if err := cbor.Unmarshal(rp, &pair); err != nil {
			return nil, decodeErrorf("am pair: %v", err)
		}
		k, err := decodeNode(pair[0], opts)
		if err != nil {
			return nil, err
		}
		v, err := decodeNode(pair[1], opts)
		if err != nil {
			return nil, err
		}
		pairs[i] = ari.AMPair{Key: k, Value: v}
	}
	am, err := ari.NewAM(pairs)
	if err != nil {
		return nil, decodeErrorf("am: %v", err)
	}
	return am, nil
}
