package cborcodec

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/dtnma-project/ace-ari/ari"
)

func TestEncodeUndefinedTopLevel(t *testing.T) {
	got, err := Encode(ari.Undefined{}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0xF7}) {
		t.Fatalf("got % X, want F7", got)
	}
}

func TestRoundTripNull(t *testing.T) {
	// S2: ari:/NULL -> 0xF6.
	got, err := Encode(ari.Null{}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0xF6}) {
		t.Fatalf("got % X, want F6", got)
	}
	back, err := Decode(got, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := back.(ari.Null); !ok {
		t.Fatalf("got %T, want ari.Null", back)
	}
}

func TestEncodeIntMatchesGoldenVector(t *testing.T) {
	// S3: ari:/INT/-7 -> 82 04 26 (array of [type_code=4, -7]).
	lit := ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(-7))
	got, err := Encode(lit, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x82, 0x04, 0x26}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestRoundTripInt(t *testing.T) {
	lit := ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(-7))
	enc, err := Encode(lit, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(enc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got, ok := back.(*ari.Literal)
	if !ok {
		t.Fatalf("got %T, want *ari.Literal", back)
	}
	if got.Value.(ari.Int) != -7 {
		t.Fatalf("got %v, want -7", got.Value)
	}
}

func TestRoundTripAC(t *testing.T) {
	ac := ari.AC{Items: []ari.ARI{
		ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(1)),
		ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(2)),
		ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(3)),
	}}
	lit := ari.NewLiteral(ari.Builtin(ari.KindAC), ac)
	enc, err := Encode(lit, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(enc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !ari.Equal(lit, back) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", back, lit)
	}
}

func TestDecodeAMRejectsDuplicateKey(t *testing.T) {
	// Build the raw wire form by hand since ari.NewAM would reject the
	// duplicate before Encode ever sees it.
	opts := DefaultOptions()
	k := ari.NewLiteral(ari.Builtin(ari.KindText), ari.Text("dup"))
	v1 := ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(1))
	v2 := ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(2))
	kNode, err := encodeNode(k, opts)
	if err != nil {
		t.Fatal(err)
	}
	v1Node, err := encodeNode(v1, opts)
	if err != nil {
		t.Fatal(err)
	}
	v2Node, err := encodeNode(v2, opts)
	if err != nil {
		t.Fatal(err)
	}
	payload := []interface{}{
		[]interface{}{kNode, v1Node},
		[]interface{}{kNode, v2Node},
	}
	raw, err := encMode.Marshal([]interface{}{uint8(ari.KindAM), payload})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(raw, opts); err == nil {
		t.Fatal("expected decode error for duplicate am key")
	}
}

func TestRoundTripObjectRefWithParams(t *testing.T) {
	ref := &ari.ObjectRef{
		Org:     ari.TextID("ietf"),
		Model:   ari.TextID("dtnma-agent"),
		ObjType: ari.ObjTypeCtrl,
		Object:  ari.TextID("inspect"),
		Params: []ari.ARI{
			&ari.ObjectRef{
				Org:     ari.TextID("ietf"),
				Model:   ari.TextID("dtnma-agent"),
				ObjType: ari.ObjTypeEDD,
				Object:  ari.TextID("sw-version"),
			},
		},
	}
	enc, err := Encode(ref, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(enc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !ari.Equal(ref, back) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", back, ref)
	}
}

func TestRoundTripObjectRefWithRevision(t *testing.T) {
	ref := &ari.ObjectRef{
		Org:      ari.TextID("ietf"),
		Model:    ari.TextID("dtnma-agent"),
		Revision: &ari.Revision{Year: 2024, Month: 6, Day: 1},
		ObjType:  ari.ObjTypeEDD,
		Object:   ari.TextID("sw-version"),
	}
	enc, err := Encode(ref, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(enc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !ari.Equal(ref, back) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", back, ref)
	}
}

func TestRoundTripTP(t *testing.T) {
	lit := ari.NewLiteral(ari.Builtin(ari.KindTP), ari.TP{Seconds: 1717200000})
	enc, err := Encode(lit, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// Tag 1 header (0xC1) followed by the unsigned seconds value.
	if enc[0] != 0xC1 {
		t.Fatalf("got leading byte %X, want tag 1 (C1)", enc[0])
	}
	back, err := Decode(enc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !ari.Equal(lit, back) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", back, lit)
	}
}

func TestRoundTripTD(t *testing.T) {
	lit := ari.NewLiteral(ari.Builtin(ari.KindTD), ari.TD{Seconds: 5400})
	enc, err := Encode(lit, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(enc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !ari.Equal(lit, back) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", back, lit)
	}
}

func TestDecodeUnknownTagIsError(t *testing.T) {
	tagged, err := encMode.Marshal(cbor.Tag{Number: 999, Content: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(tagged, DefaultOptions()); err == nil {
		t.Fatal("expected DecodeError for unrecognized tag")
	} else if de, ok := err.(DecodeError); !ok || !de.UnknownTag {
		t.Fatalf("got %#v, want DecodeError{UnknownTag:true}", err)
	}
}

func TestDecodeUnknownTagAllowed(t *testing.T) {
	tagged, err := encMode.Marshal(cbor.Tag{Number: 999, Content: []byte{0x01, 0x02}})
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.AllowUnknownTags = true
	back, err := Decode(tagged, opts)
	if err != nil {
		t.Fatal(err)
	}
	lit, ok := back.(*ari.Literal)
	if !ok {
		t.Fatalf("got %T, want *ari.Literal", back)
	}
	if _, ok := lit.Value.(ari.Bytes); !ok {
		t.Fatalf("got %T, want ari.Bytes", lit.Value)
	}
}

func TestRoundTripExecSet(t *testing.T) {
	// Shaped after S1 (ari:/EXECSET/n=123;(//ietf/dtnma-agent/CTRL/inspect(...))),
	// but the target here carries no parameters.
	target := &ari.ObjectRef{
		Org:     ari.TextID("ietf"),
		Model:   ari.TextID("dtnma-agent"),
		ObjType: ari.ObjTypeCtrl,
		Object:  ari.TextID("inspect"),
	}
	es := ari.ExecSet{
		Nonce:   ari.NewLiteral(ari.Builtin(ari.KindUint), ari.Uint(123)),
		Targets: []ari.ARI{target},
	}
	lit := ari.NewLiteral(ari.Builtin(ari.KindExecSet), es)
	enc, err := Encode(lit, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(enc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !ari.Equal(lit, back) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", back, lit)
	}
}
