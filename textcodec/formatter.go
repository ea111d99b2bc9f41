package textcodec

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dtnma-project/ace-ari/ari"
)

// Format renders v in canonical text form under opts (spec.md §4.5's
// "Formatter" subsection).
func Format(v ari.ARI, opts Options) (string, error) {
	var b strings.Builder
	if opts.TextIdentity {
		b.WriteString("ari:")
	}
	if err := formatARI(&b, v, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func formatARI(b *strings.Builder, v ari.ARI, opts Options) error {
	switch t := v.(type) {
	case ari.Undefined:
		b.WriteString("/UNDEFINED")
		return nil
	case ari.Null:
		b.WriteString("/NULL")
		return nil
	case *ari.ObjectRef:
		return formatObjectRef(b, t, opts)
	case *ari.Literal:
		return formatLiteral(b, t, opts)
	}
	return FormatError{Msg: fmt.Sprintf("unrenderable ARI variant %T", v)}
}

func formatObjectRef(b *strings.Builder, ref *ari.ObjectRef, opts Options) error {
	b.WriteString("//")
	if err := formatID(b, ref.Org, opts); err != nil {
		return err
	}
	b.WriteString("/")
	if err := formatID(b, ref.Model, opts); err != nil {
		return err
	}
	if ref.Revision != nil {
		b.WriteString("@")
		b.WriteString(ref.Revision.String())
	}
	b.WriteString("/")
	b.WriteString(ref.ObjType.String())
	b.WriteString("/")
	if err := formatID(b, ref.Object, opts); err != nil {
		return err
	}
	if ref.Params != nil {
		b.WriteString("(")
		for i, param := range ref.Params {
			if i > 0 {
				b.WriteString(",")
			}
			if err := formatARI(b, param, opts); err != nil {
				return err
			}
		}
		b.WriteString(")")
	}
	return nil
}

func formatID(b *strings.Builder, id ari.ID, opts Options) error {
	if opts.NumericNames && !id.IsNumeric {
		return FormatError{Msg: "numeric_names requested but identifier " + id.Text + " has no numeric form"}
	}
	if id.IsNumeric {
		b.WriteString("!")
		b.WriteString(strconv.FormatInt(id.Num, 10))
		return nil
	}
	b.WriteString(percentEncode(id.Text))
	return nil
}

// percentEncode escapes every byte outside the grammar's unreserved set
// (lexer.go's isUnreserved), mirroring readRun's decoding exactly so
// format/parse round-trip.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func formatLiteral(b *strings.Builder, lit *ari.Literal, opts Options) error {
	kind, err := inferKind(lit.Value)
	if err != nil {
		return err
	}
	b.WriteString("/")
	b.WriteString(strings.ToUpper(kind.String()))
	b.WriteString("/")
	return formatValue(b, lit.Value, opts)
}

// inferKind derives the text-grammar type keyword from the Go type of a
// primitive value, rather than from the literal's declared TypeRef: the
// literal grammar only ever names a built-in kind (spec.md §4.5's
// example `/INT/-7` never spells out an ADM type name), so ADM-typed
// values round-trip through their underlying built-in representation.
func inferKind(v ari.Primitive) (ari.BuiltinKind, error) {
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
	return 0, FormatError{Msg: fmt.Sprintf("no text-form kind for primitive %T", v)}
}

func formatValue(b *strings.Builder, v ari.Primitive, opts Options) error {
	switch t := v.(type) {
	case ari.Bool:
		b.WriteString(strconv.FormatBool(bool(t)))
	case ari.Uint:
		b.WriteString(strconv.FormatUint(uint64(t), 10))
	case ari.Int:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case ari.Uvast:
		b.WriteString(strconv.FormatUint(uint64(t), 10))
	case ari.Vast:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case ari.Real32:
		formatFloat(b, float64(t), 32, opts)
	case ari.Real64:
		formatFloat(b, float64(t), 64, opts)
	case ari.Text:
		b.WriteString(percentEncode(string(t)))
	case ari.Bytes:
		b.WriteString(hex.EncodeToString(t))
	case ari.TP:
		formatTP(b, t, opts)
	case ari.TD:
		formatTD(b, t, opts)
	case ari.AC:
		return formatAC(b, t, opts)
	case ari.AM:
		return formatAM(b, t, opts)
	case ari.TBL:
		return formatTBL(b, t, opts)
	case ari.TBLT:
		return formatTBLT(b, t, opts)
	case ari.ExecSet:
		return formatExecSet(b, t, opts)
	case ari.RptSet:
		return formatRptSet(b, t, opts)
	case ari.Rpt:
		return formatRpt(b, t, opts)
	default:
		return FormatError{Msg: fmt.Sprintf("unhandled primitive %T", v)}
	}
	return nil
}

func formatFloat(b *strings.Builder, f float64, bits int, opts Options) {
	if opts.FloatFormat == FloatFormatDecimal {
		b.WriteString(strconv.FormatFloat(f, 'f', -1, bits))
		return
	}
	b.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
}

func formatTP(b *strings.Builder, tp ari.TP, opts Options) {
	if opts.TimeFormat == TimeFormatNumeric {
		writeDecimalSeconds(b, tp.Seconds, tp.Nanos)
		return
	}
	t := tp.ToTime(opts.Epoch)
	b.WriteString(t.UTC().Format(time.RFC3339Nano))
}

func formatTD(b *strings.Builder, td ari.TD, opts Options) {
	if opts.TimeFormat == TimeFormatNumeric {
		writeDecimalSeconds(b, td.Seconds, td.Nanos)
		return
	}
	b.WriteString(formatISO8601Duration(td.Seconds, td.Nanos))
}

func writeDecimalSeconds(b *strings.Builder, seconds int64, nanos int32) {
	b.WriteString(strconv.FormatInt(seconds, 10))
	if nanos != 0 {
		fmt.Fprintf(b, ".%09d", nanos)
	}
}

func formatAC(b *strings.Builder, ac ari.AC, opts Options) error {
	b.WriteString("(")
	for i, item := range ac.Items {
		if i > 0 {
			b.WriteString(",")
		}
		if err := formatARI(b, item, opts); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}

func formatAM(b *strings.Builder, am ari.AM, opts Options) error {
	b.WriteString("(")
	for i, pair := range am.Pairs {
		if i > 0 {
			b.WriteString(",")
		}
		if err := formatARI(b, pair.Key, opts); err != nil {
			return err
		}
		b.WriteString("=")
		if err := formatARI(b, pair.Value, opts); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}

func formatTBL(b *strings.Builder, tbl ari.TBL, opts Options) error {
	fmt.Fprintf(b, "c=%d;(", tbl.Columns)
	for i, cell := range tbl.Cells {
		if i > 0 {
			b.WriteString(",")
		}
		if err := formatARI(b, cell, opts); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}

func formatTBLT(b *strings.Builder, tblt ari.TBLT, opts Options) error {
	b.WriteString("(")
	for i, f := range tblt.Fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(percentEncode(f.Name))
		b.WriteString("=")
		if err := formatARI(b, f.Value, opts); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}

func formatNonce(nonce ari.ARI) string {
	if lit, ok := nonce.(*ari.Literal); ok {
		if u, ok := lit.Value.(ari.Uint); ok {
			return strconv.FormatUint(uint64(u), 10)
		}
	}
	return fmt.Sprint(nonce)
}

func formatExecSet(b *strings.Builder, es ari.ExecSet, opts Options) error {
	fmt.Fprintf(b, "n=%s;(", formatNonce(es.Nonce))
	for i, target := range es.Targets {
		if i > 0 {
			b.WriteString(",")
		}
		if err := formatARI(b, target, opts); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}

func formatRptSet(b *strings.Builder, rs ari.RptSet, opts Options) error {
	fmt.Fprintf(b, "n=%s;(", formatNonce(rs.Nonce))
	for i, r := range rs.Reports {
		if i > 0 {
			b.WriteString(",")
		}
		if err := formatARI(b, ari.NewLiteral(ari.Builtin(ari.KindRpt), r), opts); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}

func formatRpt(b *strings.Builder, r ari.Rpt, opts Options) error {
	b.WriteString("source=")
	if err := formatARI(b, r.Source, opts); err != nil {
		return err
	}
	b.WriteString(";")
	if r.Timestamp != nil {
		b.WriteString("ts=")
		if err := formatARI(b, ari.NewLiteral(ari.Builtin(ari.KindTP), *r.Timestamp), opts); err != nil {
			return err
		}
		b.WriteString(";")
	}
	b.WriteString("(")
	for i, item := range r.Items {
		if i > 0 {
			b.WriteString(",")
		}
		if err := formatARI(b, item, opts); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}
