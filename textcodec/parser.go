// Package textcodec implements the URI-style text form: a hand-written
// recursive-descent parser over a character-class lexer, and a
// matching canonical-form formatter (spec.md §4.5, §9 — the reference
// implementation's generator-toolkit grammar is deliberately not
// reproduced here).
package textcodec

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/dtnma-project/ace-ari/ari"
)

// parser holds the scanning cursor plus the one piece of external
// context the grammar itself cannot supply: the epoch an ISO-8601 tp is
// converted against. Numeric tp/td values are already epoch offsets and
// are taken as written.
type parser struct {
	s     *scanner
	epoch time.Time
}

// Parse parses a single ARI from its text form, using the POSIX epoch
// for any ISO-8601 tp values. Object references are returned
// unresolved (spec.md §4.5's "Parser" subsection): resolving them
// against a catalog is always a separate step.
func Parse(input string) (ari.ARI, error) {
	return ParseWithEpoch(input, time.Unix(0, 0).UTC())
}

// ParseWithEpoch is Parse with an explicit epoch for converting ISO-8601
// tp values into epoch offsets (spec.md §9: "do NOT hardcode POSIX epoch").
func ParseWithEpoch(input string, epoch time.Time) (ari.ARI, error) {
	body := input
	if strings.HasPrefix(body, "ari:") {
		body = body[len("ari:"):]
	}
	p := &parser{s: newScanner(body), epoch: epoch}
	v, err := p.parseARI()
	if err != nil {
		return nil, err
	}
	if !p.s.eof() {
		return nil, p.s.errAt("trailing input after ARI")
	}
	return v, nil
}

func (p *parser) parseARI() (ari.ARI, error) {
	s := p.s
	if s.eof() {
		return nil, s.errAt("unexpected end of input")
	}
	if s.peek() != '/' {
		return nil, s.errAt("expected '/'")
	}
	s.advance()
	if !s.eof() && s.peek() == '/' {
		s.advance()
		return p.parseObjectRef()
	}
	return p.parseLiteral()
}

func (p *parser) parseLiteral() (ari.ARI, error) {
	s := p.s
	typeName, err := s.readRun()
	if err != nil {
		return nil, err
	}
	upper := strings.ToUpper(typeName)
	switch upper {
	case "NULL":
		return ari.Null{}, nil
	case "UNDEFINED":
		return ari.Undefined{}, nil
	}
	kind, ok := ari.BuiltinKindByName(upper)
	if !ok {
		return nil, s.errAt("unknown literal type " + typeName)
	}
	if err := s.expect('/'); err != nil {
		return nil, err
	}
	val, err := p.parseValue(kind)
	if err != nil {
		return nil, err
	}
	return ari.NewLiteral(ari.Builtin(kind), val), nil
}

func (p *parser) parseObjectRef() (ari.ARI, error) {
	s := p.s
	org, err := p.parseID()
	if err != nil {
		return nil, err
	}
	if err := s.expect('/'); err != nil {
		return nil, err
	}
	model, err := p.parseID()
	if err != nil {
		return nil, err
	}
	var rev *ari.Revision
	if !s.eof() && s.peek() == '@' {
		s.advance()
		rev, err = p.parseRevision()
		if err != nil {
			return nil, err
		}
	}
	if err := s.expect('/'); err != nil {
		return nil, err
	}
	typeName, err := s.readRun()
	if err != nil {
		return nil, err
	}
	objType, ok := ari.ObjectTypeByName(strings.ToUpper(typeName))
	if !ok {
		return nil, s.errAt("unknown object type " + typeName)
	}
	if err := s.expect('/'); err != nil {
		return nil, err
	}
	objID, err := p.parseID()
	if err != nil {
		return nil, err
	}
	var params []ari.ARI
	if !s.eof() && s.peek() == '(' {
		s.advance()
		params, err = p.parseParamList()
		if err != nil {
			return nil, err
		}
		if err := s.expect(')'); err != nil {
			return nil, err
		}
	}
	return &ari.ObjectRef{Org: org, Model: model, Revision: rev, ObjType: objType, Object: objID, Params: params}, nil
}

// parseID reads a symbolic ("foo") or numeric ("!12") identifier
// (spec.md §4.5: "distinguished syntactically by a leading !").
func (p *parser) parseID() (ari.ID, error) {
	s := p.s
	if !s.eof() && s.peek() == '!' {
		s.advance()
		digits, err := s.readRun()
		if err != nil {
			return ari.ID{}, err
		}
		n, perr := strconv.ParseInt(digits, 10, 64)
		if perr != nil {
			return ari.ID{}, s.errAt("malformed numeric identifier " + digits)
		}
		return ari.NumID(n), nil
	}
	text, err := s.readRun()
	if err != nil {
		return ari.ID{}, err
	}
	return ari.TextID(text), nil
}

func (p *parser) parseRevision() (*ari.Revision, error) {
	s := p.s
	run, err := s.readRun()
	if err != nil {
		return nil, err
	}
	parts := strings.Split(run, "-")
	if len(parts) != 3 {
		return nil, s.errAt("malformed revision date " + run)
	}
	year, e1 := strconv.Atoi(parts[0])
	month, e2 := strconv.Atoi(parts[1])
	day, e3 := strconv.Atoi(parts[2])
	if e1 != nil || e2 != nil || e3 != nil {
		return nil, s.errAt("malformed revision date " + run)
	}
	return &ari.Revision{Year: year, Month: month, Day: day}, nil
}

// parseParamList parses a comma-separated sequence of nested ARIs up to
// (not consuming) the closing ')'. An already-open, immediately-closed
// list yields an empty (non-nil) slice, distinct from omitted
// parentheses (ari.ObjectRef.Params's nil-means-absent convention).
func (p *parser) parseParamList() ([]ari.ARI, error) {
	s := p.s
	items := []ari.ARI{}
	if !s.eof() && s.peek() == ')' {
		return items, nil
	}
	for {
		item, err := p.parsePeer()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !s.eof() && s.peek() == ',' {
			s.advance()
			continue
		}
		break
	}
	return items, nil
}

// parsePeer parses one AC/AM/TBL/TBLT peer position: either a fully
// nested /TYPE/value literal (or // object reference), or a bare value
// whose literal kind is inferred from its own lexical shape — spec.md's
// grammar shows bare peers ("/AC/(a,b,c)", "/AM/(k1=v1,k2=v2)"), and
// golden vector S5 pins the inference down: "ari:/AM/(1=a,1=b)" parses
// "1" as INT and "a" as TEXT.
func (p *parser) parsePeer() (ari.ARI, error) {
	s := p.s
	if !s.eof() && s.peek() == '/' {
		return p.parseARI()
	}
	run, err := s.readRun()
	if err != nil {
		return nil, err
	}
	return bareLiteral(run), nil
}

// bareLiteral infers the narrowest literal kind an unwrapped run can
// carry: a boolean keyword, a decimal integer (always INT), or else plain
// text — akin to the bare-value defaulting cborcodec applies to an
// untyped wire scalar, which decodes a bare unsigned item as UINT instead
// (Options.RequireTyped is its opt-out; the text grammar has none, since
// spec.md's own grammar never shows a bare peer disambiguated any other
// way).
func bareLiteral(run string) ari.ARI {
	switch run {
	case "true":
		return ari.NewLiteral(ari.Builtin(ari.KindBool), ari.Bool(true))
	case "false":
		return ari.NewLiteral(ari.Builtin(ari.KindBool), ari.Bool(false))
	}
	if n, err := strconv.ParseInt(run, 10, 64); err == nil {
		return ari.NewLiteral(ari.Builtin(ari.KindInt), ari.Int(n))
	}
	return ari.NewLiteral(ari.Builtin(ari.KindText), ari.Text(run))
}

func (p *parser) parseValue(kind ari.BuiltinKind) (ari.Primitive, error) {
	s := p.s
	switch kind {
	case ari.KindBool:
		run, err := s.readRun()
		if err != nil {
			return nil, err
		}
		switch run {
		case "true":
			return ari.Bool(true), nil
		case "false":
			return ari.Bool(false), nil
		}
		return nil, s.errAt("malformed bool " + run)
	case ari.KindUint:
		n, err := p.readUint()
		if err != nil {
			return nil, err
		}
		return ari.Uint(n), nil
	case ari.KindUvast:
		n, err := p.readUint()
		if err != nil {
			return nil, err
		}
		return ari.Uvast(n), nil
	case ari.KindInt:
		n, err := p.readInt()
		if err != nil {
			return nil, err
		}
		return ari.Int(n), nil
	case ari.KindVast:
		n, err := p.readInt()
		if err != nil {
			return nil, err
		}
		return ari.Vast(n), nil
	case ari.KindReal32:
		run, err := s.readRun()
		if err != nil {
			return nil, err
		}
		f, perr := strconv.ParseFloat(run, 32)
		if perr != nil {
			return nil, s.errAt("malformed real32 " + run)
		}
		return ari.Real32(float32(f)), nil
	case ari.KindReal64:
		run, err := s.readRun()
		if err != nil {
			return nil, err
		}
		f, perr := strconv.ParseFloat(run, 64)
		if perr != nil {
			return nil, s.errAt("malformed real64 " + run)
		}
		return ari.Real64(f), nil
	case ari.KindText:
		run, err := s.readRun()
		if err != nil {
			return nil, err
		}
		return ari.Text(run), nil
	case ari.KindBytes:
		run, err := s.readRun()
		if err != nil {
			return nil, err
		}
		raw, herr := hex.DecodeString(run)
		if herr != nil {
			return nil, s.errAt("malformed hex bytes " + run)
		}
		return ari.Bytes(raw), nil
	case ari.KindTP:
		return p.parseTP()
	case ari.KindTD:
		return p.parseTD()
	case ari.KindAC:
		return p.parseAC()
	case ari.KindAM:
		return p.parseAM()
	case ari.KindTBL:
		return p.parseTBL()
	case ari.KindTBLT:
		return p.parseTBLT()
	case ari.KindExecSet:
		return p.parseExecSet()
	case ari.KindRptSet:
		return p.parseRptSet()
	case ari.KindRpt:
		return p.parseRpt()
	}
	return nil, s.errAt("unsupported literal type")
}

func (p *parser) readUint() (uint64, error) {
	run, err := p.s.readRun()
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseUint(run, 10, 64)
	if perr != nil {
		return 0, p.s.errAt("malformed unsigned integer " + run)
	}
	return n, nil
}

func (p *parser) readInt() (int64, error) {
	run, err := p.s.readRun()
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseInt(run, 10, 64)
	if perr != nil {
		return 0, p.s.errAt("malformed integer " + run)
	}
	return n, nil
}

func isNumericTimeForm(run string) bool {
	if run == "" {
		return false
	}
	i := 0
	if run[0] == '-' {
		i++
	}
	seenDigit, seenDot := false, false
	for ; i < len(run); i++ {
		switch {
		case isDigit(run[i]):
			seenDigit = true
		case run[i] == '.' && !seenDot:
			seenDot = true
		default:
			return false
		}
	}
	return seenDigit
}

func (p *parser) parseTP() (ari.Primitive, error) {
	run, err := p.s.readRun()
	if err != nil {
		return nil, err
	}
	if isNumericTimeForm(run) {
		secs, nanos, perr := splitDecimalSeconds(run)
		if perr != nil {
			return nil, p.s.errAt(perr.Error())
		}
		return ari.TP{Seconds: secs, Nanos: nanos}, nil
	}
	t, perr := time.Parse(time.RFC3339Nano, run)
	if perr != nil {
		return nil, p.s.errAt("malformed timepoint " + run)
	}
	return ari.TPFromTime(t, p.epoch), nil
}

func (p *parser) parseTD() (ari.Primitive, error) {
	run, err := p.s.readRun()
	if err != nil {
		return nil, err
	}
	if isNumericTimeForm(run) {
		secs, nanos, perr := splitDecimalSeconds(run)
		if perr != nil {
			return nil, p.s.errAt(perr.Error())
		}
		return ari.TD{Seconds: secs, Nanos: nanos}, nil
	}
	secs, nanos, perr := parseISO8601Duration(run)
	if perr != nil {
		return nil, p.s.errAt(perr.Error())
	}
	return ari.TD{Seconds: secs, Nanos: nanos}, nil
}

func splitDecimalSeconds(run string) (int64, int32, error) {
	f, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0, 0, err
	}
	whole := int64(f)
	frac := f - float64(whole)
	return whole, int32(frac * 1e9), nil
}

func (p *parser) parseAC() (ari.Primitive, error) {
	s := p.s
	if err := s.expect('('); err != nil {
		return nil, err
	}
	items, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}
	return ari.AC{Items: items}, nil
}

func (p *parser) parseAM() (ari.Primitive, error) {
	s := p.s
	if err := s.expect('('); err != nil {
		return nil, err
	}
	var pairs []ari.AMPair
	if !s.eof() && s.peek() != ')' {
		for {
			key, err := p.parsePeer()
			if err != nil {
				return nil, err
			}
			if err := s.expect('='); err != nil {
				return nil, err
			}
			value, err := p.parsePeer()
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ari.AMPair{Key: key, Value: value})
			if !s.eof() && s.peek() == ',' {
				s.advance()
				continue
			}
			break
		}
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}
	am, err := ari.NewAM(pairs)
	if err != nil {
		if _, ok := err.(ari.DuplicateMapKeyError); ok {
			return nil, ParseError{Pos: s.pposition(), Msg: err.Error(), Kind: KindDuplicateMapKey}
		}
		return nil, s.errAt(err.Error())
	}
	return am, nil
}

// parseTBL reads "c=<N>;(<cell>,<cell>,...)". Column types are not
// carried in the header (spec.md §4.5's example omits them); this
// parser infers each column's type from the corresponding cell in the
// first row, since every cell is itself a typed literal.
func (p *parser) parseTBL() (ari.Primitive, error) {
	s := p.s
	n, err := p.parseHeaderUint("c")
	if err != nil {
		return nil, err
	}
	if err := s.expect('('); err != nil {
		return nil, err
	}
	cells, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}
	columns := int(n)
	colTypes := make([]ari.TypeRef, columns)
	for i := 0; i < columns && i < len(cells); i++ {
		if lit, ok := cells[i].(*ari.Literal); ok {
			colTypes[i] = lit.Type
		}
	}
	tbl, terr := ari.NewTBL(columns, colTypes, cells)
	if terr != nil {
		return nil, s.errAt(terr.Error())
	}
	return tbl, nil
}

// parseHeaderUint reads "<name>=<digits>;", the header shape shared by
// tbl's column count and execset/rptset's nonce.
func (p *parser) parseHeaderUint(name string) (uint64, error) {
	s := p.s
	if err := s.expectStr(name); err != nil {
		return 0, err
	}
	if err := s.expect('='); err != nil {
		return 0, err
	}
	digits, err := s.readRun()
	if err != nil {
		return 0, err
	}
	if err := s.expect(';'); err != nil {
		return 0, err
	}
	n, perr := strconv.ParseUint(digits, 10, 64)
	if perr != nil {
		return 0, s.errAt("malformed header value " + digits)
	}
	return n, nil
}

// parseTBLT reads "(name=<value>,...)"; each field's type is inferred
// from its value's own literal type, the same convention parseTBL uses.
func (p *parser) parseTBLT() (ari.Primitive, error) {
	s := p.s
	if err := s.expect('('); err != nil {
		return nil, err
	}
	var fields []ari.TBLTField
	if !s.eof() && s.peek() != ')' {
		for {
			name, err := s.readRun()
			if err != nil {
				return nil, err
			}
			if err := s.expect('='); err != nil {
				return nil, err
			}
			value, err := p.parsePeer()
			if err != nil {
				return nil, err
			}
			var t ari.TypeRef
			if lit, ok := value.(*ari.Literal); ok {
				t = lit.Type
			}
			fields = append(fields, ari.TBLTField{Name: name, Type: t, Value: value})
			if !s.eof() && s.peek() == ',' {
				s.advance()
				continue
			}
			break
		}
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}
	return ari.TBLT{Fields: fields}, nil
}

// parseExecSet reads "n=<nonce>;(<target>,...)" (spec.md §8 S1).
func (p *parser) parseExecSet() (ari.Primitive, error) {
	s := p.s
	n, err := p.parseHeaderUint("n")
	if err != nil {
		return nil, err
	}
	if err := s.expect('('); err != nil {
		return nil, err
	}
	targets, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}
	nonce := ari.NewLiteral(ari.Builtin(ari.KindUint), ari.Uint(n))
	return ari.ExecSet{Nonce: nonce, Targets: targets}, nil
}

// parseRptSet reads "n=<nonce>;(<rpt>,...)", mirroring execset's
// header shape (no golden vector pins this one down; documented as a
// deliberate extrapolation from S1's execset grammar).
func (p *parser) parseRptSet() (ari.Primitive, error) {
	s := p.s
	n, err := p.parseHeaderUint("n")
	if err != nil {
		return nil, err
	}
	if err := s.expect('('); err != nil {
		return nil, err
	}
	var reports []ari.Rpt
	if !s.eof() && s.peek() != ')' {
		for {
			item, err := p.parseARI()
			if err != nil {
				return nil, err
			}
			lit, ok := item.(*ari.Literal)
			if !ok {
				return nil, s.errAt("rptset entries must be rpt literals")
			}
			rpt, ok := lit.Value.(ari.Rpt)
			if !ok {
				return nil, s.errAt("rptset entries must be rpt literals")
			}
			reports = append(reports, rpt)
			if !s.eof() && s.peek() == ',' {
				s.advance()
				continue
			}
			break
		}
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}
	nonce := ari.NewLiteral(ari.Builtin(ari.KindUint), ari.Uint(n))
	return ari.RptSet{Nonce: nonce, Reports: reports}, nil
}

// parseRpt reads "source=<ref>;[ts=<tp>;](<item>,...)".
func (p *parser) parseRpt() (ari.Primitive, error) {
	s := p.s
	if err := s.expectStr("source"); err != nil {
		return nil, err
	}
	if err := s.expect('='); err != nil {
		return nil, err
	}
	source, err := p.parseARI()
	if err != nil {
		return nil, err
	}
	if err := s.expect(';'); err != nil {
		return nil, err
	}
	var ts *ari.TP
	if s.hasPrefix("ts=") {
		if err := s.expectStr("ts"); err != nil {
			return nil, err
		}
		if err := s.expect('='); err != nil {
			return nil, err
		}
		tpVal, err := p.parseARI()
		if err != nil {
			return nil, err
		}
		if lit, ok := tpVal.(*ari.Literal); ok {
			if tp, ok2 := lit.Value.(ari.TP); ok2 {
				ts = &tp
			}
		}
		if err := s.expect(';'); err != nil {
			return nil, err
		}
	}
	if err := s.expect('('); err != nil {
		return nil, err
	}
	items, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}
	return ari.Rpt{Source: source, Timestamp: ts, Items: items}, nil
}
