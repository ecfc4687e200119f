package protoskema

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/ericlagergren/decimal"
	"github.com/reoring/protoskema/internal/wire"
)

// reader is a cursor over one frame. Nested length-delimited frames get their
// own reader whose base preserves the absolute offset for error reporting.
type reader struct {
	buf  []byte
	pos  int
	base int64
}

func (r *reader) rem() int   { return len(r.buf) - r.pos }
func (r *reader) off() int64 { return r.base + int64(r.pos) }

func (r *reader) wireErr(err error, path string) error {
	if errors.Is(err, wire.ErrVarintTooLong) {
		return issuef(path, CodeVarintTooLong, r.off(), "Varint too long")
	}
	return issuef(path, CodeTruncated, r.off(), "Unexpected end of chunk")
}

func (r *reader) uvarint(path string) (uint64, error) {
	v, n, err := wire.Uvarint(r.buf[r.pos:])
	if err != nil {
		return 0, r.wireErr(err, path)
	}
	r.pos += n
	return v, nil
}

// key reads and validates the next field key.
func (r *reader) key(path string) (int, wire.Type, error) {
	off := r.off()
	k, err := r.uvarint(path)
	if err != nil {
		return 0, 0, err
	}
	field, wt := wire.SplitKey(k)
	if !wt.Valid() {
		return 0, 0, issuef(path, CodeUnknownWireType, off, "Failed decoding key: unknown wire type %d", wt)
	}
	if field == 0 {
		return 0, 0, issuef(path, CodeInvalidFieldNumber, off, "Failed decoding key: invalid field number %d", field)
	}
	return field, wt, nil
}

func (r *reader) fixed32(path string) (uint32, error) {
	v, n, err := wire.Fixed32(r.buf[r.pos:])
	if err != nil {
		return 0, r.wireErr(err, path)
	}
	r.pos += n
	return v, nil
}

func (r *reader) fixed64(path string) (uint64, error) {
	v, n, err := wire.Fixed64(r.buf[r.pos:])
	if err != nil {
		return 0, r.wireErr(err, path)
	}
	r.pos += n
	return v, nil
}

// delimited reads one length-delimited payload and returns it together with
// its absolute base offset.
func (r *reader) delimited(path string) ([]byte, int64, error) {
	payload, n, err := wire.Delimited(r.buf[r.pos:])
	if err != nil {
		return nil, 0, r.wireErr(err, path)
	}
	base := r.off() + int64(n-len(payload))
	r.pos += n
	return payload, base, nil
}

// skip discards one payload according to its wire type.
func (r *reader) skip(wt wire.Type, path string) error {
	switch wt {
	case wire.TVarint:
		_, err := r.uvarint(path)
		return err
	case wire.TFixed32:
		_, err := r.fixed32(path)
		return err
	case wire.TFixed64:
		_, err := r.fixed64(path)
		return err
	default:
		_, _, err := r.delimited(path)
		return err
	}
}

// decodeValue decodes one top-level frame: record-like schemas read their own
// field frame, everything else reads the implicit single-field record.
func decodeValue(s Schema, data []byte) (any, error) {
	switch n := s.(type) {
	case *Transform:
		v, err := decodeValue(n.Inner, data)
		if err != nil {
			return nil, err
		}
		out, err := n.Forward(v)
		if err != nil {
			return nil, Issues{{Path: "", Code: CodeTransformFailed, Message: err.Error(), Cause: err, Offset: -1}}
		}
		return out, nil
	case *Fail:
		return nil, issuef("", CodeSchemaFail, 0, "%s", n.Message)
	}

	r := &reader{buf: data}
	switch n := s.(type) {
	case *Record:
		return decodeRecordBody(r, n.Fields, "")
	case *Tuple:
		return decodeTupleBody(r, n, "")
	case *Enumeration:
		return decodeEnumBody(r, n, "")
	case *Optional:
		fields := []Field{{Name: "value", Schema: n.Inner}}
		vals, seen, err := readFrame(r, fields, "")
		if err != nil {
			return nil, err
		}
		if !seen[0] {
			return nil, nil
		}
		return applyForward(n.Inner, vals[0], "/value")
	default:
		fields := []Field{{Name: "value", Schema: s}}
		vals, seen, err := readFrame(r, fields, "")
		if err != nil {
			return nil, err
		}
		return finalizeField(fields[0], vals[0], seen[0], "")
	}
}

func decodeRecordBody(r *reader, fields []Field, path string) (map[string]any, error) {
	vals, seen, err := readFrame(r, fields, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields))
	for i, f := range fields {
		v, err := finalizeField(f, vals[i], seen[i], path)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func decodeTupleBody(r *reader, t *Tuple, path string) (Pair, error) {
	fields := []Field{{Name: "_1", Schema: t.Left}, {Name: "_2", Schema: t.Right}}
	m, err := decodeRecordBody(r, fields, path)
	if err != nil {
		return Pair{}, err
	}
	return Pair{First: m["_1"], Second: m["_2"]}, nil
}

// readFrame walks key/payload pairs until the frame is exhausted, skipping
// unknown field numbers. Sequence-typed fields accumulate across repeated
// keys; every other field keeps the last payload seen. Transforms are applied
// afterwards, in finalizeField, so repeated entries accumulate on the inner
// representation.
func readFrame(r *reader, fields []Field, path string) ([]any, []bool, error) {
	vals := make([]any, len(fields))
	seen := make([]bool, len(fields))
	for r.rem() > 0 {
		field, wt, err := r.key(path)
		if err != nil {
			return nil, nil, err
		}
		if field > len(fields) {
			if err := r.skip(wt, path); err != nil {
				return nil, nil, err
			}
			continue
		}
		i := field - 1
		f := fields[i]
		fpath := path + "/" + f.Name
		if seq, ok := unwrapTransform(f.Schema).(*Sequence); ok {
			elems, _ := vals[i].([]any)
			elems, err = decodeSequenceOccurrence(r, wt, seq, elems, fpath)
			if err != nil {
				return nil, nil, err
			}
			vals[i], seen[i] = elems, true
			continue
		}
		v, err := decodeSingle(r, wt, unwrapTransform(f.Schema), fpath)
		if err != nil {
			return nil, nil, err
		}
		vals[i], seen[i] = v, true
	}
	return vals, seen, nil
}

// finalizeField turns the raw accumulated value of one field into its final
// form: type default when unseen, forward-transformed otherwise.
func finalizeField(f Field, raw any, wasSeen bool, path string) (any, error) {
	fpath := path + "/" + f.Name
	if !wasSeen {
		if _, ok := unwrapTransform(f.Schema).(*Sequence); ok {
			return applyForward(f.Schema, []any{}, fpath)
		}
		return defaultValue(f.Schema, fpath)
	}
	return applyForward(f.Schema, raw, fpath)
}

// decodeSingle decodes one non-repeated payload whose transforms have already
// been stripped by the caller.
func decodeSingle(r *reader, wt wire.Type, s Schema, path string) (any, error) {
	switch n := s.(type) {
	case *Primitive:
		return decodePrimitive(r, wt, n.Type, path)
	case *Record:
		sub, err := subReader(r, wt, path)
		if err != nil {
			return nil, err
		}
		return decodeRecordBody(sub, n.Fields, path)
	case *Tuple:
		sub, err := subReader(r, wt, path)
		if err != nil {
			return nil, err
		}
		return decodeTupleBody(sub, n, path)
	case *Optional:
		sub, err := subReader(r, wt, path)
		if err != nil {
			return nil, err
		}
		fields := []Field{{Name: "value", Schema: n.Inner}}
		vals, seen, err := readFrame(sub, fields, path)
		if err != nil {
			return nil, err
		}
		// presence of the enclosing field already means Some; an empty
		// frame carries the inner default
		return finalizeField(fields[0], vals[0], seen[0], path)
	case *Enumeration:
		sub, err := subReader(r, wt, path)
		if err != nil {
			return nil, err
		}
		return decodeEnumBody(sub, n, path)
	case *Sequence:
		// a sequence framed standalone (element of an outer sequence)
		sub, err := subReader(r, wt, path)
		if err != nil {
			return nil, err
		}
		fields := []Field{{Name: "value", Schema: n}}
		vals, seen, err := readFrame(sub, fields, path)
		if err != nil {
			return nil, err
		}
		return finalizeField(fields[0], vals[0], seen[0], path)
	case *Fail:
		return nil, issuef(path, CodeSchemaFail, r.off(), "%s", n.Message)
	}
	return nil, issuef(path, CodeInvalidType, r.off(), "unsupported schema node %T", s)
}

func subReader(r *reader, wt wire.Type, path string) (*reader, error) {
	if wt != wire.TDelimited {
		return nil, issuef(path, CodeInvalidFormat, r.off(), "unexpected wire type %d for nested frame", wt)
	}
	payload, base, err := r.delimited(path)
	if err != nil {
		return nil, err
	}
	return &reader{buf: payload, base: base}, nil
}

func decodeEnumBody(r *reader, e *Enumeration, path string) (EnumValue, error) {
	vals := make([]any, len(e.Cases))
	last := -1
	for r.rem() > 0 {
		field, wt, err := r.key(path)
		if err != nil {
			return EnumValue{}, err
		}
		if field > len(e.Cases) {
			if err := r.skip(wt, path); err != nil {
				return EnumValue{}, err
			}
			continue
		}
		i := field - 1
		c := e.Cases[i]
		cpath := path + "/" + c.Name
		if seq, ok := unwrapTransform(c.Schema).(*Sequence); ok {
			elems, _ := vals[i].([]any)
			elems, err = decodeSequenceOccurrence(r, wt, seq, elems, cpath)
			if err != nil {
				return EnumValue{}, err
			}
			vals[i] = elems
		} else {
			v, err := decodeSingle(r, wt, unwrapTransform(c.Schema), cpath)
			if err != nil {
				return EnumValue{}, err
			}
			vals[i] = v
		}
		last = i
	}
	if last < 0 {
		return EnumValue{}, issuef(path, CodeMissingEnumCase, r.off(), "missing enumeration case")
	}
	c := e.Cases[last]
	v, err := applyForward(c.Schema, vals[last], path+"/"+c.Name)
	if err != nil {
		return EnumValue{}, err
	}
	return EnumValue{Case: c.Name, Value: v}, nil
}

// decodeSequenceOccurrence handles one key occurrence of a sequence-typed
// field: a length-delimited payload whose elements expect a fixed wire type
// decodes packed, anything else appends a single unpacked element.
func decodeSequenceOccurrence(r *reader, wt wire.Type, seq *Sequence, elems []any, path string) ([]any, error) {
	es := seq.Element
	core := unwrapTransform(es)
	if wt == wire.TDelimited && packedElement(core) {
		p := core.(*Primitive)
		sub, err := subReader(r, wt, path)
		if err != nil {
			return nil, err
		}
		for sub.rem() > 0 {
			epath := path + "/" + strconv.Itoa(len(elems))
			raw, err := decodePackedScalar(sub, p.Type, epath)
			if err != nil {
				return nil, err
			}
			v, err := applyForward(es, raw, epath)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return elems, nil
	}
	v, err := decodeElement(r, wt, es, path+"/"+strconv.Itoa(len(elems)))
	if err != nil {
		return nil, err
	}
	return append(elems, v), nil
}

func decodeElement(r *reader, wt wire.Type, es Schema, path string) (any, error) {
	core := unwrapTransform(es)
	raw, err := decodeSingle(r, wt, core, path)
	if err != nil {
		return nil, err
	}
	return applyForward(es, raw, path)
}

func decodePackedScalar(r *reader, t StandardType, path string) (any, error) {
	switch t.Kind {
	case KindFloat:
		bits, err := r.fixed32(path)
		if err != nil {
			return nil, err
		}
		return convertFixed32(t, bits), nil
	case KindDouble:
		bits, err := r.fixed64(path)
		if err != nil {
			return nil, err
		}
		return convertFixed64(t, bits), nil
	default:
		u, err := r.uvarint(path)
		if err != nil {
			return nil, err
		}
		return convertVarint(t, u, path)
	}
}

func decodePrimitive(r *reader, wt wire.Type, t StandardType, path string) (any, error) {
	want := wireTypeOf(&Primitive{Type: t})
	if wt != want {
		return nil, issuef(path, CodeInvalidFormat, r.off(), "unexpected wire type %d for primitive", wt)
	}
	switch want {
	case wire.TVarint:
		u, err := r.uvarint(path)
		if err != nil {
			return nil, err
		}
		return convertVarint(t, u, path)
	case wire.TFixed32:
		bits, err := r.fixed32(path)
		if err != nil {
			return nil, err
		}
		return convertFixed32(t, bits), nil
	case wire.TFixed64:
		bits, err := r.fixed64(path)
		if err != nil {
			return nil, err
		}
		return convertFixed64(t, bits), nil
	default:
		payload, base, err := r.delimited(path)
		if err != nil {
			return nil, err
		}
		return convertDelimited(t, payload, base, path)
	}
}

func convertVarint(t StandardType, u uint64, path string) (any, error) {
	if t.Kind == KindBool {
		return u != 0, nil
	}
	iv := int64(u)
	if err := checkIntRange(t.Kind, iv, path); err != nil {
		return nil, err
	}
	switch t.Kind {
	case KindByte:
		return int8(iv), nil
	case KindShort:
		return int16(iv), nil
	case KindInt:
		return int32(iv), nil
	case KindLong:
		return iv, nil
	case KindChar:
		return rune(iv), nil
	}
	return nil, issuef(path, CodeInvalidFormat, -1, "primitive %d is not varint-shaped", t.Kind)
}

func convertFixed32(t StandardType, bits uint32) any {
	return math.Float32frombits(bits)
}

func convertFixed64(t StandardType, bits uint64) any {
	return math.Float64frombits(bits)
}

func convertDelimited(t StandardType, payload []byte, base int64, path string) (any, error) {
	switch t.Kind {
	case KindUnit:
		return Unit{}, nil
	case KindString:
		if !utf8.Valid(payload) {
			return nil, issuef(path, CodeMalformedUTF8, base, "malformed utf8")
		}
		return string(payload), nil
	case KindBytes:
		return append([]byte{}, payload...), nil
	case KindBigInteger:
		b, ok := new(big.Int).SetString(string(payload), 10)
		if !ok {
			return nil, issuef(path, CodeInvalidFormat, base, "malformed big integer %q", payload)
		}
		return b, nil
	case KindBigDecimal:
		d, ok := new(decimal.Big).SetString(string(payload))
		if !ok {
			return nil, issuef(path, CodeInvalidFormat, base, "malformed big decimal %q", payload)
		}
		return d, nil
	case KindZoneID:
		if !utf8.Valid(payload) {
			return nil, issuef(path, CodeMalformedUTF8, base, "malformed utf8")
		}
		return string(payload), nil
	case KindDayOfWeek:
		ints, err := decodeIntFrame(payload, base, 1, false, path)
		if err != nil {
			return nil, err
		}
		d, ok := weekdayFromISO(int(ints[0]))
		if !ok {
			return nil, issuef(path, CodeInvalidFormat, base, "day of week %d out of range", ints[0])
		}
		return d, nil
	case KindMonth:
		ints, err := decodeIntFrame(payload, base, 1, false, path)
		if err != nil {
			return nil, err
		}
		if ints[0] < 1 || ints[0] > 12 {
			return nil, issuef(path, CodeInvalidFormat, base, "month %d out of range", ints[0])
		}
		return time.Month(ints[0]), nil
	case KindYear:
		ints, err := decodeIntFrame(payload, base, 1, false, path)
		if err != nil {
			return nil, err
		}
		return int(ints[0]), nil
	case KindZoneOffset:
		ints, err := decodeIntFrame(payload, base, 1, false, path)
		if err != nil {
			return nil, err
		}
		return int(ints[0]), nil
	case KindMonthDay:
		ints, err := decodeIntFrame(payload, base, 2, false, path)
		if err != nil {
			return nil, err
		}
		return MonthDay{Month: int(ints[0]), Day: int(ints[1])}, nil
	case KindYearMonth:
		ints, err := decodeIntFrame(payload, base, 2, false, path)
		if err != nil {
			return nil, err
		}
		return YearMonth{Year: int(ints[0]), Month: int(ints[1])}, nil
	case KindPeriod:
		ints, err := decodeIntFrame(payload, base, 3, false, path)
		if err != nil {
			return nil, err
		}
		return Period{Years: int(ints[0]), Months: int(ints[1]), Days: int(ints[2])}, nil
	case KindDuration:
		ints, err := decodeIntFrame(payload, base, 2, true, path)
		if err != nil {
			return nil, err
		}
		return time.Duration(ints[0])*time.Second + time.Duration(ints[1]), nil
	default:
		if !utf8.Valid(payload) {
			return nil, issuef(path, CodeMalformedUTF8, base, "malformed utf8")
		}
		tv, err := time.Parse(layoutFor(t), string(payload))
		if err != nil {
			return nil, Issues{{Path: path, Code: CodeInvalidFormat, Message: "malformed temporal text " + strconv.Quote(string(payload)), Cause: err, Offset: base}}
		}
		return tv, nil
	}
}

// decodeIntFrame reads a nested record of up to k varint fields at numbers
// 1..k, tolerating unknown fields and filling unseen slots with zero.
func decodeIntFrame(payload []byte, base int64, k int, zig bool, path string) ([]int64, error) {
	r := &reader{buf: payload, base: base}
	vals := make([]int64, k)
	for r.rem() > 0 {
		field, wt, err := r.key(path)
		if err != nil {
			return nil, err
		}
		if field > k || wt != wire.TVarint {
			if err := r.skip(wt, path); err != nil {
				return nil, err
			}
			continue
		}
		u, err := r.uvarint(path)
		if err != nil {
			return nil, err
		}
		if zig {
			vals[field-1] = wire.Unzigzag(u)
		} else {
			vals[field-1] = int64(u)
		}
	}
	return vals, nil
}

// unwrapTransform strips transform layers off a schema node.
func unwrapTransform(s Schema) Schema {
	for {
		t, ok := s.(*Transform)
		if !ok {
			return s
		}
		s = t.Inner
	}
}

// applyForward replays a schema's transform chain, innermost first, over a
// value decoded per the fully unwrapped schema.
func applyForward(s Schema, v any, path string) (any, error) {
	t, ok := s.(*Transform)
	if !ok {
		return v, nil
	}
	v, err := applyForward(t.Inner, v, path)
	if err != nil {
		return nil, err
	}
	out, err := t.Forward(v)
	if err != nil {
		return nil, Issues{{Path: path, Code: CodeTransformFailed, Message: err.Error(), Cause: err, Offset: -1}}
	}
	return out, nil
}
