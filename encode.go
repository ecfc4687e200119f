package protoskema

import (
	"math/big"
	"strconv"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/reoring/protoskema/internal/wire"
)

// encodeValue emits the record-like top-level frame for (s, v). Schemas that
// are not record-like are wrapped as the single field of an implicit record
// at field number 1, which keeps the root output field-tagged.
func encodeValue(s Schema, v any) ([]byte, error) {
	switch n := s.(type) {
	case *Transform:
		rep, err := n.Reverse(v)
		if err != nil {
			return nil, Issues{{Path: "", Code: CodeTransformFailed, Message: err.Error(), Cause: err, Offset: -1}}
		}
		return encodeValue(n.Inner, rep)
	case *Fail:
		return nil, nil
	case *Record, *Tuple, *Enumeration, *Optional:
		return appendFrame(nil, n, v, "")
	default:
		return appendField(nil, 1, s, v, "")
	}
}

// appendFrame writes the field frame of a record-like schema, without an
// enclosing key or length.
func appendFrame(buf []byte, s Schema, v any, path string) ([]byte, error) {
	switch n := s.(type) {
	case *Record:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected map[string]any for record, got %T", v)
		}
		return appendFields(buf, n.Fields, m, path)
	case *Tuple:
		p, ok := v.(Pair)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected Pair for tuple, got %T", v)
		}
		buf, err := appendField(buf, 1, n.Left, p.First, path+"/_1")
		if err != nil {
			return nil, err
		}
		return appendField(buf, 2, n.Right, p.Second, path+"/_2")
	case *Optional:
		if v == nil {
			return buf, nil
		}
		return appendField(buf, 1, n.Inner, v, path)
	case *Enumeration:
		ev, ok := v.(EnumValue)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected EnumValue for enumeration, got %T", v)
		}
		i := n.CaseIndex(ev.Case)
		if i == 0 {
			return nil, issuef(path, CodeInvalidType, -1, "unknown enumeration case %q", ev.Case)
		}
		body, err := appendField(nil, i, n.Cases[i-1].Schema, ev.Value, path+"/"+ev.Case)
		if err != nil {
			return nil, err
		}
		if len(body) == 0 {
			// a case whose payload vanishes (Unit, None, empty sequence)
			// still must announce its ordinal
			buf = wire.AppendKey(buf, i, wire.TDelimited)
			return wire.AppendUvarint(buf, 0), nil
		}
		return append(buf, body...), nil
	case *Transform:
		rep, err := n.Reverse(v)
		if err != nil {
			return nil, Issues{{Path: path, Code: CodeTransformFailed, Message: err.Error(), Cause: err, Offset: -1}}
		}
		return appendFrame(buf, n.Inner, rep, path)
	}
	return nil, issuef(path, CodeInvalidType, -1, "schema %T is not record-like", s)
}

func appendFields(buf []byte, fields []Field, m map[string]any, path string) ([]byte, error) {
	for i, f := range fields {
		fv, ok := m[f.Name]
		if !ok {
			d, err := DefaultValue(f.Schema)
			if err != nil {
				return nil, issuef(path+"/"+f.Name, CodeRequired, -1, "missing field %q", f.Name)
			}
			fv = d
		}
		var err error
		buf, err = appendField(buf, i+1, f.Schema, fv, path+"/"+f.Name)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// appendField writes one key+payload for field number n, or nothing when the
// schema's encoding is empty (Unit, absent optional, empty sequence, Fail).
func appendField(buf []byte, n int, s Schema, v any, path string) ([]byte, error) {
	switch sn := s.(type) {
	case *Primitive:
		return appendPrimitiveField(buf, n, sn.Type, v, path)
	case *Record, *Tuple, *Enumeration:
		body, err := appendFrame(nil, sn, v, path)
		if err != nil {
			return nil, err
		}
		buf = wire.AppendKey(buf, n, wire.TDelimited)
		return wire.AppendDelimited(buf, body), nil
	case *Optional:
		if v == nil {
			return buf, nil
		}
		body, err := appendField(nil, 1, sn.Inner, v, path)
		if err != nil {
			return nil, err
		}
		buf = wire.AppendKey(buf, n, wire.TDelimited)
		return wire.AppendDelimited(buf, body), nil
	case *Sequence:
		return appendSequence(buf, n, sn, v, path)
	case *Transform:
		rep, err := sn.Reverse(v)
		if err != nil {
			return nil, Issues{{Path: path, Code: CodeTransformFailed, Message: err.Error(), Cause: err, Offset: -1}}
		}
		return appendField(buf, n, sn.Inner, rep, path)
	case *Fail:
		return buf, nil
	}
	return nil, issuef(path, CodeInvalidType, -1, "unsupported schema node %T", s)
}

func appendSequence(buf []byte, n int, s *Sequence, v any, path string) ([]byte, error) {
	elems, ok := v.([]any)
	if !ok {
		return nil, issuef(path, CodeInvalidType, -1, "expected []any for sequence, got %T", v)
	}
	if len(elems) == 0 {
		return buf, nil
	}
	if packedElement(s.Element) {
		var payload []byte
		for i, e := range elems {
			var err error
			payload, err = appendPackedScalar(payload, s.Element, e, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
		}
		buf = wire.AppendKey(buf, n, wire.TDelimited)
		return wire.AppendDelimited(buf, payload), nil
	}
	for i, e := range elems {
		var err error
		buf, err = appendUnpackedElement(buf, n, s.Element, e, path+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// appendUnpackedElement writes one repeated entry. A nested sequence element
// is framed as a standalone implicit record so repeated entries of the outer
// field stay distinguishable.
func appendUnpackedElement(buf []byte, n int, es Schema, e any, path string) ([]byte, error) {
	if t, ok := es.(*Transform); ok {
		rep, err := t.Reverse(e)
		if err != nil {
			return nil, Issues{{Path: path, Code: CodeTransformFailed, Message: err.Error(), Cause: err, Offset: -1}}
		}
		return appendUnpackedElement(buf, n, t.Inner, rep, path)
	}
	if inner, ok := es.(*Sequence); ok {
		body, err := appendField(nil, 1, inner, e, path)
		if err != nil {
			return nil, err
		}
		buf = wire.AppendKey(buf, n, wire.TDelimited)
		return wire.AppendDelimited(buf, body), nil
	}
	return appendField(buf, n, es, e, path)
}

// appendPackedScalar writes the bare payload of a fixed-wire-type primitive,
// with no key.
func appendPackedScalar(buf []byte, es Schema, e any, path string) ([]byte, error) {
	if t, ok := es.(*Transform); ok {
		rep, err := t.Reverse(e)
		if err != nil {
			return nil, Issues{{Path: path, Code: CodeTransformFailed, Message: err.Error(), Cause: err, Offset: -1}}
		}
		return appendPackedScalar(buf, t.Inner, rep, path)
	}
	p, ok := es.(*Primitive)
	if !ok {
		return nil, issuef(path, CodeInvalidType, -1, "packed element must be primitive, got %T", es)
	}
	switch p.Type.Kind {
	case KindBool:
		b, ok := e.(bool)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected bool, got %T", e)
		}
		if b {
			return wire.AppendUvarint(buf, 1), nil
		}
		return wire.AppendUvarint(buf, 0), nil
	case KindByte, KindShort, KindInt, KindLong, KindChar:
		iv, err := intValue(p.Type.Kind, e, path)
		if err != nil {
			return nil, err
		}
		return wire.AppendUvarint(buf, uint64(iv)), nil
	case KindFloat:
		f, ok := floatValue32(e)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected float32, got %T", e)
		}
		return wire.AppendFloat32(buf, f), nil
	case KindDouble:
		f, ok := e.(float64)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected float64, got %T", e)
		}
		return wire.AppendFloat64(buf, f), nil
	}
	return nil, issuef(path, CodeInvalidType, -1, "primitive %d has no packed form", p.Type.Kind)
}

func appendPrimitiveField(buf []byte, n int, t StandardType, v any, path string) ([]byte, error) {
	switch t.Kind {
	case KindUnit:
		return buf, nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected bool, got %T", v)
		}
		buf = wire.AppendKey(buf, n, wire.TVarint)
		if b {
			return wire.AppendUvarint(buf, 1), nil
		}
		return wire.AppendUvarint(buf, 0), nil
	case KindByte, KindShort, KindInt, KindLong, KindChar:
		iv, err := intValue(t.Kind, v, path)
		if err != nil {
			return nil, err
		}
		buf = wire.AppendKey(buf, n, wire.TVarint)
		return wire.AppendUvarint(buf, uint64(iv)), nil
	case KindFloat:
		f, ok := floatValue32(v)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected float32, got %T", v)
		}
		buf = wire.AppendKey(buf, n, wire.TFixed32)
		return wire.AppendFloat32(buf, f), nil
	case KindDouble:
		f, ok := v.(float64)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected float64, got %T", v)
		}
		buf = wire.AppendKey(buf, n, wire.TFixed64)
		return wire.AppendFloat64(buf, f), nil
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected string, got %T", v)
		}
		return appendDelimitedField(buf, n, []byte(s)), nil
	case KindBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected []byte, got %T", v)
		}
		return appendDelimitedField(buf, n, b), nil
	case KindBigInteger:
		b, ok := v.(*big.Int)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected *big.Int, got %T", v)
		}
		return appendDelimitedField(buf, n, []byte(b.String())), nil
	case KindBigDecimal:
		d, ok := v.(*decimal.Big)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected *decimal.Big, got %T", v)
		}
		return appendDelimitedField(buf, n, []byte(d.String())), nil
	case KindZoneID:
		s, ok := v.(string)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected string zone id, got %T", v)
		}
		return appendDelimitedField(buf, n, []byte(s)), nil
	case KindDayOfWeek:
		d, ok := v.(time.Weekday)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected time.Weekday, got %T", v)
		}
		return appendIntFrameField(buf, n, false, int64(isoWeekday(d))), nil
	case KindMonth:
		m, ok := v.(time.Month)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected time.Month, got %T", v)
		}
		return appendIntFrameField(buf, n, false, int64(m)), nil
	case KindYear:
		y, ok := v.(int)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected int year, got %T", v)
		}
		return appendIntFrameField(buf, n, false, int64(y)), nil
	case KindZoneOffset:
		s, ok := v.(int)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected int offset seconds, got %T", v)
		}
		return appendIntFrameField(buf, n, false, int64(s)), nil
	case KindMonthDay:
		md, ok := v.(MonthDay)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected MonthDay, got %T", v)
		}
		return appendIntFrameField(buf, n, false, int64(md.Month), int64(md.Day)), nil
	case KindYearMonth:
		ym, ok := v.(YearMonth)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected YearMonth, got %T", v)
		}
		return appendIntFrameField(buf, n, false, int64(ym.Year), int64(ym.Month)), nil
	case KindPeriod:
		p, ok := v.(Period)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected Period, got %T", v)
		}
		return appendIntFrameField(buf, n, false, int64(p.Years), int64(p.Months), int64(p.Days)), nil
	case KindDuration:
		d, ok := v.(time.Duration)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected time.Duration, got %T", v)
		}
		secs := int64(d / time.Second)
		nanos := int64(d % time.Second)
		return appendIntFrameField(buf, n, true, secs, nanos), nil
	default:
		// formatted temporal point
		tv, ok := v.(time.Time)
		if !ok {
			return nil, issuef(path, CodeInvalidType, -1, "expected time.Time, got %T", v)
		}
		return appendDelimitedField(buf, n, []byte(tv.Format(layoutFor(t)))), nil
	}
}

func appendDelimitedField(buf []byte, n int, payload []byte) []byte {
	buf = wire.AppendKey(buf, n, wire.TDelimited)
	return wire.AppendDelimited(buf, payload)
}

// appendIntFrameField writes a nested record of small integers at fields
// 1..len(vals). Duration uses zigzag varints; the calendar frames use the
// plain form shared with the standard integer family.
func appendIntFrameField(buf []byte, n int, zig bool, vals ...int64) []byte {
	var body []byte
	for i, v := range vals {
		body = wire.AppendKey(body, i+1, wire.TVarint)
		if zig {
			body = wire.AppendUvarint(body, wire.Zigzag(v))
		} else {
			body = wire.AppendUvarint(body, uint64(v))
		}
	}
	return appendDelimitedField(buf, n, body)
}

// intValue accepts any of int8, int16, int32 (rune), int64 and int for every
// integer kind, range-checking the narrower kinds.
func intValue(k TypeKind, v any, path string) (int64, error) {
	var iv int64
	switch n := v.(type) {
	case int8:
		iv = int64(n)
	case int16:
		iv = int64(n)
	case int32: // also rune
		iv = int64(n)
	case int64:
		iv = n
	case int:
		iv = int64(n)
	default:
		return 0, issuef(path, CodeInvalidType, -1, "expected integer, got %T", v)
	}
	if err := checkIntRange(k, iv, path); err != nil {
		return 0, err
	}
	return iv, nil
}

func checkIntRange(k TypeKind, iv int64, path string) error {
	var lo, hi int64
	switch k {
	case KindByte:
		lo, hi = -128, 127
	case KindShort:
		lo, hi = -32768, 32767
	case KindInt:
		lo, hi = -2147483648, 2147483647
	case KindChar:
		lo, hi = 0, 0x10FFFF
	default:
		return nil
	}
	if iv < lo || iv > hi {
		return issuef(path, CodeOverflow, -1, "integer overflow: %d does not fit", iv)
	}
	return nil
}

func floatValue32(v any) (float32, bool) {
	f, ok := v.(float32)
	return f, ok
}
