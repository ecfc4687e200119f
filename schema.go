package protoskema

import (
	"time"

	"github.com/reoring/protoskema/internal/wire"
)

// Schema is the runtime description of a type. It is a sealed tagged tree;
// the codec dispatches on the concrete node type. Schemas are immutable and
// may be shared freely across goroutines.
type Schema interface {
	schemaNode()
}

// TypeKind identifies an atomic StandardType.
type TypeKind int

const (
	KindUnit TypeKind = iota
	KindBool
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindChar
	KindString
	KindBytes
	KindBigInteger
	KindBigDecimal
	KindDayOfWeek
	KindMonth
	KindMonthDay
	KindPeriod
	KindYear
	KindYearMonth
	KindZoneID
	KindZoneOffset
	KindDuration
	KindInstant
	KindLocalDate
	KindLocalTime
	KindLocalDateTime
	KindOffsetTime
	KindOffsetDateTime
	KindZonedDateTime
)

// StandardType describes an atomic type. Temporal kinds carry the textual
// layout used on the wire; Duration carries the resolution the schema was
// declared with (the wire form is always a seconds/nanos pair).
type StandardType struct {
	Kind   TypeKind
	Layout string        // temporal text layout; empty selects the kind's default
	Unit   time.Duration // Duration resolution; informational
}

// Primitive is a schema node for an atomic type.
type Primitive struct {
	Type StandardType
}

// Sequence is an ordered sequence of like-typed elements.
type Sequence struct {
	Element Schema
}

// Field is one named component of a Record. Declaration order fixes the
// protobuf field number: the i-th field (1-based) is number i.
type Field struct {
	Name   string
	Schema Schema
}

// Record is a product of heterogeneous named fields.
type Record struct {
	Fields []Field
}

// Case is one alternative of an Enumeration. Declaration order fixes the
// field number, exactly as for record fields.
type Case struct {
	Name   string
	Schema Schema
}

// Enumeration is a discriminated union of alternatives.
type Enumeration struct {
	Cases []Case
}

// Tuple is a 2-arity product, identical on the wire to a record with fields
// at numbers 1 and 2.
type Tuple struct {
	Left  Schema
	Right Schema
}

// Optional describes a value that may be absent. On the wire it is a record
// with a single optional field at number 1.
type Optional struct {
	Inner Schema
}

// Transform is an invertible view over an inner schema. Forward maps the
// decoded inner representation outward; Reverse maps a value back to the
// inner representation before encoding. Either direction may fail with an
// error that is surfaced as a transformation failure.
type Transform struct {
	Inner   Schema
	Forward func(any) (any, error)
	Reverse func(any) (any, error)
}

// Fail is a schema that refuses to encode or decode. Encoding produces zero
// bytes; decoding fails immediately with the carried message.
type Fail struct {
	Message string
}

func (*Primitive) schemaNode()   {}
func (*Sequence) schemaNode()    {}
func (*Record) schemaNode()      {}
func (*Enumeration) schemaNode() {}
func (*Tuple) schemaNode()       {}
func (*Optional) schemaNode()    {}
func (*Transform) schemaNode()   {}
func (*Fail) schemaNode()        {}

// FieldIndex returns the 1-based field number of the named field, or 0.
func (r *Record) FieldIndex(name string) int {
	for i, f := range r.Fields {
		if f.Name == name {
			return i + 1
		}
	}
	return 0
}

// CaseIndex returns the 1-based ordinal of the named case, or 0.
func (e *Enumeration) CaseIndex(name string) int {
	for i, c := range e.Cases {
		if c.Name == name {
			return i + 1
		}
	}
	return 0
}

// wireTypeOf reports the wire type a field of schema s is keyed with.
// Sequences are always keyed length-delimited: packed sequences share one
// frame and unpacked elements are length-delimited themselves.
func wireTypeOf(s Schema) wire.Type {
	switch n := s.(type) {
	case *Primitive:
		switch n.Type.Kind {
		case KindBool, KindByte, KindShort, KindInt, KindLong, KindChar:
			return wire.TVarint
		case KindFloat:
			return wire.TFixed32
		case KindDouble:
			return wire.TFixed64
		default:
			return wire.TDelimited
		}
	case *Transform:
		return wireTypeOf(n.Inner)
	default:
		return wire.TDelimited
	}
}

// packedElement reports whether a sequence of element schema s is encoded
// packed: one length-delimited frame holding the concatenated payloads.
func packedElement(s Schema) bool {
	switch wireTypeOf(s) {
	case wire.TVarint, wire.TFixed32, wire.TFixed64:
		return true
	}
	return false
}

// layoutFor resolves the textual layout for a temporal kind, falling back to
// the kind's default when the schema carries none.
func layoutFor(t StandardType) string {
	if t.Layout != "" {
		return t.Layout
	}
	switch t.Kind {
	case KindInstant:
		return time.RFC3339Nano
	case KindLocalDate:
		return "2006-01-02"
	case KindLocalTime:
		return "15:04:05.999999999"
	case KindLocalDateTime:
		return "2006-01-02T15:04:05.999999999"
	case KindOffsetTime:
		return "15:04:05.999999999Z07:00"
	case KindOffsetDateTime, KindZonedDateTime:
		return time.RFC3339Nano
	}
	return time.RFC3339Nano
}
