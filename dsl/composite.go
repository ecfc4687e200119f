package dsl

import (
	protoskema "github.com/reoring/protoskema"
)

// Field names one component of a record.
func Field(name string, s protoskema.Schema) protoskema.Field {
	return protoskema.Field{Name: name, Schema: s}
}

// Record builds a product of named fields. Declaration order fixes the
// protobuf field numbers.
func Record(fields ...protoskema.Field) protoskema.Schema {
	return &protoskema.Record{Fields: fields}
}

// Case names one alternative of an enumeration.
func Case(name string, s protoskema.Schema) protoskema.Case {
	return protoskema.Case{Name: name, Schema: s}
}

// Enum builds a discriminated union. Declaration order fixes the ordinals.
func Enum(cases ...protoskema.Case) protoskema.Schema {
	return &protoskema.Enumeration{Cases: cases}
}

// Seq builds an ordered sequence of like-typed elements.
func Seq(element protoskema.Schema) protoskema.Schema {
	return &protoskema.Sequence{Element: element}
}

// Tuple builds a 2-arity product, wire-identical to a record with fields at
// numbers 1 and 2.
func Tuple(left, right protoskema.Schema) protoskema.Schema {
	return &protoskema.Tuple{Left: left, Right: right}
}

// Optional wraps a schema whose value may be absent. Absence is represented
// by a nil value.
func Optional(inner protoskema.Schema) protoskema.Schema {
	return &protoskema.Optional{Inner: inner}
}

// Transform adapts an inner schema through an invertible pair of maps.
// forward runs after decoding, reverse before encoding; either may fail.
func Transform(inner protoskema.Schema, forward, reverse func(any) (any, error)) protoskema.Schema {
	return &protoskema.Transform{Inner: inner, Forward: forward, Reverse: reverse}
}

// Fail builds a schema that refuses to encode or decode with the given
// message.
func Fail(message string) protoskema.Schema {
	return &protoskema.Fail{Message: message}
}
