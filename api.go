package protoskema

import (
	"context"
)

// Encode encodes v per the schema into a Protocol Buffers compatible byte
// stream. It is pure; it fails when a Transform's reverse map fails, when v
// does not have the Go type the schema expects, when an integer does not fit
// its kind, or when a record value lacks a field that has no default. A Fail
// schema encodes to zero bytes.
func Encode(ctx context.Context, s Schema, v any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return encodeValue(s, v)
}

// Decode decodes one value from data per the schema. Fields may arrive in
// any order; unknown fields are skipped, missing record fields receive their
// type defaults. Empty input is an error; use a Decoder when an empty stream
// should yield no values instead.
func Decode(ctx context.Context, s Schema, data []byte) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, issuef("", CodeEmptyInput, 0, "No bytes to decode")
	}
	return decodeValue(s, data)
}
