package protoskema

// Package protoskema provides:
//
// - A schema-driven Protocol Buffers codec: Encode/Decode driven entirely by
//   Schema values built at runtime, with no code generation and no reflection
//   over host types
// - A stable error model via Issues (JSON Pointer, code, message, wire offset)
// - Streaming via Encoder/Decoder with buffered partial-frame handling
//
// Design policy:
// - Keep only public APIs in the root package; put the byte-level wire
//   primitives under internal/.
// - Place the schema construction DSL under dsl/ and prebuilt transform
//   schemas under codec/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  s := g.Record(g.Field("name", g.String()), g.Field("qty", g.Int()))
//  wire, err := protoskema.Encode(ctx, s, map[string]any{"name": "Foo", "qty": int32(123)})
//  v, err := protoskema.Decode(ctx, s, wire)
//
//  dec := protoskema.NewDecoder(s)
//  vs, err := dec.Feed(chunk)
//  err = dec.Finish()
