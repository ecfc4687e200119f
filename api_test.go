package protoskema_test

import (
	"context"
	"reflect"
	"testing"

	protoskema "github.com/reoring/protoskema"
	g "github.com/reoring/protoskema/dsl"
)

// The bit-exact wire fixtures live in testdata/fixtures.yaml and are
// exercised by TestWireFixtures_YAML; the tests here cover the concrete
// decode/error scenarios.

func TestEncode_TopLevelFraming(t *testing.T) {
	ctx := context.Background()

	// a bare primitive is wrapped as field 1 of an implicit record
	b, err := protoskema.Encode(ctx, g.Int(), int32(150))
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if got := toHex(b); got != "089601" {
		t.Fatalf("bare int encoded %s, want 089601", got)
	}
	v, err := protoskema.Decode(ctx, g.Int(), b)
	if err != nil || v != int32(150) {
		t.Fatalf("bare int round trip: v=%v err=%v", v, err)
	}

	// a bare sequence likewise takes field number 1
	b, err = protoskema.Encode(ctx, g.Seq(g.Int()), []any{int32(3), int32(270), int32(86942)})
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if got := toHex(b); got != "0A06038E029EA705" {
		t.Fatalf("bare seq encoded %s", got)
	}
}

func TestDecode_DefaultFill(t *testing.T) {
	ctx := context.Background()
	v, err := protoskema.Decode(ctx, schemaRecord(), fromHex(t, "10 7B"))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	want := map[string]any{"name": "", "value": int32(123)}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v, want %#v", v, want)
	}
}

func TestDecode_TupleDefaultFill(t *testing.T) {
	ctx := context.Background()
	v, err := protoskema.Decode(ctx, schemaTuple(), fromHex(t, "08 7B"))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	want := protoskema.Pair{First: int32(123), Second: ""}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v, want %#v", v, want)
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	ctx := context.Background()
	_, err := protoskema.Decode(ctx, g.Int(), nil)
	assertCode(t, err, protoskema.CodeEmptyInput)
	iss, _ := protoskema.AsIssues(err)
	if iss[0].Message != "No bytes to decode" {
		t.Fatalf("message %q", iss[0].Message)
	}
}

func TestDecode_KeyErrors(t *testing.T) {
	ctx := context.Background()

	_, err := protoskema.Decode(ctx, schemaRecord(), fromHex(t, "0F"))
	assertCode(t, err, protoskema.CodeUnknownWireType)
	iss, _ := protoskema.AsIssues(err)
	if want := "Failed decoding key: unknown wire type 7"; iss[0].Message != want {
		t.Fatalf("message %q, want %q", iss[0].Message, want)
	}

	_, err = protoskema.Decode(ctx, schemaRecord(), fromHex(t, "00"))
	assertCode(t, err, protoskema.CodeInvalidFieldNumber)
	iss, _ = protoskema.AsIssues(err)
	if want := "Failed decoding key: invalid field number 0"; iss[0].Message != want {
		t.Fatalf("message %q, want %q", iss[0].Message, want)
	}
}

func TestDecode_Truncated(t *testing.T) {
	ctx := context.Background()
	_, err := protoskema.Decode(ctx, schemaRecord(), fromHex(t, "0A 03 46"))
	assertCode(t, err, protoskema.CodeTruncated)
	iss, _ := protoskema.AsIssues(err)
	if iss[0].Message != "Unexpected end of chunk" {
		t.Fatalf("message %q", iss[0].Message)
	}
}

func TestFailSchema(t *testing.T) {
	ctx := context.Background()
	s := g.Fail("failing schema")

	b, err := protoskema.Encode(ctx, s, "anything")
	if err != nil || len(b) != 0 {
		t.Fatalf("encoding a failing schema: b=% X err=%v", b, err)
	}

	_, err = protoskema.Decode(ctx, s, fromHex(t, "08 01"))
	assertCode(t, err, protoskema.CodeSchemaFail)
	iss, _ := protoskema.AsIssues(err)
	if iss[0].Message != "failing schema" {
		t.Fatalf("message %q", iss[0].Message)
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := protoskema.Encode(ctx, g.Int(), int32(1)); err == nil {
		t.Fatalf("expected context error on encode")
	}
	if _, err := protoskema.Decode(ctx, g.Int(), []byte{0x08, 0x01}); err == nil {
		t.Fatalf("expected context error on decode")
	}
}
