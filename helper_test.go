package protoskema_test

import (
	"encoding/hex"
	"strings"
	"testing"

	protoskema "github.com/reoring/protoskema"
	g "github.com/reoring/protoskema/dsl"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func toHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// schemas shared across the fixture and scenario tests

func schemaBasicInt() protoskema.Schema {
	return g.Record(g.Field("value", g.Int()))
}

func schemaBasicString() protoskema.Schema {
	return g.Record(g.Field("value", g.String()))
}

func schemaRecord() protoskema.Schema {
	return g.Record(g.Field("name", g.String()), g.Field("value", g.Int()))
}

func schemaTuple() protoskema.Schema {
	return g.Tuple(g.Int(), g.String())
}

func schemaEnum() protoskema.Schema {
	return g.Enum(
		g.Case("BooleanValue", g.Bool()),
		g.Case("IntValue", g.Int()),
		g.Case("StringValue", g.String()),
	)
}

func basicInt(v int32) map[string]any {
	return map[string]any{"value": v}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !protoskema.HasCode(err, code) {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}
