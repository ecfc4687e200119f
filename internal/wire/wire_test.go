package wire_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/reoring/protoskema/internal/wire"
)

func TestUvarint_RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 150, 300, 16383, 16384, 1<<32 - 1, 1<<63 - 1, 1<<64 - 1}
	for _, v := range cases {
		b := wire.AppendUvarint(nil, v)
		got, n, err := wire.Uvarint(b)
		if err != nil || n != len(b) || got != v {
			t.Fatalf("roundtrip %d: got=%d n=%d len=%d err=%v", v, got, n, len(b), err)
		}
	}
}

func TestUvarint_Wire(t *testing.T) {
	// the canonical protobuf example: 150 -> 96 01
	if b := wire.AppendUvarint(nil, 150); !bytes.Equal(b, []byte{0x96, 0x01}) {
		t.Fatalf("150 encoded as % X", b)
	}
}

func TestUvarint_Truncated(t *testing.T) {
	_, _, err := wire.Uvarint([]byte{0x96})
	if !errors.Is(err, wire.ErrTruncated) {
		t.Fatalf("expected truncation, got %v", err)
	}
	_, _, err = wire.Uvarint(nil)
	if !errors.Is(err, wire.ErrTruncated) {
		t.Fatalf("expected truncation on empty input, got %v", err)
	}
}

func TestUvarint_TooLong(t *testing.T) {
	b := bytes.Repeat([]byte{0x80}, 10)
	_, _, err := wire.Uvarint(append(b, 0x01))
	if !errors.Is(err, wire.ErrVarintTooLong) {
		t.Fatalf("expected varint too long, got %v", err)
	}
	// exactly 10 continuation bytes with no terminator is overlong, not truncated
	_, _, err = wire.Uvarint(b)
	if !errors.Is(err, wire.ErrVarintTooLong) {
		t.Fatalf("expected varint too long, got %v", err)
	}
}

func TestZigzag(t *testing.T) {
	cases := map[int64]uint64{0: 0, -1: 1, 1: 2, -2: 3, 2: 4, -64: 127, 1<<63 - 1: 1<<64 - 2, -1 << 63: 1<<64 - 1}
	for n, want := range cases {
		if got := wire.Zigzag(n); got != want {
			t.Fatalf("zigzag(%d)=%d want %d", n, got, want)
		}
		if back := wire.Unzigzag(want); back != n {
			t.Fatalf("unzigzag(%d)=%d want %d", want, back, n)
		}
	}
}

func TestKey(t *testing.T) {
	b := wire.AppendKey(nil, 1, wire.TVarint)
	if !bytes.Equal(b, []byte{0x08}) {
		t.Fatalf("key(1,varint) = % X", b)
	}
	f, wt := wire.SplitKey(0x0A)
	if f != 1 || wt != wire.TDelimited {
		t.Fatalf("split 0x0A: field=%d type=%d", f, wt)
	}
	if wire.Type(3).Valid() || wire.Type(4).Valid() || wire.Type(7).Valid() {
		t.Fatalf("group/unknown wire types must be invalid")
	}
}

func TestFixed(t *testing.T) {
	b := wire.AppendFloat32(nil, 0.001)
	if !bytes.Equal(b, []byte{0x6F, 0x12, 0x83, 0x3A}) {
		t.Fatalf("float32 0.001 = % X", b)
	}
	b = wire.AppendFloat64(nil, 0.001)
	if !bytes.Equal(b, []byte{0xFC, 0xA9, 0xF1, 0xD2, 0x4D, 0x62, 0x50, 0x3F}) {
		t.Fatalf("float64 0.001 = % X", b)
	}
	if _, _, err := wire.Fixed32([]byte{1, 2, 3}); !errors.Is(err, wire.ErrTruncated) {
		t.Fatalf("short fixed32 should truncate, got %v", err)
	}
	if _, _, err := wire.Fixed64([]byte{1, 2, 3, 4, 5, 6, 7}); !errors.Is(err, wire.ErrTruncated) {
		t.Fatalf("short fixed64 should truncate, got %v", err)
	}
}

func TestDelimited(t *testing.T) {
	b := wire.AppendDelimited(nil, []byte("testing"))
	if !bytes.Equal(b, []byte{0x07, 't', 'e', 's', 't', 'i', 'n', 'g'}) {
		t.Fatalf("delimited = % X", b)
	}
	payload, n, err := wire.Delimited(b)
	if err != nil || n != len(b) || string(payload) != "testing" {
		t.Fatalf("read delimited: %q n=%d err=%v", payload, n, err)
	}
	if _, _, err := wire.Delimited([]byte{0x03, 0x46}); !errors.Is(err, wire.ErrTruncated) {
		t.Fatalf("short body should truncate, got %v", err)
	}
}
