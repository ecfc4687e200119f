package codec

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	protoskema "github.com/reoring/protoskema"
)

// JSON returns a schema that carries an arbitrary JSON document on the wire
// as a length-delimited byte string. Decoding yields the unmarshalled value
// (map[string]any, []any, string, float64, bool or nil); encoding accepts
// any value the JSON marshaller can serialize.
func JSON() protoskema.Schema {
	return &protoskema.Transform{
		Inner: &protoskema.Primitive{Type: protoskema.StandardType{Kind: protoskema.KindBytes}},
		Forward: func(v any) (any, error) {
			raw, ok := v.([]byte)
			if !ok {
				return nil, fmt.Errorf("expected []byte, got %T", v)
			}
			if len(raw) == 0 {
				return nil, nil
			}
			var out any
			if err := gojson.Unmarshal(raw, &out); err != nil {
				return nil, fmt.Errorf("invalid JSON payload: %w", err)
			}
			return out, nil
		},
		Reverse: func(v any) (any, error) {
			if v == nil {
				return []byte{}, nil
			}
			raw, err := gojson.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("unencodable JSON value: %w", err)
			}
			return raw, nil
		},
	}
}
