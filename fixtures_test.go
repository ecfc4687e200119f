package protoskema_test

import (
	"context"
	"os"
	"reflect"
	"testing"

	protoskema "github.com/reoring/protoskema"
	g "github.com/reoring/protoskema/dsl"
	"gopkg.in/yaml.v3"
)

type fixtureFile struct {
	Fixtures []struct {
		Name string `yaml:"name"`
		Hex  string `yaml:"hex"`
	} `yaml:"fixtures"`
}

// fixtureCase binds a fixture name to its schema and value; the expected hex
// lives in testdata/fixtures.yaml.
type fixtureCase struct {
	schema protoskema.Schema
	value  any
}

func fixtureCases() map[string]fixtureCase {
	return map[string]fixtureCase{
		"basic-int":    {schemaBasicInt(), basicInt(150)},
		"basic-string": {schemaBasicString(), map[string]any{"value": "testing"}},
		"basic-float":  {g.Record(g.Field("value", g.Float())), map[string]any{"value": float32(0.001)}},
		"basic-double": {g.Record(g.Field("value", g.Double())), map[string]any{"value": 0.001}},
		"embedded":     {g.Record(g.Field("embedded", schemaBasicInt())), map[string]any{"embedded": basicInt(150)}},
		"packed-list":  {g.Record(g.Field("packed", g.Seq(g.Int()))), map[string]any{"packed": []any{int32(3), int32(270), int32(86942)}}},
		"unpacked-list": {g.Record(g.Field("items", g.Seq(g.String()))),
			map[string]any{"items": []any{"foo", "bar", "baz"}}},
		"record":      {schemaRecord(), map[string]any{"name": "Foo", "value": int32(123)}},
		"enumeration": {schemaEnum(), protoskema.EnumValue{Case: "IntValue", Value: int32(482)}},
	}
}

func TestWireFixtures_YAML(t *testing.T) {
	ctx := context.Background()
	raw, err := os.ReadFile("testdata/fixtures.yaml")
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	var ff fixtureFile
	if err := yaml.Unmarshal(raw, &ff); err != nil {
		t.Fatalf("parse fixtures: %v", err)
	}
	if len(ff.Fixtures) == 0 {
		t.Fatalf("no fixtures loaded")
	}
	cases := fixtureCases()
	for _, fx := range ff.Fixtures {
		tc, ok := cases[fx.Name]
		if !ok {
			t.Fatalf("fixture %q has no bound case", fx.Name)
		}
		b, err := protoskema.Encode(ctx, tc.schema, tc.value)
		if err != nil {
			t.Fatalf("%s: encode err: %v", fx.Name, err)
		}
		if got := toHex(b); got != fx.Hex {
			t.Fatalf("%s: encoded %s, want %s", fx.Name, got, fx.Hex)
		}
		back, err := protoskema.Decode(ctx, tc.schema, fromHex(t, fx.Hex))
		if err != nil {
			t.Fatalf("%s: decode err: %v", fx.Name, err)
		}
		if !reflect.DeepEqual(back, tc.value) {
			t.Fatalf("%s: decoded %#v, want %#v", fx.Name, back, tc.value)
		}
	}
	for name := range cases {
		found := false
		for _, fx := range ff.Fixtures {
			if fx.Name == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("case %q missing from fixtures.yaml", name)
		}
	}
}
