// Package codec offers prebuilt Transform schemas for common wire/domain
// bridges.
package codec

import (
	protoskema "github.com/reoring/protoskema"
)

// Identity wraps a schema in a Transform whose maps pass the value through
// unchanged. It is useful as a neutral starting point when a call site wants
// a Transform-shaped schema it can later tighten.
func Identity(inner protoskema.Schema) protoskema.Schema {
	pass := func(v any) (any, error) { return v, nil }
	return &protoskema.Transform{Inner: inner, Forward: pass, Reverse: pass}
}
