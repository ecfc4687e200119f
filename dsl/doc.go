package dsl

// Package dsl provides the constructors used to build protoskema Schema
// trees. The conventional import alias is g:
//
//  import g "github.com/reoring/protoskema/dsl"
//
//  s := g.Record(
//      g.Field("name", g.String()),
//      g.Field("value", g.Int()),
//  )
//
// Field and case declaration order is significant: the i-th field (1-based)
// is encoded at protobuf field number i.
