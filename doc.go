// Package jsondoc provides a copy-on-write JSON document model with a
// configurable parser and a compact or indented dumper.
//
// The package uses an internal package for implementation details:
//
//   - internal: the index-based intrusive hash table behind objects, the
//     escape codec, capacity policy and the pooled output encoder
//
// Most users can simply import the root package:
//
//	import "github.com/cybergodev/jsondoc"
//
// # Basic Usage
//
// Parse, read and dump:
//
//	var doc jsondoc.Value
//	if !doc.Parse(`{"user":{"name":"John","age":30}}`) {
//	    // handle malformed input
//	}
//	name := doc.Key("user").Key("name").AsString()
//	text := doc.AsJSONString()
//
// Build a document:
//
//	var tags jsondoc.Array
//	tags.Append(jsondoc.NewString("admin"))
//	var user jsondoc.Object
//	user.Assign("tags", jsondoc.NewArray(tags))
//	tags.Release()
//
// # Sharing
//
// Strings, arrays and objects share their payload between copies until one
// copy is modified. Copy takes a share, Release drops it and Clone makes a
// deep, unshared copy. Read accessors such as At, Get and Key return
// borrowed views that stay valid until the container is next modified.
// Mutable accessors such as MutAt and Touch unshare the payload first, so
// other holders never see the change.
//
// Copy is the only way to take a share. A plain Go assignment such as
// b := a copies the handle without one, so both names then point at the
// same payload and a mutation through either is visible through the other:
//
//	b := a.Copy() // b is an independent holder
//	b.MutObject().Assign("k", jsondoc.NewInt(1)) // a is unchanged
//	b.Release()
//
// Shares are counted without locking. Hand a tree to another goroutine as a
// Clone, or guard it with SyncValue.
//
// # Parser Modes
//
// The zero configuration accepts strict JSON with an object or array at the
// top. Each mode only widens what is accepted:
//
//	p := jsondoc.NewParser().SetSimple(true).SetComment(true)
//	ok := p.Parse(&doc, `{name: "x" /* note */}`)
//
//   - Simple: bare identifier keys
//   - Comment: /* */ and // comments
//   - SQuote: single-quoted strings
//   - Unstrict: all of the above plus trailing commas, empty keys,
//     case-insensitive literals and loosely escaped strings
//
// # Files and Tools
//
// ReadDocument and WriteDocument handle .gz, .zst and .s2 compression by
// extension. ParseFiles loads many files on a worker pool. Query and Filter
// evaluate expr-lang expressions over a document, and ToYAML and FromYAML
// convert to and from YAML.
package jsondoc
