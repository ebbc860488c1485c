package jsondoc

import (
	"github.com/cybergodev/jsondoc/internal"
)

// Dumper writes Value trees as JSON text. Output is compact unless an indent
// is set. Objects are written in iteration order.
//
// A Dumper is not safe for concurrent use.
type Dumper struct {
	out    []byte
	prefix string
	indent string
	pretty bool
}

// NewDumper returns a dumper formatted per cfg, compact when cfg is omitted
func NewDumper(cfg ...*Config) *Dumper {
	d := &Dumper{}
	if len(cfg) > 0 && cfg[0] != nil && cfg[0].Pretty {
		d.SetIndent(cfg[0].Prefix, cfg[0].Indent)
	}
	return d
}

// SetIndent switches to one element per line, each line starting with
// prefix followed by one indent per nesting level. Two empty strings restore
// compact output.
func (d *Dumper) SetIndent(prefix, indent string) *Dumper {
	d.prefix, d.indent = prefix, indent
	d.pretty = prefix != "" || indent != ""
	return d
}

// Dump replaces the output with the JSON text of v. It fails only for a
// Value whose tag is unknown, which the public API cannot produce.
func (d *Dumper) Dump(v Value) bool {
	enc := internal.GetEncoder()
	defer internal.PutEncoder(enc)

	ok := d.write(enc, v, 0)
	d.out = append(d.out[:0], enc.Bytes()...)
	return ok
}

// String returns the output of the last Dump
func (d *Dumper) String() string {
	return string(d.out)
}

// Bytes returns the output of the last Dump. The slice is reused by the next
// Dump.
func (d *Dumper) Bytes() []byte {
	return d.out
}

// Reset discards the output
func (d *Dumper) Reset() {
	d.out = d.out[:0]
}

func (d *Dumper) write(enc *internal.FastEncoder, v Value, depth int) bool {
	switch v.t {
	case TypeNull:
		enc.EncodeNull()
	case TypeBool:
		enc.EncodeBool(v.n != 0)
	case TypeInt64:
		enc.EncodeInt(int64(v.n))
	case TypeUint64:
		enc.EncodeUint(v.n)
	case TypeDouble:
		enc.EncodeFloat(v.f)
	case TypeString:
		enc.EncodeString(v.s.String())
	case TypeArray:
		return d.writeArray(enc, v.a, depth)
	case TypeObject:
		return d.writeObject(enc, v.o, depth)
	default:
		return false
	}
	return true
}

func (d *Dumper) writeArray(enc *internal.FastEncoder, a Array, depth int) bool {
	_ = enc.WriteByte('[')
	n := a.Len()
	for i := 0; i < n; i++ {
		if i > 0 {
			_ = enc.WriteByte(',')
		}
		if d.pretty {
			enc.WriteIndent(d.prefix, d.indent, depth+1)
		}
		if !d.write(enc, a.p.items[i], depth+1) {
			return false
		}
	}
	if d.pretty && n > 0 {
		enc.WriteIndent(d.prefix, d.indent, depth)
	}
	_ = enc.WriteByte(']')
	return true
}

func (d *Dumper) writeObject(enc *internal.FastEncoder, o Object, depth int) bool {
	_ = enc.WriteByte('{')
	ok := true
	first := true
	for key, val := range o.All() {
		if !first {
			_ = enc.WriteByte(',')
		}
		first = false
		if d.pretty {
			enc.WriteIndent(d.prefix, d.indent, depth+1)
		}
		enc.EncodeString(key)
		_ = enc.WriteByte(':')
		if d.pretty {
			_ = enc.WriteByte(' ')
		}
		if !d.write(enc, val, depth+1) {
			ok = false
			break
		}
	}
	if d.pretty && !first {
		enc.WriteIndent(d.prefix, d.indent, depth)
	}
	_ = enc.WriteByte('}')
	return ok
}
