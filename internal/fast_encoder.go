package internal

import (
	"math"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// ============================================================================
// LOOKUP TABLES FOR STRING ESCAPING
// ============================================================================

// needsEscapeTable is a pre-computed lookup table for characters that need escaping
// Index is the byte value, value is true if escaping is needed
var needsEscapeTable = [256]bool{
	// Control characters (0x00-0x1F) need escaping
	0x00: true, 0x01: true, 0x02: true, 0x03: true, 0x04: true, 0x05: true, 0x06: true, 0x07: true,
	0x08: true, 0x09: true, 0x0A: true, 0x0B: true, 0x0C: true, 0x0D: true, 0x0E: true, 0x0F: true,
	0x10: true, 0x11: true, 0x12: true, 0x13: true, 0x14: true, 0x15: true, 0x16: true, 0x17: true,
	0x18: true, 0x19: true, 0x1A: true, 0x1B: true, 0x1C: true, 0x1D: true, 0x1E: true, 0x1F: true,
	// Quote and backslash need escaping
	'"':  true,
	'\\': true,
}

// smallInts holds the text of 0-99 so the common case skips strconv
var smallInts [100]string

func init() {
	for i := range smallInts {
		smallInts[i] = strconv.Itoa(i)
	}
}

// ============================================================================
// FAST JSON ENCODER
// Appends JSON tokens to a pooled byte buffer
// ============================================================================

// FastEncoder writes JSON tokens into a pooled buffer
type FastEncoder struct {
	bb *bytebufferpool.ByteBuffer
}

// GetEncoder retrieves an encoder backed by a pooled buffer
func GetEncoder() *FastEncoder {
	return &FastEncoder{bb: bytebufferpool.Get()}
}

// PutEncoder returns the encoder's buffer to the pool. The encoder must not
// be used afterwards.
func PutEncoder(e *FastEncoder) {
	if e == nil || e.bb == nil {
		return
	}
	bytebufferpool.Put(e.bb)
	e.bb = nil
}

// Bytes returns the encoded bytes. The slice is only valid until PutEncoder.
func (e *FastEncoder) Bytes() []byte {
	return e.bb.B
}

// Len returns the number of encoded bytes
func (e *FastEncoder) Len() int {
	return len(e.bb.B)
}

// Reset clears the encoder buffer
func (e *FastEncoder) Reset() {
	e.bb.Reset()
}

// WriteByte appends one raw byte
func (e *FastEncoder) WriteByte(c byte) error {
	e.bb.B = append(e.bb.B, c)
	return nil
}

// WriteRaw appends raw text
func (e *FastEncoder) WriteRaw(s string) {
	e.bb.B = append(e.bb.B, s...)
}

// EncodeNull appends null
func (e *FastEncoder) EncodeNull() {
	e.bb.B = append(e.bb.B, "null"...)
}

// EncodeBool appends true or false
func (e *FastEncoder) EncodeBool(b bool) {
	if b {
		e.bb.B = append(e.bb.B, "true"...)
	} else {
		e.bb.B = append(e.bb.B, "false"...)
	}
}

// EncodeInt encodes a signed integer
func (e *FastEncoder) EncodeInt(n int64) {
	if n >= 0 && n < 100 {
		e.bb.B = append(e.bb.B, smallInts[n]...)
		return
	}
	e.bb.B = strconv.AppendInt(e.bb.B, n, 10)
}

// EncodeUint encodes an unsigned integer
func (e *FastEncoder) EncodeUint(n uint64) {
	if n < 100 {
		e.bb.B = append(e.bb.B, smallInts[n]...)
		return
	}
	e.bb.B = strconv.AppendUint(e.bb.B, n, 10)
}

// EncodeFloat encodes a double with the shortest text that parses back to
// the same bits. NaN and infinities have no JSON form and become null.
func (e *FastEncoder) EncodeFloat(n float64) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		e.EncodeNull()
		return
	}
	e.bb.B = AppendFloat(e.bb.B, n)
}

// AppendFloat appends the shortest round-trip text of a finite double. The
// text always carries a '.' or an exponent so a reader keeps it a double.
func AppendFloat(dst []byte, f float64) []byte {
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'g', -1, 64)
	for _, c := range dst[start:] {
		if c == '.' || c == 'e' || c == 'E' {
			return dst
		}
	}
	return append(dst, '.', '0')
}

// EncodeString encodes a quoted, escaped string
func (e *FastEncoder) EncodeString(s string) {
	e.bb.B = append(e.bb.B, '"')
	if !NeedsEscape(s) {
		e.bb.B = append(e.bb.B, s...)
	} else {
		e.bb.B = AppendEscaped(e.bb.B, s)
	}
	e.bb.B = append(e.bb.B, '"')
}

// WriteIndent starts a new line at the given nesting depth
func (e *FastEncoder) WriteIndent(prefix, indent string, depth int) {
	e.bb.B = append(e.bb.B, '\n')
	e.bb.B = append(e.bb.B, prefix...)
	for i := 0; i < depth; i++ {
		e.bb.B = append(e.bb.B, indent...)
	}
}
