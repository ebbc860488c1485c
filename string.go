package jsondoc

import (
	"bytes"
	"strings"

	"github.com/cybergodev/jsondoc/internal"
	"github.com/valyala/fastjson/fastfloat"
)

type strPayload struct {
	refs int
	buf  []byte // cap(buf) is the usable capacity
}

func (p *strPayload) clone() *strPayload {
	buf := make([]byte, len(p.buf), cap(p.buf))
	copy(buf, p.buf)
	return &strPayload{refs: 1, buf: buf}
}

// String is a copy-on-write byte buffer. The zero value is an empty string
// with no payload. Copies made with Copy share the payload until one of
// them is modified.
type String struct {
	p        *strPayload
	borrowed bool
	invalid  bool
}

// StringOf returns a String holding s
func StringOf(s string) String {
	var r String
	r.AppendString(s)
	return r
}

// BytesOf returns a String holding a copy of b
func BytesOf(b []byte) String {
	var r String
	r.Append(b)
	return r
}

// own makes the payload exclusive to this handle, allocating or cloning it
func (s *String) own() *strPayload {
	switch {
	case s.p == nil:
		s.p = &strPayload{}
		s.p.refs = 1
	case s.borrowed:
		s.p = s.p.clone()
		s.borrowed = false
	case s.p.refs > 1:
		s.p.refs--
		s.p = s.p.clone()
	}
	return s.p
}

func (s *String) reserve(p *strPayload, n int) {
	if n <= cap(p.buf) {
		return
	}
	alloc := 0
	if p.buf != nil {
		alloc = cap(p.buf) + 1
	}
	buf := make([]byte, len(p.buf), internal.StringAllocation(alloc, n)-1)
	copy(buf, p.buf)
	p.buf = buf
}

// Reserve grows the usable capacity to at least n bytes. It never shrinks.
func (s *String) Reserve(n int) {
	s.reserve(s.own(), n)
}

// Append appends raw bytes
func (s *String) Append(b []byte) {
	p := s.own()
	s.reserve(p, len(p.buf)+len(b))
	p.buf = append(p.buf, b...)
}

// AppendString appends raw text
func (s *String) AppendString(str string) {
	p := s.own()
	s.reserve(p, len(p.buf)+len(str))
	p.buf = append(p.buf, str...)
}

// AppendByte appends a single byte
func (s *String) AppendByte(c byte) {
	p := s.own()
	s.reserve(p, len(p.buf)+1)
	p.buf = append(p.buf, c)
}

// Assign replaces the contents with str, keeping capacity
func (s *String) Assign(str string) {
	p := s.own()
	p.buf = p.buf[:0]
	s.reserve(p, len(str))
	p.buf = append(p.buf, str...)
}

// Clear empties the string, keeping capacity
func (s *String) Clear() {
	if s.p == nil {
		return
	}
	p := s.own()
	p.buf = p.buf[:0]
}

// Len returns the length in bytes
func (s String) Len() int {
	if s.p == nil {
		return 0
	}
	return len(s.p.buf)
}

// Capacity returns the usable capacity, one less than the allocation
func (s String) Capacity() int {
	if s.p == nil {
		return 0
	}
	return cap(s.p.buf)
}

// IsEmpty reports whether the string has no bytes
func (s String) IsEmpty() bool {
	return s.Len() == 0
}

// Bytes returns the contents. The slice aliases the payload and must not be
// modified.
func (s String) Bytes() []byte {
	if s.p == nil {
		return nil
	}
	return s.p.buf
}

// String returns the contents as a Go string
func (s String) String() string {
	if s.p == nil {
		return ""
	}
	return string(s.p.buf)
}

// IsValid reports false for the result of a Decode that met a malformed
// escape
func (s String) IsValid() bool {
	return !s.invalid
}

// Equal compares contents byte for byte
func (s String) Equal(other String) bool {
	return bytes.Equal(s.Bytes(), other.Bytes())
}

// Compare orders two strings bytewise, returning -1, 0 or +1
func (s String) Compare(other String) int {
	return bytes.Compare(s.Bytes(), other.Bytes())
}

// Swap exchanges the contents of s and other without copying bytes. Share
// counts are unaffected.
func (s *String) Swap(other *String) {
	*s, *other = *other, *s
}

// Encode returns the JSON-escaped form of the contents, without quotes
func (s String) Encode() String {
	var r String
	if s.Len() == 0 {
		return r
	}
	src := s.String()
	if !internal.NeedsEscape(src) {
		r.AppendString(src)
		return r
	}
	r.Append(internal.AppendEscaped(make([]byte, 0, len(src)+8), src))
	return r
}

// Decode returns the contents with JSON escapes resolved. A malformed escape
// yields an empty String whose IsValid reports false.
func (s String) Decode() String {
	var r String
	if s.Len() == 0 {
		return r
	}
	src := s.String()
	if strings.IndexByte(src, '\\') < 0 {
		r.AppendString(src)
		return r
	}
	out, ok := internal.AppendUnescaped(make([]byte, 0, len(src)), src)
	if !ok {
		r.invalid = true
		return r
	}
	r.Append(out)
	return r
}

// ============================================================================
// NUMERIC COERCION
// ============================================================================

// AsInt64 parses the contents as a signed integer. Decimal fractions and
// exponents are truncated; text that is not a number yields 0.
func (s String) AsInt64() int64 {
	return int64(s.bits())
}

// AsUint64 parses the contents as an unsigned integer, with the same rules
// as AsInt64
func (s String) AsUint64() uint64 {
	return s.bits()
}

// AsDouble parses the contents as a double, or returns 0
func (s String) AsDouble() float64 {
	f, err := fastfloat.Parse(strings.TrimSpace(s.String()))
	if err != nil {
		return 0
	}
	return f
}

func (s String) bits() uint64 {
	text := strings.TrimSpace(s.String())
	if text == "" {
		return 0
	}
	if n, err := fastfloat.ParseInt64(text); err == nil {
		return uint64(n)
	}
	if n, err := fastfloat.ParseUint64(text); err == nil {
		return n
	}
	if f, err := fastfloat.Parse(text); err == nil {
		return floatBits(f)
	}
	return 0
}

// ============================================================================
// SHARING
// ============================================================================

// Copy returns a handle sharing the payload. A leaked payload is cloned
// instead.
func (s String) Copy() String {
	if s.p == nil {
		return String{invalid: s.invalid}
	}
	if s.p.refs == ReferLeaked {
		return String{p: s.p.clone(), invalid: s.invalid}
	}
	s.p.refs++
	return String{p: s.p, invalid: s.invalid}
}

// Release drops this handle's share of the payload
func (s *String) Release() {
	if s.p != nil && !s.borrowed && s.p.refs > 1 {
		s.p.refs--
	}
	*s = String{}
}

// Refer reports the share state of the payload: -1 without a payload, 0
// once leaked, otherwise the number of holders
func (s String) Refer() int {
	if s.p == nil {
		return ReferNone
	}
	return s.p.refs
}

func (s String) view() String {
	s.borrowed = true
	return s
}
