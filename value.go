package jsondoc

import (
	"math"
)

// dblEpsilon is the tolerance for comparing doubles
const dblEpsilon = 2.220446049250313e-16

// Value is a tagged union over the JSON types. The zero value is null and
// carries no payload. Scalars are stored inline; strings, arrays and objects
// hold a handle to a shared copy-on-write payload.
//
// Assigning a Value with = aliases the handle without taking a share. Use
// Copy to share and Release to drop a share.
type Value struct {
	t Type
	n uint64 // bool, int64 and uint64 bits
	f float64
	s String
	a Array
	o Object
}

// ============================================================================
// CONSTRUCTORS
// ============================================================================

// NewNull returns a null Value
func NewNull() Value {
	return Value{}
}

// NewBool returns a bool Value
func NewBool(b bool) Value {
	v := Value{t: TypeBool}
	if b {
		v.n = 1
	}
	return v
}

// NewInt returns an Int64 Value
func NewInt(n int64) Value {
	return Value{t: TypeInt64, n: uint64(n)}
}

// NewUint returns an integer Value. Numbers that fit in int64 are tagged
// Int64, larger ones UInt64, matching what the parser produces.
func NewUint(n uint64) Value {
	if n <= math.MaxInt64 {
		return Value{t: TypeInt64, n: n}
	}
	return Value{t: TypeUint64, n: n}
}

// NewDouble returns a Double Value
func NewDouble(f float64) Value {
	return Value{t: TypeDouble, f: f}
}

// NewString returns a String Value holding s
func NewString(s string) Value {
	return Value{t: TypeString, s: StringOf(s)}
}

// NewBytes returns a String Value holding a copy of b
func NewBytes(b []byte) Value {
	return Value{t: TypeString, s: BytesOf(b)}
}

// NewStringValue wraps a shared copy of s
func NewStringValue(s String) Value {
	return Value{t: TypeString, s: s.Copy()}
}

// NewArray wraps a shared copy of a
func NewArray(a Array) Value {
	return Value{t: TypeArray, a: a.Copy()}
}

// NewObject wraps a shared copy of o
func NewObject(o Object) Value {
	return Value{t: TypeObject, o: o.Copy()}
}

// ============================================================================
// TYPE PREDICATES
// ============================================================================

// Type returns the tag
func (v Value) Type() Type { return v.t }

func (v Value) IsNull() bool   { return v.t == TypeNull }
func (v Value) IsBool() bool   { return v.t == TypeBool }
func (v Value) IsDouble() bool { return v.t == TypeDouble }
func (v Value) IsString() bool { return v.t == TypeString }
func (v Value) IsArray() bool  { return v.t == TypeArray }
func (v Value) IsObject() bool { return v.t == TypeObject }
func (v Value) IsNumber() bool { return v.t.IsNumber() }

// IsInteger reports an Int64 or UInt64 tag. Numbers that overflowed 64 bits
// while parsing are doubles and report false.
func (v Value) IsInteger() bool {
	return v.t == TypeInt64 || v.t == TypeUint64
}

// IsUnsigned reports a UInt64 tag
func (v Value) IsUnsigned() bool {
	return v.t == TypeUint64
}

// ============================================================================
// COERCING ACCESSORS
// ============================================================================

// floatBits converts a double to a 64-bit integer pattern, saturating where
// a plain conversion would be undefined
func floatBits(f float64) uint64 {
	switch {
	case f != f:
		return 0
	case f >= 18446744073709551615.0:
		return math.MaxUint64
	case f >= 9223372036854775808.0:
		return uint64(f)
	case f <= -9223372036854775808.0:
		return 1 << 63
	default:
		return uint64(int64(f))
	}
}

// bits returns the 64-bit integer pattern the integer accessors truncate
func (v Value) bits() uint64 {
	switch v.t {
	case TypeBool, TypeInt64, TypeUint64:
		return v.n
	case TypeDouble:
		return floatBits(v.f)
	case TypeString:
		return v.s.bits()
	}
	return 0
}

// AsBool converts to bool. Numbers are true when non-zero; strings, arrays
// and objects are true when non-empty.
func (v Value) AsBool() bool {
	switch v.t {
	case TypeBool, TypeInt64, TypeUint64:
		return v.n != 0
	case TypeDouble:
		return v.f != 0
	case TypeString:
		return v.s.Len() > 0
	case TypeArray:
		return v.a.Len() > 0
	case TypeObject:
		return v.o.Len() > 0
	}
	return false
}

// Integer accessors reinterpret the stored 64-bit pattern and truncate it to
// the target width, so 4294967295 reads back as AsInt() == -1. Bools read as
// 1 or 0, doubles truncate toward zero, strings are parsed, and everything
// else reads as 0.

func (v Value) AsInt8() int8     { return int8(v.bits()) }
func (v Value) AsInt16() int16   { return int16(v.bits()) }
func (v Value) AsInt() int32     { return int32(v.bits()) }
func (v Value) AsLong() int64    { return int64(v.bits()) }
func (v Value) AsLLong() int64   { return int64(v.bits()) }
func (v Value) AsUint8() uint8   { return uint8(v.bits()) }
func (v Value) AsUint16() uint16 { return uint16(v.bits()) }
func (v Value) AsUint() uint32   { return uint32(v.bits()) }
func (v Value) AsULong() uint64  { return v.bits() }
func (v Value) AsULLong() uint64 { return v.bits() }

// AsDouble converts numerically. Strings are parsed; non-numeric values
// read as 0.
func (v Value) AsDouble() float64 {
	switch v.t {
	case TypeBool, TypeUint64:
		return float64(v.n)
	case TypeInt64:
		return float64(int64(v.n))
	case TypeDouble:
		return v.f
	case TypeString:
		return v.s.AsDouble()
	}
	return 0
}

// AsFloat is AsDouble narrowed to float32
func (v Value) AsFloat() float32 {
	return float32(v.AsDouble())
}

// AsString returns the text of a String Value, or "" for any other type
func (v Value) AsString() string {
	if v.t != TypeString {
		return ""
	}
	return v.s.String()
}

// ============================================================================
// CONTAINER VIEWS
// ============================================================================

// Str returns a borrowed view of the String payload, or an empty String
func (v Value) Str() String {
	if v.t != TypeString {
		return String{}
	}
	return v.s.view()
}

// AsArray returns a borrowed view of the Array payload, or an empty Array
func (v Value) AsArray() Array {
	if v.t != TypeArray {
		return Array{}
	}
	return v.a.view()
}

// AsObject returns a borrowed view of the Object payload, or an empty Object
func (v Value) AsObject() Object {
	if v.t != TypeObject {
		return Object{}
	}
	return v.o.view()
}

// Index returns a borrowed view of array element i, or null
func (v Value) Index(i int) Value {
	if v.t != TypeArray {
		return Value{}
	}
	return v.a.At(i)
}

// Key returns a borrowed view of the member under key, or null
func (v Value) Key(key string) Value {
	if v.t != TypeObject {
		return Value{}
	}
	return v.o.Get(key)
}

// MutString returns the String handle for in-place edits. On a type
// mismatch it returns a detached empty String, so edits go nowhere.
func (v *Value) MutString() *String {
	if v.t != TypeString {
		return &String{}
	}
	return &v.s
}

// MutArray returns the Array handle for in-place edits, or a detached empty
// Array on a type mismatch
func (v *Value) MutArray() *Array {
	if v.t != TypeArray {
		return &Array{}
	}
	return &v.a
}

// MutObject returns the Object handle for in-place edits, or a detached
// empty Object on a type mismatch
func (v *Value) MutObject() *Object {
	if v.t != TypeObject {
		return &Object{}
	}
	return &v.o
}

// ============================================================================
// SETTERS
// ============================================================================

// Assign makes v share other's payload, releasing its previous one
func (v *Value) Assign(other Value) {
	c := other.Copy()
	v.Release()
	*v = c
}

// SetNull releases the payload and makes v null
func (v *Value) SetNull() {
	v.Release()
}

func (v *Value) SetBool(b bool)      { v.Release(); *v = NewBool(b) }
func (v *Value) SetInt(n int64)      { v.Release(); *v = NewInt(n) }
func (v *Value) SetUint(n uint64)    { v.Release(); *v = NewUint(n) }
func (v *Value) SetDouble(f float64) { v.Release(); *v = NewDouble(f) }
func (v *Value) SetString(s string)  { v.Release(); *v = NewString(s) }

// SetArray makes v share a's payload
func (v *Value) SetArray(a Array) {
	c := NewArray(a)
	v.Release()
	*v = c
}

// SetObject makes v share o's payload
func (v *Value) SetObject(o Object) {
	c := NewObject(o)
	v.Release()
	*v = c
}

// SetStringValue makes v share s's payload
func (v *Value) SetStringValue(s String) {
	c := NewStringValue(s)
	v.Release()
	*v = c
}

// ============================================================================
// SHARING
// ============================================================================

// Copy returns a Value sharing the payload
func (v Value) Copy() Value {
	switch v.t {
	case TypeString:
		return Value{t: TypeString, s: v.s.Copy()}
	case TypeArray:
		return Value{t: TypeArray, a: v.a.Copy()}
	case TypeObject:
		return Value{t: TypeObject, o: v.o.Copy()}
	}
	v.s, v.a, v.o = String{}, Array{}, Object{}
	return v
}

// Clone returns a deep copy that shares nothing with v
func (v Value) Clone() Value {
	switch v.t {
	case TypeString:
		return Value{t: TypeString, s: BytesOf(v.s.Bytes())}
	case TypeArray:
		return Value{t: TypeArray, a: v.a.Clone()}
	case TypeObject:
		return Value{t: TypeObject, o: v.o.Clone()}
	}
	return v.Copy()
}

// Release drops the payload share and resets v to null
func (v *Value) Release() {
	switch v.t {
	case TypeString:
		v.s.Release()
	case TypeArray:
		v.a.Release()
	case TypeObject:
		v.o.Release()
	}
	*v = Value{}
}

// Refer reports the payload share state: -1 for scalars and empty
// containers, 0 for a leaked payload, otherwise the number of holders
func (v Value) Refer() int {
	switch v.t {
	case TypeString:
		return v.s.Refer()
	case TypeArray:
		return v.a.Refer()
	case TypeObject:
		return v.o.Refer()
	}
	return ReferNone
}

func (v Value) view() Value {
	switch v.t {
	case TypeString:
		v.s = v.s.view()
	case TypeArray:
		v.a = v.a.view()
	case TypeObject:
		v.o = v.o.view()
	}
	return v
}

// ============================================================================
// EQUALITY AND MERGE
// ============================================================================

// Equal compares tag-exactly and deeply. Values with different tags are
// never equal, so NewInt(0) differs from NewDouble(0).
func (v Value) Equal(other Value) bool {
	if v.t != other.t {
		return false
	}
	switch v.t {
	case TypeNull:
		return true
	case TypeBool, TypeInt64, TypeUint64:
		return v.n == other.n
	case TypeDouble:
		return v.f == other.f || math.Abs(v.f-other.f) < dblEpsilon
	case TypeString:
		return v.s.Equal(other.s)
	case TypeArray:
		return v.a.Equal(other.a)
	case TypeObject:
		return v.o.Equal(other.o)
	}
	return false
}

// EqualScalar compares against a plain Go value with numeric promotion:
// NewInt(1) equals 1, 1.0 and true. Strings compare by content and nil
// matches null.
func (v Value) EqualScalar(x any) bool {
	switch x := x.(type) {
	case nil:
		return v.t == TypeNull
	case Value:
		return v.Equal(x)
	case string:
		return v.t == TypeString && v.s.String() == x
	case bool:
		return (v.t == TypeBool || v.t.IsNumber()) && v.AsBool() == x
	case float64:
		return v.numericEqualFloat(x)
	case float32:
		return v.numericEqualFloat(float64(x))
	}
	if n, neg, ok := integerOf(x); ok {
		return v.numericEqualInt(n, neg)
	}
	return false
}

func (v Value) numericEqualFloat(f float64) bool {
	switch v.t {
	case TypeBool, TypeInt64, TypeUint64, TypeDouble:
		return v.AsDouble() == f
	}
	return false
}

// numericEqualInt compares against an integer given as magnitude bits and
// sign, without losing precision
func (v Value) numericEqualInt(n uint64, neg bool) bool {
	switch v.t {
	case TypeBool, TypeUint64:
		return !neg && v.n == n
	case TypeInt64:
		if neg != (int64(v.n) < 0) {
			return false
		}
		return v.n == n
	case TypeDouble:
		if neg {
			return v.f == float64(int64(n))
		}
		return v.f == float64(n)
	}
	return false
}

// integerOf returns the two's complement bits of an integer and its sign
func integerOf(x any) (uint64, bool, bool) {
	switch x := x.(type) {
	case int:
		return uint64(x), x < 0, true
	case int8:
		return uint64(x), x < 0, true
	case int16:
		return uint64(x), x < 0, true
	case int32:
		return uint64(x), x < 0, true
	case int64:
		return uint64(x), x < 0, true
	case uint:
		return uint64(x), false, true
	case uint8:
		return uint64(x), false, true
	case uint16:
		return uint64(x), false, true
	case uint32:
		return uint64(x), false, true
	case uint64:
		return x, false, true
	}
	return 0, false, false
}

// Merge folds other into v. Two objects merge key by key, recursing where
// both sides hold objects; in every other case other replaces v.
func (v *Value) Merge(other Value) {
	if v.t == TypeObject && other.t == TypeObject {
		v.o.Merge(other.o)
		return
	}
	v.Assign(other)
}

// ============================================================================
// JSON TEXT
// ============================================================================

// Parse replaces v with the document in text using strict parsing. On
// failure v is left untouched and false is returned.
func (v *Value) Parse(text string) bool {
	return NewParser().Parse(v, text)
}

// AsJSONString returns the compact JSON text of v
func (v Value) AsJSONString() string {
	d := NewDumper()
	d.Dump(v)
	return d.String()
}
