package jsondoc

import (
	"math"
	"testing"
)

// ============================================================================
// CONSTRUCTION AND TYPE TESTS
// ============================================================================

func TestValueConstruction(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected Type
	}{
		{"zero value", Value{}, TypeNull},
		{"null", NewNull(), TypeNull},
		{"bool", NewBool(true), TypeBool},
		{"int", NewInt(-5), TypeInt64},
		{"small uint", NewUint(5), TypeInt64},
		{"large uint", NewUint(math.MaxUint64), TypeUint64},
		{"double", NewDouble(1.5), TypeDouble},
		{"string", NewString("x"), TypeString},
		{"bytes", NewBytes([]byte("x")), TypeString},
		{"array", NewArray(ArrayOf(NewInt(1))), TypeArray},
		{"object", NewObject(Object{}), TypeObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.Type() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.value.Type())
			}
		})
	}
}

func TestValueZeroIsNullWithoutPayload(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Errorf("expected null, got %s", v.Type())
	}
	if v.Refer() != ReferNone {
		t.Errorf("expected refer %d, got %d", ReferNone, v.Refer())
	}
}

// ============================================================================
// NUMERIC ACCESSOR TESTS
// ============================================================================

func TestValueNumericBoundary(t *testing.T) {
	helper := NewTestHelper(t)

	t.Run("uint64 max stays integer", func(t *testing.T) {
		doc := helper.MustParse("[18446744073709551615]")
		defer doc.Release()
		v := doc.Index(0)
		if !v.IsInteger() {
			t.Fatalf("expected integer, got %s", v.Type())
		}
		if v.AsULLong() != math.MaxUint64 {
			t.Errorf("expected %d, got %d", uint64(math.MaxUint64), v.AsULLong())
		}
		if v.AsLLong() != -1 {
			t.Errorf("expected bit pattern to read as -1, got %d", v.AsLLong())
		}
	})

	t.Run("one past max becomes double", func(t *testing.T) {
		doc := helper.MustParse("[18446744073709551616]")
		defer doc.Release()
		v := doc.Index(0)
		if v.IsInteger() {
			t.Fatalf("expected non-integer, got %s", v.Type())
		}
		if v.AsFloat() != float32(18446744073709551616.0) {
			t.Errorf("expected 18446744073709551616.0, got %v", v.AsFloat())
		}
		if v.AsDouble() != 18446744073709551616.0 {
			t.Errorf("expected 18446744073709551616.0, got %v", v.AsDouble())
		}
	})

	t.Run("int64 min", func(t *testing.T) {
		doc := helper.MustParse("[-9223372036854775808]")
		defer doc.Release()
		v := doc.Index(0)
		if v.Type() != TypeInt64 || v.AsLLong() != math.MinInt64 {
			t.Errorf("expected Int64 %d, got %s %d", int64(math.MinInt64), v.Type(), v.AsLLong())
		}
	})

	t.Run("below int64 min becomes double", func(t *testing.T) {
		doc := helper.MustParse("[-9223372036854775809]")
		defer doc.Release()
		if doc.Index(0).Type() != TypeDouble {
			t.Errorf("expected double, got %s", doc.Index(0).Type())
		}
	})
}

func TestValueTruncation(t *testing.T) {
	v := NewUint(4294967295)

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"AsInt", v.AsInt(), int32(-1)},
		{"AsLong", v.AsLong(), int64(4294967295)},
		{"AsUint", v.AsUint(), uint32(4294967295)},
		{"AsInt16", v.AsInt16(), int16(-1)},
		{"AsUint16", v.AsUint16(), uint16(65535)},
		{"AsInt8", v.AsInt8(), int8(-1)},
		{"AsUint8", v.AsUint8(), uint8(255)},
		{"AsULong", v.AsULong(), uint64(4294967295)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestValueCoercions(t *testing.T) {
	helper := NewTestHelper(t)

	helper.AssertEqual(int64(3), NewDouble(3.9).AsLong(), "double truncates toward zero")
	helper.AssertEqual(int64(-3), NewDouble(-3.9).AsLong(), "negative double truncates toward zero")
	helper.AssertEqual(int64(1), NewBool(true).AsLong())
	helper.AssertEqual(int64(42), NewString("42").AsLong())
	helper.AssertEqual(int64(-7), NewString(" -7 ").AsLong())
	helper.AssertEqual(uint64(18446744073709551615), NewString("18446744073709551615").AsULLong())
	helper.AssertEqual(int64(2), NewString("2.5").AsLong())
	helper.AssertEqual(0.0, NewString("abc").AsDouble())
	helper.AssertEqual(2.5, NewString("2.5").AsDouble())
	helper.AssertEqual(int64(0), NewNull().AsLong())
	helper.AssertEqual(0.0, NewObject(Object{}).AsDouble())
	helper.AssertEqual(uint64(math.MaxUint64), NewDouble(1e30).AsULong(), "saturates")

	helper.AssertTrue(NewInt(2).AsBool())
	helper.AssertFalse(NewDouble(0).AsBool())
	helper.AssertTrue(NewString("x").AsBool())
	helper.AssertFalse(NewString("").AsBool())
	helper.AssertFalse(NewNull().AsBool())

	helper.AssertEqual("x", NewString("x").AsString())
	helper.AssertEqual("", NewInt(1).AsString())
}

// ============================================================================
// EQUALITY TESTS
// ============================================================================

func TestValueEqualityIsTagExact(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"false vs 0.0", NewBool(false), NewDouble(0.0), false},
		{"0 vs 0.0", NewInt(0), NewDouble(0.0), false},
		{"string 0.0 vs 0", NewString("0.0"), NewInt(0), false},
		{"null vs false", NewNull(), NewBool(false), false},
		{"same ints", NewInt(7), NewInt(7), true},
		{"same doubles", NewDouble(0.1 + 0.2), NewDouble(0.3), true},
		{"same strings", NewString("a"), NewString("a"), true},
		{"int vs uint tag", NewInt(-1), NewUint(math.MaxUint64), false},
		{"arrays", NewArray(ArrayOf(NewInt(1))), NewArray(ArrayOf(NewInt(1))), true},
		{"array order", NewArray(ArrayOf(NewInt(1), NewInt(2))), NewArray(ArrayOf(NewInt(2), NewInt(1))), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.Equal(tt.b) != tt.equal {
				t.Errorf("expected Equal=%v for %s vs %s", tt.equal, tt.a.AsJSONString(), tt.b.AsJSONString())
			}
			if tt.b.Equal(tt.a) != tt.equal {
				t.Errorf("expected symmetric Equal=%v", tt.equal)
			}
		})
	}
}

func TestValueEqualScalarPromotes(t *testing.T) {
	tests := []struct {
		name  string
		v     Value
		x     any
		equal bool
	}{
		{"int vs float", NewInt(0), 0.0, true},
		{"int vs int", NewInt(-3), -3, true},
		{"int vs uint", NewInt(3), uint8(3), true},
		{"negative vs uint", NewInt(-1), uint64(math.MaxUint64), false},
		{"bool vs int", NewBool(true), 1, true},
		{"bool vs bool", NewBool(false), false, true},
		{"double vs int", NewDouble(2), 2, true},
		{"uint max", NewUint(math.MaxUint64), uint64(math.MaxUint64), true},
		{"string", NewString("a"), "a", true},
		{"string vs number", NewString("1"), 1, false},
		{"null vs nil", NewNull(), nil, true},
		{"int vs nil", NewInt(0), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.EqualScalar(tt.x) != tt.equal {
				t.Errorf("expected EqualScalar=%v", tt.equal)
			}
		})
	}
}

// ============================================================================
// COPY-ON-WRITE TESTS
// ============================================================================

func TestValueCopyOnWriteIsolation(t *testing.T) {
	arr := ArrayOf(NewInt(1), NewInt(2), NewInt(3))
	a := NewArray(arr)
	arr.Release()
	b := a.Copy()
	defer a.Release()
	defer b.Release()

	if a.Refer() != 2 {
		t.Fatalf("expected 2 holders, got %d", a.Refer())
	}

	a.MutArray().MutAt(0).SetInt(100)
	for _, v := range a.MutArray().MutAll() {
		v.SetString("changed")
	}

	for i, expected := range []int64{1, 2, 3} {
		if got := b.Index(i); got.Type() != TypeInt64 || got.AsLong() != expected {
			t.Errorf("index %d: expected %d, got %s", i, expected, got.AsJSONString())
		}
	}
	if a.Index(0).AsString() != "changed" {
		t.Errorf("expected mutation on a, got %s", a.AsJSONString())
	}
	if a.Refer() != ReferLeaked {
		t.Errorf("expected leaked payload, got refer %d", a.Refer())
	}
	if b.Refer() != 1 {
		t.Errorf("expected b sole holder, got refer %d", b.Refer())
	}
}

func TestValueLeakedPayloadClonesOnCopy(t *testing.T) {
	var o Object
	o.Assign("n", NewInt(1))
	p := o.MutGet("n")
	c := o.Copy()
	p.SetInt(2)

	if c.Get("n").AsLong() != 1 {
		t.Errorf("expected copy taken after leak to be isolated, got %d", c.Get("n").AsLong())
	}
	if o.Get("n").AsLong() != 2 {
		t.Errorf("expected 2, got %d", o.Get("n").AsLong())
	}
	if c.Refer() != 1 {
		t.Errorf("expected fresh payload, got refer %d", c.Refer())
	}
	c.Release()
	o.Release()
}

func TestValueNestedCopyOnWrite(t *testing.T) {
	helper := NewTestHelper(t)
	a := helper.MustParse(`{"inner":{"list":[1,2]}}`)
	b := a.Copy()
	defer a.Release()
	defer b.Release()

	list := a.MutObject().MutGet("inner").MutObject().MutGet("list").MutArray()
	list.Append(NewInt(3))

	if b.Key("inner").Key("list").AsArray().Len() != 2 {
		t.Errorf("expected untouched nested list, got %s", b.AsJSONString())
	}
	if a.Key("inner").Key("list").AsArray().Len() != 3 {
		t.Errorf("expected appended list, got %s", a.AsJSONString())
	}
}

func TestValueCloneSharesNothing(t *testing.T) {
	helper := NewTestHelper(t)
	a := helper.MustParse(`{"s":"text","l":[{"x":1}]}`)
	c := a.Clone()
	defer a.Release()
	defer c.Release()

	helper.AssertValueEqual(a, c)
	if a.Refer() != 1 || c.Refer() != 1 {
		t.Errorf("expected independent payloads, got %d and %d", a.Refer(), c.Refer())
	}
	c.MutObject().MutGet("l").MutArray().MutAt(0).MutObject().Assign("x", NewInt(2))
	if a.Key("l").Index(0).Key("x").AsLong() != 1 {
		t.Errorf("expected original untouched, got %s", a.AsJSONString())
	}
}

func TestValueMismatchedViews(t *testing.T) {
	v := NewInt(5)

	if v.AsArray().Len() != 0 || v.AsObject().Len() != 0 || v.Str().Len() != 0 {
		t.Error("expected empty views on scalar")
	}
	if !v.Index(0).IsNull() || !v.Key("a").IsNull() {
		t.Error("expected null from element access on scalar")
	}

	v.MutArray().Append(NewInt(1))
	v.MutObject().Assign("a", NewInt(1))
	v.MutString().AppendString("x")
	if v.Type() != TypeInt64 || v.AsLong() != 5 {
		t.Errorf("expected detached edits, got %s", v.AsJSONString())
	}
}

// ============================================================================
// SETTER AND MERGE TESTS
// ============================================================================

func TestValueSetters(t *testing.T) {
	var v Value
	v.SetString("a")
	if v.AsString() != "a" {
		t.Errorf("expected a, got %q", v.AsString())
	}
	v.SetDouble(1.5)
	if v.Type() != TypeDouble {
		t.Errorf("expected double, got %s", v.Type())
	}
	v.SetArray(ArrayOf(NewBool(true)))
	if v.AsArray().Len() != 1 {
		t.Errorf("expected one element, got %d", v.AsArray().Len())
	}
	v.SetNull()
	if !v.IsNull() || v.Refer() != ReferNone {
		t.Error("expected null without payload")
	}
}

func TestValueMergeLaw(t *testing.T) {
	helper := NewTestHelper(t)

	tests := []struct {
		name     string
		receiver string
		other    string
		expected string
	}{
		{"override and keep", `{"x":0,"y":2}`, `{"x":1}`, `{"x":1,"y":2}`},
		{"add new keys", `{"a":1}`, `{"b":2}`, `{"a":1,"b":2}`},
		{"recurse objects", `{"o":{"a":1,"b":1}}`, `{"o":{"b":2,"c":3}}`, `{"o":{"a":1,"b":2,"c":3}}`},
		{"replace arrays", `{"l":[1,2,3]}`, `{"l":[9]}`, `{"l":[9]}`},
		{"object replaces scalar", `{"k":1}`, `{"k":{"z":true}}`, `{"k":{"z":true}}`},
		{"arrays replace wholesale", `[1,2]`, `[3]`, `[3]`},
		{"object replaces array", `[1]`, `{"a":1}`, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recv := helper.MustParse(tt.receiver)
			other := helper.MustParse(tt.other)
			expected := helper.MustParse(tt.expected)
			recv.Merge(other)
			helper.AssertValueEqual(expected, recv)
			recv.Release()
			other.Release()
			expected.Release()
		})
	}
}

func TestValueMergeDoesNotAliasOther(t *testing.T) {
	helper := NewTestHelper(t)
	recv := helper.MustParse(`{"a":{}}`)
	other := helper.MustParse(`{"a":{"l":[1]},"b":[2]}`)
	recv.Merge(other)

	recv.MutObject().MutGet("b").MutArray().Append(NewInt(3))
	recv.MutObject().MutGet("a").MutObject().MutGet("l").MutArray().Append(NewInt(4))

	if other.Key("b").AsArray().Len() != 1 || other.Key("a").Key("l").AsArray().Len() != 1 {
		t.Errorf("expected merge source untouched, got %s", other.AsJSONString())
	}
	recv.Release()
	other.Release()
}

func TestValueMergeSelf(t *testing.T) {
	helper := NewTestHelper(t)
	v := helper.MustParse(`{"a":{"b":1}}`)
	c := v.Copy()
	v.Merge(c)
	helper.AssertValueEqual(c, v)
	c.Release()
	v.Release()
}

func TestAssignmentAliasesWithoutCopy(t *testing.T) {
	helper := NewTestHelper(t)
	a := helper.MustParse(`{"k":0}`)

	alias := a
	alias.MutObject().Assign("k", NewInt(1))
	helper.AssertEqual(int64(1), a.Key("k").AsLong(), "a plain assignment shares the payload")

	held := a.Copy()
	held.MutObject().Assign("k", NewInt(2))
	helper.AssertEqual(int64(1), a.Key("k").AsLong(), "Copy isolates later writes")
	helper.AssertEqual(int64(2), held.Key("k").AsLong())

	held.Release()
	a.Release()
}

