package jsondoc

import (
	"fmt"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

// TestHelper provides assertion utilities for document tests
type TestHelper struct {
	t *testing.T
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

func message(def string, msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return def
	}
	return fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(expected, actual any, msgAndArgs ...any) {
	h.t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		h.t.Errorf("%s\nExpected: %v (%T)\nActual: %v (%T)",
			message("Values are not equal", msgAndArgs), expected, expected, actual, actual)
	}
}

// AssertNoError checks that error is nil
func (h *TestHelper) AssertNoError(err error, msgAndArgs ...any) {
	h.t.Helper()
	if err != nil {
		h.t.Errorf("%s, but got: %v", message("Expected no error", msgAndArgs), err)
	}
}

// AssertError checks that error is not nil
func (h *TestHelper) AssertError(err error, msgAndArgs ...any) {
	h.t.Helper()
	if err == nil {
		h.t.Error(message("Expected an error", msgAndArgs) + ", but got nil")
	}
}

// AssertErrorContains checks that error contains specific text
func (h *TestHelper) AssertErrorContains(err error, contains string, msgAndArgs ...any) {
	h.t.Helper()
	if err == nil {
		h.t.Error(message("Expected an error", msgAndArgs) + ", but got nil")
		return
	}
	if !strings.Contains(err.Error(), contains) {
		h.t.Errorf("%s, but got: %v",
			message(fmt.Sprintf("Expected error to contain '%s'", contains), msgAndArgs), err)
	}
}

// AssertTrue checks that condition is true
func (h *TestHelper) AssertTrue(condition bool, msgAndArgs ...any) {
	h.t.Helper()
	if !condition {
		h.t.Error(message("Expected condition to be true", msgAndArgs))
	}
}

// AssertFalse checks that condition is false
func (h *TestHelper) AssertFalse(condition bool, msgAndArgs ...any) {
	h.t.Helper()
	if condition {
		h.t.Error(message("Expected condition to be false", msgAndArgs))
	}
}

// AssertValueEqual compares two Values tag-exactly and shows both as JSON
func (h *TestHelper) AssertValueEqual(expected, actual Value, msgAndArgs ...any) {
	h.t.Helper()
	if !expected.Equal(actual) {
		h.t.Errorf("%s\nExpected: %s\nActual: %s",
			message("Values are not equal", msgAndArgs), expected.AsJSONString(), actual.AsJSONString())
	}
}

// MustParse parses text with cfg or fails the test
func (h *TestHelper) MustParse(text string, cfg ...*Config) Value {
	h.t.Helper()
	v, err := ParseString(text, cfg...)
	if err != nil {
		h.t.Fatalf("parse %q: %v", text, err)
	}
	return v
}

// TestDataGenerator builds random documents from a fixed seed
type TestDataGenerator struct {
	rand *rand.Rand
}

// NewTestDataGenerator creates a generator; equal seeds give equal documents
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{rand: rand.New(rand.NewSource(seed))}
}

// GenerateDocument returns a random object nested up to depth levels
func (g *TestDataGenerator) GenerateDocument(depth int) Value {
	var o Object
	n := 1 + g.rand.Intn(6)
	for i := 0; i < n; i++ {
		o.adopt("k"+strconv.Itoa(g.rand.Intn(50)), g.generateValue(depth-1))
	}
	return objectValue(o)
}

func (g *TestDataGenerator) generateValue(depth int) Value {
	kinds := 6
	if depth > 0 {
		kinds = 8
	}
	switch g.rand.Intn(kinds) {
	case 0:
		return NewNull()
	case 1:
		return NewBool(g.rand.Intn(2) == 1)
	case 2:
		return NewInt(g.rand.Int63() - g.rand.Int63())
	case 3:
		return NewUint(g.rand.Uint64())
	case 4:
		return NewDouble(g.rand.NormFloat64() * 1e6)
	case 5:
		b := make([]byte, g.rand.Intn(12))
		for i := range b {
			b[i] = byte(g.rand.Intn(128))
		}
		return NewBytes(b)
	case 6:
		var a Array
		for i := g.rand.Intn(5); i > 0; i-- {
			a.adopt(g.generateValue(depth - 1))
		}
		return containerValue(a)
	}
	return g.GenerateDocument(depth)
}
