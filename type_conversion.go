package jsondoc

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Interface converts v to plain Go data: nil, bool, int64, uint64, float64,
// string, []any or map[string]any
func (v Value) Interface() any {
	switch v.t {
	case TypeBool:
		return v.n != 0
	case TypeInt64:
		return int64(v.n)
	case TypeUint64:
		return v.n
	case TypeDouble:
		return v.f
	case TypeString:
		return v.s.String()
	case TypeArray:
		out := make([]any, 0, v.a.Len())
		for _, item := range v.a.All() {
			out = append(out, item.Interface())
		}
		return out
	case TypeObject:
		out := make(map[string]any, v.o.Len())
		for key, item := range v.o.All() {
			out[key] = item.Interface()
		}
		return out
	}
	return nil
}

// ValueOf converts Go data to a Value. Scalars, strings, slices, arrays and
// string-keyed maps convert directly; other types go through encoding/json.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t.Copy(), nil
	case *Value:
		if t == nil {
			return Value{}, nil
		}
		return t.Copy(), nil
	case Array:
		return NewArray(t), nil
	case Object:
		return NewObject(t), nil
	case String:
		return NewStringValue(t), nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int8:
		return NewInt(int64(t)), nil
	case int16:
		return NewInt(int64(t)), nil
	case int32:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case uint:
		return NewUint(uint64(t)), nil
	case uint8:
		return NewUint(uint64(t)), nil
	case uint16:
		return NewUint(uint64(t)), nil
	case uint32:
		return NewUint(uint64(t)), nil
	case uint64:
		return NewUint(t), nil
	case float32:
		return NewDouble(float64(t)), nil
	case float64:
		return NewDouble(t), nil
	case string:
		return NewString(t), nil
	case []byte:
		return NewBytes(t), nil
	case json.Number:
		return numberValue(string(t))
	case []any:
		var a Array
		for i, item := range t {
			iv, err := ValueOf(item)
			if err != nil {
				a.Release()
				return Value{}, conversionError(strconv.Itoa(i), err)
			}
			a.adopt(iv)
		}
		return containerValue(a), nil
	case map[string]any:
		var o Object
		for key, item := range t {
			iv, err := ValueOf(item)
			if err != nil {
				o.Release()
				return Value{}, conversionError(key, err)
			}
			o.adopt(key, iv)
		}
		return objectValue(o), nil
	}
	return reflectValue(reflect.ValueOf(x))
}

func reflectValue(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}, nil
		}
		if _, ok := rv.Interface().(json.Marshaler); ok {
			return marshalValue(rv.Interface())
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{}, nil
		}
		var a Array
		a.Reserve(rv.Len())
		for i := 0; i < rv.Len(); i++ {
			iv, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				a.Release()
				return Value{}, conversionError(strconv.Itoa(i), err)
			}
			a.adopt(iv)
		}
		return containerValue(a), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return marshalValue(rv.Interface())
		}
		if rv.IsNil() {
			return Value{}, nil
		}
		var o Object
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			iv, err := ValueOf(iter.Value().Interface())
			if err != nil {
				o.Release()
				return Value{}, conversionError(key, err)
			}
			o.adopt(key, iv)
		}
		return objectValue(o), nil
	case reflect.Bool:
		return NewBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return NewUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return NewDouble(rv.Float()), nil
	case reflect.String:
		return NewString(rv.String()), nil
	case reflect.Invalid:
		return Value{}, nil
	}
	return marshalValue(rv.Interface())
}

// marshalValue converts through encoding/json. The text is wrapped in an
// array so scalar encodings still have an object or array at the top.
func marshalValue(x any) (Value, error) {
	data, err := json.Marshal(x)
	if err != nil {
		return Value{}, &JsonsError{
			Op:      "value_of",
			Message: fmt.Sprintf("cannot convert %T", x),
			Err:     fmt.Errorf("%w: %v", ErrTypeMismatch, err),
		}
	}
	wrapped, err := ParseString("[" + string(data) + "]")
	if err != nil {
		return Value{}, &JsonsError{
			Op:      "value_of",
			Message: fmt.Sprintf("cannot convert %T", x),
			Err:     err,
		}
	}
	defer wrapped.Release()
	return wrapped.Index(0).Copy(), nil
}

func numberValue(text string) (Value, error) {
	wrapped, err := ParseString("[" + text + "]")
	if err != nil || wrapped.AsArray().Len() != 1 || !wrapped.Index(0).IsNumber() {
		wrapped.Release()
		return Value{}, &JsonsError{
			Op:      "value_of",
			Message: fmt.Sprintf("invalid number %q", text),
			Err:     ErrTypeMismatch,
		}
	}
	defer wrapped.Release()
	return wrapped.Index(0).Copy(), nil
}

// containerValue wraps a without another share. Empty containers get a
// payload, the same as parsed ones.
func containerValue(a Array) Value {
	if a.p == nil {
		a.own()
	}
	return Value{t: TypeArray, a: a}
}

func objectValue(o Object) Value {
	if o.p == nil {
		o.own()
	}
	return Value{t: TypeObject, o: o}
}

func conversionError(at string, err error) error {
	return &JsonsError{
		Op:      "value_of",
		Path:    at,
		Message: "element cannot be converted",
		Err:     err,
	}
}
