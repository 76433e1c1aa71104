package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"
)

// FromAny converts generic Go data (maps with string keys, slices, and
// scalars) into a Value. Map keys are emitted in sorted order; nil entries are
// dropped. Structs go through FromStruct so their tags are honoured.
func FromAny(v any) (Value, error) {
	out, ok, err := fromAny(v)
	if err != nil {
		return Value{}, &ConversionError{Err: err}
	}
	if !ok {
		return Value{}, &ConversionError{Err: fmt.Errorf("value: cannot convert nil")}
	}
	return out, nil
}

func fromAny(v any) (Value, bool, error) {
	switch typed := v.(type) {
	case nil:
		return Value{}, false, nil
	case Value:
		return typed, typed.IsValid(), nil
	case *Table:
		return TableOf(typed), true, nil
	case string:
		return String(typed), true, nil
	case bool:
		return Bool(typed), true, nil
	case float32:
		return Float(float64(typed)), true, nil
	case float64:
		return Float(typed), true, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, false, fmt.Errorf("value: integer %d overflows int64", u)
		}
		return Integer(int64(u)), true, nil
	case reflect.String:
		return String(rv.String()), true, nil
	case reflect.Bool:
		return Bool(rv.Bool()), true, nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), true, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}, false, nil
		}
		return fromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{}, false, nil
		}
		elems := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, ok, err := fromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, false, fmt.Errorf("[%d]: %w", i, err)
			}
			if !ok {
				return Value{}, false, fmt.Errorf("value: [%d]: nil array elements are not supported", i)
			}
			elems = append(elems, elem)
		}
		return ArrayOf(elems...), true, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, false, fmt.Errorf("value: unsupported map key type %s", rv.Type().Key())
		}
		if rv.IsNil() {
			return Value{}, false, nil
		}
		keys := make([]string, 0, rv.Len())
		for _, key := range rv.MapKeys() {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		table := NewTable()
		for _, key := range keys {
			elem, ok, err := fromAny(rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return Value{}, false, fmt.Errorf("%s: %w", key, err)
			}
			if ok {
				table.Set(key, elem)
			}
		}
		return TableOf(table), true, nil
	case reflect.Struct:
		out, err := FromStruct(v)
		if err != nil {
			return Value{}, false, err
		}
		return out, true, nil
	default:
		return Value{}, false, fmt.Errorf("value: unsupported type %T", v)
	}
}
