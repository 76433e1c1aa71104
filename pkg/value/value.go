// Package value models the structured configuration tree rendered by go-tomlgen:
// strings, integers, floats, booleans, ordered tables, and arrays.
package value

import (
	"fmt"
	"math"
)

// Kind enumerates the variants a Value can hold.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindTable
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindTable:
		return "table"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Value is a tagged union over the supported kinds. The zero Value is invalid.
type Value struct {
	kind  Kind
	str   string
	i     int64
	f     float64
	b     bool
	table *Table
	array []Value
}

// String wraps s.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Integer wraps i.
func Integer(i int64) Value {
	return Value{kind: KindInteger, i: i}
}

// Float wraps f.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Bool wraps b.
func Bool(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// TableOf wraps t. A nil table becomes an empty one.
func TableOf(t *Table) Value {
	if t == nil {
		t = NewTable()
	}
	return Value{kind: KindTable, table: t}
}

// ArrayOf wraps the supplied elements.
func ArrayOf(values ...Value) Value {
	return Value{kind: KindArray, array: append([]Value{}, values...)}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether v holds any variant.
func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// IsScalar reports whether v is a string, integer, float, or boolean.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindString, KindInteger, KindFloat, KindBoolean:
		return true
	default:
		return false
	}
}

// IsTable reports whether v holds a table.
func (v Value) IsTable() bool {
	return v.kind == KindTable
}

// IsArrayOfTables reports whether v is a non-empty array whose first element is
// a table. Only the first element is inspected.
func (v Value) IsArrayOfTables() bool {
	return v.kind == KindArray && len(v.array) > 0 && v.array[0].kind == KindTable
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsInteger() (int64, bool) {
	return v.i, v.kind == KindInteger
}

func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// AsTable returns the wrapped table. Callers must not mutate it while a render
// is in progress.
func (v Value) AsTable() (*Table, bool) {
	if v.kind != KindTable {
		return nil, false
	}
	return v.table, true
}

// AsArray returns a copy of the array elements.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return append([]Value{}, v.array...), true
}

// Clone returns a deep copy of v. Scalars are returned as is.
func (v Value) Clone() Value {
	switch v.kind {
	case KindTable:
		return TableOf(v.table.Clone())
	case KindArray:
		elems := make([]Value, len(v.array))
		for i, elem := range v.array {
			elems[i] = elem.Clone()
		}
		return Value{kind: KindArray, array: elems}
	default:
		return v
	}
}

// Len returns the number of entries of a table or elements of an array, and 0
// for everything else.
func (v Value) Len() int {
	switch v.kind {
	case KindTable:
		return v.table.Len()
	case KindArray:
		return len(v.array)
	default:
		return 0
	}
}

// Index returns element i of an array value.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.array) {
		return Value{}, false
	}
	return v.array[i], true
}

// GoString is used by %#v and test diffs.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("String(%q)", v.str)
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", v.i)
	case KindFloat:
		return fmt.Sprintf("Float(%v)", v.f)
	case KindBoolean:
		return fmt.Sprintf("Bool(%t)", v.b)
	case KindTable:
		return v.table.GoString()
	case KindArray:
		out := "Array("
		for i, elem := range v.array {
			if i > 0 {
				out += ", "
			}
			out += elem.GoString()
		}
		return out + ")"
	default:
		return "Invalid"
	}
}

// Equal reports deep equality. Table comparison ignores key order and NaN
// compares equal to NaN so that rendered documents round-trip.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindString:
		return a.str == b.str
	case KindInteger:
		return a.i == b.i
	case KindFloat:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case KindBoolean:
		return a.b == b.b
	case KindTable:
		return a.table.equal(b.table)
	case KindArray:
		if len(a.array) != len(b.array) {
			return false
		}
		for i := range a.array {
			if !Equal(a.array[i], b.array[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal is the method form of the package-level Equal; go-cmp picks it up.
func (v Value) Equal(other Value) bool {
	return Equal(v, other)
}
