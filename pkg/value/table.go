package value

import "strings"

// Table is an ordered mapping of field names to values. Keys keep their first
// insertion position; setting an existing key replaces the value in place.
type Table struct {
	keys    []string
	entries map[string]Value
}

// Entry is a key/value pair returned by Table.Entries.
type Entry struct {
	Key   string
	Value Value
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: map[string]Value{}}
}

// Set assigns key. It returns the table to allow chaining in tests and
// fixtures.
func (t *Table) Set(key string, v Value) *Table {
	if t.entries == nil {
		t.entries = map[string]Value{}
	}
	if _, exists := t.entries[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = v
	return t
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	v, ok := t.entries[key]
	return v, ok
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Entries returns the entries in insertion order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, Entry{Key: key, Value: t.entries[key]})
	}
	return out
}

// Clone returns a deep copy of t. Tables and arrays below t are copied too,
// so the result can be mutated without affecting t.
func (t *Table) Clone() *Table {
	out := NewTable()
	for _, entry := range t.Entries() {
		out.Set(entry.Key, entry.Value.Clone())
	}
	return out
}

func (t *Table) equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}
	for _, key := range t.Keys() {
		a, _ := t.Get(key)
		b, ok := other.Get(key)
		if !ok || !Equal(a, b) {
			return false
		}
	}
	return true
}

func (t *Table) GoString() string {
	var b strings.Builder
	b.WriteString("Table{")
	for i, entry := range t.Entries() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(entry.Key)
		b.WriteString(": ")
		b.WriteString(entry.Value.GoString())
	}
	b.WriteString("}")
	return b.String()
}
