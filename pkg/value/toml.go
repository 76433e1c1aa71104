package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

// FromStruct converts a Go record into a Value by encoding it with go-toml and
// reading the document back in order. Nil pointers and omitempty zero values
// are absent from the result. Any failure is returned as *ConversionError.
func FromStruct(v any) (Value, error) {
	if v == nil {
		return Value{}, &ConversionError{Err: errors.New("value: cannot convert a nil record")}
	}
	data, err := toml.Marshal(v)
	if err != nil {
		return Value{}, &ConversionError{Err: err}
	}
	out, err := ParseTOML(data)
	if err != nil {
		return Value{}, &ConversionError{Err: err}
	}
	return out, nil
}

// ParseTOML reads a TOML document into a table value, preserving the order in
// which keys appear. Date and time values are rejected.
func ParseTOML(data []byte) (Value, error) {
	root := NewTable()
	current := root

	var p unstable.Parser
	p.Reset(data)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			table, err := descend(root, keyParts(expr.Key()))
			if err != nil {
				return Value{}, err
			}
			current = table
		case unstable.ArrayTable:
			table, err := appendArrayTable(root, keyParts(expr.Key()))
			if err != nil {
				return Value{}, err
			}
			current = table
		case unstable.KeyValue:
			if err := assignKeyValue(current, expr); err != nil {
				return Value{}, err
			}
		}
	}
	if err := p.Error(); err != nil {
		return Value{}, fmt.Errorf("value: parse toml: %w", err)
	}
	return TableOf(root), nil
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// descend walks parts from table, creating intermediate tables and entering
// the last element of arrays of tables.
func descend(table *Table, parts []string) (*Table, error) {
	for _, part := range parts {
		existing, ok := table.Get(part)
		switch {
		case !ok:
			next := NewTable()
			table.Set(part, TableOf(next))
			table = next
		case existing.IsTable():
			table, _ = existing.AsTable()
		case existing.IsArrayOfTables():
			last, _ := existing.Index(existing.Len() - 1)
			table, _ = last.AsTable()
		default:
			return nil, fmt.Errorf("value: key %q is already defined as %s", part, existing.Kind())
		}
	}
	return table, nil
}

func appendArrayTable(root *Table, parts []string) (*Table, error) {
	if len(parts) == 0 {
		return nil, errors.New("value: empty array table header")
	}
	parent, err := descend(root, parts[:len(parts)-1])
	if err != nil {
		return nil, err
	}
	name := parts[len(parts)-1]
	next := NewTable()
	existing, ok := parent.Get(name)
	switch {
	case !ok:
		parent.Set(name, ArrayOf(TableOf(next)))
	case existing.Kind() == KindArray:
		elems, _ := existing.AsArray()
		parent.Set(name, ArrayOf(append(elems, TableOf(next))...))
	default:
		return nil, fmt.Errorf("value: key %q is already defined as %s", name, existing.Kind())
	}
	return next, nil
}

func assignKeyValue(table *Table, expr *unstable.Node) error {
	parts := keyParts(expr.Key())
	if len(parts) == 0 {
		return errors.New("value: key/value without a key")
	}
	parent, err := descend(table, parts[:len(parts)-1])
	if err != nil {
		return err
	}
	v, err := nodeValue(expr.Value())
	if err != nil {
		return fmt.Errorf("value: %s: %w", strings.Join(parts, "."), err)
	}
	parent.Set(parts[len(parts)-1], v)
	return nil
}

func nodeValue(n *unstable.Node) (Value, error) {
	switch n.Kind {
	case unstable.String:
		return String(string(n.Data)), nil
	case unstable.Bool:
		return Bool(string(n.Data) == "true"), nil
	case unstable.Integer:
		i, err := parseInteger(string(n.Data))
		if err != nil {
			return Value{}, err
		}
		return Integer(i), nil
	case unstable.Float:
		f, err := parseFloat(string(n.Data))
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case unstable.Array:
		var elems []Value
		it := n.Children()
		for it.Next() {
			elem, err := nodeValue(it.Node())
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, elem)
		}
		return ArrayOf(elems...), nil
	case unstable.InlineTable:
		table := NewTable()
		it := n.Children()
		for it.Next() {
			if err := assignKeyValue(table, it.Node()); err != nil {
				return Value{}, err
			}
		}
		return TableOf(table), nil
	default:
		return Value{}, fmt.Errorf("unsupported value kind %s", n.Kind)
	}
}

func parseInteger(raw string) (int64, error) {
	i, err := strconv.ParseInt(strings.ReplaceAll(raw, "_", ""), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", raw, err)
	}
	return i, nil
}

func parseFloat(raw string) (float64, error) {
	clean := strings.ReplaceAll(raw, "_", "")
	sign := 1.0
	unsigned := clean
	switch {
	case strings.HasPrefix(clean, "-"):
		sign = -1
		unsigned = clean[1:]
	case strings.HasPrefix(clean, "+"):
		unsigned = clean[1:]
	}
	switch unsigned {
	case "inf":
		return math.Inf(int(sign)), nil
	case "nan":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q: %w", raw, err)
	}
	return f, nil
}
