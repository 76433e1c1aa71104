package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-tomlgen/pkg/fieldpath"
	"github.com/goliatone/go-tomlgen/pkg/layout"
	"github.com/goliatone/go-tomlgen/pkg/value"
)

// formatValue renders v for the right-hand side of an assignment. path is the
// location of v and selects the multiline directive for arrays.
func (w *writer) formatValue(v value.Value, path fieldpath.Path) string {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return formatString(s)
	case value.KindInteger:
		i, _ := v.AsInteger()
		return strconv.FormatInt(i, 10)
	case value.KindFloat:
		f, _ := v.AsFloat()
		return formatFloat(f)
	case value.KindBoolean:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case value.KindArray:
		return w.formatArray(v, path)
	case value.KindTable:
		t, _ := v.AsTable()
		return w.inlineTable(t, path)
	default:
		return `""`
	}
}

func (w *writer) formatArray(v value.Value, path fieldpath.Path) string {
	elems, _ := v.AsArray()
	if len(elems) == 0 {
		return "[]"
	}

	items := make([]string, len(elems))
	scalar := true
	for i, elem := range elems {
		items[i] = w.formatValue(elem, path)
		scalar = scalar && elem.IsScalar()
	}
	if scalar && w.layout.Lookup(path) == layout.Multiline {
		return "[\n  " + strings.Join(items, ",\n  ") + ",\n]"
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// inlineTable renders t as { k = v, ... }. Small all-scalar tables without
// comments are the common case; anything else is still written inline and
// recursively, since a value position only admits inline tables. Comments
// of children cannot be represented there and are dropped.
func (w *writer) inlineTable(t *value.Table, path fieldpath.Path) string {
	if t.Len() == 0 {
		return "{}"
	}
	parts := make([]string, 0, t.Len())
	for _, entry := range t.Entries() {
		parts = append(parts, fieldpath.QuoteKey(entry.Key)+" = "+w.formatValue(entry.Value, path.Child(entry.Key)))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// formatString picks a single-line basic string, or a multi-line basic string
// when s contains a newline.
func formatString(s string) string {
	if strings.Contains(s, "\n") {
		return formatBlockString(s)
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if isControl(r) {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatBlockString writes s between """ delimiters. The newline after the
// opening delimiter is trimmed by TOML parsers, so leading newlines of s
// survive. Only what the format forbids is escaped: backslashes, a third
// consecutive quote, and control characters other than tab and newline.
func formatBlockString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteString("\"\"\"\n")
	quotes := 0
	for _, r := range s {
		if r == '"' {
			quotes++
			if quotes == 3 {
				b.WriteString(`\"`)
				quotes = 0
				continue
			}
			b.WriteRune(r)
			continue
		}
		quotes = 0
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r == '\r':
			b.WriteString(`\r`)
		case isControl(r):
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(`"""`)
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// formatFloat writes the shortest representation that parses back to f, always
// with a fraction or exponent so it stays a float.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	var s string
	if abs != 0 && (abs >= 1e16 || abs < 1e-5) {
		s = strconv.FormatFloat(f, 'e', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
