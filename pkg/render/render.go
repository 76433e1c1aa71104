// Package render turns a structured value into a commented TOML document.
//
// Tables are laid out in a fixed order: plain keys first, then commented
// placeholders for optional fields the value omits, then nested tables, then
// arrays of tables. Comments come from a metadata index and layout choices
// from a directive resolver; neither is required.
package render

import (
	"strings"

	"github.com/goliatone/go-tomlgen/pkg/fieldpath"
	"github.com/goliatone/go-tomlgen/pkg/layout"
	"github.com/goliatone/go-tomlgen/pkg/metadata"
	"github.com/goliatone/go-tomlgen/pkg/value"
)

// Renderer holds the read-only inputs of a render. It is safe for concurrent
// use; every call allocates its own output buffer.
type Renderer struct {
	index  *metadata.Index
	layout layout.Resolver
}

// New returns a Renderer. A nil index renders without comments or
// placeholders.
func New(idx *metadata.Index, res layout.Resolver) *Renderer {
	if idx == nil {
		idx = metadata.Empty()
	}
	return &Renderer{index: idx, layout: res}
}

// Render is New(idx, res).RenderAt(v, fieldpath.Root()).
func Render(v value.Value, idx *metadata.Index, res layout.Resolver) string {
	return New(idx, res).RenderAt(v, fieldpath.Root())
}

// RenderAt renders v as the table located at path. Any value that is not a
// table yields "". The document comment registered at the root path is only
// written when path is the root.
func (r *Renderer) RenderAt(v value.Value, path fieldpath.Path) string {
	table, ok := v.AsTable()
	if !ok {
		return ""
	}
	w := &writer{Renderer: r}
	if path.IsRoot() {
		if c, ok := r.index.Comment(path); ok && w.comment(c) {
			w.out.WriteByte('\n')
		}
	}
	w.table(table, path)
	return w.out.String()
}

type writer struct {
	*Renderer
	out strings.Builder
}

// nested splits the nested tables of a table by how they are written. Inline
// and dotted forms are key/value lines and must precede every section header
// of the enclosing table, otherwise they would land in the wrong table.
type nested struct {
	keyed    []value.Entry
	sections []value.Entry
}

func (w *writer) table(t *value.Table, path fieldpath.Path) {
	var (
		inline      []value.Entry
		tables      nested
		arrayTables []value.Entry
	)
	for _, entry := range t.Entries() {
		switch {
		case entry.Value.IsTable():
			switch w.layout.Lookup(path.Child(entry.Key)) {
			case layout.Inline, layout.Dotted, layout.DottedNested:
				tables.keyed = append(tables.keyed, entry)
			default:
				tables.sections = append(tables.sections, entry)
			}
		case isArrayOfTables(entry.Value):
			arrayTables = append(arrayTables, entry)
		default:
			inline = append(inline, entry)
		}
	}

	for _, entry := range inline {
		child := path.Child(entry.Key)
		w.commentAt(child)
		w.keyValue(fieldpath.QuoteKey(entry.Key), w.formatValue(entry.Value, child))
	}

	for _, child := range w.index.Children(path) {
		if !w.index.IsOptional(child) || t.Has(child.Last()) {
			continue
		}
		w.commentAt(child)
		w.out.WriteString("# ")
		w.out.WriteString(fieldpath.QuoteKey(child.Last()))
		w.out.WriteString(" = ...\n")
	}

	for _, entry := range tables.keyed {
		child := path.Child(entry.Key)
		sub, _ := entry.Value.AsTable()
		w.commentAt(child)
		w.keyedTable(fieldpath.QuoteKey(entry.Key), sub, child, w.layout.Lookup(child))
	}

	for _, entry := range tables.sections {
		child := path.Child(entry.Key)
		sub, _ := entry.Value.AsTable()
		directive := w.layout.Lookup(child)

		w.separator()
		w.commentAt(child)
		w.header("[", child, "]")
		if directive.Cascades() {
			w.cascade(sub, child, directive.Base())
			continue
		}
		w.table(sub, child)
	}

	for _, entry := range arrayTables {
		child := path.Child(entry.Key)
		elems, _ := entry.Value.AsArray()
		for _, elem := range elems {
			sub, _ := elem.AsTable()
			w.separator()
			w.commentAt(child)
			w.header("[[", child, "]]")
			w.table(sub, child)
		}
	}
}

// keyedTable writes a nested table as key/value lines under the enclosing
// table, using directive to pick the shape. Dotted lines carry the comments
// of the fields they write; placeholders are only emitted under headers.
func (w *writer) keyedTable(key string, t *value.Table, path fieldpath.Path, directive layout.Directive) {
	switch directive {
	case layout.Inline:
		w.keyValue(key, w.inlineTable(t, path))
	case layout.Dotted:
		if t.Len() == 0 {
			w.keyValue(key, "{}")
			return
		}
		for _, entry := range t.Entries() {
			child := path.Child(entry.Key)
			w.commentAt(child)
			w.keyValue(key+"."+fieldpath.QuoteKey(entry.Key), w.formatValue(entry.Value, child))
		}
	case layout.DottedNested:
		w.flatten(key, t, path)
	}
}

// flatten writes every scalar below t as a fully dotted key. Empty tables are
// kept as prefix = {} so no key disappears. The comment of a nested table
// lands above its first flattened line.
func (w *writer) flatten(prefix string, t *value.Table, path fieldpath.Path) {
	if t.Len() == 0 {
		w.keyValue(prefix, "{}")
		return
	}
	for _, entry := range t.Entries() {
		key := prefix + "." + fieldpath.QuoteKey(entry.Key)
		child := path.Child(entry.Key)
		w.commentAt(child)
		if sub, ok := entry.Value.AsTable(); ok {
			w.flatten(key, sub, child)
			continue
		}
		w.keyValue(key, w.formatValue(entry.Value, child))
	}
}

// cascade writes the children of a section with the dotted or dotted-nested
// rule. Scalars and arrays keep the plain key = value form. Placeholders are
// not emitted inside a cascaded section.
func (w *writer) cascade(t *value.Table, path fieldpath.Path, base layout.Directive) {
	var tables []value.Entry
	for _, entry := range t.Entries() {
		if entry.Value.IsTable() {
			tables = append(tables, entry)
			continue
		}
		child := path.Child(entry.Key)
		w.commentAt(child)
		w.keyValue(fieldpath.QuoteKey(entry.Key), w.formatValue(entry.Value, child))
	}
	for _, entry := range tables {
		child := path.Child(entry.Key)
		sub, _ := entry.Value.AsTable()
		w.commentAt(child)
		w.keyedTable(fieldpath.QuoteKey(entry.Key), sub, child, base)
	}
}

func (w *writer) keyValue(key, formatted string) {
	w.out.WriteString(key)
	w.out.WriteString(" = ")
	w.out.WriteString(formatted)
	w.out.WriteByte('\n')
}

func (w *writer) header(open string, path fieldpath.Path, close string) {
	w.out.WriteString(open)
	w.out.WriteString(path.TOMLKey())
	w.out.WriteString(close)
	w.out.WriteByte('\n')
}

// separator writes a blank line unless the document is empty or already ends
// with one.
func (w *writer) separator() {
	if w.out.Len() == 0 || strings.HasSuffix(w.out.String(), "\n\n") {
		return
	}
	w.out.WriteByte('\n')
}

func (w *writer) commentAt(path fieldpath.Path) {
	if c, ok := w.index.Comment(path); ok {
		w.comment(c)
	}
}

// comment writes text as # lines. Runs of blank lines collapse into a single
// "#" line and blank lines at either end are dropped. It reports whether
// anything was written.
func (w *writer) comment(text string) bool {
	lines := commentLines(text)
	for _, line := range lines {
		if line == "" {
			w.out.WriteString("#\n")
			continue
		}
		w.out.WriteString("# ")
		w.out.WriteString(line)
		w.out.WriteByte('\n')
	}
	return len(lines) > 0
}

func commentLines(text string) []string {
	var lines []string
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			blank = len(lines) > 0
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, line)
	}
	return lines
}

// isArrayOfTables reports whether v is laid out with [[header]] sections.
// Arrays that mix tables with other values stay on the key/value path so
// that no element is dropped.
func isArrayOfTables(v value.Value) bool {
	if !v.IsArrayOfTables() {
		return false
	}
	elems, _ := v.AsArray()
	for _, elem := range elems {
		if !elem.IsTable() {
			return false
		}
	}
	return true
}
