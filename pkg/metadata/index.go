// Package metadata walks a schema once and indexes what the renderer needs to
// know about each field path: its description, whether it may be omitted, and
// any layout directive the schema declares for it.
package metadata

import (
	"maps"
	"slices"

	"github.com/goliatone/go-tomlgen/pkg/fieldpath"
	"github.com/goliatone/go-tomlgen/pkg/layout"
)

// Index is the read-only result of an extraction.
type Index struct {
	comments        map[fieldpath.Key]string
	known           []fieldpath.Path
	knownSet        map[fieldpath.Key]struct{}
	optional        map[fieldpath.Key]bool
	fieldDirectives layout.Map
	typeDirectives  layout.Map
	warnings        []string
}

func newIndex() *Index {
	return &Index{
		comments:        make(map[fieldpath.Key]string),
		knownSet:        make(map[fieldpath.Key]struct{}),
		optional:        make(map[fieldpath.Key]bool),
		fieldDirectives: make(layout.Map),
		typeDirectives:  make(layout.Map),
	}
}

// Empty returns an index with no entries. Rendering against it produces a
// document without comments or placeholders.
func Empty() *Index {
	return newIndex()
}

// Comment returns the description registered at path. The root path holds the
// document-level description.
func (idx *Index) Comment(path fieldpath.Path) (string, bool) {
	if idx == nil {
		return "", false
	}
	c, ok := idx.comments[path.Key()]
	return c, ok
}

// Known returns every declared field path in schema order.
func (idx *Index) Known() []fieldpath.Path {
	if idx == nil {
		return nil
	}
	return append([]fieldpath.Path(nil), idx.known...)
}

func (idx *Index) IsKnown(path fieldpath.Path) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.knownSet[path.Key()]
	return ok
}

// IsOptional reports whether the schema allows the field at path to be
// omitted.
func (idx *Index) IsOptional(path fieldpath.Path) bool {
	if idx == nil {
		return false
	}
	return idx.optional[path.Key()]
}

// Children returns the known paths exactly one segment below parent, in
// schema order.
func (idx *Index) Children(parent fieldpath.Path) []fieldpath.Path {
	if idx == nil {
		return nil
	}
	var out []fieldpath.Path
	for _, path := range idx.known {
		if path.IsChildOf(parent) {
			out = append(out, path)
		}
	}
	return out
}

// FieldDirectives returns the directives declared on properties.
func (idx *Index) FieldDirectives() layout.Map {
	if idx == nil {
		return nil
	}
	return maps.Clone(idx.fieldDirectives)
}

// TypeDirectives returns the directives declared on referenced types, keyed
// by the path where the type is used.
func (idx *Index) TypeDirectives() layout.Map {
	if idx == nil {
		return nil
	}
	return maps.Clone(idx.typeDirectives)
}

// Warnings lists problems that were skipped during extraction, such as
// unknown directive names.
func (idx *Index) Warnings() []string {
	if idx == nil {
		return nil
	}
	return append([]string(nil), idx.warnings...)
}

// Equal reports whether both indexes carry the same entries.
func (idx *Index) Equal(other *Index) bool {
	if idx == nil || other == nil {
		return idx == other
	}
	return maps.Equal(idx.comments, other.comments) &&
		slices.EqualFunc(idx.known, other.known, fieldpath.Path.Equal) &&
		maps.Equal(idx.optional, other.optional) &&
		maps.Equal(idx.fieldDirectives, other.fieldDirectives) &&
		maps.Equal(idx.typeDirectives, other.typeDirectives) &&
		slices.Equal(idx.warnings, other.warnings)
}

func (idx *Index) addKnown(path fieldpath.Path) {
	key := path.Key()
	if _, ok := idx.knownSet[key]; ok {
		return
	}
	idx.knownSet[key] = struct{}{}
	idx.known = append(idx.known, path)
}
