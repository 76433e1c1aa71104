// Package layout names the per-path layout directives understood by the
// renderer and resolves which one applies to a given field.
package layout

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-tomlgen/pkg/fieldpath"
)

// Directive selects how a nested table or array is laid out.
type Directive int

const (
	// Default renders nested tables as [section] blocks.
	Default Directive = iota
	// Inline renders a nested table as a single-level { k = v } map.
	Inline
	// Dotted flattens exactly one level into key.sub = value lines.
	Dotted
	// DottedNested flattens every level into dotted keys.
	DottedNested
	// ChildDotted keeps the [section] header and applies Dotted to children.
	ChildDotted
	// ChildDottedNested keeps the [section] header and applies DottedNested
	// to children.
	ChildDottedNested
	// Multiline renders an all-scalar array one element per line.
	Multiline
)

// CascadeMarker prefixes a base directive name to apply it to the children of
// the annotated table.
const CascadeMarker = "*"

var directiveNames = map[Directive]string{
	Default:           "default",
	Inline:            "inline",
	Dotted:            "dotted",
	DottedNested:      "dotted-nested",
	ChildDotted:       CascadeMarker + "dotted",
	ChildDottedNested: CascadeMarker + "dotted-nested",
	Multiline:         "multiline",
}

func (d Directive) String() string {
	if name, ok := directiveNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Directive(%d)", int(d))
}

// Cascades reports whether d applies to the children of its table rather than
// to the table itself.
func (d Directive) Cascades() bool {
	return d == ChildDotted || d == ChildDottedNested
}

// Base strips the cascade marker: ChildDotted becomes Dotted and
// ChildDottedNested becomes DottedNested.
func (d Directive) Base() Directive {
	switch d {
	case ChildDotted:
		return Dotted
	case ChildDottedNested:
		return DottedNested
	default:
		return d
	}
}

// ParseDirective maps a directive name to its value. The empty string and
// "default" both yield Default.
func ParseDirective(raw string) (Directive, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	cascade := strings.HasPrefix(name, CascadeMarker)
	if cascade {
		name = strings.TrimSpace(strings.TrimPrefix(name, CascadeMarker))
	}

	var base Directive
	switch name {
	case "", "default":
		if cascade {
			return Default, fmt.Errorf("layout: directive %q cascades nothing", raw)
		}
		return Default, nil
	case "inline":
		base = Inline
	case "dotted":
		base = Dotted
	case "dotted-nested", "dotted_nested":
		base = DottedNested
	case "multiline":
		base = Multiline
	default:
		return Default, fmt.Errorf("layout: unknown directive %q", raw)
	}

	if !cascade {
		return base, nil
	}
	switch base {
	case Dotted:
		return ChildDotted, nil
	case DottedNested:
		return ChildDottedNested, nil
	default:
		return Default, fmt.Errorf("layout: directive %q cannot cascade to children", raw)
	}
}

// MustParseDirective is ParseDirective that panics.
func MustParseDirective(raw string) Directive {
	d, err := ParseDirective(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// Map assigns directives to field paths.
type Map map[fieldpath.Key]Directive

// Set registers d at path, allocating the map if needed.
func (m *Map) Set(path fieldpath.Path, d Directive) {
	if *m == nil {
		*m = make(Map)
	}
	(*m)[path.Key()] = d
}

// Get returns the directive registered at path.
func (m Map) Get(path fieldpath.Path) (Directive, bool) {
	d, ok := m[path.Key()]
	return d, ok
}

// ParseOverrides builds a Map from dotted path strings, as found in CLI flags
// and config files. Quoted segments may contain dots: server."tls.v2".
func ParseOverrides(raw map[string]string) (Map, error) {
	out := make(Map, len(raw))
	for rawPath, rawDirective := range raw {
		path, err := fieldpath.Parse(rawPath)
		if err != nil {
			return nil, fmt.Errorf("layout: override %q: %w", rawPath, err)
		}
		d, err := ParseDirective(rawDirective)
		if err != nil {
			return nil, fmt.Errorf("layout: override %q: %w", rawPath, err)
		}
		out.Set(path, d)
	}
	return out, nil
}
