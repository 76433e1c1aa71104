// Package fieldpath identifies a location in a configuration tree by the
// ordered field names leading to it. Paths are compared segment by segment, so
// a field literally named "a.b" never collides with the nested field "a" ->
// "b". The dotted form returned by String is for display only.
package fieldpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is an immutable sequence of field names. The zero value is the root.
type Path struct {
	segments []string
}

// Key is a comparable encoding of a Path suitable for map keys. Two keys are
// equal iff the paths they were built from have identical segments.
type Key string

// Root returns the empty path.
func Root() Path {
	return Path{}
}

// New builds a path from the supplied segments.
func New(segments ...string) Path {
	if len(segments) == 0 {
		return Path{}
	}
	return Path{segments: append([]string(nil), segments...)}
}

// Child returns a new path with segment appended. The receiver is unchanged.
func (p Path) Child(segment string) Path {
	out := make([]string, len(p.segments)+1)
	copy(out, p.segments)
	out[len(p.segments)] = segment
	return Path{segments: out}
}

// Parent returns the path without its last segment. The parent of the root is
// the root.
func (p Path) Parent() Path {
	if len(p.segments) <= 1 {
		return Path{}
	}
	return New(p.segments[:len(p.segments)-1]...)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Segment returns the segment at index i.
func (p Path) Segment(i int) (string, bool) {
	if i < 0 || i >= len(p.segments) {
		return "", false
	}
	return p.segments[i], true
}

// Last returns the final segment, or "" for the root.
func (p Path) Last() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// HasPrefix reports whether prefix is a (not necessarily proper) prefix of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i, segment := range prefix.segments {
		if p.segments[i] != segment {
			return false
		}
	}
	return true
}

// IsChildOf reports whether p sits exactly one level below parent.
func (p Path) IsChildOf(parent Path) bool {
	return len(p.segments) == len(parent.segments)+1 && p.HasPrefix(parent)
}

// Equal reports whether both paths carry the same segments.
func (p Path) Equal(other Path) bool {
	return len(p.segments) == len(other.segments) && p.HasPrefix(other)
}

// Key returns the comparable map key for p.
func (p Path) Key() Key {
	if len(p.segments) == 0 {
		return ""
	}
	var b strings.Builder
	for i, segment := range p.segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Quote(segment))
	}
	return Key(b.String())
}

// String joins the segments with dots.
func (p Path) String() string {
	return strings.Join(p.segments, ".")
}

// TOMLKey renders the path as a TOML dotted key, quoting segments that are not
// bare keys. The root renders as "".
func (p Path) TOMLKey() string {
	parts := make([]string, len(p.segments))
	for i, segment := range p.segments {
		parts[i] = QuoteKey(segment)
	}
	return strings.Join(parts, ".")
}

// QuoteKey returns segment unchanged when it is a valid TOML bare key and as a
// basic string otherwise.
func QuoteKey(segment string) string {
	if isBareKey(segment) {
		return segment
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range segment {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isBareKey(segment string) bool {
	if segment == "" {
		return false
	}
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

// Parse reads a dotted path as typed on a command line or in a config file.
// Segments containing dots are written double-quoted: server."tls.v2".cert.
func Parse(raw string) (Path, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Path{}, nil
	}

	var (
		segments []string
		current  strings.Builder
		quoted   bool
		escaped  bool
		closed   bool
	)
	for i, r := range raw {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			if !quoted && current.Len() > 0 {
				return Path{}, fmt.Errorf("fieldpath: unexpected quote at offset %d in %q", i, raw)
			}
			if quoted {
				closed = true
			}
			quoted = !quoted
		case quoted:
			current.WriteRune(r)
		case r == '.':
			if current.Len() == 0 && !closed {
				return Path{}, fmt.Errorf("fieldpath: empty segment at offset %d in %q", i, raw)
			}
			segments = append(segments, current.String())
			current.Reset()
			closed = false
		default:
			if closed {
				return Path{}, fmt.Errorf("fieldpath: unexpected %q after quoted segment in %q", r, raw)
			}
			current.WriteRune(r)
		}
	}
	if quoted || escaped {
		return Path{}, fmt.Errorf("fieldpath: unterminated quote in %q", raw)
	}
	if current.Len() == 0 && !closed {
		return Path{}, fmt.Errorf("fieldpath: trailing dot in %q", raw)
	}
	segments = append(segments, current.String())
	return Path{segments: segments}, nil
}

// MustParse is Parse that panics on malformed input. Useful for tests and
// package-level tables.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}
