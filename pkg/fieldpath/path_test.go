package fieldpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoot(t *testing.T) {
	p := Root()
	if p.Len() != 0 || !p.IsRoot() {
		t.Fatalf("expected empty root path, got %d segments", p.Len())
	}
	if p.String() != "" {
		t.Fatalf("expected empty display string, got %q", p.String())
	}
	if p.Key() != "" {
		t.Fatalf("expected empty key, got %q", p.Key())
	}
}

func TestChildDoesNotMutateParent(t *testing.T) {
	parent := New("parent")
	child := parent.Child("child")
	sibling := parent.Child("sibling")

	if parent.Len() != 1 {
		t.Fatalf("parent mutated: %v", parent.Segments())
	}
	if child.String() != "parent.child" {
		t.Fatalf("unexpected child %q", child.String())
	}
	if sibling.String() != "parent.sibling" {
		t.Fatalf("unexpected sibling %q", sibling.String())
	}
	if !child.Parent().Equal(parent) {
		t.Fatalf("expected parent of child to equal parent")
	}
}

func TestHasPrefix(t *testing.T) {
	parent := New("a", "b")
	child := New("a", "b", "c")
	other := New("x")

	if !child.HasPrefix(parent) {
		t.Fatalf("expected a.b.c to have prefix a.b")
	}
	if child.HasPrefix(other) {
		t.Fatalf("did not expect a.b.c to have prefix x")
	}
	if !parent.HasPrefix(parent) {
		t.Fatalf("expected a path to be its own prefix")
	}
	if !child.IsChildOf(parent) {
		t.Fatalf("expected a.b.c to be a direct child of a.b")
	}
	if child.IsChildOf(Root()) {
		t.Fatalf("a.b.c is not a direct child of the root")
	}
}

func TestSegment(t *testing.T) {
	p := New("a", "b", "c")
	for i, want := range []string{"a", "b", "c"} {
		got, ok := p.Segment(i)
		if !ok || got != want {
			t.Fatalf("segment %d: got %q (%v), want %q", i, got, ok, want)
		}
	}
	if _, ok := p.Segment(3); ok {
		t.Fatalf("expected out of range segment to report false")
	}
	if p.Last() != "c" {
		t.Fatalf("expected last segment c, got %q", p.Last())
	}
}

func TestSegmentsWithDotsStayDistinct(t *testing.T) {
	dotted := New("field.with.dots")
	nested := New("field", "with", "dots")

	if dotted.Len() != 1 {
		t.Fatalf("expected one segment, got %d", dotted.Len())
	}
	if dotted.String() != nested.String() {
		t.Fatalf("display strings should coincide: %q vs %q", dotted.String(), nested.String())
	}
	if dotted.Equal(nested) {
		t.Fatalf("paths with different segments must not be equal")
	}
	if dotted.Key() == nested.Key() {
		t.Fatalf("keys must keep segment boundaries: %q", dotted.Key())
	}
}

func TestKeyAsMapKey(t *testing.T) {
	values := map[Key]string{
		New("a", "b").Key(): "value1",
		New("a", "c").Key(): "value2",
	}

	got, ok := values[New("a", "b").Key()]
	if !ok || got != "value1" {
		t.Fatalf("lookup by equal path failed: %q %v", got, ok)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(values))
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "database", want: []string{"database"}},
		{in: "llm.body", want: []string{"llm", "body"}},
		{in: `server."tls.v2".cert`, want: []string{"server", "tls.v2", "cert"}},
		{in: `"a\"b"`, want: []string{`a"b`}},
		{in: `""`, want: []string{""}},
	}

	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got.Segments()); diff != "" {
			t.Fatalf("parse %q mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"a..b", "a.", ".a", `"open`, `a"b"`, `"a"b`} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestTOMLKey(t *testing.T) {
	cases := []struct {
		path Path
		want string
	}{
		{path: Root(), want: ""},
		{path: New("server", "tls"), want: "server.tls"},
		{path: New("server", "tls.v2"), want: `server."tls.v2"`},
		{path: New("with space"), want: `"with space"`},
		{path: New(""), want: `""`},
		{path: New(`quote"d`), want: `"quote\"d"`},
		{path: New("snake_case", "kebab-case", "42"), want: "snake_case.kebab-case.42"},
	}
	for _, tc := range cases {
		if got := tc.path.TOMLKey(); got != tc.want {
			t.Fatalf("TOMLKey(%v): got %q, want %q", tc.path.Segments(), got, tc.want)
		}
	}
}
