package schema

import (
	"bytes"
	"errors"
)

// Document is a raw schema payload together with where it came from.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument wraps raw after checking that both inputs are present.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument is NewDocument that panics. Used by tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location is the origin identifier, or "" when unknown.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// LooksLikeJSON reports whether the payload starts with a JSON object.
func (d Document) LooksLikeJSON() bool {
	trimmed := bytes.TrimSpace(d.raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
