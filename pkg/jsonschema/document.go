package jsonschema

import "github.com/goliatone/go-tomlgen/pkg/schema"

// Document is the raw schema payload plus its origin.
type Document = schema.Document

func NewDocument(src Source, raw []byte) (Document, error) {
	return schema.NewDocument(src, raw)
}

func MustNewDocument(src Source, raw []byte) Document {
	return schema.MustNewDocument(src, raw)
}
