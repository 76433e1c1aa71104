package jsonschema

import "github.com/goliatone/go-tomlgen/pkg/schema"

// Source is the shared schema origin abstraction, re-exported so callers of
// this package do not need to import pkg/schema for loading.
type Source = schema.Source

type SourceKind = schema.SourceKind

const (
	SourceKindFile   = schema.SourceKindFile
	SourceKindFS     = schema.SourceKindFS
	SourceKindURL    = schema.SourceKindURL
	SourceKindInline = schema.SourceKindInline
)

// SourceFromFile points at a schema file on disk.
func SourceFromFile(path string) Source {
	return schema.SourceFromFile(path)
}

// SourceFromFS points at a schema inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return schema.SourceFromFS(name)
}

// SourceFromURL points at a remote schema. It panics on malformed URLs.
func SourceFromURL(raw string) Source {
	return schema.SourceFromURL(raw)
}
