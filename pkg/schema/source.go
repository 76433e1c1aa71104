package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source names the origin of a schema document. Loaders dispatch on Kind.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates where a document can be read from.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindInline SourceKind = "inline"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile points at a path on disk.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS points at a named entry of an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL points at an HTTP(S) endpoint. Invalid URLs panic so that
// configuration mistakes surface at start-up; use ParseURLSource for user
// input.
func SourceFromURL(raw string) Source {
	src, err := ParseURLSource(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseURLSource is SourceFromURL returning an error instead of panicking.
func ParseURLSource(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("schema: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}

type inlineSource struct {
	name string
}

func (s inlineSource) Location() string { return s.name }
func (s inlineSource) Kind() SourceKind { return SourceKindInline }

// SourceInline labels a document that was already read into memory, such as
// standard input.
func SourceInline(name string) Source {
	if name == "" {
		name = "inline"
	}
	return inlineSource{name: name}
}
