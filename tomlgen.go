// Package tomlgen renders commented TOML configuration scaffolds from a value
// and a JSON Schema or OpenAPI component describing it.
//
// The quickest entry point is Scaffold, which reflects the schema from a Go
// struct:
//
//	out, err := tomlgen.Scaffold(cfg)
//
// Callers holding a schema document use NewGenerator and Generate.
package tomlgen

import (
	"context"

	internalLoader "github.com/goliatone/go-tomlgen/internal/jsonschema/loader"
	internalParser "github.com/goliatone/go-tomlgen/internal/openapi/parser"
	"github.com/goliatone/go-tomlgen/pkg/jsonschema"
	pkgopenapi "github.com/goliatone/go-tomlgen/pkg/openapi"
	"github.com/goliatone/go-tomlgen/pkg/scaffold"
	"github.com/goliatone/go-tomlgen/pkg/schema"
	"github.com/goliatone/go-tomlgen/pkg/value"
)

// Request aliases scaffold.Request for callers of Generate.
type Request = scaffold.Request

// NewGenerator exposes the generator constructor from the top-level module.
func NewGenerator(options ...scaffold.Option) *scaffold.Generator {
	return scaffold.New(options...)
}

// Scaffold renders v against a schema reflected from its type.
func Scaffold(v any, options ...scaffold.Option) (string, error) {
	return scaffold.New(options...).Scaffold(v)
}

// Render renders v against s.
func Render(v value.Value, s schema.Schema, options ...scaffold.Option) string {
	return scaffold.New(options...).Render(v, s)
}

// Generate resolves the request and renders it with a generator built from
// options.
func Generate(ctx context.Context, req Request, options ...scaffold.Option) ([]byte, error) {
	return scaffold.New(options...).Generate(ctx, req)
}

// NewLoader constructs a schema loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...jsonschema.LoaderOption) jsonschema.Loader {
	cfg := jsonschema.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewOpenAPIParser constructs a component parser backed by kin-openapi.
func NewOpenAPIParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}
