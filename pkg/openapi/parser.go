package openapi

import (
	"context"

	"github.com/goliatone/go-tomlgen/pkg/schema"
)

// Parser extracts the component schemas of an OpenAPI document. The returned
// schema carries no root of its own; every component is stored in Defs in
// document order.
type Parser interface {
	Components(ctx context.Context, doc schema.Document) (schema.Schema, error)
}

// ParserOptions configures a Parser.
type ParserOptions struct {
	// Validate runs document validation after loading. Example values are
	// never validated.
	Validate bool

	// AllowExternalRefs lets the loader follow references outside the
	// document. Rendering itself only resolves local references.
	AllowExternalRefs bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Validate = enabled
	}
}

func WithExternalRefs(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowExternalRefs = enabled
	}
}

// NewParserOptions applies options over the defaults: validation on, external
// references off.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		Validate: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Construction helpers live in the top-level tomlgen package to avoid import cycles.
