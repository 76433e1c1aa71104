package scaffold

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-tomlgen/pkg/jsonschema"
	"github.com/goliatone/go-tomlgen/pkg/layout"
	pkgopenapi "github.com/goliatone/go-tomlgen/pkg/openapi"
)

// Option customises the Generator configuration.
type Option func(*Generator)

// WithLogger injects the logger used for debug output and directive
// warnings. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDirectives registers caller directives. They take precedence over
// directives declared by the schema. Repeated calls merge, later paths win.
func WithDirectives(directives layout.Map) Option {
	return func(g *Generator) {
		for key, d := range directives {
			if g.directives == nil {
				g.directives = make(layout.Map, len(directives))
			}
			g.directives[key] = d
		}
	}
}

// WithReflectOptions configures schema reflection for Scaffold and for
// requests that carry a Go value without a schema.
func WithReflectOptions(options ...jsonschema.ReflectOption) Option {
	return func(g *Generator) {
		g.reflectOptions = append(g.reflectOptions, options...)
	}
}

// WithLoader injects the loader used for Request.Source.
func WithLoader(loader jsonschema.Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithOpenAPIParser injects the parser used when a request names an OpenAPI
// component.
func WithOpenAPIParser(parser pkgopenapi.Parser) Option {
	return func(g *Generator) {
		g.parser = parser
	}
}

// WithTransformers registers transformers that run, in order, on the value
// before it is rendered by Generate. They receive a copy of the request value.
func WithTransformers(transformers ...Transformer) Option {
	return func(g *Generator) {
		for _, t := range transformers {
			if t != nil {
				g.transformers = append(g.transformers, t)
			}
		}
	}
}
