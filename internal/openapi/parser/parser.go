package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-tomlgen/pkg/jsonschema"
	pkgopenapi "github.com/goliatone/go-tomlgen/pkg/openapi"
	"github.com/goliatone/go-tomlgen/pkg/schema"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Components loads doc with kin-openapi and returns its component schemas.
// kin-openapi checks the document; the schemas themselves are read from the
// raw payload so that property order survives.
func (p *Parser) Components(ctx context.Context, doc schema.Document) (schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return schema.Schema{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return schema.Schema{}, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.AllowExternalRefs,
	}

	api, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("openapi parser: load document: %w", err)
	}

	if p.options.Validate {
		if err := api.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Schema{}, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	if api.Components == nil || len(api.Components.Schemas) == 0 {
		return schema.Schema{}, errors.New("openapi parser: document does not contain component schemas")
	}

	parsed, err := jsonschema.Parse(raw)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("openapi parser: read components: %w", err)
	}

	defs := make(map[string]schema.Schema, len(api.Components.Schemas))
	for name := range api.Components.Schemas {
		if def, ok := parsed.Defs[name]; ok {
			defs[name] = def
		}
	}
	return schema.Schema{Defs: defs}, nil
}
