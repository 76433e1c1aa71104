package scaffold

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-tomlgen/internal/jsonschema/loader"
	internalParser "github.com/goliatone/go-tomlgen/internal/openapi/parser"
	"github.com/goliatone/go-tomlgen/pkg/jsonschema"
	"github.com/goliatone/go-tomlgen/pkg/layout"
	"github.com/goliatone/go-tomlgen/pkg/metadata"
	pkgopenapi "github.com/goliatone/go-tomlgen/pkg/openapi"
	"github.com/goliatone/go-tomlgen/pkg/render"
	"github.com/goliatone/go-tomlgen/pkg/schema"
	"github.com/goliatone/go-tomlgen/pkg/value"
)

// Generator coordinates metadata extraction, directive resolution, and
// rendering. Missing collaborators are initialised with the built-in
// implementations.
type Generator struct {
	logger         *zap.Logger
	directives     layout.Map
	reflectOptions []jsonschema.ReflectOption
	loader         jsonschema.Loader
	parser         pkgopenapi.Parser
	transformers   []Transformer
}

// New constructs a Generator applying any provided options.
func New(options ...Option) *Generator {
	g := &Generator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.applyDefaults()
	return g
}

func (g *Generator) applyDefaults() {
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if g.loader == nil {
		g.loader = internalLoader.New(jsonschema.NewLoaderOptions())
	}
	if g.parser == nil {
		g.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
}

// Scaffold reflects a schema from v and renders v against it. v must be a
// struct or a pointer to one whose fields encode as TOML; anything else
// yields a *value.ConversionError.
func (g *Generator) Scaffold(v any) (string, error) {
	record, err := value.FromStruct(v)
	if err != nil {
		return "", err
	}
	s, err := jsonschema.Reflect(v, g.reflectOptions...)
	if err != nil {
		return "", fmt.Errorf("scaffold: reflect schema: %w", err)
	}
	return g.Render(record, s), nil
}

// Render renders v against s with the generator's directives. The result
// ends with exactly one newline.
func (g *Generator) Render(v value.Value, s schema.Schema) string {
	return g.render(v, s, nil)
}

func (g *Generator) render(v value.Value, s schema.Schema, directives layout.Map) string {
	idx := metadata.Extract(s)
	for _, warning := range idx.Warnings() {
		g.logger.Warn("ignoring layout directive", zap.String("detail", warning))
	}

	resolver := layout.NewResolver(directives, g.directives, idx.FieldDirectives(), idx.TypeDirectives())
	out := Finalize(render.Render(v, idx, resolver))

	g.logger.Debug("rendered scaffold",
		zap.Int("known_fields", len(idx.Known())),
		zap.Int("bytes", len(out)),
	)
	return out
}

// Finalize trims trailing whitespace from rendered text and terminates it
// with a single newline.
func Finalize(rendered string) string {
	return strings.TrimRight(rendered, " \t\r\n") + "\n"
}

// Request describes the inputs of Generate.
type Request struct {
	// Value is a Go value converted with value.FromStruct. Ignored when
	// Record is set.
	Value any

	// Record is a prebuilt value. When neither Record nor Value is supplied
	// an empty table is rendered, which turns every optional field of the
	// schema into a placeholder.
	Record *value.Value

	// Schema bypasses schema loading.
	Schema *schema.Schema

	// Document supplies a schema payload that is already in memory.
	Document *schema.Document

	// Source identifies where the schema document lives. Optional when
	// Schema or Document is supplied. Without any of the three, a schema is
	// reflected from Value.
	Source schema.Source

	// Component selects an OpenAPI component schema as the root. The
	// document is then read as OpenAPI instead of JSON Schema.
	Component string

	// Directives override both the generator's directives and the ones the
	// schema declares.
	Directives layout.Map
}

// Generate resolves the request's value and schema, applies transformers to
// a copy of the value, and returns the rendered document. The request is
// never modified.
func (g *Generator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("scaffold: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := g.resolveValue(req)
	if err != nil {
		return nil, err
	}

	s, err := g.resolveSchema(ctx, req)
	if err != nil {
		return nil, err
	}

	record, err = g.applyTransformers(ctx, record)
	if err != nil {
		return nil, err
	}

	return []byte(g.render(record, s, req.Directives)), nil
}

func (g *Generator) resolveValue(req Request) (value.Value, error) {
	switch {
	case req.Record != nil:
		return *req.Record, nil
	case req.Value != nil:
		return value.FromStruct(req.Value)
	default:
		return value.TableOf(nil), nil
	}
}

func (g *Generator) resolveSchema(ctx context.Context, req Request) (schema.Schema, error) {
	if req.Schema != nil {
		return *req.Schema, nil
	}

	doc, ok, err := g.resolveDocument(ctx, req)
	if err != nil {
		return schema.Schema{}, err
	}
	if !ok {
		if req.Value == nil {
			return schema.Schema{}, nil
		}
		s, err := jsonschema.Reflect(req.Value, g.reflectOptions...)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("scaffold: reflect schema: %w", err)
		}
		return s, nil
	}

	if req.Component != "" {
		s, err := pkgopenapi.ComponentSchema(ctx, g.parser, doc, req.Component)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("scaffold: openapi component: %w", err)
		}
		return s, nil
	}

	s, err := jsonschema.Parse(doc.Raw())
	if err != nil {
		return schema.Schema{}, fmt.Errorf("scaffold: parse schema %s: %w", doc.Location(), err)
	}
	return s, nil
}

func (g *Generator) resolveDocument(ctx context.Context, req Request) (schema.Document, bool, error) {
	if req.Document != nil {
		return *req.Document, true, nil
	}
	if req.Source == nil {
		return schema.Document{}, false, nil
	}
	doc, err := g.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, false, fmt.Errorf("scaffold: load schema: %w", err)
	}
	g.logger.Debug("loaded schema", zap.String("location", doc.Location()))
	return doc, true, nil
}

func (g *Generator) applyTransformers(ctx context.Context, record value.Value) (value.Value, error) {
	if len(g.transformers) == 0 {
		return record, nil
	}
	root, ok := record.AsTable()
	if !ok {
		return record, nil
	}
	// The request value belongs to the caller and may be shared between
	// concurrent calls.
	root = root.Clone()
	for _, t := range g.transformers {
		if err := t.Transform(ctx, root); err != nil {
			return value.Value{}, fmt.Errorf("scaffold: transform value: %w", err)
		}
	}
	return value.TableOf(root), nil
}
