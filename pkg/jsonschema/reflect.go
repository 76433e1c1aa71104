package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"

	invjsonschema "github.com/invopop/jsonschema"

	"github.com/goliatone/go-tomlgen/pkg/schema"
)

// ReflectOption configures Reflect.
type ReflectOption func(*reflectOptions)

type reflectOptions struct {
	fieldNameTag   string
	expandedStruct bool
	commentsBase   string
	commentsPath   string
}

// WithFieldNameTag selects the struct tag that names properties. Defaults to
// "toml" so schema paths line up with the encoded value.
func WithFieldNameTag(tag string) ReflectOption {
	return func(opts *reflectOptions) {
		opts.fieldNameTag = tag
	}
}

// WithExpandedStruct inlines the root type instead of emitting a root $ref.
func WithExpandedStruct(enabled bool) ReflectOption {
	return func(opts *reflectOptions) {
		opts.expandedStruct = enabled
	}
}

// WithGoComments uses Go doc comments as descriptions. base is the module
// import path and path the directory, relative to the working directory,
// holding the source files.
func WithGoComments(base, path string) ReflectOption {
	return func(opts *reflectOptions) {
		opts.commentsBase = base
		opts.commentsPath = path
	}
}

// Reflect derives a schema from the Go type of v. Descriptions come from
// `jsonschema:"description=..."` tags or Go comments, directives from
// `jsonschema_extras:"x-toml-format=..."`. Fields whose tag carries omitempty
// are optional.
func Reflect(v any, options ...ReflectOption) (schema.Schema, error) {
	if v == nil {
		return schema.Schema{}, errors.New("jsonschema: cannot reflect a nil value")
	}
	opts := reflectOptions{fieldNameTag: "toml"}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	reflector := &invjsonschema.Reflector{
		FieldNameTag:              opts.fieldNameTag,
		ExpandedStruct:            opts.expandedStruct,
		AllowAdditionalProperties: true,
	}
	if opts.commentsPath != "" {
		if err := reflector.AddGoComments(opts.commentsBase, opts.commentsPath); err != nil {
			return schema.Schema{}, fmt.Errorf("jsonschema: load go comments: %w", err)
		}
	}

	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return schema.Schema{}, fmt.Errorf("jsonschema: encode reflected schema: %w", err)
	}
	return Parse(raw)
}
