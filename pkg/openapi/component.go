package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-tomlgen/pkg/schema"
)

// ComponentRefPrefix is the reference prefix of component schemas.
const ComponentRefPrefix = "#/components/schemas/"

// ComponentSchema returns the component called name as a root schema. The
// root is a reference to the component so that its description becomes the
// document comment, and Defs holds every component of the document.
func ComponentSchema(ctx context.Context, parser Parser, doc schema.Document, name string) (schema.Schema, error) {
	if parser == nil {
		return schema.Schema{}, errors.New("openapi: parser is nil")
	}
	if name == "" {
		return schema.Schema{}, errors.New("openapi: component name is empty")
	}
	comps, err := parser.Components(ctx, doc)
	if err != nil {
		return schema.Schema{}, err
	}
	if _, ok := comps.Defs[name]; !ok {
		return schema.Schema{}, fmt.Errorf("openapi: component %q not found", name)
	}
	return schema.Schema{
		Ref:  ComponentRefPrefix + name,
		Defs: comps.Defs,
	}, nil
}

// ComponentNames lists the component schemas of doc, sorted.
func ComponentNames(ctx context.Context, parser Parser, doc schema.Document) ([]string, error) {
	if parser == nil {
		return nil, errors.New("openapi: parser is nil")
	}
	comps, err := parser.Components(ctx, doc)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(comps.Defs))
	for name := range comps.Defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
