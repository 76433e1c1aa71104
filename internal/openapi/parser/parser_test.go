package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-tomlgen/pkg/openapi"
	"github.com/goliatone/go-tomlgen/pkg/schema"
)

const document = `openapi: 3.0.3
info:
  title: Inventory
  version: 1.0.0
paths: {}
components:
  schemas:
    Service:
      type: object
      description: Inventory service settings
      required: [listen]
      properties:
        listen:
          type: string
          description: Address to bind
        storage:
          $ref: '#/components/schemas/Storage'
        debug:
          type: boolean
    Storage:
      type: object
      x-toml-format: inline
      properties:
        driver:
          type: string
        path:
          type: string
`

func mustDocument(t *testing.T, raw string) schema.Document {
	t.Helper()
	doc, err := schema.NewDocument(schema.SourceInline("inventory.yaml"), []byte(raw))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestComponentsKeepDocumentOrder(t *testing.T) {
	t.Parallel()

	p := New(pkgopenapi.NewParserOptions())
	comps, err := p.Components(context.Background(), mustDocument(t, document))
	if err != nil {
		t.Fatalf("components: %v", err)
	}

	service, ok := comps.Defs["Service"]
	if !ok {
		t.Fatalf("expected Service component, got %v", comps.Defs)
	}
	if diff := cmp.Diff([]string{"listen", "storage", "debug"}, service.OrderedProperties()); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
	if service.Description != "Inventory service settings" {
		t.Fatalf("unexpected description %q", service.Description)
	}
	if got := service.Properties["storage"].Ref; got != "#/components/schemas/Storage" {
		t.Fatalf("expected reference to be kept, got %q", got)
	}
	if d, ok := comps.Defs["Storage"].FormatDirective(); !ok || d != "inline" {
		t.Fatalf("expected format extension on Storage, got %q (%v)", d, ok)
	}
}

func TestComponentSchemaRootsNamedComponent(t *testing.T) {
	t.Parallel()

	p := New(pkgopenapi.NewParserOptions())
	root, err := pkgopenapi.ComponentSchema(context.Background(), p, mustDocument(t, document), "Service")
	if err != nil {
		t.Fatalf("component schema: %v", err)
	}
	if root.Ref != "#/components/schemas/Service" {
		t.Fatalf("unexpected root ref %q", root.Ref)
	}
	target, ok := root.Lookup(root.Ref)
	if !ok || target.Description != "Inventory service settings" {
		t.Fatalf("expected root reference to resolve, got %+v (%v)", target, ok)
	}

	names, err := pkgopenapi.ComponentNames(context.Background(), p, mustDocument(t, document))
	if err != nil {
		t.Fatalf("component names: %v", err)
	}
	if diff := cmp.Diff([]string{"Service", "Storage"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestComponentSchemaUnknownName(t *testing.T) {
	t.Parallel()

	p := New(pkgopenapi.NewParserOptions())
	_, err := pkgopenapi.ComponentSchema(context.Background(), p, mustDocument(t, document), "Missing")
	if err == nil || !strings.Contains(err.Error(), `component "Missing" not found`) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestComponentsRequiresSchemas(t *testing.T) {
	t.Parallel()

	const empty = `openapi: 3.0.3
info:
  title: Empty
  version: 1.0.0
paths: {}
`
	p := New(pkgopenapi.NewParserOptions())
	if _, err := p.Components(context.Background(), mustDocument(t, empty)); err == nil {
		t.Fatalf("expected error for document without components")
	}
}

func TestComponentsValidation(t *testing.T) {
	t.Parallel()

	const invalid = `openapi: 3.0.3
paths: {}
components:
  schemas:
    Thing:
      type: object
`
	strict := New(pkgopenapi.NewParserOptions())
	if _, err := strict.Components(context.Background(), mustDocument(t, invalid)); err == nil || !strings.Contains(err.Error(), "validate") {
		t.Fatalf("expected validation error, got %v", err)
	}

	lenient := New(pkgopenapi.NewParserOptions(pkgopenapi.WithValidation(false)))
	comps, err := lenient.Components(context.Background(), mustDocument(t, invalid))
	if err != nil {
		t.Fatalf("expected lenient parser to accept document: %v", err)
	}
	if _, ok := comps.Defs["Thing"]; !ok {
		t.Fatalf("expected Thing component")
	}
}

func TestComponentsMalformedDocument(t *testing.T) {
	t.Parallel()

	p := New(pkgopenapi.NewParserOptions())
	if _, err := p.Components(context.Background(), mustDocument(t, `{"openapi": "3.0.3", "info": [`)); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestComponentsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(pkgopenapi.NewParserOptions())
	if _, err := p.Components(ctx, mustDocument(t, document)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
