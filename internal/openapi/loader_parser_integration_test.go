package openapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-tomlgen"
	"github.com/goliatone/go-tomlgen/pkg/jsonschema"
	"github.com/goliatone/go-tomlgen/pkg/scaffold"
	"github.com/goliatone/go-tomlgen/pkg/schema"
	"github.com/goliatone/go-tomlgen/pkg/testsupport"
	"github.com/goliatone/go-tomlgen/pkg/value"
)

func inventoryValue(t *testing.T) value.Value {
	t.Helper()
	record, err := value.ParseTOML(testsupport.MustReadGolden(t, filepath.Join("testdata", "inventory_value.toml")))
	if err != nil {
		t.Fatalf("parse value: %v", err)
	}
	return record
}

func TestLoaderParserIntegration(t *testing.T) {
	ctx := testsupport.Context()

	fixture := filepath.Join("testdata", "inventory.yaml")
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	record := inventoryValue(t)
	golden := filepath.Join("testdata", "inventory_service.golden.toml")

	// File source
	gen := tomlgen.NewGenerator(scaffold.WithOpenAPIParser(tomlgen.NewOpenAPIParser()))
	out, err := gen.Generate(ctx, tomlgen.Request{
		Record:    &record,
		Source:    schema.SourceFromFile(fixture),
		Component: "Service",
	})
	if err != nil {
		t.Fatalf("generate from file: %v", err)
	}
	testsupport.AssertGolden(t, golden, out)

	// HTTP source
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}))
	defer server.Close()

	genHTTP := tomlgen.NewGenerator(
		scaffold.WithLoader(tomlgen.NewLoader(jsonschema.WithHTTPFallback(0))),
	)
	outHTTP, err := genHTTP.Generate(context.Background(), tomlgen.Request{
		Record:    &record,
		Source:    schema.SourceFromURL(server.URL),
		Component: "Service",
	})
	if err != nil {
		t.Fatalf("generate from http: %v", err)
	}
	if diff := testsupport.CompareGolden(string(out), string(outHTTP)); diff != "" {
		t.Fatalf("file and http output differ (-file +http):\n%s", diff)
	}
}

func TestLoaderParserIntegrationRoundTrip(t *testing.T) {
	record := inventoryValue(t)
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "inventory.yaml"))

	out, err := tomlgen.Generate(testsupport.Context(), tomlgen.Request{
		Record:    &record,
		Document:  &doc,
		Component: "Service",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	parsed, err := value.ParseTOML(out)
	if err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	if !value.Equal(record, parsed) {
		t.Fatalf("rendered document does not parse back to the input:\n%s", out)
	}
}
