package tomlgen_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-tomlgen"
	"github.com/goliatone/go-tomlgen/pkg/jsonschema"
	"github.com/goliatone/go-tomlgen/pkg/scaffold"
	"github.com/goliatone/go-tomlgen/pkg/schema"
)

type server struct {
	Host string `toml:"host" jsonschema:"description=Address to bind"`
	Port int    `toml:"port,omitempty"`
}

func TestScaffold(t *testing.T) {
	out, err := tomlgen.Scaffold(server{Host: "0.0.0.0"})
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	want := "# Address to bind\nhost = \"0.0.0.0\"\n# port = ...\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestGenerateWithLoaderAndParser(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`openapi: 3.0.3
info: {title: Demo, version: 1.0.0}
paths: {}
components:
  schemas:
    Server:
      type: object
      properties:
        host: {type: string, description: Address to bind}
`)
	if err := os.WriteFile(filepath.Join(dir, "openapi.yaml"), raw, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := tomlgen.Generate(context.Background(), tomlgen.Request{
		Source:    schema.SourceFromFS("openapi.yaml"),
		Component: "Server",
	},
		scaffold.WithLoader(tomlgen.NewLoader(jsonschema.WithFileSystem(os.DirFS(dir)))),
		scaffold.WithOpenAPIParser(tomlgen.NewOpenAPIParser()),
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "# Address to bind\n# host = ...\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
