package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-tomlgen/pkg/fieldpath"
	"github.com/goliatone/go-tomlgen/pkg/jsonschema"
	"github.com/goliatone/go-tomlgen/pkg/layout"
	"github.com/goliatone/go-tomlgen/pkg/schema"
	"github.com/goliatone/go-tomlgen/pkg/value"
)

const serviceSchema = `{
	"description": "Service configuration",
	"type": "object",
	"required": ["host"],
	"properties": {
		"host": {"type": "string", "description": "Server host"},
		"port": {"type": "integer", "description": "Server port"},
		"log": {"type": "object", "properties": {"level": {"type": "string"}}}
	}
}`

func serviceValue() value.Value {
	return value.TableOf(value.NewTable().
		Set("host", value.String("localhost")).
		Set("log", value.TableOf(value.NewTable().Set("level", value.String("info")))))
}

func assertText(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	got := New().Render(serviceValue(), jsonschema.MustParse(serviceSchema))
	assertText(t, `# Service configuration

# Server host
host = "localhost"
# Server port
# port = ...

[log]
level = "info"
`, got)
}

func TestRenderCallerDirectives(t *testing.T) {
	t.Parallel()

	gen := New(WithDirectives(layout.Map{fieldpath.New("log").Key(): layout.Inline}))
	got := gen.Render(serviceValue(), jsonschema.MustParse(serviceSchema))
	assertText(t, `# Service configuration

# Server host
host = "localhost"
# Server port
# port = ...
log = { level = "info" }
`, got)
}

func TestGenerateRequestDirectivesWin(t *testing.T) {
	t.Parallel()

	gen := New(WithDirectives(layout.Map{fieldpath.New("log").Key(): layout.Inline}))
	s := jsonschema.MustParse(serviceSchema)
	record := serviceValue()

	out, err := gen.Generate(context.Background(), Request{
		Record:     &record,
		Schema:     &s,
		Directives: layout.Map{fieldpath.New("log").Key(): layout.Dotted},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "\nlog.level = \"info\"\n") {
		t.Fatalf("expected request directive to win, got:\n%s", out)
	}
}

func TestGenerateFromSourceWithoutValue(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "service.schema.json")
	if err := os.WriteFile(path, []byte(serviceSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	out, err := New().Generate(context.Background(), Request{Source: schema.SourceFromFile(path)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	assertText(t, `# Service configuration

# Server port
# port = ...
# log = ...
`, string(out))
}

const inventoryDocument = `openapi: 3.0.3
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

func TestGenerateOpenAPIComponent(t *testing.T) {
	t.Parallel()

	doc := schema.MustNewDocument(schema.SourceInline("inventory.yaml"), []byte(inventoryDocument))
	record := value.TableOf(value.NewTable().
		Set("listen", value.String("0.0.0.0:8080")).
		Set("storage", value.TableOf(value.NewTable().Set("driver", value.String("bolt")))))

	out, err := New().Generate(context.Background(), Request{
		Record:    &record,
		Document:  &doc,
		Component: "Service",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	assertText(t, `# Inventory service settings

# Address to bind
listen = "0.0.0.0:8080"
# debug = ...
storage = { driver = "bolt" }
`, string(out))
}

func TestGenerateUnknownComponent(t *testing.T) {
	t.Parallel()

	doc := schema.MustNewDocument(schema.SourceInline("inventory.yaml"), []byte(inventoryDocument))
	_, err := New().Generate(context.Background(), Request{Document: &doc, Component: "Missing"})
	if err == nil || !strings.Contains(err.Error(), `component "Missing" not found`) {
		t.Fatalf("expected missing component error, got %v", err)
	}
}

type retry struct {
	Attempts int     `toml:"attempts"`
	Backoff  float64 `toml:"backoff"`
}

type job struct {
	Name  string `toml:"name" jsonschema:"description=Job name"`
	Cron  string `toml:"cron"`
	Retry retry  `toml:"retry"`
}

type database struct {
	URL         string `toml:"url" jsonschema:"description=Connection string"`
	MaxParallel int    `toml:"max_parallel,omitempty"`
}

type appConfig struct {
	Host     string            `toml:"host" jsonschema:"description=Server host address"`
	Port     int               `toml:"port"`
	Debug    bool              `toml:"debug"`
	Tags     []string          `toml:"tags"`
	Labels   map[string]string `toml:"labels"`
	Database database          `toml:"database"`
	Jobs     []job             `toml:"jobs"`
}

func sampleConfig() appConfig {
	return appConfig{
		Host:   "localhost",
		Port:   8080,
		Debug:  true,
		Tags:   []string{"a", "b"},
		Labels: map[string]string{"team": "infra"},
		Database: database{
			URL:         "postgres://localhost/app",
			MaxParallel: 4,
		},
		Jobs: []job{
			{Name: "backup", Cron: "0 3 * * *", Retry: retry{Attempts: 3, Backoff: 1.5}},
			{Name: "vacuum", Cron: "0 4 * * 0"},
		},
	}
}

func TestScaffoldRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := sampleConfig()
	out, err := New().Scaffold(cfg)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}

	var decoded appConfig
	if err := toml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("unmarshal scaffold: %v\n%s", err, out)
	}
	if diff := cmp.Diff(cfg, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	for _, fragment := range []string{
		"# Server host address\nhost = \"localhost\"\n",
		"# Connection string\nurl = \"postgres://localhost/app\"\n",
		"[[jobs]]\n# Job name\nname = \"backup\"\n",
		"[jobs.retry]\nattempts = 3\n",
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q, got:\n%s", fragment, out)
		}
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected a single trailing newline, got %q", out)
	}
}

func TestScaffoldValueEquality(t *testing.T) {
	t.Parallel()

	cfg := sampleConfig()
	out, err := New().Scaffold(cfg)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	parsed, err := value.ParseTOML([]byte(out))
	if err != nil {
		t.Fatalf("parse scaffold: %v", err)
	}
	want, err := value.FromStruct(cfg)
	if err != nil {
		t.Fatalf("from struct: %v", err)
	}
	if !value.Equal(want, parsed) {
		t.Fatalf("parsed output differs from source value:\n%s", out)
	}
}

func TestScaffoldOmittedFieldBecomesPlaceholder(t *testing.T) {
	t.Parallel()

	cfg := sampleConfig()
	cfg.Database.MaxParallel = 0
	out, err := New().Scaffold(cfg)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if !strings.Contains(out, "url = \"postgres://localhost/app\"\n# max_parallel = ...\n") {
		t.Fatalf("expected placeholder for omitted field, got:\n%s", out)
	}
}

func TestScaffoldConversionError(t *testing.T) {
	t.Parallel()

	_, err := New().Scaffold(nil)
	var convErr *value.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected ConversionError, got %T: %v", err, err)
	}
}

func TestGenerateAppliesTransformers(t *testing.T) {
	t.Parallel()

	defaults := NewDefaults().
		Set(fieldpath.New("port"), value.Integer(9000)).
		Set(fieldpath.New("log", "level"), value.String("debug"))

	var seen []string
	trace := TransformerFunc(func(_ context.Context, root *value.Table) error {
		seen = root.Keys()
		return nil
	})

	gen := New(WithTransformers(defaults, trace))
	s := jsonschema.MustParse(serviceSchema)
	out, err := gen.Generate(context.Background(), Request{Schema: &s})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	assertText(t, `# Service configuration

# Server port
port = 9000

[log]
level = "debug"
`, string(out))
	if diff := cmp.Diff([]string{"port", "log"}, seen); diff != "" {
		t.Fatalf("transformer order mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateLeavesRecordUntouched(t *testing.T) {
	t.Parallel()

	gen := New(WithTransformers(NewDefaults().
		Set(fieldpath.New("port"), value.Integer(80)).
		Set(fieldpath.New("log", "level"), value.String("debug"))))
	s := jsonschema.MustParse(serviceSchema)
	root := value.NewTable().
		Set("host", value.String("localhost")).
		Set("log", value.TableOf(value.NewTable()))
	record := value.TableOf(root)

	var wg sync.WaitGroup
	outputs := make([]string, 4)
	for i := range outputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := gen.Generate(context.Background(), Request{Record: &record, Schema: &s})
			if err != nil {
				t.Errorf("generate: %v", err)
				return
			}
			outputs[i] = string(out)
		}(i)
	}
	wg.Wait()

	for _, out := range outputs {
		if !strings.Contains(out, "port = 80\n") || !strings.Contains(out, "level = \"debug\"\n") {
			t.Fatalf("expected defaults in output, got:\n%s", out)
		}
	}
	if diff := cmp.Diff([]string{"host", "log"}, root.Keys()); diff != "" {
		t.Fatalf("caller table changed (-want +got):\n%s", diff)
	}
	log, _ := root.Get("log")
	if log.Len() != 0 {
		t.Fatalf("caller nested table changed: %#v", log)
	}
}

func TestDefaultsRejectsScalarParent(t *testing.T) {
	t.Parallel()

	root := value.NewTable().Set("log", value.String("stdout"))
	err := NewDefaults().Set(fieldpath.New("log", "level"), value.String("info")).Transform(context.Background(), root)
	if err == nil || !strings.Contains(err.Error(), "not a table") {
		t.Fatalf("expected scalar parent error, got %v", err)
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestInvalidDirectivesAreLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	gen := New(WithLogger(zap.New(core)))
	s := jsonschema.MustParse(`{"properties": {"log": {"x-toml-format": "sideways"}}}`)
	gen.Render(value.TableOf(nil), s)

	if got := logs.FilterMessage("ignoring layout directive").Len(); got != 1 {
		t.Fatalf("expected one warning, got %d", got)
	}
}

func TestFinalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":             "\n",
		"a = 1":        "a = 1\n",
		"a = 1\n\n\n":  "a = 1\n",
		"a = 1 \t\n  ": "a = 1\n",
	}
	for in, want := range cases {
		if got := Finalize(in); got != want {
			t.Fatalf("Finalize(%q) = %q, want %q", in, got, want)
		}
	}
}
