package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-tomlgen"
	"github.com/goliatone/go-tomlgen/pkg/jsonschema"
	"github.com/goliatone/go-tomlgen/pkg/layout"
	"github.com/goliatone/go-tomlgen/pkg/scaffold"
	"github.com/goliatone/go-tomlgen/pkg/schema"
	"github.com/goliatone/go-tomlgen/pkg/value"
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("schema", "", "JSON Schema or OpenAPI document (path or http(s) URL)")
	cmd.Flags().String("openapi-component", "", "Render the named components.schemas entry of an OpenAPI document")
	cmd.Flags().String("value", "", "Value file (.toml, .yaml, .yml, or .json); omit to scaffold placeholders only")
	cmd.Flags().StringToString("format", nil, "Layout directive per field path, e.g. --format server=inline")
}

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a TOML scaffold",
		Long: `Render a TOML scaffold from a schema and an optional value file.

Examples:
  # Placeholders for every optional field
  tomlgen render --schema config.schema.json

  # Render an OpenAPI component with values, inline the server table
  tomlgen render --schema openapi.yaml --openapi-component Config \
    --value defaults.yaml --format server=inline --output config.toml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			out, err := a.renderDocument(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if cfg.Output == "" || cfg.Output == "-" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			if !force {
				if _, err := os.Stat(cfg.Output); err == nil {
					ok, err := a.confirm(fmt.Sprintf("%s exists. Overwrite?", cfg.Output))
					if err != nil {
						return fmt.Errorf("render: confirm overwrite: %w", err)
					}
					if !ok {
						a.logger.Info("kept existing output", zap.String("path", cfg.Output))
						return nil
					}
				}
			}

			if err := writeOutput(cfg.Output, out); err != nil {
				return err
			}
			a.logger.Info("wrote scaffold", zap.String("path", cfg.Output), zap.Int("bytes", len(out)))
			return nil
		},
	}

	addInputFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().BoolP("force", "f", false, "Overwrite the output file without asking")
	return cmd
}

// renderDocument runs one render with the merged configuration.
func (a *app) renderDocument(ctx context.Context, cfg *Config) ([]byte, error) {
	directives, err := layout.ParseOverrides(cfg.Formats)
	if err != nil {
		return nil, err
	}

	src, err := schemaSource(cfg.Schema)
	if err != nil {
		return nil, err
	}

	req := tomlgen.Request{
		Source:     src,
		Component:  cfg.Component,
		Directives: directives,
	}
	if cfg.Value != "" {
		record, err := readValue(cfg.Value)
		if err != nil {
			return nil, err
		}
		req.Record = &record
	}

	gen := tomlgen.NewGenerator(
		scaffold.WithLogger(a.logger),
		scaffold.WithLoader(tomlgen.NewLoader(jsonschema.WithHTTPFallback(a.httpTimeout))),
		scaffold.WithOpenAPIParser(tomlgen.NewOpenAPIParser()),
	)
	return gen.Generate(ctx, req)
}

func schemaSource(raw string) (schema.Source, error) {
	path := strings.TrimSpace(raw)
	if isRemote(path) {
		return schema.ParseURLSource(path)
	}
	return schema.SourceFromFile(path), nil
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// readValue parses a value file, picking the format from its extension.
func readValue(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, fmt.Errorf("value: read %s: %w", path, err)
	}

	var record value.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		record, err = value.ParseTOML(data)
	case ".yaml", ".yml":
		record, err = value.ParseYAML(data)
	case ".json":
		record, err = value.ParseJSON(data)
	default:
		return value.Value{}, fmt.Errorf("value: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("value: parse %s: %w", path, err)
	}
	return record, nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("render: create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("render: write output: %w", err)
	}
	return nil
}
