package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-tomlgen"
	"github.com/goliatone/go-tomlgen/pkg/jsonschema"
	pkgopenapi "github.com/goliatone/go-tomlgen/pkg/openapi"
	"github.com/goliatone/go-tomlgen/pkg/schema"
	"github.com/goliatone/go-tomlgen/pkg/validation"
)

var errLint = errors.New("lint: schema has issues")

func newLintCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report schema parts that rendering will skip",
		Long: `Report references that do not resolve, references to other documents, and
x-toml-format values that are not layout directives. Rendering tolerates all of
them, so lint explains missing comments or layout choices.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			src, err := schemaSource(cfg.Schema)
			if err != nil {
				return err
			}

			loader := tomlgen.NewLoader(jsonschema.WithHTTPFallback(a.httpTimeout))
			doc, err := loader.Load(cmd.Context(), src)
			if err != nil {
				return err
			}

			var root schema.Schema
			if cfg.Component != "" {
				root, err = pkgopenapi.ComponentSchema(cmd.Context(), tomlgen.NewOpenAPIParser(), doc, cfg.Component)
			} else {
				root, err = jsonschema.Parse(doc.Raw())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result := validation.ValidateSchema(root)
			if result.Valid {
				color.New(color.FgGreen).Fprintf(out, "%s: no issues\n", doc.Location())
				return nil
			}
			warn := color.New(color.FgYellow)
			for _, issue := range result.Issues {
				location := issue.Path
				if issue.Field != "" {
					location = fmt.Sprintf("%s (%s)", issue.Field, issue.Path)
				}
				warn.Fprintf(out, "%s: %s\n", location, issue.Message)
			}
			return errLint
		},
	}

	cmd.Flags().String("schema", "", "JSON Schema or OpenAPI document (path or http(s) URL)")
	cmd.Flags().String("openapi-component", "", "Lint the named components.schemas entry of an OpenAPI document")
	return cmd
}
