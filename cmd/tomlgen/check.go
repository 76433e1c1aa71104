package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

// errDrift is returned by check when the rendered document and the existing
// file differ. The diff has already been printed.
var errDrift = errors.New("check: rendered output differs")

func newCheckCmd(a *app) *cobra.Command {
	var against string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that a file matches the rendered scaffold",
		Long: `Render the scaffold and compare it with an existing file. The command prints a
line diff and exits non-zero when they differ, which makes it usable in CI.

Example:
  tomlgen check --schema config.schema.json --value defaults.yaml --against config.example.toml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			if against == "" {
				against = cfg.Output
			}
			if against == "" {
				return errors.New("check: --against is required")
			}

			rendered, err := a.renderDocument(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			existing, err := os.ReadFile(against)
			if err != nil {
				return fmt.Errorf("check: read %s: %w", against, err)
			}

			out := cmd.OutOrStdout()
			if string(existing) == string(rendered) {
				color.New(color.FgGreen).Fprintf(out, "%s is up to date\n", against)
				return nil
			}

			color.New(color.FgYellow, color.Bold).Fprintf(out, "%s differs from the rendered scaffold\n", against)
			writeLineDiff(out, string(existing), string(rendered))
			return errDrift
		},
	}

	addInputFlags(cmd)
	cmd.Flags().StringVar(&against, "against", "", "Existing file to compare with (defaults to the configured output)")
	return cmd
}

// writeLineDiff prints a line oriented diff from want to got. Removed lines
// are prefixed with "-" and added lines with "+".
func writeLineDiff(w io.Writer, want, got string) {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffpatch.DiffDelete:
				removed.Fprintf(w, "-%s\n", line)
			case diffpatch.DiffInsert:
				added.Fprintf(w, "+%s\n", line)
			case diffpatch.DiffEqual:
				fmt.Fprintf(w, " %s\n", line)
			}
		}
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
