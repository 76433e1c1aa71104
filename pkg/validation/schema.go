// Package validation lints schemas before they are rendered. Rendering itself
// tolerates every problem reported here by skipping the offending part, so
// the issues explain why a comment, field, or layout choice is missing.
package validation

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	pkgjsonschema "github.com/goliatone/go-tomlgen/pkg/jsonschema"
	"github.com/goliatone/go-tomlgen/pkg/layout"
	"github.com/goliatone/go-tomlgen/pkg/schema"
)

// SchemaIssue represents a lint finding with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures lint outcomes.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// ValidateDocument parses raw and lints the result. A payload that cannot be
// parsed yields a single issue.
func ValidateDocument(raw []byte) SchemaValidationResult {
	root, err := pkgjsonschema.Parse(raw)
	if err != nil {
		return SchemaValidationResult{Issues: []SchemaIssue{issueFromError(err)}}
	}
	return ValidateSchema(root)
}

// ValidateSchema reports references that do not resolve, references to other
// documents, and x-toml-format values that are not directives.
func ValidateSchema(root schema.Schema) SchemaValidationResult {
	l := &linter{root: root}
	l.walk(root, "#")
	return SchemaValidationResult{
		Valid:  len(l.issues) == 0,
		Issues: l.issues,
	}
}

type linter struct {
	root   schema.Schema
	issues []SchemaIssue
}

func (l *linter) walk(node schema.Schema, pointer string) {
	if node.Ref != "" {
		switch {
		case !strings.HasPrefix(node.Ref, "#"):
			l.report(pointer, fmt.Sprintf("external reference %q is not followed", node.Ref))
		default:
			if _, ok := l.root.Lookup(node.Ref); !ok {
				l.report(pointer, fmt.Sprintf("reference %q does not resolve", node.Ref))
			}
		}
	}

	if raw, ok := node.FormatDirective(); ok {
		if _, err := layout.ParseDirective(raw); err != nil {
			l.report(pointer, strings.TrimPrefix(err.Error(), "layout: "))
		}
	}

	for _, name := range node.OrderedProperties() {
		l.walk(node.Properties[name], pointer+"/properties/"+escapePointer(name))
	}
	if node.Items != nil {
		l.walk(*node.Items, pointer+"/items")
	}
	for _, group := range []struct {
		keyword  string
		branches []schema.Schema
	}{
		{"allOf", node.AllOf},
		{"anyOf", node.AnyOf},
		{"oneOf", node.OneOf},
	} {
		for i, branch := range group.branches {
			l.walk(branch, pointer+"/"+group.keyword+"/"+strconv.Itoa(i))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(node.Defs)) {
		l.walk(node.Defs[name], pointer+"/$defs/"+escapePointer(name))
	}
}

func (l *linter) report(pointer, message string) {
	l.issues = append(l.issues, SchemaIssue{
		Path:    pointer,
		Field:   fieldPathFromPointer(pointer),
		Message: message,
	})
}

func issueFromError(err error) SchemaIssue {
	if err == nil {
		err = errors.New("unknown error")
	}
	msg := strings.TrimSpace(err.Error())
	msg = strings.TrimPrefix(msg, "jsonschema: ")
	return SchemaIssue{Path: "#", Message: msg}
}

func escapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}

// fieldPathFromPointer maps a JSON pointer to the dotted field path it
// renders at. Array items share the path of their array and definitions
// contribute nothing.
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for idx := 0; idx < len(parts); idx++ {
		switch parts[idx] {
		case "properties":
			if idx+1 < len(parts) {
				next := strings.ReplaceAll(parts[idx+1], "~1", "/")
				next = strings.ReplaceAll(next, "~0", "~")
				out = append(out, next)
				idx++
			}
		case "oneOf", "anyOf", "allOf":
			if idx+1 < len(parts) && isNumeric(parts[idx+1]) {
				idx++
			}
		case "$defs":
			if idx+1 < len(parts) {
				idx++
			}
		}
	}
	return strings.Join(out, ".")
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
