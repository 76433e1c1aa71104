package jsonschema

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tomlgen/pkg/schema"
)

// Parse decodes a JSON or YAML schema document into the canonical tree,
// keeping properties in document order. Parsing is lenient: keywords with an
// unexpected shape are skipped. Only undecodable bytes or a non-object root
// are errors.
func Parse(raw []byte) (schema.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return schema.Schema{}, fmt.Errorf("jsonschema: decode document: %w", err)
	}
	if len(doc.Content) == 0 {
		return schema.Schema{}, errors.New("jsonschema: document is empty")
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return schema.Schema{}, errors.New("jsonschema: schema must be an object at #")
	}
	return schemaFromNode(root), nil
}

// MustParse is Parse that panics. Used by tests and package-level fixtures.
func MustParse(raw string) schema.Schema {
	out, err := Parse([]byte(raw))
	if err != nil {
		panic(err)
	}
	return out
}

func schemaFromNode(node *yaml.Node) schema.Schema {
	var out schema.Schema
	node = resolveAlias(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return out
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := resolveAlias(node.Content[i+1])
		if val == nil {
			continue
		}

		switch key {
		case "$ref":
			out.Ref = strings.TrimSpace(scalarString(val))
		case "type":
			out.Type = readType(val)
		case "title":
			out.Title = strings.TrimSpace(scalarString(val))
		case "description":
			out.Description = strings.TrimSpace(scalarString(val))
		case "default":
			out.Default = decodeAny(val)
		case "enum":
			if list, ok := decodeAny(val).([]any); ok {
				out.Enum = list
			}
		case "required":
			out.Required = readStringList(val)
		case "properties":
			out.Properties, out.PropertyOrder = readProperties(val)
		case "items":
			if val.Kind == yaml.MappingNode {
				items := schemaFromNode(val)
				out.Items = &items
			}
		case "allOf":
			out.AllOf = readSchemaList(val)
		case "anyOf":
			out.AnyOf = readSchemaList(val)
		case "oneOf":
			out.OneOf = readSchemaList(val)
		case "$defs", "definitions":
			out.Defs = mergeDefs(out.Defs, val)
		case "components":
			if schemas := mappingValue(val, "schemas"); schemas != nil {
				out.Defs = mergeDefs(out.Defs, schemas)
			}
		default:
			if isVendorExtension(key) {
				if out.Extensions == nil {
					out.Extensions = make(map[string]any)
				}
				out.Extensions[key] = decodeAny(val)
			}
		}
	}
	return out
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func scalarString(node *yaml.Node) string {
	if node == nil || node.Kind != yaml.ScalarNode {
		return ""
	}
	return node.Value
}

// readType accepts "string" as well as ["string", "null"]; the first non-null
// entry wins.
func readType(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return strings.TrimSpace(node.Value)
	case yaml.SequenceNode:
		for _, entry := range node.Content {
			name := strings.TrimSpace(scalarString(resolveAlias(entry)))
			if name != "" && name != "null" {
				return name
			}
		}
	}
	return ""
}

func readStringList(node *yaml.Node) []string {
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(node.Content))
	for _, entry := range node.Content {
		entry = resolveAlias(entry)
		if entry == nil || entry.Kind != yaml.ScalarNode || strings.TrimSpace(entry.Value) == "" {
			continue
		}
		out = append(out, entry.Value)
	}
	return out
}

func readProperties(node *yaml.Node) (map[string]schema.Schema, []string) {
	if node.Kind != yaml.MappingNode {
		return nil, nil
	}
	props := make(map[string]schema.Schema, len(node.Content)/2)
	order := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, dup := props[name]; !dup {
			order = append(order, name)
		}
		// Boolean schemas (true/false) still declare the property.
		props[name] = schemaFromNode(node.Content[i+1])
	}
	return props, order
}

func readSchemaList(node *yaml.Node) []schema.Schema {
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]schema.Schema, 0, len(node.Content))
	for _, entry := range node.Content {
		out = append(out, schemaFromNode(entry))
	}
	return out
}

func mergeDefs(defs map[string]schema.Schema, node *yaml.Node) map[string]schema.Schema {
	if node.Kind != yaml.MappingNode {
		return defs
	}
	if defs == nil {
		defs = make(map[string]schema.Schema, len(node.Content)/2)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		defs[node.Content[i].Value] = schemaFromNode(node.Content[i+1])
	}
	return defs
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolveAlias(node.Content[i+1])
		}
	}
	return nil
}

func decodeAny(node *yaml.Node) any {
	var out any
	if err := node.Decode(&out); err != nil {
		return nil
	}
	return out
}

func isVendorExtension(key string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(key)), "x-")
}
