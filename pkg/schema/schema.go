package schema

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ExtensionFormat is the vendor extension carrying a layout directive on a
// property or on a referenced type.
const ExtensionFormat = "x-toml-format"

// Schema is the canonical description consumed by the metadata extractor. It
// mirrors the subset of JSON Schema that carries documentation: descriptions,
// required lists, references, combinators, and array items.
type Schema struct {
	Ref         string
	Type        string
	Title       string
	Description string
	Default     any
	Enum        []any
	Required    []string
	Properties  map[string]Schema
	// PropertyOrder lists property names in document order. Names missing
	// from it are visited after the ordered ones, sorted.
	PropertyOrder []string
	Items         *Schema
	OneOf         []Schema
	AnyOf         []Schema
	AllOf         []Schema
	// Defs holds named definitions from $defs, definitions, or OpenAPI
	// components.
	Defs       map[string]Schema
	Extensions map[string]any
}

// OrderedProperties returns property names in declaration order.
func (s Schema) OrderedProperties() []string {
	if len(s.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]struct{}, len(s.Properties))
	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if len(names) == len(s.Properties) {
		return names
	}
	rest := make([]string, 0, len(s.Properties)-len(names))
	for name := range s.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// IsRequired reports whether name appears in the required list.
func (s Schema) IsRequired(name string) bool {
	for _, required := range s.Required {
		if required == name {
			return true
		}
	}
	return false
}

// FormatDirective returns the raw x-toml-format extension value.
func (s Schema) FormatDirective() (string, bool) {
	raw, ok := s.Extensions[ExtensionFormat]
	if !ok {
		return "", false
	}
	directive, ok := raw.(string)
	if !ok {
		return "", false
	}
	directive = strings.TrimSpace(directive)
	return directive, directive != ""
}

// Lookup resolves a local reference ("#", "#/$defs/Name",
// "#/definitions/Name", "#/components/schemas/Name", or any JSON pointer over
// properties, items, and combinators) against s. External documents are not
// followed.
func (s Schema) Lookup(ref string) (Schema, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "#" {
		return s, true
	}
	if !strings.HasPrefix(ref, "#/") {
		return Schema{}, false
	}

	tokens := strings.Split(ref[2:], "/")
	for i, token := range tokens {
		decoded, err := url.PathUnescape(token)
		if err != nil {
			return Schema{}, false
		}
		decoded = strings.ReplaceAll(decoded, "~1", "/")
		tokens[i] = strings.ReplaceAll(decoded, "~0", "~")
	}

	current := s
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		next := func() (string, bool) {
			if i+1 >= len(tokens) {
				return "", false
			}
			i++
			return tokens[i], true
		}

		switch token {
		case "$defs", "definitions":
			name, ok := next()
			if !ok {
				return Schema{}, false
			}
			if current, ok = s.defFrom(current, name); !ok {
				return Schema{}, false
			}
		case "components":
			if section, ok := next(); !ok || section != "schemas" {
				return Schema{}, false
			}
			name, ok := next()
			if !ok {
				return Schema{}, false
			}
			if current, ok = s.defFrom(current, name); !ok {
				return Schema{}, false
			}
		case "properties":
			name, ok := next()
			if !ok {
				return Schema{}, false
			}
			prop, ok := current.Properties[name]
			if !ok {
				return Schema{}, false
			}
			current = prop
		case "items":
			if current.Items == nil {
				return Schema{}, false
			}
			current = *current.Items
		case "allOf", "anyOf", "oneOf":
			raw, ok := next()
			if !ok {
				return Schema{}, false
			}
			idx, err := strconv.Atoi(raw)
			branches := current.branches(token)
			if err != nil || idx < 0 || idx >= len(branches) {
				return Schema{}, false
			}
			current = branches[idx]
		default:
			return Schema{}, false
		}
	}
	return current, true
}

// defFrom looks a definition up on node first and falls back to the root, so
// definitions nested inside a sub-schema stay reachable.
func (s Schema) defFrom(node Schema, name string) (Schema, bool) {
	if def, ok := node.Defs[name]; ok {
		return def, true
	}
	def, ok := s.Defs[name]
	return def, ok
}

func (s Schema) branches(keyword string) []Schema {
	switch keyword {
	case "allOf":
		return s.AllOf
	case "anyOf":
		return s.AnyOf
	case "oneOf":
		return s.OneOf
	default:
		return nil
	}
}
