package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseJSON reads a JSON object into a table value in document order. JSON is
// decoded through the YAML parser, which accepts it as a subset.
func ParseJSON(data []byte) (Value, error) {
	out, err := ParseYAML(data)
	if err != nil {
		return Value{}, fmt.Errorf("value: parse json: %w", err)
	}
	return out, nil
}

// ParseYAML reads a YAML mapping into a table value in document order. Null
// entries are dropped so they read as absent fields.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("value: parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return TableOf(NewTable()), nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.AliasNode && root.Alias != nil {
		root = root.Alias
	}
	if root.Kind != yaml.MappingNode {
		return Value{}, errors.New("value: document root must be a mapping")
	}
	v, _, err := yamlValue(root)
	return v, err
}

// yamlValue converts node. The boolean result is false for nulls.
func yamlValue(node *yaml.Node) (Value, bool, error) {
	switch node.Kind {
	case yaml.AliasNode:
		if node.Alias == nil {
			return Value{}, false, nil
		}
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		table := NewTable()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			v, ok, err := yamlValue(node.Content[i+1])
			if err != nil {
				return Value{}, false, fmt.Errorf("%s: %w", key, err)
			}
			if ok {
				table.Set(key, v)
			}
		}
		return TableOf(table), true, nil
	case yaml.SequenceNode:
		elems := make([]Value, 0, len(node.Content))
		for i, child := range node.Content {
			v, ok, err := yamlValue(child)
			if err != nil {
				return Value{}, false, fmt.Errorf("[%d]: %w", i, err)
			}
			if !ok {
				return Value{}, false, fmt.Errorf("[%d]: null array elements are not supported", i)
			}
			elems = append(elems, v)
		}
		return ArrayOf(elems...), true, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	default:
		return Value{}, false, nil
	}
}

func yamlScalar(node *yaml.Node) (Value, bool, error) {
	switch node.ShortTag() {
	case "!!null":
		return Value{}, false, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, false, err
		}
		return Bool(b), true, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return Value{}, false, err
		}
		return Integer(i), true, nil
	case "!!float":
		return yamlFloat(node.Value)
	default:
		return String(node.Value), true, nil
	}
}

func yamlFloat(raw string) (Value, bool, error) {
	switch strings.ToLower(raw) {
	case ".inf", "+.inf":
		return Float(math.Inf(1)), true, nil
	case "-.inf":
		return Float(math.Inf(-1)), true, nil
	case ".nan":
		return Float(math.NaN()), true, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
	if err != nil {
		return Value{}, false, fmt.Errorf("invalid float %q: %w", raw, err)
	}
	return Float(f), true, nil
}
