// Package schema loads the extraction field schema: a YAML file of named
// sections, each a list of {name, type, enum?} entries, converted into a
// JSON-schema-shaped output hint for the backends.
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Field struct {
	Name string   `yaml:"name"`
	Type string   `yaml:"type"`
	Enum []string `yaml:"enum"`
}

// Load parses the schema file and returns the output-shape hint. The
// top-level "version" key is metadata, not a section.
func Load(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file '%s': %w", path, err)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	properties := make(map[string]interface{})
	for section, node := range raw {
		if section == "version" {
			continue
		}
		var fields []Field
		if err := node.Decode(&fields); err != nil {
			// Non-list sections carry no fields.
			continue
		}
		for _, f := range fields {
			if f.Name == "" {
				continue
			}
			properties[f.Name] = fieldHint(f)
		}
	}

	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}, nil
}

func fieldHint(f Field) map[string]interface{} {
	switch f.Type {
	case "str", "string", "":
		return map[string]interface{}{"type": "string"}
	case "int", "integer":
		return map[string]interface{}{"type": "integer"}
	case "float", "number":
		return map[string]interface{}{"type": "number"}
	case "bool":
		return map[string]interface{}{"type": "boolean"}
	case "enum":
		return map[string]interface{}{"type": "string", "enum": f.Enum}
	case "list_str", "list":
		return map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		}
	case "dict":
		return map[string]interface{}{"type": "object"}
	default:
		return map[string]interface{}{"type": "string"}
	}
}
