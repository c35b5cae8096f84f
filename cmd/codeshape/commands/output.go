package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

// Output formats.
const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

// ErrUnsupportedFormat is returned for an unknown --output value.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// writeStructured encodes value as JSON or YAML.
func writeStructured(out io.Writer, format string, value any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(value)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)

		err := enc.Encode(value)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// parseValue reads a command-line value as YAML, which also accepts JSON.
// Mapping order is kept.
func parseValue(text string) (any, error) {
	var doc yaml.Node

	err := yaml.Unmarshal([]byte(text), &doc)
	if err != nil {
		return nil, fmt.Errorf("parse value: %w", err)
	}

	if len(doc.Content) == 0 {
		return nil, nil
	}

	return fromYAML(doc.Content[0])
}

func fromYAML(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		entries := make(view.Object, 0, len(node.Content)/2)

		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			value, err := fromYAML(node.Content[idx+1])
			if err != nil {
				return nil, err
			}

			entries = append(entries, view.Entry{Key: node.Content[idx].Value, Value: value})
		}

		return entries, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))

		for _, child := range node.Content {
			value, err := fromYAML(child)
			if err != nil {
				return nil, err
			}

			items = append(items, value)
		}

		return items, nil
	case yaml.AliasNode:
		return fromYAML(node.Alias)
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return fromYAML(node.Content[0])
	default:
		var scalar any

		err := node.Decode(&scalar)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", node.Value, err)
		}

		return scalar, nil
	}
}
