package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// nullTag is the YAML tag for an empty or ~ value.
const nullTag = "!!null"

// ReadLayer reads the file at path into m.
//
// The format is chosen by extension:
//   - .yaml, .yml: nested mappings are flattened into dotted keys
//     ("db: {url: x}" becomes "db.url=x") in document order
//   - anything else: Java-style properties (key=value, key: value, # comments)
//
// Keys already in m are overwritten, keeping their original position. The
// whole file is read and closed before parsing, so a parse failure never
// leaves a partially applied layer behind.
//
// Errors wrapping ErrMalformedConfig mean the file was read but could not be
// parsed; any other error is an I/O failure.
func ReadLayer(m *Map, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var pairs [][2]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		pairs, err = parseYAML(data)
	default:
		pairs, err = parseProperties(data)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedConfig, path, err)
	}

	for _, kv := range pairs {
		if err := m.Set(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// parseProperties parses a properties file. ${...} references are kept
// literally; expanding them would let one key read another's secret.
func parseProperties(data []byte) ([][2]string, error) {
	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}

	keys := p.Keys()
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		v, _ := p.Get(k)
		pairs = append(pairs, [2]string{k, v})
	}
	return pairs, nil
}

// parseYAML flattens a YAML mapping into dotted key/value pairs.
// Sequences of scalars are joined with commas.
func parseYAML(data []byte) ([][2]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping, got %s", kindName(root.Kind))
	}

	var pairs [][2]string
	if err := flattenYAML("", root, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

func flattenYAML(prefix string, node *yaml.Node, pairs *[][2]string) error {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			if err := flattenYAML(key, node.Content[i+1], pairs); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("key %s: sequences may only hold scalars", prefix)
			}
			items = append(items, scalarValue(item))
		}
		*pairs = append(*pairs, [2]string{prefix, strings.Join(items, ",")})
	case yaml.AliasNode:
		return flattenYAML(prefix, node.Alias, pairs)
	case yaml.ScalarNode:
		*pairs = append(*pairs, [2]string{prefix, scalarValue(node)})
	default:
		return fmt.Errorf("key %s: unsupported %s node", prefix, kindName(node.Kind))
	}
	return nil
}

func scalarValue(node *yaml.Node) string {
	if node.Tag == nullTag {
		return ""
	}
	return node.Value
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
