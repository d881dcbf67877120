package arbor

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseProps decodes a YAML mapping into a property bag. Key order is kept at
// every level: nested mappings become Props and sequences become []any.
func ParseProps(data []byte) (Props, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Props{}, fmt.Errorf("parse props: %w", err)
	}
	root := documentContent(&doc)
	if root == nil {
		return Props{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return Props{}, fmt.Errorf("parse props: line %d: expected a mapping", root.Line)
	}
	v, err := decodeNode(root)
	if err != nil {
		return Props{}, fmt.Errorf("parse props: %w", err)
	}
	return v.(Props), nil
}

// ParsePropsList decodes a YAML sequence of mappings, one bag per entry.
func ParsePropsList(data []byte) ([]Props, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse props list: %w", err)
	}
	root := documentContent(&doc)
	if root == nil {
		return nil, nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse props list: line %d: expected a sequence", root.Line)
	}
	out := make([]Props, 0, len(root.Content))
	for _, item := range root.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parse props list: line %d: expected a mapping", item.Line)
		}
		v, err := decodeNode(item)
		if err != nil {
			return nil, fmt.Errorf("parse props list: %w", err)
		}
		out = append(out, v.(Props))
	}
	return out, nil
}

func documentContent(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return resolveAlias(doc.Content[0])
	}
	if doc.Kind == 0 {
		return nil
	}
	return resolveAlias(doc)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func decodeNode(n *yaml.Node) (any, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		var p Props
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			val, err := decodeNode(v)
			if err != nil {
				return nil, err
			}
			p.Set(k.Value, val)
		}
		return p, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}
