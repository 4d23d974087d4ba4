package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToNative converts n into plain Go values: map[string]any, []any, string,
// int64, float64, bool or nil.
func ToNative(n Node) any {
	switch v := n.(type) {
	case Scalar:
		return v.Value()
	case *Sequence:
		if v == nil {
			return nil
		}
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = ToNative(item)
		}
		return out
	case *Mapping:
		if v == nil {
			return nil
		}
		out := make(map[string]any, v.Len())
		for _, k := range v.keys {
			out[k] = ToNative(v.values[k])
		}
		return out
	default:
		return nil
	}
}

// YAMLNode converts n into a yaml.v3 node tree, keeping mapping order.
func YAMLNode(n Node) (*yaml.Node, error) {
	switch v := n.(type) {
	case Scalar:
		out := &yaml.Node{}
		if err := out.Encode(v.Value()); err != nil {
			return nil, fmt.Errorf("encode %s scalar: %w", v.Kind(), err)
		}
		return out, nil
	case *Sequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if v == nil {
			return out, nil
		}
		for _, item := range v.Items {
			child, err := YAMLNode(item)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, child)
		}
		return out, nil
	case *Mapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if v == nil {
			return out, nil
		}
		for _, k := range v.keys {
			value, err := YAMLNode(v.values[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			out.Content = append(out.Content, key, value)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported node type %T", n)
	}
}

// FromYAML converts a yaml.v3 node tree into a document node. Aliases are
// resolved to copies of their anchors.
func FromYAML(n *yaml.Node) (Node, error) {
	if n == nil {
		return Null(), nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewMapping(), nil
		}
		return FromYAML(n.Content[0])
	case yaml.AliasNode:
		return FromYAML(n.Alias)
	case yaml.SequenceNode:
		seq := &Sequence{Items: make([]Node, 0, len(n.Content))}
		for _, child := range n.Content {
			item, err := FromYAML(child)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, item)
		}
		return seq, nil
	case yaml.MappingNode:
		return mappingFromYAML(n)
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

// mappingFromYAML applies merge keys (<<) first, so explicit keys override
// merged ones wherever they appear in the mapping.
func mappingFromYAML(n *yaml.Node) (Node, error) {
	m := NewMapping()
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !isMergeKey(n.Content[i]) {
			continue
		}
		if err := mergeYAML(m, n.Content[i+1]); err != nil {
			return nil, err
		}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if isMergeKey(key) {
			continue
		}
		if key.Kind == yaml.AliasNode && key.Alias != nil {
			key = key.Alias
		}
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
		}
		value, err := FromYAML(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		m.Set(key.Value, value)
	}
	return m, nil
}

func isMergeKey(key *yaml.Node) bool {
	return key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge"
}

// mergeYAML copies entries of a merged mapping, or of each mapping in a merged
// sequence, into m. Keys already in m win, so earlier sequence items take
// precedence over later ones.
func mergeYAML(m *Mapping, value *yaml.Node) error {
	merged, err := FromYAML(value)
	if err != nil {
		return err
	}
	var sources []*Mapping
	switch v := merged.(type) {
	case *Mapping:
		sources = append(sources, v)
	case *Sequence:
		for _, item := range v.Items {
			src, ok := item.(*Mapping)
			if !ok {
				return fmt.Errorf("line %d: merge sequence must hold mappings, got %s", value.Line, TypeName(item))
			}
			sources = append(sources, src)
		}
	default:
		return fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings, got %s", value.Line, TypeName(merged))
	}
	for _, src := range sources {
		for _, key := range src.Keys() {
			if m.Has(key) {
				continue
			}
			v, _ := src.Get(key)
			m.Set(key, v)
		}
	}
	return nil
}

func scalarFromYAML(n *yaml.Node) (Node, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint64:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	default:
		// timestamps and other resolved types keep their source text
		return String(n.Value), nil
	}
}

// Unmarshal decodes n into out using yaml struct tags.
func Unmarshal(n Node, out any) error {
	yn, err := YAMLNode(n)
	if err != nil {
		return err
	}
	if err := yn.Decode(out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
