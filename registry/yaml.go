package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var _ yaml.Marshaler = (*Registry)(nil)

// MarshalYAML renders the registry as an ordered YAML mapping with the
// same shape as the JSON literal.
func (r *Registry) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, d := range r.defs {
		var val *yaml.Node
		switch d.Kind {
		case KindAlias:
			val = scalar(d.Alias.String())
		case KindEnum:
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for _, v := range d.Variants {
				seq.Content = append(seq.Content, scalar(v))
			}
			val = &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar(enumKey), seq}}
		case KindStruct:
			val = &yaml.Node{Kind: yaml.MappingNode}
			for _, f := range d.Fields {
				val.Content = append(val.Content, scalar(f.Name), scalar(f.Type.String()))
			}
		default:
			return nil, &DefinitionError{Name: d.Name, Reason: fmt.Sprintf("cannot render %s", d.Kind)}
		}
		root.Content = append(root.Content, scalar(d.Name), val)
	}
	return root, nil
}

// YAML returns the registry encoded as a YAML document.
func (r *Registry) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

func scalar(s string) *yaml.Node {
	// Double-quoted so type strings like "[u8; 32]" stay strings.
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.ContainsAny(s, "<>[];(),") {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// ParseYAML reads a registry from its YAML form, keeping order.
func ParseYAML(data []byte) (*Registry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("registry: yaml: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("registry: yaml: empty document")
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("registry: yaml: top level must be a mapping (line %d)", root.Line)
	}
	b := NewBuilder()
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, val := root.Content[i].Value, root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			b.Alias(name, val.Value)
		case yaml.MappingNode:
			if err := parseYAMLObject(b, name, val); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("registry: yaml %s: unexpected node at line %d", name, val.Line)
		}
	}
	return b.Build()
}

func parseYAMLObject(b *Builder, name string, obj *yaml.Node) error {
	var fields []FieldSpec
	for i := 0; i+1 < len(obj.Content); i += 2 {
		key, val := obj.Content[i].Value, obj.Content[i+1]
		if key == enumKey {
			if len(obj.Content) != 2 {
				return &DefinitionError{Name: name, Reason: "enum object carries extra keys"}
			}
			var variants []string
			if err := val.Decode(&variants); err != nil {
				return fmt.Errorf("registry: yaml %s: _enum: %w", name, err)
			}
			b.Enum(name, variants...)
			return nil
		}
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("registry: yaml %s.%s: type must be a string (line %d)", name, key, val.Line)
		}
		fields = append(fields, F(key, val.Value))
	}
	b.Struct(name, fields...)
	return nil
}

// Load reads a registry file. The format is chosen by extension:
// .json, or .yaml/.yml.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("registry: %s: unsupported extension %q", path, ext)
	}
}
