package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// enumKey marks an enum definition in the literal form.
const enumKey = "_enum"

var _ json.Marshaler = (*Registry)(nil)

// MarshalJSON renders the registry as the flat object literal chain
// API clients load: alias names map to type strings, enums to
// {"_enum": [...]}, structs to ordered {field: type} objects.
// Key, variant and field order follow declaration order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range r.defs {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, d.Name)
		buf.WriteByte(':')
		switch d.Kind {
		case KindAlias:
			writeJSONString(&buf, d.Alias.String())
		case KindEnum:
			buf.WriteByte('{')
			writeJSONString(&buf, enumKey)
			buf.WriteString(":[")
			for j, v := range d.Variants {
				if j > 0 {
					buf.WriteByte(',')
				}
				writeJSONString(&buf, v)
			}
			buf.WriteString("]}")
		case KindStruct:
			buf.WriteByte('{')
			for j, f := range d.Fields {
				if j > 0 {
					buf.WriteByte(',')
				}
				writeJSONString(&buf, f.Name)
				buf.WriteByte(':')
				writeJSONString(&buf, f.Type.String())
			}
			buf.WriteByte('}')
		default:
			return nil, &DefinitionError{Name: d.Name, Reason: fmt.Sprintf("cannot render %s", d.Kind)}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON returns the literal form indented by two spaces.
func (r *Registry) JSON() ([]byte, error) {
	raw, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("registry: indent: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	// json.Marshal of a string never fails.
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// ParseJSON reads the literal form produced by MarshalJSON (or written
// by hand for a chain client) back into a Registry, keeping order.
func ParseJSON(data []byte) (*Registry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	b := NewBuilder()
	for dec.More() {
		name, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("registry: json %s: %w", name, err)
		}
		switch v := tok.(type) {
		case string:
			b.Alias(name, v)
		case json.Delim:
			if v != '{' {
				return nil, fmt.Errorf("registry: json %s: unexpected %s", name, v)
			}
			if err := parseJSONObject(dec, b, name); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("registry: json %s: unexpected %v", name, tok)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return b.Build()
}

func parseJSONObject(dec *json.Decoder, b *Builder, name string) error {
	var (
		fields   []FieldSpec
		variants []string
		isEnum   bool
	)
	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return err
		}
		if key == enumKey {
			if err := dec.Decode(&variants); err != nil {
				return fmt.Errorf("registry: json %s: _enum: %w", name, err)
			}
			isEnum = true
			continue
		}
		var typ string
		if err := dec.Decode(&typ); err != nil {
			return fmt.Errorf("registry: json %s.%s: %w", name, key, err)
		}
		fields = append(fields, F(key, typ))
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	if isEnum {
		if len(fields) > 0 {
			return &DefinitionError{Name: name, Reason: "enum object carries extra keys"}
		}
		b.Enum(name, variants...)
		return nil
	}
	b.Struct(name, fields...)
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("registry: json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("registry: json: expected %s, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("registry: json: %w", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("registry: json: expected key, got %v", tok)
	}
	return s, nil
}
