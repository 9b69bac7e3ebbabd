package registry

import (
	"errors"
	"fmt"
)

// FieldSpec is an unparsed struct field used with Builder.Struct.
type FieldSpec struct {
	Name string
	Type string
}

// F is shorthand for a FieldSpec.
func F(name, typ string) FieldSpec {
	return FieldSpec{Name: name, Type: typ}
}

// Builder accumulates definitions in order and freezes them into a
// Registry. Errors are collected and reported together by Build.
type Builder struct {
	defs  []Definition
	index map[string]int
	errs  []error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

func (b *Builder) fail(name, format string, args ...any) {
	b.errs = append(b.errs, &DefinitionError{Name: name, Reason: fmt.Sprintf(format, args...)})
}

func (b *Builder) add(d Definition) {
	if d.Name == "" {
		b.fail("<empty>", "definition has no name")
		return
	}
	if _, dup := b.index[d.Name]; dup {
		b.fail(d.Name, "defined more than once")
		return
	}
	b.index[d.Name] = len(b.defs)
	b.defs = append(b.defs, d)
}

// Alias defines name as another type expression.
func (b *Builder) Alias(name, expr string) *Builder {
	e, err := ParseTypeExpr(expr)
	if err != nil {
		b.fail(name, "%v", err)
		return b
	}
	b.add(Definition{Name: name, Kind: KindAlias, Alias: e})
	return b
}

// Enum defines name as a closed set of variants. Variant order is the
// wire discriminant.
func (b *Builder) Enum(name string, variants ...string) *Builder {
	if len(variants) == 0 {
		b.fail(name, "enum has no variants")
		return b
	}
	if len(variants) > 256 {
		b.fail(name, "enum has %d variants, at most 256 fit a discriminant byte", len(variants))
		return b
	}
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if v == "" {
			b.fail(name, "empty variant name")
			return b
		}
		if _, dup := seen[v]; dup {
			b.fail(name, "variant %q listed twice", v)
			return b
		}
		seen[v] = struct{}{}
	}
	b.add(Definition{Name: name, Kind: KindEnum, Variants: append([]string(nil), variants...)})
	return b
}

// Struct defines name as a record with ordered fields.
func (b *Builder) Struct(name string, fields ...FieldSpec) *Builder {
	out := make([]Field, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			b.fail(name, "empty field name")
			return b
		}
		if _, dup := seen[f.Name]; dup {
			b.fail(name, "field %q listed twice", f.Name)
			return b
		}
		seen[f.Name] = struct{}{}
		e, err := ParseTypeExpr(f.Type)
		if err != nil {
			b.fail(name, "field %s: %v", f.Name, err)
			return b
		}
		out = append(out, Field{Name: f.Name, Type: e})
	}
	b.add(Definition{Name: name, Kind: KindStruct, Fields: out})
	return b
}

// Build freezes the accumulated definitions. The Builder must not be
// used afterwards.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	r := &Registry{defs: b.defs, index: b.index}
	b.defs, b.index = nil, nil
	return r, nil
}
