// Package registry holds the custom type definitions a chain API
// client needs to decode and encode superorganism runtime data.
//
// A Registry is an ordered, immutable table mapping a type name to one
// of three definition shapes: an alias for another type expression, an
// enum with ordered variants, or a struct with ordered fields. Order is
// significant: enum variant position is the wire discriminant and
// struct fields are encoded positionally.
//
// The registry only names types. Encoding lives in the types package
// and in whatever generic codec the consumer loads the table into.
package registry

import "fmt"

// Kind is the shape of a Definition.
type Kind uint8

const (
	KindAlias Kind = iota + 1
	KindEnum
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Field is one named member of a struct definition.
type Field struct {
	Name string
	Type TypeExpr
}

// Definition is a single named entry of the registry.
type Definition struct {
	Name string
	Kind Kind
	// Alias is the target expression (KindAlias only).
	Alias TypeExpr
	// Variants in discriminant order (KindEnum only).
	Variants []string
	// Fields in wire order (KindStruct only).
	Fields []Field
}

// Exprs returns every type expression the definition references.
func (d Definition) Exprs() []TypeExpr {
	switch d.Kind {
	case KindAlias:
		return []TypeExpr{d.Alias}
	case KindStruct:
		out := make([]TypeExpr, len(d.Fields))
		for i, f := range d.Fields {
			out[i] = f.Type
		}
		return out
	default:
		return nil
	}
}

// Field returns the field with the given name.
func (d Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (d Definition) clone() Definition {
	out := d
	out.Alias = d.Alias.clone()
	if d.Variants != nil {
		out.Variants = append([]string(nil), d.Variants...)
	}
	if d.Fields != nil {
		out.Fields = make([]Field, len(d.Fields))
		for i, f := range d.Fields {
			out.Fields[i] = Field{Name: f.Name, Type: f.Type.clone()}
		}
	}
	return out
}

// Registry is a frozen, ordered set of definitions. It is safe for
// concurrent use; every accessor returns copies.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Names returns the definition names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.defs))
	for i, d := range r.defs {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	i, ok := r.index[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i].clone(), true
}

// Has reports whether name is defined.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Definitions returns all definitions in declaration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.clone()
	}
	return out
}

// References returns every type name used inside a definition,
// deduplicated, in first-use order.
func (r *Registry) References() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range r.defs {
		for _, e := range d.Exprs() {
			e.Walk(func(name string) {
				if _, ok := seen[name]; ok {
					return
				}
				seen[name] = struct{}{}
				out = append(out, name)
			})
		}
	}
	return out
}

// Resolve expands alias chains starting at name until it reaches an
// enum, a struct, or a name the registry does not define. Generic
// arguments are expanded as well, so "DocumentCID" resolves to
// "Vec<u8>" and "VecDeque" to "Vec<ProposalWinner>".
func (r *Registry) Resolve(name string) (TypeExpr, error) {
	if !r.Has(name) {
		return TypeExpr{}, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return r.expand(Named(name), nil)
}

// ResolveExpr is like Resolve for an arbitrary type expression.
func (r *Registry) ResolveExpr(e TypeExpr) (TypeExpr, error) {
	return r.expand(e, nil)
}

func (r *Registry) expand(e TypeExpr, chain []string) (TypeExpr, error) {
	if !e.IsPlain() {
		out := e
		out.Params = make([]TypeExpr, len(e.Params))
		for i, p := range e.Params {
			x, err := r.expand(p, chain)
			if err != nil {
				return TypeExpr{}, err
			}
			out.Params[i] = x
		}
		return out, nil
	}
	i, ok := r.index[e.Name]
	if !ok || r.defs[i].Kind != KindAlias {
		return e, nil
	}
	for _, n := range chain {
		if n == e.Name {
			return TypeExpr{}, &DefinitionError{
				Name:   e.Name,
				Reason: fmt.Sprintf("alias cycle %v -> %s", chain, e.Name),
			}
		}
	}
	return r.expand(r.defs[i].Alias, append(chain, e.Name))
}
