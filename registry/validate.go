package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Primitives is the set of type names the external codec understands
// without a registry entry.
type Primitives map[string]struct{}

// NewPrimitives returns a set holding names.
func NewPrimitives(names ...string) Primitives {
	p := make(Primitives, len(names))
	for _, n := range names {
		p[n] = struct{}{}
	}
	return p
}

// DefaultPrimitives returns the primitives a substrate chain client
// knows for the superorganism runtime.
func DefaultPrimitives() Primitives {
	return NewPrimitives(
		"bool", "Text", "Bytes",
		"u8", "u16", "u32", "u64", "u128", "u256",
		"i8", "i16", "i32", "i64", "i128",
		"Vec", "Option", "Compact",
		"AccountId", "Balance", "BlockNumber", "Hash", "Permill", "Perbill", "Moment",
	)
}

// Has reports whether name is primitive.
func (p Primitives) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// With returns a copy of p extended by names.
func (p Primitives) With(names ...string) Primitives {
	out := make(Primitives, len(p)+len(names))
	for n := range p {
		out[n] = struct{}{}
	}
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

// Validate checks that every referenced name resolves, directly or
// through other definitions, to a registry entry or to a primitive in
// known, that no alias chain loops back on itself, and that no struct
// contains itself by value. All defects are reported together as
// DefinitionErrors.
func (r *Registry) Validate(known Primitives) error {
	var errs []error
	for _, d := range r.defs {
		for _, e := range d.Exprs() {
			e.Walk(func(name string) {
				if r.Has(name) || known.Has(name) {
					return
				}
				errs = append(errs, &DefinitionError{
					Name:   d.Name,
					Reason: fmt.Sprintf("unresolved type %q", name),
				})
			})
		}
		if d.Kind == KindAlias {
			if _, err := r.expand(Named(d.Name), nil); err != nil {
				errs = append(errs, err)
			}
		}
	}
	errs = append(errs, r.valueCycles()...)
	return errors.Join(errs...)
}

// indirections store their arguments behind a length prefix or an
// option tag, so a definition may reach itself through them.
var indirections = map[string]struct{}{
	"Vec": {}, "Option": {}, "Box": {}, "BTreeMap": {}, "BTreeSet": {},
}

// byValue calls fn for every name e embeds by value.
func byValue(e TypeExpr, fn func(name string)) {
	if e.Kind == ExprName {
		if _, ok := indirections[e.Name]; ok && len(e.Params) > 0 {
			return
		}
		fn(e.Name)
	}
	for _, p := range e.Params {
		byValue(p, fn)
	}
}

// valueCycles reports every cycle of by-value references that passes
// through a struct. Pure alias cycles are left to expand.
func (r *Registry) valueCycles() []error {
	const (
		unvisited = iota
		onStack
		done
	)
	var (
		state = make([]uint8, len(r.defs))
		stack []int
		errs  []error
		visit func(i int)
	)
	visit = func(i int) {
		state[i] = onStack
		stack = append(stack, i)
		for _, e := range r.defs[i].Exprs() {
			byValue(e, func(name string) {
				j, ok := r.index[name]
				if !ok {
					return
				}
				switch state[j] {
				case onStack:
					if err := r.cycleError(stack, j); err != nil {
						errs = append(errs, err)
					}
				case unvisited:
					visit(j)
				}
			})
		}
		stack = stack[:len(stack)-1]
		state[i] = done
	}
	for i := range r.defs {
		if state[i] == unvisited {
			visit(i)
		}
	}
	return errs
}

func (r *Registry) cycleError(stack []int, back int) error {
	start := slices.Index(stack, back)
	var (
		names     []string
		hasStruct bool
	)
	for _, i := range stack[start:] {
		names = append(names, r.defs[i].Name)
		hasStruct = hasStruct || r.defs[i].Kind == KindStruct
	}
	if !hasStruct {
		return nil
	}
	names = append(names, r.defs[back].Name)
	return &DefinitionError{
		Name:   r.defs[back].Name,
		Reason: fmt.Sprintf("struct cycle %s without Vec or Option indirection", strings.Join(names, " -> ")),
	}
}
