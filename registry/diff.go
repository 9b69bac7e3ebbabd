package registry

import (
	"fmt"
	"slices"
)

// ChangeKind classifies a difference between two registries.
type ChangeKind uint8

const (
	ChangeAdded ChangeKind = iota + 1
	ChangeRemoved
	ChangeModified
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeModified:
		return "modified"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Change is one difference reported by Diff.
type Change struct {
	Name     string
	Kind     ChangeKind
	Detail   string
	Breaking bool
}

func (c Change) String() string {
	s := fmt.Sprintf("%s %s", c.Kind, c.Name)
	if c.Detail != "" {
		s += ": " + c.Detail
	}
	if c.Breaking {
		s += " (breaking)"
	}
	return s
}

// Diff lists the changes that turn r into next. A change is breaking
// when data encoded under r would no longer decode the same way under
// next: removals, retyped aliases, reordered or removed enum variants,
// and any struct field change. Appending enum variants, adding new
// definitions and retargeting an alias or field type to an expression
// that resolves to the same type are not breaking.
func (r *Registry) Diff(next *Registry) []Change {
	var out []Change
	for _, old := range r.defs {
		i, ok := next.index[old.Name]
		if !ok {
			out = append(out, Change{Name: old.Name, Kind: ChangeRemoved, Breaking: true})
			continue
		}
		if c, changed := r.diffDefinition(next, old, next.defs[i]); changed {
			out = append(out, c)
		}
	}
	for _, d := range next.defs {
		if !r.Has(d.Name) {
			out = append(out, Change{Name: d.Name, Kind: ChangeAdded})
		}
	}
	return out
}

// sameWire reports whether a under r and b under next expand to the
// same type expression.
func (r *Registry) sameWire(next *Registry, a, b TypeExpr) bool {
	ra, err := r.ResolveExpr(a)
	if err != nil {
		return false
	}
	rb, err := next.ResolveExpr(b)
	if err != nil {
		return false
	}
	return ra.Equal(rb)
}

func (r *Registry) diffDefinition(next *Registry, old, cur Definition) (Change, bool) {
	c := Change{Name: old.Name, Kind: ChangeModified, Breaking: true}
	if old.Kind != cur.Kind {
		c.Detail = fmt.Sprintf("%s became %s", old.Kind, cur.Kind)
		return c, true
	}
	switch old.Kind {
	case KindAlias:
		if !old.Alias.Equal(cur.Alias) {
			c.Detail = fmt.Sprintf("%s became %s", old.Alias, cur.Alias)
			c.Breaking = !r.sameWire(next, old.Alias, cur.Alias)
			return c, true
		}
	case KindEnum:
		if slices.Equal(old.Variants, cur.Variants) {
			return Change{}, false
		}
		if len(cur.Variants) > len(old.Variants) && slices.Equal(old.Variants, cur.Variants[:len(old.Variants)]) {
			c.Detail = fmt.Sprintf("variants appended: %v", cur.Variants[len(old.Variants):])
			c.Breaking = false
			return c, true
		}
		c.Detail = fmt.Sprintf("variants %v became %v", old.Variants, cur.Variants)
		return c, true
	case KindStruct:
		if len(old.Fields) != len(cur.Fields) {
			c.Detail = fmt.Sprintf("%d fields became %d", len(old.Fields), len(cur.Fields))
			return c, true
		}
		retyped := false
		for i := range old.Fields {
			of, cf := old.Fields[i], cur.Fields[i]
			if of.Name == cf.Name && of.Type.Equal(cf.Type) {
				continue
			}
			c.Detail = fmt.Sprintf("field %d %s: %s became %s: %s", i, of.Name, of.Type, cf.Name, cf.Type)
			if of.Name != cf.Name || !r.sameWire(next, of.Type, cf.Type) {
				return c, true
			}
			retyped = true
		}
		if retyped {
			c.Breaking = false
			return c, true
		}
	}
	return Change{}, false
}
