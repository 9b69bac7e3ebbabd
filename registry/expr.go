package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ExprKind classifies a parsed type expression.
type ExprKind uint8

const (
	// ExprName is a plain or generic name: "u32", "Vec<u8>", "Option<Worker>".
	ExprName ExprKind = iota
	// ExprArray is a fixed-length array: "[u8; 32]".
	ExprArray
	// ExprTuple is a tuple: "(IdentityId, bool)".
	ExprTuple
)

// TypeExpr is the parsed form of a type-expression string as the
// external codec reads it.
//
// For ExprName, Params holds generic arguments (empty for a plain
// name). For ExprArray, Params[0] is the element type and Len the
// array length. For ExprTuple, Params holds the members in order.
type TypeExpr struct {
	Kind   ExprKind
	Name   string
	Params []TypeExpr
	Len    int
}

// Named returns a plain name expression.
func Named(name string) TypeExpr {
	return TypeExpr{Kind: ExprName, Name: name}
}

// String renders the canonical form of the expression.
func (e TypeExpr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e TypeExpr) write(sb *strings.Builder) {
	switch e.Kind {
	case ExprArray:
		sb.WriteByte('[')
		if len(e.Params) > 0 {
			e.Params[0].write(sb)
		}
		sb.WriteString("; ")
		sb.WriteString(strconv.Itoa(e.Len))
		sb.WriteByte(']')
	case ExprTuple:
		sb.WriteByte('(')
		for i, p := range e.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.write(sb)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(e.Name)
		if len(e.Params) > 0 {
			sb.WriteByte('<')
			for i, p := range e.Params {
				if i > 0 {
					sb.WriteString(", ")
				}
				p.write(sb)
			}
			sb.WriteByte('>')
		}
	}
}

// Equal reports whether two expressions denote the same type string.
func (e TypeExpr) Equal(o TypeExpr) bool {
	return e.String() == o.String()
}

// IsPlain reports whether e is a bare name without generic arguments.
func (e TypeExpr) IsPlain() bool {
	return e.Kind == ExprName && len(e.Params) == 0
}

// Walk calls fn for every name appearing in e, outermost first.
func (e TypeExpr) Walk(fn func(name string)) {
	if e.Kind == ExprName {
		fn(e.Name)
	}
	for _, p := range e.Params {
		p.Walk(fn)
	}
}

func (e TypeExpr) clone() TypeExpr {
	if len(e.Params) == 0 {
		return e
	}
	out := e
	out.Params = make([]TypeExpr, len(e.Params))
	for i, p := range e.Params {
		out.Params[i] = p.clone()
	}
	return out
}

var errUnexpectedEnd = errors.New("unexpected end of input")

// ParseTypeExpr parses a type-expression string such as "Vec<u8>",
// "Option<Worker>" or "[u8; 32]".
func ParseTypeExpr(s string) (TypeExpr, error) {
	p := &exprParser{s: s}
	e, err := p.parse()
	if err != nil {
		return TypeExpr{}, fmt.Errorf("registry: parse %q: %w", s, err)
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return TypeExpr{}, fmt.Errorf("registry: parse %q: trailing input at offset %d", s, p.pos)
	}
	return e, nil
}

// MustParseTypeExpr is like ParseTypeExpr but panics on error.
func MustParseTypeExpr(s string) TypeExpr {
	e, err := ParseTypeExpr(s)
	if err != nil {
		panic(err)
	}
	return e
}

type exprParser struct {
	s   string
	pos int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek(c byte) bool {
	return p.pos < len(p.s) && p.s[p.pos] == c
}

func (p *exprParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return errUnexpectedEnd
	}
	if p.s[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d, got %q", c, p.pos, p.s[p.pos])
	}
	p.pos++
	return nil
}

func (p *exprParser) parse() (TypeExpr, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return TypeExpr{}, errUnexpectedEnd
	}
	switch p.s[p.pos] {
	case '[':
		p.pos++
		elem, err := p.parse()
		if err != nil {
			return TypeExpr{}, err
		}
		if err := p.expect(';'); err != nil {
			return TypeExpr{}, err
		}
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.s[start:p.pos])
		if err != nil {
			return TypeExpr{}, fmt.Errorf("array length at offset %d: %w", start, err)
		}
		if err := p.expect(']'); err != nil {
			return TypeExpr{}, err
		}
		return TypeExpr{Kind: ExprArray, Params: []TypeExpr{elem}, Len: n}, nil
	case '(':
		p.pos++
		members, err := p.list(')')
		if err != nil {
			return TypeExpr{}, err
		}
		return TypeExpr{Kind: ExprTuple, Params: members}, nil
	}

	name := p.ident()
	if name == "" {
		return TypeExpr{}, fmt.Errorf("unexpected %q at offset %d", p.s[p.pos], p.pos)
	}
	p.skipSpace()
	if !p.peek('<') {
		return Named(name), nil
	}
	p.pos++
	params, err := p.list('>')
	if err != nil {
		return TypeExpr{}, err
	}
	if len(params) == 0 {
		return TypeExpr{}, fmt.Errorf("%s<> has no type arguments", name)
	}
	return TypeExpr{Kind: ExprName, Name: name, Params: params}, nil
}

func (p *exprParser) list(closing byte) ([]TypeExpr, error) {
	var out []TypeExpr
	p.skipSpace()
	if p.peek(closing) {
		p.pos++
		return out, nil
	}
	for {
		e, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		p.skipSpace()
		if p.pos >= len(p.s) {
			return nil, errUnexpectedEnd
		}
		switch c := p.s[p.pos]; c {
		case ',':
			p.pos++
		case closing:
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected %q at offset %d", c, p.pos)
		}
	}
}

func (p *exprParser) ident() string {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		isLetter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isLetter && !(isDigit && p.pos > start) {
			break
		}
		p.pos++
	}
	return p.s[start:p.pos]
}
