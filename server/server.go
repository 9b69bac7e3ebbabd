package server

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/registry"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

// Compile-time interface check.
var _ superorganism.TypeService = (*Server)(nil)

// Server serves one validated registry. The registry and its rendered
// JSON are fixed at construction; only the round tracker changes.
type Server struct {
	reg    *registry.Registry
	doc    types.RegistryDocument
	rounds *RoundTracker
	log    *zap.Logger
	known  registry.Primitives
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithPrimitives replaces the primitive set used to validate the
// registry.
func WithPrimitives(p registry.Primitives) Option {
	return func(s *Server) { s.known = p }
}

// New creates a Server for reg. A registry with dangling references or
// alias cycles is rejected.
func New(reg *registry.Registry, opts ...Option) (*Server, error) {
	s := &Server{
		reg:    reg,
		rounds: NewRoundTracker(),
		log:    zap.NewNop(),
		known:  registry.DefaultPrimitives(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := reg.Validate(s.known); err != nil {
		return nil, fmt.Errorf("server: invalid registry: %w", err)
	}
	raw, err := reg.JSON()
	if err != nil {
		return nil, fmt.Errorf("server: render registry: %w", err)
	}
	s.doc = types.RegistryDocument{Names: reg.Names(), JSON: raw}
	s.log.Info("registry loaded",
		zap.Int("definitions", reg.Len()),
		zap.Int("bytes", len(raw)),
	)
	return s, nil
}

// Default creates a Server for the superorganism registry.
func Default(opts ...Option) (*Server, error) {
	return New(registry.Superorganism(), opts...)
}

// Registry returns a copy of the served registry document.
func (s *Server) Registry(ctx context.Context) (types.RegistryDocument, error) {
	if err := ctx.Err(); err != nil {
		return types.RegistryDocument{}, err
	}
	return types.RegistryDocument{
		Names: slices.Clone(s.doc.Names),
		JSON:  bytes.Clone(s.doc.JSON),
	}, nil
}

// Resolve expands name through its alias chain.
func (s *Server) Resolve(ctx context.Context, name string) (types.Resolution, error) {
	if err := ctx.Err(); err != nil {
		return types.Resolution{}, err
	}
	def, ok := s.reg.Lookup(name)
	if !ok {
		s.log.Debug("resolve unknown type", zap.String("name", name))
		return types.Resolution{}, fmt.Errorf("%w: %s", superorganism.ErrUnknownType, name)
	}
	expr, err := s.reg.Resolve(name)
	if err != nil {
		return types.Resolution{}, err
	}
	kind := def.Kind
	if resolved, ok := s.reg.Lookup(expr.String()); ok && expr.IsPlain() {
		kind = resolved.Kind
	}
	return types.Resolution{Name: name, Kind: kind.String(), Expr: expr.String()}, nil
}

// Encode produces the SCALE bytes of v's record.
func (s *Server) Encode(ctx context.Context, v types.Value) (types.Encoded, error) {
	if err := ctx.Err(); err != nil {
		return types.Encoded{}, err
	}
	rec, _, err := v.Record()
	if err != nil {
		return types.Encoded{}, err
	}
	if !s.reg.Has(rec.TypeName()) {
		return types.Encoded{}, fmt.Errorf("%w: %s", superorganism.ErrUnknownType, rec.TypeName())
	}
	enc, err := v.Encode()
	if err != nil {
		s.log.Warn("encode failed", zap.String("type", rec.TypeName()), zap.Error(err))
		return types.Encoded{}, err
	}
	return enc, nil
}

// Decode parses enc back into a record.
func (s *Server) Decode(ctx context.Context, enc types.Encoded) (types.Value, error) {
	if err := ctx.Err(); err != nil {
		return types.Value{}, err
	}
	if !s.reg.Has(enc.Kind.String()) {
		return types.Value{}, fmt.Errorf("%w: %s", superorganism.ErrUnknownType, enc.Kind)
	}
	v, err := enc.Decode()
	if err != nil {
		s.log.Warn("decode failed",
			zap.Stringer("kind", enc.Kind),
			zap.Int("bytes", len(enc.Data)),
			zap.Error(err),
		)
		return types.Value{}, err
	}
	return v, nil
}

// State reports the tracked governance phase.
func (s *Server) State(ctx context.Context) (types.StateReport, error) {
	if err := ctx.Err(); err != nil {
		return types.StateReport{}, err
	}
	return s.rounds.Current(), nil
}

// Rotate records a StateRotated event.
func (s *Server) Rotate(ctx context.Context, next types.States) (types.StateReport, error) {
	if err := ctx.Err(); err != nil {
		return types.StateReport{}, err
	}
	report, err := s.rounds.Rotate(next)
	if err != nil {
		s.log.Warn("rejected state rotation",
			zap.Stringer("from", report.State),
			zap.Stringer("to", next),
		)
		return report, err
	}
	s.log.Info("state rotated",
		zap.Stringer("state", report.State),
		zap.Uint8("round", report.Round),
	)
	return report, nil
}

// Rounds returns the round tracker for advanced use cases.
func (s *Server) Rounds() *RoundTracker {
	return s.rounds
}

// Lookup returns a registry definition.
func (s *Server) Lookup(name string) (registry.Definition, bool) {
	return s.reg.Lookup(name)
}
