// Package sotest provides test utilities for registry service clients
// and transports, including a configurable mock, a test harness, fixture
// records and a compliance test suite.
package sotest

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/server"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

// Compile-time check that MockService satisfies the connection
// interface.
var _ superorganism.Connection = (*MockService)(nil)

// MockService is a configurable mock registry service. Every method is
// configurable via a function field. Unconfigured methods delegate to
// an in-process server for the superorganism registry, created on first
// use.
type MockService struct {
	once    sync.Once
	backend *server.Server
	initErr error

	// Configurable handlers. If nil, the backend is used.
	RegistryFn func(context.Context) (types.RegistryDocument, error)
	ResolveFn  func(context.Context, string) (types.Resolution, error)
	EncodeFn   func(context.Context, types.Value) (types.Encoded, error)
	DecodeFn   func(context.Context, types.Encoded) (types.Value, error)
	StateFn    func(context.Context) (types.StateReport, error)
	RotateFn   func(context.Context, types.States) (types.StateReport, error)

	// Call counters (atomic for concurrent access).
	RegistryCalls atomic.Int64
	ResolveCalls  atomic.Int64
	EncodeCalls   atomic.Int64
	DecodeCalls   atomic.Int64
	StateCalls    atomic.Int64
	RotateCalls   atomic.Int64
	Closed        atomic.Bool
}

func (m *MockService) delegate() (*server.Server, error) {
	m.once.Do(func() {
		m.backend, m.initErr = server.Default()
	})
	if m.initErr != nil {
		return nil, fmt.Errorf("sotest: mock backend: %w", m.initErr)
	}
	return m.backend, nil
}

func (m *MockService) Registry(ctx context.Context) (types.RegistryDocument, error) {
	m.RegistryCalls.Inc()
	if m.RegistryFn != nil {
		return m.RegistryFn(ctx)
	}
	s, err := m.delegate()
	if err != nil {
		return types.RegistryDocument{}, err
	}
	return s.Registry(ctx)
}

func (m *MockService) Resolve(ctx context.Context, name string) (types.Resolution, error) {
	m.ResolveCalls.Inc()
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, name)
	}
	s, err := m.delegate()
	if err != nil {
		return types.Resolution{}, err
	}
	return s.Resolve(ctx, name)
}

func (m *MockService) Encode(ctx context.Context, v types.Value) (types.Encoded, error) {
	m.EncodeCalls.Inc()
	if m.EncodeFn != nil {
		return m.EncodeFn(ctx, v)
	}
	s, err := m.delegate()
	if err != nil {
		return types.Encoded{}, err
	}
	return s.Encode(ctx, v)
}

func (m *MockService) Decode(ctx context.Context, enc types.Encoded) (types.Value, error) {
	m.DecodeCalls.Inc()
	if m.DecodeFn != nil {
		return m.DecodeFn(ctx, enc)
	}
	s, err := m.delegate()
	if err != nil {
		return types.Value{}, err
	}
	return s.Decode(ctx, enc)
}

func (m *MockService) State(ctx context.Context) (types.StateReport, error) {
	m.StateCalls.Inc()
	if m.StateFn != nil {
		return m.StateFn(ctx)
	}
	s, err := m.delegate()
	if err != nil {
		return types.StateReport{}, err
	}
	return s.State(ctx)
}

func (m *MockService) Rotate(ctx context.Context, next types.States) (types.StateReport, error) {
	m.RotateCalls.Inc()
	if m.RotateFn != nil {
		return m.RotateFn(ctx, next)
	}
	s, err := m.delegate()
	if err != nil {
		return types.StateReport{}, err
	}
	return s.Rotate(ctx, next)
}

func (m *MockService) Close() error {
	m.Closed.Store(true)
	return nil
}
