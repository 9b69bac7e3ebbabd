// Package local provides an in-process registry connection.
//
// For clients compiled into the same binary as the registry, this
// adapter calls the server directly with no serialization overhead.
package local

import (
	"context"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/server"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

// Compile-time interface check.
var _ superorganism.Connection = (*Connection)(nil)

// Connection wraps a registry server in-process.
type Connection struct {
	srv *server.Server
}

// NewConnection creates an in-process connection to srv.
func NewConnection(srv *server.Server) *Connection {
	return &Connection{srv: srv}
}

// Default creates an in-process connection to a fresh server for the
// superorganism registry.
func Default(opts ...server.Option) (*Connection, error) {
	srv, err := server.Default(opts...)
	if err != nil {
		return nil, err
	}
	return NewConnection(srv), nil
}

func (c *Connection) Registry(ctx context.Context) (types.RegistryDocument, error) {
	return c.srv.Registry(ctx)
}

func (c *Connection) Resolve(ctx context.Context, name string) (types.Resolution, error) {
	return c.srv.Resolve(ctx, name)
}

func (c *Connection) Encode(ctx context.Context, v types.Value) (types.Encoded, error) {
	return c.srv.Encode(ctx, v)
}

func (c *Connection) Decode(ctx context.Context, enc types.Encoded) (types.Value, error) {
	return c.srv.Decode(ctx, enc)
}

func (c *Connection) State(ctx context.Context) (types.StateReport, error) {
	return c.srv.State(ctx)
}

func (c *Connection) Rotate(ctx context.Context, next types.States) (types.StateReport, error) {
	return c.srv.Rotate(ctx, next)
}

func (c *Connection) Close() error { return nil }

// Server returns the underlying server for advanced use cases.
func (c *Connection) Server() *server.Server {
	return c.srv
}
