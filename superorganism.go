// Package superorganism serves the custom type registry of the
// superorganism chain, together with a codec for the records it
// names, to chain API clients.
//
// The registry itself lives in package registry; the Go mirrors of the
// runtime types and their SCALE encoding live in package types. This
// package defines the transport-agnostic service boundary that the
// grpc and local packages implement.
package superorganism

import (
	"context"

	"github.com/sea212/Masterthesis-Superorganism/types"
)

// TypeService is the interface every registry endpoint implements.
//
// All methods are safe for concurrent use. Registry, Resolve, Encode
// and Decode never change state; Rotate serializes through the round
// tracker.
type TypeService interface {
	// Registry returns the type registry in the literal form a chain
	// API client loads at initialization.
	Registry(ctx context.Context) (types.RegistryDocument, error)

	// Resolve expands a registered name through its alias chain.
	// Unknown names fail with ErrUnknownType.
	Resolve(ctx context.Context, name string) (types.Resolution, error)

	// Encode produces the SCALE bytes of the record carried by v.
	Encode(ctx context.Context, v types.Value) (types.Encoded, error)

	// Decode parses SCALE bytes back into a record.
	Decode(ctx context.Context, enc types.Encoded) (types.Value, error)

	// State reports the governance phase last observed on chain.
	State(ctx context.Context) (types.StateReport, error)

	// Rotate records a StateRotated event. Rotations the runtime
	// could never emit fail with a TransitionError.
	Rotate(ctx context.Context, next types.States) (types.StateReport, error)
}

// Connection represents a transport-agnostic connection to a registry
// service. Both gRPC clients and in-process adapters implement this.
type Connection interface {
	TypeService

	// Close terminates the connection.
	Close() error
}
