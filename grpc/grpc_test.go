package sogrpc_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	sogrpc "github.com/sea212/Masterthesis-Superorganism/grpc"
	"github.com/sea212/Masterthesis-Superorganism/server"
	sotest "github.com/sea212/Masterthesis-Superorganism/testing"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

// startServer starts a gRPC server on a random port and returns the
// listener address. The server stops when the test finishes.
func startServer(t *testing.T, gs *sogrpc.GRPCServer, opts ...grpc.ServerOption) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := grpc.NewServer(opts...)
	gs.Register(s)

	go func() {
		// Serve returns nil after GracefulStop.
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.GracefulStop)

	return lis.Addr().String()
}

func dial(t *testing.T, addr string) *sogrpc.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := sogrpc.Dial(ctx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	return client
}

func newGRPCServer(t *testing.T) *sogrpc.GRPCServer {
	t.Helper()
	srv, err := server.Default()
	if err != nil {
		t.Fatalf("server.Default: %v", err)
	}
	return sogrpc.NewGRPCServer(srv, nil)
}

func TestGRPC_Compliance(t *testing.T) {
	sotest.RunComplianceSuite(t, func(t *testing.T) superorganism.Connection {
		return dial(t, startServer(t, newGRPCServer(t)))
	})
}

func TestGRPC_UnknownTypeMapsBack(t *testing.T) {
	client := dial(t, startServer(t, newGRPCServer(t)))
	defer client.Close()

	_, err := client.Resolve(context.Background(), "Nope")
	if !errors.Is(err, superorganism.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestGRPC_TransitionErrorMapsBack(t *testing.T) {
	client := dial(t, startServer(t, newGRPCServer(t)))
	defer client.Close()

	ctx := context.Background()
	_, err := client.Rotate(ctx, types.StateConcern)
	te, ok := superorganism.IsTransition(err)
	if !ok {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if te.From != types.StateUninitialized || te.To != types.StateConcern {
		t.Fatalf("unexpected transition error %+v", te)
	}
}

func TestGRPC_SharedServerState(t *testing.T) {
	gs := newGRPCServer(t)
	addr := startServer(t, gs)

	a := dial(t, addr)
	defer a.Close()
	b := dial(t, addr)
	defer b.Close()

	ctx := context.Background()
	if _, err := a.Rotate(ctx, types.StatePropose); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	rep, err := b.State(ctx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if rep.State != types.StatePropose {
		t.Fatalf("second client sees %s, want Propose", rep.State)
	}
	if cur := gs.Server().Rounds().Current(); cur.State != types.StatePropose {
		t.Fatalf("server state = %s", cur.State)
	}
}

func TestGRPC_LoggingInterceptor(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gs := newGRPCServer(t)
	addr := startServer(t, gs, grpc.ChainUnaryInterceptor(sogrpc.LoggingInterceptor(zap.New(core))))

	client := dial(t, addr)
	defer client.Close()

	if _, err := client.State(context.Background()); err != nil {
		t.Fatalf("State: %v", err)
	}
	entries := logs.FilterMessage("rpc").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 rpc log entry, got %d", len(entries))
	}
	if m := entries[0].ContextMap()["method"]; m != "/superorganism.v1.TypeService/State" {
		t.Fatalf("logged method %v", m)
	}
}

func TestGRPC_ZeroRecords(t *testing.T) {
	client := dial(t, startServer(t, newGRPCServer(t)))
	defer client.Close()
	ctx := context.Background()

	uninitialized := types.StateUninitialized
	enc, err := client.Encode(ctx, types.Value{State: &uninitialized})
	if err != nil {
		t.Fatalf("Encode(Uninitialized): %v", err)
	}
	if enc.Kind != types.RecordState || len(enc.Data) != 1 || enc.Data[0] != 0 {
		t.Fatalf("unexpected encoding %+v", enc)
	}

	v, err := client.Decode(ctx, types.Encoded{Kind: types.RecordState, Data: []byte{0x00}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.State == nil || *v.State != types.StateUninitialized {
		t.Fatalf("decoded %+v", v)
	}

	if _, err := client.Encode(ctx, types.Value{Proposal: &types.Proposal{}}); err != nil {
		t.Fatalf("Encode(empty Proposal): %v", err)
	}
	if _, err := client.Encode(ctx, types.Value{}); !errors.Is(err, types.ErrEmptyValue) {
		t.Fatalf("expected ErrEmptyValue, got %v", err)
	}
}

func TestGRPC_RejectedRotationReportsState(t *testing.T) {
	gs := newGRPCServer(t)
	client := dial(t, startServer(t, gs))
	defer client.Close()

	if err := gs.Server().Rounds().Reset(types.StateVoteCouncil, 7); err != nil {
		t.Fatal(err)
	}
	rep, err := client.Rotate(context.Background(), types.StateConcern)
	if _, ok := superorganism.IsTransition(err); !ok {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if rep.State != types.StateVoteCouncil || rep.Round != 7 {
		t.Fatalf("rejected rotation reported %+v, want VoteCouncil round 7", rep)
	}
}
