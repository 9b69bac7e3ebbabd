package sogrpc

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/server"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

// Compile-time interface check.
var _ TypeServiceServer = (*GRPCServer)(nil)

// GRPCServer exposes a registry server over gRPC. Domain types are
// serialized directly via cramberry.
type GRPCServer struct {
	srv *server.Server
	log *zap.Logger
}

// NewGRPCServer creates a gRPC server wrapping srv.
func NewGRPCServer(srv *server.Server, log *zap.Logger) *GRPCServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &GRPCServer{srv: srv, log: log}
}

// Register adds the service to a gRPC server.
func (s *GRPCServer) Register(gs *grpc.Server) {
	RegisterTypeServiceServer(gs, s)
}

// Serve starts a gRPC server on the given listener and blocks until it
// stops.
func (s *GRPCServer) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	opts = append(opts, grpc.ChainUnaryInterceptor(LoggingInterceptor(s.log)))
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// Server returns the underlying server for advanced use.
func (s *GRPCServer) Server() *server.Server {
	return s.srv
}

// LoggingInterceptor logs every unary call with its status code.
func LoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("rpc",
			zap.String("method", info.FullMethod),
			zap.Stringer("code", status.Code(err)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}

// toStatus maps service errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, superorganism.ErrUnknownType):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, superorganism.ErrIllegalTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.InvalidArgument, err.Error())
	}
}

func (s *GRPCServer) Registry(ctx context.Context, _ *RegistryRequest) (*types.RegistryDocument, error) {
	doc, err := s.srv.Registry(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &doc, nil
}

func (s *GRPCServer) Resolve(ctx context.Context, req *ResolveRequest) (*types.Resolution, error) {
	res, err := s.srv.Resolve(ctx, req.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return &res, nil
}

func (s *GRPCServer) Encode(ctx context.Context, v *types.Value) (*types.Encoded, error) {
	req, err := v.Tagged()
	if err != nil {
		return nil, toStatus(err)
	}
	enc, err := s.srv.Encode(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &enc, nil
}

func (s *GRPCServer) Decode(ctx context.Context, enc *types.Encoded) (*types.Value, error) {
	v, err := s.srv.Decode(ctx, *enc)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v, nil
}

func (s *GRPCServer) State(ctx context.Context, _ *StateRequest) (*types.StateReport, error) {
	rep, err := s.srv.State(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rep, nil
}

func (s *GRPCServer) Rotate(ctx context.Context, req *RotateRequest) (*types.StateReport, error) {
	rep, err := s.srv.Rotate(ctx, req.State)
	if err != nil {
		if _, ok := superorganism.IsTransition(err); ok {
			// Unary calls carry no response next to an error status.
			_ = grpc.SetTrailer(ctx, reportTrailer(rep))
		}
		return nil, toStatus(err)
	}
	return &rep, nil
}
