package sogrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/sea212/Masterthesis-Superorganism/types"
)

const serviceName = "superorganism.v1.TypeService"

// TypeServiceServer is the server-side interface for the gRPC service.
type TypeServiceServer interface {
	Registry(context.Context, *RegistryRequest) (*types.RegistryDocument, error)
	Resolve(context.Context, *ResolveRequest) (*types.Resolution, error)
	Encode(context.Context, *types.Value) (*types.Encoded, error)
	Decode(context.Context, *types.Encoded) (*types.Value, error)
	State(context.Context, *StateRequest) (*types.StateReport, error)
	Rotate(context.Context, *RotateRequest) (*types.StateReport, error)
}

// RegisterTypeServiceServer registers srv on a gRPC server.
func RegisterTypeServiceServer(s *grpc.Server, srv TypeServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// --- Handler functions ---

func handlerRegistry(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(RegistryRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(TypeServiceServer).Registry(ctx, req)
}

func handlerResolve(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(ResolveRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(TypeServiceServer).Resolve(ctx, req)
}

func handlerEncode(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.Value)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(TypeServiceServer).Encode(ctx, req)
}

func handlerDecode(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.Encoded)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(TypeServiceServer).Decode(ctx, req)
}

func handlerState(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(StateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(TypeServiceServer).State(ctx, req)
}

func handlerRotate(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(RotateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(TypeServiceServer).Rotate(ctx, req)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TypeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Registry", Handler: handlerRegistry},
		{MethodName: "Resolve", Handler: handlerResolve},
		{MethodName: "Encode", Handler: handlerEncode},
		{MethodName: "Decode", Handler: handlerDecode},
		{MethodName: "State", Handler: handlerState},
		{MethodName: "Rotate", Handler: handlerRotate},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "superorganism/v1/service.cram",
}
