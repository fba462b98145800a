package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const EvictionService_EvictEntity_FullMethodName = "/boundarycache.v1.EvictionService/EvictEntity"

// EvictionServiceClient is the client API for the EvictionService.
type EvictionServiceClient interface {
	EvictEntity(ctx context.Context, in *EvictEntityRequest, opts ...grpc.CallOption) (*EvictEntityResponse, error)
}

type evictionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEvictionServiceClient(cc grpc.ClientConnInterface) EvictionServiceClient {
	return &evictionServiceClient{cc}
}

func (c *evictionServiceClient) EvictEntity(ctx context.Context, in *EvictEntityRequest, opts ...grpc.CallOption) (*EvictEntityResponse, error) {
	out := new(EvictEntityResponse)
	err := c.cc.Invoke(ctx, EvictionService_EvictEntity_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EvictionServiceServer is the server API for the EvictionService. Servers
// should embed UnimplementedEvictionServiceServer for forward compatibility.
type EvictionServiceServer interface {
	EvictEntity(context.Context, *EvictEntityRequest) (*EvictEntityResponse, error)
}

type UnimplementedEvictionServiceServer struct{}

func (UnimplementedEvictionServiceServer) EvictEntity(context.Context, *EvictEntityRequest) (*EvictEntityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvictEntity not implemented")
}

func RegisterEvictionServiceServer(s grpc.ServiceRegistrar, srv EvictionServiceServer) {
	s.RegisterService(&EvictionService_ServiceDesc, srv)
}

func _EvictionService_EvictEntity_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EvictEntityRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EvictionServiceServer).EvictEntity(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EvictionService_EvictEntity_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EvictionServiceServer).EvictEntity(ctx, req.(*EvictEntityRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// EvictionService_ServiceDesc is the grpc.ServiceDesc for the
// EvictionService.
var EvictionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "boundarycache.v1.EvictionService",
	HandlerType: (*EvictionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "EvictEntity",
			Handler:    _EvictionService_EvictEntity_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "proto/eviction.proto",
}
