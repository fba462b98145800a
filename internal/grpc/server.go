package grpc

import (
	"context"

	"boundary-cache-service/internal/core/ports"
	"boundary-cache-service/internal/eviction"
	pb "boundary-cache-service/proto"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Adapter implements the EvictionServiceServer interface on top of the
// service layer.
type Adapter struct {
	pb.UnimplementedEvictionServiceServer
	service ports.EvictionService
}

// New creates a new gRPC adapter.
func New(service ports.EvictionService) *Adapter {
	return &Adapter{service: service}
}

// EvictEntity drops the local buffers matching the request.
func (s *Adapter) EvictEntity(ctx context.Context, req *pb.EvictEntityRequest) (*pb.EvictEntityResponse, error) {
	evReq := eviction.NewBuilder().FromProto(req).Build()

	bytes, err := s.service.EvictEntity(ctx, evReq)
	if err != nil {
		if err == eviction.ErrNoEntities {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &pb.EvictEntityResponse{EvictedBytes: bytes}, nil
}
