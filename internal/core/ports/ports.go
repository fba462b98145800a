package ports

import (
	"context"

	"boundary-cache-service/internal/buffer"
	"boundary-cache-service/internal/eviction"
)

// EvictionService maps incoming requests to business logic.
type EvictionService interface {
	// EvictEntity drops every buffer matching the request and returns the
	// number of bytes released.
	EvictEntity(ctx context.Context, req *eviction.Request) (int64, error)
	// Join adds a daemon to the cluster: raft membership plus the replicated
	// instance registry.
	Join(ctx context.Context, nodeID, raftAddr, rpcAddr string) error
}

// BufferStore is the slice of the buffer cache the service needs.
type BufferStore interface {
	EvictMatching(match func(buffer.Tag) bool) (count int, bytes int64)
}

// Consensus defines the interface for distributed agreement.
type Consensus interface {
	Apply(cmd []byte) error
	AddVoter(id, addr string) error
	IsLeader() bool
}
