package service

import (
	"context"
	"encoding/json"
	"fmt"

	"boundary-cache-service/internal/consensus"
	"boundary-cache-service/internal/core/ports"
	"boundary-cache-service/internal/eviction"
	"boundary-cache-service/internal/observability"
	"boundary-cache-service/internal/registry"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
)

// ensure implementation
var _ ports.EvictionService = (*ServiceImpl)(nil)

// ServiceImpl is the daemon-side eviction service: it applies evict-entity
// requests to the local buffer store and runs cluster joins through
// consensus.
type ServiceImpl struct {
	buffers   ports.BufferStore
	consensus ports.Consensus
	log       hclog.Logger
}

func New(buffers ports.BufferStore, consensus ports.Consensus, log hclog.Logger) *ServiceImpl {
	return &ServiceImpl{
		buffers:   buffers,
		consensus: consensus,
		log:       log,
	}
}

// EvictEntity drops every local buffer matching req and returns the bytes
// released. Requests naming no entities are caller errors.
func (s *ServiceImpl) EvictEntity(ctx context.Context, req *eviction.Request) (int64, error) {
	if req == nil || req.IsEmpty() {
		observability.EvictionOperationsTotal.WithLabelValues("evict_entity", "invalid").Inc()
		return 0, eviction.ErrNoEntities
	}

	timer := prometheus.NewTimer(observability.EvictionDurationSeconds.WithLabelValues("evict_entity"))
	defer timer.ObserveDuration()

	count, bytes := s.buffers.EvictMatching(req.Matches)

	observability.BufferEvictionsTotal.WithLabelValues("proactive").Add(float64(count))
	observability.EvictedBytesTotal.Add(float64(bytes))
	observability.EvictionOperationsTotal.WithLabelValues("evict_entity", "success").Inc()

	s.log.Info("evicted buffers", "count", count, "bytes", bytes)
	return bytes, nil
}

// Join adds the node as a raft voter and publishes it in the replicated
// instance registry.
func (s *ServiceImpl) Join(ctx context.Context, nodeID, raftAddr, rpcAddr string) error {
	if err := s.consensus.AddVoter(nodeID, raftAddr); err != nil {
		return fmt.Errorf("add voter: %w", err)
	}

	cmd := consensus.Command{
		Op:       consensus.RegisterOp,
		Instance: registry.Instance{ID: nodeID, RPCAddr: rpcAddr},
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	if err := s.consensus.Apply(data); err != nil {
		return fmt.Errorf("register instance: %w", err)
	}

	s.log.Info("node joined", "node_id", nodeID, "raft_addr", raftAddr, "rpc_addr", rpcAddr)
	return nil
}
