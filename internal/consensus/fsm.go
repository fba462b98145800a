package consensus

import (
	"encoding/json"
	"fmt"
	"io"

	"boundary-cache-service/internal/registry"

	"github.com/hashicorp/raft"
)

// CommandType discriminates the membership commands going through the log.
type CommandType string

const (
	RegisterOp   CommandType = "REGISTER"
	DeregisterOp CommandType = "DEREGISTER"
)

// Command is the JSON payload of one raft log entry.
type Command struct {
	Op       CommandType       `json:"op"`
	Instance registry.Instance `json:"instance,omitempty"`
	ID       string            `json:"id,omitempty"`
}

// FSM implements raft.FSM. Committed log entries mutate the instance
// registry; snapshots capture and restore the whole membership.
type FSM struct {
	registry *registry.Store
}

// NewFSM creates an FSM backed by the provided registry.
func NewFSM(r *registry.Store) *FSM {
	return &FSM{registry: r}
}

// Apply applies a committed log entry to the registry. Invoked by raft once
// consensus is reached.
func (f *FSM) Apply(log *raft.Log) interface{} {
	var c Command
	if err := json.Unmarshal(log.Data, &c); err != nil {
		return fmt.Errorf("failed to unmarshal command: %w", err)
	}

	switch c.Op {
	case RegisterOp:
		f.registry.Register(c.Instance)
	case DeregisterOp:
		f.registry.Deregister(c.ID)
	default:
		return fmt.Errorf("unknown command op: %s", c.Op)
	}
	return nil
}

// Snapshot returns a snapshot of the current membership.
func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	return &Snapshot{registry: f.registry}, nil
}

// Restore replaces the membership from a snapshot.
func (f *FSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()
	return f.registry.Restore(rc)
}

// Snapshot persists the registry membership into a raft snapshot sink.
type Snapshot struct {
	registry *registry.Store
}

func (s *Snapshot) Persist(sink raft.SnapshotSink) error {
	if err := s.registry.Snapshot(sink); err != nil {
		_ = sink.Cancel()
		return err
	}
	return sink.Close()
}

func (s *Snapshot) Release() {}
