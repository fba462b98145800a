package consensus

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"boundary-cache-service/internal/registry"

	"github.com/hashicorp/raft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSM_Apply(t *testing.T) {
	reg := registry.New()
	fsm := NewFSM(reg)

	cmdRegister := Command{
		Op:       RegisterOp,
		Instance: registry.Instance{ID: "node1", RPCAddr: "10.0.0.1:50051"},
	}
	data, _ := json.Marshal(cmdRegister)

	result := fsm.Apply(&raft.Log{Data: data})
	assert.Nil(t, result)

	inst, found := reg.Get("node1")
	require.True(t, found)
	assert.Equal(t, "10.0.0.1:50051", inst.RPCAddr)

	cmdDeregister := Command{
		Op: DeregisterOp,
		ID: "node1",
	}
	dataDereg, _ := json.Marshal(cmdDeregister)

	result = fsm.Apply(&raft.Log{Data: dataDereg})
	assert.Nil(t, result)

	_, found = reg.Get("node1")
	assert.False(t, found)
}

func TestFSM_ApplyRejectsGarbage(t *testing.T) {
	fsm := NewFSM(registry.New())

	result := fsm.Apply(&raft.Log{Data: []byte("{not json")})
	assert.Error(t, result.(error))

	bad, _ := json.Marshal(Command{Op: "RESIZE"})
	result = fsm.Apply(&raft.Log{Data: bad})
	assert.Error(t, result.(error))
}

func TestFSM_SnapshotRestore(t *testing.T) {
	reg := registry.New()
	reg.Register(registry.Instance{ID: "node1", RPCAddr: "10.0.0.1:50051"})
	fsm := NewFSM(reg)

	snap, err := fsm.Snapshot()
	require.NoError(t, err)

	sink := &memorySink{}
	require.NoError(t, snap.Persist(sink))
	snap.Release()

	restoredReg := registry.New()
	restored := NewFSM(restoredReg)
	require.NoError(t, restored.Restore(io.NopCloser(bytes.NewReader(sink.buf.Bytes()))))

	inst, found := restoredReg.Get("node1")
	require.True(t, found)
	assert.Equal(t, "10.0.0.1:50051", inst.RPCAddr)
}

// memorySink is an in-memory raft.SnapshotSink for tests.
type memorySink struct {
	buf      bytes.Buffer
	canceled bool
}

func (s *memorySink) Write(p []byte) (int, error) { return s.buf.Write(p) }
func (s *memorySink) Close() error                { return nil }
func (s *memorySink) ID() string                  { return "test" }
func (s *memorySink) Cancel() error               { s.canceled = true; return nil }
