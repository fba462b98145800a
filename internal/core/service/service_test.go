package service

import (
	"context"
	"testing"

	"boundary-cache-service/internal/buffer"
	"boundary-cache-service/internal/eviction"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBufferStore is a mock implementation of ports.BufferStore.
type MockBufferStore struct {
	mock.Mock
}

func (m *MockBufferStore) EvictMatching(match func(buffer.Tag) bool) (int, int64) {
	args := m.Called(match)
	return args.Int(0), args.Get(1).(int64)
}

// MockConsensus is a mock implementation of ports.Consensus.
type MockConsensus struct {
	mock.Mock
}

func (m *MockConsensus) Apply(cmd []byte) error {
	args := m.Called(cmd)
	return args.Error(0)
}

func (m *MockConsensus) AddVoter(id, addr string) error {
	args := m.Called(id, addr)
	return args.Error(0)
}

func (m *MockConsensus) IsLeader() bool {
	args := m.Called()
	return args.Bool(0)
}

func TestServiceImpl_EvictEntity(t *testing.T) {
	mockStore := new(MockBufferStore)
	mockConsensus := new(MockConsensus)
	svc := New(mockStore, mockConsensus, hclog.NewNullLogger())

	ctx := context.Background()
	req := eviction.NewBuilder().AddTable("sales", "orders").Build()

	mockStore.On("EvictMatching", mock.Anything).Return(3, int64(4096))

	bytes, err := svc.EvictEntity(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, int64(4096), bytes)
	mockStore.AssertExpectations(t)
}

func TestServiceImpl_EvictEntity_Empty(t *testing.T) {
	mockStore := new(MockBufferStore)
	mockConsensus := new(MockConsensus)
	svc := New(mockStore, mockConsensus, hclog.NewNullLogger())

	ctx := context.Background()

	_, err := svc.EvictEntity(ctx, eviction.NewBuilder().Build())
	assert.ErrorIs(t, err, eviction.ErrNoEntities)

	_, err = svc.EvictEntity(ctx, nil)
	assert.ErrorIs(t, err, eviction.ErrNoEntities)

	mockStore.AssertNotCalled(t, "EvictMatching", mock.Anything)
}

func TestServiceImpl_Join(t *testing.T) {
	mockStore := new(MockBufferStore)
	mockConsensus := new(MockConsensus)
	svc := New(mockStore, mockConsensus, hclog.NewNullLogger())

	ctx := context.Background()
	mockConsensus.On("AddVoter", "node2", "10.0.0.2:11000").Return(nil)
	// The registry update is wrapped into a command; we only check that it
	// reaches consensus.
	mockConsensus.On("Apply", mock.Anything).Return(nil)

	err := svc.Join(ctx, "node2", "10.0.0.2:11000", "10.0.0.2:50051")
	assert.NoError(t, err)
	mockConsensus.AssertExpectations(t)
}

func TestServiceImpl_Join_AddVoterFails(t *testing.T) {
	mockStore := new(MockBufferStore)
	mockConsensus := new(MockConsensus)
	svc := New(mockStore, mockConsensus, hclog.NewNullLogger())

	ctx := context.Background()
	mockConsensus.On("AddVoter", "node2", "addr").Return(assert.AnError)

	err := svc.Join(ctx, "node2", "addr", "rpc")
	assert.Error(t, err)
	mockConsensus.AssertNotCalled(t, "Apply", mock.Anything)
}
