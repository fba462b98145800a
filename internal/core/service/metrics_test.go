package service

import (
	"context"
	"testing"

	"boundary-cache-service/internal/eviction"
	"boundary-cache-service/internal/observability"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Re-uses the mocks from service_test.go. Prometheus globals are sticky, so
// the tests compare deltas rather than absolute values.

func TestMetrics_EvictEntity(t *testing.T) {
	mockStore := new(MockBufferStore)
	mockConsensus := new(MockConsensus)
	svc := New(mockStore, mockConsensus, hclog.NewNullLogger())
	ctx := context.Background()

	mockStore.On("EvictMatching", mock.Anything).Return(2, int64(100))

	opsCtr := observability.EvictionOperationsTotal.WithLabelValues("evict_entity", "success")
	evictedCtr := observability.BufferEvictionsTotal.WithLabelValues("proactive")

	initialOps := testutil.ToFloat64(opsCtr)
	initialEvicted := testutil.ToFloat64(evictedCtr)
	initialBytes := testutil.ToFloat64(observability.EvictedBytesTotal)

	req := eviction.NewBuilder().AddDB("sales").Build()
	_, err := svc.EvictEntity(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, initialOps+1, testutil.ToFloat64(opsCtr),
		"EvictionOperationsTotal(evict_entity, success) should increment")
	assert.Equal(t, initialEvicted+2, testutil.ToFloat64(evictedCtr),
		"BufferEvictionsTotal(proactive) should count evicted buffers")
	assert.Equal(t, initialBytes+100, testutil.ToFloat64(observability.EvictedBytesTotal),
		"EvictedBytesTotal should count released bytes")
}

func TestMetrics_EvictEntity_Invalid(t *testing.T) {
	mockStore := new(MockBufferStore)
	mockConsensus := new(MockConsensus)
	svc := New(mockStore, mockConsensus, hclog.NewNullLogger())
	ctx := context.Background()

	ctr := observability.EvictionOperationsTotal.WithLabelValues("evict_entity", "invalid")
	initial := testutil.ToFloat64(ctr)

	_, err := svc.EvictEntity(ctx, nil)
	require.Error(t, err)

	assert.Equal(t, initial+1, testutil.ToFloat64(ctr),
		"EvictionOperationsTotal(evict_entity, invalid) should increment")
}
