package eviction

import (
	"testing"

	"boundary-cache-service/internal/buffer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	req := NewBuilder().Build()
	assert.True(t, req.IsEmpty())

	req = NewBuilder().
		AddDB("Sales").
		AddTable("HR", "People").
		AddPartition("hr", "salaries", map[string]string{"DS": "2026-08-01"}).
		Build()

	assert.False(t, req.IsEmpty())
	_, ok := req.SingleDBName()
	assert.False(t, ok, "two databases are present")
}

func TestRequest_SingleDBName(t *testing.T) {
	req := NewBuilder().AddTable("Sales", "orders").Build()

	db, ok := req.SingleDBName()
	require.True(t, ok)
	assert.Equal(t, "sales", db, "names are lowercased")
}

func TestRequest_SinglePartition(t *testing.T) {
	req := NewBuilder().
		AddPartition("sales", "orders", map[string]string{"ds": "2026-08-01"}).
		Build()

	db, table, spec, ok := req.SinglePartition()
	require.True(t, ok)
	assert.Equal(t, "sales", db)
	assert.Equal(t, "orders", table)
	assert.Equal(t, map[string]string{"ds": "2026-08-01"}, spec)

	// Two partitions are no longer a single target.
	req = NewBuilder().
		AddPartition("sales", "orders", map[string]string{"ds": "2026-08-01"}).
		AddPartition("sales", "orders", map[string]string{"ds": "2026-08-02"}).
		Build()
	_, _, _, ok = req.SinglePartition()
	assert.False(t, ok)

	// A whole table is not a single partition either.
	req = NewBuilder().AddTable("sales", "orders").Build()
	_, _, _, ok = req.SinglePartition()
	assert.False(t, ok)
}

func TestRequest_Matches(t *testing.T) {
	dbWide := NewBuilder().AddDB("sales").Build()
	tableWide := NewBuilder().AddTable("sales", "orders").Build()
	partition := NewBuilder().
		AddPartition("sales", "events", map[string]string{"ds": "2026-08-01", "region": "eu"}).
		Build()

	orders := buffer.Tag{DB: "sales", Table: "orders"}
	eventsEU := buffer.Tag{
		DB: "sales", Table: "events",
		Partition: map[string]string{"ds": "2026-08-01", "region": "eu"},
	}
	eventsUS := buffer.Tag{
		DB: "sales", Table: "events",
		Partition: map[string]string{"ds": "2026-08-01", "region": "us"},
	}
	hr := buffer.Tag{DB: "hr", Table: "people"}

	// db-wide covers every buffer of the db.
	assert.True(t, dbWide.Matches(orders))
	assert.True(t, dbWide.Matches(eventsEU))
	assert.False(t, dbWide.Matches(hr))

	// table-wide covers the table only.
	assert.True(t, tableWide.Matches(orders))
	assert.False(t, tableWide.Matches(eventsEU))

	// partition entities require all requested column values to match.
	assert.True(t, partition.Matches(eventsEU))
	assert.False(t, partition.Matches(eventsUS))
	assert.False(t, partition.Matches(orders), "unpartitioned buffers never match a partition entity")
}

func TestRequest_ProtoRoundtrip(t *testing.T) {
	req := NewBuilder().
		AddTable("sales", "orders").
		AddPartition("sales", "events", map[string]string{"ds": "2026-08-01", "region": "eu"}).
		AddPartition("sales", "events", map[string]string{"ds": "2026-08-02", "region": "us"}).
		Build()

	protoReqs := req.ToProto()
	require.Len(t, protoReqs, 1, "one wire message per database")
	assert.Equal(t, "sales", protoReqs[0].DbName)
	require.Len(t, protoReqs[0].Table, 2)

	rebuilt := NewBuilder().FromProto(protoReqs[0]).Build()

	// The rebuilt request matches exactly what the original matched.
	tags := []buffer.Tag{
		{DB: "sales", Table: "orders"},
		{DB: "sales", Table: "events", Partition: map[string]string{"ds": "2026-08-01", "region": "eu"}},
		{DB: "sales", Table: "events", Partition: map[string]string{"ds": "2026-08-02", "region": "us"}},
		{DB: "sales", Table: "events", Partition: map[string]string{"ds": "2026-08-03", "region": "eu"}},
		{DB: "hr", Table: "people"},
	}
	for _, tag := range tags {
		assert.Equal(t, req.Matches(tag), rebuilt.Matches(tag), "tag %+v", tag)
	}
}

func TestRequest_ToProtoMultiDB(t *testing.T) {
	req := NewBuilder().AddDB("b_db").AddDB("a_db").Build()

	protoReqs := req.ToProto()
	require.Len(t, protoReqs, 2)
	// Deterministic, sorted output.
	assert.Equal(t, "a_db", protoReqs[0].DbName)
	assert.Equal(t, "b_db", protoReqs[1].DbName)
}
