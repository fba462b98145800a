// Package eviction implements proactive cache eviction: a coordinator asks
// every daemon holding buffers for a database entity (whole db, table, or
// single partition) to drop them. Delivery is asynchronous and best effort;
// a daemon that cannot be reached simply keeps its buffers until they age
// out.
package eviction

import (
	"sort"
	"strings"

	"boundary-cache-service/internal/buffer"
	pb "boundary-cache-service/proto"
)

// Request holds the entities to evict as a db -> table -> partition-spec
// tree. A db with no tables means the whole db; a table with no partition
// specs means the whole table. Names are lowercased on entry.
type Request struct {
	entities map[string]map[string][]map[string]string
}

// IsEmpty reports whether no entities are set.
func (r *Request) IsEmpty() bool {
	return len(r.entities) == 0
}

// SingleDBName returns the db name when the request spans exactly one
// database. Requests built from a single DDL statement usually do.
func (r *Request) SingleDBName() (string, bool) {
	if len(r.entities) != 1 {
		return "", false
	}
	for db := range r.entities {
		return db, true
	}
	return "", false
}

// SinglePartition reports whether the request names exactly one partition of
// one table, and returns it. Such requests can be targeted at the owning
// instance instead of broadcast.
func (r *Request) SinglePartition() (db, table string, spec map[string]string, ok bool) {
	if len(r.entities) != 1 {
		return "", "", nil, false
	}
	for d, tables := range r.entities {
		if len(tables) != 1 {
			return "", "", nil, false
		}
		for t, specs := range tables {
			if len(specs) != 1 {
				return "", "", nil, false
			}
			return d, t, specs[0], true
		}
	}
	return "", "", nil, false
}

// Matches reports whether a buffer with the given tag falls under this
// request. Matching is hierarchical: a db-only entity covers every buffer of
// the db, a table entity every buffer of the table, and a partition entity
// requires the buffer's partition spec to carry all requested column values.
func (r *Request) Matches(tag buffer.Tag) bool {
	tables, ok := r.entities[strings.ToLower(tag.DB)]
	if !ok {
		return false
	}
	if len(tables) == 0 {
		return true
	}
	specs, ok := tables[strings.ToLower(tag.Table)]
	if !ok {
		return false
	}
	if len(specs) == 0 {
		return true
	}
	for _, spec := range specs {
		if partitionMatches(spec, tag.Partition) {
			return true
		}
	}
	return false
}

func partitionMatches(spec, partition map[string]string) bool {
	if len(partition) == 0 {
		return false
	}
	for col, val := range spec {
		if partition[col] != val {
			return false
		}
	}
	return true
}

// ToProto translates the request into wire messages, one per database. The
// partition specs of a table are flattened into a part_key/part_val pair of
// lists; the set of partition columns is fixed per table, so the columns of
// the first spec apply to all.
func (r *Request) ToProto() []*pb.EvictEntityRequest {
	reqs := make([]*pb.EvictEntityRequest, 0, len(r.entities))
	for _, db := range sortedKeys(r.entities) {
		req := &pb.EvictEntityRequest{DbName: db}
		tables := r.entities[db]
		for _, table := range sortedKeys(tables) {
			spec := &pb.TableSpec{TableName: table}
			partitions := tables[table]
			if len(partitions) > 0 {
				cols := sortedKeys(partitions[0])
				spec.PartKey = cols
				for _, p := range partitions {
					for _, col := range cols {
						spec.PartVal = append(spec.PartVal, p[col])
					}
				}
			}
			req.Table = append(req.Table, spec)
		}
		reqs = append(reqs, req)
	}
	return reqs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Builder accumulates entities and builds a Request.
type Builder struct {
	entities map[string]map[string][]map[string]string
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entities: make(map[string]map[string][]map[string]string)}
}

// AddDB requests eviction of a whole database.
func (b *Builder) AddDB(db string) *Builder {
	b.ensureDB(strings.ToLower(db))
	return b
}

// AddTable requests eviction of a whole table.
func (b *Builder) AddTable(db, table string) *Builder {
	b.ensureTable(strings.ToLower(db), strings.ToLower(table))
	return b
}

// AddPartition requests eviction of one partition, identified by its column
// value spec.
func (b *Builder) AddPartition(db, table string, spec map[string]string) *Builder {
	db, table = strings.ToLower(db), strings.ToLower(table)
	b.ensureTable(db, table)
	normalized := make(map[string]string, len(spec))
	for col, val := range spec {
		normalized[strings.ToLower(col)] = val
	}
	b.entities[db][table] = append(b.entities[db][table], normalized)
	return b
}

// FromProto merges one wire message into the builder, inverting the
// flattening done by ToProto.
func (b *Builder) FromProto(req *pb.EvictEntityRequest) *Builder {
	if req.DbName == "" {
		return b
	}
	db := strings.ToLower(req.DbName)
	b.ensureDB(db)

	for _, t := range req.Table {
		table := strings.ToLower(t.TableName)
		b.ensureTable(db, table)
		if len(t.PartKey) == 0 || len(t.PartVal) == 0 {
			continue
		}
		spec := make(map[string]string, len(t.PartKey))
		for valIx, val := range t.PartVal {
			keyIx := valIx % len(t.PartKey)
			spec[strings.ToLower(t.PartKey[keyIx])] = val
			if keyIx == len(t.PartKey)-1 {
				b.entities[db][table] = append(b.entities[db][table], spec)
				spec = make(map[string]string, len(t.PartKey))
			}
		}
	}
	return b
}

// Build returns the accumulated Request.
func (b *Builder) Build() *Request {
	return &Request{entities: b.entities}
}

func (b *Builder) ensureDB(db string) {
	if _, ok := b.entities[db]; !ok {
		b.entities[db] = make(map[string][]map[string]string)
	}
}

func (b *Builder) ensureTable(db, table string) {
	b.ensureDB(db)
	if _, ok := b.entities[db][table]; !ok {
		b.entities[db][table] = nil
	}
}
