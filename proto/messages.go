// Package proto carries the wire types of the EvictionService RPC, kept in
// sync with eviction.proto by hand. Messages marshal to the standard protobuf
// wire format through protowire; the grpc Codec in this package is forced on
// both ends of the connection, so no descriptor registration is needed.
package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// TableSpec names one table and optionally a flattened set of its partitions.
type TableSpec struct {
	TableName string
	PartKey   []string
	PartVal   []string
}

// EvictEntityRequest asks a daemon to drop buffers belonging to one database
// and, optionally, specific tables or partitions of it.
type EvictEntityRequest struct {
	DbName string
	Table  []*TableSpec
}

// EvictEntityResponse reports the number of bytes released.
type EvictEntityResponse struct {
	EvictedBytes int64
}

func (m *TableSpec) Marshal() ([]byte, error) {
	var b []byte
	if m.TableName != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.TableName)
	}
	for _, k := range m.PartKey {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, k)
	}
	for _, v := range m.PartVal {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b, nil
}

func (m *TableSpec) Unmarshal(data []byte) error {
	*m = TableSpec{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.TableName = v
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.PartKey = append(m.PartKey, v)
			data = data[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.PartVal = append(m.PartVal, v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}

func (m *EvictEntityRequest) Marshal() ([]byte, error) {
	var b []byte
	if m.DbName != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.DbName)
	}
	for _, t := range m.Table {
		tb, err := t.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, tb)
	}
	return b, nil
}

func (m *EvictEntityRequest) Unmarshal(data []byte) error {
	*m = EvictEntityRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.DbName = v
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			t := new(TableSpec)
			if err := t.Unmarshal(v); err != nil {
				return fmt.Errorf("table spec: %w", err)
			}
			m.Table = append(m.Table, t)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}

func (m *EvictEntityResponse) Marshal() ([]byte, error) {
	var b []byte
	if m.EvictedBytes != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.EvictedBytes))
	}
	return b, nil
}

func (m *EvictEntityResponse) Unmarshal(data []byte) error {
	*m = EvictEntityResponse{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.EvictedBytes = int64(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}
