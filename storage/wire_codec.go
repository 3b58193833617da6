package storage

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// wire layout, protobuf compatible:
//
//	message Table { repeated Entry entries = 1; }
//	message Entry {
//	  string key = 1;
//	  bytes value = 2;
//	  int64 expires_at = 3;
//	  int64 last_modified = 4;
//	}
const (
	tableEntriesField      protowire.Number = 1
	entryKeyField          protowire.Number = 1
	entryValueField        protowire.Number = 2
	entryExpiresAtField    protowire.Number = 3
	entryLastModifiedField protowire.Number = 4
)

// WireCodec encodes tables in protobuf wire format. Repeated entries keep insertion order.
type WireCodec[V any] struct {
	values ValueCodec[V]
}

// NewWireCodec uses values for the entry payload; nil means JSONValueCodec.
func NewWireCodec[V any](values ValueCodec[V]) WireCodec[V] {
	if values == nil {
		values = JSONValueCodec[V]{}
	}
	return WireCodec[V]{values: values}
}

func (c WireCodec[V]) valueCodec() ValueCodec[V] {
	if c.values == nil {
		return JSONValueCodec[V]{}
	}
	return c.values
}

func (c WireCodec[V]) Encode(table *Table[V]) ([]byte, error) {
	var out []byte
	if table == nil {
		return out, nil
	}
	values := c.valueCodec()
	for _, key := range table.keys {
		e := table.entries[key]
		valueBytes, err := values.EncodeValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("encode value %s: %w", key, err)
		}
		var msg []byte
		msg = protowire.AppendTag(msg, entryKeyField, protowire.BytesType)
		msg = protowire.AppendString(msg, key)
		msg = protowire.AppendTag(msg, entryValueField, protowire.BytesType)
		msg = protowire.AppendBytes(msg, valueBytes)
		if e.ExpiresAt != 0 {
			msg = protowire.AppendTag(msg, entryExpiresAtField, protowire.VarintType)
			msg = protowire.AppendVarint(msg, uint64(e.ExpiresAt))
		}
		if e.LastModified != 0 {
			msg = protowire.AppendTag(msg, entryLastModifiedField, protowire.VarintType)
			msg = protowire.AppendVarint(msg, uint64(e.LastModified))
		}
		out = protowire.AppendTag(out, tableEntriesField, protowire.BytesType)
		out = protowire.AppendBytes(out, msg)
	}
	return out, nil
}

func (c WireCodec[V]) Decode(data []byte) (*Table[V], error) {
	table := NewTable[V]()
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		if num != tableEntriesField || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
			continue
		}
		msg, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		key, e, err := c.decodeEntry(msg)
		if err != nil {
			return nil, err
		}
		table.Put(key, e)
	}
	return table, nil
}

func (c WireCodec[V]) decodeEntry(msg []byte) (key string, e Entry[V], err error) {
	var valueBytes []byte
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return key, e, protowire.ParseError(n)
		}
		msg = msg[n:]
		switch {
		case num == entryKeyField && typ == protowire.BytesType:
			key, n = protowire.ConsumeString(msg)
		case num == entryValueField && typ == protowire.BytesType:
			valueBytes, n = protowire.ConsumeBytes(msg)
		case num == entryExpiresAtField && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(msg)
			e.ExpiresAt = int64(v)
		case num == entryLastModifiedField && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(msg)
			e.LastModified = int64(v)
		default:
			n = protowire.ConsumeFieldValue(num, typ, msg)
		}
		if n < 0 {
			return key, e, protowire.ParseError(n)
		}
		msg = msg[n:]
	}
	if valueBytes != nil {
		e.Value, err = c.valueCodec().DecodeValue(valueBytes)
		if err != nil {
			return key, e, fmt.Errorf("decode value %s: %w", key, err)
		}
	}
	return key, e, nil
}
