package storage

import (
	"encoding/json"
)

// Codec turns a Table into bytes for a Backend and back.
type Codec[V any] interface {
	Encode(table *Table[V]) ([]byte, error)
	Decode(data []byte) (*Table[V], error)
}

// JSONCodec writes a table as a JSON object of {"v","t","n"} entries keyed in insertion order.
type JSONCodec[V any] struct{}

func (JSONCodec[V]) Encode(table *Table[V]) ([]byte, error) {
	if table == nil {
		table = NewTable[V]()
	}
	return json.Marshal(table)
}

func (JSONCodec[V]) Decode(data []byte) (*Table[V], error) {
	table := NewTable[V]()
	if err := json.Unmarshal(data, table); err != nil {
		return nil, err
	}
	return table, nil
}

// CodecFuncs lets callers hook encoding and decoding with plain functions. A nil hook falls
// back to JSONCodec.
type CodecFuncs[V any] struct {
	EncodeFunc func(table *Table[V]) ([]byte, error)
	DecodeFunc func(data []byte) (*Table[V], error)
}

func (c CodecFuncs[V]) Encode(table *Table[V]) ([]byte, error) {
	if c.EncodeFunc == nil {
		return JSONCodec[V]{}.Encode(table)
	}
	return c.EncodeFunc(table)
}

func (c CodecFuncs[V]) Decode(data []byte) (*Table[V], error) {
	if c.DecodeFunc == nil {
		return JSONCodec[V]{}.Decode(data)
	}
	return c.DecodeFunc(data)
}

// ValueCodec encodes a single value; used by codecs that frame entries themselves.
type ValueCodec[V any] interface {
	EncodeValue(value V) ([]byte, error)
	DecodeValue(data []byte) (V, error)
}

type JSONValueCodec[V any] struct{}

func (JSONValueCodec[V]) EncodeValue(value V) ([]byte, error) {
	return json.Marshal(value)
}

func (JSONValueCodec[V]) DecodeValue(data []byte) (value V, err error) {
	err = json.Unmarshal(data, &value)
	return
}

// StringValueCodec stores strings as raw bytes.
type StringValueCodec struct{}

func (StringValueCodec) EncodeValue(value string) ([]byte, error) {
	return []byte(value), nil
}

func (StringValueCodec) DecodeValue(data []byte) (string, error) {
	return string(data), nil
}
