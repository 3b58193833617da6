package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is a stored value with its absolute expiry and last write instants, both in unix
// milliseconds. ExpiresAt 0 means the entry never expires.
type Entry[V any] struct {
	Value        V     `json:"v"`
	ExpiresAt    int64 `json:"t"`
	LastModified int64 `json:"n"`
}

// Table maps keys to entries and remembers the order keys were first inserted in.
type Table[V any] struct {
	keys    []string
	entries map[string]Entry[V]
}

func NewTable[V any]() *Table[V] {
	return &Table[V]{
		keys:    make([]string, 0),
		entries: make(map[string]Entry[V]),
	}
}

func (t *Table[V]) Len() int {
	return len(t.keys)
}

// Keys returns a copy of the keys in insertion order.
func (t *Table[V]) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

func (t *Table[V]) Get(key string) (Entry[V], bool) {
	e, ok := t.entries[key]
	return e, ok
}

func (t *Table[V]) Has(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// Put inserts or replaces the entry of key. A replaced key keeps its position.
func (t *Table[V]) Put(key string, e Entry[V]) {
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = e
}

func (t *Table[V]) Delete(key string) (Entry[V], bool) {
	e, ok := t.entries[key]
	if !ok {
		return e, false
	}
	delete(t.entries, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return e, true
}

// Range calls fn for every entry in insertion order until fn returns false.
func (t *Table[V]) Range(fn func(key string, e Entry[V]) bool) {
	for _, k := range t.Keys() {
		e, ok := t.entries[k]
		if !ok {
			continue
		}
		if !fn(k, e) {
			return
		}
	}
}

// Clone copies the table structure; values are copied shallowly.
func (t *Table[V]) Clone() *Table[V] {
	c := &Table[V]{
		keys:    t.Keys(),
		entries: make(map[string]Entry[V], len(t.entries)),
	}
	for k, e := range t.entries {
		c.entries[k] = e
	}
	return c
}

// MarshalJSON writes the table as a JSON object whose members follow insertion order.
func (t *Table[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		entryBytes, err := json.Marshal(t.entries[k])
		if err != nil {
			return nil, fmt.Errorf("encode entry %s: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(entryBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping member order as insertion order. null decodes
// to an empty table.
func (t *Table[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	fresh := NewTable[V]()
	if tok == nil {
		*t = *fresh
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("table: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("table: expected key, got %v", tok)
		}
		var e Entry[V]
		if err = dec.Decode(&e); err != nil {
			return fmt.Errorf("table: decode entry %s: %w", key, err)
		}
		fresh.Put(key, e)
	}
	if _, err = dec.Token(); err != nil {
		return err
	}
	*t = *fresh
	return nil
}
