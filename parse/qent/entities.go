package qent

import (
	"bytes"
	"iter"
)

type entityInfo struct {
	firstKV int
	kvCount int
}

type keyValueInfo struct {
	key   int
	value int
}

// Entities is the immutable result of a parse: entities in file order, each an
// ordered list of key-value pairs. It owns every byte it hands out; slices returned
// by its accessors must not be modified. Concurrent readers need no locking.
type Entities struct {
	entities  []entityInfo
	keyValues []keyValueInfo
	store     *chunkStore
}

func (e *Entities) Len() int {
	return len(e.entities)
}

// Entity returns the i-th entity, or an error wrapping ErrIndexOutOfRange.
func (e *Entities) Entity(i int) (Entity, error) {
	if i < 0 || i >= len(e.entities) {
		return Entity{}, indexErr(i, len(e.entities))
	}
	return e.At(i), nil
}

// At returns the i-th entity without validating i. The caller guarantees
// 0 <= i < Len(); anything else panics.
func (e *Entities) At(i int) Entity {
	return Entity{owner: e, info: e.entities[i]}
}

// All yields the entities in file order.
func (e *Entities) All() iter.Seq2[int, Entity] {
	return func(yield func(int, Entity) bool) {
		for i := range e.entities {
			if !yield(i, e.At(i)) {
				return
			}
		}
	}
}

// KeyValueCount is the total number of pairs across all entities.
func (e *Entities) KeyValueCount() int {
	return len(e.keyValues)
}

// Entity is a read-only view of one `{ ... }` block.
type Entity struct {
	owner *Entities
	info  entityInfo
}

func (en Entity) Len() int {
	return en.info.kvCount
}

// KeyValue returns the i-th pair, or an error wrapping ErrIndexOutOfRange.
func (en Entity) KeyValue(i int) (KeyValue, error) {
	if i < 0 || i >= en.info.kvCount {
		return KeyValue{}, indexErr(i, en.info.kvCount)
	}
	return en.At(i), nil
}

// At returns the i-th pair without validating i. The caller guarantees
// 0 <= i < Len(); an invalid index may panic or return a pair of another entity.
func (en Entity) At(i int) KeyValue {
	return KeyValue{owner: en.owner, info: en.owner.keyValues[en.info.firstKV+i]}
}

// All yields the pairs in file order.
func (en Entity) All() iter.Seq2[int, KeyValue] {
	return func(yield func(int, KeyValue) bool) {
		for i := 0; i < en.info.kvCount; i++ {
			if !yield(i, en.At(i)) {
				return
			}
		}
	}
}

// Lookup returns the value of the first pair whose key equals key.
func (en Entity) Lookup(key string) ([]byte, bool) {
	for _, kv := range en.All() {
		if string(kv.Key()) == key {
			return kv.Value(), true
		}
	}
	return nil, false
}

// KeyValue is a read-only view of one pair.
type KeyValue struct {
	owner *Entities
	info  keyValueInfo
}

func (kv KeyValue) Key() []byte {
	return kv.owner.store.get(kv.info.key)
}

func (kv KeyValue) Value() []byte {
	return kv.owner.store.get(kv.info.value)
}

// Equal reports whether kv holds exactly key and value.
func (kv KeyValue) Equal(key, value []byte) bool {
	return bytes.Equal(kv.Key(), key) && bytes.Equal(kv.Value(), value)
}
