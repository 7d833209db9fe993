package lisp

import (
	"fmt"
	"reflect"
)

// HashTable is a map-like container using the eq key test. Keys are kept in
// insertion order so printing is deterministic.
type HashTable struct {
	index map[any]int
	keys  []Value
	vals  []Value
}

// NewHashTable returns an empty table.
func NewHashTable() *HashTable {
	return &HashTable{index: make(map[any]int)}
}

// hashKey returns the map key for v. Values that cannot be compared with ==,
// such as vectors and functions, are unhashable.
func hashKey(v Value) (any, error) {
	if v == nil {
		return Nil, nil
	}
	if !reflect.TypeOf(v).Comparable() {
		return nil, fmt.Errorf("hash: unhashable key %s", Sprint(v))
	}
	return v, nil
}

// Get returns the value stored under k.
func (h *HashTable) Get(k Value) (Value, bool) {
	key, err := hashKey(k)
	if err != nil {
		return nil, false
	}
	i, ok := h.index[key]
	if !ok {
		return nil, false
	}
	return h.vals[i], true
}

// Put stores v under k.
func (h *HashTable) Put(k, v Value) error {
	key, err := hashKey(k)
	if err != nil {
		return err
	}
	if i, ok := h.index[key]; ok {
		h.vals[i] = v
		return nil
	}
	h.index[key] = len(h.keys)
	h.keys = append(h.keys, k)
	h.vals = append(h.vals, v)
	return nil
}

// Delete removes k and reports whether it was present.
func (h *HashTable) Delete(k Value) bool {
	key, err := hashKey(k)
	if err != nil {
		return false
	}
	i, ok := h.index[key]
	if !ok {
		return false
	}
	delete(h.index, key)
	h.keys = append(h.keys[:i], h.keys[i+1:]...)
	h.vals = append(h.vals[:i], h.vals[i+1:]...)
	for j := i; j < len(h.keys); j++ {
		kj, _ := hashKey(h.keys[j])
		h.index[kj] = j
	}
	return true
}

// Len returns the number of entries.
func (h *HashTable) Len() int {
	return len(h.keys)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (h *HashTable) Range(fn func(k, v Value) bool) {
	for i := range h.keys {
		if !fn(h.keys[i], h.vals[i]) {
			return
		}
	}
}
