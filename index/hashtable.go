// Package index provides an immutable open-addressing hash table that maps a
// fixed set of keys to dense integer ids.
package index

import (
	"github.com/YuminosukeSato/maxent/pkg/errors"
)

// ErrDuplicateKey is returned when the build set contains a key twice.
var ErrDuplicateKey = errors.New("index: duplicate key")

// HashFunc hashes a key. The table clears the sign bit before use.
type HashFunc[K comparable] func(K) int32

// HashTable maps each key of its build set to the key's position in that set.
// It is built once and never modified, so concurrent lookups are safe.
//
// Capacity is floor(n/loadFactor)+1 slots. Collisions are resolved by linear
// probing and lookups compare keys, so a key outside the build set always
// yields -1 even when it lands on an occupied slot.
type HashTable[K comparable] struct {
	keys   []K
	values []int
	used   []bool
	hash   HashFunc[K]
	size   int
}

// New builds a table mapping keys[i] to i.
func New[K comparable](keys []K, loadFactor float64, hash HashFunc[K]) (*HashTable[K], error) {
	if !(loadFactor > 0 && loadFactor <= 1) {
		return nil, errors.NewValidationError("loadFactor", "must be in (0, 1]", loadFactor)
	}
	if hash == nil {
		return nil, errors.NewValueError("index.New", "hash function is nil")
	}

	capacity := int(float64(len(keys))/loadFactor) + 1
	t := &HashTable[K]{
		keys:   make([]K, capacity),
		values: make([]int, capacity),
		used:   make([]bool, capacity),
		hash:   hash,
		size:   len(keys),
	}

	for i, key := range keys {
		slot := t.slot(key)
		for t.used[slot] {
			if t.keys[slot] == key {
				return nil, errors.Wrapf(ErrDuplicateKey, "key %v at positions %d and %d", key, t.values[slot], i)
			}
			slot = t.next(slot)
		}
		t.keys[slot] = key
		t.values[slot] = i
		t.used[slot] = true
	}
	return t, nil
}

// NewStrings builds a table over string keys using StringHash.
func NewStrings(keys []string, loadFactor float64) (*HashTable[string], error) {
	return New(keys, loadFactor, StringHash)
}

// Get returns the id of key, or -1 if key was not in the build set.
func (t *HashTable[K]) Get(key K) int {
	slot := t.slot(key)
	for t.used[slot] {
		if t.keys[slot] == key {
			return t.values[slot]
		}
		slot = t.next(slot)
	}
	return -1
}

// Size is the number of keys in the table.
func (t *HashTable[K]) Size() int {
	return t.size
}

// Keys returns the keys ordered by id.
func (t *HashTable[K]) Keys() []K {
	out := make([]K, t.size)
	for slot, ok := range t.used {
		if ok {
			out[t.values[slot]] = t.keys[slot]
		}
	}
	return out
}

func (t *HashTable[K]) slot(key K) int {
	return int(t.hash(key)&0x7fffffff) % len(t.keys)
}

func (t *HashTable[K]) next(slot int) int {
	slot++
	if slot == len(t.keys) {
		return 0
	}
	return slot
}

// StringHash is the 31-multiplier polynomial hash over UTF-16 code units with
// int32 wrap-around.
func StringHash(s string) int32 {
	var h int32
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			h = 31*h + int32(0xD800+(r>>10))
			h = 31*h + int32(0xDC00+(r&0x3FF))
			continue
		}
		h = 31*h + int32(r)
	}
	return h
}
