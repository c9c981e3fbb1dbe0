// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hashmap fixed capacity open addressing containers for contract state.
//
// Slots are probed linearly from hash&(L-1). Removed slots become tombstones
// which never terminate a probe; Cleanup rebuilds the table without them.
// The layout only depends on the sequence of operations, so two nodes applying
// the same operations end up with identical tables. Tables are not safe for
// concurrent use.
//
// The capacity is chosen at run time, so tables are built with New or NewSet.
// A zero HashMap is an empty table of capacity 0 that rejects every Set.
package hashmap

import (
	"fmt"
	"math/bits"
)

// NullIndex returned when no slot matches
const NullIndex int64 = -1

// Element key/value pair stored in a slot
type Element[K comparable, V any] struct {
	Key   K
	Value V
}

// HashMap fixed capacity map, capacity must be a power of two
type HashMap[K comparable, V any] struct {
	elements           []Element[K, V]
	flags              []uint64
	population         uint64
	markRemovalCounter uint64

	hash    HashFunc[K]
	scratch Scratch[K, V]
}

// New map using DefaultHash and a heap allocated scratch
func New[K comparable, V any](capacity uint64) *HashMap[K, V] {
	return NewWith[K, V](capacity, nil, nil)
}

// NewWith map with a custom hash function and scratch provider, nil means default
func NewWith[K comparable, V any](capacity uint64, hash HashFunc[K], scratch Scratch[K, V]) *HashMap[K, V] {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("hashmap: capacity %d is not a power of two", capacity))
	}
	if hash == nil {
		hash = DefaultHash[K]
	}
	if scratch == nil {
		scratch = heapScratch[K, V]{}
	}
	return &HashMap[K, V]{
		elements: make([]Element[K, V], capacity),
		flags:    make([]uint64, flagWords(capacity)),
		hash:     hash,
		scratch:  scratch,
	}
}

// Capacity L
func (m *HashMap[K, V]) Capacity() uint64 {
	return uint64(len(m.elements))
}

// Population number of live elements
func (m *HashMap[K, V]) Population() uint64 {
	return m.population
}

// RemovedCount number of tombstones waiting for Cleanup
func (m *HashMap[K, V]) RemovedCount() uint64 {
	return m.markRemovalCounter
}

// Contains whether key is present
func (m *HashMap[K, V]) Contains(key K) bool {
	return m.ElementIndex(key) != NullIndex
}

// Get value of key
func (m *HashMap[K, V]) Get(key K) (value V, ok bool) {
	idx := m.ElementIndex(key)
	if idx == NullIndex {
		return value, false
	}
	return m.elements[idx].Value, true
}

// ElementIndex slot of key or NullIndex
func (m *HashMap[K, V]) ElementIndex(key K) int64 {
	capacity := m.Capacity()
	if capacity == 0 {
		return NullIndex
	}
	mask := capacity - 1
	idx := m.hash(key) & mask
	var flags uint64
	for counter := uint64(0); counter < capacity; counter++ {
		// 按字批量读取占用标记，跨字或回绕时重新加载
		if counter == 0 || idx&31 == 0 {
			flags = encodedFlags(m.flags, idx)
		}
		switch flags & 3 {
		case flagEmpty:
			return NullIndex
		case flagOccupied:
			if m.elements[idx].Key == key {
				return int64(idx)
			}
		}
		flags >>= 2
		idx = (idx + 1) & mask
	}
	return NullIndex
}

// Key of the slot, only meaningful for occupied slots. Out of range indices,
// NullIndex included, give the zero key.
func (m *HashMap[K, V]) Key(idx int64) (key K) {
	if idx < 0 || uint64(idx) >= m.Capacity() {
		return key
	}
	return m.elements[idx].Key
}

// Value of the slot, only meaningful for occupied slots. Out of range indices
// give the zero value.
func (m *HashMap[K, V]) Value(idx int64) (value V) {
	if idx < 0 || uint64(idx) >= m.Capacity() {
		return value
	}
	return m.elements[idx].Value
}

// IsEmptySlot reports whether the slot holds no live element
func (m *HashMap[K, V]) IsEmptySlot(idx int64) bool {
	if idx < 0 || uint64(idx) >= m.Capacity() {
		return true
	}
	return getFlag(m.flags, uint64(idx)) != flagOccupied
}

// Set inserts or overwrites key, returns the slot or NullIndex when the map is
// full and key is not present. A full map does not probe for tombstones.
func (m *HashMap[K, V]) Set(key K, value V) int64 {
	capacity := m.Capacity()
	if m.population == capacity {
		idx := m.ElementIndex(key)
		if idx != NullIndex {
			m.elements[idx].Value = value
		}
		return idx
	}

	mask := capacity - 1
	idx := m.hash(key) & mask
	reuse := NullIndex
	var flags uint64
	for counter := uint64(0); counter < capacity; counter++ {
		if counter == 0 || idx&31 == 0 {
			flags = encodedFlags(m.flags, idx)
		}
		switch flags & 3 {
		case flagEmpty:
			if reuse != NullIndex {
				// key 不存在，优先复用更靠近理想位置的墓碑
				return m.occupyRemoved(uint64(reuse), key, value)
			}
			setFlag(m.flags, idx, flagOccupied)
			m.elements[idx] = Element[K, V]{Key: key, Value: value}
			m.population++
			return int64(idx)
		case flagOccupied:
			if m.elements[idx].Key == key {
				m.elements[idx].Value = value
				return int64(idx)
			}
		case flagRemoved:
			if reuse == NullIndex {
				reuse = int64(idx)
			}
		}
		flags >>= 2
		idx = (idx + 1) & mask
	}
	if reuse != NullIndex {
		return m.occupyRemoved(uint64(reuse), key, value)
	}
	return NullIndex
}

func (m *HashMap[K, V]) occupyRemoved(idx uint64, key K, value V) int64 {
	setFlag(m.flags, idx, flagOccupied)
	m.elements[idx] = Element[K, V]{Key: key, Value: value}
	m.population++
	m.markRemovalCounter--
	return int64(idx)
}

// Replace overwrites the value of an existing key only
func (m *HashMap[K, V]) Replace(key K, value V) bool {
	idx := m.ElementIndex(key)
	if idx == NullIndex {
		return false
	}
	m.elements[idx].Value = value
	return true
}

// RemoveByIndex marks an occupied slot as removed and zeroes it
func (m *HashMap[K, V]) RemoveByIndex(idx int64) {
	if idx < 0 || uint64(idx) >= m.Capacity() {
		return
	}
	i := uint64(idx)
	if getFlag(m.flags, i) != flagOccupied {
		return
	}
	setFlag(m.flags, i, flagRemoved)
	m.population--
	m.markRemovalCounter++
	var zero Element[K, V]
	m.elements[i] = zero
}

// RemoveByKey removes key, returns its former slot or NullIndex
func (m *HashMap[K, V]) RemoveByKey(key K) int64 {
	idx := m.ElementIndex(key)
	if idx != NullIndex {
		m.RemoveByIndex(idx)
	}
	return idx
}

// NextElementIndex next occupied slot after idx, NullIndex at the end.
// Start the iteration with NullIndex.
func (m *HashMap[K, V]) NextElementIndex(idx int64) int64 {
	capacity := m.Capacity()
	if idx < NullIndex {
		idx = NullIndex
	}
	next := uint64(idx + 1)
	for next < capacity {
		occupied := encodedFlags(m.flags, next) & occupiedBits
		if occupied != 0 {
			found := next + uint64(bits.TrailingZeros64(occupied)>>1)
			if found < capacity {
				return int64(found)
			}
			return NullIndex
		}
		next = (next>>5 + 1) << 5
	}
	return NullIndex
}

// Reset empties the map
func (m *HashMap[K, V]) Reset() {
	clear(m.elements)
	clear(m.flags)
	m.population = 0
	m.markRemovalCounter = 0
}

// CleanupIfNeeded runs Cleanup once tombstones exceed removalThresholdPercent of L
func (m *HashMap[K, V]) CleanupIfNeeded(removalThresholdPercent uint64) {
	if m.markRemovalCounter > removalThresholdPercent*m.Capacity()/100 {
		m.Cleanup()
	}
}

// Cleanup rebuilds the table without tombstones. Live elements are reinserted
// at their ideal probe position in slot order; the scan stops as soon as all
// of them are placed.
func (m *HashMap[K, V]) Cleanup() {
	if m.markRemovalCounter == 0 {
		return
	}
	if m.population == 0 {
		m.Reset()
		return
	}

	capacity := m.Capacity()
	mask := capacity - 1
	elements, flags := m.scratch.Buffers(capacity)
	var placed uint64

	for w, word := range m.flags {
		occupied := word & occupiedBits
		for occupied != 0 {
			src := uint64(w)*flagsPerWord + uint64(bits.TrailingZeros64(occupied)>>1)
			occupied &= occupied - 1

			dst := m.hash(m.elements[src].Key) & mask
			counter := uint64(0)
			for ; counter < capacity; counter++ {
				if getFlag(flags, dst) == flagEmpty {
					break
				}
				dst = (dst + 1) & mask
			}
			if counter == capacity {
				// 同容量重建不可能找不到空位
				panic("hashmap: cleanup found no free slot for a live element")
			}
			setFlag(flags, dst, flagOccupied)
			elements[dst] = m.elements[src]

			placed++
			if placed == m.population {
				copy(m.elements, elements)
				copy(m.flags, flags)
				m.markRemovalCounter = 0
				return
			}
		}
	}
	panic(fmt.Sprintf("hashmap: cleanup placed %d of %d live elements", placed, m.population))
}
