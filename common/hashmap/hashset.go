// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hashmap

// HashSet fixed capacity set sharing HashMap's probing, tombstones and cleanup
type HashSet[K comparable] struct {
	m *HashMap[K, struct{}]
}

// NewSet set using DefaultHash
func NewSet[K comparable](capacity uint64) *HashSet[K] {
	return NewSetWith[K](capacity, nil, nil)
}

// NewSetWith set with a custom hash function and scratch provider
func NewSetWith[K comparable](capacity uint64, hash HashFunc[K], scratch Scratch[K, struct{}]) *HashSet[K] {
	return &HashSet[K]{m: NewWith[K, struct{}](capacity, hash, scratch)}
}

// Capacity L
func (s *HashSet[K]) Capacity() uint64 { return s.m.Capacity() }

// Population number of keys
func (s *HashSet[K]) Population() uint64 { return s.m.Population() }

// RemovedCount number of tombstones
func (s *HashSet[K]) RemovedCount() uint64 { return s.m.RemovedCount() }

// Contains whether key is present
func (s *HashSet[K]) Contains(key K) bool { return s.m.Contains(key) }

// ElementIndex slot of key or NullIndex
func (s *HashSet[K]) ElementIndex(key K) int64 { return s.m.ElementIndex(key) }

// Key of an occupied slot
func (s *HashSet[K]) Key(idx int64) K { return s.m.Key(idx) }

// IsEmptySlot reports whether the slot holds no key
func (s *HashSet[K]) IsEmptySlot(idx int64) bool { return s.m.IsEmptySlot(idx) }

// Add inserts key, returns its slot or NullIndex when the set is full
func (s *HashSet[K]) Add(key K) int64 { return s.m.Set(key, struct{}{}) }

// RemoveByIndex removes the key stored at idx
func (s *HashSet[K]) RemoveByIndex(idx int64) { s.m.RemoveByIndex(idx) }

// RemoveByKey removes key, returns its former slot or NullIndex
func (s *HashSet[K]) RemoveByKey(key K) int64 { return s.m.RemoveByKey(key) }

// NextElementIndex next occupied slot after idx
func (s *HashSet[K]) NextElementIndex(idx int64) int64 { return s.m.NextElementIndex(idx) }

// Reset empties the set
func (s *HashSet[K]) Reset() { s.m.Reset() }

// Cleanup rebuilds the set without tombstones
func (s *HashSet[K]) Cleanup() { s.m.Cleanup() }

// CleanupIfNeeded cleans up once tombstones exceed removalThresholdPercent of L
func (s *HashSet[K]) CleanupIfNeeded(removalThresholdPercent uint64) {
	s.m.CleanupIfNeeded(removalThresholdPercent)
}
