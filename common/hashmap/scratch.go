// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hashmap

// Scratch provides the zeroed buffers a table is rebuilt into by Cleanup.
// The returned slices are only used for the duration of one Cleanup call.
type Scratch[K comparable, V any] interface {
	Buffers(capacity uint64) ([]Element[K, V], []uint64)
}

type heapScratch[K comparable, V any] struct{}

func (heapScratch[K, V]) Buffers(capacity uint64) ([]Element[K, V], []uint64) {
	return make([]Element[K, V], capacity), make([]uint64, flagWords(capacity))
}

// Scratchpad is a reusable Scratch sized once, when the owning table is created.
// It must not be shared by tables that clean up concurrently.
type Scratchpad[K comparable, V any] struct {
	elements []Element[K, V]
	flags    []uint64
}

// NewScratchpad reserves buffers for tables of the given capacity
func NewScratchpad[K comparable, V any](capacity uint64) *Scratchpad[K, V] {
	return &Scratchpad[K, V]{
		elements: make([]Element[K, V], capacity),
		flags:    make([]uint64, flagWords(capacity)),
	}
}

// Buffers returns the reserved buffers zeroed, growing them if needed
func (s *Scratchpad[K, V]) Buffers(capacity uint64) ([]Element[K, V], []uint64) {
	if uint64(len(s.elements)) < capacity {
		s.elements = make([]Element[K, V], capacity)
		s.flags = make([]uint64, flagWords(capacity))
		return s.elements, s.flags
	}
	elements := s.elements[:capacity]
	flags := s.flags[:flagWords(capacity)]
	clear(elements)
	clear(flags)
	return elements, flags
}
