// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package percentile quorum value selection over per computor reports.
//
// The selected index is computed with integer truncation, count*num/den. Every
// node must reproduce this arithmetic exactly, it is part of consensus.
package percentile

import "github.com/33cn/contractcore/types"

// Sort sorts a ascending in place (quicksort, last element as pivot)
func Sort(a []uint64) {
	quickSort(a, 0, len(a)-1)
}

func quickSort(a []uint64, lo, hi int) {
	for lo < hi {
		p := partition(a, lo, hi)
		// 先递归较短的一侧，栈深度保持 O(log n)
		if p-lo < hi-p {
			quickSort(a, lo, p-1)
			lo = p + 1
		} else {
			quickSort(a, p+1, hi)
			hi = p - 1
		}
	}
}

func partition(a []uint64, lo, hi int) int {
	pivot := a[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if a[j] < pivot {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}

// Index truncated index count*num/den
func Index(count, num, den int) int {
	return count * num / den
}

// Select sorts a in place and returns the element at Index(len(a), num, den).
// An empty slice selects 0.
func Select(a []uint64, num, den int) uint64 {
	if len(a) == 0 {
		return 0
	}
	Sort(a)
	idx := Index(len(a), num, den)
	if idx >= len(a) {
		idx = len(a) - 1
	}
	return a[idx]
}

// TwoThirds quorum value: ascending order, index floor(count*2/3)
func TwoThirds(a []uint64) uint64 {
	return Select(a, types.QuorumNumerator, types.QuorumDenominator)
}
