// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package percentile

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	cases := [][]uint64{
		nil,
		{1},
		{2, 1},
		{5, 5, 5, 5},
		{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		{0, 1, 2, 3, 4, 5},
		{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5},
	}
	for _, c := range cases {
		want := append([]uint64(nil), c...)
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
		Sort(c)
		if len(want) == 0 {
			assert.Empty(t, c)
			continue
		}
		assert.Equal(t, want, c)
	}
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 450, Index(676, 2, 3))
	assert.Equal(t, 0, Index(1, 2, 3))
	assert.Equal(t, 1, Index(2, 2, 3))
	assert.Equal(t, 2, Index(3, 2, 3))
	assert.Equal(t, 3, Index(5, 2, 3))
}

func TestTwoThirdsOf676(t *testing.T) {
	row := make([]uint64, 676)
	for i := 0; i < 225; i++ {
		row[451+i] = uint64(i + 1)
	}
	assert.Equal(t, uint64(0), TwoThirds(append([]uint64(nil), row...)))

	// one zero less: index 450 now holds the first non zero value
	row[0] = 1000
	assert.Equal(t, uint64(1), TwoThirds(append([]uint64(nil), row...)))
}

func TestSelectIsPermutationInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	base := make([]uint64, 676)
	for i := range base {
		base[i] = uint64(rnd.Intn(1000))
	}
	want := TwoThirds(append([]uint64(nil), base...))
	for i := 0; i < 20; i++ {
		perm := append([]uint64(nil), base...)
		rnd.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		assert.Equal(t, want, TwoThirds(perm))
	}
}

func TestSelectSmall(t *testing.T) {
	assert.Equal(t, uint64(0), TwoThirds(nil))
	assert.Equal(t, uint64(7), TwoThirds([]uint64{7}))
	assert.Equal(t, uint64(30), TwoThirds([]uint64{30, 10, 20}))
	assert.Equal(t, uint64(9), Select([]uint64{9, 1}, 3, 2))
}
