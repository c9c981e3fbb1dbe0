// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feereport

import (
	"testing"

	"github.com/33cn/contractcore/metrics"
	"github.com/33cn/contractcore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDeductor struct {
	charged map[uint32]uint64
}

func (d *recordingDeductor) Deduct(idx uint32, amount uint64) error {
	d.charged[idx] += amount
	return nil
}

func TestResolveTwoThirds(t *testing.T) {
	c, ids := newTestCollector(t, 3, types.NumberOfComputors)
	// contract 1: 451 computors report nothing, 225 report 1..225
	// contract 2: computor i reports i+1
	for i := 0; i < types.NumberOfComputors; i++ {
		entries := []Entry{{2, uint64(i + 1)}}
		if i >= 451 {
			entries = append(entries, Entry{1, uint64(i - 450)})
		}
		require.NoError(t, c.Process(reportTx(t, ids, i, 3, entries...)))
	}
	var got []Fee
	fees := c.Resolve(SinkFunc(func(f Fee) { got = append(got, f) }))
	// index 450 of 1..676
	assert.Equal(t, []Fee{{Phase: 3, ContractIndex: 2, Amount: 451}}, got)
	assert.Equal(t, got, fees)
	assert.Equal(t, int64(0), metrics.QuorumGauge(1).Value())
	assert.Equal(t, int64(451), metrics.QuorumGauge(2).Value())

	// matrix is reset
	assert.Equal(t, 0, c.Reporters())
	assert.Equal(t, uint64(0), c.Reported(2, 675))
	assert.Empty(t, c.Resolve(nil))
}

func TestResolveDeduction(t *testing.T) {
	d := &recordingDeductor{charged: map[uint32]uint64{}}
	c, ids := newTestCollector(t, 3, 3, WithDeduction(d))
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Process(reportTx(t, ids, i, 3, Entry{1, uint64(10 * (i + 1))})))
	}
	fees := c.Resolve(nil)
	// index 2 of {10, 20, 30}
	assert.Equal(t, []Fee{{Phase: 3, ContractIndex: 1, Amount: 30}}, fees)
	assert.Equal(t, map[uint32]uint64{1: 30}, d.charged)
}

func TestResolveSkipsZeroQuorum(t *testing.T) {
	c, ids := newTestCollector(t, 3, 4)
	require.NoError(t, c.Process(reportTx(t, ids, 0, 3, Entry{1, 10})))
	// index 2 of {0, 0, 0, 10}
	assert.Empty(t, c.Resolve(nil))
}
