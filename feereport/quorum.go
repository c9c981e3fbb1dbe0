// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feereport

import (
	"math"

	"github.com/33cn/contractcore/common/percentile"
	"github.com/33cn/contractcore/metrics"
)

// Fee agreed execution fee of a contract for a phase
type Fee struct {
	Phase         uint32
	ContractIndex uint32
	Amount        uint64
}

// Sink receives the agreed fees in ascending contract order
type Sink interface {
	OnFee(fee Fee)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(fee Fee)

// OnFee calls f
func (f SinkFunc) OnFee(fee Fee) { f(fee) }

// Deductor charges an agreed fee to the contract's reserve
type Deductor interface {
	Deduct(contractIndex uint32, amount uint64) error
}

// Resolve computes the quorum fee of every contract, emits the non zero ones
// to sink and resets the matrix. Rows are sorted in place.
func (c *Collector) Resolve(sink Sink) []Fee {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.roster)
	var fees []Fee
	for i := 1; i < c.contractCount; i++ {
		row := c.fees[i*n : (i+1)*n]
		q := percentile.TwoThirds(row)
		if q > math.MaxInt64 {
			metrics.QuorumGauge(uint32(i)).Update(math.MaxInt64)
		} else {
			metrics.QuorumGauge(uint32(i)).Update(int64(q))
		}
		if q == 0 {
			continue
		}
		fee := Fee{Phase: c.phase, ContractIndex: uint32(i), Amount: q}
		fees = append(fees, fee)
		if sink != nil {
			sink.OnFee(fee)
		}
		if c.deduct {
			if err := c.deductor.Deduct(fee.ContractIndex, fee.Amount); err != nil {
				flog.Error("Resolve", "contract", fee.ContractIndex, "fee", fee.Amount, "err", err)
			}
		}
	}
	flog.Info("execution fee quorum", "phase", c.phase, "contracts", len(fees), "reporters", countTrue(c.reported))
	clear(c.fees)
	clear(c.reported)
	return fees
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
