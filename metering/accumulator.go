// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metering accumulates contract execution time per accounting phase
package metering

import (
	"encoding/binary"
	"math"
	"math/bits"
	"sync"

	clog "github.com/33cn/contractcore/common/log"
	"github.com/33cn/contractcore/snapshot"
	"github.com/33cn/contractcore/types"
	emath "github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
)

var mlog = clog.New("module", "execs.metering")

// SnapshotName name of the accumulator image in a snapshot.Store
const SnapshotName = "contract_exec_time.snp"

// Accumulator double buffered execution time per contract. One buffer collects
// the running phase, the other keeps the totals of the phase before.
type Accumulator struct {
	mu        sync.Mutex
	times     [2][]uint64
	active    int
	frequency uint64
}

// NewAccumulator for contractCount contracts (host included). frequency is the
// cycle counter frequency, 0 keeps raw cycles.
func NewAccumulator(contractCount int, frequency uint64) *Accumulator {
	a := &Accumulator{frequency: frequency}
	a.times[0] = make([]uint64, contractCount)
	a.times[1] = make([]uint64, contractCount)
	return a
}

// ContractCount size of each buffer
func (a *Accumulator) ContractCount() int {
	return len(a.times[0])
}

// Frequency cycles per second used for conversion
func (a *Accumulator) Frequency() uint64 {
	return a.frequency
}

// Init zero both buffers
func (a *Accumulator) Init() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.times[0])
	clear(a.times[1])
	a.active = 0
}

// StartNewAccumulation flips the buffers and zeroes the new active one
func (a *Accumulator) StartNewAccumulation() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active ^= 1
	clear(a.times[a.active])
}

// AddTime charges cycles to contractIndex, saturating at MaxUint64
func (a *Accumulator) AddTime(contractIndex uint32, cycles uint64) {
	if int(contractIndex) >= a.ContractCount() {
		mlog.Error("AddTime", "contract", contractIndex, "err", types.ErrUnknownContract)
		return
	}
	t := a.convert(cycles)
	a.mu.Lock()
	defer a.mu.Unlock()
	sum, overflow := emath.SafeAdd(a.times[a.active][contractIndex], t)
	if overflow {
		sum = math.MaxUint64
	}
	a.times[a.active][contractIndex] = sum
}

// convert cycles to microseconds
func (a *Accumulator) convert(cycles uint64) uint64 {
	if a.frequency == 0 {
		return cycles
	}
	hi, lo := bits.Mul64(cycles, types.MicrosecondsPerSecond)
	if hi >= a.frequency {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, a.frequency)
	return q
}

// PrevPhaseTimes copy of the closed phase totals
func (a *Accumulator) PrevPhaseTimes() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint64(nil), a.times[a.active^1]...)
}

// ActiveTimes copy of the running phase totals
func (a *Accumulator) ActiveTimes() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint64(nil), a.times[a.active]...)
}

// MarshalBinary raw image: both buffers little endian, then the active index
func (a *Accumulator) MarshalBinary() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := a.ContractCount()
	buf := make([]byte, 16*n+1)
	for b := 0; b < 2; b++ {
		for i, v := range a.times[b] {
			binary.LittleEndian.PutUint64(buf[(b*n+i)*8:], v)
		}
	}
	buf[16*n] = byte(a.active)
	return buf, nil
}

// UnmarshalBinary loads an image produced for the same contract count
func (a *Accumulator) UnmarshalBinary(data []byte) error {
	n := a.ContractCount()
	if len(data) != 16*n+1 || data[16*n] > 1 {
		return types.ErrSnapshotSize
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for b := 0; b < 2; b++ {
		for i := range a.times[b] {
			a.times[b][i] = binary.LittleEndian.Uint64(data[(b*n+i)*8:])
		}
	}
	a.active = int(data[16*n])
	return nil
}

// Save writes the image to the store
func (a *Accumulator) Save(s snapshot.Store) error {
	data, _ := a.MarshalBinary()
	return errors.Wrap(s.Save(SnapshotName, data), "save accumulator")
}

// Load restores the image from the store
func (a *Accumulator) Load(s snapshot.Store) error {
	data, err := s.Load(SnapshotName)
	if err != nil {
		return err
	}
	return errors.Wrap(a.UnmarshalBinary(data), "load accumulator")
}
