// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feereport

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	clog "github.com/33cn/contractcore/common/log"
	"github.com/33cn/contractcore/metrics"
	"github.com/33cn/contractcore/snapshot"
	"github.com/33cn/contractcore/types"
	"github.com/pkg/errors"
)

var flog = clog.New("module", "feereport")

var (
	accepted = metrics.Counter(metrics.FeeReportAccepted)
	dropped  = metrics.Counter(metrics.FeeReportDropped)
)

const (
	// SnapshotName file name of the collector image
	SnapshotName = "execution_fee_report_collector.snp"
	// PhaseSnapshotName file name of the open phase and its data lock
	PhaseSnapshotName = "execution_fee_report_phase.snp"
)

const phaseImageSize = 4 + types.DataLockSize

// Collector per phase matrix of the fees reported by every computor
type Collector struct {
	mu            sync.Mutex
	contractCount int
	roster        []types.ID
	// fees[contract*len(roster)+computor]
	fees     []uint64
	reported []bool
	phase    uint32
	dataLock [types.DataLockSize]byte
	verifier Verifier
	deductor Deductor
	deduct   bool
}

// Option collector option
type Option func(*Collector)

// WithVerifier checks the signature of every report
func WithVerifier(v Verifier) Option {
	return func(c *Collector) {
		c.verifier = v
	}
}

// WithDeduction applies agreed fees to the contracts' reserves. Without it
// the fees are only emitted.
func WithDeduction(d Deductor) Option {
	return func(c *Collector) {
		c.deductor = d
		c.deduct = d != nil
	}
}

// NewCollector collector for contractCount contracts (host included) and the
// given computor roster
func NewCollector(contractCount int, roster []types.ID, opts ...Option) (*Collector, error) {
	if len(roster) == 0 {
		return nil, errors.Wrap(types.ErrComputorRoster, "empty roster")
	}
	if contractCount < 1 {
		return nil, errors.Wrapf(types.ErrUnknownContract, "contract count %d", contractCount)
	}
	c := &Collector{
		contractCount: contractCount,
		roster:        append([]types.ID(nil), roster...),
		fees:          make([]uint64, contractCount*len(roster)),
		reported:      make([]bool, len(roster)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ContractCount number of contracts including the host
func (c *Collector) ContractCount() int {
	return c.contractCount
}

// ComputorCount size of the roster
func (c *Collector) ComputorCount() int {
	return len(c.roster)
}

// BeginPhase opens the reports of phase; dataLock is the anti-replay value
// every report of the phase must carry
func (c *Collector) BeginPhase(phase uint32, dataLock [types.DataLockSize]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = phase
	c.dataLock = dataLock
}

// Phase open phase
func (c *Collector) Phase() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// DataLock anti-replay value of the open phase
func (c *Collector) DataLock() [types.DataLockSize]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dataLock
}

// Process validates a report transaction and stores its entries. Any failed
// check drops the whole report.
func (c *Collector) Process(tx *types.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	computor, report, err := c.check(tx)
	if err != nil {
		dropped.Inc(1)
		flog.Debug("report dropped", "source", tx.Source.Hex(), "tick", tx.Tick, "err", err)
		return err
	}
	n := len(c.roster)
	for _, e := range report.Entries {
		c.fees[int(e.ContractIndex)*n+computor] = e.Fee
	}
	c.reported[computor] = true
	accepted.Inc(1)
	flog.Debug("report accepted", "computor", computor, "phase", report.Phase, "entries", len(report.Entries))
	return nil
}

func (c *Collector) check(tx *types.Transaction) (int, *Report, error) {
	computor := int(tx.Tick % uint32(len(c.roster)))
	if c.roster[computor] != tx.Source {
		return 0, nil, types.ErrNotComputor
	}
	if tx.Amount != 0 {
		return 0, nil, types.ErrNonZeroAmount
	}
	if tx.InputType != types.ExecutionFeeReportInputType {
		return 0, nil, types.ErrWrongInputType
	}
	size := int(tx.InputSize)
	if size < MinInputSize(c.contractCount) || size > MaxInputSize(c.contractCount) || len(tx.Input) != size {
		return 0, nil, errors.Wrapf(types.ErrInputSize, "input of %d bytes", size)
	}
	if !bytes.Equal(tx.Input[size-types.DataLockSize:], c.dataLock[:]) {
		return 0, nil, types.ErrDataLock
	}
	if binary.LittleEndian.Uint32(tx.Input) != c.phase {
		return 0, nil, types.ErrPhaseMismatch
	}
	report, err := DecodeReport(tx.Input)
	if err != nil {
		return 0, nil, err
	}
	for _, e := range report.Entries {
		if e.ContractIndex == types.HostContractIndex || int(e.ContractIndex) >= c.contractCount || e.Fee == 0 {
			return 0, nil, errors.Wrapf(types.ErrInvalidEntry, "contract %d fee %d", e.ContractIndex, e.Fee)
		}
	}
	if c.reported[computor] {
		return 0, nil, types.ErrDuplicateReport
	}
	if c.verifier != nil && !c.verifier.Verify(tx) {
		return 0, nil, types.ErrBadSignature
	}
	return computor, report, nil
}

// Reported fee of a contract as reported by a computor
func (c *Collector) Reported(contractIndex uint32, computor int) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(contractIndex) >= c.contractCount || computor < 0 || computor >= len(c.roster) {
		return 0
	}
	return c.fees[int(contractIndex)*len(c.roster)+computor]
}

// Reporters number of computors with an accepted report
func (c *Collector) Reporters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return countTrue(c.reported)
}

// MarshalBinary raw [contractCount][computorCount]uint64 image
func (c *Collector) MarshalBinary() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, 8*len(c.fees))
	for i, v := range c.fees {
		binary.LittleEndian.PutUint64(buf[8*i:], v)
	}
	return buf, nil
}

// UnmarshalBinary restores the matrix; computors with a stored entry count as reported
func (c *Collector) UnmarshalBinary(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(data) != 8*len(c.fees) {
		return errors.Wrap(types.ErrSnapshotSize, fmt.Sprintf("collector image of %d bytes, want %d", len(data), 8*len(c.fees)))
	}
	n := len(c.roster)
	clear(c.reported)
	for i := range c.fees {
		c.fees[i] = binary.LittleEndian.Uint64(data[8*i:])
		if c.fees[i] != 0 {
			c.reported[i%n] = true
		}
	}
	return nil
}

func (c *Collector) marshalPhase() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, phaseImageSize)
	binary.LittleEndian.PutUint32(buf, c.phase)
	copy(buf[4:], c.dataLock[:])
	return buf
}

func (c *Collector) unmarshalPhase(data []byte) error {
	if len(data) != phaseImageSize {
		return errors.Wrap(types.ErrSnapshotSize, fmt.Sprintf("phase image of %d bytes, want %d", len(data), phaseImageSize))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = binary.LittleEndian.Uint32(data)
	copy(c.dataLock[:], data[4:])
	return nil
}

// Save writes the matrix image and the open phase to the store
func (c *Collector) Save(s snapshot.Store) error {
	data, _ := c.MarshalBinary()
	if err := s.Save(SnapshotName, data); err != nil {
		return errors.Wrap(err, "save collector")
	}
	return errors.Wrap(s.Save(PhaseSnapshotName, c.marshalPhase()), "save collector phase")
}

// Load restores the matrix image and the open phase from the store. A store
// without a phase image keeps phase 0 and a zero data lock.
func (c *Collector) Load(s snapshot.Store) error {
	data, err := s.Load(SnapshotName)
	if err != nil {
		return err
	}
	if err := c.UnmarshalBinary(data); err != nil {
		return errors.Wrap(err, "load collector")
	}
	data, err = s.Load(PhaseSnapshotName)
	if errors.Is(err, types.ErrSnapshotNotFound) {
		flog.Warn("no phase image", "name", PhaseSnapshotName)
		return nil
	}
	if err != nil {
		return err
	}
	return errors.Wrap(c.unmarshalPhase(data), "load collector phase")
}
