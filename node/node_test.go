// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import (
	"encoding/binary"
	"testing"

	"github.com/33cn/contractcore/executor"
	"github.com/33cn/contractcore/feereport"
	"github.com/33cn/contractcore/system/dapp"
	"github.com/33cn/contractcore/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now uint64 }

func (c *clock) Cycles() uint64 { return c.now }

type env struct {
	tick  uint32
	epoch uint16
	lock  [32]byte
}

func (e *env) Tick() uint32                                        { return e.tick }
func (e *env) Epoch() uint16                                       { return e.epoch }
func (e *env) DataLock() [32]byte                                  { return e.lock }
func (e *env) Transfer(_, _ types.ID, amount int64) (int64, error) { return 0, nil }

type counter struct {
	Ticks uint64
	Epoch uint64
	Sum   uint64
}

type worker struct {
	clk *clock
}

func (w *worker) Descriptor() dapp.Descriptor {
	return dapp.Descriptor{Name: "worker", StateSize: 24}
}

func (w *worker) NewState() interface{} { return &counter{} }

type none struct{}

type value struct{ V uint64 }

func (w *worker) Register(r dapp.Registrar) {
	r.SystemProcedure(dapp.BeginEpoch, dapp.NewEntryPoint(func(_ dapp.Context, s *counter, _ *none, _ *none, _ *none) {
		s.Epoch++
	}))
	r.SystemProcedure(dapp.EndTick, dapp.NewEntryPoint(func(_ dapp.Context, s *counter, _ *none, _ *none, _ *none) {
		s.Ticks++
	}))
	r.Procedure(1, dapp.NewEntryPoint(func(_ dapp.Context, s *counter, in *value, _ *none, _ *none) {
		w.clk.now += in.V
		s.Sum += in.V
	}))
}

type signers []*feereport.Ed25519Signer

func newSigners(n int) signers {
	s := make(signers, n)
	for i := range s {
		seed := make([]byte, 32)
		binary.LittleEndian.PutUint32(seed, uint32(i+1))
		s[i] = feereport.NewEd25519Signer(seed)
	}
	return s
}

func (s signers) roster() []types.ID {
	ids := make([]types.ID, len(s))
	for i, k := range s {
		ids[i] = k.ID()
	}
	return ids
}

func testConfig(t *testing.T, driver string) *types.Config {
	cfg := types.DefaultConfig()
	cfg.Metering.Frequency = 0
	cfg.Metering.PhaseLength = 4
	cfg.Fee.ComputorCount = 3
	cfg.Snapshot.Driver = driver
	cfg.Snapshot.Dir = t.TempDir()
	return cfg
}

func newTestNode(t *testing.T, cfg *types.Config, keys signers, self int, opts ...Option) (*Node, *clock) {
	clk := &clock{}
	reg := dapp.NewRegistry()
	reg.MustRegister(&worker{clk: clk})
	opts = append([]Option{WithClock(clk), WithSigner(keys[self]), WithVerifier(feereport.Ed25519Verifier{})}, opts...)
	n, err := New(cfg, reg, keys.roster(), opts...)
	require.NoError(t, err)
	return n, clk
}

func spend(t *testing.T, n *Node, e *env, v uint64) {
	require.NoError(t, n.Engine().Invoke(e, &executor.Call{
		Kind:       dapp.KindProcedure,
		Contract:   1,
		EntryPoint: 1,
		Input:      dapp.Encode(&value{V: v}),
	}))
}

func TestPhaseCycle(t *testing.T) {
	keys := newSigners(3)
	var fees []feereport.Fee
	n, _ := newTestNode(t, testConfig(t, "file"), keys, 0,
		WithSink(feereport.SinkFunc(func(f feereport.Fee) { fees = append(fees, f) })))
	defer n.Close()

	e := &env{lock: [32]byte{7}}
	require.NoError(t, n.BeginEpoch(e))
	assert.Equal(t, uint64(1), n.Engine().State(1).(*counter).Epoch)

	// phase 0: ticks 0..3
	for ; e.tick < 4; e.tick++ {
		require.NoError(t, n.BeginTick(e))
		spend(t, n, e, 10)
		require.NoError(t, n.EndTick(e))
	}
	assert.Equal(t, uint64(4), n.Engine().State(1).(*counter).Ticks)
	assert.Equal(t, []uint64{0, 40}, n.Accumulator().PrevPhaseTimes())
	assert.Equal(t, []uint64{0, 0}, n.Accumulator().ActiveTimes())
	assert.Equal(t, uint32(0), n.Collector().Phase())
	assert.Empty(t, fees)

	// every computor reports phase 0 during phase 1
	for i, k := range keys {
		tick := e.tick + uint32((i+3-int(e.tick%3))%3)
		tx, err := feereport.NewTransaction(k.ID(), tick, &feereport.Report{
			Phase:    0,
			Entries:  []feereport.Entry{{ContractIndex: 1, Fee: uint64(30 + 10*i)}},
			DataLock: e.lock,
		})
		require.NoError(t, err)
		k.Sign(tx)
		require.NoError(t, n.ProcessFeeReport(tx), "computor %d", i)
	}
	for ; e.tick < 8; e.tick++ {
		require.NoError(t, n.EndTick(e))
	}
	// index 2 of {30, 40, 50}
	assert.Equal(t, []feereport.Fee{{Phase: 0, ContractIndex: 1, Amount: 50}}, fees)
	assert.Equal(t, uint32(1), n.Collector().Phase())
	assert.Equal(t, 0, n.Collector().Reporters())
}

func TestOwnReport(t *testing.T) {
	keys := newSigners(3)
	n, _ := newTestNode(t, testConfig(t, "memdb"), keys, 1)
	defer n.Close()
	e := &env{lock: [32]byte{1}}

	tx, err := n.OwnReport(0)
	require.NoError(t, err)
	assert.Nil(t, tx)

	spend(t, n, e, 25)
	for ; e.tick < 4; e.tick++ {
		require.NoError(t, n.EndTick(e))
	}
	// slot of computor 1
	tx, err = n.OwnReport(4)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.True(t, feereport.Ed25519Verifier{}.Verify(tx))
	report, err := feereport.DecodeReport(tx.Input)
	require.NoError(t, err)
	assert.Equal(t, []feereport.Entry{{ContractIndex: 1, Fee: 25}}, report.Entries)
	assert.Equal(t, e.lock, report.DataLock)
	require.NoError(t, n.ProcessFeeReport(tx))
	assert.Equal(t, uint64(25), n.Collector().Reported(1, 1))
}

func TestRestoreSnapshots(t *testing.T) {
	keys := newSigners(3)
	cfg := testConfig(t, "goleveldb")
	n, _ := newTestNode(t, cfg, keys, 0)
	e := &env{}
	spend(t, n, e, 12)
	require.NoError(t, n.Close())

	m, _ := newTestNode(t, cfg, keys, 0)
	defer m.Close()
	assert.Equal(t, []uint64{0, 12}, m.Accumulator().ActiveTimes())
}

func TestRestartMidPhase(t *testing.T) {
	keys := newSigners(3)
	cfg := testConfig(t, "file")
	n, _ := newTestNode(t, cfg, keys, 2)
	e := &env{lock: [32]byte{7}}
	for ; e.tick < 5; e.tick++ {
		spend(t, n, e, 10)
		require.NoError(t, n.EndTick(e))
	}
	require.NoError(t, n.Close())

	m, _ := newTestNode(t, cfg, keys, 2)
	defer m.Close()
	assert.Equal(t, uint32(0), m.Collector().Phase())
	assert.Equal(t, e.lock, m.Collector().DataLock())

	tx, err := feereport.NewTransaction(keys[0].ID(), 6, &feereport.Report{
		Phase:    0,
		Entries:  []feereport.Entry{{ContractIndex: 1, Fee: 40}},
		DataLock: e.lock,
	})
	require.NoError(t, err)
	keys[0].Sign(tx)
	require.NoError(t, m.ProcessFeeReport(tx))

	own, err := m.OwnReport(8)
	require.NoError(t, err)
	require.NotNil(t, own)
	report, err := feereport.DecodeReport(own.Input)
	require.NoError(t, err)
	assert.Equal(t, e.lock, report.DataLock)
	assert.Equal(t, []feereport.Entry{{ContractIndex: 1, Fee: 40}}, report.Entries)
	require.NoError(t, m.ProcessFeeReport(own))
}

func TestNewRejects(t *testing.T) {
	keys := newSigners(3)
	registry := func() *dapp.Registry {
		reg := dapp.NewRegistry()
		reg.MustRegister(&worker{clk: &clock{}})
		return reg
	}

	cfg := testConfig(t, "file")
	cfg.Fee.ComputorCount = 4
	_, err := New(cfg, registry(), keys.roster())
	assert.True(t, errors.Is(err, types.ErrComputorRoster))

	cfg = testConfig(t, "file")
	cfg.Fee.ApplyDeduction = true
	_, err = New(cfg, registry(), keys.roster())
	assert.True(t, errors.Is(err, types.ErrNoDeductor))

	n, err := New(testConfig(t, "file"), registry(), keys.roster())
	require.NoError(t, err)
	defer n.Close()
	_, err = n.OwnReport(0)
	assert.Equal(t, types.ErrNoSigner, err)
}
