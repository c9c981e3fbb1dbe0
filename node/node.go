// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package node wires the contract engine, execution metering and the fee
// quorum into the tick and epoch lifecycle of a computor node
package node

import (
	"time"

	clog "github.com/33cn/contractcore/common/log"
	"github.com/33cn/contractcore/executor"
	"github.com/33cn/contractcore/feereport"
	"github.com/33cn/contractcore/metering"
	"github.com/33cn/contractcore/metrics"
	"github.com/33cn/contractcore/snapshot"
	"github.com/33cn/contractcore/system/dapp"
	"github.com/33cn/contractcore/types"
	"github.com/pkg/errors"
)

var nlog = clog.New("module", "node")

const verifyCacheSize = 10240

// Env host services of the running tick
type Env interface {
	dapp.Env
	// DataLock anti-replay value reports of the phase starting after this tick must carry
	DataLock() [types.DataLockSize]byte
}

// Node contract core of a computor node
type Node struct {
	cfg       *types.Config
	engine    *executor.Engine
	acc       *metering.Accumulator
	collector *feereport.Collector
	store     snapshot.Store

	clock    metering.Clock
	verifier feereport.Verifier
	signer   feereport.Signer
	deductor feereport.Deductor
	sink     feereport.Sink
}

// Option node option
type Option func(*Node)

// WithClock cycle source of the engine
func WithClock(c metering.Clock) Option {
	return func(n *Node) { n.clock = c }
}

// WithVerifier signature check of incoming fee reports
func WithVerifier(v feereport.Verifier) Option {
	return func(n *Node) { n.verifier = v }
}

// WithSigner key used for this node's own fee reports
func WithSigner(s feereport.Signer) Option {
	return func(n *Node) { n.signer = s }
}

// WithDeductor reserve deduction, used only when fee.applyDeduction is set
func WithDeductor(d feereport.Deductor) Option {
	return func(n *Node) { n.deductor = d }
}

// WithSink receiver of the agreed fees
func WithSink(s feereport.Sink) Option {
	return func(n *Node) { n.sink = s }
}

// New builds the node from cfg. Contracts must be registered in reg; roster
// lists the computors in slot order. Saved snapshots are restored.
func New(cfg *types.Config, reg *dapp.Registry, roster []types.ID, opts ...Option) (*Node, error) {
	types.FillDefault(cfg)
	clog.SetFileLog(cfg.Log)
	metrics.StartMetrics(cfg.Metrics)

	n := &Node{cfg: cfg}
	for _, opt := range opts {
		opt(n)
	}
	if len(roster) != cfg.Fee.ComputorCount {
		return nil, errors.Wrapf(types.ErrComputorRoster, "roster of %d, want %d", len(roster), cfg.Fee.ComputorCount)
	}
	if cfg.Exec.RollbackOnTimeout {
		return nil, errors.Wrap(types.ErrRollbackUnsupported, "exec.rollbackOnTimeout")
	}

	n.acc = metering.NewAccumulator(reg.Count(), cfg.Metering.Frequency)
	engineOpts := []executor.Option{
		executor.WithTimeout(executor.TimeoutPolicy{
			MaxIterationDuration: time.Duration(cfg.Exec.MaxIterationDurationMs) * time.Millisecond,
		}),
	}
	if n.clock != nil {
		engineOpts = append(engineOpts, executor.WithClock(n.clock))
	}
	n.engine = executor.New(reg, n.acc, engineOpts...)

	var collectorOpts []feereport.Option
	if n.verifier != nil {
		cached, err := feereport.NewCachedVerifier(n.verifier, verifyCacheSize)
		if err != nil {
			return nil, err
		}
		collectorOpts = append(collectorOpts, feereport.WithVerifier(cached))
	}
	if cfg.Fee.ApplyDeduction {
		if n.deductor == nil {
			return nil, errors.Wrap(types.ErrNoDeductor, "fee.applyDeduction")
		}
		collectorOpts = append(collectorOpts, feereport.WithDeduction(n.deductor))
	}
	collector, err := feereport.NewCollector(reg.Count(), roster, collectorOpts...)
	if err != nil {
		return nil, err
	}
	n.collector = collector

	n.store, err = snapshot.New(cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	if err := n.restore(); err != nil {
		n.store.Close()
		return nil, err
	}
	nlog.Info("node ready", "title", cfg.Title, "contracts", reg.Count(), "computors", len(roster),
		"phaseLength", cfg.Metering.PhaseLength, "snapshot", cfg.Snapshot.Driver)
	return n, nil
}

func (n *Node) restore() error {
	for _, s := range []interface{ Load(snapshot.Store) error }{n.acc, n.collector} {
		err := s.Load(n.store)
		if errors.Is(err, types.ErrSnapshotNotFound) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Engine contract engine
func (n *Node) Engine() *executor.Engine { return n.engine }

// Accumulator execution time accumulator
func (n *Node) Accumulator() *metering.Accumulator { return n.acc }

// Collector fee report collector
func (n *Node) Collector() *feereport.Collector { return n.collector }

// BeginEpoch initializes the contracts constructed in this epoch, then runs BEGIN_EPOCH
func (n *Node) BeginEpoch(env Env) error {
	if err := n.engine.RunSystemProcedure(env, dapp.Initialize); err != nil {
		return err
	}
	return n.engine.RunSystemProcedure(env, dapp.BeginEpoch)
}

// EndEpoch runs END_EPOCH
func (n *Node) EndEpoch(env Env) error {
	return n.engine.RunSystemProcedure(env, dapp.EndEpoch)
}

// BeginTick runs BEGIN_TICK
func (n *Node) BeginTick(env Env) error {
	return n.engine.RunSystemProcedure(env, dapp.BeginTick)
}

// EndTick runs END_TICK. On the last tick of a phase the quorum of the
// reports collected during the phase is resolved, the accumulator starts
// the next phase and both are saved.
func (n *Node) EndTick(env Env) error {
	if err := n.engine.RunSystemProcedure(env, dapp.EndTick); err != nil {
		return err
	}
	tick := env.Tick()
	if !metering.IsPhaseBoundary(tick, n.cfg.Metering.PhaseLength) {
		return nil
	}
	closed := metering.PhaseOf(tick, n.cfg.Metering.PhaseLength)
	fees := n.collector.Resolve(n.sink)
	n.acc.StartNewAccumulation()
	n.collector.BeginPhase(closed, env.DataLock())
	nlog.Info("phase closed", "tick", tick, "phase", closed, "fees", len(fees))
	return n.Save()
}

// ProcessFeeReport feeds a fee report transaction to the collector
func (n *Node) ProcessFeeReport(tx *types.Transaction) error {
	return n.collector.Process(tx)
}

// OwnReport signed report of this node for the last closed phase, nil when
// no contract was charged
func (n *Node) OwnReport(tick uint32) (*types.Transaction, error) {
	if n.signer == nil {
		return nil, types.ErrNoSigner
	}
	report := feereport.BuildReport(n.collector.Phase(), n.acc.PrevPhaseTimes(), n.collector.DataLock())
	if len(report.Entries) == 0 {
		return nil, nil
	}
	tx, err := feereport.NewTransaction(n.signer.ID(), tick, report)
	if err != nil {
		return nil, err
	}
	n.signer.Sign(tx)
	return tx, nil
}

// Save snapshots the accumulator and the collector
func (n *Node) Save() error {
	if err := n.acc.Save(n.store); err != nil {
		return err
	}
	return n.collector.Save(n.store)
}

// Close saves the snapshots and closes the store
func (n *Node) Close() error {
	err := n.Save()
	n.store.Close()
	return err
}
