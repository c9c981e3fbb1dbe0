// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor resolves and runs contract entry points.
//
// Contracts run one call at a time: a top level call runs to completion,
// including every nested call it makes, before the next one starts. A
// contract may only call contracts with a strictly lower index, so the call
// graph is acyclic.
package executor

import (
	"fmt"
	"sync"
	"time"

	clog "github.com/33cn/contractcore/common/log"
	"github.com/33cn/contractcore/metering"
	"github.com/33cn/contractcore/system/dapp"
	"github.com/33cn/contractcore/types"
)

var elog = clog.New("module", "execs")

// Engine dispatch tables of every registered contract plus their states
type Engine struct {
	mu      sync.Mutex
	modules []*dapp.Module
	states  []interface{}
	acc     *metering.Accumulator
	clock   metering.Clock
	timeout TimeoutPolicy

	// child cycles of the running frames, innermost last
	frames []uint64
}

// Option engine option
type Option func(*Engine)

// WithClock cycle source used to meter contracts
func WithClock(c metering.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithTimeout iteration duration policy
func WithTimeout(p TimeoutPolicy) Option {
	return func(e *Engine) {
		e.timeout = p
	}
}

// New builds the engine from a registry; the registry is frozen afterwards.
// The accumulator must be sized for the registry's contract count.
func New(reg *dapp.Registry, acc *metering.Accumulator, opts ...Option) *Engine {
	reg.Freeze()
	modules := reg.Modules()
	if acc.ContractCount() != len(modules) {
		panic(fmt.Sprintf("executor: accumulator sized for %d contracts, registry has %d", acc.ContractCount(), len(modules)))
	}
	e := &Engine{
		modules: modules,
		states:  make([]interface{}, len(modules)),
		acc:     acc,
		clock:   metering.NewMonotonicClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.timeout.Check(); err != nil {
		panic(err)
	}
	for i, m := range modules {
		if i == int(types.HostContractIndex) {
			continue
		}
		e.states[i] = m.Contract.NewState()
	}
	return e
}

// ContractCount number of contracts including the host
func (e *Engine) ContractCount() int {
	return len(e.modules)
}

// Descriptor static description of a contract
func (e *Engine) Descriptor(index uint32) (dapp.Descriptor, bool) {
	if int(index) >= len(e.modules) {
		return dapp.Descriptor{}, false
	}
	return e.modules[index].Descriptor, true
}

// Descriptors every descriptor, host first
func (e *Engine) Descriptors() []dapp.Descriptor {
	ds := make([]dapp.Descriptor, len(e.modules))
	for i, m := range e.modules {
		ds[i] = m.Descriptor
	}
	return ds
}

// State live state of a contract. Callers must not use it while a call runs.
func (e *Engine) State(index uint32) interface{} {
	if int(index) >= len(e.states) {
		return nil
	}
	return e.states[index]
}

// Lookup entry point of a contract, O(1)
func (e *Engine) Lookup(index uint32, kind dapp.Kind, id uint16) (dapp.EntryPoint, error) {
	if index == types.HostContractIndex || int(index) >= len(e.modules) {
		return dapp.EntryPoint{}, types.ErrUnknownContract
	}
	ep := e.modules[index].Lookup(kind, id)
	if !ep.Valid() {
		return dapp.EntryPoint{}, types.ErrUnknownEntryPoint
	}
	return ep, nil
}

// run executes fn as contract index and charges its exclusive cycles
func (e *Engine) run(index uint32, fn func()) {
	start := e.clock.Cycles()
	e.frames = append(e.frames, 0)
	defer func() {
		elapsed := e.clock.Cycles() - start
		n := len(e.frames) - 1
		child := e.frames[n]
		e.frames = e.frames[:n]
		if n > 0 {
			e.frames[n-1] += elapsed
		}
		exclusive := uint64(0)
		if elapsed > child {
			exclusive = elapsed - child
		}
		e.acc.AddTime(index, exclusive)
		e.timeout.observe(index, elapsed, e.acc.Frequency())
	}()
	fn()
}

// TimeoutPolicy maximum duration of one contract iteration. Aborting a
// contract needs a rollback of its state which does not exist, so an
// exceeded limit is only reported.
type TimeoutPolicy struct {
	MaxIterationDuration time.Duration
	Rollback             bool
}

// Check rejects policies the engine can not honour
func (p TimeoutPolicy) Check() error {
	if p.Rollback {
		return types.ErrRollbackUnsupported
	}
	return nil
}

func (p TimeoutPolicy) observe(index uint32, cycles, frequency uint64) {
	if p.MaxIterationDuration <= 0 || frequency == 0 {
		return
	}
	d := time.Duration(float64(cycles) / float64(frequency) * float64(time.Second))
	if d > p.MaxIterationDuration {
		elog.Warn("contract iteration exceeded the time limit", "contract", index, "duration", d,
			"limit", p.MaxIterationDuration)
		exceededTimeouts.Inc(1)
	}
}
