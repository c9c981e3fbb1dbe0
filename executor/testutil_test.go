// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/contractcore/common/hashmap"
	"github.com/33cn/contractcore/metering"
	"github.com/33cn/contractcore/system/dapp"
	"github.com/33cn/contractcore/types"
)

type fakeClock struct {
	now uint64
}

func (c *fakeClock) Cycles() uint64 { return c.now }

type transfer struct {
	from, to types.ID
	amount   int64
}

type fakeEnv struct {
	tick      uint32
	epoch     uint16
	transfers []transfer
	err       error
}

func (e *fakeEnv) Tick() uint32  { return e.tick }
func (e *fakeEnv) Epoch() uint16 { return e.epoch }
func (e *fakeEnv) Transfer(from, to types.ID, amount int64) (int64, error) {
	if e.err != nil {
		return 0, e.err
	}
	e.transfers = append(e.transfers, transfer{from, to, amount})
	return 1000 - amount, nil
}

type amount struct {
	Value uint64
}

type nothing struct{}

// ledger: index 1
type ledgerState struct {
	Total       uint64
	Ticks       uint64
	Initialized bool
	LastCaller  types.ID
	Depth       int
	Balances    *hashmap.HashMap[types.ID, uint64]
	Expanded    int
}

type ledger struct {
	clk     *fakeClock
	epoch   uint16
	journal *[]string
}

func (c *ledger) Descriptor() dapp.Descriptor {
	return dapp.Descriptor{Name: "ledger", ConstructionEpoch: c.epoch, StateSize: 1 << 20}
}

func (c *ledger) NewState() interface{} {
	return &ledgerState{Balances: hashmap.New[types.ID, uint64](64)}
}

func (c *ledger) Register(r dapp.Registrar) {
	r.SystemProcedure(dapp.Initialize, dapp.NewEntryPoint(func(ctx dapp.Context, s *ledgerState, _ *nothing, _ *nothing, _ *nothing) {
		s.Initialized = true
		*c.journal = append(*c.journal, "ledger.init")
	}))
	r.SystemProcedure(dapp.BeginTick, dapp.NewEntryPoint(func(ctx dapp.Context, s *ledgerState, _ *nothing, _ *nothing, _ *nothing) {
		s.Ticks++
		*c.journal = append(*c.journal, "ledger.begintick")
	}))
	r.Procedure(1, dapp.NewEntryPoint(func(ctx dapp.Context, s *ledgerState, in *amount, out *amount, _ *[8]uint64) {
		c.clk.now += 100
		s.Total += in.Value
		s.LastCaller = ctx.Invocator()
		s.Depth = ctx.Depth()
		v, _ := s.Balances.Get(ctx.Originator())
		s.Balances.Set(ctx.Originator(), v+in.Value)
		out.Value = s.Total
	}))
	r.Function(1, dapp.NewEntryPoint(func(ctx dapp.Context, s *ledgerState, _ *nothing, out *amount, _ *nothing) {
		c.clk.now += 5
		out.Value = s.Total
	}))
	r.Expand(func(ctx dapp.Context, state interface{}) {
		s := state.(*ledgerState)
		s.Expanded++
		s.Balances.CleanupIfNeeded(30)
	})
}

// router: index 2, calls the ledger
type routerState struct {
	NestedErr error
	Result    uint64
	Ticks     uint64
}

type router struct {
	clk     *fakeClock
	journal *[]string
}

func (c *router) Descriptor() dapp.Descriptor {
	return dapp.Descriptor{Name: "router", StateSize: 1 << 10, Dependencies: []string{"ledger"}}
}

func (c *router) NewState() interface{} { return &routerState{} }

func (c *router) Register(r dapp.Registrar) {
	r.SystemProcedure(dapp.BeginTick, dapp.NewEntryPoint(func(ctx dapp.Context, s *routerState, _ *nothing, _ *nothing, _ *nothing) {
		s.Ticks++
		*c.journal = append(*c.journal, "router.begintick")
	}))
	// forwards to the ledger with a reward
	r.Procedure(1, dapp.NewEntryPoint(func(ctx dapp.Context, s *routerState, in *amount, out *amount, _ *nothing) {
		c.clk.now += 10
		buf := make([]byte, 8)
		s.NestedErr = ctx.InvokeProcedure(1, 1, dapp.Encode(in), buf, 7)
		if s.NestedErr == nil {
			var res amount
			_ = dapp.Decode(buf, &res)
			s.Result = res.Value
			out.Value = res.Value
		}
		c.clk.now += 10
	}))
	// calls upwards, must fail
	r.Procedure(2, dapp.NewEntryPoint(func(ctx dapp.Context, s *routerState, _ *nothing, _ *nothing, _ *nothing) {
		s.NestedErr = ctx.InvokeProcedure(3, 1, nil, nil, 0)
	}))
	// read only context may not invoke procedures
	r.Function(1, dapp.NewEntryPoint(func(ctx dapp.Context, s *routerState, in *amount, _ *nothing, _ *nothing) {
		s.NestedErr = ctx.InvokeProcedure(1, 1, dapp.Encode(in), make([]byte, 8), 0)
	}))
	r.Function(2, dapp.NewEntryPoint(func(ctx dapp.Context, s *routerState, _ *nothing, out *amount, _ *nothing) {
		_, s.NestedErr = ctx.Transfer(types.ID{1}, 1)
		buf := make([]byte, 8)
		if err := ctx.CallFunction(1, 1, nil, buf); err == nil {
			var res amount
			_ = dapp.Decode(buf, &res)
			out.Value = res.Value
		}
	}))
	// calls its own procedure 1 and its own function 2
	r.Procedure(4, dapp.NewEntryPoint(func(ctx dapp.Context, s *routerState, _ *nothing, _ *nothing, _ *nothing) {
		s.NestedErr = ctx.InvokeProcedure(2, 1, make([]byte, 8), make([]byte, 8), 0)
	}))
	r.Function(3, dapp.NewEntryPoint(func(ctx dapp.Context, s *routerState, _ *nothing, _ *nothing, _ *nothing) {
		s.NestedErr = ctx.CallFunction(2, 2, nil, make([]byte, 8))
	}))
	// wrong buffer sizes for the ledger
	r.Procedure(3, dapp.NewEntryPoint(func(ctx dapp.Context, s *routerState, _ *nothing, _ *nothing, _ *nothing) {
		s.NestedErr = ctx.InvokeProcedure(1, 1, make([]byte, 4), make([]byte, 8), 0)
	}))
}

// late: index 3, constructed at epoch 5 and destroyed at epoch 8
type lateState struct {
	Initialized int
	Ticks       int
}

type late struct {
	journal *[]string
}

func (c *late) Descriptor() dapp.Descriptor {
	return dapp.Descriptor{Name: "late", ConstructionEpoch: 5, DestructionEpoch: 8, StateSize: 64}
}

func (c *late) NewState() interface{} { return &lateState{} }

func (c *late) Register(r dapp.Registrar) {
	r.SystemProcedure(dapp.Initialize, dapp.NewEntryPoint(func(ctx dapp.Context, s *lateState, _ *nothing, _ *nothing, _ *nothing) {
		s.Initialized++
		*c.journal = append(*c.journal, "late.init")
	}))
	r.SystemProcedure(dapp.BeginTick, dapp.NewEntryPoint(func(ctx dapp.Context, s *lateState, _ *nothing, _ *nothing, _ *nothing) {
		s.Ticks++
		*c.journal = append(*c.journal, "late.begintick")
	}))
	r.Procedure(1, dapp.NewEntryPoint(func(ctx dapp.Context, s *lateState, _ *nothing, _ *nothing, _ *nothing) {}))
}

type fixture struct {
	engine  *Engine
	acc     *metering.Accumulator
	clk     *fakeClock
	env     *fakeEnv
	journal []string
}

func newFixture() *fixture {
	f := &fixture{clk: &fakeClock{}, env: &fakeEnv{tick: 100, epoch: 5}}
	reg := dapp.NewRegistry()
	reg.MustRegister(
		&ledger{clk: f.clk, epoch: 5, journal: &f.journal},
		&router{clk: f.clk, journal: &f.journal},
		&late{journal: &f.journal},
	)
	// frequency 0 keeps raw cycles
	f.acc = metering.NewAccumulator(reg.Count(), 0)
	f.engine = New(reg, f.acc, WithClock(f.clk))
	return f
}

func (f *fixture) ledger() *ledgerState { return f.engine.State(1).(*ledgerState) }
func (f *fixture) router() *routerState { return f.engine.State(2).(*routerState) }
func (f *fixture) late() *lateState     { return f.engine.State(3).(*lateState) }
