// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/contractcore/metrics"
	"github.com/33cn/contractcore/system/dapp"
	"github.com/33cn/contractcore/types"
)

var (
	invocations      = metrics.Counter(metrics.ExecInvocations)
	rejected         = metrics.Counter(metrics.ExecRejected)
	exceededTimeouts = metrics.Counter(metrics.ExecTimeouts)
)

// Call top level invocation of a user function or procedure
type Call struct {
	Kind       dapp.Kind
	Contract   uint32
	EntryPoint uint16
	// Input and Output must have exactly the declared sizes
	Input  []byte
	Output []byte
	// Originator source of the transaction or query
	Originator types.ID
	// Reward amount already transferred to the contract with the call
	Reward int64
}

// Invoke runs a top level call. A rejected call has no effect on any state.
func (e *Engine) Invoke(env dapp.Env, call *Call) error {
	if env == nil {
		return types.ErrNoEnv
	}
	if call.Kind != dapp.KindFunction && call.Kind != dapp.KindProcedure {
		return types.ErrUnknownCallKind
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx := &callContext{
		engine:     e,
		env:        env,
		index:      call.Contract,
		kind:       call.Kind,
		invocator:  call.Originator,
		originator: call.Originator,
		reward:     call.Reward,
	}
	ep, err := e.prepare(env, call.Contract, call.Kind, call.EntryPoint, call.Input, call.Output)
	if err != nil {
		return err
	}
	e.execute(ctx, ep, call.Input, call.Output)
	return nil
}

// prepare resolves the entry point and checks the buffers against the
// declared sizes; caller sizes are never trusted
func (e *Engine) prepare(env dapp.Env, index uint32, kind dapp.Kind, id uint16, input, output []byte) (dapp.EntryPoint, error) {
	ep, err := e.Lookup(index, kind, id)
	if err == nil && !e.modules[index].Descriptor.IsActive(env.Epoch()) {
		err = types.ErrContractNotActive
	}
	if err == nil && uint32(len(input)) != ep.InputSize {
		err = types.ErrInputSizeMismatch
	}
	if err == nil && uint32(len(output)) != ep.OutputSize {
		err = types.ErrOutputSizeMismatch
	}
	if err != nil {
		rejected.Inc(1)
		elog.Debug("dispatch rejected", "contract", index, "kind", kind, "id", id,
			"input", len(input), "output", len(output), "err", err)
		return dapp.EntryPoint{}, err
	}
	return ep, nil
}

func (e *Engine) execute(ctx *callContext, ep dapp.EntryPoint, input, output []byte) {
	invocations.Inc(1)
	clear(output)
	locals := make([]byte, ep.LocalsSize)
	state := e.states[ctx.index]
	e.run(ctx.index, func() {
		ep.Fn(ctx, state, input, output, locals)
	})
}

// nested call from a running contract
func (e *Engine) nested(parent *callContext, kind dapp.Kind, target uint32, id uint16, input, output []byte, reward int64) error {
	// 只能调用 index 更小的合约
	if target >= parent.index {
		rejected.Inc(1)
		elog.Debug("nested call rejected", "caller", parent.index, "target", target, "err", types.ErrCallOrder)
		return types.ErrCallOrder
	}
	if parent.kind != dapp.KindProcedure && kind == dapp.KindProcedure {
		rejected.Inc(1)
		return types.ErrReadOnlyContext
	}
	ep, err := e.prepare(parent.env, target, kind, id, input, output)
	if err != nil {
		return err
	}
	if reward > 0 {
		if _, err := parent.env.Transfer(dapp.ContractID(parent.index), dapp.ContractID(target), reward); err != nil {
			rejected.Inc(1)
			return err
		}
	}
	child := &callContext{
		engine:     e,
		env:        parent.env,
		index:      target,
		kind:       kind,
		invocator:  dapp.ContractID(parent.index),
		originator: parent.originator,
		reward:     reward,
		depth:      parent.depth + 1,
	}
	if child.depth > types.MaxNestedCallDepth {
		// TODO: decide whether exceeding MaxNestedCallDepth aborts the call chain
		elog.Warn("nested call depth above limit", "caller", parent.index, "target", target, "depth", child.depth)
	}
	e.execute(child, ep, input, output)
	return nil
}
