// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/contractcore/system/dapp"
	"github.com/33cn/contractcore/types"
)

// RunSystemProcedure runs a lifecycle procedure on every contract in ascending
// index order. INITIALIZE only runs for contracts constructed in the current
// epoch, the others for every active contract. Missing handlers are no-ops.
func (e *Engine) RunSystemProcedure(env dapp.Env, id dapp.SystemProcedureID) error {
	if env == nil {
		return types.ErrNoEnv
	}
	if id >= dapp.SystemProcedureCount {
		return types.ErrUnknownEntryPoint
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	epoch := env.Epoch()
	for i := 1; i < len(e.modules); i++ {
		m := e.modules[i]
		ep := m.System[id]
		if !ep.Valid() || !m.Descriptor.IsActive(epoch) {
			continue
		}
		if id == dapp.Initialize && epoch != m.Descriptor.ConstructionEpoch {
			continue
		}
		ctx := &callContext{engine: e, env: env, index: m.Index, kind: dapp.KindProcedure}
		e.execute(ctx, ep, make([]byte, ep.InputSize), make([]byte, ep.OutputSize))
	}
	return nil
}

// InvokeSystemProcedure runs one contract's lifecycle procedure with explicit
// buffers, used for the share management and incoming transfer notifications
func (e *Engine) InvokeSystemProcedure(env dapp.Env, index uint32, id dapp.SystemProcedureID, originator types.ID, reward int64, input, output []byte) error {
	if env == nil {
		return types.ErrNoEnv
	}
	if id >= dapp.SystemProcedureCount {
		return types.ErrUnknownEntryPoint
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	ep, err := e.prepare(env, index, dapp.KindSystem, uint16(id), input, output)
	if err != nil {
		return err
	}
	ctx := &callContext{
		engine:     e,
		env:        env,
		index:      index,
		kind:       dapp.KindProcedure,
		invocator:  originator,
		originator: originator,
		reward:     reward,
	}
	e.execute(ctx, ep, input, output)
	return nil
}

// Expand runs the expand hook of a contract, a missing hook is a no-op
func (e *Engine) Expand(env dapp.Env, index uint32) error {
	if env == nil {
		return types.ErrNoEnv
	}
	if index == types.HostContractIndex || int(index) >= len(e.modules) {
		return types.ErrUnknownContract
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.modules[index]
	if m.ExpandHook == nil {
		return nil
	}
	if !m.Descriptor.IsActive(env.Epoch()) {
		return types.ErrContractNotActive
	}
	ctx := &callContext{engine: e, env: env, index: index, kind: dapp.KindProcedure}
	state := e.states[index]
	e.run(index, func() {
		m.ExpandHook(ctx, state)
	})
	return nil
}
