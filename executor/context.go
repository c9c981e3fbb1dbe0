// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/contractcore/system/dapp"
	"github.com/33cn/contractcore/types"
)

// callContext dapp.Context of one running entry point
type callContext struct {
	engine     *Engine
	env        dapp.Env
	index      uint32
	kind       dapp.Kind
	invocator  types.ID
	originator types.ID
	reward     int64
	depth      int
}

var _ dapp.Context = (*callContext)(nil)

func (c *callContext) ContractIndex() uint32 { return c.index }

func (c *callContext) ContractID() types.ID { return dapp.ContractID(c.index) }

func (c *callContext) Invocator() types.ID { return c.invocator }

func (c *callContext) Originator() types.ID { return c.originator }

func (c *callContext) InvocationReward() int64 { return c.reward }

func (c *callContext) Tick() uint32 { return c.env.Tick() }

func (c *callContext) Epoch() uint16 { return c.env.Epoch() }

func (c *callContext) Depth() int { return c.depth }

func (c *callContext) CallFunction(target uint32, id uint16, input, output []byte) error {
	return c.engine.nested(c, dapp.KindFunction, target, id, input, output, 0)
}

func (c *callContext) InvokeProcedure(target uint32, id uint16, input, output []byte, reward int64) error {
	return c.engine.nested(c, dapp.KindProcedure, target, id, input, output, reward)
}

func (c *callContext) Transfer(destination types.ID, amount int64) (int64, error) {
	if c.kind == dapp.KindFunction {
		return 0, types.ErrReadOnlyContext
	}
	return c.env.Transfer(c.ContractID(), destination, amount)
}
