// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/33cn/contractcore/system/dapp"
	"github.com/33cn/contractcore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemProcedureOrder(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.engine.RunSystemProcedure(f.env, dapp.BeginTick))
	assert.Equal(t, []string{"ledger.begintick", "router.begintick", "late.begintick"}, f.journal)
}

func TestInitializeOnlyAtConstruction(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.engine.RunSystemProcedure(f.env, dapp.Initialize))
	assert.Equal(t, []string{"ledger.init", "late.init"}, f.journal)
	assert.True(t, f.ledger().Initialized)

	f.journal = nil
	f.env.epoch = 6
	require.NoError(t, f.engine.RunSystemProcedure(f.env, dapp.Initialize))
	assert.Empty(t, f.journal)
	assert.Equal(t, 1, f.late().Initialized)
}

func TestSystemProcedureSkipsInactive(t *testing.T) {
	f := newFixture()
	f.env.epoch = 8
	require.NoError(t, f.engine.RunSystemProcedure(f.env, dapp.BeginTick))
	assert.Equal(t, []string{"ledger.begintick", "router.begintick"}, f.journal)
	assert.Equal(t, 0, f.late().Ticks)

	// ledger is constructed at epoch 5, router at 0
	f.journal = nil
	f.env.epoch = 2
	require.NoError(t, f.engine.RunSystemProcedure(f.env, dapp.BeginTick))
	assert.Equal(t, []string{"router.begintick"}, f.journal)
}

func TestSystemProcedureMissingHandler(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.engine.RunSystemProcedure(f.env, dapp.EndEpoch))
	assert.Empty(t, f.journal)
	assert.Equal(t, types.ErrUnknownEntryPoint, f.engine.RunSystemProcedure(f.env, dapp.SystemProcedureCount))
	assert.Equal(t, types.ErrNoEnv, f.engine.RunSystemProcedure(nil, dapp.BeginTick))
}

func TestInvokeSystemProcedure(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.engine.InvokeSystemProcedure(f.env, 2, dapp.BeginTick, types.ID{}, 0, nil, nil))
	assert.Equal(t, uint64(1), f.router().Ticks)
	err := f.engine.InvokeSystemProcedure(f.env, 2, dapp.PostIncomingTransfer, types.ID{}, 0, nil, nil)
	assert.Equal(t, types.ErrUnknownEntryPoint, err)
	err = f.engine.InvokeSystemProcedure(f.env, 2, dapp.BeginTick, types.ID{}, 0, make([]byte, 1), nil)
	assert.Equal(t, types.ErrInputSizeMismatch, err)
}

func TestExpand(t *testing.T) {
	f := newFixture()
	s := f.ledger()
	for i := byte(0); i < 40; i++ {
		s.Balances.Set(types.ID{i}, uint64(i))
	}
	for i := byte(0); i < 30; i++ {
		s.Balances.RemoveByKey(types.ID{i})
	}
	require.NoError(t, f.engine.Expand(f.env, 1))
	assert.Equal(t, 1, s.Expanded)
	assert.Equal(t, uint64(0), s.Balances.RemovedCount())
	assert.Equal(t, uint64(10), s.Balances.Population())
	v, ok := s.Balances.Get(types.ID{35})
	assert.True(t, ok)
	assert.Equal(t, uint64(35), v)

	// router registers no hook
	assert.NoError(t, f.engine.Expand(f.env, 2))
	assert.Equal(t, types.ErrUnknownContract, f.engine.Expand(f.env, 0))
}
