// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/33cn/contractcore/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfgstring = `
title = "test"

[log]
loglevel = "debug"
logConsoleLevel = "info"

[metering]
frequency = 2500000000
phaseLength = 100

[fee]
applyDeduction = true

[snapshot]
driver = "goleveldb"
dir = "datadir/snap"
`

func TestInitString(t *testing.T) {
	cfg, err := InitString(cfgstring)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Title)
	assert.Equal(t, "debug", cfg.Log.Loglevel)
	assert.Equal(t, uint64(2500000000), cfg.Metering.Frequency)
	assert.Equal(t, uint32(100), cfg.Metering.PhaseLength)
	assert.Equal(t, types.NumberOfComputors, cfg.Fee.ComputorCount)
	assert.True(t, cfg.Fee.ApplyDeduction)
	assert.Equal(t, "goleveldb", cfg.Snapshot.Driver)
	assert.False(t, cfg.Exec.RollbackOnTimeout)
	assert.NotNil(t, cfg.Metrics)
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfgstring), 0600))
	cfg, err := Init(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Title)

	_, err = Init(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestRollbackRejected(t *testing.T) {
	_, err := InitString("[exec]\nrollbackOnTimeout = true\n")
	assert.Equal(t, types.ErrRollbackUnsupported, errors.Cause(err))
}

func TestUnknownDriver(t *testing.T) {
	_, err := InitString("[snapshot]\ndriver = \"couchbase\"\n")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg, err := InitString("")
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Snapshot.Driver)
	assert.Equal(t, uint32(types.DefaultPhaseLength), cfg.Metering.PhaseLength)
	assert.Equal(t, types.DefaultFrequency, cfg.Metering.Frequency)
}

func TestSampleConfig(t *testing.T) {
	cfg, err := Init("../../contractcore.toml")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Title)
	assert.Equal(t, "logs/contractcore.log", cfg.Log.LogFile)
	assert.Equal(t, types.NumberOfComputors, cfg.Fee.ComputorCount)
	assert.False(t, cfg.Fee.ApplyDeduction)
	assert.Equal(t, "log", cfg.Metrics.DataEmitMode)
}
