// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "error", cfg.Log.Loglevel)
	assert.Equal(t, DefaultFrequency, cfg.Metering.Frequency)
	assert.Equal(t, uint32(DefaultPhaseLength), cfg.Metering.PhaseLength)
	assert.Equal(t, NumberOfComputors, cfg.Fee.ComputorCount)
	assert.False(t, cfg.Fee.ApplyDeduction)
	assert.Equal(t, "file", cfg.Snapshot.Driver)
	assert.NotNil(t, cfg.Exec)
	assert.NotNil(t, cfg.Metrics)
}

func TestFillDefaultKeepsValues(t *testing.T) {
	cfg := &Config{Metering: &Metering{Frequency: 0, PhaseLength: 10}, Fee: &Fee{ComputorCount: 5}}
	FillDefault(cfg)
	// an explicit section keeps frequency 0, costs stay in cycles
	assert.Equal(t, uint64(0), cfg.Metering.Frequency)
	assert.Equal(t, uint32(10), cfg.Metering.PhaseLength)
	assert.Equal(t, 5, cfg.Fee.ComputorCount)
}
