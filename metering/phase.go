// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metering

import "time"

// PhaseOf accounting phase the tick belongs to
func PhaseOf(tick, phaseLength uint32) uint32 {
	if phaseLength == 0 {
		return 0
	}
	return tick / phaseLength
}

// IsPhaseBoundary whether tick is the last tick of its phase
func IsPhaseBoundary(tick, phaseLength uint32) bool {
	return phaseLength != 0 && (tick+1)%phaseLength == 0
}

// Clock cycle counter used to measure contract execution
type Clock interface {
	Cycles() uint64
}

// MonotonicClock nanoseconds since creation, frequency types.DefaultFrequency
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock clock starting now
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Cycles nanoseconds elapsed
func (c *MonotonicClock) Cycles() uint64 {
	return uint64(time.Since(c.start))
}
