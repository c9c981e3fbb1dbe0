// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feereport execution fee reports of the computors and the 2/3
// quorum over them
package feereport

import (
	"encoding/binary"

	"github.com/33cn/contractcore/types"
	"github.com/pkg/errors"
)

// Entry measured fee of one contract
type Entry struct {
	ContractIndex uint32
	Fee           uint64
}

// Report payload of an execution fee report transaction.
//
// Layout (little endian):
//
//	phase:u32 numEntries:u32 contractIndices:u32[n] pad:u32 if n is odd fees:u64[n] dataLock[32]
type Report struct {
	Phase    uint32
	Entries  []Entry
	DataLock [types.DataLockSize]byte
}

// payloadSize size of a report with n entries, the fee array is 8-byte aligned
func payloadSize(n int) int {
	return 8 + 4*n + 4*(n%2) + 8*n + types.DataLockSize
}

// MinInputSize smallest valid report, one entry
func MinInputSize(contractCount int) int {
	return 4 + 4 + 4 + 4 + 8 + types.DataLockSize
}

// MaxInputSize report carrying every contract except the host
func MaxInputSize(contractCount int) int {
	return payloadSize(contractCount - 1)
}

// Size encoded size
func (r *Report) Size() int {
	return payloadSize(len(r.Entries))
}

// Encode byte-exact encoding of the report
func (r *Report) Encode() []byte {
	n := len(r.Entries)
	buf := make([]byte, r.Size())
	binary.LittleEndian.PutUint32(buf[0:], r.Phase)
	binary.LittleEndian.PutUint32(buf[4:], uint32(n))
	off := 8
	for _, e := range r.Entries {
		binary.LittleEndian.PutUint32(buf[off:], e.ContractIndex)
		off += 4
	}
	off += 4 * (n % 2)
	for _, e := range r.Entries {
		binary.LittleEndian.PutUint64(buf[off:], e.Fee)
		off += 8
	}
	copy(buf[off:], r.DataLock[:])
	return buf
}

// DecodeReport parses a report; the declared entry count must match the
// payload length exactly
func DecodeReport(b []byte) (*Report, error) {
	if len(b) < payloadSize(0) {
		return nil, errors.Wrapf(types.ErrInputSize, "report of %d bytes", len(b))
	}
	r := &Report{Phase: binary.LittleEndian.Uint32(b[0:])}
	declared := binary.LittleEndian.Uint32(b[4:])
	if uint64(declared) > uint64(len(b)) {
		return nil, errors.Wrapf(types.ErrEntryAlignment, "%d entries in %d bytes", declared, len(b))
	}
	n := int(declared)
	if payloadSize(n) != len(b) {
		return nil, errors.Wrapf(types.ErrEntryAlignment, "%d entries in %d bytes", n, len(b))
	}
	r.Entries = make([]Entry, n)
	off := 8
	for i := range r.Entries {
		r.Entries[i].ContractIndex = binary.LittleEndian.Uint32(b[off:])
		off += 4
	}
	off += 4 * (n % 2)
	for i := range r.Entries {
		r.Entries[i].Fee = binary.LittleEndian.Uint64(b[off:])
		off += 8
	}
	copy(r.DataLock[:], b[off:])
	return r, nil
}

// BuildReport report of the closed phase, one entry per contract with a
// positive cost. The host is never reported.
func BuildReport(phase uint32, prevPhaseTimes []uint64, dataLock [types.DataLockSize]byte) *Report {
	r := &Report{Phase: phase, DataLock: dataLock}
	for i := 1; i < len(prevPhaseTimes); i++ {
		if prevPhaseTimes[i] > 0 {
			r.Entries = append(r.Entries, Entry{ContractIndex: uint32(i), Fee: prevPhaseTimes[i]})
		}
	}
	return r
}

// NewTransaction wraps the report in an unsigned zero value transaction
func NewTransaction(source types.ID, tick uint32, r *Report) (*types.Transaction, error) {
	input := r.Encode()
	if len(input) > types.MaxInputSize {
		return nil, errors.Wrapf(types.ErrTooManyEntries, "%d entries", len(r.Entries))
	}
	return &types.Transaction{
		Source:    source,
		Tick:      tick,
		InputType: types.ExecutionFeeReportInputType,
		InputSize: uint16(len(input)),
		Input:     input,
	}, nil
}
