// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hashmap

// 每个槽位 2 bit: 00 空, 01 占用, 10 已删除(墓碑)
const (
	flagEmpty    uint64 = 0
	flagOccupied uint64 = 1
	flagRemoved  uint64 = 2

	flagsPerWord = 32
	// low bit of every 2 bit group
	occupiedBits uint64 = 0x5555555555555555
)

func flagWords(capacity uint64) uint64 {
	return (capacity + flagsPerWord - 1) / flagsPerWord
}

func getFlag(flags []uint64, idx uint64) uint64 {
	return (flags[idx>>5] >> ((idx & 31) << 1)) & 3
}

func setFlag(flags []uint64, idx uint64, v uint64) {
	shift := (idx & 31) << 1
	flags[idx>>5] = flags[idx>>5]&^(3<<shift) | v<<shift
}

// encodedFlags flags of idx and the following slots of the same word, idx's
// flag in the lowest two bits
func encodedFlags(flags []uint64, idx uint64) uint64 {
	return flags[idx>>5] >> ((idx & 31) << 1)
}
