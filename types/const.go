// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// 合约运行时相关的常量，影响全网一致性，不要随便修改
const (
	// HostContractIndex 0 号合约保留给宿主(系统)，不能注册代码
	HostContractIndex uint32 = 0
	// MaxContractStateSize 单个合约状态的上限，超过在注册阶段直接 panic
	MaxContractStateSize uint64 = 1 << 30
	// MaxContractLocalsSize 单个入口点声明的局部变量(栈帧)上限
	MaxContractLocalsSize uint32 = 32 * 1024
	// MaxContractCount keeps the fee report input below 64K
	MaxContractCount = 1024
	// MaxNestedCallDepth nested call 的深度上限, 由调用上下文记录
	MaxNestedCallDepth = 10
)

// computor / phase
const (
	NumberOfComputors  = 676
	DefaultPhaseLength = 676
	// QuorumNumerator / QuorumDenominator select the agreed value at index count*2/3
	QuorumNumerator   = 2
	QuorumDenominator = 3
)

// transaction layout
const (
	IDSize            = 32
	SignatureSize     = 64
	DataLockSize      = 32
	TransactionHeader = IDSize + IDSize + 8 + 4 + 2 + 2
	MaxInputSize      = 1<<16 - 1

	// ExecutionFeeReportInputType 执行费用上报交易的类型
	ExecutionFeeReportInputType uint16 = 9
)

// DefaultFrequency default cycle counter frequency, cycles per second
const DefaultFrequency uint64 = 1e9

// MicrosecondsPerSecond accumulator time unit
const MicrosecondsPerSecond uint64 = 1e6
