// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dapp contract module interface, entry point tables and the
// registration of contracts in dependency order
package dapp

import (
	"encoding/binary"

	"github.com/33cn/contractcore/types"
)

// Descriptor static description of an installed contract
type Descriptor struct {
	Name string
	// first epoch the contract runs in, INITIALIZE runs at this epoch
	ConstructionEpoch uint16
	// first epoch the contract no longer runs in, 0 means never
	DestructionEpoch uint16
	// declared size of the contract state in bytes
	StateSize uint64
	// names of the contracts this one calls, all must be registered before it
	Dependencies []string
}

// IsActive construction <= epoch < destruction
func (d *Descriptor) IsActive(epoch uint16) bool {
	if epoch < d.ConstructionEpoch {
		return false
	}
	return d.DestructionEpoch == 0 || epoch < d.DestructionEpoch
}

// Contract a contract module
type Contract interface {
	Descriptor() Descriptor
	// NewState zero state of the contract
	NewState() interface{}
	// Register binds the contract's handlers to entry point ids
	Register(r Registrar)
}

// ContractID identity of the contract with the given index
func ContractID(index uint32) types.ID {
	var id types.ID
	binary.LittleEndian.PutUint64(id[:8], uint64(index))
	return id
}

// Context capability handed to a running entry point. It carries the
// invocation metadata and is the only way to reach other contracts.
type Context interface {
	ContractIndex() uint32
	ContractID() types.ID
	// Invocator immediate caller: user for top level calls, contract id for nested ones
	Invocator() types.ID
	// Originator source of the transaction that started the call chain
	Originator() types.ID
	InvocationReward() int64
	Tick() uint32
	Epoch() uint16
	// Depth 0 for top level calls
	Depth() int
	// CallFunction calls a read only function of a contract with a lower index
	CallFunction(target uint32, id uint16, input, output []byte) error
	// InvokeProcedure calls a procedure of a contract with a lower index
	InvokeProcedure(target uint32, id uint16, input, output []byte, reward int64) error
	// Transfer moves amount from this contract to destination, returns the remaining balance
	Transfer(destination types.ID, amount int64) (int64, error)
}

// Env host services backing a Context
type Env interface {
	Tick() uint32
	Epoch() uint16
	Transfer(source, destination types.ID, amount int64) (int64, error)
}
