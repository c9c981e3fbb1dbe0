// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

// Kind kind of entry point
type Kind uint8

// entry point kinds
const (
	KindSystem Kind = iota
	KindFunction
	KindProcedure
)

func (k Kind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindFunction:
		return "function"
	case KindProcedure:
		return "procedure"
	}
	return "unknown"
}

// SystemProcedureID lifecycle procedure id
type SystemProcedureID uint8

// lifecycle procedures
const (
	Initialize SystemProcedureID = iota
	BeginEpoch
	EndEpoch
	BeginTick
	EndTick
	PreReleaseShares
	PreAcquireShares
	PostReleaseShares
	PostAcquireShares
	PostIncomingTransfer

	SystemProcedureCount
)

var systemProcedureNames = [SystemProcedureCount]string{
	"INITIALIZE",
	"BEGIN_EPOCH",
	"END_EPOCH",
	"BEGIN_TICK",
	"END_TICK",
	"PRE_RELEASE_SHARES",
	"PRE_ACQUIRE_SHARES",
	"POST_RELEASE_SHARES",
	"POST_ACQUIRE_SHARES",
	"POST_INCOMING_TRANSFER",
}

func (id SystemProcedureID) String() string {
	if id < SystemProcedureCount {
		return systemProcedureNames[id]
	}
	return "UNKNOWN"
}

// Handler raw entry point. input and output have exactly the declared sizes,
// locals is zeroed and has the declared locals size.
type Handler func(ctx Context, state interface{}, input, output, locals []byte)

// ExpandHook grows the contract's storage
type ExpandHook func(ctx Context, state interface{})

// EntryPoint callable with its declared buffer sizes. A nil Fn is an unknown
// entry point and must never be called.
type EntryPoint struct {
	Fn         Handler
	InputSize  uint32
	OutputSize uint32
	LocalsSize uint32
}

// Valid whether the entry point has a handler
func (e EntryPoint) Valid() bool {
	return e.Fn != nil
}
