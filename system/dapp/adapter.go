// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/33cn/contractcore/types"
)

// NewEntryPoint typed entry point. In, Out and Locals must be fixed-size types
// (encoding/binary rules); their sizes become the declared sizes and buffers
// are (de)coded little endian. Functions must treat state as read only.
func NewEntryPoint[S, In, Out, Locals any](fn func(ctx Context, state *S, in *In, out *Out, locals *Locals)) EntryPoint {
	return EntryPoint{
		InputSize:  fixedSize[In](),
		OutputSize: fixedSize[Out](),
		LocalsSize: fixedSize[Locals](),
		Fn: func(ctx Context, state interface{}, input, output, locals []byte) {
			var (
				in  In
				out Out
				loc Locals
			)
			if err := binary.Read(bytes.NewReader(input), binary.LittleEndian, &in); err != nil {
				panic(fmt.Sprintf("dapp: decode input: %v", err))
			}
			s, _ := state.(*S)
			fn(ctx, s, &in, &out, &loc)
			var buf bytes.Buffer
			if err := binary.Write(&buf, binary.LittleEndian, &out); err != nil {
				panic(fmt.Sprintf("dapp: encode output: %v", err))
			}
			copy(output, buf.Bytes())
		},
	}
}

func fixedSize[T any]() uint32 {
	var v T
	n := binary.Size(&v)
	if n < 0 {
		panic(fmt.Sprintf("dapp: %T: %v", v, types.ErrNonFixedSize))
	}
	return uint32(n)
}

// Encode little endian encoding of a fixed-size value, for callers building inputs
func Encode(v interface{}) []byte {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		panic(fmt.Sprintf("dapp: encode %T: %v", v, err))
	}
	return buf.Bytes()
}

// Decode fills v from a little endian buffer
func Decode(b []byte, v interface{}) error {
	return binary.Read(bytes.NewReader(b), binary.LittleEndian, v)
}

// Buffer zeroed buffer with the encoded size of v's type
func Buffer(v interface{}) []byte {
	n := binary.Size(v)
	if n < 0 {
		panic(fmt.Sprintf("dapp: %T: %v", v, types.ErrNonFixedSize))
	}
	return make([]byte, n)
}
