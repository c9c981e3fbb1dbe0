// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/binary"
	"encoding/hex"
)

// ID 32 字节的公钥/身份
type ID [IDSize]byte

// Hex hex string of the id
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether every byte is zero
func (id ID) IsZero() bool {
	return id == ID{}
}

// Transaction is the fixed header of a node transaction followed by its input
// and the signature over header+input.
//
// Layout (little endian):
//
//	source[32] destination[32] amount:i64 tick:u32 inputType:u16 inputSize:u16 input[inputSize] signature[64]
type Transaction struct {
	Source      ID
	Destination ID
	Amount      int64
	Tick        uint32
	InputType   uint16
	InputSize   uint16
	Input       []byte
	Signature   [SignatureSize]byte
}

// Size total encoded size
func (tx *Transaction) Size() int {
	return TransactionHeader + int(tx.InputSize) + SignatureSize
}

// Digest bytes covered by the signature
func (tx *Transaction) Digest() []byte {
	b := tx.Encode()
	return b[:len(b)-SignatureSize]
}

// Encode byte-exact encoding of the transaction
func (tx *Transaction) Encode() []byte {
	buf := make([]byte, TransactionHeader+len(tx.Input)+SignatureSize)
	copy(buf[0:], tx.Source[:])
	copy(buf[32:], tx.Destination[:])
	binary.LittleEndian.PutUint64(buf[64:], uint64(tx.Amount))
	binary.LittleEndian.PutUint32(buf[72:], tx.Tick)
	binary.LittleEndian.PutUint16(buf[76:], tx.InputType)
	binary.LittleEndian.PutUint16(buf[78:], tx.InputSize)
	copy(buf[TransactionHeader:], tx.Input)
	copy(buf[TransactionHeader+len(tx.Input):], tx.Signature[:])
	return buf
}

// DecodeTransaction parses a transaction; the declared input size must fit the buffer
func DecodeTransaction(b []byte) (*Transaction, error) {
	if len(b) < TransactionHeader+SignatureSize {
		return nil, ErrTxTooShort
	}
	tx := &Transaction{}
	copy(tx.Source[:], b[0:32])
	copy(tx.Destination[:], b[32:64])
	tx.Amount = int64(binary.LittleEndian.Uint64(b[64:]))
	tx.Tick = binary.LittleEndian.Uint32(b[72:])
	tx.InputType = binary.LittleEndian.Uint16(b[76:])
	tx.InputSize = binary.LittleEndian.Uint16(b[78:])
	if len(b) != tx.Size() {
		return nil, ErrTxTooShort
	}
	tx.Input = make([]byte, tx.InputSize)
	copy(tx.Input, b[TransactionHeader:])
	copy(tx.Signature[:], b[TransactionHeader+int(tx.InputSize):])
	return tx, nil
}
