// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hashmap

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/33cn/contractcore/types"
	"golang.org/x/crypto/sha3"
)

// HashFunc maps a key to its 64 bit hash. Only the low bits are used for the
// ideal slot, so the function must spread entropy into them.
type HashFunc[K comparable] func(key K) uint64

// Digest first 8 bytes (little endian) of the sha3-256 digest of b
func Digest(b []byte) uint64 {
	h := sha3.Sum256(b)
	return binary.LittleEndian.Uint64(h[:8])
}

// IDHash uses the first 8 raw bytes of a 32 byte identity as its hash.
// Identities are already uniformly distributed public keys, no digest needed.
func IDHash(id types.ID) uint64 {
	return binary.LittleEndian.Uint64(id[:8])
}

// DefaultHash generic hash: identities take the fast path, everything else is
// encoded little endian and digested. K must be a fixed-size type or a string.
func DefaultHash[K comparable](key K) uint64 {
	switch k := any(key).(type) {
	case types.ID:
		return IDHash(k)
	case [32]byte:
		return IDHash(types.ID(k))
	case string:
		return Digest([]byte(k))
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, key); err != nil {
		panic(fmt.Sprintf("hashmap: key type %T has no fixed-size encoding: %v", key, err))
	}
	return Digest(buf.Bytes())
}
