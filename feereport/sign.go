// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feereport

import (
	"crypto/ed25519"

	"github.com/33cn/contractcore/types"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/crypto/sha3"
)

// Verifier checks the signature of a report transaction
type Verifier interface {
	Verify(tx *types.Transaction) bool
}

// Signer signs this node's report transactions
type Signer interface {
	ID() types.ID
	Sign(tx *types.Transaction)
}

// digest sha3-256 of the signed bytes
func digest(tx *types.Transaction) []byte {
	h := sha3.Sum256(tx.Digest())
	return h[:]
}

// Ed25519Verifier source id is the ed25519 public key
type Ed25519Verifier struct{}

// Verify signature over the transaction digest
func (Ed25519Verifier) Verify(tx *types.Transaction) bool {
	return ed25519.Verify(ed25519.PublicKey(tx.Source[:]), digest(tx), tx.Signature[:])
}

// Ed25519Signer signer backed by an ed25519 key
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

// NewEd25519Signer signer from a 32 byte seed
func NewEd25519Signer(seed []byte) *Ed25519Signer {
	return &Ed25519Signer{key: ed25519.NewKeyFromSeed(seed)}
}

// ID public key of the signer
func (s *Ed25519Signer) ID() types.ID {
	var id types.ID
	copy(id[:], s.key.Public().(ed25519.PublicKey))
	return id
}

// Sign fills the signature of tx
func (s *Ed25519Signer) Sign(tx *types.Transaction) {
	copy(tx.Signature[:], ed25519.Sign(s.key, digest(tx)))
}

// CachedVerifier remembers verification results by transaction hash, so a
// report seen again is not verified twice
type CachedVerifier struct {
	v     Verifier
	cache *lru.Cache
}

// NewCachedVerifier caches up to size results of v
func NewCachedVerifier(v Verifier, size int) (*CachedVerifier, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedVerifier{v: v, cache: cache}, nil
}

// Verify cached result of the wrapped verifier
func (c *CachedVerifier) Verify(tx *types.Transaction) bool {
	key := sha3.Sum256(tx.Encode())
	if ok, hit := c.cache.Get(key); hit {
		return ok.(bool)
	}
	ok := c.v.Verify(tx)
	c.cache.Add(key, ok)
	return ok
}
