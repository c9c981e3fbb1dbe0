// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db key value backends used to persist node snapshots
package db

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/inconshreveable/log15"
)

var dlog = log.New("module", "db")

// ErrNotFoundInDb key not found
var ErrNotFoundInDb = errors.New("ErrNotFoundInDb")

// DB key value store
type DB interface {
	Get([]byte) ([]byte, error)
	Set([]byte, []byte) error
	SetSync([]byte, []byte) error
	Delete([]byte) error
	// Keys lists every key with the prefix, in ascending order
	Keys(prefix []byte) ([][]byte, error)
	Close()
}

const (
	LevelDBBackendStr    = "leveldb" // legacy, defaults to goleveldb.
	GoLevelDBBackendStr  = "goleveldb"
	MemDBBackendStr      = "memdb"
	GoBadgerDBBackendStr = "gobadgerdb"
)

type dbCreator func(name string, dir string, cache int) (DB, error)

var (
	mu       sync.Mutex
	backends = map[string]dbCreator{}
)

func registerDBCreator(backend string, creator dbCreator, force bool) {
	mu.Lock()
	defer mu.Unlock()
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

// NewDB open a backend by name
func NewDB(name string, backend string, dir string, cache int) (DB, error) {
	mu.Lock()
	creator, ok := backends[backend]
	mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown db backend %s", backend)
	}
	db, err := creator(name, dir, cache)
	if err != nil {
		dlog.Error("NewDB", "backend", backend, "dir", dir, "err", err)
		return nil, err
	}
	return db, nil
}

// CopyBytes copy of b, nil stays nil
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return copiedBytes
}
