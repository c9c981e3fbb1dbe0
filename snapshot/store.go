// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package snapshot saves and loads raw byte images of in-memory structures
package snapshot

import (
	"os"
	"path/filepath"

	"github.com/33cn/contractcore/common/db"
	clog "github.com/33cn/contractcore/common/log"
	"github.com/33cn/contractcore/types"
	"github.com/pkg/errors"
)

var slog = clog.New("module", "snapshot")

// Store named byte images
type Store interface {
	Save(name string, data []byte) error
	// Load returns types.ErrSnapshotNotFound when name was never saved
	Load(name string) ([]byte, error)
	Close()
}

// New store for the configured driver
func New(cfg *types.Snapshot) (Store, error) {
	if cfg.Driver == "file" {
		return NewFileStore(cfg.Dir)
	}
	kv, err := db.NewDB("snapshot", cfg.Driver, cfg.Dir, 16)
	if err != nil {
		return nil, errors.Wrapf(err, "open snapshot db %s", cfg.Driver)
	}
	return NewDBStore(kv), nil
}

// FileStore one file per image under dir
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create snapshot dir")
	}
	return &FileStore{dir: dir}, nil
}

// Save writes to a temp file and renames it over the old image
func (s *FileStore) Save(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write snapshot %s", name)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "rename snapshot %s", name)
	}
	slog.Debug("Save", "name", name, "size", len(data))
	return nil
}

// Load reads the image
func (s *FileStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, types.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", name)
	}
	return data, nil
}

// Close nothing to release
func (s *FileStore) Close() {}

var keyPrefix = []byte("snapshot-")

// DBStore images stored in a key value backend
type DBStore struct {
	kv db.DB
}

// NewDBStore wraps kv, the store owns it afterwards
func NewDBStore(kv db.DB) *DBStore {
	return &DBStore{kv: kv}
}

func dbKey(name string) []byte {
	return append(append([]byte{}, keyPrefix...), name...)
}

// Save set the image synchronously
func (s *DBStore) Save(name string, data []byte) error {
	if err := s.kv.SetSync(dbKey(name), data); err != nil {
		return errors.Wrapf(err, "save snapshot %s", name)
	}
	slog.Debug("Save", "name", name, "size", len(data))
	return nil
}

// Load get the image
func (s *DBStore) Load(name string) ([]byte, error) {
	data, err := s.kv.Get(dbKey(name))
	if err == db.ErrNotFoundInDb {
		return nil, types.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load snapshot %s", name)
	}
	return data, nil
}

// Names saved image names
func (s *DBStore) Names() ([]string, error) {
	keys, err := s.kv.Keys(keyPrefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, string(k[len(keyPrefix):]))
	}
	return names, nil
}

// Close closes the backend
func (s *DBStore) Close() {
	s.kv.Close()
}
