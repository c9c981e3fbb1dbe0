// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the node configuration from toml
package config

import (
	"github.com/33cn/contractcore/types"
	tml "github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Init decode config file
func Init(path string) (*types.Config, error) {
	var cfg types.Config
	if _, err := tml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	return finish(&cfg)
}

// InitString decode config string
func InitString(s string) (*types.Config, error) {
	var cfg types.Config
	if _, err := tml.Decode(s, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return finish(&cfg)
}

func finish(cfg *types.Config) (*types.Config, error) {
	types.FillDefault(cfg)
	if err := Check(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check rejects settings the runtime can not honour
func Check(cfg *types.Config) error {
	// 超时回滚依赖的回滚机制尚未实现
	if cfg.Exec.RollbackOnTimeout {
		return errors.Wrap(types.ErrRollbackUnsupported, "exec.rollbackOnTimeout")
	}
	if cfg.Fee.ComputorCount < 0 {
		return errors.New("fee.computorCount must be positive")
	}
	switch cfg.Snapshot.Driver {
	case "file", "goleveldb", "leveldb", "gobadgerdb", "memdb":
	default:
		return errors.Errorf("unknown snapshot driver %s", cfg.Snapshot.Driver)
	}
	return nil
}
