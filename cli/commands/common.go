// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands contractcore-cli sub commands
package commands

import (
	"io"
	"math/big"

	"github.com/33cn/contractcore/common/config"
	"github.com/33cn/contractcore/snapshot"
	"github.com/33cn/contractcore/types"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func loadConfig(cmd *cobra.Command) (*types.Config, error) {
	path, _ := cmd.Flags().GetString("conf")
	if path == "" {
		return types.DefaultConfig(), nil
	}
	return config.Init(path)
}

func openStore(cmd *cobra.Command) (snapshot.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return snapshot.New(cfg.Snapshot)
}

// seconds renders microseconds as decimal seconds
func seconds(us uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(us), -6).String()
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}
