// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli contractcore command line tools
package cli

import (
	"fmt"
	"os"

	"github.com/33cn/contractcore/cli/commands"
	"github.com/33cn/contractcore/common/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contractcore-cli",
	Short: "contract core tools: fee reports, quorum and snapshots",
}

func init() {
	rootCmd.AddCommand(
		commands.ReportCmd(),
		commands.QuorumCmd(),
		commands.SnapshotCmd(),
		commands.VersionCmd(),
	)
	rootCmd.PersistentFlags().String("conf", "", "config file, defaults are used when empty")
}

// Run executes the root command
func Run() {
	log.SetLogLevel("error")
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
